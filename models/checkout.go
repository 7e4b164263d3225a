package models

import (
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"
	PaymentEsewa  PaymentMethod = "ESEWA"
	PaymentKhalti PaymentMethod = "KHALTI"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCOD, PaymentEsewa, PaymentKhalti:
		return true
	}
	return false
}

// Gateway reports whether the method completes off-site.
func (m PaymentMethod) Gateway() bool {
	return m == PaymentEsewa || m == PaymentKhalti
}

// ShippingLocation is the delivery-zone flag that drives the shipping fee.
type ShippingLocation string

const (
	InsideValley  ShippingLocation = "INSIDE_VALLEY"
	OutsideValley ShippingLocation = "OUTSIDE_VALLEY"
)

func ShippingLocationFor(insideValley bool) ShippingLocation {
	if insideValley {
		return InsideValley
	}
	return OutsideValley
}

type CheckoutStep string

const (
	StepInfo        CheckoutStep = "STEP_INFO"
	StepShipping    CheckoutStep = "STEP_SHIPPING"
	StepPayment     CheckoutStep = "STEP_PAYMENT"
	StepSubmitting  CheckoutStep = "SUBMITTING"
	StepSuccess     CheckoutStep = "SUCCESS"
	StepRedirecting CheckoutStep = "REDIRECTING"
	StepFailed      CheckoutStep = "FAILED"
)

// IsTerminal reports whether the wizard has finished with this attempt.
func (s CheckoutStep) IsTerminal() bool {
	return s == StepSuccess || s == StepRedirecting || s == StepFailed
}

// CheckoutDraft is the in-progress order. It lives only as long as the
// checkout session that owns it.
type CheckoutDraft struct {
	FullName      string        `json:"fullName"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Street        string        `json:"street"`
	Landmark      string        `json:"landmark"`
	City          string        `json:"city"`
	District      string        `json:"district"`
	PostalCode    string        `json:"postalCode"`
	InsideValley  bool          `json:"insideValley"`
	DeliveryTime  string        `json:"deliveryTime"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Note          string        `json:"note"`
	AcceptTerms   bool          `json:"acceptTerms"`
	SaveAddress   bool          `json:"saveAddress"`
}

// DraftPatch carries a partial edit; nil fields are left untouched.
type DraftPatch struct {
	FullName      *string        `json:"fullName"`
	Email         *string        `json:"email"`
	Phone         *string        `json:"phone"`
	Street        *string        `json:"street"`
	Landmark      *string        `json:"landmark"`
	City          *string        `json:"city"`
	District      *string        `json:"district"`
	PostalCode    *string        `json:"postalCode"`
	InsideValley  *bool          `json:"insideValley"`
	DeliveryTime  *string        `json:"deliveryTime"`
	PaymentMethod *PaymentMethod `json:"paymentMethod"`
	Note          *string        `json:"note"`
	AcceptTerms   *bool          `json:"acceptTerms"`
	SaveAddress   *bool          `json:"saveAddress"`
}

func (p DraftPatch) Apply(d *CheckoutDraft) {
	setString(&d.FullName, p.FullName)
	setString(&d.Email, p.Email)
	setString(&d.Phone, p.Phone)
	setString(&d.Street, p.Street)
	setString(&d.Landmark, p.Landmark)
	setString(&d.City, p.City)
	setString(&d.District, p.District)
	setString(&d.PostalCode, p.PostalCode)
	setString(&d.DeliveryTime, p.DeliveryTime)
	setString(&d.Note, p.Note)
	if p.InsideValley != nil {
		d.InsideValley = *p.InsideValley
	}
	if p.PaymentMethod != nil {
		d.PaymentMethod = *p.PaymentMethod
	}
	if p.AcceptTerms != nil {
		d.AcceptTerms = *p.AcceptTerms
	}
	if p.SaveAddress != nil {
		d.SaveAddress = *p.SaveAddress
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// PricePreview is the backend's advisory estimate. Stale is set when the
// gateway is showing a fallback because the live preview failed.
type PricePreview struct {
	Subtotal          decimal.Decimal `json:"subtotal"`
	ShippingFee       decimal.Decimal `json:"shippingFee"`
	Discount          decimal.Decimal `json:"discount"`
	GrandTotal        decimal.Decimal `json:"grandTotal"`
	EstimatedDelivery string          `json:"estimatedDelivery"`
	Stale             bool            `json:"stale"`
	Calculating       bool            `json:"calculating"`
}

// PreviewItem is one line sent for a price preview or a direct order.
type PreviewItem struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color,omitempty"`
	Storage   string `json:"storage,omitempty"`
}

func PreviewItemsOf(c Cart) []PreviewItem {
	items := make([]PreviewItem, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, PreviewItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Color:     l.Color,
			Storage:   l.Storage,
		})
	}
	return items
}

// CheckoutView is what the checkout routes return.
type CheckoutView struct {
	Step            CheckoutStep     `json:"step"`
	Draft           CheckoutDraft    `json:"draft"`
	Error           *ApiError        `json:"error,omitempty"`
	Cart            *CartView        `json:"cart,omitempty"`
	Preview         *PricePreview    `json:"preview,omitempty"`
	Order           *AggregatedOrder `json:"order,omitempty"`
	Next            string           `json:"next,omitempty"`
	RedirectAfterMs int64            `json:"redirectAfterMs,omitempty"`
}
