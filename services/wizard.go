package services

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/Modeva-Ecommerce/modeva-storefront/models"
	"github.com/go-playground/validator/v10"
)

// Step gates. Each forward transition validates only its own fields.
type infoGate struct {
	FullName string `json:"fullName" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
}

type shippingGate struct {
	Street string `json:"street" validate:"required"`
	City   string `json:"city" validate:"required"`
}

type paymentGate struct {
	PaymentMethod models.PaymentMethod `json:"paymentMethod" validate:"required,oneof=COD ESEWA KHALTI"`
}

type termsGate struct {
	AcceptTerms bool `json:"acceptTerms" validate:"eq=true"`
}

var gateValidator = newGateValidator()

func newGateValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkGate validates gate and converts failures into a 400 listing the
// offending fields.
func checkGate(gate any, message string) error {
	err := gateValidator.Struct(gate)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return models.NewValidationError(message)
	}
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		names = append(names, fe.Field())
	}
	return models.NewValidationError(message, names...)
}

func trimmed(s string) string { return strings.TrimSpace(s) }

// Wizard is the linear checkout state machine over one draft.
//
//	STEP_INFO -> STEP_SHIPPING -> STEP_PAYMENT -> SUBMITTING -> SUCCESS | FAILED
//
// SUBMITTING may also end in REDIRECTING when a payment gateway takes over.
// Backward moves never touch the draft.
type Wizard struct {
	Step      models.CheckoutStep
	Draft     models.CheckoutDraft
	LastError *models.ApiError
}

func NewWizard() *Wizard {
	return &Wizard{
		Step:  models.StepInfo,
		Draft: models.CheckoutDraft{PaymentMethod: models.PaymentCOD},
	}
}

func errCheckoutFinished() error {
	return models.NewApiError(http.StatusConflict, "This checkout has already finished", nil)
}

// ErrSubmissionInFlight is returned when an order is already being placed
// for this checkout.
var ErrSubmissionInFlight = errors.New("Your order is already being placed")

func errSubmissionInFlight() error {
	return models.WrapError(http.StatusConflict, ErrSubmissionInFlight)
}

func (w *Wizard) busy() error {
	if w.Step == models.StepSubmitting {
		return errSubmissionInFlight()
	}
	if w.Step.IsTerminal() {
		return errCheckoutFinished()
	}
	return nil
}

// Edit applies a partial change to the draft.
func (w *Wizard) Edit(patch models.DraftPatch) error {
	if err := w.busy(); err != nil {
		return err
	}
	patch.Apply(&w.Draft)
	return nil
}

// Next validates the current step and advances. A refused transition keeps
// both the step and the draft as they were.
func (w *Wizard) Next() error {
	if err := w.busy(); err != nil {
		return err
	}
	var err error
	switch w.Step {
	case models.StepInfo:
		err = checkGate(infoGate{
			FullName: trimmed(w.Draft.FullName),
			Phone:    trimmed(w.Draft.Phone),
		}, "Please enter your full name and phone number")
		if err == nil {
			w.Step = models.StepShipping
		}
	case models.StepShipping:
		err = checkGate(shippingGate{
			Street: trimmed(w.Draft.Street),
			City:   trimmed(w.Draft.City),
		}, "Please enter your street address and city")
		if err == nil {
			w.Step = models.StepPayment
		}
	case models.StepPayment:
		err = models.NewApiError(http.StatusBadRequest, "Use submit to place the order", nil)
	}
	w.record(err)
	return err
}

// Back always succeeds from a data-entry step.
func (w *Wizard) Back() error {
	if err := w.busy(); err != nil {
		return err
	}
	switch w.Step {
	case models.StepShipping:
		w.Step = models.StepInfo
	case models.StepPayment:
		w.Step = models.StepShipping
	}
	w.LastError = nil
	return nil
}

// ValidateForSubmit runs every gate plus the terms check. The cart check
// lives with the caller.
func (w *Wizard) ValidateForSubmit() error {
	if err := w.busy(); err != nil {
		return err
	}
	if w.Step != models.StepPayment {
		return models.NewApiError(http.StatusBadRequest, "Complete the previous steps before placing the order", map[string]any{"step": w.Step})
	}
	d := w.Draft
	if err := checkGate(infoGate{FullName: trimmed(d.FullName), Phone: trimmed(d.Phone)}, "Please enter your full name and phone number"); err != nil {
		return err
	}
	if err := checkGate(shippingGate{Street: trimmed(d.Street), City: trimmed(d.City)}, "Please enter your street address and city"); err != nil {
		return err
	}
	if err := checkGate(paymentGate{PaymentMethod: d.PaymentMethod}, "Please choose a payment method"); err != nil {
		return err
	}
	return checkGate(termsGate{AcceptTerms: d.AcceptTerms}, "Please accept the terms and conditions")
}

// BeginSubmit moves into SUBMITTING. It refuses re-entry.
func (w *Wizard) BeginSubmit() error {
	if w.Step == models.StepSubmitting {
		return errSubmissionInFlight()
	}
	if err := w.ValidateForSubmit(); err != nil {
		w.record(err)
		return err
	}
	w.Step = models.StepSubmitting
	w.LastError = nil
	return nil
}

// Retry sends a failed submission back to the payment step with err kept
// for display.
func (w *Wizard) Retry(err error) {
	w.Step = models.StepPayment
	w.record(err)
}

func (w *Wizard) Succeed()  { w.Step = models.StepSuccess }
func (w *Wizard) Redirect() { w.Step = models.StepRedirecting }

// Fail ends the attempt.
func (w *Wizard) Fail(err error) {
	w.Step = models.StepFailed
	w.record(err)
}

func (w *Wizard) record(err error) {
	if err == nil {
		w.LastError = nil
		return
	}
	w.LastError = models.AsApiError(err)
}
