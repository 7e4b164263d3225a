package models

// LoginRequest is forwarded to the backend's login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResult is the backend's answer to a successful login.
type LoginResult struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// MergeReport summarizes a guest-cart merge. It is logged, not surfaced as an
// error.
type MergeReport struct {
	Merged int `json:"merged"`
	Failed int `json:"failed"`
}

// SessionView is returned by the login and identity routes.
type SessionView struct {
	DeviceID      string       `json:"deviceId"`
	UserID        int64        `json:"userId,omitempty"`
	Name          string       `json:"name,omitempty"`
	Authenticated bool         `json:"authenticated"`
	Merge         *MergeReport `json:"merge,omitempty"`
	ItemCount     int          `json:"itemCount"`
	Token         string       `json:"token,omitempty"`
}
