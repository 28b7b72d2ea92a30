package auth

// HttpResp represents the standard HTTP response structure.
// swagger:model
type HttpResp struct {
	Status  string      `json:"status" example:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message" example:"Operation completed successfully"`
}

// UserRecord is the provisioned local identity. UID is derived from the
// provider's immutable member id; every other field may change between
// logins.
type UserRecord struct {
	UID           string `json:"uid"`
	DisplayName   string `json:"display_name"`
	PhotoURL      string `json:"photo_url"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// TokenResponse carries the minted session credential back to the client.
type TokenResponse struct {
	Token string `json:"token"`
}

// StatusResponse defines the structure of the /status response.
type StatusResponse struct {
	Authenticated bool       `json:"authenticated"`
	User          UserRecord `json:"user,omitempty"`
	Message       string     `json:"message,omitempty"`
}
