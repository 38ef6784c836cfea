package dto

// PasswordResetResponse surfaces the issued reset token. Mail delivery is
// stubbed; clients present the token on the confirm endpoint.
type PasswordResetResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}
