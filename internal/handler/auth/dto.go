package auth

import "time"

// VerifyRequest описывает тело запроса проверки кода.
// Формат кода проверяет usecase через passcode.Parse.
type VerifyRequest struct {
	UUID     string `json:"uuid" binding:"required,uuid"`
	Passcode string `json:"passcode" binding:"required" example:"123456789012345678901234"`
}

// TokenResponse возвращается при успешной проверке кода.
type TokenResponse struct {
	UUID        string    `json:"uuid"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}
