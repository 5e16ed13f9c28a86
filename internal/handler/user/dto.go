package user

import (
	"time"

	domain "passcode-app/internal/domain/user"
)

// CreatedResponse возвращается при создании пользователя и при смене кода.
// Это единственные ответы, в которых код передаётся клиенту.
type CreatedResponse struct {
	ID        int64     `json:"id"`
	UUID      string    `json:"uuid"`
	Passcode  string    `json:"passcode" example:"123456789012345678901234"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileResponse описывает пользователя без кода.
type ProfileResponse struct {
	ID        int64     `json:"id"`
	UUID      string    `json:"uuid"`
	CreatedAt time.Time `json:"created_at"`
}

func toCreatedResponse(u *domain.User) CreatedResponse {
	return CreatedResponse{
		ID:        u.ID,
		UUID:      u.UUID.String(),
		Passcode:  u.Code.String(),
		CreatedAt: u.CreatedAt,
	}
}

func toProfileResponse(u *domain.User) ProfileResponse {
	return ProfileResponse{
		ID:        u.ID,
		UUID:      u.UUID.String(),
		CreatedAt: u.CreatedAt,
	}
}
