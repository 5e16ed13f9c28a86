package user

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"passcode-app/pkg/passcode"
)

// User представляет пользователя, идентифицируемого UUID и цифровым кодом доступа.
//
// Модель не зависит от транспорта (HTTP, CLI) и представления в БД.
type User struct {
	ID        int64         // Идентификатор записи (BIGSERIAL), назначается БД
	UUID      uuid.UUID     // Публичный идентификатор
	Code      passcode.Code // Код доступа из passcode.Len цифр
	CreatedAt time.Time     // Время создания, назначается БД
}

// NewUser создаёт пользователя, беря UUID и код из одного источника случайных байтов.
// ID и CreatedAt заполняются при сохранении.
func NewUser(r io.Reader) (*User, error) {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to generate uuid: %w", err)
	}

	code, err := passcode.Generate(r)
	if err != nil {
		return nil, fmt.Errorf("failed to generate passcode: %w", err)
	}

	return &User{
		UUID: id,
		Code: code,
	}, nil
}

// RotateCode заменяет код пользователя новым, взятым из r.
// При ошибке источника прежний код сохраняется.
func (u *User) RotateCode(r io.Reader) error {
	code, err := passcode.Generate(r)
	if err != nil {
		return fmt.Errorf("failed to generate passcode: %w", err)
	}
	u.Code = code
	return nil
}

// CheckCode сравнивает кандидата с кодом пользователя за постоянное время.
func (u *User) CheckCode(candidate passcode.Code) bool {
	return u.Code.Equal(candidate)
}
