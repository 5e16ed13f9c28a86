package interfaces

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domain "passcode-app/internal/domain/user"
)

// ErrNotFound возвращается, когда сущность не найдена в хранилище.
var ErrNotFound = errors.New("entity not found")

// ErrUUIDExists возвращается, когда пользователь с таким UUID уже существует.
var ErrUUIDExists = errors.New("uuid already exists")

// ErrCorruptRecord возвращается, когда сохранённые данные не проходят проверку
// при чтении (например, код не из 24 цифр). Исходная ошибка доступна через errors.Is.
var ErrCorruptRecord = errors.New("corrupt stored record")

// UserRepository определяет контракт хранилища пользователей.
//
// Интерфейс оперирует доменной моделью User и не раскрывает деталей реализации (GORM, SQL и т.п.).
type UserRepository interface {
	// Create сохраняет пользователя и заполняет ID и CreatedAt.
	// Возвращает ErrUUIDExists, если UUID уже занят.
	Create(ctx context.Context, user *domain.User) error

	// GetByID возвращает пользователя по внутреннему идентификатору.
	// Возвращает (nil, ErrNotFound), если записи нет.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByUUID возвращает пользователя по UUID.
	// Возвращает (nil, ErrNotFound), если записи нет.
	GetByUUID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// List возвращает пользователей, начиная с самых новых.
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)

	// UpdateCode записывает новый код пользователя.
	UpdateCode(ctx context.Context, user *domain.User) error

	// Delete удаляет пользователя по UUID.
	Delete(ctx context.Context, id uuid.UUID) error
}
