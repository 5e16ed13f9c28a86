package user

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	domain "passcode-app/internal/domain/user"
	repo "passcode-app/internal/repository/interfaces"
	"passcode-app/pkg/logger"
	"passcode-app/pkg/passcode"
)

// Ошибки бизнес-логики usecase-слоя.
var (
	ErrInvalidPasscode  = errors.New("passcode must be 24 digits")
	ErrPasscodeMismatch = errors.New("invalid uuid or passcode")
)

// Service описывает usecase-слой для пользователей с кодом доступа.
type Service interface {
	// Generate создаёт пользователя со случайными UUID и кодом и сохраняет его.
	Generate(ctx context.Context) (*domain.User, error)

	// Get возвращает пользователя по UUID.
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// List возвращает страницу пользователей, начиная с новых.
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)

	// Verify проверяет код пользователя.
	// Возвращает ErrInvalidPasscode, если кандидат не из 24 цифр,
	// и ErrPasscodeMismatch, если пользователя нет или код не совпал.
	Verify(ctx context.Context, id uuid.UUID, candidate string) (*domain.User, error)

	// Rotate заменяет код пользователя новым и возвращает обновлённого пользователя.
	Rotate(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// Delete удаляет пользователя.
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	users  repo.UserRepository
	random io.Reader
	log    logger.Logger
}

// NewService создаёт сервис пользователей.
// random отдаёт случайные байты для UUID и кодов; в production это crypto/rand.Reader.
func NewService(users repo.UserRepository, random io.Reader, log logger.Logger) Service {
	return &service{
		users:  users,
		random: random,
		log:    log,
	}
}

// Generate создаёт и сохраняет нового пользователя.
func (s *service) Generate(ctx context.Context) (*domain.User, error) {
	user, err := domain.NewUser(s.random)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store user: %w", err)
	}

	s.log.Info("user generated", map[string]any{
		"id":   user.ID,
		"uuid": user.UUID.String(),
	})
	return user, nil
}

// Get возвращает пользователя по UUID.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByUUID(ctx, id)
	if err != nil {
		s.logCorrupt(err, id)
		return nil, err
	}
	return user, nil
}

// List возвращает страницу пользователей.
func (s *service) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("limit and offset must not be negative")
	}
	return s.users.List(ctx, limit, offset)
}

// Verify проверяет код пользователя за постоянное время.
func (s *service) Verify(ctx context.Context, id uuid.UUID, candidate string) (*domain.User, error) {
	code, err := passcode.Parse(candidate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPasscode, err)
	}

	user, err := s.users.GetByUUID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPasscodeMismatch
		}
		s.logCorrupt(err, id)
		return nil, err
	}

	if !user.CheckCode(code) {
		s.log.Warn("passcode mismatch", map[string]any{"uuid": id.String()})
		return nil, ErrPasscodeMismatch
	}
	return user, nil
}

// Rotate генерирует пользователю новый код.
func (s *service) Rotate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByUUID(ctx, id)
	if err != nil {
		s.logCorrupt(err, id)
		return nil, err
	}

	if err := user.RotateCode(s.random); err != nil {
		return nil, err
	}
	if err := s.users.UpdateCode(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store rotated passcode: %w", err)
	}

	s.log.Info("passcode rotated", map[string]any{"uuid": id.String()})
	return user, nil
}

// Delete удаляет пользователя.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("user deleted", map[string]any{"uuid": id.String()})
	return nil
}

func (s *service) logCorrupt(err error, id uuid.UUID) {
	if errors.Is(err, repo.ErrCorruptRecord) {
		s.log.Error("corrupt stored user", map[string]any{
			"uuid": id.String(),
			"err":  err.Error(),
		})
	}
}
