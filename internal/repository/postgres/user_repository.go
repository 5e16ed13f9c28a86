package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "passcode-app/internal/domain/user"
	repo "passcode-app/internal/repository/interfaces"
	"passcode-app/pkg/passcode"
)

const uuidUniqueIndex = "idx_users_uuid_unique"

// pgUser представляет собой ORM-модель для таблицы users.
// Колонка code имеет тип-домен users.passcode; passcode.Code сам
// кодирует и проверяет значение через driver.Valuer / sql.Scanner.
type pgUser struct {
	ID        int64         `gorm:"column:id;type:bigserial;primaryKey"`
	UUID      string        `gorm:"column:uuid;type:uuid;not null"`
	Code      passcode.Code `gorm:"column:code;type:users.passcode;not null"`
	CreatedAt time.Time     `gorm:"column:created_at;type:timestamptz;not null"`
}

func (pgUser) TableName() string {
	return "users"
}

// toDomain маппит ORM-модель в доменную.
func (m *pgUser) toDomain() (*domain.User, error) {
	id, err := uuid.Parse(m.UUID)
	if err != nil {
		return nil, fmt.Errorf("%w: uuid: %w", repo.ErrCorruptRecord, err)
	}

	// Для NULL gorm не вызывает Scan, и поле остаётся нулевым Code{}.
	if m.Code.IsZero() {
		return nil, fmt.Errorf("%w: %w", repo.ErrCorruptRecord, passcode.ErrNullCode)
	}
	if _, err := m.Code.Value(); err != nil {
		return nil, fmt.Errorf("%w: %w", repo.ErrCorruptRecord, err)
	}

	return &domain.User{
		ID:        m.ID,
		UUID:      id,
		Code:      m.Code,
		CreatedAt: m.CreatedAt,
	}, nil
}

// fromDomain маппит доменную модель в ORM-модель.
func fromDomain(u *domain.User) *pgUser {
	return &pgUser{
		ID:        u.ID,
		UUID:      u.UUID.String(),
		Code:      u.Code,
		CreatedAt: u.CreatedAt,
	}
}

// UserRepository реализует repo.UserRepository с использованием GORM и Postgres.
type UserRepository struct {
	db *gorm.DB
}

// Убедимся на этапе компиляции, что структура реализует интерфейс.
var _ repo.UserRepository = (*UserRepository)(nil)

// NewUserRepository создает новый репозиторий пользователей.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// isUniqueViolation проверяет, является ли ошибка нарушением уникального ограничения PostgreSQL
// (код 23505) для указанного индекса.
func isUniqueViolation(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && strings.EqualFold(pgErr.ConstraintName, constraintName)
	}
	return false
}

// decodeErr переводит ошибку проверки кода при чтении в ErrCorruptRecord.
func decodeErr(err error) error {
	if errors.Is(err, passcode.ErrLengthMismatch) ||
		errors.Is(err, passcode.ErrInvalidDigit) ||
		errors.Is(err, passcode.ErrNullCode) ||
		errors.Is(err, passcode.ErrUnsupportedType) {
		return fmt.Errorf("%w: %w", repo.ErrCorruptRecord, err)
	}
	return err
}

// checkCode проверяет код до запроса: database/sql не оборачивает
// ошибку driver.Valuer, и без проверки тип ошибки теряется.
func checkCode(c passcode.Code) error {
	_, err := c.Value()
	return err
}

// Create создает нового пользователя в БД.
// ID назначается БД через RETURNING.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := checkCode(user.Code); err != nil {
		return err
	}

	model := fromDomain(user)
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now().UTC()
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err, uuidUniqueIndex) {
			return repo.ErrUUIDExists
		}
		return err
	}

	user.ID = model.ID
	user.CreatedAt = model.CreatedAt
	return nil
}

// oneByCondition возвращает одну запись по условию.
func (r *UserRepository) oneByCondition(ctx context.Context, query string, args ...interface{}) (*domain.User, error) {
	var model pgUser
	err := r.db.WithContext(ctx).
		Where(query, args...).
		Take(&model).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, decodeErr(err)
	}
	return model.toDomain()
}

// GetByID возвращает пользователя по внутреннему идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.oneByCondition(ctx, "id = ?", id)
}

// GetByUUID возвращает пользователя по UUID.
func (r *UserRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.oneByCondition(ctx, "uuid = ?", id.String())
}

// List возвращает пользователей от новых к старым.
// limit <= 0 означает «без ограничения».
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	q := r.db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	var models []pgUser
	if err := q.Find(&models).Error; err != nil {
		return nil, decodeErr(err)
	}

	users := make([]*domain.User, 0, len(models))
	for i := range models {
		u, err := models[i].toDomain()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// UpdateCode записывает новый код пользователя.
func (r *UserRepository) UpdateCode(ctx context.Context, user *domain.User) error {
	if err := checkCode(user.Code); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&pgUser{}).
		Where("uuid = ?", user.UUID.String()).
		Update("code", user.Code)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// Delete удаляет пользователя по UUID.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("uuid = ?", id.String()).
		Delete(&pgUser{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
