package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq" // драйвер "postgres" для отдельного подключения мигратора

	"passcode-app/internal/database/migrations"
	"passcode-app/pkg/logger"
)

var (
	// ErrNoChange возвращается, когда нет миграций для применения.
	ErrNoChange = errors.New("no change")

	// ErrDirtyState возвращается, когда миграция была прервана
	// и схема требует ручного вмешательства (см. Force).
	ErrDirtyState = errors.New("database is in dirty state")
)

// Migrator управляет версиями схемы БД через golang-migrate
// и встроенные SQL-файлы из пакета migrations.
type Migrator struct {
	m     *migrate.Migrate
	owned *sql.DB // соединение, открытое самим мигратором
	log   logger.Logger
}

// NewMigrator создаёт мигратор поверх существующего подключения.
// Close мигратора это подключение не закрывает.
func NewMigrator(db *DB) (*Migrator, error) {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения sql.DB: %w", err)
	}
	return newMigrator(sqlDB, nil, db.log)
}

// NewMigratorFromDSN открывает отдельное подключение через lib/pq
// и создаёт мигратор, который владеет этим подключением.
func NewMigratorFromDSN(dsn string, log logger.Logger) (*Migrator, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия подключения: %w", err)
	}

	m, err := newMigrator(sqlDB, sqlDB, log)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return m, nil
}

func newMigrator(sqlDB, owned *sql.DB, log logger.Logger) (*Migrator, error) {
	ctx := context.Background()
	// WithInstance закрывает переданный *sql.DB в Close, поэтому драйверу
	// отдаётся только отдельное соединение из пула.
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения соединения: %w", err)
	}

	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ошибка создания драйвера PostgreSQL: %w", err)
	}

	source, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("ошибка создания источника миграций: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("ошибка создания экземпляра migrate: %w", err)
	}

	return &Migrator{m: m, owned: owned, log: log}, nil
}

// Close освобождает источник миграций и, если мигратор сам открывал
// подключение, закрывает его.
func (m *Migrator) Close() error {
	if m.m == nil {
		return nil
	}
	sourceErr, dbErr := m.m.Close()
	if sourceErr != nil {
		return fmt.Errorf("ошибка закрытия источника миграций: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("ошибка закрытия драйвера БД: %w", dbErr)
	}
	if m.owned != nil {
		if err := m.owned.Close(); err != nil {
			return fmt.Errorf("ошибка закрытия подключения мигратора: %w", err)
		}
	}
	return nil
}

// Up применяет все доступные миграции.
// Возвращает ErrNoChange, если схема уже актуальна.
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil {
		return m.wrap("ошибка применения миграций", err)
	}
	m.log.Info("все миграции применены", nil)
	return nil
}

// Down откатывает последнюю применённую миграцию.
func (m *Migrator) Down() error {
	if err := m.m.Steps(-1); err != nil {
		return m.wrap("ошибка отката миграции", err)
	}
	m.log.Info("последняя миграция откатилась", nil)
	return nil
}

// Steps применяет (n > 0) или откатывает (n < 0) n миграций.
func (m *Migrator) Steps(n int) error {
	if n == 0 {
		return ErrNoChange
	}
	if err := m.m.Steps(n); err != nil {
		return m.wrap(fmt.Sprintf("ошибка применения %d шагов миграции", n), err)
	}
	m.log.Info("шаги миграции применены", map[string]any{"steps": n})
	return nil
}

// Version возвращает текущую версию схемы и признак «грязного» состояния.
// Если миграции не применялись, версия 0.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("ошибка получения версии: %w", err)
	}
	return version, dirty, nil
}

// Force записывает версию без выполнения миграций.
// Нужен только для выхода из грязного состояния.
func (m *Migrator) Force(version int) error {
	if err := m.m.Force(version); err != nil {
		return fmt.Errorf("ошибка принудительной установки версии %d: %w", version, err)
	}
	m.log.Warn("версия миграции установлена принудительно", map[string]any{"version": version})
	return nil
}

// CheckDirty возвращает ErrDirtyState, если схема в грязном состоянии.
func (m *Migrator) CheckDirty() error {
	_, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if dirty {
		return ErrDirtyState
	}
	return nil
}

func (m *Migrator) wrap(msg string, err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return ErrNoChange
	}
	var dirty migrate.ErrDirty
	if errors.As(err, &dirty) {
		return fmt.Errorf("%s: версия %d: %w", msg, dirty.Version, ErrDirtyState)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
