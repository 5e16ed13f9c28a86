package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"passcode-app/internal/config"
	"passcode-app/pkg/logger"
)

// Значения пула соединений, если в конфигурации указан 0
const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnMaxIdleTime = 10 * time.Minute
)

// DB представляет подключение к базе данных
type DB struct {
	*gorm.DB
	log logger.Logger
}

// NewConnection открывает подключение к PostgreSQL, настраивает пул и проверяет связь.
//
//	db, err := database.NewConnection(ctx, &cfg.Database, cfg.AppEnv, log)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
func NewConnection(ctx context.Context, cfg *config.DatabaseConfig, appEnv string, log logger.Logger) (*DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("конфигурация базы данных не может быть nil")
	}

	log.Info("инициализация подключения к базе данных", map[string]any{"target": cfg.Target()})

	gdb, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig(appEnv))
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения sql.DB: %w", err)
	}
	configurePool(sqlDB, cfg)

	db := &DB{DB: gdb, log: log}
	if err := db.Ping(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	log.Info("подключение к базе данных установлено", nil)
	return db, nil
}

// NewWithConn оборачивает уже открытое соединение (например, sqlmock в тестах).
// Пул и Ping не трогаются.
func NewWithConn(conn *sql.DB, appEnv string, log logger.Logger) (*DB, error) {
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), gormConfig(appEnv))
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации GORM: %w", err)
	}
	return &DB{DB: gdb, log: log}, nil
}

func gormConfig(appEnv string) *gorm.Config {
	// В development логируем все SQL-запросы
	gl := gormlogger.Default.LogMode(gormlogger.Warn)
	if strings.EqualFold(appEnv, "development") {
		gl = gormlogger.Default.LogMode(gormlogger.Info)
	}
	// Каждая операция репозитория выполняет один запрос, отдельная транзакция не нужна
	return &gorm.Config{Logger: gl, SkipDefaultTransaction: true}
}

func configurePool(sqlDB *sql.DB, cfg *config.DatabaseConfig) {
	sqlDB.SetMaxOpenConns(orDefault(cfg.MaxOpenConns, defaultMaxOpenConns))
	sqlDB.SetMaxIdleConns(orDefault(cfg.MaxIdleConns, defaultMaxIdleConns))
	sqlDB.SetConnMaxLifetime(orDefault(cfg.ConnMaxLifetime, defaultConnMaxLifetime))
	sqlDB.SetConnMaxIdleTime(orDefault(cfg.ConnMaxIdleTime, defaultConnMaxIdleTime))
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// Close закрывает подключение к базе данных.
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("ошибка получения sql.DB для закрытия: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия подключения к базе данных: %w", err)
	}

	db.log.Info("подключение к базе данных закрыто", nil)
	return nil
}

// Ping проверяет доступность базы данных.
// Используется в health check и в passcodectl ping.
func (db *DB) Ping(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("ошибка получения sql.DB: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ошибка ping базы данных: %w", err)
	}

	return nil
}
