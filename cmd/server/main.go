package main

import (
	"context"
	"errors"
	"os"
	"time"

	"passcode-app/internal/config"
	"passcode-app/internal/database"
	"passcode-app/internal/server"
	"passcode-app/pkg/logger"
)

//	@title						Passcode API
//	@version					1.0
//	@description				Users identified by a UUID and a 24-digit passcode.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		logger.Default().Error("ошибка загрузки конфигурации", map[string]any{"err": err.Error()})
		os.Exit(1)
	}

	log := logger.New(os.Stderr, cfg.AppEnv, cfg.LogLevel)
	if err := run(cfg, log); err != nil {
		log.Error("сервер остановлен с ошибкой", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	log.Info("Passcode App Server Starting...", map[string]any{
		"address":  cfg.Server.Address(),
		"database": cfg.Database.Target(),
		"env":      cfg.AppEnv,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := database.NewConnection(ctx, &cfg.Database, cfg.AppEnv, log)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("ошибка закрытия подключения к базе данных", map[string]any{"err": err.Error()})
		}
	}()

	if cfg.Server.MigrateOnStart {
		if err := migrate(db); err != nil {
			return err
		}
	}

	return server.NewServer(cfg, db, log).Start()
}

// migrate применяет миграции и отказывается стартовать на грязной схеме.
func migrate(db *database.DB) error {
	m, err := database.NewMigrator(db)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.CheckDirty(); err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, database.ErrNoChange) {
		return err
	}
	return nil
}
