package commands

import (
	"context"
	"crypto/rand"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"passcode-app/internal/config"
	"passcode-app/internal/database"
	pgrepo "passcode-app/internal/repository/postgres"
	useruc "passcode-app/internal/usecase/user"
	"passcode-app/pkg/logger"
)

// env хранит зависимости команд. Конфигурация и подключение к БД создаются лениво,
// чтобы generate --dry-run и decode работали без окружения.
type env struct {
	random io.Reader
	stderr io.Writer

	databaseURL string
	timeout     time.Duration

	cfg *config.Config
	log logger.Logger
	db  *database.DB
}

// Execute запускает passcodectl с аргументами командной строки.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd(rand.Reader).ExecuteContext(ctx)
}

// NewRootCmd собирает дерево команд. random служит источником для новых кодов и UUID.
func NewRootCmd(random io.Reader) *cobra.Command {
	e := &env{random: random}

	root := &cobra.Command{
		Use:          "passcodectl",
		Short:        "Manage 24-digit user passcodes",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			e.stderr = cmd.ErrOrStderr()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return e.close()
		},
	}

	root.PersistentFlags().StringVar(&e.databaseURL, "database-url", "", "PostgreSQL DSN (default: DATABASE_URL / DB_* from env)")
	root.PersistentFlags().DurationVar(&e.timeout, "timeout", 10*time.Second, "timeout for database operations")

	root.AddCommand(
		generateCmd(e),
		decodeCmd(),
		showCmd(e),
		verifyCmd(e),
		migrateCmd(e),
		pingCmd(e),
	)
	return root
}

// config загружает конфигурацию один раз; --database-url имеет приоритет.
func (e *env) config() (*config.Config, error) {
	if e.cfg != nil {
		return e.cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if e.databaseURL != "" {
		cfg.Database.URL = e.databaseURL
	}
	e.cfg = cfg

	stderr := e.stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	e.log = logger.New(stderr, cfg.AppEnv, cfg.LogLevel)
	return cfg, nil
}

func (e *env) connect(ctx context.Context) (*database.DB, error) {
	if e.db != nil {
		return e.db, nil
	}
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	db, err := database.NewConnection(ctx, &cfg.Database, cfg.AppEnv, e.log)
	if err != nil {
		return nil, err
	}
	e.db = db
	return db, nil
}

func (e *env) users(ctx context.Context) (useruc.Service, error) {
	db, err := e.connect(ctx)
	if err != nil {
		return nil, err
	}
	return useruc.NewService(pgrepo.NewUserRepository(db.DB), e.random, e.log), nil
}

func (e *env) close() error {
	if e.db == nil {
		return nil
	}
	err := e.db.Close()
	e.db = nil
	return err
}
