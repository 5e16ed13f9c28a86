package server

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"passcode-app/docs"
	"passcode-app/internal/config"
	"passcode-app/internal/database"
	authhandler "passcode-app/internal/handler/auth"
	"passcode-app/internal/handler/health"
	"passcode-app/internal/handler/middleware"
	userhandler "passcode-app/internal/handler/user"
	pgrepo "passcode-app/internal/repository/postgres"
	useruc "passcode-app/internal/usecase/user"
	jwtsvc "passcode-app/pkg/jwt"
	"passcode-app/pkg/logger"
)

// Server представляет HTTP сервер приложения
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	db         *database.DB
	cfg        *config.Config
	log        logger.Logger

	jwtService  jwtsvc.Service
	authHandler *authhandler.Handler
	userHandler *userhandler.Handler
}

// NewServer создает новый экземпляр сервера
func NewServer(cfg *config.Config, db *database.DB, log logger.Logger) *Server {
	// Устанавливаем режим Gin в зависимости от окружения
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	s := &Server{
		router: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	userRepo := pgrepo.NewUserRepository(db.DB)
	userService := useruc.NewService(userRepo, rand.Reader, log)
	s.jwtService = jwtsvc.NewService(&cfg.JWT)
	s.authHandler = authhandler.NewHandler(userService, s.jwtService, log)
	s.userHandler = userhandler.NewHandler(userService, log)

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware настраивает middleware для роутера
func (s *Server) setupMiddleware() {
	// Recovery должен быть первым для перехвата паник
	s.router.Use(middleware.Recovery(s.log, s.cfg.IsProduction()))
	s.router.Use(middleware.Logger(s.log))
	s.router.Use(middleware.CORS(&s.cfg.CORS, s.cfg.IsProduction()))
}

// setupRoutes настраивает маршруты приложения
func (s *Server) setupRoutes() {
	s.setupHealthRoutes()
	s.setupDocsRoutes()

	v1 := s.router.Group("/api/v1")
	s.setupAuthRoutes(v1)
	s.setupUserRoutes(v1)
}

// setupHealthRoutes настраивает health-check эндпоинты.
func (s *Server) setupHealthRoutes() {
	healthHandler := health.NewHandler(s.db, s.cfg.IsProduction())
	// GET /health: жив ли процесс.
	s.router.GET("/health", healthHandler.Health)
	// GET /health/db: доступна ли база данных.
	s.router.GET("/health/db", healthHandler.HealthDB)
}

// setupDocsRoutes публикует Swagger UI вне production.
func (s *Server) setupDocsRoutes() {
	if s.cfg.IsProduction() {
		return
	}
	docs.SwaggerInfo.Host = s.cfg.Server.Address()
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// setupAuthRoutes настраивает эндпоинты аутентификации и корневой роут API.
func (s *Server) setupAuthRoutes(v1 *gin.RouterGroup) {
	// GET /api/v1/: версия API.
	v1.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Passcode API v1",
			"version": docs.SwaggerInfo.Version,
		})
	})

	// POST /api/v1/auth/verify: обмен UUID и кода на access-токен.
	v1.POST("/auth/verify", s.authHandler.Verify)
}

// setupUserRoutes настраивает эндпоинты пользователя.
func (s *Server) setupUserRoutes(v1 *gin.RouterGroup) {
	// POST /api/v1/users: создать пользователя со случайным кодом. Код возвращается один раз.
	v1.POST("/users", s.userHandler.Create)

	me := v1.Group("/users/me")
	me.Use(middleware.Auth(s.jwtService, s.log))
	{
		// GET /api/v1/users/me: профиль текущего пользователя без кода.
		me.GET("", s.userHandler.GetMe)
		// POST /api/v1/users/me/rotate: выдать новый код.
		me.POST("/rotate", s.userHandler.RotateMe)
		// DELETE /api/v1/users/me: удалить пользователя.
		me.DELETE("", s.userHandler.DeleteMe)
	}
}

// Start запускает HTTP сервер с graceful shutdown
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run обслуживает запросы, пока не отменён ctx, затем корректно останавливает сервер.
func (s *Server) Run(ctx context.Context) error {
	address := s.cfg.Server.Address()

	s.httpServer = &http.Server{
		Addr:              address,
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}

	serverErr := make(chan error, 1)
	go func() {
		s.log.Info("HTTP сервер запущен", map[string]any{"address": address})
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("ошибка запуска HTTP сервера: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		s.log.Info("получен сигнал остановки сервера", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ошибка при остановке сервера: %w", err)
	}

	s.log.Info("HTTP сервер успешно остановлен", nil)
	return nil
}

// GetRouter возвращает роутер (для тестирования)
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
