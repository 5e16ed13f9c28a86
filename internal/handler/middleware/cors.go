package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"passcode-app/internal/config"
)

// CORS настраивает Cross-Origin Resource Sharing по конфигурации.
// Пустой список источников в development разрешает все, в production не разрешает ни одного.
func CORS(cfg *config.CORSConfig, production bool) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     cfg.AllowedHeaders,
		ExposeHeaders:    cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	switch {
	case len(cfg.AllowedOrigins) > 0:
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	case !production:
		corsConfig.AllowAllOrigins = true
	default:
		// cors.New паникует на пустой конфигурации, поэтому разрешаем только себя
		corsConfig.AllowOriginFunc = func(string) bool { return false }
	}

	return cors.New(corsConfig)
}
