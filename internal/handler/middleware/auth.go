package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"passcode-app/internal/handler/response"
	jwtsvc "passcode-app/pkg/jwt"
	"passcode-app/pkg/logger"
)

// ContextUserUUIDKey: ключ, под которым Auth кладёт UUID пользователя в gin.Context.
const ContextUserUUIDKey = "userUUID"

// Auth возвращает middleware для аутентификации по JWT access-токену.
// Ожидает заголовок Authorization: Bearer <token>.
func Auth(jwtService jwtsvc.Service, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "missing_authorization_header", "Отсутствует заголовок Authorization", nil)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Error(c, http.StatusUnauthorized, "invalid_authorization_header", "Некорректный формат заголовка Authorization", nil)
			return
		}

		claims, err := jwtService.ParseAccessToken(strings.TrimSpace(parts[1]))
		if err != nil {
			log.Warn("invalid access token", map[string]any{
				"path": c.Request.URL.Path,
				"err":  err.Error(),
			})
			response.Error(c, http.StatusUnauthorized, "invalid_token", "Недействительный access-токен", nil)
			return
		}

		c.Set(ContextUserUUIDKey, claims.UserUUID)
		c.Next()
	}
}
