package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"passcode-app/internal/handler/response"
	"passcode-app/pkg/logger"
)

// Recovery перехватывает панику в handler'е и отвечает 500.
// Детали паники попадают в ответ только вне production.
func Recovery(log logger.Logger, production bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		log.Error("panic recovered", map[string]any{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"client_ip": c.ClientIP(),
			"panic":     fmt.Sprintf("%v", recovered),
		})

		var details interface{}
		if !production {
			details = fmt.Sprintf("%v", recovered)
		}
		response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", details)
	})
}
