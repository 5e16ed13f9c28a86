package response

import "github.com/gin-gonic/gin"

// ErrorBody описывает стандартный формат ошибки API.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorEnvelope: обёртка {"error": {...}}, в которой ошибка отдаётся клиенту.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// Error отправляет JSON-ответ с ошибкой в едином формате и прерывает цепочку handler'ов.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
