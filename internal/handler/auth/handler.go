package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"passcode-app/internal/handler/response"
	repo "passcode-app/internal/repository/interfaces"
	useruc "passcode-app/internal/usecase/user"
	jwtsvc "passcode-app/pkg/jwt"
	"passcode-app/pkg/logger"
)

// Handler обменивает UUID и код на access-токен.
type Handler struct {
	users useruc.Service
	jwt   jwtsvc.Service
	log   logger.Logger
}

// NewHandler создаёт новый AuthHandler.
func NewHandler(users useruc.Service, jwt jwtsvc.Service, log logger.Logger) *Handler {
	return &Handler{
		users: users,
		jwt:   jwt,
		log:   log,
	}
}

// Verify проверяет код пользователя и выдаёт access-токен.
//
//	@Summary	Exchange uuid and passcode for an access token
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		VerifyRequest	true	"Credentials"
//	@Success	200		{object}	TokenResponse
//	@Failure	400		{object}	response.ErrorEnvelope
//	@Failure	401		{object}	response.ErrorEnvelope
//	@Router		/api/v1/auth/verify [post]
func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Некорректное тело запроса", err.Error())
		return
	}

	id, err := uuid.Parse(req.UUID)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Некорректный UUID", nil)
		return
	}

	user, err := h.users.Verify(c.Request.Context(), id, req.Passcode)
	if err != nil {
		switch {
		case errors.Is(err, useruc.ErrInvalidPasscode):
			response.Error(c, http.StatusBadRequest, "invalid_passcode", "Код должен состоять из 24 цифр", nil)
		case errors.Is(err, useruc.ErrPasscodeMismatch):
			response.Error(c, http.StatusUnauthorized, "invalid_credentials", "Неверный UUID или код", nil)
		case errors.Is(err, repo.ErrCorruptRecord):
			h.log.Error("corrupt record in Verify", map[string]any{"uuid": id.String(), "err": err.Error()})
			response.Error(c, http.StatusInternalServerError, "corrupt_record", "Внутренняя ошибка сервера", nil)
		default:
			h.log.Error("internal error in Verify", map[string]any{"uuid": id.String(), "err": err.Error()})
			response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
		}
		return
	}

	token, expires, err := h.jwt.GenerateAccessToken(user)
	if err != nil {
		h.log.Error("error generating access token in Verify", map[string]any{"uuid": id.String(), "err": err.Error()})
		response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		UUID:        user.UUID.String(),
		AccessToken: token,
		ExpiresAt:   expires,
	})
}
