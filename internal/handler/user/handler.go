package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"passcode-app/internal/handler/middleware"
	"passcode-app/internal/handler/response"
	repo "passcode-app/internal/repository/interfaces"
	useruc "passcode-app/internal/usecase/user"
	"passcode-app/pkg/logger"
)

// Handler обрабатывает HTTP-запросы, связанные с пользователями.
type Handler struct {
	users useruc.Service
	log   logger.Logger
}

// NewHandler создаёт новый UserHandler.
func NewHandler(users useruc.Service, log logger.Logger) *Handler {
	return &Handler{users: users, log: log}
}

// Create создаёт пользователя со случайным кодом.
//
//	@Summary	Generate a user with a fresh passcode
//	@Tags		users
//	@Produce	json
//	@Success	201	{object}	CreatedResponse
//	@Failure	500	{object}	response.ErrorEnvelope
//	@Router		/api/v1/users [post]
func (h *Handler) Create(c *gin.Context) {
	user, err := h.users.Generate(c.Request.Context())
	if err != nil {
		h.internal(c, "Create", err)
		return
	}

	c.JSON(http.StatusCreated, toCreatedResponse(user))
}

// GetMe возвращает текущего пользователя.
//
//	@Summary	Current user
//	@Tags		users
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	ProfileResponse
//	@Failure	401	{object}	response.ErrorEnvelope
//	@Failure	404	{object}	response.ErrorEnvelope
//	@Router		/api/v1/users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	id, ok := userUUID(c)
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "GetMe", err)
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(user))
}

// RotateMe выдаёт текущему пользователю новый код.
//
//	@Summary	Rotate the current user's passcode
//	@Tags		users
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	CreatedResponse
//	@Failure	401	{object}	response.ErrorEnvelope
//	@Failure	404	{object}	response.ErrorEnvelope
//	@Router		/api/v1/users/me/rotate [post]
func (h *Handler) RotateMe(c *gin.Context) {
	id, ok := userUUID(c)
	if !ok {
		return
	}

	user, err := h.users.Rotate(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "RotateMe", err)
		return
	}

	c.JSON(http.StatusOK, toCreatedResponse(user))
}

// DeleteMe удаляет текущего пользователя.
//
//	@Summary	Delete the current user
//	@Tags		users
//	@Security	BearerAuth
//	@Success	204
//	@Failure	401	{object}	response.ErrorEnvelope
//	@Failure	404	{object}	response.ErrorEnvelope
//	@Router		/api/v1/users/me [delete]
func (h *Handler) DeleteMe(c *gin.Context) {
	id, ok := userUUID(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, "DeleteMe", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// userUUID извлекает UUID пользователя, положенный middleware.Auth.
// При ошибке сам отвечает 401.
func userUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(middleware.ContextUserUUIDKey))
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "unauthorized", "Требуется аутентификация", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	if errors.Is(err, repo.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "user_not_found", "Пользователь не найден", nil)
		return
	}
	h.internal(c, op, err)
}

func (h *Handler) internal(c *gin.Context, op string, err error) {
	code := "internal_error"
	if errors.Is(err, repo.ErrCorruptRecord) {
		code = "corrupt_record"
	}
	h.log.Error("user handler failed", map[string]any{"op": op, "err": err.Error()})
	response.Error(c, http.StatusInternalServerError, code, "Внутренняя ошибка сервера", nil)
}
