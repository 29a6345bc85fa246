// Package markread реализует HTTP-обработчик отметки сообщения прочитанным.
//
// Переход unread -> read выполняет только получатель сообщения; повторная
// отметка уже прочитанного — успешный no-op.
package markread

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/parts-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/parts-marketplace/internal/http/response"
	"github.com/magabrotheeeer/parts-marketplace/internal/lib/sl"
)

// Handler управляет HTTP-запросами на отметку сообщений прочитанными.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики почтового ящика
}

// Service описывает интерфейс бизнес-логики отметки о прочтении.
type Service interface {
	MarkRead(ctx context.Context, actorUID, messageID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отметить сообщение прочитанным
// @Description Переводит сообщение из unread в read. Доступно только получателю.
// @Tags Mailbox
// @Produce  json
// @Param id path string true "Идентификатор сообщения"
// @Success 200 {object} response.Response "Сообщение прочитано"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Отметить может только получатель"
// @Failure 404 {object} response.ErrorResponse "Сообщение не найдено"
// @Router /messages/{id}/read [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.mailbox.markread"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	messageID := chi.URLParam(r, "id")

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.MarkRead(r.Context(), userUID, messageID); err != nil {
		log.Error("failed to mark message read", sl.Err(err))
		code, msg := response.CodeFromError(err)
		w.WriteHeader(code)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("message marked read", slog.String("message_id", messageID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message_id": messageID,
	}))
}
