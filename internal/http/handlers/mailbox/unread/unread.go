// Package unread реализует HTTP-обработчик счётчика непрочитанных сообщений.
package unread

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/parts-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/parts-marketplace/internal/http/response"
	"github.com/magabrotheeeer/parts-marketplace/internal/lib/sl"
)

// Handler обрабатывает запросы на счётчик непрочитанных сообщений.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики почтового ящика
}

// Service описывает интерфейс бизнес-логики счётчика непрочитанных.
type Service interface {
	UnreadCount(ctx context.Context, userUID string) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить число непрочитанных сообщений
// @Description Возвращает счётчик непрочитанных сообщений для бейджа интерфейса.
// @Tags Mailbox
// @Produce  json
// @Success 200 {object} map[string]any "Число непрочитанных"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /messages/unread [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.mailbox.unread"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	count, err := h.service.UnreadCount(r.Context(), userUID)
	if err != nil {
		log.Error("failed to count unread messages", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not count unread messages"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"unread": count,
	}))
}
