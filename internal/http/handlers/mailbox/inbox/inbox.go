// Package inbox реализует HTTP-обработчик списка входящих сообщений.
//
// Handler возвращает входящие текущего пользователя, сначала новые,
// с именем отправителя и названием товара для отображения списка.
package inbox

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/parts-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/parts-marketplace/internal/http/response"
	"github.com/magabrotheeeer/parts-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

// Handler обрабатывает запросы на список входящих.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики почтового ящика
}

// Service описывает интерфейс бизнес-логики чтения входящих.
type Service interface {
	Inbox(ctx context.Context, userUID string) ([]*models.Message, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить входящие сообщения
// @Description Возвращает входящие текущего пользователя, сначала новые.
// @Tags Mailbox
// @Produce  json
// @Success 200 {object} map[string]any "Список входящих"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /messages [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.mailbox.inbox"
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

	messages, err := h.service.Inbox(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list inbox", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list inbox"))
		return
	}

	log.Info("inbox listed", slog.Int("count", len(messages)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"messages": messages,
	}))
}
