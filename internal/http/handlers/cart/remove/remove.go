// Package remove реализует HTTP-обработчик удаления строки корзины.
//
// Операция идемпотентна: удаление уже отсутствующей строки — успешный no-op.
package remove

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

// Handler управляет HTTP-запросами на удаление строк корзины.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики корзины
}

// Service описывает интерфейс бизнес-логики удаления строки корзины.
type Service interface {
	Remove(ctx context.Context, userUID, itemID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить строку корзины
// @Description Удаляет строку из корзины пользователя. Повторное удаление — успешный no-op.
// @Tags Cart
// @Produce  json
// @Param id path string true "Идентификатор строки корзины"
// @Success 200 {object} response.Response "Строка удалена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /cart/items/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	itemID := chi.URLParam(r, "id")

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Remove(r.Context(), userUID, itemID); err != nil {
		log.Error("failed to remove cart item", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove cart item"))
		return
	}

	log.Info("removed cart item", slog.String("item_id", itemID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"item_id": itemID,
	}))
}
