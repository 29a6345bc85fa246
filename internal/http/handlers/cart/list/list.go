// Package list реализует HTTP-обработчик просмотра корзины.
//
// Handler возвращает строки корзины с текущими данными товаров и итоговую
// сумму по живым ценам: если продавец изменил цену после добавления,
// итог это отражает.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/parts-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/parts-marketplace/internal/http/response"
	"github.com/magabrotheeeer/parts-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

// Handler обрабатывает запросы на просмотр корзины.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики корзины
}

// Service описывает интерфейс бизнес-логики просмотра корзины.
type Service interface {
	List(ctx context.Context, userUID string) ([]*models.CartItem, error)
	Total(ctx context.Context, userUID string) (decimal.Decimal, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить корзину
// @Description Возвращает строки корзины с текущими данными товаров и сумму по текущим ценам.
// @Tags Cart
// @Produce  json
// @Success 200 {object} map[string]any "Строки корзины и итог"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /cart [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.list"
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

	items, err := h.service.List(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list cart items", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list cart items"))
		return
	}

	total, err := h.service.Total(r.Context(), userUID)
	if err != nil {
		log.Error("failed to count cart total", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not count cart total"))
		return
	}

	log.Info("cart listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"items": items,
		"total": total,
	}))
}
