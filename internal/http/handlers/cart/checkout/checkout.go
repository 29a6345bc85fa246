// Package checkout реализует HTTP-обработчик оформления заказа по корзине.
//
// Handler вызывает бизнес-логику оформления: при успехе корзина очищена и
// возвращается подтверждение заказа, при устаревших строках — ошибка со
// списком всех проблемных товаров, ничего не фиксируется частично.
package checkout

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

// Handler управляет HTTP-запросами на оформление заказа.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики корзины
}

// Service описывает интерфейс бизнес-логики оформления заказа.
type Service interface {
	Checkout(ctx context.Context, userUID string) (*models.OrderConfirmation, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Оформить заказ
// @Description Оформляет заказ по корзине и очищает её. Если часть товаров стала недоступной, заказ не оформляется и возвращается список проблемных товаров.
// @Tags Cart
// @Produce  json
// @Success 200 {object} map[string]any "Подтверждение заказа"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Корзина пуста"
// @Failure 409 {object} response.ErrorResponse "Корзина содержит недоступные товары"
// @Router /cart/checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.checkout"
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

	confirmation, err := h.service.Checkout(r.Context(), userUID)
	if err != nil {
		log.Error("failed to checkout", sl.Err(err))
		code, msg := response.CodeFromError(err)
		w.WriteHeader(code)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("checkout completed", slog.String("order_number", confirmation.OrderNumber))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"order": confirmation,
	}))
}
