// Package unpublish реализует HTTP-обработчик снятия объявления с публикации.
//
// Handler извлекает ID товара из URL и UID продавца из контекста. Квота
// подписки возвращается, только если объявление действительно было
// опубликовано: повторный вызов — безопасный no-op.
package unpublish

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

// Handler управляет HTTP-запросами на снятие объявлений с публикации.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики объявлений
}

// Service описывает интерфейс бизнес-логики снятия объявления.
type Service interface {
	Unpublish(ctx context.Context, sellerUID, productID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Снять объявление с публикации
// @Description Скрывает товар из каталога и возвращает единицу квоты подписки.
// @Tags Products
// @Produce  json
// @Param id path string true "Идентификатор товара"
// @Success 200 {object} response.Response "Объявление снято"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Router /products/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.unpublish"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	productID := chi.URLParam(r, "id")

	sellerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || sellerUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Unpublish(r.Context(), sellerUID, productID); err != nil {
		log.Error("failed to unpublish product", sl.Err(err))
		code, msg := response.CodeFromError(err)
		w.WriteHeader(code)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("unpublished product", slog.String("product_id", productID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"product_id": productID,
	}))
}
