// Package sellerlist реализует HTTP-обработчик списка объявлений продавца.
//
// Handler возвращает все объявления текущего продавца вместе с
// агрегированными показателями кабинета.
package sellerlist

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
	"github.com/magabrotheeeer/parts-marketplace/internal/services/product"
)

// Handler обрабатывает запросы на список объявлений продавца.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики объявлений
}

// Service описывает интерфейс бизнес-логики списка объявлений продавца.
type Service interface {
	ListBySeller(ctx context.Context, sellerUID string) ([]*models.Product, product.SellerStats, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить объявления продавца
// @Description Возвращает все объявления текущего продавца и показатели кабинета.
// @Tags Products
// @Produce  json
// @Success 200 {object} map[string]any "Объявления и статистика"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /seller/products [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.sellerlist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sellerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || sellerUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	products, stats, err := h.service.ListBySeller(r.Context(), sellerUID)
	if err != nil {
		log.Error("failed to list seller products", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list products"))
		return
	}

	log.Info("seller products listed", slog.Int("count", len(products)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"products": products,
		"stats":    stats,
	}))
}
