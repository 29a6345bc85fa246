// Package read реализует HTTP-обработчик получения карточки товара по ID.
//
// Handler извлекает ID из URL-параметров, возвращает данные товара и
// регистрирует просмотр карточки. Просмотр учитывается и для снятых
// с продажи товаров.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/parts-marketplace/internal/http/response"
	"github.com/magabrotheeeer/parts-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

// Handler обрабатывает запросы на получение карточки товара.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики каталога
}

// Service описывает интерфейс бизнес-логики чтения карточки товара.
type Service interface {
	Get(ctx context.Context, id string) (*models.Product, error)
	RegisterView(ctx context.Context, id string)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить карточку товара
// @Description Возвращает данные товара по ID и регистрирует просмотр карточки.
// @Tags Catalog
// @Produce  json
// @Param id path string true "Идентификатор товара"
// @Success 200 {object} map[string]any "Данные товара"
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Router /products/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("missing product id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing product id"))
		return
	}

	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to read product", sl.Err(err))
		code, msg := response.CodeFromError(err)
		w.WriteHeader(code)
		render.JSON(w, r, response.Error(msg))
		return
	}

	h.service.RegisterView(r.Context(), id)

	log.Info("product read", slog.String("product_id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"product": product,
	}))
}
