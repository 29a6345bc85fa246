// Package search реализует HTTP-обработчик поиска по каталогу товаров.
//
// Handler читает параметры фильтрации из строки запроса, вызывает
// бизнес-логику каталога и возвращает список доступных товаров.
package search

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/parts-marketplace/internal/http/response"
	"github.com/magabrotheeeer/parts-marketplace/internal/lib/errs"
	"github.com/magabrotheeeer/parts-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

// Handler обрабатывает запросы на поиск товаров в каталоге.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики каталога
}

// Service описывает интерфейс бизнес-логики поиска по каталогу.
type Service interface {
	Search(ctx context.Context, filter models.SearchFilter) ([]*models.Product, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Найти товары в каталоге
// @Description Возвращает доступные товары по тексту поиска, городу и состоянию. Все фильтры соединяются через AND.
// @Tags Catalog
// @Produce  json
// @Param q query string false "Текст поиска по названию, описанию и марке"
// @Param city query string false "Город продавца"
// @Param condition query string false "Состояние: new или used"
// @Success 200 {object} map[string]any "Список найденных товаров"
// @Failure 503 {object} response.ErrorResponse "Каталог временно недоступен"
// @Router /products [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.search"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := models.SearchFilter{
		Term:      r.URL.Query().Get("q"),
		City:      r.URL.Query().Get("city"),
		Condition: r.URL.Query().Get("condition"),
	}

	products, err := h.service.Search(r.Context(), filter)
	if err != nil {
		log.Error("failed to search products", sl.Err(err))
		if errors.Is(err, errs.ErrCatalogUnavailable) {
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("catalog is temporarily unavailable"))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not search products"))
		return
	}

	log.Info("search completed", slog.Int("count", len(products)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"products": products,
		"count":    len(products),
	}))
}
