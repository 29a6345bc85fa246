// Package packages реализует HTTP-обработчик списка тарифных пакетов.
package packages

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/parts-marketplace/internal/http/response"
	"github.com/magabrotheeeer/parts-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

// Handler обрабатывает запросы на список тарифных пакетов.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики подписок
}

// Service описывает интерфейс бизнес-логики списка пакетов.
type Service interface {
	ListPackages(ctx context.Context) ([]*models.SubscriptionPackage, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить тарифные пакеты
// @Description Возвращает предлагаемые к покупке пакеты размещения объявлений.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} map[string]any "Список пакетов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/packages [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.packages"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	packages, err := h.service.ListPackages(r.Context())
	if err != nil {
		log.Error("failed to list packages", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list packages"))
		return
	}

	log.Info("packages listed", slog.Int("count", len(packages)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"packages": packages,
	}))
}
