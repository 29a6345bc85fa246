// Package add реализует HTTP-обработчик добавления товара в корзину.
//
// Handler принимает JSON-запрос с идентификатором товара и вызывает
// бизнес-логику корзины. Повторное добавление того же товара увеличивает
// количество существующей строки.
package add

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/parts-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/parts-marketplace/internal/http/response"
	"github.com/magabrotheeeer/parts-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

// Handler управляет HTTP-запросами на добавление товара в корзину.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики корзины
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики добавления в корзину.
type Service interface {
	Add(ctx context.Context, userUID, productID string) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить товар в корзину
// @Description Добавляет товар в корзину или увеличивает количество существующей строки.
// @Tags Cart
// @Accept  json
// @Produce  json
// @Param request body models.DummyCartAdd true "Идентификатор товара"
// @Success 200 {object} map[string]any "Товар добавлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Товар недоступен"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /cart/items [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.add"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCartAdd
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	itemID, err := h.service.Add(r.Context(), userUID, req.ProductID)
	if err != nil {
		log.Error("failed to add product to cart", sl.Err(err))
		code, msg := response.CodeFromError(err)
		w.WriteHeader(code)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("added product to cart", slog.String("item_id", itemID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"item_id": itemID,
	}))
}
