// Package update реализует HTTP-обработчик изменения количества в строке корзины.
//
// Handler принимает JSON-запрос с новым количеством. Значение меньше
// единицы отклоняется: уменьшение ниже единицы выполняется удалением строки.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/parts-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/parts-marketplace/internal/http/response"
	"github.com/magabrotheeeer/parts-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

// Handler управляет HTTP-запросами на изменение количества в корзине.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики корзины
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики изменения количества.
type Service interface {
	UpdateQuantity(ctx context.Context, userUID, itemID string, quantity int) error
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
// @Summary Изменить количество в строке корзины
// @Description Устанавливает новое количество товара в строке корзины. Минимум — единица.
// @Tags Cart
// @Accept  json
// @Produce  json
// @Param id path string true "Идентификатор строки корзины"
// @Param request body models.DummyCartQuantity true "Новое количество"
// @Success 200 {object} response.Response "Количество изменено"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Строка не найдена"
// @Failure 422 {object} response.ErrorResponse "Недопустимое количество"
// @Router /cart/items/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	itemID := chi.URLParam(r, "id")

	var req models.DummyCartQuantity
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

	if err := h.service.UpdateQuantity(r.Context(), userUID, itemID, req.Quantity); err != nil {
		log.Error("failed to update cart item", sl.Err(err))
		code, msg := response.CodeFromError(err)
		w.WriteHeader(code)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("updated cart item", slog.String("item_id", itemID), slog.Int("quantity", req.Quantity))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"item_id": itemID,
	}))
}
