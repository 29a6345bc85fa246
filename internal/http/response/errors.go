package response

import (
	"errors"
	"net/http"

	"github.com/magabrotheeeer/parts-marketplace/internal/lib/errs"
)

// CodeFromError сопоставляет типизированной ошибке бизнес-правил HTTP-статус
// и текст для клиента. Неизвестная ошибка отображается в 500 без деталей.
func CodeFromError(err error) (int, string) {
	var quota *errs.QuotaExceededError
	var stale *errs.StaleCartError

	switch {
	case errors.Is(err, errs.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable, "catalog is temporarily unavailable"
	case errors.Is(err, errs.ErrProductUnavailable):
		return http.StatusConflict, "product is no longer available"
	case errors.As(err, &stale):
		return http.StatusConflict, stale.Error()
	case errors.Is(err, errs.ErrInvalidQuantity):
		return http.StatusUnprocessableEntity, "quantity must be at least 1"
	case errors.Is(err, errs.ErrEmptyContent):
		return http.StatusUnprocessableEntity, "message content must not be empty"
	case errors.Is(err, errs.ErrNotAuthorized):
		return http.StatusForbidden, "operation is not allowed for this user"
	case errors.Is(err, errs.ErrNoActiveSubscription):
		return http.StatusPaymentRequired, "no active subscription"
	case errors.Is(err, errs.ErrSubscriptionExpired):
		return http.StatusPaymentRequired, "subscription expired"
	case errors.As(err, &quota):
		return http.StatusPaymentRequired, quota.Error()
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, "not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
