package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/parts-marketplace/internal/http/response"
	"github.com/magabrotheeeer/parts-marketplace/internal/models"
)

// MerchantOnlyMiddleware пропускает дальше только пользователей с ролью
// merchant: публикация объявлений и подписки доступны лишь продавцам.
func MerchantOnlyMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(Role).(string)
			if !ok || role != models.RoleMerchant {
				log.Error("merchant role required", slog.String("role", role))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("merchant role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
