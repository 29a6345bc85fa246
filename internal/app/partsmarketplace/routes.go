package partsmarketplace

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/parts-marketplace/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/parts-marketplace/internal/http/handlers/auth/register"
	cartadd "github.com/magabrotheeeer/parts-marketplace/internal/http/handlers/cart/add"
	cartcheckout "github.com/magabrotheeeer/parts-marketplace/internal/http/handlers/cart/checkout"
	cartlist "github.com/magabrotheeeer/parts-marketplace/internal/http/handlers/cart/list"
	cartremove "github.com/magabrotheeeer/parts-marketplace/internal/http/handlers/cart/remove"
	cartupdate "github.com/magabrotheeeer/parts-marketplace/internal/http/handlers/cart/update"
	catalogread "github.com/magabrotheeeer/parts-marketplace/internal/http/handlers/catalog/read"
	catalogsearch "github.com/magabrotheeeer/parts-marketplace/internal/http/handlers/catalog/search"
	"github.com/magabrotheeeer/parts-marketplace/internal/http/handlers/health"
	"github.com/magabrotheeeer/parts-marketplace/internal/http/handlers/mailbox/inbox"
	"github.com/magabrotheeeer/parts-marketplace/internal/http/handlers/mailbox/markread"
	"github.com/magabrotheeeer/parts-marketplace/internal/http/handlers/mailbox/send"
	"github.com/magabrotheeeer/parts-marketplace/internal/http/handlers/mailbox/unread"
	"github.com/magabrotheeeer/parts-marketplace/internal/http/handlers/product/publish"
	"github.com/magabrotheeeer/parts-marketplace/internal/http/handlers/product/sellerlist"
	"github.com/magabrotheeeer/parts-marketplace/internal/http/handlers/product/unpublish"
	productupdate "github.com/magabrotheeeer/parts-marketplace/internal/http/handlers/product/update"
	"github.com/magabrotheeeer/parts-marketplace/internal/http/handlers/subscription/cancel"
	"github.com/magabrotheeeer/parts-marketplace/internal/http/handlers/subscription/current"
	"github.com/magabrotheeeer/parts-marketplace/internal/http/handlers/subscription/packages"
	"github.com/magabrotheeeer/parts-marketplace/internal/http/handlers/subscription/purchase"
	"github.com/magabrotheeeer/parts-marketplace/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/parts-marketplace/internal/services/auth"
	cartservice "github.com/magabrotheeeer/parts-marketplace/internal/services/cart"
	catalogservice "github.com/magabrotheeeer/parts-marketplace/internal/services/catalog"
	mailboxservice "github.com/magabrotheeeer/parts-marketplace/internal/services/mailbox"
	productservice "github.com/magabrotheeeer/parts-marketplace/internal/services/product"
	subservice "github.com/magabrotheeeer/parts-marketplace/internal/services/subscription"
)

// Services объединяет сервисы приложения для регистрации маршрутов.
type Services struct {
	Auth         *authservice.AuthService
	Catalog      *catalogservice.CatalogService
	Product      *productservice.ProductService
	Cart         *cartservice.CartService
	Subscription *subservice.SubscriptionService
	Mailbox      *mailboxservice.MailboxService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)

		// Каталог открыт без аутентификации
		r.Get("/products", catalogsearch.New(logger, s.Catalog).ServeHTTP)
		r.Get("/products/{id}", catalogread.New(logger, s.Catalog).ServeHTTP)
		r.Get("/subscriptions/packages", packages.New(logger, s.Subscription).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			// Корзина и сообщения доступны любой роли
			r.Get("/cart", cartlist.New(logger, s.Cart).ServeHTTP)
			r.Post("/cart/items", cartadd.New(logger, s.Cart).ServeHTTP)
			r.Put("/cart/items/{id}", cartupdate.New(logger, s.Cart).ServeHTTP)
			r.Delete("/cart/items/{id}", cartremove.New(logger, s.Cart).ServeHTTP)
			r.Post("/cart/checkout", cartcheckout.New(logger, s.Cart).ServeHTTP)

			r.Post("/messages", send.New(logger, s.Mailbox).ServeHTTP)
			r.Get("/messages", inbox.New(logger, s.Mailbox).ServeHTTP)
			r.Get("/messages/unread", unread.New(logger, s.Mailbox).ServeHTTP)
			r.Post("/messages/{id}/read", markread.New(logger, s.Mailbox).ServeHTTP)

			// Операции продавца
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.MerchantOnlyMiddleware(logger))
				r.Post("/products", publish.New(logger, s.Product).ServeHTTP)
				r.Put("/products/{id}", productupdate.New(logger, s.Product).ServeHTTP)
				r.Delete("/products/{id}", unpublish.New(logger, s.Product).ServeHTTP)
				r.Get("/seller/products", sellerlist.New(logger, s.Product).ServeHTTP)

				r.Post("/subscriptions/purchase", purchase.New(logger, s.Subscription).ServeHTTP)
				r.Get("/subscriptions/current", current.New(logger, s.Subscription).ServeHTTP)
				r.Delete("/subscriptions/current", cancel.New(logger, s.Subscription).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
