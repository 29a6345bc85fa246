// Package partsmarketplace собирает приложение маркетплейса автозапчастей:
// подключения к PostgreSQL, Redis и RabbitMQ, сервисы и HTTP-сервер.
package partsmarketplace

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/parts-marketplace/internal/cache"
	"github.com/magabrotheeeer/parts-marketplace/internal/config"
	"github.com/magabrotheeeer/parts-marketplace/internal/lib/jwt"
	"github.com/magabrotheeeer/parts-marketplace/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/parts-marketplace/internal/migrations"
	authservice "github.com/magabrotheeeer/parts-marketplace/internal/services/auth"
	cartservice "github.com/magabrotheeeer/parts-marketplace/internal/services/cart"
	catalogservice "github.com/magabrotheeeer/parts-marketplace/internal/services/catalog"
	mailboxservice "github.com/magabrotheeeer/parts-marketplace/internal/services/mailbox"
	productservice "github.com/magabrotheeeer/parts-marketplace/internal/services/product"
	subservice "github.com/magabrotheeeer/parts-marketplace/internal/services/subscription"
	"github.com/magabrotheeeer/parts-marketplace/internal/storage/repository"
)

// App объединяет HTTP-сервер и внешние подключения приложения.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	rabbitConn *amqp.Connection
	rabbitCh   *amqp.Channel
}

// New собирает приложение: подключается к хранилищам, применяет миграции,
// создает сервисы и настраивает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.RetriesRabbit, cfg.DelayRabbit)
	if err != nil {
		return nil, err
	}
	rabbitCh, err := rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetMarketplaceQueues())
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewChannelPublisher(rabbitCh)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.New(db, jwtMaker)
	catalogService := catalogservice.New(db, cacheRedis, logger)
	productService := productservice.New(db, cacheRedis, logger)
	cartService := cartservice.New(db, publisher, logger)
	subscriptionService := subservice.New(db, logger)
	mailboxService := mailboxservice.New(db, publisher, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:         authService,
		Catalog:      catalogService,
		Product:      productService,
		Cart:         cartService,
		Subscription: subscriptionService,
		Mailbox:      mailboxService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		rabbitConn: rabbitConn,
		rabbitCh:   rabbitCh,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.rabbitCh.Close()
		_ = a.rabbitConn.Close()
		_ = a.db.DB.Close()
		return err
	}
}
