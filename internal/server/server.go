// Package server boots the application: configuration, storage backends,
// the consistency engines, the HTTP API, and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miraedance/atelier/app/controllers"
	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/app/repositories"
	"github.com/miraedance/atelier/app/routes"
	"github.com/miraedance/atelier/app/services"
	"github.com/miraedance/atelier/config"
	"github.com/miraedance/atelier/internal/consistency"
	"github.com/miraedance/atelier/internal/identity"
	"github.com/miraedance/atelier/internal/live"
	"github.com/miraedance/atelier/internal/store"
	"github.com/miraedance/atelier/pkg/cache"
	"github.com/miraedance/atelier/pkg/event"
	"github.com/miraedance/atelier/pkg/logger"
	"github.com/miraedance/atelier/pkg/mail"
	"github.com/miraedance/atelier/pkg/router"
	"github.com/miraedance/atelier/pkg/storage"
	"github.com/miraedance/atelier/pkg/workerpool"
)

const shutdownGrace = 15 * time.Second

// Start boots everything and blocks until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	st, closeStore, err := connectStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, caching and throttling disabled", "error", err)
	}
	storage.Connect()

	pool := workerpool.New(4, 256)
	defer pool.Shutdown()

	// Domain wiring.
	productRepo := repositories.NewProductRepository(st)
	customerRepo := repositories.NewCustomerRepository(st)
	orderRepo := repositories.NewOrderRepository(st)
	consultationRepo := repositories.NewConsultationRepository(st)

	mergeEngine := consistency.NewMergeEngine(st)
	syncEngine := consistency.NewSyncEngine(st, pool)
	provider := identity.NewLocalProvider(st)

	authService := services.NewAuthService(provider, mergeEngine)
	catalogService := services.NewCatalogService(productRepo, syncEngine)
	orderService := services.NewOrderService(orderRepo, productRepo, customerRepo)
	customerService := services.NewCustomerService(customerRepo)
	consultationService := services.NewConsultationService(consultationRepo)

	registerMailListeners()

	// Live admin feed.
	hub := live.NewHub()
	go hub.Run()
	feed := live.NewFeed(hub, st)
	for _, collection := range []string{store.Products, store.Customers, store.Orders} {
		if err := feed.Watch(collection); err != nil {
			logger.Warn("live feed unavailable for collection", "collection", collection, "error", err)
		}
	}
	defer feed.Close()

	r := router.New()
	routes.RegisterAPI(r, routes.Controllers{
		Auth:          controllers.NewAuthController(authService),
		Products:      controllers.NewProductController(catalogService),
		Orders:        controllers.NewOrderController(orderService),
		Customers:     controllers.NewCustomerController(customerService),
		Consultations: controllers.NewConsultationController(consultationService),
		Uploads:       controllers.NewUploadController(),
		Hub:           hub,
	})

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("atelier listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	event.Flush()
	return nil
}

// connectStore dials MongoDB; in non-production environments a failed dial
// falls back to the in-memory store so the API can run without infrastructure.
func connectStore() (store.Store, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ms, err := store.ConnectMongo(ctx, config.MongoURI(), config.MongoDB())
	if err != nil {
		if config.AppEnv() == "production" || config.AppEnv() == "prod" {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		logger.Warn("mongo unavailable, using in-memory store", "error", err)
		return store.NewMemoryStore(), func() {}, nil
	}

	if err := ms.EnsureIndexes(ctx); err != nil {
		logger.Warn("could not ensure indexes", "error", err)
	}

	// Fan application logs out to stdout and the store.
	stdout := logger.L.Handler()
	mongoHandler := logger.NewMongoHandler(ms.Collection(config.MongoLogCollection()))
	logger.SetHandler(logger.NewMultiHandler(stdout, mongoHandler))

	closeFn := func() {
		mongoHandler.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ms.Close(ctx); err != nil {
			slog.Warn("mongo disconnect", "error", err)
		}
	}
	return ms, closeFn, nil
}

// registerMailListeners subscribes transactional emails to domain events.
// Nothing is registered when no SMTP host is configured.
func registerMailListeners() {
	if config.MailHost() == "" {
		return
	}

	event.Listen(event.OrderCreated, func(payload any) {
		order, ok := payload.(models.Order)
		if !ok || order.CustomerEmail == "" {
			return
		}
		err := mail.To(order.CustomerEmail).
			Subject("Your order has been received").
			Text(fmt.Sprintf(
				"Hello %s,\n\nWe received your order for %s (x%d). We will confirm it shortly.\n\n— Mirae Atelier",
				order.CustomerName, order.ProductName, order.Quantity,
			)).
			Send()
		if err != nil {
			logger.Warn("order confirmation mail failed", "order_id", order.ID, "error", err)
		}
	})

	event.Listen(event.OrderStatusChanged, func(payload any) {
		order, ok := payload.(models.Order)
		if !ok || order.CustomerEmail == "" {
			return
		}
		err := mail.To(order.CustomerEmail).
			Subject("Your order status was updated").
			Text(fmt.Sprintf(
				"Hello %s,\n\nYour order for %s is now %q.\n\n— Mirae Atelier",
				order.CustomerName, order.ProductName, order.Status,
			)).
			Send()
		if err != nil {
			logger.Warn("order status mail failed", "order_id", order.ID, "error", err)
		}
	})

	event.Listen(event.ConsultationCreated, func(payload any) {
		consultation, ok := payload.(models.Consultation)
		if !ok || consultation.Email == "" {
			return
		}
		err := mail.To(consultation.Email).
			Subject("We received your consultation request").
			Text(fmt.Sprintf(
				"Hello %s,\n\nThank you for reaching out. A fitter will contact you soon.\n\n— Mirae Atelier",
				consultation.Name,
			)).
			Send()
		if err != nil {
			logger.Warn("consultation mail failed", "consultation_id", consultation.ID, "error", err)
		}
	})
}
