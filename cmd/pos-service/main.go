package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/MikeMC777/restaurant-pos/internal/auth"
	"github.com/MikeMC777/restaurant-pos/internal/config"
	"github.com/MikeMC777/restaurant-pos/internal/customer"
	"github.com/MikeMC777/restaurant-pos/internal/db"
	"github.com/MikeMC777/restaurant-pos/internal/employee"
	"github.com/MikeMC777/restaurant-pos/internal/events"
	"github.com/MikeMC777/restaurant-pos/internal/inventory"
	"github.com/MikeMC777/restaurant-pos/internal/invoice"
	"github.com/MikeMC777/restaurant-pos/internal/logx"
	"github.com/MikeMC777/restaurant-pos/internal/menu"
	"github.com/MikeMC777/restaurant-pos/internal/order"
	"github.com/MikeMC777/restaurant-pos/internal/reservation"
	"github.com/MikeMC777/restaurant-pos/internal/storage"
)

// @title        Restaurant POS API
// @version      1.0
// @description  Point of sale and back office.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	logx.New("pos-service", cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.PostgresDSN, cfg.RetryAttempts, cfg.RetryBaseDelay)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	if err := db.Migrate(ctx, cfg.PostgresDSN, cfg.RetryAttempts, cfg.RetryBaseDelay); err != nil {
		log.Fatal().Err(err).Msg("migrations")
	}

	var pub events.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(ctx, cfg.AMQPURL, cfg.RetryAttempts, cfg.RetryBaseDelay)
		if err != nil {
			log.Warn().Err(err).Msg("rabbitmq unavailable, kitchen events disabled")
		} else {
			defer p.Close()
			async := events.NewAsync(p, 256, 5*time.Second)
			defer func() {
				drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := async.Close(drainCtx); err != nil {
					log.Warn().Err(err).Msg("[events] pending events dropped")
				}
			}()
			pub = async
		}
	}

	var archive storage.Archive = storage.Nop{}
	if cfg.ReceiptBucket != "" {
		a, err := storage.NewS3Archive(cfg.AWSRegion, cfg.ReceiptBucket)
		if err != nil {
			log.Warn().Err(err).Msg("s3 unavailable, receipts will not be archived")
		} else {
			archive = a
		}
	}

	authClient, err := auth.Dial(cfg.AuthSvcAddr, cfg.RetryAttempts, cfg.RetryBaseDelay)
	if err != nil {
		log.Fatal().Err(err).Msg("auth-service")
	}
	defer authClient.Close()

	menuRepo := menu.NewPGRepo(pool)
	orderRepo := order.NewPGRepo(pool)
	header := order.Header{Restaurant: cfg.RestaurantName}

	a := &app{
		menu:         menuRepo,
		inventory:    inventory.NewPGRepo(pool),
		orders:       order.NewService(orderRepo, order.NewExt(menuRepo, pub, archive), cfg.TaxRate, header),
		billing:      invoice.NewService(invoice.NewPGRepo(pool), orderRepo, cfg.InvoiceTerms, time.Local),
		employees:    employee.NewPGRepo(pool),
		customers:    customer.NewPGRepo(pool),
		reservations: reservation.NewPGRepo(pool),
		auth:         authClient,
		db:           pool,
		restaurant:   cfg.RestaurantName,
	}

	srv := &http.Server{
		Addr:              cfg.POSAddr,
		Handler:           newRouter(a),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.POSAddr).Msg("pos-service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("pos-service stopped")
}
