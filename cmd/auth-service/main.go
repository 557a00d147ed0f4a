package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"

	"github.com/MikeMC777/restaurant-pos/internal/auth"
	"github.com/MikeMC777/restaurant-pos/internal/authpb"
	"github.com/MikeMC777/restaurant-pos/internal/config"
	"github.com/MikeMC777/restaurant-pos/internal/db"
	"github.com/MikeMC777/restaurant-pos/internal/logx"
)

func main() {
	cfg := config.Load()
	logx.New("auth-service", cfg.LogLevel, cfg.LogFormat)

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

	srv := auth.NewServer(auth.NewPGRepo(pool), cfg.SessionTTL)
	go srv.PurgeExpired(ctx, 10*time.Minute)

	l, err := net.Listen("tcp", cfg.AuthListenAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.AuthListenAddr).Msg("listen")
	}
	gs := grpc.NewServer()
	authpb.RegisterAuthServiceServer(gs, srv)

	go func() {
		<-ctx.Done()
		log.Info().Msg("auth-service stopping")
		gs.GracefulStop()
	}()

	log.Info().Str("addr", cfg.AuthListenAddr).Msg("auth-service listening")
	if err := gs.Serve(l); err != nil {
		log.Fatal().Err(err).Msg("grpc server")
	}
	log.Info().Msg("auth-service stopped")
}
