package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/ticket-purchase-service/internal/config"
	"github.com/iliyamo/ticket-purchase-service/internal/database"
	"github.com/iliyamo/ticket-purchase-service/internal/handler"
	"github.com/iliyamo/ticket-purchase-service/internal/queue"
	"github.com/iliyamo/ticket-purchase-service/internal/repository"
	"github.com/iliyamo/ticket-purchase-service/internal/router"
	"github.com/iliyamo/ticket-purchase-service/internal/service"
)

func main() {
	cfg := config.Load()
	log := newLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("connect to database")
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.WithError(err).Fatal("migrate database")
	}

	rdb := config.NewRedisClient(ctx) // nil disables rate limiting and caching
	if rdb != nil {
		defer rdb.Close()
	}

	accounts := repository.NewAccountRepo(db)
	payments := repository.NewPaymentRepo(db)
	broker := service.NewQueuePublisher(cfg.AMQPURL, cfg.SeatQueue, cfg.PurchaseQueue, log)
	tickets := service.NewTicketService(payments, broker, broker, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())

	router.RegisterPublic(e, config.LoadCacheConfig(), rdb)
	router.RegisterAuth(e, handler.NewAuthHandler(accounts, cfg.JWTSecret, cfg.AccessTTLMin, cfg.BcryptCost))
	router.RegisterPurchases(e, handler.NewPurchaseHandler(tickets, payments, accounts), cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := queue.NewSeatConsumer(cfg.AMQPURL, cfg.SeatQueue, log).Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		addr := ":" + cfg.Port
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
	log.Info("server stopped")
}

func newLogger(env string) *logrus.Logger {
	log := logrus.StandardLogger()
	if env != "dev" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}
