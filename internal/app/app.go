// Package app assembles the server: database, settings snapshot, lock and
// event backends, HTTP surfaces, and the background sweeper.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/chitfundhq/chitfund/internal/auction"
	"github.com/chitfundhq/chitfund/internal/config"
	"github.com/chitfundhq/chitfund/internal/db"
	"github.com/chitfundhq/chitfund/internal/events"
	adminapi "github.com/chitfundhq/chitfund/internal/http/api/admin"
	"github.com/chitfundhq/chitfund/internal/http/api/front"
	"github.com/chitfundhq/chitfund/internal/lock"
	"github.com/chitfundhq/chitfund/internal/payments"
	"github.com/chitfundhq/chitfund/internal/settings"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// Migrate opens the database and runs migrations.
func Migrate(ctx context.Context, cfg config.Config) error {
	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	return db.Migrate(conn.WithContext(ctx))
}

// RunServer boots the API server and blocks until the context is
// cancelled or the listener fails.
func RunServer(ctx context.Context, cfg config.Config) error {
	if errValidate := cfg.Validate(); errValidate != nil {
		return errValidate
	}

	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	if errSettings := settings.Refresh(ctx, conn); errSettings != nil {
		return errSettings
	}

	locker, bus := buildCoordination(cfg)
	auctionSvc := auction.NewService(conn, locker, bus)
	paymentSvc := payments.NewService(conn)

	engine := buildEngine(conn, cfg, auctionSvc, paymentSvc)

	payments.NewSweeper(conn).Start(ctx)

	server := &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.Server.Listen)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			return errShutdown
		}
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}

// buildCoordination selects redis-backed locking and event fan-out when
// redis is configured and in-process fallbacks otherwise.
func buildCoordination(cfg config.Config) (lock.Locker, events.Bus) {
	if cfg.Redis.Addr == "" {
		log.Info("redis not configured, using in-process lock and event bus")
		return lock.NewMemoryLocker(), events.NewMemoryBus()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	log.Infof("using redis at %s for locks and events", cfg.Redis.Addr)
	return lock.NewRedisLocker(rdb), events.NewRedisBus(rdb)
}

func buildEngine(conn *gorm.DB, cfg config.Config, auctionSvc *auction.Service, paymentSvc *payments.Service) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	adminapi.RegisterAdminRoutes(engine, conn, cfg.JWT, auctionSvc, paymentSvc)
	front.RegisterFrontRoutes(engine, conn, cfg.JWT, auctionSvc, paymentSvc)
	return engine
}
