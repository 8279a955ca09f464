package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/greenshop/storefront/internal/cart"
	"github.com/greenshop/storefront/internal/config"
	"github.com/greenshop/storefront/internal/coupon"
	"github.com/greenshop/storefront/internal/es"
	"github.com/greenshop/storefront/internal/handlers"
	"github.com/greenshop/storefront/internal/logging"
	loggingmw "github.com/greenshop/storefront/internal/middleware/logging"
	"github.com/greenshop/storefront/internal/mykafka"
	"github.com/greenshop/storefront/internal/pubsub"
	httpserver "github.com/greenshop/storefront/internal/transport/http"
	"github.com/greenshop/storefront/internal/userstore"
	"github.com/greenshop/storefront/internal/wishlist"
	"github.com/greenshop/storefront/pkg/db"
)

const (
	productIndex    = "products"
	userMirrorIndex = "user_records"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	config.MustNonEmpty(cfg.CouponURL, "COUPON_URL")
	config.MustNonEmpty(cfg.ESURL, "ES_URL")

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	gormDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("database migrate error: %v", err)
	}

	producer := mykafka.NewProducer(cfg.KafkaBrokers)

	esClient, err := es.NewClient(cfg)
	if err != nil {
		log.Fatalf("elasticsearch init error: %v", err)
	}

	carts := cart.NewManager()
	bus := pubsub.NewBus()

	store := userstore.New(gormDB, es.NewUserMirror(esClient, userMirrorIndex))
	sync := wishlist.New(store, bus)

	deps := httpserver.Deps{
		JWTSecret: cfg.JWTSecret,
		ProductHandler: &handlers.ProductHandler{
			DB:       gormDB,
			Producer: producer,
			ES:       esClient,
			Index:    productIndex,
		},
		CartHandler:     &handlers.CartHandler{DB: gormDB, Carts: carts, Producer: producer},
		CouponHandler:   &handlers.CouponHandler{Carts: carts, Resolver: coupon.NewClient(cfg.CouponURL), Producer: producer},
		WishlistHandler: &handlers.WishlistHandler{DB: gormDB, Wishlist: sync, Producer: producer, JWTSecret: cfg.JWTSecret},
		OrderHandler:    &handlers.OrderHandler{DB: gormDB, Carts: carts, Producer: producer},
		SearchHandler:   &handlers.SearchHandler{ES: esClient, Index: productIndex},
		BlogHandler:     &handlers.BlogHandler{DB: gormDB},
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
