package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"stash-backend/internal/cart"
	"stash-backend/internal/config"
	"stash-backend/internal/db"
	"stash-backend/internal/httpserver"
	"stash-backend/internal/proof"
	categoryrepo "stash-backend/internal/repository/category"
	characterrepo "stash-backend/internal/repository/character"
	customerrepo "stash-backend/internal/repository/customer"
	orderrepo "stash-backend/internal/repository/order"
	productrepo "stash-backend/internal/repository/product"
	profilerepo "stash-backend/internal/repository/profile"
	tokenrepo "stash-backend/internal/repository/token"
	catalogsvc "stash-backend/internal/service/catalog"
	customersvc "stash-backend/internal/service/customer"
	ordersvc "stash-backend/internal/service/order"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	gin.SetMode(gin.ReleaseMode)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	var stashSlot cart.Slot = cart.NewRedisSlot(redisClient)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Printf("redis not reachable at %s, stash falls back to memory: %v", cfg.RedisAddr, err)
		stashSlot = cart.NewMemorySlot()
	}

	productRepo := productrepo.NewPostgres(dbpool, logger)
	categoryRepo := categoryrepo.NewPostgres(dbpool)
	characterRepo := characterrepo.NewPostgres(dbpool)
	customerRepo := customerrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	profileRepo := profilerepo.NewPostgres(dbpool)

	catalogService := catalogsvc.New(productRepo, categoryRepo, characterRepo, logger)
	customerService := customersvc.New(customerRepo, tokenRepo)
	orderService := ordersvc.New(orderRepo, logger)
	proofStore := proof.NewDiskStore(cfg.ProofDir, cfg.FileURLHost, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CustomerSvc: customerService,
		CatalogSvc:  catalogService,
		OrderSvc:    orderService,
		ProfileRepo: profileRepo,
		StashSlot:   stashSlot,
		ProofStore:  proofStore,
		AdminEmails: cfg.AdminEmails,
		UploadsDir:  cfg.ProofDir,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
