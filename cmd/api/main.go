package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmwangi/sokoni-backend/api/routes"
	"github.com/dmwangi/sokoni-backend/internal/accounts"
	adsvc "github.com/dmwangi/sokoni-backend/internal/ads"
	ordersvc "github.com/dmwangi/sokoni-backend/internal/orders"
	productsvc "github.com/dmwangi/sokoni-backend/internal/products"
	vendorsvc "github.com/dmwangi/sokoni-backend/internal/vendors"
	wishlistsvc "github.com/dmwangi/sokoni-backend/internal/wishlist"
	"github.com/dmwangi/sokoni-backend/pkg/auth/session"
	"github.com/dmwangi/sokoni-backend/pkg/cloudinary"
	"github.com/dmwangi/sokoni-backend/pkg/config"
	"github.com/dmwangi/sokoni-backend/pkg/db"
	"github.com/dmwangi/sokoni-backend/pkg/firebase"
	"github.com/dmwangi/sokoni-backend/pkg/logger"
	"github.com/dmwangi/sokoni-backend/pkg/migrate"
	"github.com/dmwangi/sokoni-backend/pkg/redis"
	"github.com/dmwangi/sokoni-backend/pkg/stripe"
	"gorm.io/gorm"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	verifier, err := firebase.NewClient(context.Background(), cfg.Firebase, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap firebase", err)
		os.Exit(1)
	}

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	uploader, err := cloudinary.NewClient(context.Background(), cfg.Cloudinary, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap cloudinary", err)
		os.Exit(1)
	}

	accountsRepo := accounts.NewRepository(dbClient.DB())
	productsRepo := productsvc.NewRepository(dbClient.DB())

	accountsService, err := accounts.NewService(accounts.ServiceParams{
		Repo:           accountsRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create accounts service", err)
		os.Exit(1)
	}

	productsService, err := productsvc.NewService(productsvc.ServiceParams{
		Repo:     productsRepo,
		DBClient: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	vendorsService, err := vendorsvc.NewService(vendorsvc.ServiceParams{
		Repo:     vendorsvc.NewRepository(dbClient.DB()),
		DBClient: dbClient,
		AccountsForTx: func(tx *gorm.DB) vendorsvc.RoleUpdater {
			return accounts.NewRepository(tx)
		},
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create vendors service", err)
		os.Exit(1)
	}

	adsService, err := adsvc.NewService(adsvc.ServiceParams{
		Repo:        adsvc.NewRepository(dbClient.DB()),
		DBClient:    dbClient,
		ProductRepo: productsRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create ads service", err)
		os.Exit(1)
	}

	ordersService, err := ordersvc.NewService(ordersvc.ServiceParams{
		Repo:        ordersvc.NewRepository(dbClient.DB()),
		DBClient:    dbClient,
		AccountRepo: accountsRepo,
		Gateway:     stripeClient,
		Currency:    cfg.Stripe.Currency,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlistsvc.NewService(wishlistsvc.ServiceParams{
		Repo:        wishlistsvc.NewRepository(dbClient.DB()),
		ProductRepo: productsRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, verifier, uploader, routes.Services{
		Accounts: accountsService,
		Products: productsService,
		Vendors:  vendorsService,
		Ads:      adsService,
		Orders:   ordersService,
		Wishlist: wishlistService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stop:
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
