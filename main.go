package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"foodbooking/internal/auth"
	auth_api "foodbooking/internal/auth/api"
	"foodbooking/internal/cart"
	cart_api "foodbooking/internal/cart/api"
	"foodbooking/internal/catalog"
	catalog_api "foodbooking/internal/catalog/api"
	"foodbooking/internal/config"
	"foodbooking/internal/dashboard"
	dashboard_api "foodbooking/internal/dashboard/api"
	"foodbooking/internal/database/migrations"
	"foodbooking/internal/email"
	"foodbooking/internal/eta"
	eta_api "foodbooking/internal/eta/api"
	"foodbooking/internal/invoice"
	"foodbooking/internal/logger"
	"foodbooking/internal/order"
	orderdb "foodbooking/internal/order/db"
	orderkafka "foodbooking/internal/order/kafka"
	"foodbooking/internal/order/order_api"
	"foodbooking/internal/support"
	support_api "foodbooking/internal/support/api"
)

func connectPostgres(cfg config.DatabaseConfig, log *logger.Logger) *bun.DB {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Connecting to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.DSN())
		if err == nil {
			err = sqldb.Ping()
		}
		if err == nil {
			break
		}
		log.Error("DATABASE", fmt.Sprintf("PostgreSQL connection failed: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

	log.Info("DATABASE", "PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New())
}

func connectRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("Redis connection successful to %s", cfg.Addr))
	return client
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting foodbooking service initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	bunDB := connectPostgres(cfg.Database, log)
	defer bunDB.Close()

	runner := migrations.NewRunner(bunDB, migrations.Options{
		Dir:      "./migrations",
		SeedData: os.Getenv("DB_SEED") == "true",
	})
	if err := runner.Run(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
	}
	log.Info("DATABASE", "Migrations applied")

	redisClient := connectRedis(ctx, cfg.Redis, log)
	defer redisClient.Close()

	var events order.EventPublisher
	if cfg.Kafka.Enabled {
		producer := orderkafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		events = producer
		log.Info("KAFKA", fmt.Sprintf("Order events enabled on topic %s", cfg.Kafka.Topic))
	} else {
		log.Info("KAFKA", "Order events disabled")
	}

	// Stores and services.
	sessionStore := auth.NewSessionStore(redisClient, cfg.Session.TTL)
	authService := auth.NewService(&auth.DB{Bun: bunDB}, sessionStore, log)

	catalogDB := &catalog.DB{Bun: bunDB}
	catalogService := catalog.NewService(catalogDB, log)

	cartStore := cart.NewStore(redisClient, cfg.Session.CartTTL)
	cartService := cart.NewService(cartStore, catalogDB, log)

	renderer := invoice.NewRenderer(cfg.Invoice.FontPath)
	mailer := email.NewMailer(cfg.Email, log)
	orderService := order.NewService(&orderdb.DB{Bun: bunDB}, cartStore, catalogDB, renderer, mailer, events, log)

	dashboardService := dashboard.NewService(bunDB)
	supportService := support.NewService(&support.DB{Bun: bunDB}, log)
	etaClient := eta.NewClient(cfg.Maps.APIKey, &http.Client{Timeout: cfg.Maps.Timeout})

	// Handlers.
	authHandler := auth_api.NewHandler(authService, cfg.Session.CookieName, log)
	catalogHandler := catalog_api.NewHandler(catalogService, cartService, log)
	cartHandler := cart_api.NewHandler(cartService, log)
	orderHandler := order_api.NewHandler(orderService, cartService, log)
	dashboardHandler := dashboard_api.NewHandler(dashboardService, log)
	supportHandler := support_api.NewHandler(supportService, log)
	etaHandler := eta_api.NewHandler(etaClient, catalogDB, log)

	mw := auth.NewMiddleware(authService, cfg.Session.CookieName, log)

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()
	r.Use(mw.WithSession)

	// --- Public routes ---
	r.Get("/", catalogHandler.Home)
	r.Get("/app", catalogHandler.Browse)
	r.Get("/eta", etaHandler.Estimate)

	r.Get("/login", authHandler.LoginInfo)
	r.Post("/login", authHandler.Login)
	r.Get("/register", authHandler.LoginInfo)
	r.Post("/register", authHandler.Register)
	r.Get("/logout", authHandler.Logout)
	r.Post("/logout", authHandler.Logout)
	r.Get("/restaurant/login", authHandler.LoginInfo)
	r.Post("/restaurant/login", authHandler.RestaurantLogin)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", cartHandler.View)
		r.Post("/add/{dishID}", cartHandler.Add)
		r.Post("/add/{dishID}/json", cartHandler.AddJSON)
		r.Post("/update/{dishID}", cartHandler.Update)
		r.Post("/update/{dishID}/json", cartHandler.UpdateJSON)
		r.Post("/remove/{dishID}", cartHandler.Remove)
		r.Post("/clear", cartHandler.Clear)
	})
	log.Info("ROUTER", "Cart routes registered under /cart")

	// --- Customer routes (login required) ---
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireUser)

		r.Get("/checkout", orderHandler.CheckoutPage)
		r.Post("/checkout", orderHandler.Checkout)
		r.Get("/orders", orderHandler.History)
		r.Get("/invoice/{orderID}", orderHandler.Invoice)
		r.Get("/invoice/{orderID}/pdf", orderHandler.InvoicePDF)

		r.Get("/help", supportHandler.List)
		r.Post("/help", supportHandler.Submit)
		r.Post("/help/{ticketID}/status", supportHandler.UpdateStatus)
	})
	log.Info("ROUTER", "Customer routes registered")

	// --- Restaurant routes (staff profile required) ---
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireStaff)

		r.Get("/restaurant", dashboardHandler.Overview)
		r.Route("/restaurant/dishes", func(r chi.Router) {
			r.Get("/", catalogHandler.ManagementList)
			r.Get("/add", catalogHandler.AddDishForm)
			r.Post("/add", catalogHandler.AddDishes)
			r.Put("/{dishID}", catalogHandler.UpdateDish)
			r.Delete("/{dishID}", catalogHandler.DeleteDish)
		})
	})
	log.Info("ROUTER", "Restaurant routes registered under /restaurant")

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Foodbooking service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	} else {
		log.Info("HTTP", "Foodbooking service shutdown complete")
	}
}
