package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/NerdyPepper/furby/internal/cache"
	shophttp "github.com/NerdyPepper/furby/internal/http"
	"github.com/NerdyPepper/furby/internal/publisher"
	"github.com/NerdyPepper/furby/internal/repository"
	"github.com/NerdyPepper/furby/internal/service"
	"github.com/NerdyPepper/furby/internal/session"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	HTTPPort        string
	DBHost          string
	DBPort          int
	DBUser          string
	DBPassword      string
	DBName          string
	MigrationsPath  string
	RedisAddr       string
	KafkaBrokers    []string
	SessionTTL      time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "7878"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          dbPort,
		DBUser:          getEnv("DB_USER", "furby"),
		DBPassword:      getEnv("DB_PASSWORD", "furby"),
		DBName:          getEnv("DB_NAME", "furby"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		SessionTTL:      24 * time.Hour,
		RequestTimeout:  10 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	cred := &repository.Credentials{
		Host:              cfg.DBHost,
		Port:              cfg.DBPort,
		User:              cfg.DBUser,
		Password:          cfg.DBPassword,
		DBName:            cfg.DBName,
		MigrationsDirPath: cfg.MigrationsPath,
	}
	db, err := repository.Connect(cred)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	if err := repository.RunMigrations(db, cred); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	log.Println("connected to postgres")

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	sessions := session.NewRedisStore(redisClient, cfg.SessionTTL)
	productCache := cache.NewRedisCache(redisClient)

	customerService := service.NewCustomerService(customerRepo, orderRepo, ratingRepo)
	catalogService := service.NewCatalogService(productRepo, productCache)
	cartService := service.NewCartService(cartRepo)
	checkoutService := service.NewCheckoutService(orderRepo)
	ratingService := service.NewRatingService(ratingRepo)

	router := shophttp.NewRouter(
		sessions,
		shophttp.NewUserHandler(customerService, sessions, cfg.RequestTimeout),
		shophttp.NewProductHandler(catalogService, ratingService, cfg.RequestTimeout),
		shophttp.NewCartHandler(cartService, cfg.RequestTimeout),
		shophttp.NewRatingHandler(ratingService, cfg.RequestTimeout),
		shophttp.NewCheckoutHandler(checkoutService, cfg.RequestTimeout),
	)

	pollerCtx, pollerCancel := context.WithCancel(context.Background())
	defer pollerCancel()
	poller := publisher.NewOutboxPoller(orderRepo, cfg.KafkaBrokers...)
	go poller.Run(pollerCtx)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	pollerCancel()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
