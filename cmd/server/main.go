package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/mrrobot2937/mazorca-system/internal/api"
	"github.com/mrrobot2937/mazorca-system/internal/cache"
	"github.com/mrrobot2937/mazorca-system/internal/cart"
	"github.com/mrrobot2937/mazorca-system/internal/config"
	httpapi "github.com/mrrobot2937/mazorca-system/internal/http"
	"github.com/mrrobot2937/mazorca-system/internal/poller"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	// Optional Redis: shared cart and cache stores across instances. Without
	// it everything lives in process memory, like the original single-page
	// session.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		log.WithField("addr", cfg.RedisAddr).Info("connected to redis")
	}

	// Backend transport, chosen once at startup.
	var backend api.Client
	switch cfg.Backend {
	case config.BackendREST:
		backend = api.NewRESTClient(api.RESTConfig{
			BaseURL:             cfg.RESTURL,
			DefaultRestaurantID: cfg.DefaultRestaurantID,
			Timeout:             cfg.RequestTimeout,
		}, log)
	default:
		backend = api.NewGraphQLClient(api.GraphQLConfig{
			Endpoint:            cfg.GraphQLURL,
			DefaultRestaurantID: cfg.DefaultRestaurantID,
			Timeout:             cfg.RequestTimeout,
		}, log)
	}
	log.WithField("backend", cfg.Backend).Info("backend transport selected")

	var listCache cache.Cache
	if redisClient != nil {
		listCache = cache.NewRedisCache(redisClient, cfg.CacheDuration)
	} else {
		memCache := cache.NewMemoryCache(cfg.CacheDuration)
		defer memCache.Close()
		listCache = memCache
	}
	client := api.NewCachingClient(backend, listCache, log)

	var cartStore cart.Store
	if redisClient != nil {
		cartStore = cart.NewRedisStore(redisClient)
	} else {
		memStore := cart.NewMemoryStore()
		defer memStore.Close()
		cartStore = memStore
	}

	pollCtx, stopPoller := context.WithCancel(context.Background())
	defer stopPoller()
	orderPoller := poller.New(client, poller.Config{
		RestaurantID: cfg.DefaultRestaurantID,
		Interval:     cfg.PollInterval,
	}, log)
	go orderPoller.Run(pollCtx)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Client:              client,
		CartStore:           cartStore,
		Poller:              orderPoller,
		Log:                 log,
		DefaultRestaurantID: cfg.DefaultRestaurantID,
		RestaurantName:      cfg.RestaurantName,
		WhatsAppNumber:      cfg.WhatsAppNumber,
		RequestTimeout:      cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stopPoller()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Info("server exited")
}
