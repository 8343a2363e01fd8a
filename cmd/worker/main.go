package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bway/internal/config"
	"bway/internal/handlers"
	"bway/internal/queue"
	"bway/internal/repositories/mongodb"
	"bway/internal/services"
	"bway/internal/workers"
	"bway/pkg/cache"
	"bway/pkg/database"
	"bway/pkg/events"
	"bway/pkg/geocode"
	"bway/pkg/logger"
	"bway/routes"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Missing .env is fine; containers inject real environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"name":        cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting worker service")

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer db.Close()

	var cacheService services.CacheService
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, continuing without cache")
		} else {
			defer redisCache.Close()
			cacheService = redisCache
		}
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		log.WithError(err).Fatal("Failed to load AWS config")
	}

	transport := queue.NewSQSTransport(awsCfg)
	resolver := buildResolver(cfg, awsCfg, log)

	var sink services.EventSink
	if cfg.AWS.SNSTopicARN != "" {
		sink = events.NewSNSPublisher(awsCfg, cfg.AWS.SNSTopicARN)
	} else {
		sink = services.NewLogSink(log)
	}

	routeRepo := mongodb.NewRouteRepository(db.Database, cacheService)
	orderRepo := mongodb.NewOrderRepository(db.Database)
	billingRepo := mongodb.NewBillingRepository(db.Database)
	userRepo := mongodb.NewUserRepository(db.Database)

	matcher := services.NewMatchingService(routeRepo, resolver, log)

	workerConfig := workers.Config{
		MaxMessages:  int32(cfg.Worker.MaxMessages),
		PollInterval: cfg.Worker.PollInterval,
		ErrorBackoff: cfg.Worker.ErrorBackoff,
		MaxRetries:   cfg.Worker.MaxRetries,
		RequeueDelay: cfg.Worker.RequeueDelay,
	}

	manager := workers.NewManager(log)

	routeHandler := workers.NewRouteAssignmentHandler(
		orderRepo, userRepo, matcher, sink, cfg.Worker.StaticPickupAddress, log)
	raConfig := workerConfig
	raConfig.QueueURL = cfg.AWS.RouteAssignmentQueue
	manager.Register(workers.NewRouteAssignmentWorker(raConfig, transport, routeHandler, log))

	invoiceHandler := workers.NewInvoiceGenerationHandler(
		orderRepo, userRepo, billingRepo, sink, log)
	igConfig := workerConfig
	igConfig.QueueURL = cfg.AWS.InvoiceGenerationQueue
	manager.Register(workers.NewInvoiceGenerationWorker(igConfig, transport, invoiceHandler, log))

	manager.StartAll()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	adminHandler := handlers.NewAdminHandler(manager, transport, log)
	routes.SetupWorkerRoutes(router, adminHandler)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler: router,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("Admin API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Admin API failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutdown signal received")
	if !manager.Shutdown(cfg.Worker.ShutdownGrace) {
		log.Warn("Some workers did not stop within the grace period")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Admin API shutdown failed")
	}

	log.Info("Worker service stopped")
}

// buildResolver assembles the geocoding and routing fallback chain: Amazon
// Location first, Google when a key is configured, the public OSM services
// next, and the deterministic offline provider as the terminal tier.
func buildResolver(cfg *config.Config, awsCfg aws.Config, log *logger.Logger) *geocode.Resolver {
	awsProvider := geocode.NewAWSLocationProvider(
		awsCfg, cfg.AWS.PlaceIndexName, cfg.AWS.RouteCalculatorName)

	geocoders := []geocode.Geocoder{awsProvider}
	routers := []geocode.Router{awsProvider}

	if cfg.Maps.GoogleAPIKey != "" {
		google, err := geocode.NewGoogleProvider(cfg.Maps.GoogleAPIKey)
		if err != nil {
			log.WithError(err).Warn("Google Maps provider unavailable")
		} else {
			geocoders = append(geocoders, google)
			routers = append(routers, google)
		}
	}

	geocoders = append(geocoders,
		geocode.NewNominatimProvider(cfg.Maps.NominatimBaseURL),
		geocode.NewSyntheticGeocoder())
	routers = append(routers,
		geocode.NewOSRMProvider(cfg.Maps.OSRMBaseURL),
		geocode.NewSyntheticRouter())

	return geocode.NewResolver(geocoders, routers, log)
}
