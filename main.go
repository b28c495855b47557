package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"flickpick_server/config"
	"flickpick_server/routes"
	"flickpick_server/services"
	"flickpick_server/socket"
	"flickpick_server/utils"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(cfg.App.Env == "development", cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Initialize DynamoDB client and service
	logger.Info("Initializing DynamoDB client...")
	dynamoClient, err := services.NewDynamoDBClient(ctx, cfg.AWS.Region)
	if err != nil {
		logger.Fatalw("Failed to initialize DynamoDB client", "error", err)
	}
	dynamoService := &services.DynamoService{Client: dynamoClient}

	// Optional Redis cache for catalog responses
	var cache *redis.Client
	if cfg.Redis.Addr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := cache.Ping(ctx).Err(); err != nil {
			logger.Warnw("Redis unreachable, catalog caching disabled", "error", err)
			cache = nil
		}
	}

	// Socket server for realtime group notifications
	socketServer := socket.NewServer(logger)
	go func() {
		if err := socketServer.IO.Serve(); err != nil {
			logger.Errorw("socket server stopped", "error", err)
		}
	}()
	defer socketServer.IO.Close()

	// Initialize Services
	catalogService := services.NewCatalogService(cfg.Catalog, cfg.CatalogTimeout, cache, cfg.CacheTTL, logger)
	groupService := &services.GroupService{Dynamo: dynamoService, Log: logger}
	tonightService := &services.TonightService{Dynamo: dynamoService, Catalog: catalogService, Notify: socketServer, Log: logger}
	swipeService := &services.SwipeService{Dynamo: dynamoService, Tonight: tonightService, Log: logger}
	matchService := &services.MatchService{Swipes: swipeService, Groups: groupService, Catalog: catalogService, Notify: socketServer, Log: logger}
	discoveryService := &services.DiscoveryService{Catalog: catalogService, Swipes: swipeService, Providers: groupService, Log: logger}

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to FlickPick")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	r.Handle("/socket.io/", socketServer.IO)

	// Register routes
	routes.RegisterDiscoveryRoutes(r, discoveryService)
	routes.RegisterSwipeRoutes(r, swipeService, matchService, logger)
	routes.RegisterMatchRoutes(r, matchService)
	routes.RegisterTonightRoutes(r, tonightService)
	routes.RegisterGroupRoutes(r, groupService)

	// S3 presigning is optional; skip when no bucket is configured
	if cfg.AWS.Bucket != "" {
		s3Service, err := services.NewS3Service(ctx, cfg.AWS.Region, cfg.AWS.Bucket)
		if err != nil {
			logger.Fatalw("Failed to initialize S3 client", "error", err)
		}
		routes.RegisterS3Routes(r, s3Service, groupService)
	}

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Infow("Starting server", "addr", addr)
	if err := server.ListenAndServe(); err != nil {
		logger.Fatalw("Server stopped", "error", err)
	}
}
