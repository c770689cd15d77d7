package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	redisDriver "github.com/redis/go-redis/v9"

	"nightout/internal/config"
	"nightout/internal/handlers/apiserver"
	appKafka "nightout/internal/kafka"
	"nightout/internal/middleware"
	appRedis "nightout/internal/redis"
	"nightout/internal/services"
	"nightout/internal/storage"
)

func main() {
	// 1. Configuration
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("%s API server starting (version %s)", cfg.AppName, cfg.AppVersion)

	// 2. Database
	db, err := storage.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := storage.AutoMigrateTables(db); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	// 3. Redis (token blacklist)
	redisClient := redisDriver.NewClient(&redisDriver.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	tokenBlacklist := appRedis.NewRedisTokenBlacklist(redisClient)

	// 4. Kafka producer (plan activity feed)
	producer, err := appKafka.NewConfluentKafkaProducer(cfg.Kafka)
	if err != nil {
		log.Fatalf("Failed to create Kafka producer: %v", err)
	}
	defer producer.Close()

	// 5. Repositories
	userRepo := storage.NewGormUserRepository(db)
	friendshipRepo := storage.NewGormFriendshipRepository(db)
	planRepo := storage.NewGormPlanRepository(db)
	venueRepo := storage.NewGormVenueRepository(db)

	// 6. Services
	identityService := services.NewIdentityService(userRepo)
	userService := services.NewUserService(userRepo)
	friendshipService := services.NewFriendshipService(db, userRepo, friendshipRepo)
	planService := services.NewPlanService(db, planRepo, venueRepo, userRepo, producer, cfg.Kafka)
	attendanceService := services.NewAttendanceService(planRepo)

	// 7. Handlers
	sessionHandler := apiserver.NewSessionHandler(identityService, tokenBlacklist, cfg.Auth)
	userHandler := apiserver.NewUserHandler(userService)
	friendshipHandler := apiserver.NewFriendshipHandler(friendshipService)
	planHandler := apiserver.NewPlanHandler(planService)
	attendanceHandler := apiserver.NewAttendanceHandler(attendanceService)

	// 8. Routes
	r := mux.NewRouter()

	// Identity gateway exchange (shared-key protected, no session yet)
	r.HandleFunc("/auth/session", sessionHandler.ExchangeHandler).Methods(http.MethodPost)

	authMW := middleware.AuthMiddleware(cfg.Auth.JWTSecretKey, tokenBlacklist)

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(authMW)

	apiRouter.HandleFunc("/auth/logout", sessionHandler.LogoutHandler).Methods(http.MethodPost)

	apiRouter.HandleFunc("/users/me", userHandler.GetMyProfileHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/users/search", userHandler.SearchUsersHandler).Methods(http.MethodGet)

	apiRouter.HandleFunc("/friend-requests", friendshipHandler.RequestFriendshipHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/friend-requests/pending", friendshipHandler.ListPendingRequestsHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/friend-requests/{requestID:[0-9]+}/accept", friendshipHandler.AcceptFriendshipHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/friend-requests/{requestID:[0-9]+}/reject", friendshipHandler.RejectFriendshipHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/friends", friendshipHandler.ListFriendsHandler).Methods(http.MethodGet)

	apiRouter.HandleFunc("/plans", planHandler.ListPlansHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/plans", planHandler.SetPlanHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/plans", planHandler.ClearPlanHandler).Methods(http.MethodDelete)

	apiRouter.HandleFunc("/venues", attendanceHandler.ListVenuesHandler).Methods(http.MethodGet)

	// 9. CORS
	corsHandler := handlers.CORS(
		handlers.AllowedOrigins(cfg.APIServer.CORS.AllowedOrigins),
		handlers.AllowedMethods(cfg.APIServer.CORS.AllowedMethods),
		handlers.AllowedHeaders(cfg.APIServer.CORS.AllowedHeaders),
		handlers.ExposedHeaders(cfg.APIServer.CORS.ExposedHeaders),
		handlers.AllowCredentials(),
		handlers.MaxAge(cfg.APIServer.CORS.MaxAge),
	)(r)

	// 10. Server with graceful shutdown
	addr := net.JoinHostPort(cfg.APIServer.Host, cfg.APIServer.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("API server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("API server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("API server shutdown error: %v", err)
	}
	log.Println("API server stopped.")
}
