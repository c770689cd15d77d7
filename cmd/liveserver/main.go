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

	redisDriver "github.com/redis/go-redis/v9"

	"nightout/internal/config"
	"nightout/internal/handlers/liveserver"
	appKafka "nightout/internal/kafka"
	kafkahandlers "nightout/internal/kafka/handlers"
	appRedis "nightout/internal/redis"
	ws "nightout/internal/websocket"
)

func main() {
	// 1. Configuration
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("%s live server starting (version %s)", cfg.AppName, cfg.AppVersion)

	// 2. Redis (token blacklist, shared with the API server)
	redisClient := redisDriver.NewClient(&redisDriver.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	tokenBlacklist := appRedis.NewRedisTokenBlacklist(redisClient)

	// 3. Hub
	hub := ws.NewHub()
	go hub.Run()

	// 4. Kafka consumer feeding the hub
	consumer, err := appKafka.NewConfluentKafkaConsumer(cfg.Kafka)
	if err != nil {
		log.Fatalf("Failed to create Kafka consumer: %v", err)
	}
	defer consumer.Close()

	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	defer cancelConsumer()

	planEventLogic := kafkahandlers.NewPlanEventConsumerLogic(hub)
	go func() {
		err := consumer.Consume(consumerCtx,
			[]string{cfg.Kafka.PlanEventsTopic},
			cfg.Kafka.ConsumerGroup,
			planEventLogic.HandlePlanEvent,
		)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Kafka consumer stopped with error: %v", err)
		}
	}()

	// 5. WebSocket endpoint
	wsHandler := liveserver.NewWebSocketHandler(hub, tokenBlacklist, cfg)
	mux := http.NewServeMux()
	mux.HandleFunc(cfg.LiveServer.WebSocketPath, wsHandler.ServeWS)

	addr := net.JoinHostPort(cfg.LiveServer.Host, cfg.LiveServer.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Live server listening on %s (path %s)", addr, cfg.LiveServer.WebSocketPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Live server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down live server...")

	cancelConsumer()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Live server shutdown error: %v", err)
	}
	log.Println("Live server stopped.")
}
