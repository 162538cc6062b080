package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"ephemeral-chat/internal/agent"
	"ephemeral-chat/internal/handlers"
	"ephemeral-chat/internal/middleware"
	"ephemeral-chat/internal/observability"
	"ephemeral-chat/internal/rabbitmq"
	"ephemeral-chat/internal/repositories"
	"ephemeral-chat/internal/store"
	"ephemeral-chat/internal/telemetry"
	"ephemeral-chat/internal/ws"
)

func main() {
	ctx := context.Background()

	environment := getEnv("ENVIRONMENT", "development")

	shutdownTracing, err := telemetry.InitTracing(ctx, getEnv("OTLP_ENDPOINT", ""), "ephemeral-chat", environment)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("tracing shutdown error: %v", err)
		}
	}()

	redisStore, err := store.NewRedisStore(ctx, getEnv("REDIS_ADDR", "localhost:6379"))
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisStore.Close()

	publisher := rabbitmq.NewPublisher(getEnv("AMQP_URL", ""), getEnv("AMQP_EXCHANGE", "platform.events"))
	defer publisher.Close()
	log.Printf("event publisher mode=%s reason=%q", rabbitmq.PublisherMode(publisher), rabbitmq.PublisherNoopReason(publisher))

	amqpURL := getEnv("AMQP_URL", "")
	if amqpURL != "" {
		if obsPublisher, err := observability.NewAMQPPublisher(amqpURL, getEnv("AMQP_EXCHANGE", "platform.events")); err == nil {
			observability.SetPublisher(obsPublisher)
			defer obsPublisher.Close()
		} else {
			log.Printf("observability publisher disabled: %v", err)
		}
	}

	audit := telemetry.NewAuditEmitter(publisher, "audit.rooms", "ephemeral-chat", environment)

	roomRepo := repositories.NewRoomRepo(redisStore)
	memberRepo := repositories.NewMemberRepo(redisStore)
	messageRepo := repositories.NewMessageRepo(redisStore)

	hub := ws.NewHub()

	roomHandler := handlers.NewRoomHandler(roomRepo, memberRepo, hub, audit)
	messageHandler := handlers.NewMessageHandler(roomRepo, messageRepo, hub)
	roomWS := ws.NewRoomWebSocketHandler(hub, roomRepo, memberRepo)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("ephemeral-chat"))
	router.Use(observability.HTTPMetricsMiddleware())

	session := middleware.SessionMiddleware(roomRepo, memberRepo)
	gate := middleware.EntryGate(roomRepo, memberRepo, agent.IsAutomated)

	router.POST("/rooms", roomHandler.CreateRoom)
	router.POST("/rooms/:room_id/join", gate, roomHandler.JoinRoom)
	router.GET("/rooms/:room_id/ttl", session, roomHandler.GetTTL)
	router.GET("/rooms/:room_id/users", session, roomHandler.GetUsers)
	router.POST("/rooms/:room_id/leave", session, roomHandler.LeaveRoom)
	router.DELETE("/rooms/:room_id", session, roomHandler.DestroyRoom)
	router.POST("/rooms/:room_id/messages", session, messageHandler.PostMessage)
	router.GET("/rooms/:room_id/messages", session, messageHandler.ListMessages)

	router.GET("/ws/rooms/:room_id", roomWS.Handle)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(router, audit, getEnv("DEBUG_ROUTES", "") == "true")

	port := getEnv("PORT", "8083")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
