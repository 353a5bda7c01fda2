package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"social-service/internal/cache"
	"social-service/internal/config"
	"social-service/internal/db"
	"social-service/internal/handlers"
	"social-service/internal/logger"
	"social-service/internal/metrics"
	"social-service/internal/middleware"
	"social-service/internal/observability"
	"social-service/internal/rabbitmq"
	"social-service/internal/repositories"
	"social-service/internal/telemetry"
	"social-service/internal/ws"
)

func main() {
	logger.Init()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	redisCache := cache.New(cfg.RedisAddr, cfg.RedisPassword)
	if err := redisCache.Ping(ctx); err != nil {
		logger.Warn("redis unavailable; liked-me counts fall back to the database", "error", err)
		redisCache = nil
	}

	publisher := newPublisher(cfg.AMQPURL, cfg.EventExchange)
	defer publisher.Close()

	auditPublisher := newPublisher(cfg.AMQPURL, cfg.LogsExchange)
	defer auditPublisher.Close()

	observability.InitMetrics(prometheus.DefaultRegisterer)
	metrics.RegisterDomainMetrics()

	hub := ws.NewHub()
	go hub.Run()

	friendRepo := repositories.NewFriendRepository(database, publisher)
	userRepo := repositories.NewUserRepository(database)
	groupRepo := repositories.NewGroupRepository(database, publisher)
	datingRepo := repositories.NewDatingRepository(database, publisher)
	postRepo := repositories.NewPostRepository(database)
	messageRepo := repositories.NewMessageRepository(database)

	auditEmitter := telemetry.NewAuditEmitter(auditPublisher, cfg.ServiceName, cfg.AppEnv)

	friendHandler := handlers.NewFriendHandler(friendRepo, userRepo, auditEmitter, hub)
	userHandler := handlers.NewUserHandler(userRepo, friendRepo, cfg.AvatarDir)
	groupHandler := handlers.NewGroupHandler(groupRepo)
	datingHandler := handlers.NewDatingHandler(datingRepo, redisCache, hub)
	postHandler := handlers.NewPostHandler(postRepo, friendRepo, userRepo)
	messageHandler := handlers.NewMessageHandler(messageRepo, friendRepo, userRepo, hub)
	relationshipHandler := handlers.NewRelationshipHandler(friendRepo, groupRepo, datingRepo, userRepo)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/users/:id", middleware.OptionalJWTAuth(cfg.JWTSecret), userHandler.GetUserByID)
	r.GET("/ws", ws.Handler(hub, cfg.JWTSecret))

	auth := r.Group("", middleware.JWTAuth(cfg.JWTSecret))

	auth.GET("/users/me", userHandler.GetMe)
	auth.PATCH("/users/me", userHandler.UpdateMe)
	auth.POST("/users/me/avatar", userHandler.UploadAvatar)
	auth.DELETE("/users/me/avatar", userHandler.DeleteAvatar)

	auth.GET("/relationships/:id", relationshipHandler.Resolve)

	auth.POST("/friends/requests", friendHandler.SendRequest)
	auth.GET("/friends/requests/incoming", friendHandler.ListIncoming)
	auth.POST("/friends/requests/:id/accept", friendHandler.AcceptRequest)
	auth.POST("/friends/requests/:id/reject", friendHandler.RejectRequest)
	auth.GET("/friends", friendHandler.ListFriends)
	auth.DELETE("/friends/:id", friendHandler.RemoveFriend)

	auth.POST("/groups", groupHandler.Create)
	auth.GET("/groups/:id", groupHandler.Get)
	auth.POST("/groups/:id/join", groupHandler.Join)
	auth.DELETE("/groups/:id/membership", groupHandler.Leave)
	auth.GET("/groups/:id/membership", groupHandler.Membership)
	auth.GET("/groups/:id/members", groupHandler.ListMembers)

	auth.POST("/dating/likes", datingHandler.Like)
	auth.POST("/dating/passes", datingHandler.Pass)
	auth.GET("/dating/liked-me", datingHandler.ListLikedMe)
	auth.GET("/dating/liked-me/count", datingHandler.CountLikedMe)
	auth.GET("/dating/matches", datingHandler.ListMatches)

	auth.POST("/users/:id/wall", postHandler.CreateOnWall)
	auth.GET("/users/:id/wall", postHandler.ListWall)
	auth.DELETE("/posts/:id", postHandler.Delete)

	auth.POST("/messages", messageHandler.Send)
	auth.GET("/conversations", messageHandler.ListConversations)
	auth.GET("/conversations/:id/messages", messageHandler.ListWithPeer)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("starting http server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown error", "error", err)
	}
}

func newPublisher(amqpURL, exchange string) rabbitmq.Publisher {
	if amqpURL == "" {
		logger.Warn("AMQP_URL not set; event publishing disabled", "exchange", exchange)
		return rabbitmq.NewNoopPublisher()
	}
	pub, err := rabbitmq.NewPublisher(amqpURL, exchange)
	if err != nil {
		logger.Warn("failed to initialize rabbitmq publisher", "exchange", exchange, "error", err)
		return rabbitmq.NewNoopPublisher()
	}
	return pub
}
