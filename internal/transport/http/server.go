package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"graphdesk/internal/ai"
	appsvc "graphdesk/internal/app"
	"graphdesk/internal/bootstrap"
	"graphdesk/internal/cache"
	rabbitmqClient "graphdesk/internal/platform/rabbitmq"
	"graphdesk/internal/pkg/retry"
	"graphdesk/internal/repository"
	"graphdesk/internal/transport/http/handler"
	"graphdesk/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	documentRepo := repository.NewDocumentRepository(app.MySQL)
	nodeRepo := repository.NewKnowledgeNodeRepository(app.MySQL)
	relRepo := repository.NewKnowledgeRelationshipRepository(app.MySQL)
	convRepo := repository.NewConversationRepository(app.MySQL)
	messageRepo := repository.NewMessageRepository(app.MySQL)

	statsCache := cache.NewStatsCache(app.Redis, time.Duration(app.Config.Redis.StatsTTLSeconds)*time.Second)
	historyCache := cache.NewHistoryCache(
		app.Redis,
		time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)
	publisher := rabbitmqClient.NewMessagePublisher(app.MQConn, app.Config.RabbitMQ.MessagePersistQueue)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	graphService := appsvc.NewGraphService(nodeRepo, relRepo, documentRepo, statsCache, nil)
	pipelineService := appsvc.NewPipelineService(documentRepo, app.Blobs, graphService)
	documentService := appsvc.NewDocumentService(documentRepo, app.Blobs, pipelineService, retryPolicyFromConfig(app))
	chatService := appsvc.NewChatService(
		convRepo,
		messageRepo,
		nodeRepo,
		publisher,
		historyCache,
		ai.ChatConfig{
			BaseURL: app.Config.LLM.BaseURL,
			APIKey:  app.Config.LLM.APIKey,
			Model:   app.Config.LLM.Model,
		},
		app.Config.LLM.MaxContextMessage,
	)

	authHandler := handler.NewAuthHandler(authService)
	documentHandler := handler.NewDocumentHandler(documentService, app.Config.Storage.MaxUploadMB)
	graphHandler := handler.NewGraphHandler(graphService)
	chatHandler := handler.NewChatHandler(chatService)
	processHandler := handler.NewProcessHandler(pipelineService)

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

	// The raw processing entry point is CORS-open so external workers and
	// browser clients can call it directly.
	processGroup := v1.Group("/process")
	processGroup.Use(middleware.CORS())
	processGroup.POST("", processHandler.Process)
	processGroup.OPTIONS("", processHandler.Process)

	authed := v1.Group("")
	authed.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))

	documentGroup := authed.Group("/documents")
	documentGroup.POST("", documentHandler.Upload)
	documentGroup.GET("", documentHandler.List)
	documentGroup.GET("/:id", documentHandler.Get)
	documentGroup.DELETE("/:id", documentHandler.Delete)
	documentGroup.POST("/:id/reprocess", documentHandler.Reprocess)

	graphGroup := authed.Group("/graph")
	graphGroup.GET("", graphHandler.Snapshot)
	graphGroup.GET("/stats", graphHandler.Stats)

	chatGroup := authed.Group("/chat")
	chatGroup.POST("/conversations", chatHandler.CreateConversation)
	chatGroup.GET("/conversations", chatHandler.ListConversations)
	chatGroup.DELETE("/conversations/:id", chatHandler.DeleteConversation)
	chatGroup.POST("/messages", chatHandler.Ask)
	chatGroup.GET("/history", chatHandler.GetHistory)

	return router
}

func retryPolicyFromConfig(app *bootstrap.App) retry.Policy {
	policy := retry.Default()
	if app.Config.Pipeline.MaxAttempts > 0 {
		policy.MaxAttempts = app.Config.Pipeline.MaxAttempts
	}
	if len(app.Config.Pipeline.BackoffSeconds) > 0 {
		delays := make([]time.Duration, len(app.Config.Pipeline.BackoffSeconds))
		for i, s := range app.Config.Pipeline.BackoffSeconds {
			delays[i] = time.Duration(s) * time.Second
		}
		policy.Delays = delays
	}
	return policy
}
