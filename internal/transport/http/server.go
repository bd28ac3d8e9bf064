package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"propertyhub/internal/ai"
	appsvc "propertyhub/internal/app"
	"propertyhub/internal/bootstrap"
	"propertyhub/internal/cache"
	"propertyhub/internal/platform/rabbitmq"
	"propertyhub/internal/platform/rightmove"
	"propertyhub/internal/repository"
	"propertyhub/internal/transport/http/handler"
	"propertyhub/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) (*gin.Engine, error) {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	// Repositories and caches.
	userRepo := repository.NewUserRepository(app.Postgres)
	resourceRepo := repository.NewResourceRepository(app.Postgres)
	chunkRepo := repository.NewChunkRepository(app.Postgres)
	listingRepo := repository.NewListingRepository(app.Postgres)
	propertyRepo := repository.NewPropertyRepository(app.Postgres)
	answerStore := cache.NewAnswerStore(app.Redis)
	scanCache := cache.NewScanReportCache(app.Redis,
		time.Duration(app.Config.Redis.ScanReportTTLSeconds)*time.Second)

	// External clients.
	aiClient := ai.NewClient()
	lookupClient := rightmove.NewClient(app.Config.Property.RightmoveBaseURL,
		time.Duration(app.Config.Property.LookupTimeoutSecs)*time.Second)
	submissionPublisher := rabbitmq.NewSubmissionPublisher(app.MQConn,
		app.Config.RabbitMQ.SubmissionPersistQueue)

	// Services.
	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	eligibilityService, err := appsvc.NewEligibilityService(
		answerStore, submissionPublisher, app.Config.Eligibility.SignInURL, app.Log)
	if err != nil {
		return nil, err
	}
	retrievalService := appsvc.NewRetrievalService(
		resourceRepo,
		chunkRepo,
		aiClient,
		aiClient,
		ai.EmbeddingConfig{
			BaseURL:   app.Config.LLM.BaseURL,
			APIKey:    app.Config.LLM.APIKey,
			Model:     app.Config.LLM.EmbeddingModel,
			Dimension: app.Config.LLM.EmbeddingDimension,
		},
		ai.ChatConfig{
			BaseURL: app.Config.LLM.BaseURL,
			APIKey:  app.Config.LLM.APIKey,
			Model:   app.Config.LLM.Model,
		},
		app.Log,
	)
	securityService := appsvc.NewSecurityService(app.Config, scanCache, app.Log)
	propertyService := appsvc.NewPropertyService(
		propertyRepo, lookupClient, app.Config.Property.MaxDocumentSizeKB, app.Log)
	listingService := appsvc.NewListingService(listingRepo, app.Log)

	// Handlers.
	authHandler := handler.NewAuthHandler(authService)
	eligibilityHandler := handler.NewEligibilityHandler(eligibilityService)
	retrievalHandler := handler.NewRetrievalHandler(retrievalService)
	securityHandler := handler.NewSecurityHandler(securityService)
	propertyHandler := handler.NewPropertyHandler(propertyService)
	listingHandler := handler.NewListingHandler(listingService)

	authRequired := middleware.AuthJWT(app.Config.Auth.JWTSecret)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authRequired, authHandler.Me)

	eligibility := api.Group("/eligibility")
	eligibility.POST("/sessions", eligibilityHandler.Start)
	eligibility.GET("/sessions/:id", eligibilityHandler.View)
	eligibility.POST("/sessions/:id/select", eligibilityHandler.Select)
	eligibility.POST("/sessions/:id/confirm", eligibilityHandler.Confirm)
	eligibility.POST("/sessions/:id/cancel", eligibilityHandler.Cancel)
	eligibility.POST("/sessions/:id/next", eligibilityHandler.Advance)
	eligibility.POST("/sessions/:id/back", eligibilityHandler.Back)
	eligibility.POST("/sessions/:id/restart", eligibilityHandler.Restart)

	faq := api.Group("/faq")
	faq.POST("/resources", authRequired, retrievalHandler.CreateResource)
	faq.GET("/resources", authRequired, retrievalHandler.ListResources)
	faq.GET("/resources/:id", authRequired, retrievalHandler.GetResource)
	faq.GET("/content", retrievalHandler.RelevantContent)
	faq.POST("/ask", retrievalHandler.Ask)

	security := api.Group("/security", authRequired)
	security.GET("/checks", securityHandler.Checks)
	security.GET("/scan", securityHandler.Scan)
	security.POST("/scan", securityHandler.Scan)
	for _, name := range securityService.CheckNames() {
		security.GET("/check-"+name, securityHandler.Check(name))
	}

	property := api.Group("/propertyData")
	property.POST("/rightmove", propertyHandler.Lookup)
	property.POST("/enquiries", propertyHandler.CreateEnquiry)
	property.POST("/enquiries/:id/documents", propertyHandler.UploadDocument)
	property.GET("/enquiries/:id/documents", propertyHandler.ListDocuments)

	listings := api.Group("/listings")
	listings.GET("", listingHandler.List)
	listings.GET("/:id", listingHandler.Get)
	listings.POST("", authRequired, listingHandler.Create)

	return router, nil
}
