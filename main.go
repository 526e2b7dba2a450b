package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"intelliquiz-service/internal/config"
	"intelliquiz-service/internal/db"
	"intelliquiz-service/internal/event"
	"intelliquiz-service/internal/handlers"
	"intelliquiz-service/internal/logger"
	"intelliquiz-service/internal/middleware"
	"intelliquiz-service/internal/provider"
	"intelliquiz-service/internal/repository"
	"intelliquiz-service/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Mode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoDB.Timeout)
	defer cancel()

	client, database, err := db.Connect(ctx, cfg.MongoDB)
	if err != nil {
		log.Fatal("failed to connect to mongodb", "error", err)
	}
	defer client.Disconnect(context.Background())
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatal("failed to ensure indexes", "error", err)
	}

	// Events are optional: without RabbitMQ the service runs and simply
	// publishes nothing.
	var publisher event.Publisher = event.Nop{}
	if cfg.RabbitMQ.URI != "" {
		amqpPublisher, err := event.NewAMQPPublisher(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatal("failed to connect to rabbitmq", "error", err)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	} else {
		log.Warn("rabbitmq not configured, events will not be published")
	}

	questionProvider, err := buildProvider(cfg, log)
	if err != nil {
		log.Fatal("failed to configure question provider", "error", err)
	}

	userRepo := repository.NewUserRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	subcategoryRepo := repository.NewSubcategoryRepository(database)
	quizRepo := repository.NewQuizRepository(client, database)
	questionRepo := repository.NewQuestionRepository(database)
	attemptRepo := repository.NewAttemptRepository(database)
	answerRepo := repository.NewAnswerRepository(database)

	authService := service.NewAuthService(userRepo, cfg.JWT, log)
	categoryService := service.NewCategoryService(categoryRepo, subcategoryRepo, log)
	quizService := service.NewQuizService(quizRepo, categoryRepo, subcategoryRepo, questionProvider, publisher, log)
	attemptService := service.NewAttemptService(attemptRepo, answerRepo, questionRepo, questionProvider, publisher, log)
	statsService := service.NewStatsService(attemptRepo, log)
	leaderboardService := service.NewLeaderboardService(userRepo, attemptRepo, categoryRepo, log)

	if cfg.Catalog.Seed {
		if err := categoryService.SeedDefaults(ctx); err != nil {
			log.Fatal("failed to seed catalog", "error", err)
		}
	}

	authHandler := handlers.NewAuthHandler(authService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	quizHandler := handlers.NewQuizHandler(quizService, attemptService)
	attemptHandler := handlers.NewAttemptHandler(attemptService)
	dashboardHandler := handlers.NewDashboardHandler(statsService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)

	if cfg.Server.Mode == "prod" || cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		api.GET("/categories", categoryHandler.List)
		api.GET("/categories/:slug", categoryHandler.Detail)

		authed := api.Group("")
		authed.Use(middleware.RequireAuth(authService))
		{
			authed.GET("/me", authHandler.Profile)
			authed.PUT("/me", authHandler.UpdateProfile)

			authed.POST("/quizzes/start", quizHandler.Start)

			authed.GET("/attempts/:id", attemptHandler.Take)
			authed.POST("/attempts/:id/answers", attemptHandler.SaveAnswer)
			authed.POST("/attempts/:id/submit", attemptHandler.Submit)
			authed.GET("/attempts/:id/results", attemptHandler.Results)
			authed.POST("/attempts/:id/questions/:questionID/explain", attemptHandler.Explain)

			authed.GET("/dashboard", dashboardHandler.Dashboard)
			authed.GET("/dashboard/statistics", dashboardHandler.Statistics)
			authed.GET("/dashboard/history", dashboardHandler.History)

			authed.GET("/leaderboard", leaderboardHandler.Top)
			authed.GET("/leaderboard/categories/:slug", leaderboardHandler.TopForCategory)
		}
	}

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if cfg.JWT.Secret == "" {
		log.Warn("JWT_SECRET is empty, issued tokens are not secure")
	}
	log.Info("server listening", "addr", server.Addr, "mode", cfg.Server.Mode)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server stopped", "error", err)
	}
}

// buildProvider wires the OpenAI provider, wrapped in the Redis question
// cache when Redis is configured.
func buildProvider(cfg *config.Config, log *logger.Logger) (provider.QuestionProvider, error) {
	base, err := provider.NewOpenAIProvider(cfg.OpenAI, log)
	if err != nil {
		return nil, err
	}

	if cfg.Redis.Address == "" {
		log.Warn("redis not configured, question generation will not be cached")
		return base, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return provider.NewCachedProvider(base, provider.NewRedisCache(rdb), cfg.OpenAI.CacheTTL, log), nil
}
