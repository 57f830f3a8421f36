package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/chefgpt/chefgpt-api/internal/admission"
	"github.com/chefgpt/chefgpt-api/internal/ai"
	"github.com/chefgpt/chefgpt-api/internal/auth"
	internalaws "github.com/chefgpt/chefgpt-api/internal/aws"
	"github.com/chefgpt/chefgpt-api/internal/config"
	"github.com/chefgpt/chefgpt-api/internal/handlers"
	"github.com/chefgpt/chefgpt-api/internal/metrics"
	appmiddleware "github.com/chefgpt/chefgpt-api/internal/middleware"
	"github.com/chefgpt/chefgpt-api/internal/ratelimit"
	"github.com/chefgpt/chefgpt-api/internal/recipes"
)

func setupRouter(cfg config.Config, clients *internalaws.Clients, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(appmiddleware.Logging(logger))
	r.Use(appmiddleware.CORS(cfg.CORS))

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	recipeStore := recipes.NewStore(clients.DynamoDB, cfg.Tables.Recipes)
	limiter := ratelimit.NewStore(clients.DynamoDB, cfg.Tables.RateLimit, cfg.Limits.RateLimitWindow())
	generator := ai.NewClient(cfg.AI)
	publisher := metrics.NewPublisher(clients.CloudWatch, logger)
	controller := admission.NewController(recipeStore, limiter, generator, publisher, cfg.Limits.MaxRecipesPerUser, logger)

	handlers.RegisterRecipeRoutes(r, handlers.HandlerConfig{
		Repo:       recipeStore,
		Controller: controller,
		Auth:       auth.NewValidator(cfg.Auth.JWTSecret),
		Logger:     logger,
	})

	return r
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	clients, err := internalaws.NewClients(context.Background(), cfg.AWS)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	r := setupRouter(cfg, clients, logger)

	// local HTTP server for development; Lambda behind API Gateway otherwise
	if cfg.Server.RunLocal {
		addr := ":" + cfg.Server.Port
		logger.Info("running local server", slog.String("addr", addr))
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
