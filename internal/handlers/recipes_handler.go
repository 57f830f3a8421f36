// Package handlers wires the HTTP surface: listing, fetching and
// deleting saved recipes, the generation endpoint, and the quota view.
// Handlers stay thin; every pipeline error is mapped to a stable
// status/message pair while the raw detail goes to the logger only.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chefgpt/chefgpt-api/internal/admission"
	"github.com/chefgpt/chefgpt-api/internal/apperr"
	"github.com/chefgpt/chefgpt-api/internal/auth"
	"github.com/chefgpt/chefgpt-api/internal/recipes"
	"github.com/chefgpt/chefgpt-api/internal/validation"
)

// RecipeReader is the slice of the recipes store the read/delete
// endpoints need.
type RecipeReader interface {
	GetByID(ctx context.Context, ownerID, recipeID string) (*recipes.Recipe, error)
	ListByOwner(ctx context.Context, ownerID string) ([]recipes.Recipe, error)
	DeleteByID(ctx context.Context, ownerID, recipeID string) error
}

// AdmissionController runs the generation pipeline and quota lookup.
type AdmissionController interface {
	Generate(ctx context.Context, ownerID string, ingredients []string, cuisine string) (*recipes.Recipe, error)
	Quota(ctx context.Context, ownerID string) (admission.QuotaStatus, error)
}

// HandlerConfig groups dependencies for the recipes routes.
type HandlerConfig struct {
	Repo       RecipeReader
	Controller AdmissionController
	Auth       *auth.Validator
	Logger     *slog.Logger
}

// RegisterRecipeRoutes registers all authenticated routes.
func RegisterRecipeRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authed := r.Group("/", auth.Middleware(cfg.Auth))

	authed.GET("/recipes", func(c *gin.Context) {
		ownerID := auth.OwnerID(c)

		list, err := cfg.Repo.ListByOwner(c.Request.Context(), ownerID)
		if err != nil {
			abortWithError(c, logger, err)
			return
		}
		if list == nil {
			list = []recipes.Recipe{}
		}
		c.JSON(http.StatusOK, gin.H{"recipes": list})
	})

	authed.GET("/recipes/:id", func(c *gin.Context) {
		ownerID := auth.OwnerID(c)

		recipe, err := cfg.Repo.GetByID(c.Request.Context(), ownerID, c.Param("id"))
		if err != nil {
			abortWithError(c, logger, err)
			return
		}
		if recipe == nil {
			abortWithError(c, logger, apperr.ErrNotFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{"recipe": recipe})
	})

	authed.DELETE("/recipes/:id", func(c *gin.Context) {
		ownerID := auth.OwnerID(c)

		if err := cfg.Repo.DeleteByID(c.Request.Context(), ownerID, c.Param("id")); err != nil {
			abortWithError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	authed.POST("/recipes/generate", func(c *gin.Context) {
		ownerID := auth.OwnerID(c)

		var req validation.GenerateRecipeRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		recipe, err := cfg.Controller.Generate(c.Request.Context(), ownerID, req.Ingredients, req.Cuisine)
		if err != nil {
			abortWithError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"recipe": recipe})
	})

	authed.GET("/user/quota", func(c *gin.Context) {
		ownerID := auth.OwnerID(c)

		status, err := cfg.Controller.Quota(c.Request.Context(), ownerID)
		if err != nil {
			abortWithError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, status)
	})
}

// abortWithError maps err through the taxonomy and keeps the raw chain
// out of the response body.
func abortWithError(c *gin.Context, logger *slog.Logger, err error) {
	status, msg := apperr.Status(err)
	if status >= 500 {
		logger.Error("request failed",
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
