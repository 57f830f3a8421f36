// Package admission decides whether an owner may generate a recipe
// right now, runs the generation, and records that it happened.
//
// The pipeline is check-then-record, not an atomic reservation: two
// concurrent requests from the same owner can both pass the quota and
// rate-limit checks before either writes its throttle record, briefly
// exceeding the one-per-window gate or the quota cap by one. That
// window is accepted; closing it would take a conditional insert keyed
// by a window bucket.
package admission

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chefgpt/chefgpt-api/internal/ai"
	"github.com/chefgpt/chefgpt-api/internal/apperr"
	"github.com/chefgpt/chefgpt-api/internal/recipes"
)

// RecipeRepository is the slice of the recipes store the pipeline needs.
type RecipeRepository interface {
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	Create(ctx context.Context, recipe recipes.Recipe) error
}

// RateLimiter gates generation frequency per owner.
type RateLimiter interface {
	Allowed(ctx context.Context, ownerID string) (bool, error)
	RecordGeneration(ctx context.Context, ownerID string) error
}

// Generator produces a validated recipe from ingredients and cuisine.
type Generator interface {
	Generate(ctx context.Context, ingredients []string, cuisine string) (*ai.GeneratedRecipe, error)
}

// MetricsPublisher counts admission outcomes. Implementations must be
// best-effort; the pipeline ignores publish failures.
type MetricsPublisher interface {
	Count(ctx context.Context, metric string)
}

// QuotaStatus is the payload for GET /user/quota.
type QuotaStatus struct {
	Used        int  `json:"used"`
	Max         int  `json:"max"`
	CanGenerate bool `json:"canGenerate"`
}

// Metric names published per admission outcome.
const (
	MetricRecipeGenerated  = "RecipeGenerated"
	MetricQuotaExceeded    = "QuotaExceeded"
	MetricRateLimited      = "RateLimited"
	MetricGenerationFailed = "GenerationFailed"
)

// Controller runs the admission pipeline.
type Controller struct {
	repo       RecipeRepository
	limiter    RateLimiter
	generator  Generator
	metrics    MetricsPublisher
	maxRecipes int
	logger     *slog.Logger
	nowFunc    func() time.Time
	newID      func() string
}

// NewController wires the pipeline. metrics may be nil.
func NewController(repo RecipeRepository, limiter RateLimiter, generator Generator, metrics MetricsPublisher, maxRecipes int, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		repo:       repo,
		limiter:    limiter,
		generator:  generator,
		metrics:    metrics,
		maxRecipes: maxRecipes,
		logger:     logger,
		nowFunc:    time.Now,
		newID:      uuid.NewString,
	}
}

// CheckQuota reports whether the owner is under the recipe cap.
func (c *Controller) CheckQuota(ctx context.Context, ownerID string) (bool, error) {
	count, err := c.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return false, err
	}
	return count < c.maxRecipes, nil
}

// Quota returns the owner's current quota status.
func (c *Controller) Quota(ctx context.Context, ownerID string) (QuotaStatus, error) {
	count, err := c.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return QuotaStatus{}, err
	}
	return QuotaStatus{
		Used:        count,
		Max:         c.maxRecipes,
		CanGenerate: count < c.maxRecipes,
	}, nil
}

// Generate runs the full admission pipeline:
//
//	quota -> rate limit -> generate -> persist -> record generation
//
// The quota is checked before the rate limit and before the upstream
// call: the long-term cap is cheaper and more permanent than the
// short-term throttle, and there is no point paying for a generation
// the owner cannot save. The throttle record is written only after the
// recipe is persisted, so a failed attempt never consumes the window.
func (c *Controller) Generate(ctx context.Context, ownerID string, ingredients []string, cuisine string) (*recipes.Recipe, error) {
	underQuota, err := c.CheckQuota(ctx, ownerID)
	if err != nil {
		return nil, apperr.Wrap(err, "quota check")
	}
	if !underQuota {
		c.count(ctx, MetricQuotaExceeded)
		return nil, apperr.ErrQuotaExceeded
	}

	allowed, err := c.limiter.Allowed(ctx, ownerID)
	if err != nil {
		return nil, apperr.Wrap(err, "rate limit check")
	}
	if !allowed {
		c.count(ctx, MetricRateLimited)
		return nil, apperr.ErrRateLimited
	}

	generated, err := c.generator.Generate(ctx, ingredients, cuisine)
	if err != nil {
		c.count(ctx, MetricGenerationFailed)
		return nil, err
	}

	recipe := recipes.Recipe{
		OwnerID:      ownerID,
		RecipeID:     c.newID(),
		Title:        generated.Title,
		Description:  generated.Description,
		Cuisine:      generated.Cuisine,
		Ingredients:  generated.Ingredients,
		Instructions: generated.Instructions,
		ServingSize:  generated.ServingSize,
		PrepTime:     generated.PrepTime,
		CookTime:     generated.CookTime,
		Tags:         generated.Tags,
		CreatedAt:    c.nowFunc().UTC().Format(time.RFC3339),
	}

	if err := c.repo.Create(ctx, recipe); err != nil {
		c.count(ctx, MetricGenerationFailed)
		return nil, apperr.Wrap(err, "persist recipe")
	}

	// A crash between persist and record leaves the recipe saved with
	// no throttle record. That narrow inconsistency is accepted; no
	// compensation is attempted.
	if err := c.limiter.RecordGeneration(ctx, ownerID); err != nil {
		c.logger.Error("failed to record generation event",
			slog.String("owner_id", ownerID),
			slog.String("error", err.Error()))
		return nil, apperr.Wrap(err, "record generation")
	}

	c.count(ctx, MetricRecipeGenerated)
	return &recipe, nil
}

func (c *Controller) count(ctx context.Context, metric string) {
	if c.metrics != nil {
		c.metrics.Count(ctx, metric)
	}
}
