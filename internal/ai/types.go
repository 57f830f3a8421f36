package ai

import "github.com/chefgpt/chefgpt-api/internal/recipes"

// message is one entry of a chat-completions conversation.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the OpenRouter chat-completions request body.
type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

// chatResponse is the subset of the response envelope we consume.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// recipePayload is the raw parsed model output. The numeric fields and
// tags are pointers so an absent field can be told apart from a zero
// value before defaults are applied.
type recipePayload struct {
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Cuisine      string               `json:"cuisine"`
	Ingredients  []recipes.Ingredient `json:"ingredients"`
	Instructions []string             `json:"instructions"`
	ServingSize  *int                 `json:"servingSize"`
	PrepTime     *int                 `json:"prepTime"`
	CookTime     *int                 `json:"cookTime"`
	Tags         []string             `json:"tags"`
}

// GeneratedRecipe is a validated recipe as produced by the model. It
// carries no identity or timestamp; the admission pipeline assigns those.
type GeneratedRecipe struct {
	Title        string               `validate:"required,min=1,max=100"`
	Description  string               `validate:"required,min=1,max=500"`
	Cuisine      string               `validate:"required,min=1,max=100"`
	Ingredients  []recipes.Ingredient `validate:"required,min=1,max=10,dive"`
	Instructions []string             `validate:"required,min=1"`
	ServingSize  int                  `validate:"required,min=1"`
	PrepTime     int                  `validate:"required,min=1"`
	CookTime     int                  `validate:"required,min=1"`
	Tags         []string
}

// Fallback defaults for fields the model does not reliably populate
// despite the prompt instructions.
const (
	defaultServingSize = 4
	defaultPrepTime    = 15
	defaultCookTime    = 30
)

var defaultTags = []string{"homemade"}

// withDefaults converts the raw payload into a GeneratedRecipe,
// backfilling absent optional-but-required fields.
func (p recipePayload) withDefaults() GeneratedRecipe {
	out := GeneratedRecipe{
		Title:        p.Title,
		Description:  p.Description,
		Cuisine:      p.Cuisine,
		Ingredients:  p.Ingredients,
		Instructions: p.Instructions,
		ServingSize:  defaultServingSize,
		PrepTime:     defaultPrepTime,
		CookTime:     defaultCookTime,
		Tags:         p.Tags,
	}
	if p.ServingSize != nil {
		out.ServingSize = *p.ServingSize
	}
	if p.PrepTime != nil {
		out.PrepTime = *p.PrepTime
	}
	if p.CookTime != nil {
		out.CookTime = *p.CookTime
	}
	if out.Tags == nil {
		out.Tags = defaultTags
	}
	return out
}
