package validation

// GenerateRecipeRequest is the payload for POST /recipes/generate.
type GenerateRecipeRequest struct {
	Ingredients []string `json:"ingredients" validate:"required,min=1,max=10,dive,required,min=1"` // 1..10 non-empty items
	Cuisine     string   `json:"cuisine" validate:"required,min=1,max=25"`
}
