package recipes

// MaxIngredients caps the ingredient list both on generation requests
// and on stored recipes.
const MaxIngredients = 10

// Ingredient is one entry of a recipe's ingredient list.
type Ingredient struct {
	Item   string `json:"item" dynamodbav:"item" validate:"required,min=1,max=100"`
	Amount string `json:"amount" dynamodbav:"amount" validate:"required,min=1"`
}

// Recipe is the item stored in the Recipes table. (userId, recipeId) is
// the sole lookup key; a recipe is immutable after creation except for
// deletion.
type Recipe struct {
	OwnerID      string       `json:"userId" dynamodbav:"userId"`       // PK
	RecipeID     string       `json:"recipeId" dynamodbav:"recipeId"`   // SK, UUID v4
	Title        string       `json:"title" dynamodbav:"title" validate:"required,min=1,max=100"`
	Description  string       `json:"description" dynamodbav:"description" validate:"required,min=1,max=500"`
	Cuisine      string       `json:"cuisine" dynamodbav:"cuisine" validate:"required,min=1,max=100"`
	Ingredients  []Ingredient `json:"ingredients" dynamodbav:"ingredients" validate:"required,min=1,max=10,dive"`
	Instructions []string     `json:"instructions" dynamodbav:"instructions" validate:"required"`
	ServingSize  int          `json:"servingSize" dynamodbav:"servingSize" validate:"required,min=1"`
	PrepTime     int          `json:"prepTime" dynamodbav:"prepTime" validate:"required,min=1"` // minutes
	CookTime     int          `json:"cookTime" dynamodbav:"cookTime" validate:"required,min=1"` // minutes
	Tags         []string     `json:"tags" dynamodbav:"tags"`
	CreatedAt    string       `json:"createdAt" dynamodbav:"createdAt"` // RFC3339
}
