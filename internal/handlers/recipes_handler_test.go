package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/chefgpt/chefgpt-api/internal/admission"
	"github.com/chefgpt/chefgpt-api/internal/apperr"
	"github.com/chefgpt/chefgpt-api/internal/auth"
	"github.com/chefgpt/chefgpt-api/internal/recipes"
)

const testSecret = "test-secret"

type fakeRepo struct {
	byOwner map[string][]recipes.Recipe
	deletes []string
	err     error
}

func (f *fakeRepo) GetByID(ctx context.Context, ownerID, recipeID string) (*recipes.Recipe, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.byOwner[ownerID] {
		if r.RecipeID == recipeID {
			out := r
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListByOwner(ctx context.Context, ownerID string) ([]recipes.Recipe, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byOwner[ownerID], nil
}

func (f *fakeRepo) DeleteByID(ctx context.Context, ownerID, recipeID string) error {
	if f.err != nil {
		return f.err
	}
	f.deletes = append(f.deletes, ownerID+"/"+recipeID)
	return nil
}

type fakeController struct {
	recipe    *recipes.Recipe
	quota     admission.QuotaStatus
	err       error
	generated int
}

func (f *fakeController) Generate(ctx context.Context, ownerID string, ingredients []string, cuisine string) (*recipes.Recipe, error) {
	f.generated++
	if f.err != nil {
		return nil, f.err
	}
	return f.recipe, nil
}

func (f *fakeController) Quota(ctx context.Context, ownerID string) (admission.QuotaStatus, error) {
	if f.err != nil {
		return admission.QuotaStatus{}, f.err
	}
	return f.quota, nil
}

func newRouter(repo *fakeRepo, ctrl *fakeController) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRecipeRoutes(r, HandlerConfig{
		Repo:       repo,
		Controller: ctrl,
		Auth:       auth.NewValidator(testSecret),
	})
	return r
}

func bearerToken(t *testing.T, owner string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": owner,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + signed
}

func doRequest(r *gin.Engine, method, path, token string, body []byte) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func someRecipe(owner, id string) recipes.Recipe {
	return recipes.Recipe{
		OwnerID:      owner,
		RecipeID:     id,
		Title:        "Tomato Pasta",
		Description:  "Simple pasta in a tomato sauce.",
		Cuisine:      "Italian",
		Ingredients:  []recipes.Ingredient{{Item: "pasta", Amount: "200g"}},
		Instructions: []string{"Boil", "Combine"},
		ServingSize:  4,
		PrepTime:     15,
		CookTime:     30,
		Tags:         []string{"easy"},
		CreatedAt:    "2026-08-28T10:00:00Z",
	}
}

func TestListRecipes(t *testing.T) {
	repo := &fakeRepo{byOwner: map[string][]recipes.Recipe{
		"u1": {someRecipe("u1", "r2"), someRecipe("u1", "r1")},
	}}
	r := newRouter(repo, &fakeController{})

	w := doRequest(r, http.MethodGet, "/recipes", bearerToken(t, "u1"), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Recipes []recipes.Recipe `json:"recipes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Recipes) != 2 || resp.Recipes[0].RecipeID != "r2" {
		t.Fatalf("unexpected list: %+v", resp.Recipes)
	}
}

func TestListRecipes_EmptyIsNotNull(t *testing.T) {
	repo := &fakeRepo{byOwner: map[string][]recipes.Recipe{}}
	r := newRouter(repo, &fakeController{})

	w := doRequest(r, http.MethodGet, "/recipes", bearerToken(t, "u1"), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Body.String(); got != `{"recipes":[]}` {
		t.Fatalf("expected empty array body, got %s", got)
	}
}

func TestListRecipes_Unauthenticated(t *testing.T) {
	r := newRouter(&fakeRepo{}, &fakeController{})

	w := doRequest(r, http.MethodGet, "/recipes", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestGetRecipe(t *testing.T) {
	repo := &fakeRepo{byOwner: map[string][]recipes.Recipe{
		"u1": {someRecipe("u1", "r1")},
	}}
	r := newRouter(repo, &fakeController{})

	w := doRequest(r, http.MethodGet, "/recipes/r1", bearerToken(t, "u1"), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// another owner cannot see it
	w = doRequest(r, http.MethodGet, "/recipes/r1", bearerToken(t, "u2"), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for other owner, got %d", w.Code)
	}
}

func TestGetRecipe_NotFound(t *testing.T) {
	r := newRouter(&fakeRepo{byOwner: map[string][]recipes.Recipe{}}, &fakeController{})

	w := doRequest(r, http.MethodGet, "/recipes/missing", bearerToken(t, "u1"), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDeleteRecipe_Idempotent(t *testing.T) {
	repo := &fakeRepo{byOwner: map[string][]recipes.Recipe{}}
	r := newRouter(repo, &fakeController{})

	for i := 0; i < 2; i++ {
		w := doRequest(r, http.MethodDelete, "/recipes/r1", bearerToken(t, "u1"), nil)
		if w.Code != http.StatusNoContent {
			t.Fatalf("delete %d: expected 204, got %d", i+1, w.Code)
		}
	}
	if len(repo.deletes) != 2 {
		t.Fatalf("expected 2 delete calls, got %d", len(repo.deletes))
	}
}

func TestGenerate_Created(t *testing.T) {
	recipe := someRecipe("u1", "r-new")
	ctrl := &fakeController{recipe: &recipe}
	r := newRouter(&fakeRepo{}, ctrl)

	body := []byte(`{"ingredients":["pasta","tomato"],"cuisine":"Italian"}`)
	w := doRequest(r, http.MethodPost, "/recipes/generate", bearerToken(t, "u1"), body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Recipe recipes.Recipe `json:"recipe"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Recipe.RecipeID != "r-new" {
		t.Fatalf("unexpected recipe: %+v", resp.Recipe)
	}
}

func TestGenerate_InvalidBodyNeverReachesController(t *testing.T) {
	ctrl := &fakeController{}
	r := newRouter(&fakeRepo{}, ctrl)

	cases := []string{
		`{"ingredients":[],"cuisine":"Italian"}`,
		`{"cuisine":"Italian"}`,
		`{"ingredients":["a","b","c","d","e","f","g","h","i","j","k"],"cuisine":"Italian"}`,
		`not json`,
	}
	for _, body := range cases {
		w := doRequest(r, http.MethodPost, "/recipes/generate", bearerToken(t, "u1"), []byte(body))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, w.Code)
		}
	}
	if ctrl.generated != 0 {
		t.Fatalf("controller called %d times for invalid bodies", ctrl.generated)
	}
}

func TestGenerate_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"quota exceeded", apperr.ErrQuotaExceeded, http.StatusForbidden},
		{"rate limited", apperr.ErrRateLimited, http.StatusTooManyRequests},
		{"upstream failure", apperr.ErrUpstream, http.StatusInternalServerError},
		{"malformed response", apperr.ErrMalformedAIResponse, http.StatusInternalServerError},
		{"invalid format", apperr.ErrInvalidRecipeFormat, http.StatusInternalServerError},
		{"store down", apperr.ErrStoreUnavailable, http.StatusInternalServerError},
	}
	body := []byte(`{"ingredients":["pasta"],"cuisine":"Italian"}`)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRouter(&fakeRepo{}, &fakeController{err: tc.err})
			w := doRequest(r, http.MethodPost, "/recipes/generate", bearerToken(t, "u1"), body)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}

func TestQuotaEndpoint(t *testing.T) {
	ctrl := &fakeController{quota: admission.QuotaStatus{Used: 3, Max: 10, CanGenerate: true}}
	r := newRouter(&fakeRepo{}, ctrl)

	w := doRequest(r, http.MethodGet, "/user/quota", bearerToken(t, "u1"), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Body.String(); got != `{"used":3,"max":10,"canGenerate":true}` {
		t.Fatalf("unexpected body: %s", got)
	}

	w = doRequest(r, http.MethodGet, "/user/quota", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
