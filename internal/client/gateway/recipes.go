package gateway

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
)

// RecipeClient talks to the recipe service.
type RecipeClient struct {
	t *transport
}

// List returns all recipes. The result is never nil.
func (c *RecipeClient) List(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := c.t.do(ctx, call{op: "recipes.list", method: http.MethodGet, path: "/recipes"}, &recipes); err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	return recipes, nil
}

// Get fetches recipe id.
func (c *RecipeClient) Get(ctx context.Context, id int64) (*models.Recipe, error) {
	var r models.Recipe
	if err := c.t.do(ctx, call{op: "recipes.get", method: http.MethodGet, path: idPath("/recipes/%d", id)}, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create publishes a new recipe owned by the logged-in user.
func (c *RecipeClient) Create(ctx context.Context, in models.RecipeInput) (*models.Recipe, error) {
	var r models.Recipe
	err := c.t.do(ctx, call{
		op:     "recipes.create",
		method: http.MethodPost,
		path:   "/recipes",
		auth:   true,
		json:   in,
	}, &r)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Update replaces the writable fields of recipe id. Only the author may
// update a recipe.
func (c *RecipeClient) Update(ctx context.Context, id int64, in models.RecipeInput) (*models.Recipe, error) {
	var r models.Recipe
	err := c.t.do(ctx, call{
		op:     "recipes.update",
		method: http.MethodPut,
		path:   idPath("/recipes/%d", id),
		auth:   true,
		json:   in,
	}, &r)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Delete removes recipe id. Only the author may delete a recipe.
func (c *RecipeClient) Delete(ctx context.Context, id int64) error {
	return c.t.do(ctx, call{
		op:     "recipes.delete",
		method: http.MethodDelete,
		path:   idPath("/recipes/%d", id),
		auth:   true,
	}, nil)
}
