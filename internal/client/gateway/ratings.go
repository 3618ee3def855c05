package gateway

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
)

// RatingClient talks to the rating service.
type RatingClient struct {
	t *transport
}

// ListForRecipe returns the ratings of a recipe. The result is never nil; an
// unknown recipe simply has no ratings.
func (c *RatingClient) ListForRecipe(ctx context.Context, recipeID int64) ([]models.Rating, error) {
	var ratings []models.Rating
	err := c.t.do(ctx, call{
		op:     "ratings.list",
		method: http.MethodGet,
		path:   idPath("/recipes/%d/ratings", recipeID),
	}, &ratings)
	if err != nil {
		return nil, err
	}
	if ratings == nil {
		ratings = []models.Rating{}
	}
	return ratings, nil
}

// Create rates a recipe. A user may rate each recipe once.
func (c *RatingClient) Create(ctx context.Context, in models.RatingInput) (*models.Rating, error) {
	var r models.Rating
	err := c.t.do(ctx, call{
		op:     "ratings.create",
		method: http.MethodPost,
		path:   "/ratings",
		auth:   true,
		json:   in,
	}, &r)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Update changes the non-nil fields of rating id.
func (c *RatingClient) Update(ctx context.Context, id int64, upd models.RatingUpdate) (*models.Rating, error) {
	var r models.Rating
	err := c.t.do(ctx, call{
		op:     "ratings.update",
		method: http.MethodPut,
		path:   idPath("/ratings/%d", id),
		auth:   true,
		json:   upd,
	}, &r)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Delete removes rating id. Only its author may delete it.
func (c *RatingClient) Delete(ctx context.Context, id int64) error {
	return c.t.do(ctx, call{
		op:     "ratings.delete",
		method: http.MethodDelete,
		path:   idPath("/ratings/%d", id),
		auth:   true,
	}, nil)
}
