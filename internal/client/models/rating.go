package models

import "time"

// Rating is owned by the rating service. RecipeID references Recipe.ID;
// referential integrity is the rating service's job.
type Rating struct {
	ID       int64  `json:"id"`
	RecipeID int64  `json:"recipe_id"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`

	UserID    int64     `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// RatingInput is the body of POST /ratings.
type RatingInput struct {
	RecipeID int64  `json:"recipe_id" validate:"required"`
	Rating   int    `json:"rating" validate:"required"`
	Comment  string `json:"comment" validate:"required"`
}

// RatingUpdate is the body of PUT /ratings/{id}. Nil fields are left as they are.
type RatingUpdate struct {
	Rating  *int    `json:"rating,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

// AverageRating returns the mean score of ratings, or 0 for none.
func AverageRating(ratings []Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	return float64(sum) / float64(len(ratings))
}
