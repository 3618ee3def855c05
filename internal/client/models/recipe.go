package models

import (
	"strings"
	"time"
)

// Recipe is owned by the recipe service.
type Recipe struct {
	// ID is assigned by the server.
	ID int64 `json:"id"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// Ingredients is a newline-delimited list.
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`

	// CookingTime is expressed in minutes.
	CookingTime int `json:"cooking_time"`

	// UserID identifies the author; set by the server.
	UserID int64 `json:"user_id,omitempty"`
	// CreatedAt is set by the server.
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// RecipeInput carries the writable recipe fields for create and update.
type RecipeInput struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Ingredients  string `json:"ingredients" validate:"required"`
	Instructions string `json:"instructions" validate:"required"`
	CookingTime  int    `json:"cooking_time" validate:"required"`
}

// Input returns the writable part of r, e.g. to prefill an edit form.
func (r Recipe) Input() RecipeInput {
	return RecipeInput{
		Title:        r.Title,
		Description:  r.Description,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		CookingTime:  r.CookingTime,
	}
}

// IngredientList splits the newline-delimited ingredients, dropping blank lines.
func (r Recipe) IngredientList() []string {
	lines := strings.Split(r.Ingredients, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
