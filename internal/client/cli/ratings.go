package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
)

// Rate prompts for a score and comment and rates the recipe.
func (a *App) Rate(ctx context.Context, recipeID int64) error {
	raw, err := getSimpleText(a.reader, "Rating (1-5)", a.out)
	if err != nil {
		return err
	}
	score, err := parseNumber("rating", raw)
	if err != nil {
		return err
	}
	comment, err := getSimpleText(a.reader, "Comment", a.out)
	if err != nil {
		return err
	}

	in := models.RatingInput{RecipeID: recipeID, Rating: score, Comment: comment}
	if err := validateForm(in); err != nil {
		return err
	}

	r, err := a.gw.Ratings.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Rated recipe #%d (rating #%d).\n", recipeID, r.ID)
	return nil
}

// EditRating changes the score and/or comment of a rating. Empty answers
// leave the field as it is.
func (a *App) EditRating(ctx context.Context, id int64) error {
	raw, err := getSimpleText(a.reader, "New rating (1-5, empty to keep)", a.out)
	if err != nil {
		return err
	}
	comment, err := getSimpleText(a.reader, "New comment (empty to keep)", a.out)
	if err != nil {
		return err
	}

	var upd models.RatingUpdate
	if raw != "" {
		score, err := parseNumber("rating", raw)
		if err != nil {
			return err
		}
		upd.Rating = &score
	}
	if comment != "" {
		upd.Comment = &comment
	}
	if upd.Rating == nil && upd.Comment == nil {
		fmt.Fprintln(a.out, "Nothing to change.")
		return nil
	}

	if _, err := a.gw.Ratings.Update(ctx, id, upd); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated rating #%d.\n", id)
	return nil
}

// DeleteRating removes a rating.
func (a *App) DeleteRating(ctx context.Context, id int64) error {
	if err := a.gw.Ratings.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted rating #%d.\n", id)
	return nil
}
