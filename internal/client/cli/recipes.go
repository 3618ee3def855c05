package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
)

// List prints every recipe, one per line.
func (a *App) List(ctx context.Context) error {
	recipes, err := a.gw.Recipes.List(ctx)
	if err != nil {
		return err
	}

	if len(recipes) == 0 {
		fmt.Fprintln(a.out, "No recipes yet.")
		return nil
	}
	for _, r := range recipes {
		fmt.Fprintf(a.out, "#%d %s (%d min)\n", r.ID, r.Title, r.CookingTime)
	}
	return nil
}

// Show prints a recipe with its ratings and their average.
func (a *App) Show(ctx context.Context, id int64) error {
	r, err := a.gw.Recipes.Get(ctx, id)
	if err != nil {
		return err
	}
	ratings, err := a.gw.Ratings.ListForRecipe(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprint(a.out, formatRecipe(r, ratings))
	return nil
}

func formatRecipe(r *models.Recipe, ratings []models.Rating) string {
	var b strings.Builder

	fmt.Fprintf(&b, "#%d %s\n", r.ID, r.Title)
	fmt.Fprintf(&b, "Cooking time: %d min\n", r.CookingTime)
	if !r.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Added %s by user %d\n", r.CreatedAt.Format("2006-01-02"), r.UserID)
	}
	if r.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", r.Description)
	}

	b.WriteString("\nIngredients:\n")
	for _, ing := range r.IngredientList() {
		fmt.Fprintf(&b, "  - %s\n", ing)
	}
	fmt.Fprintf(&b, "\nInstructions:\n%s\n", r.Instructions)

	if len(ratings) == 0 {
		b.WriteString("\nNo ratings yet.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "\nRatings (%d, average %.1f):\n", len(ratings), models.AverageRating(ratings))
	for _, rt := range ratings {
		fmt.Fprintf(&b, "  #%d %d/5 %s (user %d)\n", rt.ID, rt.Rating, rt.Comment, rt.UserID)
	}
	return b.String()
}

// AddRecipe prompts for a new recipe and creates it.
func (a *App) AddRecipe(ctx context.Context) error {
	in, err := a.recipeForm(models.RecipeInput{})
	if err != nil {
		return err
	}

	r, err := a.gw.Recipes.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created recipe #%d.\n", r.ID)
	return nil
}

// EditRecipe prompts for new values, keeping the current one for every field
// left empty, and updates the recipe.
func (a *App) EditRecipe(ctx context.Context, id int64) error {
	current, err := a.gw.Recipes.Get(ctx, id)
	if err != nil {
		return err
	}

	in, err := a.recipeForm(current.Input())
	if err != nil {
		return err
	}

	if _, err := a.gw.Recipes.Update(ctx, id, in); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated recipe #%d.\n", id)
	return nil
}

// DeleteRecipe removes a recipe.
func (a *App) DeleteRecipe(ctx context.Context, id int64) error {
	if err := a.gw.Recipes.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted recipe #%d.\n", id)
	return nil
}

// recipeForm collects recipe fields. Non-empty values in prefill are shown
// and kept when the user enters nothing.
func (a *App) recipeForm(prefill models.RecipeInput) (models.RecipeInput, error) {
	in := prefill

	text := func(label, current string) (string, error) {
		v, err := getSimpleText(a.reader, withCurrent(label, current), a.out)
		if err != nil || v == "" {
			return current, err
		}
		return v, nil
	}
	multi := func(label, current string) (string, error) {
		v, err := getMultiline(a.reader, withCurrent(label, current), a.out)
		if err != nil || v == "" {
			return current, err
		}
		return v, nil
	}

	var err error
	if in.Title, err = text("Title", in.Title); err != nil {
		return in, err
	}
	if in.Description, err = text("Description", in.Description); err != nil {
		return in, err
	}
	if in.Ingredients, err = multi("Ingredients, one per line", in.Ingredients); err != nil {
		return in, err
	}
	if in.Instructions, err = multi("Instructions", in.Instructions); err != nil {
		return in, err
	}

	cur := ""
	if in.CookingTime != 0 {
		cur = fmt.Sprint(in.CookingTime)
	}
	raw, err := text("Cooking time (minutes)", cur)
	if err != nil {
		return in, err
	}
	if in.CookingTime, err = parseNumber("cooking time", raw); err != nil {
		return in, err
	}

	return in, validateForm(in)
}

func withCurrent(label, current string) string {
	if current == "" {
		return label
	}
	if i := strings.IndexByte(current, '\n'); i >= 0 {
		current = current[:i] + " ..."
	}
	return fmt.Sprintf("%s [%s]", label, current)
}
