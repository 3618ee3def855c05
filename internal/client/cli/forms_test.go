package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
)

func TestValidateForm(t *testing.T) {
	tests := []struct {
		name    string
		form    any
		wantErr string
	}{
		{"complete recipe", models.RecipeInput{Title: "t", Description: "d", Ingredients: "i", Instructions: "s", CookingTime: 5}, ""},
		{"missing title and time", models.RecipeInput{Description: "d", Ingredients: "i", Instructions: "s"},
			"title is required; cooking time is required"},
		{"credentials", models.Credentials{Username: "alice"}, "password is required"},
		{"rating", models.RatingInput{RecipeID: 1, Rating: 4}, "comment is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateForm(tt.form)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			var fe *formError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.wantErr, fe.msg)
		})
	}
}

func TestParseNumber(t *testing.T) {
	n, err := parseNumber("cooking time", "45")
	require.NoError(t, err)
	assert.Equal(t, 45, n)

	n, err = parseNumber("cooking time", "")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = parseNumber("cooking time", "half an hour")
	var fe *formError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "cooking time must be a whole number", fe.msg)
}

func TestWithCurrent(t *testing.T) {
	assert.Equal(t, "Title", withCurrent("Title", ""))
	assert.Equal(t, "Title [Soup]", withCurrent("Title", "Soup"))
	assert.Equal(t, "Ingredients [water ...]", withCurrent("Ingredients", "water\nsalt"))
}
