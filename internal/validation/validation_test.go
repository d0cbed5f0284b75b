package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordProblem(t *testing.T) {
	testCases := []struct {
		password string
		want     string
	}{
		{"Ab1!", "Password must be at least 6 characters long."},
		{"abcdef1!", "Password must contain at least one uppercase letter."},
		{"Abcdefg!", "Password must contain at least one number."},
		{"Abcdef12", "Password must contain at least one special character."},
		{"Abcdef1!", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.password, func(t *testing.T) {
			assert.Equal(t, tc.want, PasswordProblem(tc.password))
		})
	}
}

func TestRegistration(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.Nil(t, Struct(&Registration{Email: "a@b.co", Password: "Secret1!", ConfirmPassword: "Secret1!"}))
	})

	t.Run("passwords do not match", func(t *testing.T) {
		err := Struct(&Registration{Email: "a@b.co", Password: "Secret1!", ConfirmPassword: "Secret2!"})
		require.NotNil(t, err)
		assert.Equal(t, "Passwords do not match.", err.First())
	})

	t.Run("bad email", func(t *testing.T) {
		err := Struct(&Registration{Email: "not-an-email", Password: "Secret1!", ConfirmPassword: "Secret1!"})
		require.NotNil(t, err)
		assert.Equal(t, "Please enter a valid email address.", err.First())
	})

	t.Run("weak password", func(t *testing.T) {
		err := Struct(&Registration{Email: "a@b.co", Password: "secret", ConfirmPassword: "secret"})
		require.NotNil(t, err)
		assert.Equal(t, "Password must contain at least one uppercase letter.", err.First())
	})
}

func TestTitleAndRatingInput(t *testing.T) {
	assert.Nil(t, Struct(&TitleInput{Type: "TV Show", Title: "Dark", Genres: map[string]int{"tv_dramas": 1}}))

	err := Struct(&TitleInput{Type: "Podcast", Title: "Dark"})
	require.NotNil(t, err)
	assert.Contains(t, err.First(), "type must be one of")

	err = Struct(&TitleInput{Type: "Movie"})
	require.NotNil(t, err)
	assert.Equal(t, "title is required.", err.First())

	err = Struct(&TitleInput{Type: "Movie", Title: "Heat", Genres: map[string]int{"action": 2}})
	assert.NotNil(t, err)

	err = Struct(&RatingInput{ShowID: "s1", Rating: 0})
	require.NotNil(t, err)
	assert.Equal(t, "Rating must be between 1 and 5.", err.First())
	assert.Nil(t, Struct(&RatingInput{ShowID: "s1", Rating: 5}))

	err = Struct(&RatingInput{Rating: 3})
	require.NotNil(t, err)
	assert.Equal(t, "showId is required.", err.First())
}

func TestUserInput(t *testing.T) {
	assert.Nil(t, Struct(&UserInput{Email: "a@b.co", Role: "User"}))
	assert.NotNil(t, Struct(&UserInput{Email: "a@b.co", Role: "Owner"}))
	assert.NotNil(t, Struct(&UserInput{Email: "a@b.co", Role: "User", Password: "weak"}))
}
