// Package validation checks request payloads with go-playground/validator
// and turns failures into the messages shown on the registration and admin
// forms.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Registration is the payload of POST /register.
type Registration struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

// TitleInput is the payload of the admin title create and edit forms.
type TitleInput struct {
	ShowID      string         `json:"show_id" validate:"omitempty,max=32"`
	Type        string         `json:"type" validate:"required,oneof=Movie 'TV Show'"`
	Title       string         `json:"title" validate:"required,max=300"`
	Director    string         `json:"director"`
	Cast        string         `json:"cast"`
	Country     string         `json:"country"`
	ReleaseYear int            `json:"release_year" validate:"omitempty,min=1888,max=2100"`
	Rating      string         `json:"rating" validate:"max=16"`
	Duration    string         `json:"duration" validate:"max=32"`
	Description string         `json:"description"`
	Genres      map[string]int `json:"genres" validate:"dive,oneof=0 1"`
}

// RatingInput is the payload of POST /api/ratings.
type RatingInput struct {
	UserID int64  `json:"userId" validate:"omitempty,min=1"`
	ShowID string `json:"showId" validate:"required"`
	Rating int    `json:"rating" validate:"min=1,max=5"`
}

// UserInput is the payload of the admin user create and edit forms.
type UserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,password"`
	Role     string `json:"role" validate:"required,oneof=Administrator User"`
}

// GetValidator returns the shared validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Messages name fields the way the client sends them.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			return PasswordProblem(fl.Field().String()) == ""
		})
	})
	return validate
}

// PasswordProblem describes why password breaks the password policy, or
// returns "" when it is acceptable.
func PasswordProblem(password string) string {
	if len(password) < 6 {
		return "Password must be at least 6 characters long."
	}
	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case !unicode.IsLetter(r) && !unicode.IsSpace(r):
			hasSymbol = true
		}
	}
	switch {
	case !hasUpper:
		return "Password must contain at least one uppercase letter."
	case !hasDigit:
		return "Password must contain at least one number."
	case !hasSymbol:
		return "Password must contain at least one special character."
	}
	return ""
}

// Error collects the user-facing messages of a failed validation.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, " ")
}

// First returns the first message, which is what the forms display.
func (e *Error) First() string {
	if len(e.Messages) == 0 {
		return "Invalid request."
	}
	return e.Messages[0]
}

// Struct validates s and returns nil or an *Error.
func Struct(s any) *Error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &Error{Messages: []string{err.Error()}}
	}
	out := &Error{}
	for _, fe := range fieldErrs {
		out.Messages = append(out.Messages, message(fe, s))
	}
	return out
}

func message(fe validator.FieldError, s any) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required."
	case "email":
		return "Please enter a valid email address."
	case "password":
		return PasswordProblem(fe.Value().(string))
	case "eqfield":
		return "Passwords do not match."
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param() + "."
	case "min", "max":
		if _, ok := s.(*RatingInput); ok && fe.StructField() == "Rating" {
			return "Rating must be between 1 and 5."
		}
		return fe.Field() + " is out of range."
	}
	return fe.Field() + " is invalid."
}
