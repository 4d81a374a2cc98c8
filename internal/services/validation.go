package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/go-playground/validator/v10"
)

const (
	maxRecipeName = 256
	minPassword   = 8
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// validate runs the struct tag rules of request inputs
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return passwordProblem(fl.Field().String()) == ""
	})
	return v
}

// passwordProblem returns why plain is not an acceptable password, or ""
func passwordProblem(plain string) string {
	if len([]rune(plain)) < minPassword {
		return fmt.Sprintf("must contain at least %d characters", minPassword)
	}
	for _, r := range plain {
		if !unicode.IsDigit(r) {
			return ""
		}
	}
	return "must not be entirely numeric"
}

// structErrors runs validate over s and converts failures to a validation error
func structErrors(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	fields := fieldErrors{}
	for _, fe := range ves {
		fields.add(fe.Field(), fieldMessage(fe))
	}
	return fields.err()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	case "username":
		return "may contain only letters, digits and @/./+/-/_"
	case "slug":
		return "may contain only latin letters, digits, hyphens and underscores"
	case "password":
		return "password " + passwordProblem(fe.Value().(string))
	default:
		return fmt.Sprintf("failed the %s rule", fe.Tag())
	}
}

// fieldErrors collects messages per request field
type fieldErrors map[string][]string

func (f fieldErrors) add(field, msg string) {
	f[field] = append(f[field], msg)
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return models.NewValidationError(f)
}

// RecipeRules holds the configured bounds of recipe writes
type RecipeRules struct {
	MaxAmount      int
	MaxCookingTime int
}

// RecipeInput is a recipe write. Nil scalar fields keep their stored value
// on update and are required on create. Ingredients and Tags replace the
// whole composition and are always required.
type RecipeInput struct {
	Name        *string
	Text        *string
	Image       *string
	CookingTime *int
	Ingredients []models.IngredientAmount
	Tags        []uint
}

// Validate checks the shape and bounds of in. Whether referenced
// ingredients and tags exist is checked against the store separately.
func (r RecipeRules) Validate(in RecipeInput, partial bool) error {
	fields := fieldErrors{}

	required := func(field string, present bool) bool {
		if !present && !partial {
			fields.add(field, "this field is required")
		}
		return present
	}
	if required("name", in.Name != nil) {
		name := strings.TrimSpace(*in.Name)
		switch {
		case name == "":
			fields.add("name", "this field may not be blank")
		case len([]rune(name)) > maxRecipeName:
			fields.add("name", fmt.Sprintf("ensure this field has no more than %d characters", maxRecipeName))
		}
	}
	if required("text", in.Text != nil) && strings.TrimSpace(*in.Text) == "" {
		fields.add("text", "this field may not be blank")
	}
	if required("image", in.Image != nil) && *in.Image == "" {
		fields.add("image", "this field may not be blank")
	}
	if required("cooking_time", in.CookingTime != nil) {
		if msg := r.bound(*in.CookingTime, r.MaxCookingTime); msg != "" {
			fields.add("cooking_time", msg)
		}
	}

	if len(in.Ingredients) == 0 {
		fields.add("ingredients", "at least one ingredient is required")
	}
	seenIngredients := make(map[uint]bool, len(in.Ingredients))
	for _, item := range in.Ingredients {
		if seenIngredients[item.IngredientID] {
			fields.add("ingredients", fmt.Sprintf("ingredient %d is listed more than once", item.IngredientID))
		}
		seenIngredients[item.IngredientID] = true
		if msg := r.bound(item.Amount, r.MaxAmount); msg != "" {
			fields.add("ingredients", fmt.Sprintf("amount of ingredient %d %s", item.IngredientID, msg))
		}
	}

	if len(in.Tags) == 0 {
		fields.add("tags", "at least one tag is required")
	}
	seenTags := make(map[uint]bool, len(in.Tags))
	for _, id := range in.Tags {
		if seenTags[id] {
			fields.add("tags", fmt.Sprintf("tag %d is listed more than once", id))
		}
		seenTags[id] = true
	}

	return fields.err()
}

func (r RecipeRules) bound(value, max int) string {
	if value < 1 {
		return "must be at least 1"
	}
	if max > 0 && value > max {
		return fmt.Sprintf("must be at most %d", max)
	}
	return ""
}
