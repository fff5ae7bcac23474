package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/miraedance/atelier/pkg/validate"
)

type productInput struct {
	Name     string  `json:"name"     validate:"required,max=200"`
	Price    float64 `json:"price"    validate:"required,gte=0"`
	Category string  `json:"category" validate:"required,in=latin,ballroom,practice,accessory"`
	ImageURL string  `json:"imageUrl" validate:"nullable,url"`
}

func TestStruct_Valid(t *testing.T) {
	errs := validate.Struct(&productInput{
		Name:     "Tango Dress",
		Price:    120,
		Category: "latin",
	})
	assert.False(t, validate.HasErrors(errs), "unexpected errors: %v", errs)
}

func TestStruct_Required(t *testing.T) {
	errs := validate.Struct(&productInput{Price: 120, Category: "latin"})
	assert.Contains(t, errs, "name")
}

func TestStruct_InList(t *testing.T) {
	errs := validate.Struct(&productInput{Name: "X", Price: 1, Category: "swimwear"})
	assert.Contains(t, errs, "category")
}

func TestStruct_NullableSkipsWhenEmpty(t *testing.T) {
	errs := validate.Struct(&productInput{Name: "X", Price: 1, Category: "latin"})
	assert.NotContains(t, errs, "imageUrl")

	errs = validate.Struct(&productInput{Name: "X", Price: 1, Category: "latin", ImageURL: "not a url"})
	assert.Contains(t, errs, "imageUrl")
}

func TestStruct_EmailAndBounds(t *testing.T) {
	type signupInput struct {
		Email string `json:"email" validate:"required,email"`
		Name  string `json:"name"  validate:"required,min=2,max=100"`
	}

	errs := validate.Struct(&signupInput{Email: "bad", Name: "K"})
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "name")

	errs = validate.Struct(&signupInput{Email: "kim@example.com", Name: "Kim"})
	assert.Empty(t, errs)
}

func TestStruct_FirstFailingRuleWins(t *testing.T) {
	type input struct {
		Name string `json:"name" validate:"required,min=2"`
	}
	errs := validate.Struct(&input{})
	assert.Equal(t, "The name field is required.", errs["name"])
}
