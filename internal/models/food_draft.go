package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidFoodDraft = errors.New("invalid food draft")

var draftValidator = validator.New(validator.WithRequiredStructEnabled())

// FoodDraft is an unsaved entry: name, description and the four macros for the
// whole visible portion.
type FoodDraft struct {
	FoodName      string  `json:"food_name"`
	Description   *string `json:"description,omitempty"`
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Fat           float64 `json:"fat"`
	Carbohydrates float64 `json:"carbohydrates"`
}

// FoodDraftDocument is the wire form of a draft. Pointers keep a missing number
// apart from an explicit zero.
type FoodDraftDocument struct {
	FoodName      *string  `json:"food_name" validate:"required"`
	Description   *string  `json:"description"`
	Calories      *float64 `json:"calories" validate:"required,gte=0"`
	Protein       *float64 `json:"protein" validate:"required,gte=0"`
	Fat           *float64 `json:"fat" validate:"required,gte=0"`
	Carbohydrates *float64 `json:"carbohydrates" validate:"required,gte=0"`
}

// ParseFoodDraft decodes and validates a JSON draft.
func ParseFoodDraft(raw []byte) (FoodDraft, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return FoodDraft{}, fmt.Errorf("%w: empty document", ErrInvalidFoodDraft)
	}

	document := FoodDraftDocument{}
	if err := json.Unmarshal(trimmed, &document); err != nil {
		return FoodDraft{}, fmt.Errorf("%w: %v", ErrInvalidFoodDraft, err)
	}
	return document.Draft()
}

// Draft validates the document and converts it into a FoodDraft.
func (document FoodDraftDocument) Draft() (FoodDraft, error) {
	if document.FoodName != nil {
		name := strings.TrimSpace(*document.FoodName)
		document.FoodName = &name
		if name == "" {
			return FoodDraft{}, fmt.Errorf("%w: food_name is required", ErrInvalidFoodDraft)
		}
	}
	if err := draftValidator.Struct(document); err != nil {
		return FoodDraft{}, fmt.Errorf("%w: %s", ErrInvalidFoodDraft, describeValidationError(err))
	}

	draft := FoodDraft{
		FoodName:      *document.FoodName,
		Calories:      *document.Calories,
		Protein:       *document.Protein,
		Fat:           *document.Fat,
		Carbohydrates: *document.Carbohydrates,
	}
	if document.Description != nil {
		description := strings.TrimSpace(*document.Description)
		if description != "" {
			draft.Description = &description
		}
	}
	return draft, nil
}

// Validate checks an already decoded draft against the same rules as the wire form.
func (draft FoodDraft) Validate() error {
	_, err := draft.Normalized()
	return err
}

// Normalized validates the draft and returns it with the name and description trimmed.
func (draft FoodDraft) Normalized() (FoodDraft, error) {
	return draft.Document().Draft()
}

func (draft FoodDraft) Document() FoodDraftDocument {
	name := draft.FoodName
	calories := draft.Calories
	protein := draft.Protein
	fat := draft.Fat
	carbohydrates := draft.Carbohydrates
	return FoodDraftDocument{
		FoodName:      &name,
		Description:   draft.Description,
		Calories:      &calories,
		Protein:       &protein,
		Fat:           &fat,
		Carbohydrates: &carbohydrates,
	}
}

func describeValidationError(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err.Error()
	}

	first := fieldErrors[0]
	field := jsonFieldName(first.Field())
	switch first.Tag() {
	case "required":
		return field + " is required"
	case "gte":
		return field + " must be non-negative"
	default:
		return fmt.Sprintf("%s failed %s", field, first.Tag())
	}
}

func jsonFieldName(structField string) string {
	switch structField {
	case "FoodName":
		return "food_name"
	case "Calories":
		return "calories"
	case "Protein":
		return "protein"
	case "Fat":
		return "fat"
	case "Carbohydrates":
		return "carbohydrates"
	default:
		return strings.ToLower(structField)
	}
}
