package collect

import (
	"strings"

	"github.com/google/uuid"

	"github.com/lexleague/lexleague-backend/internal/domain"
)

const (
	maxTextLen       = 200
	maxDefinitionLen = 2000
	maxExampleLen    = 2000
	maxCategoryLen   = 100
)

// CollectInput is a request to add one word or expression to a student's
// collection.
type CollectInput struct {
	Type       domain.EntryType
	Text       string
	Definition string
	Example    string
	Category   *string
	ImageURL   *string
	MaterialID *uuid.UUID
}

// Validate checks the input and normalizes its text fields in place.
func (in *CollectInput) Validate() error {
	var errs []domain.FieldError

	if !in.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "must be vocabulary or expression"})
	}

	in.Text = strings.TrimSpace(in.Text)
	switch {
	case in.Text == "":
		errs = append(errs, domain.FieldError{Field: "text", Message: "required"})
	case len(in.Text) > maxTextLen:
		errs = append(errs, domain.FieldError{Field: "text", Message: "too long"})
	}

	in.Definition = strings.TrimSpace(in.Definition)
	switch {
	case in.Definition == "":
		errs = append(errs, domain.FieldError{Field: "definition", Message: "required"})
	case len(in.Definition) > maxDefinitionLen:
		errs = append(errs, domain.FieldError{Field: "definition", Message: "too long"})
	}

	in.Example = strings.TrimSpace(in.Example)
	if len(in.Example) > maxExampleLen {
		errs = append(errs, domain.FieldError{Field: "example", Message: "too long"})
	}

	if in.Category != nil {
		trimmed := strings.TrimSpace(*in.Category)
		if trimmed == "" {
			in.Category = nil
		} else if len(trimmed) > maxCategoryLen {
			errs = append(errs, domain.FieldError{Field: "category", Message: "too long"})
		} else {
			in.Category = &trimmed
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
