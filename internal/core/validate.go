package core

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is shared by all boundary checks. Struct tags on the domain types
// describe the allowed shapes; this is the single place they are enforced.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateSuggestion checks a suggestion read from or written to the store.
// Loosely-typed manifests (the implementation document) are validated here at
// the boundary, not ad hoc at every call site.
func ValidateSuggestion(s *Suggestion) error {
	if s.ID == "" {
		return fmt.Errorf("suggestion is missing an id")
	}
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid suggestion %s: %w", s.ID, err)
	}
	for i, c := range s.Implementation.Changes {
		if err := validateChange(i, c); err != nil {
			return fmt.Errorf("invalid suggestion %s: %w", s.ID, err)
		}
	}
	return nil
}

func validateChange(i int, c FileChange) error {
	switch c.Operation {
	case OpRename:
		if c.OldPath == "" || c.NewPath == "" {
			return fmt.Errorf("change %d: rename requires old_path and new_path", i)
		}
	case OpCreate, OpUpdate:
		if c.File == "" {
			return fmt.Errorf("change %d: %s requires a file path", i, c.Operation)
		}
	case OpDelete:
		if c.File == "" {
			return fmt.Errorf("change %d: delete requires a file path", i)
		}
	default:
		return fmt.Errorf("change %d: unknown operation %q", i, c.Operation)
	}
	return nil
}

// ValidateCanary checks a canary model and its promotion criteria at the
// store boundary.
func ValidateCanary(m *CanaryModel) error {
	if m.ID == "" {
		return fmt.Errorf("canary model is missing an id")
	}
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("invalid canary model %s: %w", m.ID, err)
	}
	return nil
}

// ValidateSettings checks tenant settings before they are persisted.
func ValidateSettings(s *EvolutionSettings) error {
	if s.Tenant == "" {
		return fmt.Errorf("settings are missing a tenant")
	}
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings for tenant %s: %w", s.Tenant, err)
	}
	return nil
}
