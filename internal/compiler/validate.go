package compiler

import (
	"fmt"
	"strings"

	"github.com/hb-platform/guidesync/internal/tour"
)

// Validation error codes (E100-E199)
const (
	ErrTourIDEmpty        = "E101" // tour id is required
	ErrTourNameEmpty      = "E102" // tour name is required
	ErrTourNoSteps        = "E103" // tour must have at least one step
	ErrDuplicateTourID    = "E104" // duplicate tour id in catalog
	ErrStepIDEmpty        = "E105" // step id is required
	ErrDuplicateStepID    = "E106" // duplicate step id within a tour
	ErrStepTargetEmpty    = "E107" // step target selector is required
	ErrInvalidPlacement   = "E108" // placement not in the allowed set
	ErrUnknownEffect      = "E109" // effect name not in the registry
	ErrStepContentEmpty   = "E110" // step content is required
)

// EffectChecker reports whether an effect name is registered. Satisfied by
// *effects.Registry; nil skips effect-reference checks.
type EffectChecker interface {
	Has(name string) bool
}

// ValidationError represents a catalog validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled catalog against schema rules. Returns all
// errors found (does not fail-fast). When fx is non-nil, step effect
// references are resolved against it.
func Validate(defs []tour.Definition, fx EffectChecker) []ValidationError {
	var errs []ValidationError

	tourIDs := make(map[string]bool)
	for i, def := range defs {
		prefix := fmt.Sprintf("tour[%d]", i)
		if def.ID != "" {
			prefix = fmt.Sprintf("tour.%s", def.ID)
		}

		if strings.TrimSpace(def.ID) == "" {
			errs = append(errs, ValidationError{
				Field:   prefix + ".id",
				Message: "tour id is required and must be non-empty",
				Code:    ErrTourIDEmpty,
			})
		}
		if tourIDs[def.ID] {
			errs = append(errs, ValidationError{
				Field:   prefix + ".id",
				Message: fmt.Sprintf("duplicate tour id: %q", def.ID),
				Code:    ErrDuplicateTourID,
			})
		}
		tourIDs[def.ID] = true

		if strings.TrimSpace(def.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   prefix + ".name",
				Message: "tour name is required and must be non-empty",
				Code:    ErrTourNameEmpty,
			})
		}
		if len(def.Steps) == 0 {
			errs = append(errs, ValidationError{
				Field:   prefix + ".steps",
				Message: "tour must have at least one step",
				Code:    ErrTourNoSteps,
			})
		}

		errs = append(errs, validateSteps(prefix, def.Steps, fx)...)
	}
	return errs
}

// validateSteps checks the steps of one tour.
func validateSteps(prefix string, steps []tour.Step, fx EffectChecker) []ValidationError {
	var errs []ValidationError

	stepIDs := make(map[string]bool)
	for i, step := range steps {
		field := fmt.Sprintf("%s.steps[%d]", prefix, i)

		if strings.TrimSpace(step.ID) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".id",
				Message: "step id is required and must be non-empty",
				Code:    ErrStepIDEmpty,
			})
		}
		if stepIDs[step.ID] {
			errs = append(errs, ValidationError{
				Field:   field + ".id",
				Message: fmt.Sprintf("duplicate step id: %q", step.ID),
				Code:    ErrDuplicateStepID,
			})
		}
		stepIDs[step.ID] = true

		if strings.TrimSpace(step.Target) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".target",
				Message: "step target selector is required",
				Code:    ErrStepTargetEmpty,
			})
		}
		if strings.TrimSpace(step.Content) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".content",
				Message: "step content is required",
				Code:    ErrStepContentEmpty,
			})
		}
		if !tour.ValidPlacements[step.Placement] {
			errs = append(errs, ValidationError{
				Field:   field + ".placement",
				Message: fmt.Sprintf("invalid placement %q, must be one of top, bottom, left, right, center", step.Placement),
				Code:    ErrInvalidPlacement,
			})
		}

		if fx != nil {
			refs := []struct {
				field  string
				effect string
			}{
				{"on_next", step.OnNext},
				{"on_prev", step.OnPrev},
				{"on_skip", step.OnSkip},
			}
			for _, ref := range refs {
				if ref.effect == "" {
					continue
				}
				if !fx.Has(ref.effect) {
					errs = append(errs, ValidationError{
						Field:   fmt.Sprintf("%s.%s", field, ref.field),
						Message: fmt.Sprintf("unknown effect %q", ref.effect),
						Code:    ErrUnknownEffect,
					})
				}
			}
		}
	}
	return errs
}
