package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/hb-platform/guidesync/internal/tour"
)

// CompileCatalog parses a CUE value into tour definitions.
// Uses the CUE SDK's Go API directly (not CLI subprocess).
//
// The value is expected to carry a top-level "tour" struct whose fields are
// tour definitions keyed by id:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`tour: "executive-overview": { ... }`)
//	defs, err := CompileCatalog(v)
func CompileCatalog(v cue.Value) ([]tour.Definition, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	toursVal := v.LookupPath(cue.ParsePath("tour"))
	if !toursVal.Exists() {
		return nil, &CompileError{
			Field:   "tour",
			Message: "no tour definitions found",
			Pos:     v.Pos(),
		}
	}

	iter, err := toursVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var defs []tour.Definition
	for iter.Next() {
		def, err := CompileTour(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	if len(defs) == 0 {
		return nil, &CompileError{
			Field:   "tour",
			Message: "at least one tour is required",
			Pos:     toursVal.Pos(),
		}
	}
	return defs, nil
}

// CompileTour parses one tour struct. The struct label is the tour id.
func CompileTour(id string, v cue.Value) (tour.Definition, error) {
	def := tour.Definition{ID: id}

	name, err := requiredString(v, "name")
	if err != nil {
		return def, err
	}
	def.Name = name

	// Description is required: the tour picker shows it.
	desc, err := requiredString(v, "description")
	if err != nil {
		return def, err
	}
	def.Description = desc

	def.Page, err = optionalString(v, "page")
	if err != nil {
		return def, err
	}

	rolesVal := v.LookupPath(cue.ParsePath("user_roles"))
	if rolesVal.Exists() {
		def.UserRoles, err = stringList(rolesVal)
		if err != nil {
			return def, err
		}
	}

	stepsVal := v.LookupPath(cue.ParsePath("steps"))
	if !stepsVal.Exists() {
		return def, &CompileError{
			Field:   fmt.Sprintf("tour.%s.steps", id),
			Message: "steps are required",
			Pos:     v.Pos(),
		}
	}
	stepIter, err := stepsVal.List()
	if err != nil {
		return def, formatCUEError(err)
	}
	for stepIter.Next() {
		step, err := compileStep(stepIter.Value())
		if err != nil {
			return def, err
		}
		def.Steps = append(def.Steps, step)
	}
	return def, nil
}

// compileStep parses a single step struct.
func compileStep(v cue.Value) (tour.Step, error) {
	var step tour.Step

	id, err := requiredString(v, "id")
	if err != nil {
		return step, err
	}
	step.ID = id

	step.Title, err = requiredString(v, "title")
	if err != nil {
		return step, err
	}
	step.Content, err = requiredString(v, "content")
	if err != nil {
		return step, err
	}
	step.Target, err = requiredString(v, "target")
	if err != nil {
		return step, err
	}

	placement, err := optionalString(v, "placement")
	if err != nil {
		return step, err
	}
	if placement == "" {
		placement = string(tour.PlacementBottom)
	}
	step.Placement = tour.Placement(placement)

	step.NextButton, err = optionalString(v, "next_button")
	if err != nil {
		return step, err
	}
	step.PrevButton, err = optionalString(v, "prev_button")
	if err != nil {
		return step, err
	}

	skipVal := v.LookupPath(cue.ParsePath("show_skip"))
	if skipVal.Exists() {
		step.ShowSkip, err = skipVal.Bool()
		if err != nil {
			return step, formatCUEError(err)
		}
	}

	step.OnNext, err = optionalString(v, "on_next")
	if err != nil {
		return step, err
	}
	step.OnPrev, err = optionalString(v, "on_prev")
	if err != nil {
		return step, err
	}
	step.OnSkip, err = optionalString(v, "on_skip")
	if err != nil {
		return step, err
	}

	return step, nil
}

// requiredString reads a string field, erroring when absent.
func requiredString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// optionalString reads a string field, returning "" when absent.
func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// stringList decodes a CUE list of strings.
func stringList(v cue.Value) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
