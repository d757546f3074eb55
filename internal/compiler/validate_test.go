package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hb-platform/guidesync/internal/effects"
	"github.com/hb-platform/guidesync/internal/tour"
)

func validCatalog() []tour.Definition {
	return []tour.Definition{{
		ID:          "executive-overview",
		Name:        "Executive Overview",
		Description: "Dashboard walkthrough",
		Steps: []tour.Step{
			{ID: "welcome", Title: "Welcome", Content: "c", Target: "#summary", Placement: tour.PlacementBottom},
			{ID: "filters", Title: "Filters", Content: "c", Target: "#filters", Placement: tour.PlacementRight},
		},
	}}
}

func TestValidateCleanCatalog(t *testing.T) {
	errs := Validate(validCatalog(), nil)
	assert.Empty(t, errs)
}

func TestValidateDuplicateTourID(t *testing.T) {
	defs := append(validCatalog(), validCatalog()...)
	errs := Validate(defs, nil)

	require.NotEmpty(t, errs)
	assert.Equal(t, ErrDuplicateTourID, errs[0].Code)
}

func TestValidateEmptySteps(t *testing.T) {
	defs := validCatalog()
	defs[0].Steps = nil

	errs := Validate(defs, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrTourNoSteps, errs[0].Code)
}

func TestValidateDuplicateStepID(t *testing.T) {
	defs := validCatalog()
	defs[0].Steps[1].ID = "welcome"

	errs := Validate(defs, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrDuplicateStepID, errs[0].Code)
	assert.Contains(t, errs[0].Field, "steps[1]")
}

func TestValidateBadPlacement(t *testing.T) {
	defs := validCatalog()
	defs[0].Steps[0].Placement = "diagonal"

	errs := Validate(defs, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrInvalidPlacement, errs[0].Code)
}

func TestValidateEmptyTarget(t *testing.T) {
	defs := validCatalog()
	defs[0].Steps[0].Target = "  "

	errs := Validate(defs, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrStepTargetEmpty, errs[0].Code)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	defs := validCatalog()
	defs[0].Name = ""
	defs[0].Steps[0].Target = ""
	defs[0].Steps[1].Placement = "nowhere"

	errs := Validate(defs, nil)
	assert.Len(t, errs, 3, "validation reports every error, not just the first")
}

func TestValidateEffectReferences(t *testing.T) {
	fx := effects.NewRegistry()
	require.NoError(t, fx.Register("open-filter-panel", effects.OpenAffordance("filter-panel")))

	defs := validCatalog()
	defs[0].Steps[0].OnNext = "open-filter-panel"
	defs[0].Steps[1].OnSkip = "close-everything"

	errs := Validate(defs, fx)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnknownEffect, errs[0].Code)
	assert.Contains(t, errs[0].Message, "close-everything")
	assert.Contains(t, errs[0].Field, "on_skip")
}

func TestValidateSkipsEffectChecksWithoutRegistry(t *testing.T) {
	defs := validCatalog()
	defs[0].Steps[0].OnNext = "never-registered"

	errs := Validate(defs, nil)
	assert.Empty(t, errs)
}
