package compiler

import (
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hb-platform/guidesync/internal/tour"
)

func TestCompileCatalogBasic(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		tour: "executive-overview": {
			name:        "Executive Overview"
			description: "A quick pass over the portfolio dashboard"
			page:        "/dashboard"
			user_roles: ["executive", "admin"]

			steps: [{
				id:      "welcome"
				title:   "Welcome"
				content: "This dashboard summarizes every active project."
				target:  "#portfolio-summary"
			}, {
				id:        "filters"
				title:     "Filters"
				content:   "Narrow the list by stage or project manager."
				target:    "#project-filters"
				placement: "right"
				on_next:   "open-filter-panel"
				show_skip: true
			}]
		}
	`)
	require.NoError(t, v.Err())

	defs, err := CompileCatalog(v)
	require.NoError(t, err)
	require.Len(t, defs, 1)

	def := defs[0]
	assert.Equal(t, "executive-overview", def.ID)
	assert.Equal(t, "Executive Overview", def.Name)
	assert.Equal(t, "/dashboard", def.Page)
	assert.Equal(t, []string{"executive", "admin"}, def.UserRoles)
	require.Len(t, def.Steps, 2)

	assert.Equal(t, "welcome", def.Steps[0].ID)
	assert.Equal(t, tour.PlacementBottom, def.Steps[0].Placement, "placement defaults to bottom")
	assert.Equal(t, tour.PlacementRight, def.Steps[1].Placement)
	assert.Equal(t, "open-filter-panel", def.Steps[1].OnNext)
	assert.True(t, def.Steps[1].ShowSkip)
}

func TestCompileCatalogMultipleTours(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		tour: "first": {
			name:        "First"
			description: "d"
			steps: [{ id: "a", title: "A", content: "c", target: "#a" }]
		}
		tour: "second": {
			name:        "Second"
			description: "d"
			steps: [{ id: "b", title: "B", content: "c", target: "#b" }]
		}
	`)
	require.NoError(t, v.Err())

	defs, err := CompileCatalog(v)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "first", defs[0].ID)
	assert.Equal(t, "second", defs[1].ID)
}

func TestCompileCatalogMissingName(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		tour: "bad": {
			description: "no name"
			steps: [{ id: "a", title: "A", content: "c", target: "#a" }]
		}
	`)
	require.NoError(t, v.Err())

	_, err := CompileCatalog(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "required")
}

func TestCompileCatalogMissingSteps(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		tour: "bad": {
			name:        "Bad"
			description: "no steps"
		}
	`)
	require.NoError(t, v.Err())

	_, err := CompileCatalog(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps")
}

func TestCompileCatalogStepMissingTarget(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		tour: "bad": {
			name:        "Bad"
			description: "step has no target"
			steps: [{ id: "a", title: "A", content: "c" }]
		}
	`)
	require.NoError(t, v.Err())

	_, err := CompileCatalog(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target")
}

func TestCompileCatalogNoTours(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`other: 1`)
	require.NoError(t, v.Err())

	_, err := CompileCatalog(v)
	require.Error(t, err)
	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "tour", compileErr.Field)
}
