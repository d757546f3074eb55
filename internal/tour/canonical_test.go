package tour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortedKeys(t *testing.T) {
	b, err := MarshalCanonical(map[string]any{
		"zebra": "z",
		"alpha": "a",
		"mid":   "m",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":"a","mid":"m","zebra":"z"}`, string(b))
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	b, err := MarshalCanonical("<button class=\"next\"> & more")
	require.NoError(t, err)
	assert.Equal(t, `"<button class=\"next\"> & more"`, string(b))
}

func TestMarshalCanonical_NFCNormalization(t *testing.T) {
	// "é" as combining sequence (e + U+0301) must equal precomposed U+00E9.
	composed, err := MarshalCanonical("café")
	require.NoError(t, err)
	decomposed, err := MarshalCanonical("café")
	require.NoError(t, err)
	assert.Equal(t, composed, decomposed)
}

func TestMarshalCanonical_RejectsFloatsAndNull(t *testing.T) {
	_, err := MarshalCanonical(3.14)
	assert.Error(t, err)

	_, err = MarshalCanonical(nil)
	assert.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"v": nil})
	assert.Error(t, err)
}

func TestMarshalCanonical_NestedArray(t *testing.T) {
	b, err := MarshalCanonical([]any{
		map[string]any{"id": "a", "n": 1},
		map[string]any{"id": "b", "ok": true},
	})
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a","n":1},{"id":"b","ok":true}]`, string(b))
}

func TestFingerprint_StableAcrossCalls(t *testing.T) {
	defs := testCatalog()

	fp1, err := Fingerprint(defs)
	require.NoError(t, err)
	fp2, err := Fingerprint(testCatalog())
	require.NoError(t, err)

	assert.Equal(t, fp1, fp2)
	assert.Len(t, fp1, 64, "hex-encoded SHA-256")
}

func TestFingerprint_SensitiveToStepOrder(t *testing.T) {
	defs := testCatalog()
	fp1, err := Fingerprint(defs)
	require.NoError(t, err)

	defs[0].Steps[0], defs[0].Steps[1] = defs[0].Steps[1], defs[0].Steps[0]
	fp2, err := Fingerprint(defs)
	require.NoError(t, err)

	assert.NotEqual(t, fp1, fp2, "step order is significant")
}

func TestFingerprint_OmitsEmptyOptionalFields(t *testing.T) {
	bare := Definition{ID: "t", Name: "n", Description: "d", Steps: []Step{
		{ID: "s", Title: "ti", Content: "c", Target: "#x", Placement: PlacementTop},
	}}
	withEmpties := bare
	withEmpties.UserRoles = nil
	withEmpties.Page = ""

	fp1, err := Fingerprint([]Definition{bare})
	require.NoError(t, err)
	fp2, err := Fingerprint([]Definition{withEmpties})
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)
}
