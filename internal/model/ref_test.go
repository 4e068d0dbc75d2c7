package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	ref, err := ParseRef("core/hab")
	require.NoError(t, err)
	assert.Equal(t, Ref{Origin: "core", Name: "hab"}, ref)
	assert.Equal(t, "core/hab", ref.String())
}

func TestParseRefFullyQualified(t *testing.T) {
	// TDEPS lines carry origin/name/version/release; only the first two
	// segments identify the package.
	ref, err := ParseRef("core/glibc/2.35/20240101120000")
	require.NoError(t, err)
	assert.Equal(t, "core/glibc", ref.String())
}

func TestParseRefInvalid(t *testing.T) {
	for _, bad := range []string{"", "core", "/hab", "core/", "  "} {
		_, err := ParseRef(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseRefs(t *testing.T) {
	refs, err := ParseRefs([]string{"core/hab", "myorg/web"})
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "myorg/web", refs[1].String())

	_, err = ParseRefs([]string{"core/hab", "nope"})
	assert.Error(t, err)
}
