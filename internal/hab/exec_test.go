package hab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChildEnvScrubsCacheKeyPath(t *testing.T) {
	env := []string{
		"HOME=/root",
		"HAB_CACHE_KEY_PATH=/hab/cache/keys",
		"TERM=xterm",
	}
	out := childEnv(env, "/hab/studios/default")

	assert.NotContains(t, out, "HAB_CACHE_KEY_PATH=/hab/cache/keys")
	assert.Contains(t, out, "HOME=/root")
	assert.Contains(t, out, "TERM=xterm")
	assert.Contains(t, out, "FS_ROOT=/hab/studios/default")
}

func TestChildEnvReplacesInheritedFSRoot(t *testing.T) {
	out := childEnv([]string{"FS_ROOT=/somewhere/else"}, "/hab/studios/default")

	assert.NotContains(t, out, "FS_ROOT=/somewhere/else")
	assert.Contains(t, out, "FS_ROOT=/hab/studios/default")
}

func TestNewCLIDefaults(t *testing.T) {
	c := NewCLI("", "", nil)
	assert.Equal(t, "hab", c.Bin)
	assert.NotNil(t, c.log)
}

func TestNewCLIRecordsCacheKeyPath(t *testing.T) {
	c := NewCLI("hab", "/hab/cache/keys", nil)
	assert.Equal(t, "/hab/cache/keys", c.cacheKeyPath)
}
