package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, name := range []string{EnvImageBase, EnvPageSize, EnvJobs, EnvVerbose, EnvLogJSON} {
		t.Setenv(name, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x400000), c.ImageBase)
	assert.Equal(t, hostPageSize(), c.PageSize)
	assert.Equal(t, 4, c.Jobs)
	assert.False(t, c.Verbose)
	assert.False(t, c.LogJSON)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvImageBase, "0x10000")
	t.Setenv(EnvPageSize, "65536")
	t.Setenv(EnvJobs, "0")
	t.Setenv(EnvVerbose, "1")
	t.Setenv(EnvLogJSON, "true")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Config{
		ImageBase: 0x10000,
		PageSize:  65536,
		Jobs:      1,
		Verbose:   true,
		LogJSON:   true,
	}, c)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	tests := map[string][2]string{
		"base not a number":   {EnvImageBase, "lots"},
		"page not a number":   {EnvPageSize, "big"},
		"page not power of 2": {EnvPageSize, "3000"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), kv[0])
		})
	}
}

func TestHostPageSize(t *testing.T) {
	size := hostPageSize()
	assert.NotZero(t, size)
	assert.Zero(t, size&(size-1))
}
