package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(v bool) func() bool {
	return func() bool { return v }
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		enhanced bool
		linux    bool
		want     string
	}{
		{"enhanced wins everywhere", true, true, "enhanced"},
		{"enhanced wins off linux", true, false, "enhanced"},
		{"linux when no enhanced", false, true, "linux"},
		{"portable fallback", false, false, "portable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &Resolver{EnhancedAvailable: fixed(tt.enhanced), IsLinux: fixed(tt.linux)}
			got := r.Resolve(nil)
			assert.Equal(t, tt.want, got.Name())
		})
	}
}

func TestResolver_LinuxGetsRunAsArgs(t *testing.T) {
	t.Parallel()

	r := &Resolver{EnhancedAvailable: fixed(false), IsLinux: fixed(true)}
	got := r.Resolve([]string{"sudo", "-n", "-u", "office"})

	lm, ok := got.(*LinuxManager)
	require.True(t, ok, "got %T, want *LinuxManager", got)
	assert.Equal(t, []string{"sudo", "-n", "-u", "office"}, lm.RunAsArgs())
}

func TestResolver_LinuxWithoutRunAsArgs(t *testing.T) {
	t.Parallel()

	r := &Resolver{EnhancedAvailable: fixed(false), IsLinux: fixed(true)}
	lm, ok := r.Resolve([]string{}).(*LinuxManager)
	require.True(t, ok)
	assert.Empty(t, lm.RunAsArgs())
}

func TestResolver_ProbeCalledOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	r := &Resolver{
		EnhancedAvailable: func() bool { calls++; return false },
		IsLinux:           fixed(false),
	}
	r.Resolve(nil)
	assert.Equal(t, 1, calls)
}

func TestResolver_NilFuncsFallBack(t *testing.T) {
	t.Parallel()

	r := &Resolver{}
	assert.Equal(t, "portable", r.Resolve(nil).Name())
}

func TestNewResolver_Wired(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	require.NotNil(t, r.EnhancedAvailable)
	require.NotNil(t, r.IsLinux)
	assert.NotNil(t, r.Resolve(nil))
}

func TestIsLinuxFamily(t *testing.T) {
	t.Parallel()

	assert.True(t, isLinuxFamily("linux"))
	assert.True(t, isLinuxFamily("android"))
	assert.False(t, isLinuxFamily("darwin"))
	assert.False(t, isLinuxFamily("windows"))
	assert.False(t, isLinuxFamily("freebsd"))
}
