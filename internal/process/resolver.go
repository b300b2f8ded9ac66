package process

import "runtime"

// Resolver selects a Manager without caller input.
// The zero value is not usable; create one with NewResolver.
type Resolver struct {
	// EnhancedAvailable probes for native process inspection.
	// It must report absence as false, never by panicking.
	EnhancedAvailable func() bool

	// IsLinux reports whether the platform is Linux-family.
	IsLinux func() bool
}

// NewResolver returns a Resolver wired to the running platform.
func NewResolver() *Resolver {
	return &Resolver{
		EnhancedAvailable: EnhancedAvailable,
		IsLinux:           IsLinux,
	}
}

// Resolve returns, in order of preference: the enhanced strategy if its probe
// succeeds, the Linux strategy (elevated with runAsArgs when non-empty) on
// Linux-family systems, and the portable strategy otherwise.
func (r *Resolver) Resolve(runAsArgs []string) Manager {
	if r.EnhancedAvailable != nil && r.EnhancedAvailable() {
		return NewEnhancedManager()
	}
	if r.IsLinux != nil && r.IsLinux() {
		m := NewLinuxManager()
		if len(runAsArgs) > 0 {
			m.SetRunAsArgs(runAsArgs...)
		}
		return m
	}
	return NewPortableManager()
}

// IsLinux reports whether the program runs on a Linux kernel.
func IsLinux() bool {
	return isLinuxFamily(runtime.GOOS)
}

func isLinuxFamily(goos string) bool {
	return goos == "linux" || goos == "android"
}
