package builder

import (
	"maps"
	"os"
	"slices"

	"github.com/sconce-build/sconce/internal/toolchain"
)

// Environment is the flag state handed to the backend for one build unit
// registration. A base environment exists per variant; program registration
// always works on a clone of it, never on the base itself, so per-program
// customization cannot leak between programs.
type Environment struct {
	CCFlags   toolchain.FlagSet
	CXXFlags  toolchain.FlagSet
	LinkFlags toolchain.FlagSet

	Defines     []string // preprocessor defines, without the -D prefix
	Libraries   []string // link libraries, without the -l prefix
	IncludeDirs []string // include directories, without the -I prefix

	Vars map[string]string // process environment overrides for tool invocations
}

// newBaseEnvironment builds the per-variant base from assembled settings.
// TERM is passed through so gcc and clang can autodetect whether to color
// their diagnostics.
func newBaseEnvironment(s *toolchain.Settings, v toolchain.Variant, includeDirs []string) *Environment {
	env := &Environment{
		CCFlags:     s.CC[v],
		CXXFlags:    s.CXX[v],
		LinkFlags:   s.Link[v],
		Defines:     []string(s.CPP[v]),
		Libraries:   []string{},
		IncludeDirs: slices.Clone(includeDirs),
		Vars:        map[string]string{},
	}
	if term, ok := os.LookupEnv("TERM"); ok {
		env.Vars["TERM"] = term
	}
	return env
}

// Clone returns a deep copy. The copy shares nothing with the receiver.
func (e *Environment) Clone() *Environment {
	return &Environment{
		CCFlags:     slices.Clone(e.CCFlags),
		CXXFlags:    slices.Clone(e.CXXFlags),
		LinkFlags:   slices.Clone(e.LinkFlags),
		Defines:     slices.Clone(e.Defines),
		Libraries:   slices.Clone(e.Libraries),
		IncludeDirs: slices.Clone(e.IncludeDirs),
		Vars:        maps.Clone(e.Vars),
	}
}
