package toolchain

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// Family is the normalized toolchain identity, independent of the exact
// invocable path.
type Family int

const (
	Gcc Family = iota
	Clang
)

func (f Family) String() string {
	switch f {
	case Gcc:
		return "gcc"
	case Clang:
		return "clang"
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

var (
	// ErrUnrecognizedCompiler is returned when a compiler name or command
	// matches no known family.
	ErrUnrecognizedCompiler = errors.New("unrecognized compiler")

	// ErrNoCompiler is returned when neither a compiler name, a command nor a
	// usable default is available.
	ErrNoCompiler = errors.New("no compiler given and no default could be determined")
)

// Identity couples a compiler family with the command used to invoke it.
type Identity struct {
	Family  Family
	Command string
}

var familyAliases = map[string]Family{
	"gcc":     Gcc,
	"g++":     Gcc,
	"clang":   Clang,
	"clang++": Clang,
}

var namePattern = regexp.MustCompile(`^[a-z+]+`)

// normalizeName maps the many spellings of a compiler onto one canonical
// family: g++ -> gcc, clang++-17 -> clang.
func normalizeName(name string) (Family, error) {
	m := namePattern.FindString(strings.ToLower(name))
	if m == "" {
		return 0, fmt.Errorf("%w: %q", ErrUnrecognizedCompiler, name)
	}
	family, ok := familyAliases[m]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnrecognizedCompiler, name)
	}
	return family, nil
}

// Resolve produces the compiler identity from an optional explicit name, an
// optional explicit command and a fallback command.
//
// A user can say their compiler is named "clang" and have it looked up on
// $PATH as usual, or point at "arbitrary/path/gcc" and have the family
// inferred from the basename. If their clang happens to be installed at
// "path/g++", they must give both the real name and the path.
func Resolve(name, command, fallback string) (Identity, error) {
	if name == "" {
		if command != "" {
			name = filepath.Base(command)
		} else if fallback != "" {
			// the fallback may be a full path from $CXX or LookPath; keep it
			// invocable as-is, only the name is reduced to the basename
			name = filepath.Base(fallback)
			command = fallback
		}
	}
	if name == "" {
		return Identity{}, ErrNoCompiler
	}
	if command == "" {
		command = name
	}

	family, err := normalizeName(name)
	if err != nil {
		return Identity{}, err
	}
	return Identity{Family: family, Command: command}, nil
}

var defaultCompilers = []string{"clang++", "g++", "clang", "gcc"}

// DefaultCompiler returns the compiler command used when the user specifies
// nothing, honoring $CXX and $CC before probing $PATH for a common compiler.
// Returns "" when nothing is found.
func DefaultCompiler() string {
	if cxx := os.Getenv("CXX"); cxx != "" {
		return cxx
	}
	if cc := os.Getenv("CC"); cc != "" {
		return cc
	}

	for _, compiler := range defaultCompilers {
		if path, err := exec.LookPath(compiler); err == nil {
			return path
		}
	}
	return ""
}
