package gen

import (
	"path/filepath"
	"strings"
)

// Unit is one registered (program, variant) compile+link task.
type Unit struct {
	Name      string   // artifact name, already variant-suffixed
	OutDir    string   // intermediate object tree, relative to the build dir
	SourceDir string   // absolute source root; object paths mirror paths under it
	Sources   []string // absolute source paths

	CCFlags   []string
	CXXFlags  []string // language dialect flags, C++ sources only
	LinkFlags []string
	Defines   []string // without the -D prefix
	Includes  []string // without the -I prefix
	Libraries []string // without the -l prefix

	Vars map[string]string // process environment overrides for tool invocations
}

// Generator is a build backend: it receives the registered units and either
// emits a build file for an external tool or executes the build itself.
type Generator interface {
	SetCompiler(cxx string)
	AddUnit(u Unit)
	Generate() string
	BuildFile() string
	Invoke(buildDir string) error
}

// objectPath maps a source file to its object path inside the unit's
// intermediate tree, relative to the build dir.
func (u Unit) objectPath(src string) string {
	rel, err := filepath.Rel(u.SourceDir, src)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(src)
	}
	return filepath.Join(u.OutDir, rel+".o")
}

// compileFlags assembles the full compile flag list for one source file, in
// bucket order: compile flags, dialect flags, defines, includes.
func (u Unit) compileFlags(src string) []string {
	flags := make([]string, 0, len(u.CCFlags)+len(u.CXXFlags)+len(u.Defines)+len(u.Includes))
	flags = append(flags, u.CCFlags...)
	if isCxx(src) {
		flags = append(flags, u.CXXFlags...)
	}
	for _, d := range u.Defines {
		flags = append(flags, "-D"+d)
	}
	for _, dir := range u.Includes {
		flags = append(flags, "-I"+dir)
	}
	return flags
}

// stateCompileFlags is the flat compile flag record kept in the build state:
// every token that can change what the compiler produces for this unit.
func (u Unit) stateCompileFlags() []string {
	flags := make([]string, 0, len(u.CCFlags)+len(u.CXXFlags)+len(u.Defines)+len(u.Includes))
	flags = append(flags, u.CCFlags...)
	flags = append(flags, u.CXXFlags...)
	for _, d := range u.Defines {
		flags = append(flags, "-D"+d)
	}
	for _, dir := range u.Includes {
		flags = append(flags, "-I"+dir)
	}
	return flags
}

// linkFlags assembles the full link flag list: link flags first, libraries
// last so symbol resolution works left to right.
func (u Unit) linkFlags() []string {
	flags := make([]string, 0, len(u.LinkFlags)+len(u.Libraries))
	flags = append(flags, u.LinkFlags...)
	for _, lib := range u.Libraries {
		flags = append(flags, "-l"+lib)
	}
	return flags
}

var cxxExtensions = map[string]bool{
	".cpp": true,
	".cc":  true,
	".cxx": true,
	".c++": true,
}

func isCxx(src string) bool {
	ext := filepath.Ext(src)
	if ext == ".C" { // uppercase .C is C++, lowercase .c is not
		return true
	}
	return cxxExtensions[strings.ToLower(ext)]
}
