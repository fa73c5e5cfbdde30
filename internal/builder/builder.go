package builder

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sconce-build/sconce/internal/builder/gen"
	"github.com/sconce-build/sconce/internal/msg"
	"github.com/sconce-build/sconce/internal/project"
	"github.com/sconce-build/sconce/internal/toolchain"
)

const (
	GeneratorNative = "native"
	GeneratorNinja  = "ninja"
)

var errNoPrograms = errors.New("manifest declares no programs")

// Builder is the orchestration layer: it resolves the active compiler,
// assembles the per-variant flag buckets and registers one build unit per
// (program, variant) pair with the chosen backend.
type Builder struct {
	manifest *project.Manifest
	basedir  string

	// Compiler and CompilerCommand mirror the --compiler and
	// --compiler-command options; either, both or neither may be set.
	Compiler        string
	CompilerCommand string
	Verbose         bool
	Jobs            int
}

func NewBuilderInDirectory(path string) (*Builder, error) {
	var err error
	path, err = filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	env := project.NewConfigEnv()
	manifest, err := project.LoadManifest(filepath.Join(path, project.ManifestFilename), env)
	if err != nil {
		return nil, err
	}

	return &Builder{
		manifest: manifest,
		basedir:  path,
		Jobs:     runtime.NumCPU(),
	}, nil
}

func createGenerator(generator string, jobs int, verbose bool) gen.Generator {
	switch generator {
	case GeneratorNative:
		return gen.NewNative(jobs, verbose)
	case GeneratorNinja:
		return &gen.NinjaGen{}
	default:
		panic("createGenerator: unreachable")
	}
}

// variantDir computes the intermediate tree for one (variant, defines) pair,
// relative to the build root: <family>/<variant>/<defines-joined-by-dash>.
// Two programs with the same defines share an object tree; programs with
// different defines must not, since the defines change what the compiler
// produces.
func variantDir(family toolchain.Family, v toolchain.Variant, defines []string) string {
	return filepath.Join(family.String(), v.String(), strings.Join(defines, "-"))
}

// Build assembles settings for the active compiler and registers every
// (program, variant) unit with the backend. Any configuration error aborts
// before a single unit is registered; backend failures surface verbatim.
func (b *Builder) Build(generator string) error {
	if len(b.manifest.Programs) == 0 {
		return errNoPrograms
	}

	settings, err := toolchain.NewSettings(b.Compiler, b.CompilerCommand, toolchain.DefaultCompiler())
	if err != nil {
		return err
	}

	buildDir := filepath.Join(b.basedir, "build")
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		return err
	}

	depIncludes, err := b.fetchDependencies(filepath.Join(buildDir, "_deps"))
	if err != nil {
		return err
	}

	includes := make([]string, 0, len(b.manifest.Project.IncludeDirs)+len(depIncludes))
	for _, dir := range b.manifest.Project.IncludeDirs {
		includes = append(includes, b.abs(dir))
	}
	includes = append(includes, depIncludes...)

	base := make(map[toolchain.Variant]*Environment, len(toolchain.Variants))
	for _, v := range toolchain.Variants {
		base[v] = newBaseEnvironment(settings, v, includes)
	}

	g := createGenerator(generator, b.Jobs, b.Verbose)
	g.SetCompiler(settings.Compiler.Command)

	srcRoot := b.abs(b.manifest.Project.SourceDir)
	for _, prog := range b.manifest.Programs {
		sources, err := b.collectSources(srcRoot, prog)
		if err != nil {
			return fmt.Errorf("failed to collect sources for %s: %w", prog.Name, err)
		}

		for _, v := range toolchain.Variants {
			env := base[v].Clone()
			// the program replaces defines and libraries wholesale and only
			// appends include directories, mirroring how the base environment
			// itself was built
			env.Defines = slices.Clone(prog.Defines)
			env.Libraries = slices.Clone(prog.Libraries)
			for _, dir := range prog.IncludeDirs {
				env.IncludeDirs = append(env.IncludeDirs, b.abs(dir))
			}

			g.AddUnit(gen.Unit{
				Name:      prog.Name + v.Suffix(),
				OutDir:    variantDir(settings.Compiler.Family, v, prog.Defines),
				SourceDir: srcRoot,
				Sources:   sources,
				CCFlags:   []string(env.CCFlags),
				CXXFlags:  []string(env.CXXFlags),
				LinkFlags: []string(env.LinkFlags),
				Defines:   env.Defines,
				Includes:  env.IncludeDirs,
				Libraries: env.Libraries,
				Vars:      env.Vars,
			})
		}
	}

	if out := g.Generate(); out != "" {
		buildFile := filepath.Join(buildDir, g.BuildFile())
		if err := os.WriteFile(buildFile, []byte(out), 0644); err != nil {
			return err
		}
	}

	return g.Invoke(buildDir)
}

// BuildAndRun builds everything, then executes the requested program's
// binary for the given variant. An empty name picks the first program in
// the manifest.
func (b *Builder) BuildAndRun(name string, args []string, v toolchain.Variant, generator string) error {
	if err := b.Build(generator); err != nil {
		return err
	}

	if name == "" {
		name = b.manifest.Programs[0].Name
	} else if !slices.ContainsFunc(b.manifest.Programs, func(p project.Program) bool { return p.Name == name }) {
		return fmt.Errorf("no program named %q in manifest", name)
	}

	cmd := exec.Command(filepath.Join(b.basedir, "build", name+v.Suffix()), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

// Clean removes the build tree, dependency checkouts included.
func (b *Builder) Clean() error {
	return os.RemoveAll(filepath.Join(b.basedir, "build"))
}

func (b *Builder) abs(dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(b.basedir, dir)
}

// collectSources resolves a program's source declarations against the source
// root. Declarations may be plain filenames or doublestar glob patterns; a
// plain filename that matches nothing is kept verbatim so files generated by
// an earlier build step still work.
func (b *Builder) collectSources(srcRoot string, prog project.Program) ([]string, error) {
	fsys := os.DirFS(srcRoot)

	var files []string
	for _, pat := range prog.Sources {
		matches, err := doublestar.Glob(fsys, filepath.ToSlash(pat), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad source pattern %q: %w", pat, err)
		}
		if len(matches) == 0 {
			files = append(files, filepath.Join(srcRoot, pat))
			continue
		}
		for _, match := range matches {
			files = append(files, filepath.Join(srcRoot, match))
		}
	}
	return files, nil
}

// fetchDependencies materializes every [dependencies] entry under depsDir and
// returns their include directories, in name order.
func (b *Builder) fetchDependencies(depsDir string) ([]string, error) {
	if len(b.manifest.Dependencies) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(depsDir, 0755); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(b.manifest.Dependencies))
	for name := range b.manifest.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	var includes []string
	for _, name := range names {
		source := b.manifest.Dependencies[name]
		if source == "" {
			return nil, fmt.Errorf("dependency %q: %w", name, errIllegalDep)
		}

		if !strings.Contains(source, ":") {
			// local directory, used in place rather than copied
			includes = append(includes, includeDirFor(b.abs(source)))
			continue
		}

		depPath := filepath.Join(depsDir, name)
		if stat, err := os.Stat(depPath); os.IsNotExist(err) || (err == nil && !stat.IsDir()) {
			msg.Info("fetching dependency %s", name)
			if err := fetchDependency(source, depPath); err != nil {
				return nil, fmt.Errorf("failed to fetch dependency %q: %w", name, err)
			}
		}
		includes = append(includes, includeDirFor(depPath))
	}
	return includes, nil
}
