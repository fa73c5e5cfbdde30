package gen

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/sconce-build/sconce/internal/msg"
	"golang.org/x/sync/errgroup"
)

// unitState is the recorded state of one unit, used to decide what needs
// recompiling or relinking on the next run.
type unitState struct {
	Sources map[string]string `json:"sources,omitempty"` // source file -> hash
	Compile []string          `json:"compile,omitempty"` // compile flags, defines and includes included
	Link    []string          `json:"link,omitempty"`    // linker flags, libraries included
}

// compileJob is a single compiler invocation.
type compileJob struct {
	src   string
	obj   string
	flags []string
	env   []string
}

// linkJob is a single linker invocation.
type linkJob struct {
	name  string
	objs  []string
	out   string
	flags []string
	env   []string
}

// Native executes the registered units itself: it plans the dirty compile
// and link jobs against the saved state and runs them in parallel.
type Native struct {
	cxx        string
	units      []Unit
	jobs       int
	verbose    bool
	buildDir   string
	stateFile  string
	buildState map[string]*unitState
	hashCache  map[string]string
}

func NewNative(jobs int, verbose bool) *Native {
	return &Native{
		jobs:       max(jobs, 1),
		verbose:    verbose,
		buildState: make(map[string]*unitState),
		hashCache:  make(map[string]string),
	}
}

func (g *Native) SetCompiler(cxx string) { g.cxx = cxx }

func (g *Native) AddUnit(u Unit) { g.units = append(g.units, u) }

func (g *Native) Generate() string { return "" } // no build file needed

func (g *Native) BuildFile() string { return "sconce_build_state.json" }

// Invoke performs the actual build.
func (g *Native) Invoke(buildDir string) error {
	g.buildDir = buildDir
	g.stateFile = filepath.Join(buildDir, g.BuildFile())

	if err := g.loadBuildState(); err != nil {
		msg.Warn("failed to load build state: %v", err)
	}

	compileJobs, linkJobs, err := g.planBuild()
	if err != nil {
		return fmt.Errorf("build planning failed: %w", err)
	}

	if len(compileJobs) == 0 && len(linkJobs) == 0 {
		fmt.Println("sconce: no work to do.")
		return nil
	}

	if err := g.executeBuild(compileJobs, linkJobs); err != nil {
		return err
	}

	if err := g.saveBuildState(); err != nil {
		msg.Warn("failed to save build state: %v", err)
	}

	return nil
}

// planBuild determines which compile and link jobs are necessary. Units are
// independent programs, so there is no cross-unit ordering to respect.
//
// Units with identical defines share an object tree. A source shared between
// such units is compiled once, and only if every unit wants the same flags
// for it; conflicting flags for one object path are a configuration error,
// not a race.
func (g *Native) planBuild() (allCompileJobs []compileJob, allLinkJobs []linkJob, err error) {
	objFlags := make(map[string][]string)
	scheduled := make(map[string]bool)

	for _, unit := range g.units {
		oldState := g.buildState[unit.Name]
		env := environFor(unit.Vars)
		compileFlags := unit.stateCompileFlags()
		linkFlags := unit.linkFlags()
		needsRelink := false

		// reason 1 for relink: output binary is missing
		outputPath := filepath.Join(g.buildDir, unit.Name)
		if _, err := os.Stat(outputPath); os.IsNotExist(err) {
			needsRelink = true
		}

		// changed compile flags invalidate every object of the unit; changed
		// link flags only the binary
		compileFlagsChanged := oldState != nil && !slices.Equal(oldState.Compile, compileFlags)
		if compileFlagsChanged || (oldState != nil && !slices.Equal(oldState.Link, linkFlags)) {
			needsRelink = true
		}

		// determine which objects of this unit need compiling
		recompiled := false
		for _, src := range unit.Sources {
			objPath := filepath.Join(g.buildDir, unit.objectPath(src))
			flags := unit.compileFlags(src)

			if prev, ok := objFlags[objPath]; ok {
				if !slices.Equal(prev, flags) {
					return nil, nil, fmt.Errorf("conflicting compile flags for %s: programs sharing an object tree must agree on include directories", g.display(objPath))
				}
				// an earlier unit owns this object; if it is being rebuilt,
				// this unit still has to relink
				if scheduled[objPath] {
					recompiled = true
				}
				continue
			}
			objFlags[objPath] = flags

			dirty := compileFlagsChanged
			if !dirty {
				dirty, err = g.isSourceDirty(src, objPath, oldState)
				if err != nil {
					return nil, nil, fmt.Errorf("could not check status of %s: %w", src, err)
				}
			}
			if dirty {
				scheduled[objPath] = true
				recompiled = true
				allCompileJobs = append(allCompileJobs, compileJob{
					src:   src,
					obj:   objPath,
					flags: flags,
					env:   env,
				})
			}
		}

		// reason 3 for relink: one or more objects were recompiled
		if recompiled {
			needsRelink = true
		}

		if needsRelink {
			objs := make([]string, len(unit.Sources))
			for i, src := range unit.Sources {
				objs[i] = filepath.Join(g.buildDir, unit.objectPath(src))
			}
			allLinkJobs = append(allLinkJobs, linkJob{
				name:  unit.Name,
				objs:  objs,
				out:   outputPath,
				flags: linkFlags,
				env:   env,
			})
		}
	}

	return allCompileJobs, allLinkJobs, nil
}

// executeBuild runs the planned jobs: all compilations in parallel first,
// then all links, then the state update.
func (g *Native) executeBuild(compileJobs []compileJob, linkJobs []linkJob) error {
	progress := msg.NewProgress(len(compileJobs) + len(linkJobs))

	if err := runJobs(compileJobs, g.jobs, func(job compileJob) error {
		return g.runCompileJob(job, progress)
	}); err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}
	if err := runJobs(linkJobs, g.jobs, func(job linkJob) error {
		return g.runLinkJob(job, progress)
	}); err != nil {
		return fmt.Errorf("linking failed: %w", err)
	}

	linked := make(map[string]bool, len(linkJobs))
	for _, job := range linkJobs {
		linked[job.name] = true
	}
	for _, unit := range g.units {
		if !linked[unit.Name] {
			continue
		}
		if err := g.updateBuildState(unit); err != nil {
			msg.Warn("failed to update build state for %s: %v", unit.Name, err)
		}
	}

	return nil
}

// isSourceDirty checks if a single source file needs to be recompiled.
func (g *Native) isSourceDirty(src, objPath string, state *unitState) (bool, error) {
	if _, err := os.Stat(objPath); os.IsNotExist(err) {
		return true, nil
	}

	if state == nil {
		return true, nil
	}

	hash, err := g.fileHash(src)
	if err != nil {
		if os.IsNotExist(err) {
			return true, fmt.Errorf("source file %s not found", src)
		}
		return true, err
	}
	if prevHash, exists := state.Sources[src]; !exists || prevHash != hash {
		return true, nil
	}

	return false, nil
}

func (g *Native) runCompileJob(job compileJob, progress *msg.Progress) error {
	if err := os.MkdirAll(filepath.Dir(job.obj), 0755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	args := make([]string, 0, len(job.flags)+4)
	args = append(args, job.flags...)
	args = append(args, "-c", job.src, "-o", job.obj)

	cmd := exec.Command(g.cxx, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = &msg.IndentWriter{Indent: "  ", W: os.Stderr}
	cmd.Env = job.env

	if g.verbose {
		fmt.Printf("%s %s %s\n", progress.Step(), g.cxx, strings.Join(args, " "))
	} else {
		fmt.Printf("%s Compiling %s\n", progress.Step(), g.display(job.obj))
	}
	return cmd.Run()
}

func (g *Native) runLinkJob(job linkJob, progress *msg.Progress) error {
	args := make([]string, 0, len(job.objs)+len(job.flags)+2)
	args = append(args, "-o", job.out)
	args = append(args, job.objs...)
	args = append(args, job.flags...)

	cmd := exec.Command(g.cxx, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = &msg.IndentWriter{Indent: "  ", W: os.Stderr}
	cmd.Env = job.env

	if g.verbose {
		fmt.Printf("%s %s %s\n", progress.Step(), g.cxx, strings.Join(args, " "))
	} else {
		fmt.Printf("%s Linking %s\n", progress.Step(), g.display(job.out))
	}
	return cmd.Run()
}

// display shortens an output path to something readable, relative to the
// build dir.
func (g *Native) display(path string) string {
	rel, err := filepath.Rel(g.buildDir, path)
	if err != nil {
		return path
	}
	return rel
}

// updateBuildState records hashes and flags for a unit after a successful
// link.
func (g *Native) updateBuildState(unit Unit) error {
	state := &unitState{
		Sources: make(map[string]string, len(unit.Sources)),
		Compile: unit.stateCompileFlags(),
		Link:    unit.linkFlags(),
	}

	for _, src := range unit.Sources {
		hash, err := g.fileHash(src)
		if err != nil {
			return fmt.Errorf("failed to hash source file %s: %w", src, err)
		}
		state.Sources[src] = hash
	}

	g.buildState[unit.Name] = state
	return nil
}

// loadBuildState loads the previous build state from disk.
func (g *Native) loadBuildState() error {
	f, err := os.Open(g.stateFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // no previous state, that's fine
		}
		return err
	}
	defer f.Close()
	return json.NewDecoder(bufio.NewReader(f)).Decode(&g.buildState)
}

// saveBuildState saves the current build state to disk.
func (g *Native) saveBuildState() error {
	data, err := json.MarshalIndent(g.buildState, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(g.stateFile, data, 0644)
}

// fileHash computes the SHA256 hash of a file with an in-memory cache. Only
// called from the single-threaded planning and state-update phases.
func (g *Native) fileHash(path string) (string, error) {
	if hash, ok := g.hashCache[path]; ok {
		return hash, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	hexHash := hex.EncodeToString(hash.Sum(nil))
	g.hashCache[path] = hexHash
	return hexHash, nil
}

// environFor expands Vars overrides over the inherited process environment.
func environFor(vars map[string]string) []string {
	env := os.Environ()
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+vars[k])
	}
	return env
}

// runJobs runs jobs in parallel with a concurrency limit.
func runJobs[T any](jobs []T, limit int, jobfunc func(job T) error) error {
	if len(jobs) == 0 {
		return nil
	}

	eg, _ := errgroup.WithContext(context.Background())
	eg.SetLimit(limit)

	for _, job := range jobs {
		eg.Go(func() error {
			return jobfunc(job)
		})
	}

	return eg.Wait()
}
