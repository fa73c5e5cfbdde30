package gen

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// NinjaGen emits a build.ninja for the registered units and shells out to
// ninja to run it. Flags are per-unit edge variables, since every
// (program, variant) pair carries its own buckets.
type NinjaGen struct {
	cxx   string
	units []Unit
}

func (g *NinjaGen) SetCompiler(cxx string) { g.cxx = cxx }

func (g *NinjaGen) AddUnit(u Unit) { g.units = append(g.units, u) }

func (g *NinjaGen) BuildFile() string { return "build.ninja" }

var ninjaPathEscaper = strings.NewReplacer(":", "$:", " ", "$ ")

func quote(s string) string { return ninjaPathEscaper.Replace(filepath.ToSlash(s)) }

func (g *NinjaGen) Generate() string {
	var sb strings.Builder

	writeln(&sb, "ninja_required_version = 1.1")
	writeln(&sb, "cxx = ", g.cxx)
	writeln(&sb)

	write(&sb,
		`rule cxx
  command = $cxx $cflags -c $in -o $out
  description = Compiling $out
`)
	write(&sb,
		`rule link
  command = $cxx -o $out $in $ldflags
  description = Linking $out
`)
	writeln(&sb)

	// compile edges
	for _, unit := range g.units {
		for _, src := range unit.Sources {
			writeln(&sb, "build ", quote(unit.objectPath(src)), ": cxx ", quote(src))
			writeln(&sb, "  cflags = ", strings.Join(unit.compileFlags(src), " "))
		}
	}
	writeln(&sb)

	// link edges
	for _, unit := range g.units {
		write(&sb, "build ", quote(unit.Name), ": link")
		for _, src := range unit.Sources {
			write(&sb, " ", quote(unit.objectPath(src)))
		}
		writeln(&sb)
		writeln(&sb, "  ldflags = ", strings.Join(unit.linkFlags(), " "))
	}

	return sb.String()
}

func (g *NinjaGen) Invoke(buildDir string) error {
	cmd := exec.Command("ninja", "-C", buildDir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
