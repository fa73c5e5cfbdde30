package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sconce-build/sconce/internal/project"
	"github.com/sconce-build/sconce/internal/toolchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantDir(t *testing.T) {
	tests := []struct {
		name    string
		family  toolchain.Family
		variant toolchain.Variant
		defines []string
		want    string
	}{
		{
			name:    "defines joined by dash",
			family:  toolchain.Gcc,
			variant: toolchain.Release,
			defines: []string{"BOOST_CHRONO_HEADER_ONLY", "NDEBUG"},
			want:    filepath.Join("gcc", "release", "BOOST_CHRONO_HEADER_ONLY-NDEBUG"),
		},
		{
			name:    "no defines",
			family:  toolchain.Clang,
			variant: toolchain.Debug,
			want:    filepath.Join("clang", "debug"),
		},
		{
			name:    "single define",
			family:  toolchain.Gcc,
			variant: toolchain.Debug,
			defines: []string{"NDEBUG"},
			want:    filepath.Join("gcc", "debug", "NDEBUG"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, variantDir(tt.family, tt.variant, tt.defines))
		})
	}
}

// Programs with distinct defines must not share an intermediate tree.
func TestVariantDirDistinguishesDefines(t *testing.T) {
	plain := variantDir(toolchain.Gcc, toolchain.Release, nil)
	defined := variantDir(toolchain.Gcc, toolchain.Release, []string{"NDEBUG"})
	assert.NotEqual(t, plain, defined)
}

func TestEnvironmentCloneIsolation(t *testing.T) {
	settings, err := toolchain.NewSettings("gcc", "", "")
	require.NoError(t, err)

	base := newBaseEnvironment(settings, toolchain.Debug, []string{"include"})

	first := base.Clone()
	first.Defines = append(first.Defines, "FIRST_ONLY")
	first.Libraries = append(first.Libraries, "boost_thread")
	first.IncludeDirs = append(first.IncludeDirs, "first/include")
	first.Vars["EXTRA"] = "1"

	second := base.Clone()
	assert.Empty(t, second.Defines, "defines must not accumulate across programs")
	assert.Empty(t, second.Libraries)
	assert.Equal(t, []string{"include"}, second.IncludeDirs)
	assert.NotContains(t, second.Vars, "EXTRA")
}

func TestNewBaseEnvironmentPassesTERMThrough(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")

	settings, err := toolchain.NewSettings("clang", "", "")
	require.NoError(t, err)

	env := newBaseEnvironment(settings, toolchain.Release, nil)
	assert.Equal(t, "xterm-256color", env.Vars["TERM"])
}

func TestCollectSources(t *testing.T) {
	srcRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(srcRoot, "concurrent"), 0o755))
	for _, f := range []string{"queue.cpp", "locked_access.cpp", filepath.Join("concurrent", "queue.cpp")} {
		require.NoError(t, os.WriteFile(filepath.Join(srcRoot, f), []byte("int x;\n"), 0o644))
	}

	b := &Builder{}

	t.Run("plain filenames", func(t *testing.T) {
		got, err := b.collectSources(srcRoot, project.Program{
			Name:    "p",
			Sources: []string{"queue.cpp", "locked_access.cpp"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(srcRoot, "queue.cpp"),
			filepath.Join(srcRoot, "locked_access.cpp"),
		}, got)
	})

	t.Run("glob pattern", func(t *testing.T) {
		got, err := b.collectSources(srcRoot, project.Program{
			Name:    "p",
			Sources: []string{"concurrent/*.cpp"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(srcRoot, "concurrent", "queue.cpp")}, got)
	})

	t.Run("missing plain filename kept verbatim", func(t *testing.T) {
		got, err := b.collectSources(srcRoot, project.Program{
			Name:    "p",
			Sources: []string{"generated.cpp"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(srcRoot, "generated.cpp")}, got)
	})
}

func TestParseGitURL(t *testing.T) {
	tests := []struct {
		in   string
		want gitURL
	}{
		{"https://github.com/someone/somelib", gitURL{cleanURL: "https://github.com/someone/somelib.git"}},
		{"https://github.com/someone/somelib@main", gitURL{cleanURL: "https://github.com/someone/somelib.git", branch: "main"}},
		{"https://github.com/someone/somelib#v1.2.0", gitURL{cleanURL: "https://github.com/someone/somelib.git", commitOrTag: "v1.2.0"}},
		{"https://github.com/someone/somelib@dev#12345abc", gitURL{cleanURL: "https://github.com/someone/somelib.git", branch: "dev", commitOrTag: "12345abc"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseGitURL(tt.in), "url %s", tt.in)
	}
}

func TestFetchDependencyRejectsUnknownScheme(t *testing.T) {
	err := fetchDependency("ftp://old/school", t.TempDir())
	assert.ErrorIs(t, err, errIllegalDep)
}
