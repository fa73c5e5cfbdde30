package project

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv() ConfigEnv {
	return ConfigEnv{
		TargetOS:   "linux",
		TargetArch: "amd64",
		Environ:    map[string]string{"HOME": "/home/someone"},
	}
}

func TestParseManifest(t *testing.T) {
	doc := `
[project]
name = "threading"
source-directory = "source"
include-directories = ["include"]

[dependencies]
fmt = "gh:fmtlib/fmt"

[[program]]
name = "queue"
sources = ["movable_condition_variable.cpp", "movable_mutex.cpp", "queue.cpp"]
defines = ["BOOST_CHRONO_HEADER_ONLY", "BOOST_SYSTEM_NO_DEPRECATED"]
libraries = ["boost_program_options", "boost_thread"]

[[program]]
name = "benchmark"
sources = ["benchmark.cpp"]
`
	m, err := ParseManifest(strings.NewReader(doc), testEnv())
	require.NoError(t, err)

	assert.Equal(t, "threading", m.Project.Name)
	assert.Equal(t, "source", m.Project.SourceDir)
	assert.Equal(t, []string{"include"}, m.Project.IncludeDirs)
	assert.Equal(t, map[string]string{"fmt": "gh:fmtlib/fmt"}, m.Dependencies)

	require.Len(t, m.Programs, 2)
	queue := m.Programs[0]
	assert.Equal(t, "queue", queue.Name)
	assert.Equal(t, []string{"movable_condition_variable.cpp", "movable_mutex.cpp", "queue.cpp"}, queue.Sources)
	assert.Equal(t, []string{"BOOST_CHRONO_HEADER_ONLY", "BOOST_SYSTEM_NO_DEPRECATED"}, queue.Defines)
	assert.Equal(t, []string{"boost_program_options", "boost_thread"}, queue.Libraries)
}

// A program that omits defines, libraries and include-directories gets empty
// sequences, not nil and not an error.
func TestParseManifestProgramDefaults(t *testing.T) {
	doc := `
[[program]]
name = "tiny"
sources = ["tiny.cpp"]
`
	m, err := ParseManifest(strings.NewReader(doc), testEnv())
	require.NoError(t, err)

	assert.Equal(t, "source", m.Project.SourceDir, "source directory defaults")
	require.Len(t, m.Programs, 1)
	p := m.Programs[0]
	assert.NotNil(t, p.Defines)
	assert.Empty(t, p.Defines)
	assert.NotNil(t, p.Libraries)
	assert.Empty(t, p.Libraries)
	assert.NotNil(t, p.IncludeDirs)
	assert.Empty(t, p.IncludeDirs)
}

func TestParseManifestRejectsAnonymousProgram(t *testing.T) {
	doc := `
[[program]]
sources = ["a.cpp"]
`
	_, err := ParseManifest(strings.NewReader(doc), testEnv())
	require.Error(t, err)
}

func TestParseManifestRejectsProgramWithoutSources(t *testing.T) {
	doc := `
[[program]]
name = "empty"
`
	_, err := ParseManifest(strings.NewReader(doc), testEnv())
	require.Error(t, err)
}

func TestParseManifestConditionalSection(t *testing.T) {
	doc := `
[project]
name = "cond"

[project."target_os == 'linux'"]
include-directories = ["/usr/include/extra"]

[project."target_os == 'windows'"]
include-directories = ["C:/extra"]

[[program]]
name = "p"
sources = ["p.cpp"]
`
	m, err := ParseManifest(strings.NewReader(doc), testEnv())
	require.NoError(t, err)

	assert.Equal(t, []string{"/usr/include/extra"}, m.Project.IncludeDirs)
}

func TestParseManifestExpressionInterpolation(t *testing.T) {
	doc := `
[project]
name = "on-{{ target_os }}"

[[program]]
name = "p"
sources = ["p.cpp"]
`
	m, err := ParseManifest(strings.NewReader(doc), testEnv())
	require.NoError(t, err)

	assert.Equal(t, "on-linux", m.Project.Name)
}

func TestParseManifestBadExpression(t *testing.T) {
	doc := `
[project]
name = "{{ nonsense( }}"
`
	_, err := ParseManifest(strings.NewReader(doc), testEnv())
	require.Error(t, err)
}
