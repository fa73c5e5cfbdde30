package gen

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testUnit() Unit {
	return Unit{
		Name:      "queue",
		OutDir:    filepath.Join("gcc", "release", "NDEBUG"),
		SourceDir: filepath.Join("/proj", "source"),
		Sources: []string{
			filepath.Join("/proj", "source", "queue.cpp"),
			filepath.Join("/proj", "source", "concurrent", "queue.cpp"),
		},
		CCFlags:   []string{"-Wall", "-Werror", "-Ofast"},
		CXXFlags:  []string{"-std=c++1z"},
		LinkFlags: []string{"-Ofast"},
		Defines:   []string{"NDEBUG"},
		Includes:  []string{"/proj/include"},
		Libraries: []string{"boost_thread"},
	}
}

func TestObjectPathMirrorsSourceTree(t *testing.T) {
	u := testUnit()
	assert.Equal(t,
		filepath.Join("gcc", "release", "NDEBUG", "queue.cpp.o"),
		u.objectPath(u.Sources[0]))
	assert.Equal(t,
		filepath.Join("gcc", "release", "NDEBUG", "concurrent", "queue.cpp.o"),
		u.objectPath(u.Sources[1]))
}

func TestObjectPathOutsideSourceRootFallsBackToBasename(t *testing.T) {
	u := testUnit()
	assert.Equal(t,
		filepath.Join("gcc", "release", "NDEBUG", "stray.cpp.o"),
		u.objectPath(filepath.Join("/elsewhere", "stray.cpp")))
}

func TestCompileFlagsOrder(t *testing.T) {
	u := testUnit()
	got := u.compileFlags(u.Sources[0])
	assert.Equal(t, []string{
		"-Wall", "-Werror", "-Ofast",
		"-std=c++1z",
		"-DNDEBUG",
		"-I/proj/include",
	}, got)
}

func TestCompileFlagsSkipDialectForC(t *testing.T) {
	u := testUnit()
	got := u.compileFlags(filepath.Join("/proj", "source", "shim.c"))
	assert.NotContains(t, got, "-std=c++1z")
	assert.Contains(t, got, "-Wall")
}

func TestLinkFlagsLibrariesLast(t *testing.T) {
	u := testUnit()
	assert.Equal(t, []string{"-Ofast", "-lboost_thread"}, u.linkFlags())
}

func TestIsCxx(t *testing.T) {
	assert.True(t, isCxx("a.cpp"))
	assert.True(t, isCxx("a.cc"))
	assert.True(t, isCxx("a.cxx"))
	assert.True(t, isCxx("a.C"))
	assert.False(t, isCxx("a.c"))
	assert.False(t, isCxx("a.s"))
}
