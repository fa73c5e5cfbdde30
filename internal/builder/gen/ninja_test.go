package gen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNinjaGenerate(t *testing.T) {
	g := &NinjaGen{}
	g.SetCompiler("g++")
	g.AddUnit(testUnit())

	out := g.Generate()

	assert.Contains(t, out, "ninja_required_version = 1.1")
	assert.Contains(t, out, "cxx = g++")
	assert.Contains(t, out, "rule cxx")
	assert.Contains(t, out, "rule link")
	assert.Contains(t, out, "description = Compiling $out")
	assert.Contains(t, out, "description = Linking $out")

	// one compile edge per source, flags as per-edge variables
	assert.Contains(t, out, "build gcc/release/NDEBUG/queue.cpp.o: cxx /proj/source/queue.cpp")
	assert.Contains(t, out, "build gcc/release/NDEBUG/concurrent/queue.cpp.o: cxx /proj/source/concurrent/queue.cpp")
	assert.Contains(t, out, "cflags = -Wall -Werror -Ofast -std=c++1z -DNDEBUG -I/proj/include")

	// one link edge naming every object
	linkLine := ""
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "build queue: link") {
			linkLine = line
		}
	}
	require.NotEmpty(t, linkLine, "link edge for queue not found")
	assert.Contains(t, linkLine, "gcc/release/NDEBUG/queue.cpp.o")
	assert.Contains(t, linkLine, "gcc/release/NDEBUG/concurrent/queue.cpp.o")
	assert.Contains(t, out, "ldflags = -Ofast -lboost_thread")
}

func TestNinjaQuotesSpecialCharacters(t *testing.T) {
	assert.Equal(t, "a$ b/c$:d", quote("a b/c:d"))
}

func TestNinjaBuildFile(t *testing.T) {
	g := &NinjaGen{}
	assert.Equal(t, "build.ninja", g.BuildFile())
}
