package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrependDir(t *testing.T) {
	got := PrependDir("concurrent", []string{"queue.cpp", "benchmark.cpp"})
	assert.Equal(t, []string{"concurrent/queue.cpp", "concurrent/benchmark.cpp"}, got)
}

func TestPrependDirEmpty(t *testing.T) {
	assert.Empty(t, PrependDir("dir", nil))
}
