package toolchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		compiler string
		command  string
		fallback string
		want     Identity
		wantErr  error
	}{
		{
			name:    "family inferred from command basename",
			command: "g++",
			want:    Identity{Family: Gcc, Command: "g++"},
		},
		{
			name:     "name only keeps name as command",
			compiler: "clang++",
			want:     Identity{Family: Clang, Command: "clang++"},
		},
		{
			name:    "command path keeps full path",
			command: "/opt/cross/bin/gcc",
			want:    Identity{Family: Gcc, Command: "/opt/cross/bin/gcc"},
		},
		{
			name:     "explicit name wins over command basename",
			compiler: "clang",
			command:  "/usr/local/bin/g++",
			want:     Identity{Family: Clang, Command: "/usr/local/bin/g++"},
		},
		{
			name:     "fallback used when nothing explicit",
			fallback: "/usr/bin/clang++",
			want:     Identity{Family: Clang, Command: "/usr/bin/clang++"},
		},
		{
			name:     "fallback path stays invocable off PATH",
			fallback: "/custom/clang++",
			want:     Identity{Family: Clang, Command: "/custom/clang++"},
		},
		{
			name:     "explicit command wins over fallback",
			command:  "g++",
			fallback: "/usr/bin/clang++",
			want:     Identity{Family: Gcc, Command: "g++"},
		},
		{
			name:    "version suffix stripped",
			command: "gcc-13",
			want:    Identity{Family: Gcc, Command: "gcc-13"},
		},
		{
			name:     "mixed case normalized for family only",
			compiler: "Clang",
			want:     Identity{Family: Clang, Command: "Clang"},
		},
		{
			name:     "unknown compiler rejected",
			compiler: "msvc",
			wantErr:  ErrUnrecognizedCompiler,
		},
		{
			name:     "garbage rejected",
			compiler: "123",
			wantErr:  ErrUnrecognizedCompiler,
		},
		{
			name:    "nothing at all",
			wantErr: ErrNoCompiler,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.compiler, tt.command, tt.fallback)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	first, err := Resolve("", "g++", "")
	require.NoError(t, err)
	second, err := Resolve("", "g++", "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDefaultCompilerHonorsCXX(t *testing.T) {
	t.Setenv("CXX", "/custom/clang++")
	t.Setenv("CC", "/custom/gcc")
	assert.Equal(t, "/custom/clang++", DefaultCompiler())
}

func TestDefaultCompilerFallsBackToCC(t *testing.T) {
	t.Setenv("CXX", "")
	t.Setenv("CC", "/custom/gcc")
	assert.Equal(t, "/custom/gcc", DefaultCompiler())
}
