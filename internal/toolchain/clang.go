package toolchain

// clangOptimizeDebug and clangOptimizeRelease are shared between the compile
// and link buckets; clang wants matching options in both phases.
var (
	clangOptimizeDebug   = FlagSet{"-Og"}
	clangOptimizeRelease = FlagSet{"-Ofast", "-march=native"}
)

var clangCatalog = catalog{
	// -Weverything, then opt out of the warnings that fight the codebase:
	// c++98 compatibility is not a goal, -Wexit-time-destructors triggers on
	// static const values with no destruction-order dependencies, and
	// -Wweak-vtables asks for extra code with no benefit beyond compile time.
	warnings: FlagSet{
		"-Weverything",
		"-Werror",
		"-Wno-c++98-compat",
		"-Wno-c++98-compat-pedantic",
		"-Wno-exit-time-destructors",
		"-Wno-float-equal",
		"-Wno-missing-braces",
		"-Wno-padded",
		"-Wno-range-loop-analysis",
		"-Wno-switch-enum",
		"-Wno-weak-vtables",
	},
	cxxStd: FlagSet{"-std=c++1z"},
	debug: debugFlags{
		compile:        FlagSet{"-g", "-fsanitize=thread", "-fsanitize=undefined"},
		compileRelease: FlagSet{"-g"},
		link:           FlagSet{"-fsanitize=thread", "-fsanitize=undefined"},
		linkRelease:    nil,
	},
	optimize: optimizeFlags{
		compileDebug:   clangOptimizeDebug,
		compileRelease: clangOptimizeRelease,
		linkDebug:      clangOptimizeDebug,
		linkRelease:    clangOptimizeRelease,
	},
}
