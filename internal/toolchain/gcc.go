package toolchain

// gccReleaseOptimize is shared between the compile and link buckets so that
// LTO sees identical options in both phases.
var gccReleaseOptimize = FlagSet{
	"-Ofast",
	"-march=native",
	"-fipa-pta",
	"-fnothrow-opt",
	"-funsafe-loop-optimizations",
	"-flto=4",
}

var gccCatalog = catalog{
	// Close to -Wall -Wextra plus everything that has a decent signal/noise
	// ratio. Deliberately absent: -Weffc++ (too cluttered to be useful),
	// -Wfloat-equal (warns on safe sentinel comparisons), -Wpadded (only
	// worth turning on for occasional layout audits), -Wswitch-enum
	// (all-or-nothing is overkill), -Wsuggest-final-* (linker warnings that
	// cannot be silenced for third-party headers).
	warnings: FlagSet{
		"-Wall",
		"-Wextra",
		"-Wpedantic",
		"-Wcast-align",
		"-Wcast-qual",
		"-Wconversion",
		"-Wctor-dtor-privacy",
		"-Wdisabled-optimization",
		"-Wdouble-promotion",
		"-Wformat=2",
		"-Winit-self",
		"-Winvalid-pch",
		"-Wmissing-declarations",
		"-Wmissing-include-dirs",
		"-Wnoexcept",
		"-Wodr",
		"-Wold-style-cast",
		"-Woverloaded-virtual",
		"-Wredundant-decls",
		"-Wshadow",
		"-Wsign-conversion",
		"-Wstrict-null-sentinel",
		"-Wswitch-default",
		"-Wtrampolines",
		"-Wundef",
		"-Wvector-operation-performance",
		"-Werror",
	},
	cxxStd: FlagSet{"-std=c++1z"},
	debug: debugFlags{
		compile:        FlagSet{"-g", "-fsanitize=thread", "-fsanitize=undefined"},
		compileRelease: FlagSet{"-g"},
		link:           FlagSet{"-fsanitize=thread", "-fsanitize=undefined"},
		linkRelease:    nil,
	},
	optimize: optimizeFlags{
		compileDebug:   FlagSet{"-Og", "-march=native"},
		compileRelease: gccReleaseOptimize,
		linkDebug:      nil,
		linkRelease:    gccReleaseOptimize,
	},
}
