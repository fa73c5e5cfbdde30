package toolchain

// catalog holds the full set of flag groups for one compiler family. The
// flag strings are opaque tokens, meaningful only to the downstream compiler;
// nothing here validates or deduplicates them.
type catalog struct {
	warnings FlagSet // shared by both variants, includes -Werror
	cxxStd   FlagSet // language dialect, identical for both variants
	debug    debugFlags
	optimize optimizeFlags
}

// debugFlags hold debug-symbol generation and sanitizer instrumentation.
type debugFlags struct {
	compile        FlagSet
	compileRelease FlagSet
	link           FlagSet
	linkRelease    FlagSet
}

func (d debugFlags) compileFor(v Variant) FlagSet {
	if v == Release {
		return d.compileRelease
	}
	return d.compile
}

func (d debugFlags) linkFor(v Variant) FlagSet {
	if v == Release {
		return d.linkRelease
	}
	return d.link
}

// optimizeFlags hold optimization-level and architecture tuning. The debug
// variant favors debuggability, release favors aggressive optimization.
type optimizeFlags struct {
	compileDebug   FlagSet
	compileRelease FlagSet
	linkDebug      FlagSet
	linkRelease    FlagSet
}

func (o optimizeFlags) compileFor(v Variant) FlagSet {
	if v == Release {
		return o.compileRelease
	}
	return o.compileDebug
}

func (o optimizeFlags) linkFor(v Variant) FlagSet {
	if v == Release {
		return o.linkRelease
	}
	return o.linkDebug
}

// catalogFor dispatches over the closed family enum. Resolve only ever
// produces the two known families, so the default branch is a defect in this
// package, not bad user input.
func catalogFor(f Family) catalog {
	switch f {
	case Gcc:
		return gccCatalog
	case Clang:
		return clangCatalog
	}
	panic("catalogFor: unknown compiler family " + f.String())
}
