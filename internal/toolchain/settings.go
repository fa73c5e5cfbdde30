package toolchain

// Settings are the merged flag buckets for one resolved compiler, indexed by
// variant. CC carries the compile flags shared by C and C++ sources, CXX the
// language dialect flags, Link the linker flags and CPP the preprocessor
// define flags (reserved, currently always empty).
type Settings struct {
	Compiler Identity

	CC   map[Variant]FlagSet
	CXX  map[Variant]FlagSet
	Link map[Variant]FlagSet
	CPP  map[Variant]FlagSet
}

// NewSettings resolves the compiler identity per Resolve and assembles the
// flag buckets for its family. Concatenation order is load-bearing: later
// flags override earlier ones once they reach the toolchain, so the order
// warnings, debug, optimize must be preserved exactly. Each call builds
// fresh slices; two calls with the same inputs yield equal buckets.
func NewSettings(name, command, fallback string) (*Settings, error) {
	id, err := Resolve(name, command, fallback)
	if err != nil {
		return nil, err
	}

	c := catalogFor(id.Family)
	s := &Settings{
		Compiler: id,
		CC:       make(map[Variant]FlagSet, len(Variants)),
		CXX:      make(map[Variant]FlagSet, len(Variants)),
		Link:     make(map[Variant]FlagSet, len(Variants)),
		CPP:      make(map[Variant]FlagSet, len(Variants)),
	}
	for _, v := range Variants {
		s.CC[v] = Concat(c.warnings, c.debug.compileFor(v), c.optimize.compileFor(v))
		s.CXX[v] = Concat(c.cxxStd)
		s.Link[v] = Concat(c.warnings, c.cxxStd, c.debug.linkFor(v), c.optimize.linkFor(v))
		s.CPP[v] = FlagSet{}
	}
	return s, nil
}
