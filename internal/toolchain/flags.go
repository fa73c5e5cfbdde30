package toolchain

// FlagSet is an ordered list of command-line tokens for a compiler or linker
// invocation. Order is significant: later flags can override earlier ones at
// the toolchain level. A FlagSet is never mutated once defined; consumers
// build new ones with Concat.
type FlagSet []string

// Concat returns a new FlagSet holding the elements of every given set, in
// order. The result never aliases its inputs.
func Concat(sets ...FlagSet) FlagSet {
	n := 0
	for _, s := range sets {
		n += len(s)
	}
	out := make(FlagSet, 0, n)
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}
