package toolchain

// Variant is a named build configuration with its own flag buckets and output
// directory.
type Variant int

const (
	Debug Variant = iota
	Release
)

// Variants lists every build variant, in registration order.
var Variants = [...]Variant{Debug, Release}

func (v Variant) String() string {
	if v == Debug {
		return "debug"
	}
	return "release"
}

// Suffix returns the executable name suffix for this variant, so that both
// variants of a program can sit next to each other in the build tree.
func (v Variant) Suffix() string {
	if v == Debug {
		return "-debug"
	}
	return ""
}
