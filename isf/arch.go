package isf

import "fmt"

// Arch describes the pointer width the synthetic "pointer" base type
// is registered with and PTR types are sized by. It carries no
// endianness: every base type, "pointer" and "void" included, takes
// the byte order the BTF blob's magic selects.
type Arch struct {
	Name       string
	PointerSize uint32
}

var knownArches = map[string]Arch{
	"x86_64": {Name: "x86_64", PointerSize: 8},
	"arm64":  {Name: "arm64", PointerSize: 8},
	"i386":   {Name: "i386", PointerSize: 4},
}

// DefaultArch is used when --arch is omitted.
const DefaultArch = "x86_64"

// ResolveArch looks up name, falling back to DefaultArch when name is
// empty.
func ResolveArch(name string) (Arch, error) {
	if name == "" {
		name = DefaultArch
	}
	a, ok := knownArches[name]
	if !ok {
		return Arch{}, fmt.Errorf("isf: unknown architecture %q (want one of x86_64, arm64, i386)", name)
	}
	return a, nil
}
