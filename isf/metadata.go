package isf

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/frobware/btf2json/domain"
)

// ProducerName and ProducerVersion identify this tool in the emitted
// metadata.producer block.
const (
	ProducerName    = "btf2json"
	ProducerVersion = "1.0.0"

	// Format is the ISF format version this document targets.
	Format = "6.2.0"
)

// SourceDescriptor hashes raw and returns the metadata.symbols entry
// for it: a fixed kind/name pair per spec, plus the SHA-256 over
// its bytes so a consumer can detect that a profile and a memory image
// were built from different kernels.
func SourceDescriptor(kind, name string, raw []byte) domain.SourceRef {
	sum := sha256.Sum256(raw)
	return domain.SourceRef{
		Kind:      kind,
		Name:      name,
		HashType:  "sha256",
		HashValue: hex.EncodeToString(sum[:]),
	}
}

// BuildMetadata assembles the metadata block. banner is the resolved
// linux_banner text, or empty if none could be determined.
func BuildMetadata(btfRaw, mapRaw []byte, banner string) domain.Metadata {
	return domain.Metadata{
		Producer: domain.Producer{Name: ProducerName, Version: ProducerVersion},
		Format:   Format,
		Symbols: []domain.SourceRef{
			SourceDescriptor("btf", "btf", btfRaw),
			SourceDescriptor("system-map", "map", mapRaw),
		},
		Linux: domain.LinuxSource{Kernel: domain.KernelMetadata{Banner: banner}},
	}
}
