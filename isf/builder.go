// Package isf assembles the Volatility 3 Intermediate Symbol File
// document from a decoded BTF type graph and a parsed symbol map.
package isf

import (
	"encoding/binary"
	"fmt"

	"github.com/frobware/btf2json/compute"
	"github.com/frobware/btf2json/domain"
)

// Warning is one non-fatal ConsistencyWarning collected during a
// build, surfaced to the caller for logging rather than failing the
// run.
type Warning struct {
	Message string
}

// Builder assembles a Document from a decoded type graph and a symbol
// map. It is single-use: construct with NewBuilder, call Build once.
type Builder struct {
	graph  *compute.Graph
	types  []domain.RawType
	nameOf func(uint32) (string, error)
	arch   Arch
	endian string
	banner string

	doc      domain.Document
	missing  []domain.TypeID
	warnings []Warning
}

// NewBuilder creates a Builder over a decoded type table. nameOf
// resolves BTF name offsets to strings (typically Decoded.StringAt).
// order is the byte order the BTF blob itself was decoded with; it
// becomes every base_types[*].endian value, so a big-endian blob
// yields a big-endian profile.
func NewBuilder(types []domain.RawType, nameOf func(uint32) (string, error), arch Arch, order binary.ByteOrder, banner string) *Builder {
	return &Builder{
		types:  types,
		nameOf: nameOf,
		arch:   arch,
		endian: endianName(order),
		banner: banner,
		graph:  compute.NewGraph(types, nameOf, arch.PointerSize),
	}
}

// endianName maps a decoder byte order to the ISF endian string.
func endianName(order binary.ByteOrder) string {
	if order == binary.BigEndian {
		return "big"
	}
	return "little"
}

// Warnings returns the ConsistencyWarnings collected by the last
// Build call.
func (b *Builder) Warnings() []Warning {
	return b.warnings
}

// Build runs the ISF assembly pipeline in the fixed order the schema
// requires — base types, enums, user types, then symbols — and
// returns the finished document. btfRaw and mapRaw are hashed into
// metadata and are not otherwise interpreted here.
func (b *Builder) Build(symbols []domain.MapEntry, btfRaw, mapRaw []byte) (domain.Document, error) {
	b.doc = domain.Document{
		BaseTypes: make(map[string]domain.BaseType),
		UserTypes: make(map[string]domain.UserType),
		Enums:     make(map[string]domain.EnumType),
		Symbols:   make(map[string]domain.Symbol),
	}

	b.registerBaseTypes()

	if err := b.buildEnums(); err != nil {
		return domain.Document{}, err
	}
	if err := b.buildUserTypes(); err != nil {
		return domain.Document{}, err
	}
	b.buildSymbols(symbols)

	banner := b.banner
	if banner == "" {
		if addr, ok := b.linuxBannerAddress(symbols); ok {
			b.warnf("linux_banner resolves to address 0x%x but no memory image is available to read its text; banner left empty", addr)
		}
	}
	b.doc.Metadata = BuildMetadata(btfRaw, mapRaw, banner)

	b.reportMissingTypes()

	return b.doc, nil
}

func (b *Builder) warnf(format string, args ...interface{}) {
	b.warnings = append(b.warnings, Warning{Message: fmt.Sprintf(format, args...)})
}

func (b *Builder) recordMissing(ids []domain.TypeID) {
	b.missing = append(b.missing, ids...)
}

// registerBaseTypes walks every INT and FLOAT record and registers
// an ISF base_type, plus the two synthetic base types the schema
// always needs: void and the architecture's pointer width.
func (b *Builder) registerBaseTypes() {
	b.doc.BaseTypes["void"] = domain.BaseType{Size: 0, Signed: false, Kind: domain.BaseKindVoid, Endian: b.endian}
	b.doc.BaseTypes["pointer"] = domain.BaseType{Size: b.arch.PointerSize, Signed: false, Kind: domain.BaseKindInt, Endian: b.endian}

	for _, rt := range b.types {
		switch rt.Kind {
		case domain.KindInt, domain.KindFloat:
			name := b.mustName(rt)
			if name == "" {
				continue
			}
			kind := domain.BaseKindInt
			signed := rt.IntEncoding&domain.IntEncodingSigned != 0
			switch {
			case rt.Kind == domain.KindFloat:
				kind = domain.BaseKindFloat
			case rt.IntEncoding&domain.IntEncodingBool != 0:
				kind = domain.BaseKindBool
			case rt.IntEncoding&domain.IntEncodingChar != 0:
				kind = domain.BaseKindChar
			}
			b.doc.BaseTypes[name] = domain.BaseType{Size: rt.Size(), Signed: signed, Kind: kind, Endian: b.endian}
		}
	}
}

func (b *Builder) mustName(rt domain.RawType) string {
	if rt.NameOff == 0 {
		return compute.AnonymousName(rt.ID)
	}
	name, err := b.nameOf(rt.NameOff)
	if err != nil {
		b.warnf("type id %d: %v", rt.ID, err)
		return ""
	}
	return name
}

// longLongRegistered reports whether an 8-byte "long long" base type
// already exists, for the enum base-name heuristic.
func (b *Builder) longLongRegistered() bool {
	_, ok := b.doc.BaseTypes["long long"]
	return ok
}

func (b *Builder) buildEnums() error {
	for _, rt := range b.types {
		switch rt.Kind {
		case domain.KindEnum:
			name := b.mustName(rt)
			constants := make(map[string]int64, len(rt.EnumMembers))
			for _, m := range rt.EnumMembers {
				mName, err := b.nameOf(m.NameOff)
				if err != nil {
					return fmt.Errorf("isf: enum %s: %w", name, err)
				}
				constants[mName] = int64(m.Value)
			}
			b.doc.Enums[name] = domain.EnumType{Size: rt.Size(), Base: "int", Constants: constants}

		case domain.KindEnum64:
			name := b.mustName(rt)
			constants := make(map[string]int64, len(rt.Enum64Members))
			for _, m := range rt.Enum64Members {
				mName, err := b.nameOf(m.NameOff)
				if err != nil {
					return fmt.Errorf("isf: enum %s: %w", name, err)
				}
				constants[mName] = m.Value()
			}
			base := "long"
			if rt.Size() == 8 && b.arch.PointerSize == 4 && b.longLongRegistered() {
				base = "long long"
			}
			b.doc.Enums[name] = domain.EnumType{Size: rt.Size(), Base: base, Constants: constants}
		}
	}
	return nil
}

func (b *Builder) buildUserTypes() error {
	for _, rt := range b.types {
		var kind domain.UserTypeKind
		switch rt.Kind {
		case domain.KindStruct:
			kind = domain.UserKindStruct
		case domain.KindUnion:
			kind = domain.UserKindUnion
		default:
			continue
		}

		name := b.mustName(rt)
		fields, err := b.buildFields(name, rt)
		if err != nil {
			return err
		}
		b.doc.UserTypes[name] = domain.UserType{Size: uint64(rt.Size()), Kind: kind, Fields: fields}
	}
	return nil
}

func (b *Builder) buildFields(parentName string, rt domain.RawType) (map[string]domain.FieldInfo, error) {
	fields := make(map[string]domain.FieldInfo, len(rt.Members))

	for i, m := range rt.Members {
		fieldName := ""
		if m.NameOff != 0 {
			n, err := b.nameOf(m.NameOff)
			if err != nil {
				return nil, fmt.Errorf("isf: %s: member %d: %w", parentName, i, err)
			}
			fieldName = n
		}

		memberIsAnonStructOrUnion := b.refersToAnonymousAggregate(m.Type)
		anonymous := false

		if fieldName == "" {
			if !memberIsAnonStructOrUnion {
				b.warnf("%s: member %d has no name and is not an anonymous embedded struct/union; synthesizing a name", parentName, i)
			}
			fieldName = fmt.Sprintf("unnamed_field_%d", i)
			anonymous = memberIsAnonStructOrUnion
		}

		var byteOffset uint64
		var bitField *domain.BitFieldInfo
		if rt.KindFlag {
			bitOffset := m.Offset & 0xffffff
			bitSize := uint8(m.Offset >> 24)
			byteOffset = uint64(bitOffset / 8)
			if bitSize > 0 {
				bitField = &domain.BitFieldInfo{BitPosition: uint8(bitOffset % 8), Length: bitSize}
			}
		} else {
			byteOffset = uint64(m.Offset / 8)
		}

		res := b.graph.Describe(m.Type)
		b.recordMissing(res.Missing)

		fields[fieldName] = domain.FieldInfo{
			Type:      res.Descriptor,
			Offset:    byteOffset,
			Anonymous: anonymous,
			BitField:  bitField,
		}
	}

	return fields, nil
}

// refersToAnonymousAggregate reports whether id, peeled of qualifiers,
// names an anonymous STRUCT or UNION.
func (b *Builder) refersToAnonymousAggregate(id domain.TypeID) bool {
	peeled, err := b.graph.Peel(id)
	if err != nil || peeled == 0 || int(peeled) > len(b.types) {
		return false
	}
	rt := b.types[peeled-1]
	return (rt.Kind == domain.KindStruct || rt.Kind == domain.KindUnion) && rt.NameOff == 0
}

func (b *Builder) buildSymbols(symbols []domain.MapEntry) {
	btfByName := make(map[string]domain.RawType)
	for _, rt := range b.types {
		if rt.Kind != domain.KindVar && rt.Kind != domain.KindFunc {
			continue
		}
		if rt.NameOff == 0 {
			continue
		}
		name, err := b.nameOf(rt.NameOff)
		if err != nil {
			continue
		}
		if _, exists := btfByName[name]; !exists {
			btfByName[name] = rt
		}
	}

	for _, sym := range symbols {
		entry := domain.Symbol{Address: sym.Address}

		if rt, ok := btfByName[sym.Name]; ok {
			switch rt.Kind {
			case domain.KindVar:
				res := b.graph.Describe(rt.Type())
				b.recordMissing(res.Missing)
				d := res.Descriptor
				entry.Type = &d
			case domain.KindFunc:
				d := domain.TypeDescriptor{Kind: domain.DescKindFunction}
				entry.Type = &d
			}
		}

		b.doc.Symbols[sym.Name] = entry
	}
}

func (b *Builder) linuxBannerAddress(symbols []domain.MapEntry) (uint64, bool) {
	for _, sym := range symbols {
		if sym.Name == "linux_banner" {
			return sym.Address, true
		}
	}
	return 0, false
}

func (b *Builder) reportMissingTypes() {
	unique := compute.DedupeSorted(b.missing)
	if len(unique) == 0 {
		return
	}
	b.warnf("%d symbols reference missing types, %d unique types are missing", len(b.missing), len(unique))
}
