package domain

// TypeID identifies a BTF type. Id 0 is the implicit void type and has
// no backing record.
type TypeID uint32

// Kind is the BTF_KIND_* discriminant packed into a type record's info
// word.
type Kind uint8

const (
	KindVoid     Kind = 0
	KindInt      Kind = 1
	KindPointer  Kind = 2
	KindArray    Kind = 3
	KindStruct   Kind = 4
	KindUnion    Kind = 5
	KindEnum     Kind = 6
	KindFwd      Kind = 7
	KindTypedef  Kind = 8
	KindVolatile Kind = 9
	KindConst    Kind = 10
	KindRestrict Kind = 11
	KindFunc     Kind = 12
	KindFuncProto Kind = 13
	KindVar      Kind = 14
	KindDatasec  Kind = 15
	KindFloat    Kind = 16
	KindDeclTag  Kind = 17
	KindTypeTag  Kind = 18
	KindEnum64   Kind = 19
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindInt:
		return "int"
	case KindPointer:
		return "ptr"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	case KindEnum:
		return "enum"
	case KindFwd:
		return "fwd"
	case KindTypedef:
		return "typedef"
	case KindVolatile:
		return "volatile"
	case KindConst:
		return "const"
	case KindRestrict:
		return "restrict"
	case KindFunc:
		return "func"
	case KindFuncProto:
		return "func_proto"
	case KindVar:
		return "var"
	case KindDatasec:
		return "datasec"
	case KindFloat:
		return "float"
	case KindDeclTag:
		return "decl_tag"
	case KindTypeTag:
		return "type_tag"
	case KindEnum64:
		return "enum64"
	default:
		return "unknown"
	}
}

// IntEncoding is the encoding byte packed into an INT record's payload
// word: signedness plus the CHAR/BOOL distinction the ISF base_types
// kind field needs.
type IntEncoding uint8

const (
	IntEncodingSigned IntEncoding = 1 << 0
	IntEncodingChar   IntEncoding = 1 << 1
	IntEncodingBool   IntEncoding = 1 << 2
)

// Member is one field of a STRUCT or UNION record.
type Member struct {
	NameOff  uint32
	Type     TypeID
	// Offset is the raw BTF offset field: a plain bit offset when the
	// parent's KindFlag is false, or a packed {bit_offset:24,bit_size:8}
	// word when it is true.
	Offset   uint32
}

// EnumMember is one constant of an ENUM record.
type EnumMember struct {
	NameOff uint32
	Value   int32
}

// Enum64Member is one constant of an ENUM64 record.
type Enum64Member struct {
	NameOff uint32
	ValLo32 uint32
	ValHi32 uint32
}

// Value combines the two 32-bit halves into a signed 64-bit value, the
// way BTF_KIND_ENUM64 values are defined.
func (m Enum64Member) Value() int64 {
	return int64(uint64(m.ValLo32) | uint64(m.ValHi32)<<32)
}

// Param is one parameter of a FUNC_PROTO record.
type Param struct {
	NameOff uint32
	Type    TypeID
}

// ArrayPayload is the payload of an ARRAY record.
type ArrayPayload struct {
	Type      TypeID
	IndexType TypeID
	Nelems    uint32
}

// VarPayload is the payload of a VAR record.
type VarPayload struct {
	Linkage uint32
}

// DatasecVarInfo is one entry of a DATASEC record's payload.
type DatasecVarInfo struct {
	Type   TypeID
	Offset uint32
	Size   uint32
}

// RawType is a single decoded BTF type record, indexed by its 1-based
// type id (RawType for id 0, the implicit void, never appears in the
// slice returned by the loader; callers check for id 0 explicitly).
type RawType struct {
	ID       TypeID
	NameOff  uint32
	Kind     Kind
	KindFlag bool
	Vlen     int

	// SizeOrType is the raw size-or-type word. Its meaning depends on
	// Kind: a byte size for INT/ENUM/ENUM64/STRUCT/UNION/FLOAT/DATASEC,
	// a referenced type id for PTR/TYPEDEF/VOLATILE/CONST/RESTRICT/
	// TYPE_TAG/VAR and the return type of FUNC/FUNC_PROTO.
	SizeOrType uint32

	// At most one of the following is populated, matching Kind; kinds
	// with no trailing payload leave all of them zero.
	IntEncoding IntEncoding
	Members     []Member
	EnumMembers []EnumMember
	Enum64Members []Enum64Member
	Array       ArrayPayload
	Params      []Param
	Var         VarPayload
	DatasecVars []DatasecVarInfo
	DeclTagComponentIdx int32
}

// Size returns the byte size field for kinds where SizeOrType holds a
// size rather than a referenced type id.
func (t *RawType) Size() uint32 {
	return t.SizeOrType
}

// Type returns the referenced type id for kinds where SizeOrType holds
// one.
func (t *RawType) Type() TypeID {
	return TypeID(t.SizeOrType)
}
