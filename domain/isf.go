package domain

// Document is the top-level ISF document: the value the isf package
// builds and the serializer emits verbatim.
type Document struct {
	Metadata  Metadata             `json:"metadata"`
	BaseTypes map[string]BaseType  `json:"base_types"`
	UserTypes map[string]UserType  `json:"user_types"`
	Enums     map[string]EnumType  `json:"enums"`
	Symbols   map[string]Symbol    `json:"symbols"`
}

// Metadata is the ISF metadata block. Symbols here names the sources
// the document's types and symbols were generated from (always one
// "btf" and one "system-map" entry) — distinct from the top-level
// Document.Symbols map of resolved kernel symbols.
type Metadata struct {
	Producer Producer    `json:"producer"`
	Format   string      `json:"format"`
	Symbols  []SourceRef `json:"symbols"`
	Linux    LinuxSource `json:"linux"`
}

// Producer identifies the tool that generated the document.
type Producer struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// LinuxSource carries the banner string tying this profile to a
// specific kernel build.
type LinuxSource struct {
	Kernel KernelMetadata `json:"kernel"`
}

// KernelMetadata holds the banner that ties a profile to a memory
// image.
type KernelMetadata struct {
	Banner string `json:"banner"`
}

// SourceRef names one file this document's type or symbol information
// was sourced from, with a content hash to let a consumer detect a
// version mismatch (SPEC_FULL supplement over the minimal spec.md
// shape; kind and name are the keys spec.md mandates).
type SourceRef struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	HashType  string `json:"hash_type,omitempty"`
	HashValue string `json:"hash_value,omitempty"`
}

// BaseTypeKind is the ISF base_type kind enumeration.
type BaseTypeKind string

const (
	BaseKindInt   BaseTypeKind = "int"
	BaseKindChar  BaseTypeKind = "char"
	BaseKindFloat BaseTypeKind = "float"
	BaseKindBool  BaseTypeKind = "bool"
	BaseKindVoid  BaseTypeKind = "void"
)

// BaseType is an ISF element_base_type.
type BaseType struct {
	Size   uint32       `json:"size"`
	Signed bool         `json:"signed"`
	Kind   BaseTypeKind `json:"kind"`
	Endian string       `json:"endian"`
}

// UserTypeKind is the ISF element_user_type kind enumeration.
type UserTypeKind string

const (
	UserKindStruct UserTypeKind = "struct"
	UserKindUnion  UserTypeKind = "union"
	UserKindClass  UserTypeKind = "class"
)

// UserType is an ISF element_user_type (struct/union/class).
type UserType struct {
	Size   uint64               `json:"size"`
	Kind   UserTypeKind         `json:"kind"`
	Fields map[string]FieldInfo `json:"fields"`
}

// BitFieldInfo describes a bitfield member's position within its byte.
type BitFieldInfo struct {
	BitPosition uint8 `json:"bit_position"`
	Length      uint8 `json:"length"`
}

// FieldInfo is one entry of a UserType's fields map.
type FieldInfo struct {
	Type      TypeDescriptor `json:"type"`
	Offset    uint64         `json:"offset"`
	Anonymous bool           `json:"anonymous,omitempty"`
	BitField  *BitFieldInfo  `json:"bit_field,omitempty"`
}

// EnumType is an ISF element_enum.
type EnumType struct {
	Size      uint32           `json:"size"`
	Base      string           `json:"base"`
	Constants map[string]int64 `json:"constants"`
}

// Symbol is an ISF element_symbol.
type Symbol struct {
	Address uint64          `json:"address"`
	Type    *TypeDescriptor `json:"type,omitempty"`
}

// TypeDescriptorKind is the ISF type_descriptor kind enumeration.
type TypeDescriptorKind string

const (
	DescKindBase    TypeDescriptorKind = "base"
	DescKindStruct  TypeDescriptorKind = "struct"
	DescKindUnion   TypeDescriptorKind = "union"
	DescKindEnum    TypeDescriptorKind = "enum"
	DescKindPointer TypeDescriptorKind = "pointer"
	DescKindArray   TypeDescriptorKind = "array"
	DescKindFunction TypeDescriptorKind = "function"
)

// TypeDescriptor is the recursive ISF type_descriptor. Exactly the
// fields relevant to Kind are populated; the rest are zero and omitted
// from the emitted JSON.
type TypeDescriptor struct {
	Kind    TypeDescriptorKind `json:"kind"`
	Name    string              `json:"name,omitempty"`
	Subtype *TypeDescriptor     `json:"subtype,omitempty"`
	Count   uint64              `json:"count,omitempty"`
}

// VoidDescriptor is the canonical "unresolvable" type_descriptor: a base
// type named "void". Used whenever Describe cannot resolve a reference.
func VoidDescriptor() TypeDescriptor {
	return TypeDescriptor{Kind: DescKindBase, Name: "void"}
}
