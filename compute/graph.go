// Package compute holds pure functions over a decoded BTF type graph:
// qualifier peeling, size computation, and lowering a type id to an
// ISF type_descriptor. Nothing here touches a file, a socket, or a
// clock; every function takes data in and returns data out.
package compute

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/frobware/btf2json/domain"
)

// Graph is a read-only view over a decoded BTF type table, indexed by
// 1-based type id (Types[0] is id 1; id 0, the implicit void, has no
// backing record and is handled specially by every walk below).
type Graph struct {
	Types      []domain.RawType
	NameOf     func(nameOff uint32) (string, error)
	PointerSize uint32
}

// NewGraph builds a Graph over types, resolving names through nameOf.
// ptrSize is the architecture's pointer width in bytes (4 or 8), used
// to size PTR and FUNC_PROTO-behind-a-pointer types.
func NewGraph(types []domain.RawType, nameOf func(uint32) (string, error), ptrSize uint32) *Graph {
	return &Graph{Types: types, NameOf: nameOf, PointerSize: ptrSize}
}

// byID returns the record for id, or (_, false) for id 0 or an
// out-of-range id.
func (g *Graph) byID(id domain.TypeID) (domain.RawType, bool) {
	if id == 0 || int(id) > len(g.Types) {
		return domain.RawType{}, false
	}
	return g.Types[id-1], true
}

func isQualifier(k domain.Kind) bool {
	switch k {
	case domain.KindTypedef, domain.KindConst, domain.KindVolatile, domain.KindRestrict, domain.KindTypeTag:
		return true
	default:
		return false
	}
}

// Peel follows TYPEDEF/CONST/VOLATILE/RESTRICT/TYPE_TAG chains to the
// underlying type id. Returns id unchanged if it is not a qualifier.
// Guards against cycles by bounding the walk at len(Types)+1 steps.
// Pure function.
func (g *Graph) Peel(id domain.TypeID) (domain.TypeID, error) {
	for steps := 0; steps <= len(g.Types)+1; steps++ {
		rt, ok := g.byID(id)
		if !ok || !isQualifier(rt.Kind) {
			return id, nil
		}
		id = rt.Type()
	}
	return 0, fmt.Errorf("compute: cycle detected while peeling qualifiers from type id %d", id)
}

// SizeOf returns the byte size of id. Void (id 0) is undefined and
// panics; callers must avoid asking for void's size.
// Pure function.
func (g *Graph) SizeOf(id domain.TypeID) (uint32, error) {
	if id == 0 {
		panic("compute: SizeOf called on void (id 0)")
	}
	rt, ok := g.byID(id)
	if !ok {
		return 0, fmt.Errorf("compute: SizeOf: type id %d out of range", id)
	}

	switch rt.Kind {
	case domain.KindInt, domain.KindFloat, domain.KindEnum, domain.KindEnum64,
		domain.KindStruct, domain.KindUnion:
		return rt.Size(), nil

	case domain.KindPointer:
		return g.PointerSize, nil

	case domain.KindArray:
		if rt.Array.Type == 0 {
			return 0, nil
		}
		elemSize, err := g.SizeOf(rt.Array.Type)
		if err != nil {
			return 0, err
		}
		return rt.Array.Nelems * elemSize, nil

	case domain.KindTypedef, domain.KindConst, domain.KindVolatile, domain.KindRestrict, domain.KindTypeTag:
		peeled, err := g.Peel(id)
		if err != nil {
			return 0, err
		}
		if peeled == 0 {
			return 0, nil
		}
		return g.SizeOf(peeled)

	case domain.KindFwd:
		return 0, nil

	case domain.KindFuncProto:
		return g.PointerSize, nil

	default:
		return 0, fmt.Errorf("compute: SizeOf: type id %d: kind %s has no defined size", id, rt.Kind)
	}
}

// nameFor resolves a record's own name, falling back to the synthetic
// "unnamed_<hex id>" form when the record is anonymous (NameOff 0).
func (g *Graph) nameFor(rt domain.RawType) (string, error) {
	if rt.NameOff != 0 {
		return g.NameOf(rt.NameOff)
	}
	return AnonymousName(rt.ID), nil
}

// AnonymousName is the synthetic name assigned to a nameless
// STRUCT/UNION/ENUM, stable across runs because it is derived only
// from the type id.
// Pure function.
func AnonymousName(id domain.TypeID) string {
	return fmt.Sprintf("unnamed_%x", uint32(id))
}

// DescribeResult is the outcome of lowering one type id: the
// type_descriptor plus any id discovered to be unresolvable while
// producing it (at most one per call: a pointer or array passes up
// the Missing of its single nested subtype).
type DescribeResult struct {
	Descriptor domain.TypeDescriptor
	Missing    []domain.TypeID
}

// Describe lowers a BTF type id to an ISF type_descriptor per the
// mapping in the type-graph design: qualifiers and typedefs are
// peeled transparently, pointers and arrays nest a subtype, and
// struct/union/enum are named references only — describe never
// recurses into a struct's members, which is what makes self- and
// mutually-referential structs safe to lower.
// Pure function.
func (g *Graph) Describe(id domain.TypeID) DescribeResult {
	if id == 0 {
		return DescribeResult{Descriptor: domain.VoidDescriptor()}
	}

	rt, ok := g.byID(id)
	if !ok {
		return DescribeResult{Descriptor: domain.VoidDescriptor(), Missing: []domain.TypeID{id}}
	}

	switch rt.Kind {
	case domain.KindInt, domain.KindFloat:
		name, err := g.nameFor(rt)
		if err != nil || name == "" {
			return DescribeResult{Descriptor: domain.VoidDescriptor(), Missing: []domain.TypeID{id}}
		}
		return DescribeResult{Descriptor: domain.TypeDescriptor{Kind: domain.DescKindBase, Name: name}}

	case domain.KindPointer:
		inner := g.Describe(rt.Type())
		d := inner.Descriptor
		return DescribeResult{
			Descriptor: domain.TypeDescriptor{Kind: domain.DescKindPointer, Subtype: &d},
			Missing:    inner.Missing,
		}

	case domain.KindArray:
		inner := g.Describe(rt.Array.Type)
		d := inner.Descriptor
		return DescribeResult{
			Descriptor: domain.TypeDescriptor{Kind: domain.DescKindArray, Count: uint64(rt.Array.Nelems), Subtype: &d},
			Missing:    inner.Missing,
		}

	case domain.KindStruct:
		name, err := g.nameFor(rt)
		if err != nil {
			return DescribeResult{Descriptor: domain.VoidDescriptor(), Missing: []domain.TypeID{id}}
		}
		return DescribeResult{Descriptor: domain.TypeDescriptor{Kind: domain.DescKindStruct, Name: name}}

	case domain.KindUnion:
		name, err := g.nameFor(rt)
		if err != nil {
			return DescribeResult{Descriptor: domain.VoidDescriptor(), Missing: []domain.TypeID{id}}
		}
		return DescribeResult{Descriptor: domain.TypeDescriptor{Kind: domain.DescKindUnion, Name: name}}

	case domain.KindEnum, domain.KindEnum64:
		name, err := g.nameFor(rt)
		if err != nil {
			return DescribeResult{Descriptor: domain.VoidDescriptor(), Missing: []domain.TypeID{id}}
		}
		return DescribeResult{Descriptor: domain.TypeDescriptor{Kind: domain.DescKindEnum, Name: name}}

	case domain.KindFuncProto:
		return DescribeResult{Descriptor: domain.TypeDescriptor{Kind: domain.DescKindFunction}}

	case domain.KindTypedef, domain.KindConst, domain.KindVolatile, domain.KindRestrict, domain.KindTypeTag:
		peeled, err := g.Peel(id)
		if err != nil {
			return DescribeResult{Descriptor: domain.VoidDescriptor(), Missing: []domain.TypeID{id}}
		}
		return g.Describe(peeled)

	default:
		// FWD and anything else unresolvable: emit void, record missing.
		return DescribeResult{Descriptor: domain.VoidDescriptor(), Missing: []domain.TypeID{id}}
	}
}

// DedupeSorted returns the unique elements of ids in ascending order,
// for deterministic diagnostics regardless of the order missing ids
// were gathered in.
// Pure function.
func DedupeSorted(ids []domain.TypeID) []domain.TypeID {
	out := append([]domain.TypeID(nil), ids...)
	slices.Sort(out)
	return slices.Compact(out)
}
