package compute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frobware/btf2json/domain"
)

func nameTable(names map[uint32]string) func(uint32) (string, error) {
	return func(off uint32) (string, error) {
		if off == 0 {
			return "", nil
		}
		n, ok := names[off]
		if !ok {
			return "", assertErr(off)
		}
		return n, nil
	}
}

type badOffset uint32

func (b badOffset) Error() string { return "bad offset" }

func assertErr(off uint32) error { return badOffset(off) }

func TestGraph_PeelTypedefChain(t *testing.T) {
	// id1 = int (size 4), id2 = typedef pid_t -> int, id3 = const -> typedef
	types := []domain.RawType{
		{ID: 1, Kind: domain.KindInt, SizeOrType: 4},
		{ID: 2, Kind: domain.KindTypedef, SizeOrType: 1},
		{ID: 3, Kind: domain.KindConst, SizeOrType: 2},
	}
	g := NewGraph(types, nameTable(nil), 8)

	peeled, err := g.Peel(3)
	require.NoError(t, err)
	assert.EqualValues(t, 1, peeled)
}

func TestGraph_SizeOf_Array(t *testing.T) {
	types := []domain.RawType{
		{ID: 1, Kind: domain.KindInt, SizeOrType: 4},
		{ID: 2, Kind: domain.KindArray, Array: domain.ArrayPayload{Type: 1, Nelems: 10}},
	}
	g := NewGraph(types, nameTable(nil), 8)

	size, err := g.SizeOf(2)
	require.NoError(t, err)
	assert.EqualValues(t, 40, size)
}

func TestGraph_Describe_PointerToVoid(t *testing.T) {
	types := []domain.RawType{
		{ID: 1, Kind: domain.KindPointer, SizeOrType: 0},
	}
	g := NewGraph(types, nameTable(nil), 8)

	res := g.Describe(1)
	assert.Equal(t, domain.DescKindPointer, res.Descriptor.Kind)
	require.NotNil(t, res.Descriptor.Subtype)
	assert.Equal(t, domain.VoidDescriptor(), *res.Descriptor.Subtype)
	assert.Empty(t, res.Missing)
}

func TestGraph_Describe_TypedefPeeledToBase(t *testing.T) {
	types := []domain.RawType{
		{ID: 1, Kind: domain.KindInt, NameOff: 1, SizeOrType: 4},
		{ID: 2, Kind: domain.KindTypedef, SizeOrType: 1},
	}
	g := NewGraph(types, nameTable(map[uint32]string{1: "int"}), 8)

	res := g.Describe(2)
	assert.Equal(t, domain.TypeDescriptor{Kind: domain.DescKindBase, Name: "int"}, res.Descriptor)
}

func TestGraph_Describe_ForwardDeclRecordsMissing(t *testing.T) {
	types := []domain.RawType{
		{ID: 1, Kind: domain.KindFwd},
	}
	g := NewGraph(types, nameTable(nil), 8)

	res := g.Describe(1)
	assert.Equal(t, domain.VoidDescriptor(), res.Descriptor)
	assert.Equal(t, []domain.TypeID{1}, res.Missing)
}

func TestAnonymousName_Stable(t *testing.T) {
	assert.Equal(t, AnonymousName(domain.TypeID(0x2a)), AnonymousName(domain.TypeID(0x2a)))
	assert.Equal(t, "unnamed_2a", AnonymousName(domain.TypeID(0x2a)))
}

func TestDedupeSorted(t *testing.T) {
	in := []domain.TypeID{5, 1, 5, 3, 1}
	assert.Equal(t, []domain.TypeID{1, 3, 5}, DedupeSorted(in))
}
