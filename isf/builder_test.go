package isf

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frobware/btf2json/domain"
)

func names(table map[uint32]string) func(uint32) (string, error) {
	return func(off uint32) (string, error) {
		if off == 0 {
			return "", nil
		}
		return table[off], nil
	}
}

func TestBuild_SingleSignedInt(t *testing.T) {
	types := []domain.RawType{
		{ID: 1, Kind: domain.KindInt, NameOff: 1, SizeOrType: 4, IntEncoding: domain.IntEncodingSigned},
	}
	arch, err := ResolveArch("x86_64")
	require.NoError(t, err)

	b := NewBuilder(types, names(map[uint32]string{1: "int"}), arch, binary.LittleEndian, "")
	doc, err := b.Build(nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.BaseType{Size: 4, Signed: true, Kind: domain.BaseKindInt, Endian: "little"}, doc.BaseTypes["int"])
}

func TestBuild_SimpleStruct(t *testing.T) {
	// id1 = int, id2 = struct task_struct { int pid; } size 8
	types := []domain.RawType{
		{ID: 1, Kind: domain.KindInt, NameOff: 1, SizeOrType: 4, IntEncoding: domain.IntEncodingSigned},
		{ID: 2, Kind: domain.KindStruct, NameOff: 2, SizeOrType: 8, Vlen: 1, Members: []domain.Member{
			{NameOff: 3, Type: 1, Offset: 0},
		}},
	}
	arch, err := ResolveArch("x86_64")
	require.NoError(t, err)

	b := NewBuilder(types, names(map[uint32]string{1: "int", 2: "task_struct", 3: "pid"}), arch, binary.LittleEndian, "")
	doc, err := b.Build(nil, nil, nil)
	require.NoError(t, err)

	ut, ok := doc.UserTypes["task_struct"]
	require.True(t, ok)
	assert.EqualValues(t, 8, ut.Size)
	assert.Equal(t, domain.UserKindStruct, ut.Kind)

	field, ok := ut.Fields["pid"]
	require.True(t, ok)
	assert.Equal(t, domain.TypeDescriptor{Kind: domain.DescKindBase, Name: "int"}, field.Type)
	assert.EqualValues(t, 0, field.Offset)
	assert.Nil(t, field.BitField)
}

func TestBuild_TypedefPeeledInMember(t *testing.T) {
	types := []domain.RawType{
		{ID: 1, Kind: domain.KindInt, NameOff: 1, SizeOrType: 4},
		{ID: 2, Kind: domain.KindTypedef, NameOff: 2, SizeOrType: 1}, // pid_t -> int
		{ID: 3, Kind: domain.KindStruct, NameOff: 3, SizeOrType: 4, Vlen: 1, Members: []domain.Member{
			{NameOff: 4, Type: 2, Offset: 0},
		}},
	}
	arch, err := ResolveArch("x86_64")
	require.NoError(t, err)

	b := NewBuilder(types, names(map[uint32]string{1: "int", 2: "pid_t", 3: "s", 4: "p"}), arch, binary.LittleEndian, "")
	doc, err := b.Build(nil, nil, nil)
	require.NoError(t, err)

	field := doc.UserTypes["s"].Fields["p"]
	assert.Equal(t, domain.TypeDescriptor{Kind: domain.DescKindBase, Name: "int"}, field.Type)
}

func TestBuild_Bitfield(t *testing.T) {
	types := []domain.RawType{
		{ID: 1, Kind: domain.KindInt, NameOff: 1, SizeOrType: 4},
		{ID: 2, Kind: domain.KindStruct, NameOff: 2, SizeOrType: 4, Vlen: 1, KindFlag: true, Members: []domain.Member{
			{NameOff: 3, Type: 1, Offset: (5 << 24) | 3}, // bit_size=5, bit_offset=3
		}},
	}
	arch, err := ResolveArch("x86_64")
	require.NoError(t, err)

	b := NewBuilder(types, names(map[uint32]string{1: "int", 2: "s", 3: "flag"}), arch, binary.LittleEndian, "")
	doc, err := b.Build(nil, nil, nil)
	require.NoError(t, err)

	field := doc.UserTypes["s"].Fields["flag"]
	assert.EqualValues(t, 0, field.Offset)
	require.NotNil(t, field.BitField)
	assert.EqualValues(t, 3, field.BitField.BitPosition)
	assert.EqualValues(t, 5, field.BitField.Length)
}

func TestBuild_SymbolWithoutBTFEntry(t *testing.T) {
	arch, err := ResolveArch("x86_64")
	require.NoError(t, err)

	b := NewBuilder(nil, names(nil), arch, binary.LittleEndian, "")
	doc, err := b.Build([]domain.MapEntry{{Name: "_text", Address: 0xffffffff81000000, Kind: domain.SymbolFunction}}, nil, nil)
	require.NoError(t, err)

	sym, ok := doc.Symbols["_text"]
	require.True(t, ok)
	assert.EqualValues(t, uint64(0xffffffff81000000), sym.Address)
	assert.Nil(t, sym.Type)
}

func TestBuild_PointerToVoid(t *testing.T) {
	types := []domain.RawType{
		{ID: 1, Kind: domain.KindPointer, SizeOrType: 0},
	}
	arch, err := ResolveArch("x86_64")
	require.NoError(t, err)

	b := NewBuilder(types, names(nil), arch, binary.LittleEndian, "")
	_, err = b.Build(nil, nil, nil)
	require.NoError(t, err)

	// Exercised indirectly via the graph; builder itself doesn't expose
	// arbitrary Describe calls, so assert the underlying graph directly.
	res := b.graph.Describe(1)
	assert.Equal(t, domain.DescKindPointer, res.Descriptor.Kind)
	assert.Equal(t, domain.VoidDescriptor(), *res.Descriptor.Subtype)
}

func TestBuild_MissingTypeWarning(t *testing.T) {
	types := []domain.RawType{
		{ID: 1, Kind: domain.KindFwd, NameOff: 1},
		{ID: 2, Kind: domain.KindStruct, NameOff: 2, SizeOrType: 8, Vlen: 1, Members: []domain.Member{
			{NameOff: 3, Type: 1, Offset: 0},
		}},
	}
	arch, err := ResolveArch("x86_64")
	require.NoError(t, err)

	b := NewBuilder(types, names(map[uint32]string{1: "incomplete", 2: "s", 3: "p"}), arch, binary.LittleEndian, "")
	_, err = b.Build(nil, nil, nil)
	require.NoError(t, err)

	require.NotEmpty(t, b.Warnings())
	assert.Contains(t, b.Warnings()[len(b.Warnings())-1].Message, "missing")
}

func TestBuild_EndianFollowsDecodedByteOrder(t *testing.T) {
	types := []domain.RawType{
		{ID: 1, Kind: domain.KindInt, NameOff: 1, SizeOrType: 4, IntEncoding: domain.IntEncodingSigned},
	}
	arch, err := ResolveArch("x86_64")
	require.NoError(t, err)

	little := NewBuilder(types, names(map[uint32]string{1: "int"}), arch, binary.LittleEndian, "")
	littleDoc, err := little.Build(nil, nil, nil)
	require.NoError(t, err)

	big := NewBuilder(types, names(map[uint32]string{1: "int"}), arch, binary.BigEndian, "")
	bigDoc, err := big.Build(nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "little", littleDoc.BaseTypes["int"].Endian)
	assert.Equal(t, "big", bigDoc.BaseTypes["int"].Endian)
	assert.Equal(t, "little", littleDoc.BaseTypes["void"].Endian)
	assert.Equal(t, "big", bigDoc.BaseTypes["void"].Endian)
	assert.Equal(t, "little", littleDoc.BaseTypes["pointer"].Endian)
	assert.Equal(t, "big", bigDoc.BaseTypes["pointer"].Endian)

	wantInt := littleDoc.BaseTypes["int"]
	wantInt.Endian = "big"
	assert.Equal(t, wantInt, bigDoc.BaseTypes["int"])
}
