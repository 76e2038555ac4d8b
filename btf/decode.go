// Package btf decodes a BPF Type Format blob into a dense, 1-indexed
// slice of domain.RawType records and a lookup for its string table.
// Everything here is I/O-adjacent parsing; the pure walks over the
// decoded graph live in the compute package.
package btf

import (
	"encoding/binary"
	"fmt"

	"github.com/frobware/btf2json/domain"
)

const (
	infoVlenMask  = 0xffff
	infoKindShift = 24
	infoKindMask  = 0x1f
	infoFlagShift = 31
)

// Decoded is a fully parsed BTF blob: the dense type table (1-based;
// index 0 of the slice corresponds to type id 1, since id 0 is the
// implicit void with no backing record) plus a string table resolver
// bound to the same buffer.
type Decoded struct {
	Types   []domain.RawType
	Strings stringTable
	Order   binary.ByteOrder
}

// StringAt resolves a name offset against the blob's string table.
func (d *Decoded) StringAt(offset uint32) (string, error) {
	return d.Strings.at(offset)
}

// Decode parses a raw BTF blob (header, type section, string section)
// into a Decoded value. It does not interpret the type graph — that is
// the compute package's job.
func Decode(buf []byte) (*Decoded, error) {
	h, order, err := parseHeader(buf)
	if err != nil {
		return nil, err
	}

	strs := newStringTable(h.stringSection(buf))
	types, err := decodeTypes(h.typeSection(buf), order)
	if err != nil {
		return nil, err
	}

	return &Decoded{Types: types, Strings: strs, Order: order}, nil
}

func decodeTypes(section []byte, order binary.ByteOrder) ([]domain.RawType, error) {
	r := newReader(section, order)
	var types []domain.RawType

	for id := uint32(1); r.remaining() > 0; id++ {
		nameOff, ok := r.u32()
		if !ok {
			return nil, ErrTruncatedPayload{ID: id}
		}
		info, ok := r.u32()
		if !ok {
			return nil, ErrTruncatedPayload{ID: id}
		}
		sizeOrType, ok := r.u32()
		if !ok {
			return nil, ErrTruncatedPayload{ID: id}
		}

		vlen := int(info & infoVlenMask)
		kindVal := uint8((info >> infoKindShift) & infoKindMask)
		kindFlag := (info>>infoFlagShift)&1 == 1

		rt := domain.RawType{
			ID:         domain.TypeID(id),
			NameOff:    nameOff,
			Kind:       domain.Kind(kindVal),
			KindFlag:   kindFlag,
			Vlen:       vlen,
			SizeOrType: sizeOrType,
		}

		if err := decodePayload(r, &rt); err != nil {
			return nil, err
		}

		types = append(types, rt)
	}

	return types, nil
}

func decodePayload(r *reader, rt *domain.RawType) error {
	switch rt.Kind {
	case domain.KindVoid:
		return fmt.Errorf("btf: type id %d: kind VOID cannot appear in the type section", rt.ID)

	case domain.KindInt:
		enc, ok := r.u32()
		if !ok {
			return ErrTruncatedPayload{ID: uint32(rt.ID)}
		}
		// Layout per btf.rst: bits 24-27 encoding, 16-23 offset,
		// 0-7 bits. We only need the encoding byte's low bits for
		// signed/char/bool classification.
		rt.IntEncoding = domain.IntEncoding((enc >> 24) & 0x0f)

	case domain.KindPointer, domain.KindFwd, domain.KindTypedef,
		domain.KindVolatile, domain.KindConst, domain.KindRestrict,
		domain.KindFunc, domain.KindTypeTag, domain.KindFloat:
		// No trailing payload; SizeOrType already carries the
		// referenced type id or declared size.

	case domain.KindArray:
		var a domain.ArrayPayload
		t, ok1 := r.u32()
		idx, ok2 := r.u32()
		n, ok3 := r.u32()
		if !ok1 || !ok2 || !ok3 {
			return ErrTruncatedPayload{ID: uint32(rt.ID)}
		}
		a.Type, a.IndexType, a.Nelems = domain.TypeID(t), domain.TypeID(idx), n
		rt.Array = a

	case domain.KindStruct, domain.KindUnion:
		members := make([]domain.Member, rt.Vlen)
		for i := range members {
			nameOff, ok1 := r.u32()
			typ, ok2 := r.u32()
			off, ok3 := r.u32()
			if !ok1 || !ok2 || !ok3 {
				return ErrTruncatedPayload{ID: uint32(rt.ID)}
			}
			members[i] = domain.Member{NameOff: nameOff, Type: domain.TypeID(typ), Offset: off}
		}
		rt.Members = members

	case domain.KindEnum:
		members := make([]domain.EnumMember, rt.Vlen)
		for i := range members {
			nameOff, ok1 := r.u32()
			val, ok2 := r.i32()
			if !ok1 || !ok2 {
				return ErrTruncatedPayload{ID: uint32(rt.ID)}
			}
			members[i] = domain.EnumMember{NameOff: nameOff, Value: val}
		}
		rt.EnumMembers = members

	case domain.KindEnum64:
		members := make([]domain.Enum64Member, rt.Vlen)
		for i := range members {
			nameOff, ok1 := r.u32()
			lo, ok2 := r.u32()
			hi, ok3 := r.u32()
			if !ok1 || !ok2 || !ok3 {
				return ErrTruncatedPayload{ID: uint32(rt.ID)}
			}
			members[i] = domain.Enum64Member{NameOff: nameOff, ValLo32: lo, ValHi32: hi}
		}
		rt.Enum64Members = members

	case domain.KindFuncProto:
		params := make([]domain.Param, rt.Vlen)
		for i := range params {
			nameOff, ok1 := r.u32()
			typ, ok2 := r.u32()
			if !ok1 || !ok2 {
				return ErrTruncatedPayload{ID: uint32(rt.ID)}
			}
			params[i] = domain.Param{NameOff: nameOff, Type: domain.TypeID(typ)}
		}
		rt.Params = params

	case domain.KindVar:
		linkage, ok := r.u32()
		if !ok {
			return ErrTruncatedPayload{ID: uint32(rt.ID)}
		}
		rt.Var = domain.VarPayload{Linkage: linkage}

	case domain.KindDatasec:
		vars := make([]domain.DatasecVarInfo, rt.Vlen)
		for i := range vars {
			typ, ok1 := r.u32()
			off, ok2 := r.u32()
			size, ok3 := r.u32()
			if !ok1 || !ok2 || !ok3 {
				return ErrTruncatedPayload{ID: uint32(rt.ID)}
			}
			vars[i] = domain.DatasecVarInfo{Type: domain.TypeID(typ), Offset: off, Size: size}
		}
		rt.DatasecVars = vars

	case domain.KindDeclTag:
		idx, ok := r.i32()
		if !ok {
			return ErrTruncatedPayload{ID: uint32(rt.ID)}
		}
		rt.DeclTagComponentIdx = idx

	default:
		return ErrUnknownKind{Kind: uint8(rt.Kind), ID: uint32(rt.ID)}
	}

	return nil
}
