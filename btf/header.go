package btf

import "encoding/binary"

const (
	magicLE = 0x9feb
	magicBE = 0xeb9f

	headerLen = 24
)

// header is the fixed-size BTF header. All of type/type length and
// string/string length are relative to the byte immediately following
// the header (i.e. offset HdrLen), matching the on-disk layout.
type header struct {
	Magic   uint16
	Version uint8
	Flags   uint8
	HdrLen  uint32

	TypeOff uint32
	TypeLen uint32
	StrOff  uint32
	StrLen  uint32
}

// parseHeader reads the 24-byte BTF header from the front of buf and
// returns it along with the byte order its magic field selects.
func parseHeader(buf []byte) (header, binary.ByteOrder, error) {
	if len(buf) < headerLen {
		return header{}, nil, ErrTruncatedHeader{Len: len(buf)}
	}

	var h header
	var order binary.ByteOrder

	switch {
	case buf[0] == 0x9f && buf[1] == 0xeb:
		order = binary.LittleEndian
	case buf[0] == 0xeb && buf[1] == 0x9f:
		order = binary.BigEndian
	default:
		return header{}, nil, ErrBadMagic{Got: binary.LittleEndian.Uint16(buf[0:2])}
	}

	r := newReader(buf, order)
	magic, _ := r.u16()
	h.Magic = magic
	version, _ := r.u8()
	h.Version = version
	flags, _ := r.u8()
	h.Flags = flags
	hdrLen, _ := r.u32()
	h.HdrLen = hdrLen

	typeOff, _ := r.u32()
	typeLen, _ := r.u32()
	strOff, _ := r.u32()
	strLen, ok := r.u32()
	if !ok {
		return header{}, nil, ErrTruncatedHeader{Len: len(buf)}
	}
	h.TypeOff, h.TypeLen, h.StrOff, h.StrLen = typeOff, typeLen, strOff, strLen

	if h.TypeLen%4 != 0 {
		return header{}, nil, ErrUnaligned{Section: "type", Size: h.TypeLen}
	}

	base := int(h.HdrLen)
	if err := checkSection(buf, base, "type", h.TypeOff, h.TypeLen); err != nil {
		return header{}, nil, err
	}
	if err := checkSection(buf, base, "string", h.StrOff, h.StrLen); err != nil {
		return header{}, nil, err
	}

	return h, order, nil
}

func checkSection(buf []byte, base int, name string, off, size uint32) error {
	start := base + int(off)
	end := start + int(size)
	if start < 0 || end < start || end > len(buf) {
		return ErrSectionOverflow{Section: name, Offset: off, Size: size, Available: len(buf)}
	}
	return nil
}

// typeSection returns the slice of buf covered by the header's type
// section.
func (h header) typeSection(buf []byte) []byte {
	start := int(h.HdrLen) + int(h.TypeOff)
	return buf[start : start+int(h.TypeLen)]
}

// stringSection returns the slice of buf covered by the header's
// string section.
func (h header) stringSection(buf []byte) []byte {
	start := int(h.HdrLen) + int(h.StrOff)
	return buf[start : start+int(h.StrLen)]
}
