package btf

import "fmt"

// ErrBadMagic is returned when the header's magic field is neither the
// big-endian nor little-endian BTF magic value.
type ErrBadMagic struct {
	Got uint16
}

func (e ErrBadMagic) Error() string {
	return fmt.Sprintf("btf: bad magic 0x%04x, want 0xeb9f (either byte order)", e.Got)
}

// ErrTruncatedHeader is returned when the buffer is shorter than a BTF
// header.
type ErrTruncatedHeader struct {
	Len int
}

func (e ErrTruncatedHeader) Error() string {
	return fmt.Sprintf("btf: truncated header: buffer has %d bytes, need at least 24", e.Len)
}

// ErrSectionOverflow is returned when a section's declared offset and
// length run past the end of the buffer.
type ErrSectionOverflow struct {
	Section      string
	Offset, Size uint32
	Available    int
}

func (e ErrSectionOverflow) Error() string {
	return fmt.Sprintf("btf: %s section [%d,%d) overflows buffer of %d bytes", e.Section, e.Offset, e.Offset+e.Size, e.Available)
}

// ErrUnaligned is returned when a declared section length is not a
// multiple of 4.
type ErrUnaligned struct {
	Section string
	Size    uint32
}

func (e ErrUnaligned) Error() string {
	return fmt.Sprintf("btf: %s section length %d is not a multiple of 4", e.Section, e.Size)
}

// ErrUnknownKind is returned when a type record's kind field does not
// match any known BTF_KIND_* value.
type ErrUnknownKind struct {
	Kind uint8
	ID   uint32
}

func (e ErrUnknownKind) Error() string {
	return fmt.Sprintf("btf: type id %d: unknown kind %d", e.ID, e.Kind)
}

// ErrTruncatedPayload is returned when a type record's declared vlen
// or trailing fields run past the end of the type section.
type ErrTruncatedPayload struct {
	ID uint32
}

func (e ErrTruncatedPayload) Error() string {
	return fmt.Sprintf("btf: type id %d: truncated payload", e.ID)
}

// ErrBadStringOffset is returned when a name offset points outside
// the string section.
type ErrBadStringOffset struct {
	Offset uint32
	Len    int
}

func (e ErrBadStringOffset) Error() string {
	return fmt.Sprintf("btf: string offset %d out of range for string section of %d bytes", e.Offset, e.Len)
}

// ErrNoBTFSection is returned when an ELF image contains no .BTF
// section.
type ErrNoBTFSection struct {
	Path string
}

func (e ErrNoBTFSection) Error() string {
	return fmt.Sprintf("btf: %s: no .BTF section found", e.Path)
}
