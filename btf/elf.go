package btf

import (
	"debug/elf"
	"fmt"
	"os"
)

// LoadFile reads path and decodes it as BTF, returning both the
// decoded type graph and the raw file bytes (for metadata hashing).
// It accepts either a raw BTF blob (sniffed by magic) or a full kernel
// ELF image, in which case the blob is taken from the image's .BTF
// section — the same section vmlinux and kernel module images carry
// their embedded BTF in.
func LoadFile(path string) (*Decoded, []byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("btf: read %s: %w", path, err)
	}
	if len(buf) == 0 {
		return nil, nil, fmt.Errorf("btf: %s: empty file", path)
	}

	d, err := DecodeBytes(path, buf)
	if err != nil {
		return nil, nil, err
	}
	return d, buf, nil
}

// DecodeBytes decodes buf as BTF, sniffing for a raw blob first and
// falling back to ELF .BTF-section extraction. path is used only for
// error messages.
func DecodeBytes(path string, buf []byte) (*Decoded, error) {
	if isRawBTF(buf) {
		return Decode(buf)
	}

	section, err := extractELFSection(path, buf)
	if err != nil {
		return nil, err
	}
	return Decode(section)
}

func isRawBTF(buf []byte) bool {
	if len(buf) < 2 {
		return false
	}
	return (buf[0] == 0x9f && buf[1] == 0xeb) || (buf[0] == 0xeb && buf[1] == 0x9f)
}

// extractELFSection pulls the .BTF section out of a kernel ELF image.
func extractELFSection(path string, buf []byte) ([]byte, error) {
	f, err := elf.NewFile(newSliceReaderAt(buf))
	if err != nil {
		return nil, fmt.Errorf("btf: %s: not a raw BTF blob and not a valid ELF image: %w", path, err)
	}
	defer f.Close()

	sec := f.Section(".BTF")
	if sec == nil {
		return nil, ErrNoBTFSection{Path: path}
	}
	data, err := sec.Data()
	if err != nil {
		return nil, fmt.Errorf("btf: %s: reading .BTF section: %w", path, err)
	}
	return data, nil
}

// sliceReaderAt adapts a byte slice to io.ReaderAt without an extra
// copy, for debug/elf.NewFile.
type sliceReaderAt []byte

func newSliceReaderAt(b []byte) sliceReaderAt { return sliceReaderAt(b) }

func (s sliceReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(s)) {
		return 0, fmt.Errorf("btf: ReadAt: offset %d out of range", off)
	}
	n := copy(p, s[off:])
	if n < len(p) {
		return n, fmt.Errorf("btf: ReadAt: short read at offset %d", off)
	}
	return n, nil
}
