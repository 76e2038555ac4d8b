package btf

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildBlob assembles a minimal BTF blob with a single INT type named
// "int" (size 4, signed) and no other types, in the given byte order.
func buildBlob(t *testing.T, order binary.ByteOrder) []byte {
	t.Helper()

	strs := []byte{0x00}
	strs = append(strs, "int\x00"...)

	var types []byte
	put32 := func(v uint32) {
		b := make([]byte, 4)
		order.PutUint32(b, v)
		types = append(types, b...)
	}
	// name_off=1 ("int"), info: kind=INT(1), vlen=0, kind_flag=0
	put32(1)
	put32(uint32(1) << infoKindShift)
	put32(4) // size
	put32(uint32(domain_IntEncodingSigned) << 24)

	hdr := make([]byte, headerLen)
	if order == binary.LittleEndian {
		hdr[0], hdr[1] = 0x9f, 0xeb
	} else {
		hdr[0], hdr[1] = 0xeb, 0x9f
	}
	hdr[2] = 1 // version
	order.PutUint32(hdr[4:8], headerLen)
	order.PutUint32(hdr[8:12], 0)
	order.PutUint32(hdr[12:16], uint32(len(types)))
	order.PutUint32(hdr[16:20], uint32(len(types)))
	order.PutUint32(hdr[20:24], uint32(len(strs)))

	return append(append(hdr, types...), strs...)
}

// domain_IntEncodingSigned avoids importing domain just for the one
// bitflag constant used while hand-assembling payload bytes in tests.
const domain_IntEncodingSigned = 1

func TestDecode_SingleSignedInt(t *testing.T) {
	blob := buildBlob(t, binary.LittleEndian)

	d, err := Decode(blob)
	require.NoError(t, err)
	require.Len(t, d.Types, 1)

	rt := d.Types[0]
	assert.EqualValues(t, 1, rt.ID)
	assert.Equal(t, "int", mustString(t, d, rt.NameOff))
	assert.EqualValues(t, 4, rt.Size())
	assert.NotZero(t, rt.IntEncoding&1)
}

func TestDecode_BigEndian(t *testing.T) {
	blob := buildBlob(t, binary.BigEndian)

	d, err := Decode(blob)
	require.NoError(t, err)
	require.Len(t, d.Types, 1)
	assert.EqualValues(t, 4, d.Types[0].Size())
}

func TestDecode_BadMagic(t *testing.T) {
	blob := []byte{0x00, 0x00, 0x01, 0x00, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	_, err := Decode(blob)
	require.Error(t, err)
	assert.ErrorAs(t, err, new(ErrBadMagic))
}

func TestDecode_TruncatedHeader(t *testing.T) {
	_, err := Decode([]byte{0x9f, 0xeb})
	require.Error(t, err)
	assert.ErrorAs(t, err, new(ErrTruncatedHeader))
}

func mustString(t *testing.T, d *Decoded, off uint32) string {
	t.Helper()
	s, err := d.StringAt(off)
	require.NoError(t, err)
	return s
}
