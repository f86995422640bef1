package system

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func record(tvSize int, typ, code uint16, value int32) []byte {
	rec := make([]byte, eventSize(tvSize))
	binary.LittleEndian.PutUint16(rec[tvSize:], typ)
	binary.LittleEndian.PutUint16(rec[tvSize+2:], code)
	binary.LittleEndian.PutUint32(rec[tvSize+4:], uint32(value))
	return rec
}

func TestKeyPresses(t *testing.T) {
	for _, tvSize := range []int{8, 16} {
		var buf []byte
		buf = append(buf, record(tvSize, evKey, KeyE, 1)...)
		buf = append(buf, record(tvSize, evKey, KeyE, 0)...)   // release
		buf = append(buf, record(tvSize, 0x00, 0, 0)...)       // EV_SYN
		buf = append(buf, record(tvSize, evKey, KeyN, 2)...)   // repeat
		buf = append(buf, record(tvSize, evKey, KeyF4, 1)...)
		buf = append(buf, record(tvSize, evKey, KeyEsc, 1)[:5]...) // partial

		assert.Equal(t, []uint16{KeyE, KeyF4}, keyPresses(buf, tvSize), "timeval size %d", tvSize)
	}
}

func TestKeyPressesEmpty(t *testing.T) {
	assert.Empty(t, keyPresses(nil, 16))
	assert.Empty(t, keyPresses(make([]byte, 10), 16))
}
