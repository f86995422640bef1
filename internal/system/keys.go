// Package system talks to the Linux console: VT graphics mode and evdev key
// presses.
package system

import (
	"encoding/binary"
	"path/filepath"
)

const evKey = 0x01

// Linux input-event-codes.h
const (
	KeyEsc uint16 = 1
	KeyE   uint16 = 18
	KeyR   uint16 = 19
	KeyP   uint16 = 25
	KeyD   uint16 = 32
	KeyN   uint16 = 49
	KeyF4  uint16 = 62
)

// eventSize is the size of one input_event: timeval, u16 type, u16 code,
// s32 value.
func eventSize(tvSize int) int { return tvSize + 2 + 2 + 4 }

// keyPresses extracts the key-down codes from a buffer of input_event
// records. Repeats (value 2) and releases (value 0) are ignored; a trailing
// partial record is dropped.
func keyPresses(buf []byte, tvSize int) []uint16 {
	size := eventSize(tvSize)
	var codes []uint16
	for off := 0; off+size <= len(buf); off += size {
		rec := buf[off : off+size]
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
		if typ == evKey && value == 1 {
			codes = append(codes, code)
		}
	}
	return codes
}

// InputDevices lists the evdev devices present, if any.
func InputDevices() []string {
	paths, _ := filepath.Glob("/dev/input/event*")
	return paths
}
