package common

import "unicode/utf8"

// RuneIndex maps between byte offsets and UTF-16 columns of one line.
type RuneIndex struct {
	text string
	// utf16[i] is the UTF-16 column of the rune starting at offsets[i].
	offsets []int
	utf16   []uint32
}

func BuildRuneIndex(text string) RuneIndex {
	ri := RuneIndex{text: text}
	var col uint32
	for i, r := range text {
		ri.offsets = append(ri.offsets, i)
		ri.utf16 = append(ri.utf16, col)
		if r >= 0x10000 && r <= utf8.MaxRune {
			col += 2
		} else {
			col++
		}
	}
	// sentinel for the end of the line
	ri.offsets = append(ri.offsets, len(text))
	ri.utf16 = append(ri.utf16, col)
	return ri
}

// ByteOffset returns the byte offset of a UTF-16 column. Columns past the
// end of the line map to len(text); a column inside a surrogate pair maps
// to the start of that rune.
func (ri *RuneIndex) ByteOffset(col uint32) int {
	for i := len(ri.utf16) - 1; i >= 0; i-- {
		if ri.utf16[i] <= col {
			return ri.offsets[i]
		}
	}
	return 0
}

// UTF16Column returns the UTF-16 column of a byte offset. Offsets inside a
// multi-byte rune map to the start of that rune.
func (ri *RuneIndex) UTF16Column(offset int) uint32 {
	for i := len(ri.offsets) - 1; i >= 0; i-- {
		if ri.offsets[i] <= offset {
			return ri.utf16[i]
		}
	}
	return 0
}

func (ri *RuneIndex) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(ri.text) {
		return len(ri.text)
	}
	return offset
}
