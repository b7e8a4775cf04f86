package codebase

import (
	"bytes"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// OffsetOf converts an LSP position, whose character counts UTF-16 code
// units, to a byte offset into src. Positions past the end of a line
// clamp to the line end.
func OffsetOf(src []byte, pos protocol.Position) int {
	offset := 0
	for line := protocol.UInteger(0); line < pos.Line; line++ {
		i := bytes.IndexByte(src[offset:], '\n')
		if i < 0 {
			return len(src)
		}
		offset += i + 1
	}
	for units := protocol.UInteger(0); units < pos.Character && offset < len(src); {
		r, size := utf8.DecodeRune(src[offset:])
		if r == '\n' {
			break
		}
		units += protocol.UInteger(utf16.RuneLen(r))
		offset += size
	}
	return offset
}

// PositionOf converts a byte offset into src to an LSP position.
func PositionOf(src []byte, offset int) protocol.Position {
	if offset > len(src) {
		offset = len(src)
	}
	var pos protocol.Position
	lineStart := 0
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			pos.Line++
			lineStart = i + 1
		}
	}
	for i := lineStart; i < offset; {
		r, size := utf8.DecodeRune(src[i:])
		pos.Character += protocol.UInteger(utf16.RuneLen(r))
		i += size
	}
	return pos
}
