package kuju

import "github.com/vk/kujuconsist/internal/units"

// Block is a token-tagged, length-bounded region of a container with a read
// cursor. The cursor only moves forward and never passes Len; any read that
// would pass it fails with ErrEndOfBlock (or ErrTruncated for binary
// sub-block records).
//
// The binary and textual encodings both implement Block, so the consist and
// vehicle parsers are written once against this interface.
type Block interface {
	// Token is the block's semantic kind.
	Token() Token
	// Name is the raw block name: the textual identifier, or the token
	// name for binary blocks.
	Name() string
	// Len is the size of the block content in bytes (binary) or characters
	// (textual).
	Len() int
	// Pos is the current cursor offset within the content.
	Pos() int
	// Remaining is Len minus Pos.
	Remaining() int
	// Payload returns a copy of the block's content.
	Payload() []byte

	// ReadSubBlock reads the next child block. When allowed is not empty
	// the child's token must be in it, otherwise the child is consumed and
	// an *UnexpectedTokenError is returned.
	ReadSubBlock(allowed ...Token) (Block, error)

	ReadString() (string, error)
	// ReadStringArray reads every remaining string field of the block.
	ReadStringArray() ([]string, error)

	ReadInt16() (int16, error)
	ReadUInt16() (uint16, error)
	ReadInt32() (int32, error)
	ReadUInt32() (uint32, error)
	// ReadSingle reads a floating point value and converts it to the SI
	// unit of u's dimension.
	ReadSingle(u units.Unit) (float64, error)
}
