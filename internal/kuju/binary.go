package kuju

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/vk/kujuconsist/internal/units"
)

// recordHeaderSize is the size of a binary block record before its payload:
// uint16 token, uint16 flags, uint32 length.
const recordHeaderSize = 8

// binaryBlock is a Block over little-endian TLV records.
type binaryBlock struct {
	token Token
	data  []byte
	pos   int
	enc   Encoding
}

// NewBinaryBlock wraps data as the content of a binary block tagged tok.
// enc selects how strings are stored: UTF-16 code units or 8-bit characters.
func NewBinaryBlock(data []byte, tok Token, enc Encoding) Block {
	return &binaryBlock{token: tok, data: data, enc: enc}
}

func (b *binaryBlock) Token() Token    { return b.token }
func (b *binaryBlock) Name() string    { return b.token.String() }
func (b *binaryBlock) Len() int        { return len(b.data) }
func (b *binaryBlock) Pos() int        { return b.pos }
func (b *binaryBlock) Remaining() int  { return len(b.data) - b.pos }
func (b *binaryBlock) Payload() []byte { return append([]byte(nil), b.data...) }

// take returns the next n bytes and advances the cursor.
func (b *binaryBlock) take(n int) ([]byte, error) {
	if n < 0 || n > b.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d of %d", ErrEndOfBlock, n, b.pos, len(b.data))
	}
	out := b.data[b.pos : b.pos+n]
	b.pos += n
	return out, nil
}

// readRecord reads one token/flags/length record and its payload.
func (b *binaryBlock) readRecord() (Token, []byte, error) {
	if b.Remaining() < recordHeaderSize {
		return 0, nil, fmt.Errorf("%w: %d bytes left for an %d byte record header", ErrTruncated, b.Remaining(), recordHeaderSize)
	}
	hdr := b.data[b.pos : b.pos+recordHeaderSize]
	tok := Token(binary.LittleEndian.Uint16(hdr[0:2]))
	length := binary.LittleEndian.Uint32(hdr[4:8])
	if uint64(length) > uint64(b.Remaining()-recordHeaderSize) {
		return 0, nil, fmt.Errorf("%w: %s declares %d bytes, %d remain", ErrTruncated, tok, length, b.Remaining()-recordHeaderSize)
	}
	b.pos += recordHeaderSize
	payload := b.data[b.pos : b.pos+int(length)]
	b.pos += int(length)
	return tok, payload, nil
}

func (b *binaryBlock) ReadSubBlock(allowed ...Token) (Block, error) {
	tok, payload, err := b.readRecord()
	if err != nil {
		return nil, err
	}
	if !tokenIn(tok, allowed) {
		return nil, &UnexpectedTokenError{Got: tok, Allowed: allowed}
	}
	return &binaryBlock{token: tok, data: payload, enc: b.enc}, nil
}

func (b *binaryBlock) ReadString() (string, error) {
	raw, err := b.take(2)
	if err != nil {
		return "", err
	}
	count := int(binary.LittleEndian.Uint16(raw))
	width := 1
	if b.enc == EncodingUTF16 {
		width = 2
	}
	chars, err := b.take(count * width)
	if err != nil {
		return "", err
	}
	return decodeText(chars, b.enc)
}

func (b *binaryBlock) ReadStringArray() ([]string, error) {
	var out []string
	for b.Remaining() > 0 {
		s, err := b.ReadString()
		if err != nil {
			return out, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (b *binaryBlock) ReadInt16() (int16, error) {
	v, err := b.ReadUInt16()
	return int16(v), err
}

func (b *binaryBlock) ReadUInt16() (uint16, error) {
	raw, err := b.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(raw), nil
}

func (b *binaryBlock) ReadInt32() (int32, error) {
	v, err := b.ReadUInt32()
	return int32(v), err
}

func (b *binaryBlock) ReadUInt32() (uint32, error) {
	raw, err := b.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(raw), nil
}

// ReadSingle reads a float32. Binary files store values in the field's
// canonical unit, so only u's factor is applied.
func (b *binaryBlock) ReadSingle(u units.Unit) (float64, error) {
	raw, err := b.take(4)
	if err != nil {
		return 0, err
	}
	v := float64(math.Float32frombits(binary.LittleEndian.Uint32(raw)))
	if math.IsNaN(v) {
		return 0, fmt.Errorf("%w: NaN", units.ErrNotNumeric)
	}
	return v * u.Factor, nil
}
