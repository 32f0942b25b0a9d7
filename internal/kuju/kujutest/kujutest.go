// Package kujutest builds Kuju containers in memory for tests. It writes
// only what the decoder reads; it is not a general purpose encoder.
package kujutest

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/klauspost/compress/zlib"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/vk/kujuconsist/internal/kuju"
)

// Options selects the container variant to produce.
type Options struct {
	Encoding   kuju.Encoding
	Compressed bool
	// Malformed writes the legacy "\r\nSIMISA" header.
	Malformed bool
	// Magic overrides the 8 header characters when set.
	Magic string
	// SubHeader overrides the 8 sub-header characters when set.
	SubHeader string
}

// Record encodes one binary block record around the concatenated payloads.
func Record(tok kuju.Token, payloads ...[]byte) []byte {
	var body []byte
	for _, p := range payloads {
		body = append(body, p...)
	}
	out := make([]byte, 8, 8+len(body))
	binary.LittleEndian.PutUint16(out[0:2], uint16(tok))
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(body)))
	return append(out, body...)
}

// String encodes a binary string field in enc.
func String(s string, enc kuju.Encoding) []byte {
	chars := EncodeText(s, enc)
	count := len(chars)
	if enc == kuju.EncodingUTF16 {
		count /= 2
	}
	out := make([]byte, 2, 2+len(chars))
	binary.LittleEndian.PutUint16(out, uint16(count))
	return append(out, chars...)
}

// Strings encodes several binary string fields back to back.
func Strings(enc kuju.Encoding, values ...string) []byte {
	var out []byte
	for _, v := range values {
		out = append(out, String(v, enc)...)
	}
	return out
}

// Float encodes a little-endian float32.
func Float(v float32) []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, math.Float32bits(v))
	return out
}

// Uint32 encodes a little-endian uint32.
func Uint32(v uint32) []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, v)
	return out
}

// EncodeText converts s to the byte form of enc.
func EncodeText(s string, enc kuju.Encoding) []byte {
	if enc == kuju.EncodingUTF16 {
		out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
		if err != nil {
			panic(err)
		}
		return out
	}
	out, err := charmap.Windows1252.NewEncoder().Bytes([]byte(s))
	if err != nil {
		panic(err)
	}
	return out
}

// Binary wraps a binary body in a container.
func Binary(body []byte, opts Options) []byte {
	if opts.SubHeader == "" {
		opts.SubHeader = "JINX0D0b"
	}
	return container(body, opts)
}

// Text wraps a textual body in a container, encoding it like the header.
func Text(body string, opts Options) []byte {
	if opts.SubHeader == "" {
		opts.SubHeader = "JINX0D0t"
	}
	return container(EncodeText(body, opts.Encoding), opts)
}

func container(body []byte, opts Options) []byte {
	var out bytes.Buffer
	if opts.Encoding == kuju.EncodingUTF16 {
		out.Write([]byte{0xFF, 0xFE})
	}

	magic := opts.Magic
	switch {
	case magic != "":
	case opts.Malformed:
		magic = "\r\nSIMISA"
	case opts.Compressed:
		magic = "SIMISA@F"
	default:
		magic = "SIMISA@@"
	}
	out.Write(EncodeText(pad(magic, "@@@@@@@@"), opts.Encoding))
	if opts.Malformed {
		out.Write([]byte("@@\r\n"))
	}

	rest := append(EncodeText(pad(opts.SubHeader, "______\r\n"), opts.Encoding), body...)
	if !opts.Compressed {
		out.Write(rest)
		return out.Bytes()
	}

	zw := zlib.NewWriter(&out)
	if _, err := zw.Write(rest); err != nil {
		panic(err)
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return out.Bytes()
}

// pad extends an 8 character field to the 16 characters the header reader
// consumes.
func pad(field, tail string) string {
	return field + tail
}
