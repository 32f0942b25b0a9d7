package kuju

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding is the character encoding of a container's header and strings.
type Encoding int

const (
	// EncodingLegacy is the 8-bit code page used by files without a BOM.
	EncodingLegacy Encoding = iota
	// EncodingUTF16 is UTF-16 little-endian, announced by an FF FE BOM.
	EncodingUTF16
)

func (e Encoding) String() string {
	if e == EncodingUTF16 {
		return "utf-16le"
	}
	return "legacy"
}

// PayloadKind tells whether the body is binary TLV records or text.
type PayloadKind int

const (
	PayloadBinary PayloadKind = iota
	PayloadTextual
)

func (k PayloadKind) String() string {
	if k == PayloadTextual {
		return "textual"
	}
	return "binary"
}

const (
	magicCompressed   = "SIMISA@F"
	magicUncompressed = "SIMISA@@"
	magicMalformed    = "\r\nSIMISA"

	headerChars = 16
	// malformedSkip is the number of extra bytes after a "\r\nSIMISA" header.
	malformedSkip = 4
)

// Header is the decoded preamble of a Kuju container.
type Header struct {
	Encoding   Encoding
	Compressed bool
	// Malformed is set for the legacy "\r\nSIMISA" variant.
	Malformed bool
	Kind      PayloadKind
	Magic     string
	SubHeader string
}

// ReadHeader decodes the magic header and sub-header from r and returns the
// reader positioned at the first byte of the body. For compressed files the
// returned reader is a zlib decompressor over the rest of r; the caller owns
// closing the underlying stream.
func ReadHeader(r io.Reader) (*Header, io.Reader, error) {
	br := bufio.NewReader(r)
	h := &Header{}

	probe, err := br.Peek(2)
	if err != nil {
		return nil, nil, &FormatError{Reason: "file too short for header", Err: err}
	}
	if probe[0] == 0xFF && probe[1] == 0xFE {
		h.Encoding = EncodingUTF16
		if _, err := br.Discard(2); err != nil {
			return nil, nil, &FormatError{Reason: "read byte order mark", Err: err}
		}
	}

	magic, err := readChars(br, h.Encoding, headerChars)
	if err != nil {
		return nil, nil, &FormatError{Reason: "read header", Err: err}
	}
	h.Magic = firstChars(magic, 8)

	var body io.Reader = br
	switch {
	case strings.HasPrefix(h.Magic, magicCompressed):
		zr, err := zlib.NewReader(br)
		if err != nil {
			return nil, nil, &FormatError{Reason: "open compressed body", Err: err}
		}
		h.Compressed = true
		body = zr
	case strings.HasPrefix(h.Magic, magicMalformed):
		h.Malformed = true
		if _, err := io.CopyN(io.Discard, br, malformedSkip); err != nil {
			return nil, nil, &FormatError{Reason: "skip malformed header", Err: err}
		}
	case strings.HasPrefix(h.Magic, magicUncompressed):
	default:
		return nil, nil, &FormatError{Reason: fmt.Sprintf("unrecognized header %q", h.Magic)}
	}

	sub, err := readChars(body, h.Encoding, headerChars)
	if err != nil {
		return nil, nil, &FormatError{Reason: "read sub-header", Err: err}
	}
	h.SubHeader = firstChars(sub, 8)

	runes := []rune(h.SubHeader)
	if len(runes) < 8 {
		return nil, nil, &FormatError{Reason: fmt.Sprintf("short sub-header %q", h.SubHeader)}
	}
	switch runes[7] {
	case 't':
		h.Kind = PayloadTextual
	case 'b':
		h.Kind = PayloadBinary
	default:
		return nil, nil, &FormatError{Reason: fmt.Sprintf("unrecognized sub-header %q", h.SubHeader)}
	}

	return h, body, nil
}

// readChars reads n characters worth of bytes in the given encoding and
// decodes them.
func readChars(r io.Reader, enc Encoding, n int) (string, error) {
	size := n
	if enc == EncodingUTF16 {
		size = n * 2
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return decodeText(buf, enc)
}

// decodeText converts raw bytes in enc to a Go string.
func decodeText(b []byte, enc Encoding) (string, error) {
	if enc == EncodingUTF16 {
		out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
		if err != nil {
			return "", fmt.Errorf("decode utf-16: %w", err)
		}
		return string(out), nil
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode legacy text: %w", err)
	}
	return string(out), nil
}

func firstChars(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}
