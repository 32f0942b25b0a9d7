package kuju

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/kujuconsist/internal/ctxlog"
)

// documentToken tags the synthetic block that holds a whole file body.
const documentToken Token = TokenUnknown

// Document is a decoded container: its header plus a cursor over the
// top-level blocks of the body.
type Document struct {
	Header Header
	Path   string
	body   Block
}

// Open reads the container at path. The file is closed before Open
// returns, on success and on every failure.
func Open(ctx context.Context, path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Decode(ctx, f)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) && fe.Path == "" {
			fe.Path = path
		}
		return nil, err
	}
	doc.Path = path
	return doc, nil
}

// Decode reads a container from r: header, optional decompression and the
// whole body, which is held in memory.
func Decode(ctx context.Context, r io.Reader) (*Document, error) {
	logger := ctxlog.FromContext(ctx)

	h, body, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	if c, ok := body.(io.Closer); ok {
		defer c.Close()
	}
	if h.Malformed {
		logger.Warn("Improper container header, reading as uncompressed.", "magic", h.Magic, ctxlog.CategoryKey, ctxlog.CategoryFormatWarning)
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, &FormatError{Reason: "read body", Err: err}
	}
	logger.Debug("Container decoded.", "encoding", h.Encoding, "compressed", h.Compressed, "kind", h.Kind, "body_bytes", len(raw))

	doc := &Document{Header: *h}
	if h.Kind == PayloadTextual {
		text, err := decodeText(raw, h.Encoding)
		if err != nil {
			return nil, &FormatError{Reason: "decode textual body", Err: err}
		}
		doc.body = &textualBlock{token: documentToken, name: "document", text: trimText(text)}
	} else {
		doc.body = &binaryBlock{token: documentToken, data: raw, enc: h.Encoding}
	}
	return doc, nil
}

// trimText drops surrounding whitespace and a NUL padding tail some
// editors leave behind.
func trimText(s string) string {
	for len(s) > 0 && (s[len(s)-1] == 0 || isSpace(s[len(s)-1])) {
		s = s[:len(s)-1]
	}
	for len(s) > 0 && isSpace(s[0]) {
		s = s[1:]
	}
	return s
}

// More reports whether another top-level block may follow.
func (d *Document) More() bool {
	return d.body.Remaining() > 0
}

// Next reads the next top-level block.
func (d *Document) Next(allowed ...Token) (Block, error) {
	return d.body.ReadSubBlock(allowed...)
}

// Root reads the first top-level block and requires it to be tok. A root
// record that cannot be read is a FormatError.
func (d *Document) Root(tok Token) (Block, error) {
	b, err := d.body.ReadSubBlock()
	if err != nil {
		return nil, &FormatError{Path: d.Path, Reason: "read root block", Err: err}
	}
	if b.Token() != tok {
		return nil, &FormatError{Path: d.Path, Reason: fmt.Sprintf("root block is %s, expected %s", b.Name(), tok)}
	}
	return b, nil
}

// Blocks reads every remaining top-level block in file order. Vehicle
// files hold their Wagon and Engine blocks side by side without an
// enclosing block. Trailing data that does not frame a block ends the walk
// once at least one block was read.
func (d *Document) Blocks() ([]Block, error) {
	var blocks []Block
	for d.More() {
		b, err := d.body.ReadSubBlock()
		if err != nil {
			if len(blocks) == 0 {
				return nil, &FormatError{Path: d.Path, Reason: "read top-level block", Err: err}
			}
			break
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}
