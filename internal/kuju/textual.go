package kuju

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vk/kujuconsist/internal/units"
)

// textualBlock is a Block over the parenthesised text form:
//
//	Name ( field "quoted field" Child ( ... ) )
//
// Offsets are byte offsets into the decoded UTF-8 content.
type textualBlock struct {
	token Token
	name  string
	text  string
	pos   int
}

// NewTextualBlock wraps text as the content of a textual block tagged tok.
// Leading and trailing whitespace is not part of the content.
func NewTextualBlock(text string, tok Token) Block {
	return &textualBlock{token: tok, name: tok.String(), text: strings.TrimSpace(text)}
}

func (b *textualBlock) Token() Token    { return b.token }
func (b *textualBlock) Name() string    { return b.name }
func (b *textualBlock) Len() int        { return len(b.text) }
func (b *textualBlock) Pos() int        { return b.pos }
func (b *textualBlock) Remaining() int  { return len(b.text) - b.pos }
func (b *textualBlock) Payload() []byte { return []byte(b.text) }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == '\v'
}

func (b *textualBlock) skipSpace() {
	for b.pos < len(b.text) && isSpace(b.text[b.pos]) {
		b.pos++
	}
}

// skipSeparators skips whitespace and the commas allowed between fields.
func (b *textualBlock) skipSeparators() {
	for b.pos < len(b.text) && (isSpace(b.text[b.pos]) || b.text[b.pos] == ',') {
		b.pos++
	}
}

// readWord reads an unquoted field.
func (b *textualBlock) readWord() string {
	start := b.pos
	for b.pos < len(b.text) {
		c := b.text[b.pos]
		if isSpace(c) || c == '(' || c == ')' || c == ',' || c == '"' {
			break
		}
		b.pos++
	}
	return b.text[start:b.pos]
}

// readQuoted reads a double-quoted field; the cursor is on the opening quote.
func (b *textualBlock) readQuoted() (string, error) {
	b.pos++
	var sb strings.Builder
	for b.pos < len(b.text) {
		c := b.text[b.pos]
		switch c {
		case '"':
			b.pos++
			return sb.String(), nil
		case '\\':
			if b.pos+1 >= len(b.text) {
				b.pos = len(b.text)
				return "", fmt.Errorf("%w: dangling escape", ErrEndOfBlock)
			}
			switch esc := b.text[b.pos+1]; esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(esc)
			}
			b.pos += 2
		default:
			sb.WriteByte(c)
			b.pos++
		}
	}
	return "", fmt.Errorf("%w: unterminated string", ErrEndOfBlock)
}

// readField reads the next string field, joining `"a" + "b"` concatenations.
func (b *textualBlock) readField() (string, error) {
	b.skipSeparators()
	if b.pos >= len(b.text) {
		return "", ErrEndOfBlock
	}
	switch b.text[b.pos] {
	case '(', ')':
		return "", fmt.Errorf("unexpected %q at offset %d of %s", b.text[b.pos], b.pos, b.name)
	case '"':
	default:
		return b.readWord(), nil
	}

	s, err := b.readQuoted()
	if err != nil {
		return "", err
	}
	for {
		mark := b.pos
		b.skipSpace()
		if b.pos >= len(b.text) || b.text[b.pos] != '+' {
			b.pos = mark
			return s, nil
		}
		b.pos++
		b.skipSpace()
		if b.pos >= len(b.text) || b.text[b.pos] != '"' {
			return "", fmt.Errorf("expected string after '+' in %s", b.name)
		}
		next, err := b.readQuoted()
		if err != nil {
			return "", err
		}
		s += next
	}
}

// matchParen returns the offset of the ')' closing the '(' at open.
func (b *textualBlock) matchParen(open int) (int, bool) {
	depth := 0
	inQuote := false
	for i := open; i < len(b.text); i++ {
		c := b.text[i]
		if inQuote {
			if c == '\\' {
				i++
			} else if c == '"' {
				inQuote = false
			}
			continue
		}
		switch c {
		case '"':
			inQuote = true
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func (b *textualBlock) ReadSubBlock(allowed ...Token) (Block, error) {
	b.skipSpace()
	if b.pos >= len(b.text) {
		return nil, ErrEndOfBlock
	}
	name := b.readWord()
	if name == "" {
		return nil, fmt.Errorf("%w: found %q at offset %d of %s", ErrNotABlock, b.text[b.pos], b.pos, b.name)
	}
	b.skipSpace()
	if b.pos >= len(b.text) || b.text[b.pos] != '(' {
		return nil, fmt.Errorf("%w: %q is not followed by '('", ErrNotABlock, name)
	}
	end, ok := b.matchParen(b.pos)
	if !ok {
		b.pos = len(b.text)
		return nil, fmt.Errorf("%w: unbalanced parentheses in %q", ErrTruncated, name)
	}
	child := &textualBlock{
		token: LookupToken(name),
		name:  name,
		text:  strings.TrimSpace(b.text[b.pos+1 : end]),
	}
	b.pos = end + 1
	if !tokenIn(child.token, allowed) {
		return nil, &UnexpectedTokenError{Got: child.token, Allowed: allowed}
	}
	return child, nil
}

func (b *textualBlock) ReadString() (string, error) {
	return b.readField()
}

func (b *textualBlock) ReadStringArray() ([]string, error) {
	var out []string
	for {
		b.skipSeparators()
		if b.pos >= len(b.text) {
			return out, nil
		}
		s, err := b.readField()
		if err != nil {
			return out, err
		}
		out = append(out, s)
	}
}

func (b *textualBlock) readInt(bits int) (int64, error) {
	f, err := b.readField()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(f, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", units.ErrNotNumeric, f)
	}
	return v, nil
}

func (b *textualBlock) readUint(bits int) (uint64, error) {
	f, err := b.readField()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(f, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", units.ErrNotNumeric, f)
	}
	return v, nil
}

func (b *textualBlock) ReadInt16() (int16, error) {
	v, err := b.readInt(16)
	return int16(v), err
}

func (b *textualBlock) ReadUInt16() (uint16, error) {
	v, err := b.readUint(16)
	return uint16(v), err
}

func (b *textualBlock) ReadInt32() (int32, error) {
	v, err := b.readInt(32)
	return int32(v), err
}

func (b *textualBlock) ReadUInt32() (uint32, error) {
	v, err := b.readUint(32)
	return uint32(v), err
}

func (b *textualBlock) ReadSingle(u units.Unit) (float64, error) {
	f, err := b.readField()
	if err != nil {
		return 0, err
	}
	return units.Convert(f, u)
}
