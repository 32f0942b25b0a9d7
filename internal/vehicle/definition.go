package vehicle

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"github.com/vk/kujuconsist/internal/kuju"
)

// definition is one top-level Engine or Wagon block of a vehicle file.
// The payload is kept rather than the block so each use starts from a
// fresh cursor.
type definition struct {
	path    string
	token   kuju.Token
	name    string
	key     string
	payload []byte
	kind    kuju.PayloadKind
	enc     kuju.Encoding
}

func (d *definition) open() kuju.Block {
	if d.kind == kuju.PayloadTextual {
		return kuju.NewTextualBlock(string(d.payload), d.token)
	}
	return kuju.NewBinaryBlock(d.payload, d.token, d.enc)
}

func lookupDefinition(defs []definition, tok kuju.Token, key string) *definition {
	for i := range defs {
		if defs[i].token == tok && defs[i].key == key {
			return &defs[i]
		}
	}
	return nil
}

// readDefinitions decodes a vehicle file and collects its top-level
// Engine and Wagon blocks in file order. Other top-level blocks are
// skipped.
func readDefinitions(ctx context.Context, path string) ([]definition, error) {
	doc, err := kuju.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	blocks, err := doc.Blocks()
	if err != nil {
		return nil, err
	}

	fold := cases.Fold()
	var defs []definition
	for _, b := range blocks {
		if b.Token() != kuju.TokenEngine && b.Token() != kuju.TokenWagon {
			continue
		}
		payload := b.Payload()
		name, err := b.ReadString()
		if err != nil {
			continue
		}
		name = strings.TrimSpace(name)
		defs = append(defs, definition{
			path:    path,
			token:   b.Token(),
			name:    name,
			key:     fold.String(name),
			payload: payload,
			kind:    doc.Header.Kind,
			enc:     doc.Header.Encoding,
		})
	}
	return defs, nil
}
