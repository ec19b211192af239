package canonical

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Parse builds a Value from JSON text. Number literals are kept verbatim.
// Input nesting more than MaxDepth containers, holding duplicate object keys
// or followed by anything but whitespace is rejected.
func Parse(data []byte) (Value, error) {
	return ParseDepth(data, MaxDepth)
}

// ParseDepth is like Parse with an explicit container nesting limit.
func ParseDepth(data []byte, maxDepth int) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	p := parser{dec: dec, maxDepth: maxDepth}
	v, err := p.value(0)
	if err != nil {
		return Value{}, err
	}

	if tok, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrTrailingData, err)
		}
		return Value{}, fmt.Errorf("%w: %v", ErrTrailingData, tok)
	}
	return v, nil
}

type parser struct {
	dec      *json.Decoder
	maxDepth int
}

func (p *parser) value(depth int) (Value, error) {
	tok, err := p.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Value{kind: KindNumber, text: string(t)}, nil
	case string:
		return String(t), nil
	case json.Delim:
		if depth >= p.maxDepth {
			return Value{}, ErrTooDeep
		}
		switch t {
		case '[':
			return p.array(depth + 1)
		case '{':
			return p.object(depth + 1)
		}
	}
	return Value{}, fmt.Errorf("unexpected json token %v", tok)
}

func (p *parser) array(depth int) (Value, error) {
	items := make([]Value, 0)
	for p.dec.More() {
		v, err := p.value(depth)
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
	if err := p.closing(']'); err != nil {
		return Value{}, err
	}
	return Value{kind: KindArray, items: items}, nil
}

func (p *parser) object(depth int) (Value, error) {
	members := make([]Member, 0)
	seen := make(map[string]struct{})
	for p.dec.More() {
		tok, err := p.dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("unexpected json object key %v", tok)
		}
		if _, dup := seen[key]; dup {
			return Value{}, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
		seen[key] = struct{}{}

		v, err := p.value(depth)
		if err != nil {
			return Value{}, err
		}
		members = append(members, Member{Key: key, Value: v})
	}
	if err := p.closing('}'); err != nil {
		return Value{}, err
	}
	return Value{kind: KindObject, members: members}, nil
}

func (p *parser) closing(want json.Delim) error {
	tok, err := p.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %v, got %v", want, tok)
	}
	return nil
}
