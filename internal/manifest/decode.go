package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Decodes a JSON value into an export tree node, preserving object key order.
func decodeNode(data []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	n, err := readNode(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after exports value")
	}
	return n, nil
}

// Reads the next complete value from the decoder.
func readNode(dec *json.Decoder) (Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case string:
		return &Leaf{Path: t}, nil
	case nil:
		return &Leaf{Null: true}, nil
	case bool:
		return &Invalid{Kind: "boolean"}, nil
	case json.Number:
		return &Invalid{Kind: "number"}, nil
	case json.Delim:
		if t == '[' {
			if err := skipArray(dec); err != nil {
				return nil, err
			}
			return &Invalid{Kind: "array"}, nil
		}
		return readBranch(dec)
	}

	return nil, fmt.Errorf("unexpected token %v", tok)
}

// Reads object members up to and including the closing brace. The opening
// brace has already been consumed.
func readBranch(dec *json.Decoder) (*Branch, error) {
	b := &Branch{Values: make(map[string]Node)}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}

		n, err := readNode(dec)
		if err != nil {
			return nil, err
		}
		b.set(key, n)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return b, nil
}

// Consumes an array whose opening bracket has already been read.
func skipArray(dec *json.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '[', '{':
				depth++
			case ']', '}':
				depth--
			}
		}
	}
	return nil
}

// Returns the keys of a JSON object in declaration order.
//
// Used for dependency maps so that the externals list is stable across runs.
func objectKeys(data []byte) ([]string, error) {
	n, err := decodeNode(data)
	if err != nil {
		return nil, err
	}
	b, ok := n.(*Branch)
	if !ok {
		return nil, fmt.Errorf("expected an object")
	}
	return b.Keys, nil
}
