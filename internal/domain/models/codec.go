package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Indent is the indentation used for the persisted document.
const Indent = "    "

// MarshalJSON encodes the document as an object of objects of numbers, keeping insertion order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range d.groups {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, g.Name); err != nil {
			return nil, err
		}
		buf.WriteString(":{")
		for j, e := range g.Entries {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(&buf, e.Name); err != nil {
				return nil, err
			}
			buf.WriteByte(':')
			p, err := json.Marshal(e.Percent)
			if err != nil {
				return nil, fmt.Errorf("percent of %q in %q: %w", e.Name, g.Name, err)
			}
			buf.Write(p)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeString writes s as a JSON string without HTML escaping.
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// Encode writes the document to w, pretty-printed and newline terminated.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	return enc.Encode(d)
}

// UnmarshalJSON decodes data with the same rules as Decode.
func (d *Document) UnmarshalJSON(data []byte) error {
	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}

// Decode reads a document from r.
// It fails unless the input is a single object of objects of positive numbers.
// Empty groups are dropped; a repeated entry name overwrites the earlier one.
func Decode(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	doc := NewDocument()
	if err := expectDelim(dec, '{', "document"); err != nil {
		return nil, err
	}
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if err = ValidateGroupName(name); err != nil {
			return nil, err
		}
		g, err := decodeGroup(dec, name)
		if err != nil {
			return nil, err
		}
		if i := doc.index(name); i >= 0 {
			doc.groups = append(doc.groups[:i], doc.groups[i+1:]...)
		}
		if g.Len() > 0 {
			doc.groups = append(doc.groups, g)
		}
	}
	if err := expectDelim(dec, '}', "document"); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after document")
	}
	return doc, nil
}

func decodeGroup(dec *json.Decoder, name string) (*Group, error) {
	if err := expectDelim(dec, '{', fmt.Sprintf("group %q", name)); err != nil {
		return nil, err
	}
	g := &Group{Name: name}
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		num, ok := tok.(json.Number)
		if !ok {
			return nil, fmt.Errorf("percent of %q in %q is not a number", key, name)
		}
		p, err := num.Float64()
		if err != nil {
			return nil, fmt.Errorf("percent of %q in %q: %w", key, name, err)
		}
		e := Entry{Name: key, Percent: p}
		if err = e.Validate(); err != nil {
			return nil, fmt.Errorf("entry %q in %q: %w", key, name, err)
		}
		g.Put(e)
	}
	if err := expectDelim(dec, '}', fmt.Sprintf("group %q", name)); err != nil {
		return nil, err
	}
	return g, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("unexpected token %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim, what string) error {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%s: expected %q, got %v", what, want, tok)
	}
	return nil
}
