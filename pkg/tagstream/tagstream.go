// Package tagstream turns an HTML document into a flat, forward-only
// sequence of tags. It does not build a tree and never looks ahead.
package tagstream

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Kind identifies what a Tag represents.
type Kind int

const (
	Opening Kind = iota
	Closing
	Text
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Opening:
		return "opening"
	case Closing:
		return "closing"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// Attribute is a single name/value pair on an opening tag.
type Attribute struct {
	Name  string
	Value string
}

// Tag is one structural or text event.
type Tag struct {
	Name       string      // lower-cased element name, empty for Text
	Kind       Kind        // Opening, Closing or Text
	Attributes []Attribute // in document order, Opening only
	Text       string      // raw, undecoded content, Text only
}

// Attr returns the value of the first attribute called name.
func (t Tag) Attr(name string) (string, bool) {
	for _, a := range t.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Source yields tags from a document one at a time.
type Source struct {
	z   *html.Tokenizer
	err error
}

// NewSource creates a Source reading from r.
func NewSource(r io.Reader) *Source {
	return &Source{z: html.NewTokenizer(r)}
}

// NewSourceString creates a Source over an in-memory document.
func NewSourceString(doc string) *Source {
	return NewSource(strings.NewReader(doc))
}

// Next returns the next tag. It returns io.EOF once the document is
// exhausted and keeps returning the same error afterwards.
func (s *Source) Next() (Tag, error) {
	if s.err != nil {
		return Tag{}, s.err
	}

	for {
		switch s.z.Next() {
		case html.ErrorToken:
			s.err = s.z.Err()
			return Tag{}, s.err

		case html.TextToken:
			// Raw aliases the tokenizer buffer; string() copies it.
			return Tag{Kind: Text, Text: string(s.z.Raw())}, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			return s.element(Opening), nil

		case html.EndTagToken:
			return s.element(Closing), nil

		default:
			// comments and doctypes carry nothing the scanner reads
		}
	}
}

func (s *Source) element(kind Kind) Tag {
	name, hasAttr := s.z.TagName()
	tag := Tag{Name: string(name), Kind: kind}
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = s.z.TagAttr()
		if kind == Closing {
			continue
		}
		tag.Attributes = append(tag.Attributes, Attribute{
			Name:  string(key),
			Value: string(val),
		})
	}
	return tag
}

// Collect drains a document into a slice. Intended for tests and small
// documents; the scanner itself consumes a Source directly.
func Collect(doc string) ([]Tag, error) {
	src := NewSourceString(doc)
	var tags []Tag
	for {
		tag, err := src.Next()
		if err == io.EOF {
			return tags, nil
		}
		if err != nil {
			return tags, err
		}
		tags = append(tags, tag)
	}
}
