// Package stylehash produces stable content hashes of layer style
// documents. Host applications are allowed to reorder sibling elements and
// attributes when round-tripping a style, so the document is canonicalized
// before hashing: attributes and child elements are sorted recursively and
// the DOCTYPE prologue is dropped. Only a real content difference changes
// the hash.
package stylehash

import (
	"bytes"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/zeebo/blake3"
)

// ErrStyleParse is returned when the style document cannot be parsed.
// Callers cannot determine style equality in that case and should treat
// the style as changed.
var ErrStyleParse = errors.New("style parse error")

// Hash canonicalizes the style document and returns the hex-encoded
// BLAKE3 hash of its canonical form.
func Hash(styleText string) (string, error) {
	root, err := parse(styleText)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	writeCanonical(&buf, root)
	sum := blake3.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}

type element struct {
	tag      string
	attrs    []xml.Attr
	text     string
	children []*element

	// canonical holds the serialized subtree, memoized by writeCanonical
	// so sibling sorting does not re-serialize repeatedly
	canonical []byte
}

func parse(styleText string) (*element, error) {
	if strings.TrimSpace(styleText) == "" {
		return nil, fmt.Errorf("%w: empty document", ErrStyleParse)
	}
	dec := xml.NewDecoder(strings.NewReader(styleText))
	var (
		root  *element
		stack []*element
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStyleParse, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{tag: t.Name.Local}
			el.attrs = append(el.attrs, t.Attr...)
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: multiple root elements", ErrStyleParse)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: unbalanced end element", ErrStyleParse)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				if trimmed := strings.TrimSpace(string(t)); trimmed != "" {
					stack[len(stack)-1].text += trimmed
				}
			}
			// directives (DOCTYPE), comments and processing instructions
			// are not part of the functional style and are skipped
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrStyleParse)
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("%w: unclosed element", ErrStyleParse)
	}
	return root, nil
}

// writeCanonical serializes the element subtree in a normalized form:
// attributes sorted by name, children sorted by tag and then by their own
// canonical serialization, so any sibling permutation yields the same bytes.
func writeCanonical(buf *bytes.Buffer, el *element) {
	if el.canonical != nil {
		buf.Write(el.canonical)
		return
	}
	start := buf.Len()

	buf.WriteByte('<')
	buf.WriteString(el.tag)
	attrs := make([]xml.Attr, len(el.attrs))
	copy(attrs, el.attrs)
	sort.Slice(attrs, func(i, j int) bool {
		if attrs[i].Name.Space != attrs[j].Name.Space {
			return attrs[i].Name.Space < attrs[j].Name.Space
		}
		return attrs[i].Name.Local < attrs[j].Name.Local
	})
	for _, a := range attrs {
		buf.WriteByte(' ')
		if a.Name.Space != "" {
			buf.WriteString(a.Name.Space)
			buf.WriteByte(':')
		}
		buf.WriteString(a.Name.Local)
		buf.WriteString(`="`)
		_ = xml.EscapeText(buf, []byte(a.Value))
		buf.WriteByte('"')
	}
	buf.WriteByte('>')

	if el.text != "" {
		_ = xml.EscapeText(buf, []byte(el.text))
	}

	kids := make([]*element, len(el.children))
	copy(kids, el.children)
	var scratch bytes.Buffer
	for _, k := range kids {
		scratch.Reset()
		writeCanonical(&scratch, k) // memoizes k.canonical
	}
	sort.Slice(kids, func(i, j int) bool {
		if kids[i].tag != kids[j].tag {
			return kids[i].tag < kids[j].tag
		}
		return bytes.Compare(kids[i].canonical, kids[j].canonical) < 0
	})
	for _, k := range kids {
		buf.Write(k.canonical)
	}

	buf.WriteString("</")
	buf.WriteString(el.tag)
	buf.WriteByte('>')

	el.canonical = append([]byte(nil), buf.Bytes()[start:]...)
}
