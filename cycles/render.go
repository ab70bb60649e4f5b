package cycles

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const indentUnit = "  "

var errNoRoot = errors.New("cycles: document has no root element")

// Encode serializes the document as compact XML without a declaration.
func (d *Document) Encode() ([]byte, error) {
	if d.Root == nil {
		return nil, errNoRoot
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := encodeElement(enc, d.Root); err != nil {
		return nil, fmt.Errorf("cycles: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("cycles: %w", err)
	}

	return buf.Bytes(), nil
}

func encodeElement(enc *xml.Encoder, el *Element) error {
	start := xml.StartElement{Name: xml.Name{Local: el.Name}}
	for _, attr := range el.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: attr.Key}, Value: attr.Value})
	}

	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if el.Text != "" {
		if err := enc.EncodeToken(xml.CharData(el.Text)); err != nil {
			return err
		}
	}
	for _, child := range el.Children {
		if err := encodeElement(enc, child); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// Parse reads an XML document. Comments, processing instructions and
// directives are ignored; character data is kept as element text.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)

	var root *Element
	var stack []*Element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cycles: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := NewElement(t.Name.Local)
			for _, attr := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Key: attr.Name.Local, Value: attr.Value})
			}

			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("cycles: document has more than one root element")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) != 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, errNoRoot
	}
	return &Document{Root: root}, nil
}

// Render strips the document, encodes it, parses the encoded form back and
// emits it with an XML declaration, two-space indentation, self-closing empty
// elements and a trailing newline.
func (d *Document) Render() ([]byte, error) {
	if d.Root == nil {
		return nil, errNoRoot
	}
	d.Strip()

	compact, err := d.Encode()
	if err != nil {
		return nil, err
	}

	reparsed, err := Parse(bytes.NewReader(compact))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	writeIndented(&buf, reparsed.Root, 0)
	return buf.Bytes(), nil
}

func writeIndented(buf *bytes.Buffer, el *Element, depth int) {
	indent := strings.Repeat(indentUnit, depth)

	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(el.Name)
	for _, attr := range el.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(attr.Key)
		buf.WriteString(`="`)
		xml.EscapeText(buf, []byte(attr.Value))
		buf.WriteByte('"')
	}

	if len(el.Children) == 0 {
		buf.WriteString("/>\n")
		return
	}

	buf.WriteString(">\n")
	for _, child := range el.Children {
		writeIndented(buf, child, depth+1)
	}
	buf.WriteString(indent)
	buf.WriteString("</")
	buf.WriteString(el.Name)
	buf.WriteString(">\n")
}
