// Package cycles models the XML test-scene document understood by the
// Cycles standalone renderer and renders it as pretty-printed XML.
package cycles

// Attr is a single element attribute. Attribute order is preserved.
type Attr struct {
	Key   string
	Value string
}

// Shorthand for building an attribute.
func A(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// Element is a document node. All data is carried by attributes; Text is only
// populated by Parse and is discarded by Strip.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []*Element
	Text     string
}

// Create a detached element.
func NewElement(name string, attrs ...Attr) *Element {
	return &Element{
		Name:  name,
		Attrs: attrs,
	}
}

// Append a new child element and return it.
func (e *Element) SubElement(name string, attrs ...Attr) *Element {
	child := NewElement(name, attrs...)
	e.Children = append(e.Children, child)
	return child
}

// Get the value of an attribute.
func (e *Element) Attr(key string) (string, bool) {
	for _, attr := range e.Attrs {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// Set an attribute value, replacing any existing value for key.
func (e *Element) Set(key, value string) {
	for index := range e.Attrs {
		if e.Attrs[index].Key == key {
			e.Attrs[index].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Key: key, Value: value})
}

// Find the first direct child with the given name.
func (e *Element) Find(name string) *Element {
	for _, child := range e.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// Find all direct children with the given name.
func (e *Element) FindAll(name string) []*Element {
	var out []*Element
	for _, child := range e.Children {
		if child.Name == name {
			out = append(out, child)
		}
	}
	return out
}

// Visit this element and all its descendants in document order.
func (e *Element) Walk(fn func(*Element)) {
	fn(e)
	for _, child := range e.Children {
		child.Walk(fn)
	}
}

// Count the elements with the given name in this subtree, including e.
func (e *Element) Count(name string) int {
	count := 0
	e.Walk(func(el *Element) {
		if el.Name == name {
			count++
		}
	})
	return count
}

// Document is a rooted element tree.
type Document struct {
	Root *Element
}

// Create a document with an empty root element.
func NewDocument(rootName string) *Document {
	return &Document{Root: NewElement(rootName)}
}

// Strip clears the text content of every element.
func (d *Document) Strip() {
	if d.Root == nil {
		return
	}
	d.Root.Walk(func(el *Element) {
		el.Text = ""
	})
}
