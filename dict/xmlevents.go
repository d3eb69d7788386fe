package dict

import (
	"encoding/xml"
	"io"

	"fixengine/protocol"
)

// node is a generic XML element tree: element name, its attributes keyed by
// local name, and ordered children. This is the "event-stream adapter"
// spec.md §4.C calls external — here it is the stdlib's xml.Decoder.Token(),
// consumed only as a start/end/attr-lookup stream and folded into a tree,
// never via struct-tag unmarshaling. The dictionary compiler below only
// ever asks a node for its name, its attributes, and its children: it never
// depends on the adapter being encoding/xml specifically.
type node struct {
	name     string
	attrs    map[string]string
	children []*node
	text     string
}

func (n *node) attr(key string) (string, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

func (n *node) requireAttr(key string) (string, *protocol.Error) {
	v, ok := n.attrs[key]
	if !ok {
		return "", protocol.NewError(protocol.ErrXMLAttrNotFound, "<%s> missing required attribute %q", n.name, key)
	}
	return v, nil
}

// childrenNamed returns direct children whose element name matches name.
func (n *node) childrenNamed(name string) []*node {
	var out []*node
	for _, c := range n.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

func (n *node) firstChildNamed(name string) (*node, bool) {
	for _, c := range n.children {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// parseTree folds the token stream from r into a single root node, mirroring
// a SAX (element_start, element_end) walk with an explicit stack instead of
// recursive callbacks.
func parseTree(r io.Reader) (*node, *protocol.Error) {
	dec := xml.NewDecoder(r)
	var stack []*node
	var root *node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, protocol.NewError(protocol.ErrProtocolXMLLoadFailed, "xml read failed: %v", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local, attrs: map[string]string{}}
			for _, a := range t.Attr {
				n.attrs[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, protocol.NewError(protocol.ErrProtocolXMLLoadFailed, "unbalanced xml: unexpected </%s>", t.Name.Local)
			}
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				root = n
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}
		}
	}
	if root == nil {
		return nil, protocol.NewError(protocol.ErrProtocolXMLLoadFailed, "empty xml document")
	}
	return root, nil
}
