// Package dict compiles a FIX protocol XML description into the in-memory,
// O(1)-indexed descriptors the codec walks: a field-type registry and a set
// of message descriptors with recursive repeating-group tables. Grounded on
// the dictionary-loading half of fix_parser.c (fix_parser_create's XML walk)
// generalized from a single-pass C state machine into a tree-building Go
// loader driven by xmlevents' adapter.
package dict

import "fixengine/protocol"

// Category distinguishes a plain value field from a repeating group.
type Category int

const (
	Value Category = iota
	Group
)

// FieldDescr describes one field as declared in <fields> and referenced from
// a message, header, trailer, component or group. NestedFields is non-empty
// iff Category == Group, holding the group's own field table keyed by tag —
// a tree, never a graph, per DESIGN NOTES' cyclic-structure guidance.
type FieldDescr struct {
	Tag           int
	Name          string
	Type          protocol.FieldValueType
	Category      Category
	Required      bool
	AllowedValues map[string]struct{}

	// Delimiter is the first field listed in NestedFields' declaration
	// order; its recurrence on the wire starts a new group instance.
	Delimiter int
	// NestedOrder preserves declaration order for encoding; NestedFields
	// gives O(1) tag lookup for decoding.
	NestedOrder  []int
	NestedFields map[int]*FieldDescr
}

// MessageDescr is a fully compiled message: the ordered field list used for
// canonical encoding order, plus a tag-indexed lookup for decoding. Each
// field reference gets its own *FieldDescr carrying that reference's
// Required flag; descriptors are not shared between messages, only a
// field's AllowedValues set is.
type MessageDescr struct {
	MsgType string
	Name    string
	Order   []int
	ByTag   map[int]*FieldDescr
}

// Dictionary is the compiled result of one protocol XML: the field-type
// registry plus every message descriptor, plus the header/trailer field
// lists every message implicitly carries.
type Dictionary struct {
	Version  protocol.Version
	Fields   map[int]*FieldDescr // registry, one descriptor per tag, from <fields>
	Messages map[string]*MessageDescr
	Header   *MessageDescr // synthetic descriptor for <header>
	Trailer  *MessageDescr
}

// Field looks up a tag in the registry.
func (d *Dictionary) Field(tag int) (*FieldDescr, bool) {
	f, ok := d.Fields[tag]
	return f, ok
}

// Message looks up a message descriptor by its MsgType wire value (tag 35).
func (d *Dictionary) Message(msgType string) (*MessageDescr, bool) {
	m, ok := d.Messages[msgType]
	return m, ok
}
