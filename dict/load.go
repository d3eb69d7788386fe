package dict

import (
	"io"
	"strconv"

	"fixengine/protocol"
)

// registryEntry is the canonical, tag-keyed declaration of a field from
// <fields>: name, wire type, and allowed values. Message/group/component
// references copy this into a new FieldDescr per reference (see fieldRef
// below): the AllowedValues set is the same map shared by every reference,
// each reference's Required flag stays local to the context it was declared
// in, and every group reference compiles its own NestedFields table (see
// groupRef).
type registryEntry struct {
	tag           int
	name          string
	typ           protocol.FieldValueType
	allowedValues map[string]struct{}
}

type loader struct {
	byTag  map[int]*registryEntry
	byName map[string]*registryEntry

	components map[string]*node // raw <component> definitions, resolved lazily
	resolving  map[string]bool  // cycle guard while inlining components
}

// Load compiles a protocol XML document (read from r) into a Dictionary,
// mirroring fix_parser_create's dictionary walk in the original sources but
// expressed as two passes over an in-memory tree: first the field-type
// registry, then message/header/trailer compilation with component
// inlining and recursive group tables.
func Load(r io.Reader) (*Dictionary, *protocol.Error) {
	root, perr := parseTree(r)
	if perr != nil {
		return nil, perr
	}
	if root.name != "fix" {
		return nil, protocol.NewError(protocol.ErrProtocolXMLLoadFailed, "root element is <%s>, want <fix>", root.name)
	}

	major, perr := root.requireAttr("major")
	if perr != nil {
		return nil, perr
	}
	minor, perr := root.requireAttr("minor")
	if perr != nil {
		return nil, perr
	}
	version, ok := protocol.ParseVersion("FIX." + major + "." + minor)
	if !ok {
		return nil, protocol.NewError(protocol.ErrWrongProtocolVer, "unknown protocol version FIX.%s.%s", major, minor)
	}

	ld := &loader{
		byTag:      map[int]*registryEntry{},
		byName:     map[string]*registryEntry{},
		components: map[string]*node{},
		resolving:  map[string]bool{},
	}

	fieldsNode, ok := root.firstChildNamed("fields")
	if !ok {
		return nil, protocol.NewError(protocol.ErrXMLAttrNotFound, "<fix> missing <fields>")
	}
	if perr := ld.loadRegistry(fieldsNode); perr != nil {
		return nil, perr
	}

	if compsNode, ok := root.firstChildNamed("components"); ok {
		for _, c := range compsNode.childrenNamed("component") {
			name, perr := c.requireAttr("name")
			if perr != nil {
				return nil, perr
			}
			ld.components[name] = c
		}
	}

	dict := &Dictionary{
		Version:  version,
		Fields:   map[int]*FieldDescr{},
		Messages: map[string]*MessageDescr{},
	}
	for _, e := range ld.byTag {
		dict.Fields[e.tag] = &FieldDescr{
			Tag:           e.tag,
			Name:          e.name,
			Type:          e.typ,
			Category:      Value,
			AllowedValues: e.allowedValues,
		}
	}

	if hdr, ok := root.firstChildNamed("header"); ok {
		m, perr := ld.compileFieldTable(hdr.children)
		if perr != nil {
			return nil, perr
		}
		dict.Header = &MessageDescr{Name: "header", ByTag: toByTag(m), Order: toOrder(m)}
	}
	if trl, ok := root.firstChildNamed("trailer"); ok {
		m, perr := ld.compileFieldTable(trl.children)
		if perr != nil {
			return nil, perr
		}
		dict.Trailer = &MessageDescr{Name: "trailer", ByTag: toByTag(m), Order: toOrder(m)}
	}

	msgsNode, ok := root.firstChildNamed("messages")
	if !ok {
		return nil, protocol.NewError(protocol.ErrXMLAttrNotFound, "<fix> missing <messages>")
	}
	for _, mn := range msgsNode.childrenNamed("message") {
		name, perr := mn.requireAttr("name")
		if perr != nil {
			return nil, perr
		}
		msgType, perr := mn.requireAttr("msgtype")
		if perr != nil {
			return nil, perr
		}
		if _, dup := dict.Messages[msgType]; dup {
			return nil, protocol.NewError(protocol.ErrDuplicateFieldDescr, "duplicate message descriptor for msgtype %q", msgType)
		}
		fields, perr := ld.compileFieldTable(mn.children)
		if perr != nil {
			return nil, perr
		}
		dict.Messages[msgType] = &MessageDescr{
			MsgType: msgType,
			Name:    name,
			Order:   toOrder(fields),
			ByTag:   toByTag(fields),
		}
	}

	return dict, nil
}

func (ld *loader) loadRegistry(fieldsNode *node) *protocol.Error {
	for _, fn := range fieldsNode.childrenNamed("field") {
		numStr, perr := fn.requireAttr("number")
		if perr != nil {
			return perr
		}
		name, perr := fn.requireAttr("name")
		if perr != nil {
			return perr
		}
		typStr, perr := fn.requireAttr("type")
		if perr != nil {
			return perr
		}
		tag, err := strconv.Atoi(numStr)
		if err != nil {
			return protocol.NewError(protocol.ErrXMLAttrWrongValue, "<field> number=%q is not an integer", numStr)
		}
		typ := protocol.ParseFieldValueType(typStr)
		if typ == protocol.Unknown {
			return protocol.NewError(protocol.ErrXMLAttrWrongValue, "<field name=%q> has unknown type %q", name, typStr)
		}
		if _, dup := ld.byTag[tag]; dup {
			return protocol.NewError(protocol.ErrDuplicateFieldDescr, "duplicate field descriptor for tag %d (%s)", tag, name)
		}
		entry := &registryEntry{tag: tag, name: name, typ: typ}
		if values := fn.childrenNamed("value"); len(values) > 0 {
			entry.allowedValues = map[string]struct{}{}
			for _, v := range values {
				enum, perr := v.requireAttr("enum")
				if perr != nil {
					return perr
				}
				entry.allowedValues[enum] = struct{}{}
			}
		}
		ld.byTag[tag] = entry
		ld.byName[name] = entry
	}
	return nil
}

// fieldTable is an ordered, deduplicated accumulation of *FieldDescr used
// while compiling one message, group or component's children.
type fieldTable struct {
	order []int
	byTag map[int]*FieldDescr
}

func newFieldTable() *fieldTable {
	return &fieldTable{byTag: map[int]*FieldDescr{}}
}

func (t *fieldTable) add(fd *FieldDescr) {
	if _, exists := t.byTag[fd.Tag]; !exists {
		t.order = append(t.order, fd.Tag)
	}
	t.byTag[fd.Tag] = fd
}

func toOrder(t *fieldTable) []int { return t.order }
func toByTag(t *fieldTable) map[int]*FieldDescr {
	return t.byTag
}

// compileFieldTable walks the children of a <message>, <header>, <trailer>,
// <component> or <group> element, resolving <field>, <component> and
// <group> references into FieldDescrs in declaration order.
func (ld *loader) compileFieldTable(children []*node) (*fieldTable, *protocol.Error) {
	table := newFieldTable()
	for _, child := range children {
		switch child.name {
		case "field":
			fd, perr := ld.fieldRef(child)
			if perr != nil {
				return nil, perr
			}
			table.add(fd)
		case "group":
			fd, perr := ld.groupRef(child)
			if perr != nil {
				return nil, perr
			}
			table.add(fd)
		case "component":
			name, perr := child.requireAttr("name")
			if perr != nil {
				return nil, perr
			}
			compNode, ok := ld.components[name]
			if !ok {
				return nil, protocol.NewError(protocol.ErrXMLAttrWrongValue, "unresolved component reference %q", name)
			}
			if ld.resolving[name] {
				return nil, protocol.NewError(protocol.ErrProtocolXMLLoadFailed, "cyclic component reference %q", name)
			}
			ld.resolving[name] = true
			inlined, perr := ld.compileFieldTable(compNode.children)
			delete(ld.resolving, name)
			if perr != nil {
				return nil, perr
			}
			for _, tag := range inlined.order {
				table.add(inlined.byTag[tag])
			}
		default:
			// Unknown sibling elements are tolerated per spec.md §6.
		}
	}
	return table, nil
}

// fieldRef resolves a <field name=N required=Y/N> reference against the
// registry, cloning the registry entry into a standalone value FieldDescr
// with this reference's required-ness.
func (ld *loader) fieldRef(n *node) (*FieldDescr, *protocol.Error) {
	name, perr := n.requireAttr("name")
	if perr != nil {
		return nil, perr
	}
	entry, ok := ld.byName[name]
	if !ok {
		return nil, protocol.NewError(protocol.ErrUnknownField, "field reference to undeclared field %q", name)
	}
	required := false
	if v, ok := n.attr("required"); ok {
		required = v == "Y"
	}
	return &FieldDescr{
		Tag:           entry.tag,
		Name:          entry.name,
		Type:          entry.typ,
		Category:      Value,
		Required:      required,
		AllowedValues: entry.allowedValues,
	}, nil
}

// groupRef resolves a <group name=N required=Y/N>...</group> element: the
// group's own tag/type come from the registry entry matching its name (the
// NumInGroup counter field), and its nested table is compiled recursively
// from its children, exactly analogous to a message's table (spec.md §4.C).
func (ld *loader) groupRef(n *node) (*FieldDescr, *protocol.Error) {
	name, perr := n.requireAttr("name")
	if perr != nil {
		return nil, perr
	}
	entry, ok := ld.byName[name]
	if !ok {
		return nil, protocol.NewError(protocol.ErrUnknownField, "group reference to undeclared field %q", name)
	}
	required := false
	if v, ok := n.attr("required"); ok {
		required = v == "Y"
	}
	nested, perr := ld.compileFieldTable(n.children)
	if perr != nil {
		return nil, perr
	}
	if len(nested.order) == 0 {
		return nil, protocol.NewError(protocol.ErrProtocolXMLLoadFailed, "group %q has no nested fields", name)
	}
	return &FieldDescr{
		Tag:          entry.tag,
		Name:         entry.name,
		Type:         entry.typ,
		Category:     Group,
		Required:     required,
		Delimiter:    nested.order[0],
		NestedOrder:  nested.order,
		NestedFields: nested.byTag,
	}, nil
}
