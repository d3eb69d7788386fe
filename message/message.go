// Package message holds the field store: the per-group-instance hash-bucket
// chains and the Message root that owns a parser-borrowed arena allocation.
// Grounded on fix_field.c (fix_field_set/fix_field_del/fix_group_add/
// fix_group_get/fix_group_del) generalized from a C union-tagged struct into
// a Go interface-free tagged struct, since spec.md §9 calls for "a tagged
// variant over {Value(bytes), Group(vector<group-instance>)}" rather than
// polymorphic dispatch.
package message

import (
	"fixengine/arena"
	"fixengine/dict"
	"fixengine/internal/futils"
	"fixengine/protocol"
)

// Buckets mirrors arena.Buckets; kept as its own name so callers of this
// package never need to import arena directly for the constant.
const Buckets = arena.Buckets

// Kind distinguishes a value field from a group field, the tagged variant
// DESIGN NOTES §9 calls for.
type Kind int

const (
	KindValue Kind = iota
	KindGroup
)

// Field is one entry in a bucket chain: either a Value field (raw bytes
// owned by the arena) or a Group field (a vector of group instances).
type Field struct {
	Tag  int
	Kind Kind

	// Value fields.
	bytes []byte

	// Group fields.
	instances []*Group

	bodyLen int // cached contribution, recomputed on every mutation
	next    *Field
}

// Bytes returns a value field's raw bytes. Valid only when Kind == KindValue.
func (f *Field) Bytes() []byte { return f.bytes }

// Count returns a group field's instance count. Valid only when
// Kind == KindGroup.
func (f *Field) Count() int { return len(f.instances) }

// bucketHeader is the arena's per-group-instance bucket array: BUCKETS
// singly-linked chains of *Field, instantiated as arena.Arena[bucketHeader]'s
// group type so the arena never needs to know about Field at all.
type bucketHeader struct {
	buckets [Buckets]*Field
}

// Arena is the concrete page/group pool every Message in this library
// borrows from. It is a type alias over the generic arena.Arena instantiated
// with this package's own bucket-header type, so callers outside message
// (the parser package in particular) can hold and pass one around without
// ever naming the unexported bucketHeader type themselves.
type Arena = arena.Arena[bucketHeader]

// NewArena builds a fresh page/group pool from cfg, mirroring the pool
// pre-allocation fix_parser_create performs before any message exists.
func NewArena(cfg arena.Config) *Arena {
	return arena.New[bucketHeader](cfg)
}

// Group is a field store: the bucket-array structure backing either a
// top-level message's root fields or a single repeating-group instance
// (spec.md §3's "Group instance").
type Group struct {
	owner *Message
	head  *bucketHeader
}

func bucket(tag int) int { return tag % Buckets }

// Find looks up tag in g, returning nil if absent.
func (g *Group) Find(tag int) *Field {
	for f := g.head.buckets[bucket(tag)]; f != nil; f = f.next {
		if f.Tag == tag {
			return f
		}
	}
	return nil
}

// isAnchorTag reports whether tag is one of the three anchor fields that
// never contribute to body_len (spec.md §3 invariant).
func isAnchorTag(tag int) bool {
	return tag == TagBeginString || tag == TagBodyLength || tag == TagCheckSum
}

const (
	TagBeginString = 8
	TagBodyLength  = 9
	TagMsgType     = 35
	TagCheckSum    = 10
)

func valueBodyLen(tag, length int) int {
	if isAnchorTag(tag) {
		return 0
	}
	return futils.Digits(int64(tag)) + 1 + length + 1
}

func groupBodyLen(tag, count int) int {
	return futils.Digits(int64(tag)) + 1 + futils.Digits(int64(count)) + 1
}

// adjustBodyLen updates f's cached contribution and the owning message's
// running total by the delta.
func (g *Group) adjustBodyLen(f *Field, newLen int) {
	delta := newLen - f.bodyLen
	f.bodyLen = newLen
	if g.owner != nil {
		g.owner.bodyLen += delta
	}
}

// SetValue implements spec.md §4.D's set_value: create-or-update a value
// field in place. Fails FIELD_HAS_WRONG_TYPE if tag already names a group.
func (g *Group) SetValue(tag int, value []byte) *protocol.Error {
	if f := g.Find(tag); f != nil {
		if f.Kind != KindValue {
			return protocol.NewError(protocol.ErrFieldHasWrongType, "tag %d is a group field, not a value field", tag)
		}
		buf, err := g.owner.arena.Realloc(g.owner.alloc, f.bytes, len(value))
		if err != nil {
			return err
		}
		copy(buf, value)
		f.bytes = buf
		g.adjustBodyLen(f, valueBodyLen(tag, len(value)))
		return nil
	}
	buf, err := g.owner.arena.Alloc(g.owner.alloc, len(value))
	if err != nil {
		return err
	}
	copy(buf, value)
	f := &Field{Tag: tag, Kind: KindValue, bytes: buf}
	f.bodyLen = valueBodyLen(tag, len(value))
	g.owner.bodyLen += f.bodyLen
	b := bucket(tag)
	f.next = g.head.buckets[b]
	g.head.buckets[b] = f
	return nil
}

// Del implements spec.md §4.D's del: unlink tag's field, recursively
// releasing every group instance back to the pool first if it is a group
// field.
func (g *Group) Del(tag int) *protocol.Error {
	b := bucket(tag)
	var prev *Field
	for f := g.head.buckets[b]; f != nil; f = f.next {
		if f.Tag == tag {
			if f.Kind == KindGroup {
				for _, inst := range f.instances {
					g.owner.releaseGroupInstance(inst)
				}
			}
			if g.owner != nil {
				g.owner.bodyLen -= f.bodyLen
			}
			if prev == nil {
				g.head.buckets[b] = f.next
			} else {
				prev.next = f.next
			}
			return nil
		}
		prev = f
	}
	return protocol.NewError(protocol.ErrFieldNotFound, "tag %d not present", tag)
}

// AddGroupInstance implements spec.md §4.D's add_group_instance: create the
// group field on first use, or append a new instance to an existing one.
// Fails FIELD_HAS_WRONG_TYPE if tag already names a value field.
func (g *Group) AddGroupInstance(tag int) (*Group, *protocol.Error) {
	inst, err := g.owner.newGroupInstance()
	if err != nil {
		return nil, err
	}
	f := g.Find(tag)
	if f == nil {
		f = &Field{Tag: tag, Kind: KindGroup}
		b := bucket(tag)
		f.next = g.head.buckets[b]
		g.head.buckets[b] = f
	} else if f.Kind != KindGroup {
		g.owner.releaseGroupInstance(inst)
		return nil, protocol.NewError(protocol.ErrFieldHasWrongType, "tag %d is a value field, not a group field", tag)
	}
	f.instances = append(f.instances, inst)
	g.adjustBodyLen(f, groupBodyLen(tag, len(f.instances)))
	return inst, nil
}

// GetGroup implements spec.md §4.D's get_group.
func (g *Group) GetGroup(tag, idx int) (*Group, *protocol.Error) {
	f := g.Find(tag)
	if f == nil || f.Kind != KindGroup {
		return nil, protocol.NewError(protocol.ErrFieldNotFound, "tag %d is not a group field", tag)
	}
	if idx < 0 || idx >= len(f.instances) {
		return nil, protocol.NewError(protocol.ErrGroupWrongIndex, "index %d out of range [0,%d)", idx, len(f.instances))
	}
	return f.instances[idx], nil
}

// DelGroup implements spec.md §4.D's del_group: release instance idx, shift
// the tail left, and delete the field entirely once its count hits zero.
func (g *Group) DelGroup(tag, idx int) *protocol.Error {
	f := g.Find(tag)
	if f == nil || f.Kind != KindGroup {
		return protocol.NewError(protocol.ErrFieldNotFound, "tag %d is not a group field", tag)
	}
	if idx < 0 || idx >= len(f.instances) {
		return protocol.NewError(protocol.ErrGroupWrongIndex, "index %d out of range [0,%d)", idx, len(f.instances))
	}
	g.owner.releaseGroupInstance(f.instances[idx])
	f.instances = append(f.instances[:idx], f.instances[idx+1:]...)
	if len(f.instances) == 0 {
		return g.Del(tag)
	}
	g.adjustBodyLen(f, groupBodyLen(tag, len(f.instances)))
	return nil
}

// Message is the root of a field tree: a group instance plus the
// bookkeeping needed to free its arena allocation in one shot (spec.md §3).
type Message struct {
	Descr *dict.MessageDescr

	arena *Arena
	alloc *arena.Allocation[bucketHeader]

	Root *Group

	bodyLen int
}

// BodyLen returns the running body_len invariant (spec.md §3/§4.D).
func (m *Message) BodyLen() int { return m.bodyLen }

// New borrows a root group header from a and returns a Message ready for
// field mutation, mirroring the C library's message-creation half of
// fix_parser_create's per-message lifecycle.
func New(a *Arena, descr *dict.MessageDescr) (*Message, *protocol.Error) {
	al := &arena.Allocation[bucketHeader]{}
	head, err := a.AcquireGroup(al)
	if err != nil {
		return nil, err
	}
	m := &Message{Descr: descr, arena: a, alloc: al}
	m.Root = &Group{owner: m, head: head}
	return m, nil
}

// Free returns every page and group header this message borrowed to the
// parser's pools in O(1) (spec.md §3's lifecycle invariant): the allocation
// tracks pages/groups by the slice they were appended to, not by walking
// the field tree.
func (m *Message) Free() {
	m.arena.Free(m.alloc)
	m.Root = nil
}

func (m *Message) newGroupInstance() (*Group, *protocol.Error) {
	head, err := m.arena.AcquireGroup(m.alloc)
	if err != nil {
		return nil, err
	}
	return &Group{owner: m, head: head}, nil
}

// releaseGroupInstance recursively releases inst and every group instance
// nested inside it, mirroring fix_group_free's recursive teardown.
func (m *Message) releaseGroupInstance(inst *Group) {
	for b := 0; b < Buckets; b++ {
		for f := inst.head.buckets[b]; f != nil; f = f.next {
			m.bodyLen -= f.bodyLen
			if f.Kind == KindGroup {
				for _, nested := range f.instances {
					m.releaseGroupInstance(nested)
				}
			}
		}
	}
	m.arena.ReleaseGroup(m.alloc, inst.head)
}
