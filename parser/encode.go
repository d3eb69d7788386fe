package parser

import (
	"bytes"
	"fmt"
	"strconv"

	"fixengine/dict"
	"fixengine/internal/futils"
	"fixengine/message"
	"fixengine/protocol"
)

// ToBytes implements spec.md §4.E's fix_msg_to_str: synthesize the anchor
// fields, serialize in canonical dictionary order, compute and splice in
// the checksum. outCap <= 0 disables the NO_MORE_SPACE bound check.
func (p *Parser) ToBytes(msg *message.Message, delim byte, outCap int) ([]byte, *protocol.Error) {
	msgDescr := msg.Descr
	if msgDescr == nil {
		return nil, p.fail(protocol.NewError(protocol.ErrInvalidArgument, "message has no descriptor"))
	}

	if msg.Root.Find(message.TagBeginString) == nil {
		if err := msg.Root.SetValue(message.TagBeginString, []byte(p.dict.Version.BeginString())); err != nil {
			return nil, p.fail(err)
		}
	}
	if msg.Root.Find(message.TagMsgType) == nil {
		if err := msg.Root.SetValue(message.TagMsgType, []byte(msgDescr.MsgType)); err != nil {
			return nil, p.fail(err)
		}
	}
	if err := msg.Root.SetValue(message.TagBodyLength, futils.FormatInt(int64(msg.BodyLen()))); err != nil {
		return nil, p.fail(err)
	}

	order, byTag := p.rootPlan(msgDescr)

	var buf bytes.Buffer
	encodeField(&buf, msg.Root, message.TagBeginString, nil, delim)
	encodeField(&buf, msg.Root, message.TagBodyLength, nil, delim)
	encodeField(&buf, msg.Root, message.TagMsgType, nil, delim)
	for _, tag := range order {
		encodeField(&buf, msg.Root, tag, byTag[tag], delim)
	}

	var cs futils.Checksum
	cs.Write(buf.Bytes())
	if err := msg.Root.SetValue(message.TagCheckSum, []byte(fmt.Sprintf("%03d", cs.Sum()))); err != nil {
		return nil, p.fail(err)
	}
	encodeField(&buf, msg.Root, message.TagCheckSum, nil, delim)

	if outCap > 0 && buf.Len() > outCap {
		return nil, p.fail(protocol.NewError(protocol.ErrNoMoreSpace, "encoded message needs %d bytes, cap is %d", buf.Len(), outCap))
	}
	return buf.Bytes(), nil
}

// encodeField writes tag's wire representation (if set in g) to buf. descr
// is only consulted for Group fields, to recurse through their nested
// field order; it may be nil for the three anchor tags and MsgType, which
// are always Value fields.
func encodeField(buf *bytes.Buffer, g *message.Group, tag int, descr *dict.FieldDescr, delim byte) {
	f := g.Find(tag)
	if f == nil {
		return
	}
	buf.WriteString(strconv.Itoa(tag))
	buf.WriteByte('=')
	switch f.Kind {
	case message.KindValue:
		buf.Write(f.Bytes())
		buf.WriteByte(delim)
	case message.KindGroup:
		buf.WriteString(strconv.Itoa(f.Count()))
		buf.WriteByte(delim)
		for i := 0; i < f.Count(); i++ {
			inst, err := g.GetGroup(tag, i)
			if err != nil {
				continue // count and instances are kept in lockstep by AddGroupInstance/DelGroup
			}
			for _, nestedTag := range descr.NestedOrder {
				encodeField(buf, inst, nestedTag, descr.NestedFields[nestedTag], delim)
			}
		}
	}
}
