package parser

import (
	"bytes"
	"fmt"

	"fixengine/dict"
	"fixengine/internal/futils"
	"fixengine/message"
	"fixengine/protocol"
)

// nextField is the tokenizer primitive of spec.md §4.F: it locates '=' then
// the next delim, parsing the tag with ascii_to_i64 and returning the value
// slice plus the offset just past the consumed delimiter.
func nextField(buf []byte, pos int, delim byte) (tag int, value []byte, next int, perr *protocol.Error) {
	if pos >= len(buf) {
		return 0, nil, 0, protocol.NewError(protocol.ErrDataTooShort, "unexpected end of input at offset %d", pos)
	}
	eq := bytes.IndexByte(buf[pos:], '=')
	if eq < 0 {
		return 0, nil, 0, protocol.NewError(protocol.ErrParseMsg, "missing '=' at offset %d", pos)
	}
	eq += pos
	tagVal, aerr := futils.AsciiToI64(buf[pos:eq], 0)
	if aerr != nil {
		return 0, nil, 0, protocol.NewError(protocol.ErrParseMsg, "bad tag at offset %d: %v", pos, aerr)
	}
	rest := buf[eq+1:]
	d := bytes.IndexByte(rest, delim)
	if d < 0 {
		return 0, nil, 0, protocol.NewError(protocol.ErrParseMsg, "missing delimiter after tag %d", tagVal)
	}
	return int(tagVal), rest[:d], eq + 1 + d + 1, nil
}

// checksumFieldLen is the fixed wire length of "10=NNN<delim>": CheckSum is
// always rendered as exactly three zero-padded decimal digits (spec.md
// §4.E step 1), so "10=" + 3 digits + 1 delimiter byte is constant
// regardless of which delimiter byte is chosen.
const checksumFieldLen = 7

// Decode implements spec.md §4.F's full parse: parse(parser, bytes, len,
// delim) -> (msg, stop). On success it returns the built message and the
// offset one byte past the last consumed byte.
func (p *Parser) Decode(buf []byte, delim byte) (*message.Message, int, *protocol.Error) {
	tag, val, pos, perr := nextField(buf, 0, delim)
	if perr != nil {
		return nil, 0, p.fail(perr)
	}
	if tag != message.TagBeginString {
		return nil, 0, p.fail(protocol.NewError(protocol.ErrWrongField, "first field is tag %d, want BeginString", tag))
	}
	if string(val) != p.dict.Version.BeginString() {
		return nil, 0, p.fail(protocol.NewError(protocol.ErrWrongProtocolVer, "BeginString %q does not match loaded protocol %q", val, p.dict.Version.BeginString()))
	}

	tag, val, pos, perr = nextField(buf, pos, delim)
	if perr != nil {
		return nil, 0, p.fail(perr)
	}
	if tag != message.TagBodyLength {
		return nil, 0, p.fail(protocol.NewError(protocol.ErrWrongField, "second field is tag %d, want BodyLength", tag))
	}
	bodyLength, aerr := futils.AsciiToI64(val, 0)
	if aerr != nil {
		return nil, 0, p.fail(protocol.NewError(protocol.ErrParseMsg, "bad BodyLength: %v", aerr))
	}
	bodyEnd := pos + int(bodyLength)
	if bodyEnd+checksumFieldLen > len(buf) {
		return nil, 0, p.fail(protocol.NewError(protocol.ErrDataTooShort, "need %d bytes after BodyLength, have %d", bodyEnd+checksumFieldLen-pos, len(buf)-pos))
	}

	csTag, csVal, csNext, perr := nextField(buf, bodyEnd, delim)
	if perr != nil {
		return nil, 0, p.fail(perr)
	}
	if csTag != message.TagCheckSum {
		return nil, 0, p.fail(protocol.NewError(protocol.ErrWrongField, "expected CheckSum at offset %d, got tag %d", bodyEnd, csTag))
	}
	if p.flags&CheckCRC != 0 {
		var cs futils.Checksum
		cs.Write(buf[:bodyEnd])
		want := fmt.Sprintf("%03d", cs.Sum())
		if string(csVal) != want {
			return nil, 0, p.fail(protocol.NewError(protocol.ErrIntegrityCheck, "checksum mismatch: got %q want %q", csVal, want))
		}
	}

	tag, val, pos, perr = nextField(buf, pos, delim)
	if perr != nil {
		return nil, 0, p.fail(perr)
	}
	if tag != message.TagMsgType {
		return nil, 0, p.fail(protocol.NewError(protocol.ErrWrongField, "third field is tag %d, want MsgType", tag))
	}
	msgDescr, ok := p.dict.Message(string(val))
	if !ok {
		return nil, 0, p.fail(protocol.NewError(protocol.ErrUnknownMsg, "unknown msgtype %q", val))
	}

	msg, merr := message.New(p.arena, msgDescr)
	if merr != nil {
		return nil, 0, p.fail(merr)
	}
	if err := msg.Root.SetValue(message.TagBeginString, []byte(p.dict.Version.BeginString())); err != nil {
		msg.Free()
		return nil, 0, p.fail(err)
	}
	if err := msg.Root.SetValue(message.TagBodyLength, futils.FormatInt(bodyLength)); err != nil {
		msg.Free()
		return nil, 0, p.fail(err)
	}
	if err := msg.Root.SetValue(message.TagMsgType, val); err != nil {
		msg.Free()
		return nil, 0, p.fail(err)
	}

	order, byTag := p.rootPlan(msgDescr)

	for pos < bodyEnd {
		tag, val, pos, perr = nextField(buf, pos, delim)
		if perr != nil {
			msg.Free()
			return nil, 0, p.fail(perr)
		}
		fd, known := byTag[tag]
		if !known {
			if p.flags&CheckExisting != 0 {
				msg.Free()
				return nil, 0, p.fail(protocol.NewError(protocol.ErrUnknownField, "unknown field tag %d", tag))
			}
			continue
		}
		if p.flags&CheckValue != 0 && len(fd.AllowedValues) > 0 {
			if _, ok := fd.AllowedValues[string(val)]; !ok {
				msg.Free()
				return nil, 0, p.fail(protocol.NewError(protocol.ErrWrongField, "value %q not allowed for field %s", val, fd.Name))
			}
		}
		if fd.Category == dict.Value {
			if err := msg.Root.SetValue(tag, val); err != nil {
				msg.Free()
				return nil, 0, p.fail(err)
			}
			continue
		}

		count, aerr := futils.AsciiToI64(val, 0)
		if aerr != nil {
			msg.Free()
			return nil, 0, p.fail(protocol.NewError(protocol.ErrParseMsg, "bad group count for tag %d: %v", tag, aerr))
		}
		for i := int64(0); i < count; i++ {
			inst, gerr := msg.Root.AddGroupInstance(tag)
			if gerr != nil {
				msg.Free()
				return nil, 0, p.fail(gerr)
			}
			var gperr *protocol.Error
			pos, gperr = p.parseGroupInstance(buf, pos, bodyEnd, delim, fd, inst)
			if gperr != nil {
				msg.Free()
				return nil, 0, p.fail(gperr)
			}
		}
	}

	if p.flags&CheckRequired != 0 {
		if perr := checkRequired(msg.Root, order, byTag); perr != nil {
			msg.Free()
			return nil, 0, p.fail(perr)
		}
	}

	return msg, csNext, nil
}

// parseGroupInstance consumes exactly one occurrence of a repeating
// group's nested fields starting at pos, stopping when the next tag is
// not a member of the group's nested table or repeats the group's
// delimiter tag (spec.md §4.F step 6.d). Per the resolved Open Question
// (spec.md §9), an instance whose very first field is not the delimiter
// tag is a structural ambiguity and fails WRONG_FIELD.
func (p *Parser) parseGroupInstance(buf []byte, pos, limit int, delim byte, fd *dict.FieldDescr, inst *message.Group) (int, *protocol.Error) {
	first := true
	for pos < limit {
		tag, val, next, perr := nextField(buf, pos, delim)
		if perr != nil {
			return 0, perr
		}
		if !first && tag == fd.Delimiter {
			return pos, nil
		}
		if first && tag != fd.Delimiter {
			return 0, protocol.NewError(protocol.ErrWrongField, "group %s: expected delimiter tag %d, got %d", fd.Name, fd.Delimiter, tag)
		}
		nfd, known := fd.NestedFields[tag]
		if !known {
			if !first {
				return pos, nil
			}
			return 0, protocol.NewError(protocol.ErrWrongField, "group %s: expected delimiter tag %d, got %d", fd.Name, fd.Delimiter, tag)
		}
		if p.flags&CheckValue != 0 && len(nfd.AllowedValues) > 0 {
			if _, ok := nfd.AllowedValues[string(val)]; !ok {
				return 0, protocol.NewError(protocol.ErrWrongField, "value %q not allowed for field %s", val, nfd.Name)
			}
		}
		if nfd.Category == dict.Value {
			if err := inst.SetValue(tag, val); err != nil {
				return 0, err
			}
			pos = next
			first = false
			continue
		}
		count, aerr := futils.AsciiToI64(val, 0)
		if aerr != nil {
			return 0, protocol.NewError(protocol.ErrParseMsg, "bad nested group count for tag %d: %v", tag, aerr)
		}
		pos = next
		for i := int64(0); i < count; i++ {
			childInst, gerr := inst.AddGroupInstance(tag)
			if gerr != nil {
				return 0, gerr
			}
			var gperr *protocol.Error
			pos, gperr = p.parseGroupInstance(buf, pos, limit, delim, nfd, childInst)
			if gperr != nil {
				return 0, gperr
			}
		}
		first = false
	}
	return pos, nil
}

// checkRequired implements spec.md §4.F step 7: every required field named
// by order/byTag must be present at the message root.
func checkRequired(root *message.Group, order []int, byTag map[int]*dict.FieldDescr) *protocol.Error {
	for _, tag := range order {
		fd := byTag[tag]
		if fd == nil || !fd.Required {
			continue
		}
		if root.Find(tag) == nil {
			return protocol.NewError(protocol.ErrUnknownField, "required field %s (tag %d) missing", fd.Name, tag)
		}
	}
	return nil
}
