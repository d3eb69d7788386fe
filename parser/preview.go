package parser

import (
	"fixengine/internal/futils"
	"fixengine/protocol"
)

// HeaderPreview is the result of PreviewHeader: the five identifying
// header fields extracted without building a message tree (spec.md §4.F).
// MsgSeqNum's presence is tracked by HasMsgSeqNum rather than by checking
// the parsed value against zero, and PreviewHeader rejects a MsgSeqNum of 0
// with PARSE_MSG, so a returned preview never carries a zero sequence number.
type HeaderPreview struct {
	BeginString  string
	MsgType      string
	SenderCompID string
	TargetCompID string
	MsgSeqNum    int64
	HasMsgSeqNum bool
}

const (
	tagSenderCompID = 49
	tagTargetCompID = 56
	tagMsgSeqNum    = 34
)

// PreviewHeader extracts BeginString, MsgType, SenderCompID, TargetCompID
// and MsgSeqNum from buf without a Parser or dictionary, mirroring
// fix_parser_get_header's separately-owned error record: no parser exists
// yet when this runs, so failure is returned directly rather than recorded
// on a Parser's last-error slot.
func PreviewHeader(buf []byte, delim byte) (*HeaderPreview, *protocol.Error) {
	tag, val, pos, perr := nextField(buf, 0, delim)
	if perr != nil {
		return nil, perr
	}
	if tag != 8 {
		return nil, protocol.NewError(protocol.ErrWrongField, "first field is tag %d, want BeginString", tag)
	}
	preview := &HeaderPreview{BeginString: string(val)}

	tag, val, pos, perr = nextField(buf, pos, delim)
	if perr != nil {
		return nil, perr
	}
	if tag != 9 {
		return nil, protocol.NewError(protocol.ErrWrongField, "second field is tag %d, want BodyLength", tag)
	}
	bodyLength, aerr := futils.AsciiToI64(val, 0)
	if aerr != nil {
		return nil, protocol.NewError(protocol.ErrParseMsg, "bad BodyLength: %v", aerr)
	}
	bodyEnd := pos + int(bodyLength)
	if bodyEnd+checksumFieldLen > len(buf) {
		return nil, protocol.NewError(protocol.ErrDataTooShort, "need %d bytes after BodyLength, have %d", bodyEnd+checksumFieldLen-pos, len(buf)-pos)
	}

	tag, val, pos, perr = nextField(buf, pos, delim)
	if perr != nil {
		return nil, perr
	}
	if tag != 35 {
		return nil, protocol.NewError(protocol.ErrWrongField, "third field is tag %d, want MsgType", tag)
	}
	preview.MsgType = string(val)

	for pos < bodyEnd && !(preview.SenderCompID != "" && preview.TargetCompID != "" && preview.HasMsgSeqNum) {
		tag, val, pos, perr = nextField(buf, pos, delim)
		if perr != nil {
			return nil, perr
		}
		switch tag {
		case tagSenderCompID:
			preview.SenderCompID = string(val)
		case tagTargetCompID:
			preview.TargetCompID = string(val)
		case tagMsgSeqNum:
			seq, aerr := futils.AsciiToI64(val, 0)
			if aerr != nil {
				return nil, protocol.NewError(protocol.ErrParseMsg, "bad MsgSeqNum: %v", aerr)
			}
			if seq == 0 {
				return nil, protocol.NewError(protocol.ErrParseMsg, "MsgSeqNum must not be zero")
			}
			preview.MsgSeqNum = seq
			preview.HasMsgSeqNum = true
		}
	}
	return preview, nil
}
