// Package parser is the top-level library surface: Parser owns the arena
// and loaded dictionary, and exposes the encoder (typed setters + ToBytes)
// and decoder (Decode, PreviewHeader) described in spec.md §4.E-§4.G.
// Grounded on fix_parser.c's FIXParser struct and fix_parser_create /
// fix_parser_str_to_msg / fix_parser_get_header.
package parser

import (
	"fixengine/arena"
	"fixengine/dict"
	"fixengine/message"
	"fixengine/protocol"
)

// Flags is the bit set of validation switches fix_parser_create's attrs
// accepted, renamed from PARSER_FLAG_* to exported Go constants.
type Flags int

const (
	CheckCRC Flags = 1 << iota
	CheckRequired
	CheckExisting
	CheckValue
)

// Config mirrors FIXParserAttrs plus the Flags bit set.
type Config struct {
	PageSize  int
	NumPages  int
	MaxPages  int
	NumGroups int
	MaxGroups int
	Flags     Flags
}

func (c Config) arenaConfig() arena.Config {
	return arena.Config{
		PageSize: c.PageSize, NumPages: c.NumPages, MaxPages: c.MaxPages,
		NumGroups: c.NumGroups, MaxGroups: c.MaxGroups,
	}
}

// Parser is one ownership island (spec.md §5): single-threaded, owning a
// page/group pool and the last-error slot every non-header-preview call
// updates, for callers that prefer the original's last-error discipline
// over handling the returned *protocol.Error directly.
type Parser struct {
	dict  *dict.Dictionary
	arena *message.Arena
	flags Flags

	lastErr *protocol.Error
}

// New validates cfg and pre-allocates the page/group pools, mirroring
// fix_parser_create.
func New(d *dict.Dictionary, cfg Config) (*Parser, *protocol.Error) {
	if d == nil {
		return nil, protocol.NewError(protocol.ErrInvalidArgument, "nil dictionary")
	}
	ac := cfg.arenaConfig()
	if err := ac.Validate(); err != nil {
		return nil, err
	}
	return &Parser{
		dict:  d,
		arena: message.NewArena(ac),
		flags: cfg.Flags,
	}, nil
}

// Version reports the protocol version the loaded dictionary was compiled
// for.
func (p *Parser) Version() protocol.Version { return p.dict.Version }

// LastError returns the error record from the most recent failing call,
// the C-style counterpart to that call's own *protocol.Error return.
func (p *Parser) LastError() *protocol.Error { return p.lastErr }

func (p *Parser) fail(err *protocol.Error) *protocol.Error {
	p.lastErr = err
	return err
}

// Stats exposes the arena's pool sizes, used by callers verifying the
// pool-non-growth property (spec.md §8).
func (p *Parser) Stats() arena.Stats { return p.arena.Stats() }

// NewMessage creates a message for msgType, borrowing a root group header
// from the parser's pool.
func (p *Parser) NewMessage(msgType string) (*message.Message, *protocol.Error) {
	descr, ok := p.dict.Message(msgType)
	if !ok {
		return nil, p.fail(protocol.NewError(protocol.ErrUnknownMsg, "unknown msgtype %q", msgType))
	}
	msg, err := message.New(p.arena, descr)
	if err != nil {
		return nil, p.fail(err)
	}
	return msg, nil
}

// rootPlan is the canonical root-level field order and lookup table for one
// message type: header fields (excluding the three anchors and MsgType,
// which are emitted at fixed positions) followed by the message's own body
// fields in descriptor order, mirroring spec.md §4.E step 2.
func (p *Parser) rootPlan(msgDescr *dict.MessageDescr) ([]int, map[int]*dict.FieldDescr) {
	byTag := map[int]*dict.FieldDescr{}
	var order []int
	if p.dict.Header != nil {
		for _, tag := range p.dict.Header.Order {
			if tag == message.TagBeginString || tag == message.TagBodyLength ||
				tag == message.TagCheckSum || tag == message.TagMsgType {
				continue
			}
			order = append(order, tag)
			byTag[tag] = p.dict.Header.ByTag[tag]
		}
	}
	for _, tag := range msgDescr.Order {
		if _, exists := byTag[tag]; !exists {
			order = append(order, tag)
		}
		byTag[tag] = msgDescr.ByTag[tag]
	}
	return order, byTag
}
