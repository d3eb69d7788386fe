package parser

import (
	"strconv"

	"fixengine/internal/futils"
	"fixengine/message"
	"fixengine/protocol"
)

// Typed setters accept a parent group (a message's Root or any nested group
// instance) and a tag, converting the value to canonical ASCII and
// delegating to the field store, per spec.md §4.E.

func SetInt32(g *message.Group, tag int, v int32) *protocol.Error {
	return g.SetValue(tag, futils.FormatInt(int64(v)))
}

func SetInt64(g *message.Group, tag int, v int64) *protocol.Error {
	return g.SetValue(tag, futils.FormatInt(v))
}

func SetChar(g *message.Group, tag int, v byte) *protocol.Error {
	return g.SetValue(tag, []byte{v})
}

func SetFloat(g *message.Group, tag int, v float32) *protocol.Error {
	return g.SetValue(tag, futils.FormatFloat(float64(v)))
}

func SetDouble(g *message.Group, tag int, v float64) *protocol.Error {
	return g.SetValue(tag, futils.FormatFloat(v))
}

func SetString(g *message.Group, tag int, v string) *protocol.Error {
	return g.SetValue(tag, []byte(v))
}

func SetRaw(g *message.Group, tag int, v []byte) *protocol.Error {
	return g.SetValue(tag, v)
}

// Typed getters are the decoder's counterpart: parse a stored field's bytes
// back into the requested Go type.

func field(g *message.Group, tag int) ([]byte, *protocol.Error) {
	f := g.Find(tag)
	if f == nil {
		return nil, protocol.NewError(protocol.ErrFieldNotFound, "tag %d not present", tag)
	}
	if f.Kind != message.KindValue {
		return nil, protocol.NewError(protocol.ErrFieldHasWrongType, "tag %d is a group field, not a value field", tag)
	}
	return f.Bytes(), nil
}

func GetInt64(g *message.Group, tag int) (int64, *protocol.Error) {
	b, err := field(g, tag)
	if err != nil {
		return 0, err
	}
	v, aerr := futils.AsciiToI64(b, 0)
	if aerr != nil {
		return 0, protocol.NewError(protocol.ErrParseMsg, "tag %d: %v", tag, aerr)
	}
	return v, nil
}

func GetInt32(g *message.Group, tag int) (int32, *protocol.Error) {
	v, err := GetInt64(g, tag)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

func GetChar(g *message.Group, tag int) (byte, *protocol.Error) {
	b, err := field(g, tag)
	if err != nil {
		return 0, err
	}
	if len(b) != 1 {
		return 0, protocol.NewError(protocol.ErrParseMsg, "tag %d: char field has length %d", tag, len(b))
	}
	return b[0], nil
}

func GetString(g *message.Group, tag int) (string, *protocol.Error) {
	b, err := field(g, tag)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func GetRaw(g *message.Group, tag int) ([]byte, *protocol.Error) {
	return field(g, tag)
}

func GetDouble(g *message.Group, tag int) (float64, *protocol.Error) {
	b, err := field(g, tag)
	if err != nil {
		return 0, err
	}
	v, perr := strconv.ParseFloat(string(b), 64)
	if perr != nil {
		return 0, protocol.NewError(protocol.ErrParseMsg, "tag %d: %v", tag, perr)
	}
	return v, nil
}

func GetFloat(g *message.Group, tag int) (float32, *protocol.Error) {
	v, err := GetDouble(g, tag)
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}
