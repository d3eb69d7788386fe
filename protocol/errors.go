package protocol

import "fmt"

// ErrCode is one of the stable error codes from fix_types.h, exposed as a
// typed constant instead of C's #defines.
type ErrCode int

const (
	_ ErrCode = iota
	ErrFieldHasWrongType
	ErrFieldNotFound
	ErrGroupWrongIndex
	ErrXMLAttrNotFound
	ErrXMLAttrWrongValue
	ErrProtocolXMLLoadFailed
	ErrUnknownField
	ErrWrongProtocolVer
	ErrDuplicateFieldDescr
	ErrUnknownMsg
	ErrInvalidArgument
	ErrMalloc
	ErrUnknownProtocolDescr
	ErrNoMorePages
	ErrNoMoreGroups
	ErrTooBigPage
	ErrNoMoreSpace
	ErrParseMsg
	ErrWrongField
	ErrDataTooShort
	ErrIntegrityCheck
)

var errCodeNames = map[ErrCode]string{
	ErrFieldHasWrongType:     "FIELD_HAS_WRONG_TYPE",
	ErrFieldNotFound:         "FIELD_NOT_FOUND",
	ErrGroupWrongIndex:       "GROUP_WRONG_INDEX",
	ErrXMLAttrNotFound:       "XML_ATTR_NOT_FOUND",
	ErrXMLAttrWrongValue:     "XML_ATTR_WRONG_VALUE",
	ErrProtocolXMLLoadFailed: "PROTOCOL_XML_LOAD_FAILED",
	ErrUnknownField:          "UNKNOWN_FIELD",
	ErrWrongProtocolVer:      "WRONG_PROTOCOL_VER",
	ErrDuplicateFieldDescr:   "DUPLICATE_FIELD_DESCR",
	ErrUnknownMsg:            "UNKNOWN_MSG",
	ErrInvalidArgument:       "INVALID_ARGUMENT",
	ErrMalloc:                "MALLOC",
	ErrUnknownProtocolDescr:  "UNKNOWN_PROTOCOL_DESCR",
	ErrNoMorePages:           "NO_MORE_PAGES",
	ErrNoMoreGroups:          "NO_MORE_GROUPS",
	ErrTooBigPage:            "TOO_BIG_PAGE",
	ErrNoMoreSpace:           "NO_MORE_SPACE",
	ErrParseMsg:              "PARSE_MSG",
	ErrWrongField:            "WRONG_FIELD",
	ErrDataTooShort:          "DATA_TOO_SHORT",
	ErrIntegrityCheck:        "INTEGRITY_CHECK",
}

func (c ErrCode) String() string {
	if name, ok := errCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN_ERROR_CODE"
}

// Error is the formatted {code, text} record returned by every fallible
// operation in this library, mirroring FIXError in the original C sources.
// Callers that prefer the original's "last error on the parser" discipline
// can keep reading Parser.LastError() after a call returns a sentinel zero
// value instead of handling this return directly.
type Error struct {
	Code ErrCode
	Text string
}

func NewError(code ErrCode, format string, args ...any) *Error {
	return &Error{Code: code, Text: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Text)
}
