// Package protocol holds the wire-level constants shared by every other
// package in fixengine: protocol versions, field value types and their
// family bitmasks, and the stable error-code table.
package protocol

// Version identifies a FIX protocol revision a dictionary was compiled for.
type Version int

const (
	FIX42 Version = iota
	FIX44
	FIX50
	FIX50SP1
	FIX50SP2
	FIXT11
	versionCount
)

var versionNames = map[string]Version{
	"FIX.4.2":  FIX42,
	"FIX.4.4":  FIX44,
	"FIX.5.0":  FIX50,
	"FIX.5.0SP1": FIX50SP1,
	"FIX.5.0SP2": FIX50SP2,
	"FIXT.1.1": FIXT11,
}

var beginStrings = [...]string{
	FIX42:    "FIX.4.2",
	FIX44:    "FIX.4.4",
	FIX50:    "FIX.5.0",
	FIX50SP1: "FIX.5.0SP1",
	FIX50SP2: "FIX.5.0SP2",
	FIXT11:   "FIXT.1.1",
}

// ParseVersion maps a BeginString wire token to its Version, mirroring
// str2FIXProtocolVerEnum from the original C implementation.
func ParseVersion(beginString string) (Version, bool) {
	v, ok := versionNames[beginString]
	return v, ok
}

// BeginString returns the canonical wire token for v.
func (v Version) BeginString() string {
	if v < 0 || int(v) >= len(beginStrings) {
		return ""
	}
	return beginStrings[v]
}

func (v Version) String() string {
	return v.BeginString()
}
