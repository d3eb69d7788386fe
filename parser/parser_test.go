package parser

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"fixengine/dict"
	"fixengine/internal/futils"
	"fixengine/protocol"
)

// buildRawMessage hand-assembles a wire message from body fields (fields
// listed after MsgType, before CheckSum), computing BodyLength and
// CheckSum itself. Used to construct boundary-condition inputs the typed
// encoder has no way to produce, such as a field tag absent from any
// dictionary descriptor.
func buildRawMessage(msgType string, bodyFields [][2]string, delim byte) []byte {
	var body strings.Builder
	fmt.Fprintf(&body, "35=%s%c", msgType, delim)
	for _, f := range bodyFields {
		fmt.Fprintf(&body, "%s=%s%c", f[0], f[1], delim)
	}
	head := fmt.Sprintf("8=FIX.4.4%c9=%d%c", delim, body.Len(), delim)
	prefix := head + body.String()
	var cs futils.Checksum
	cs.Write([]byte(prefix))
	return []byte(fmt.Sprintf("%s10=%03d%c", prefix, cs.Sum(), delim))
}

func loadTestDict(t *testing.T) *dict.Dictionary {
	t.Helper()
	f, err := os.Open("../testdata/FIX44.xml")
	if err != nil {
		t.Fatalf("open testdata: %v", err)
	}
	defer f.Close()
	d, perr := dict.Load(f)
	if perr != nil {
		t.Fatalf("dict.Load: %v", perr)
	}
	return d
}

func newTestParser(t *testing.T, flags Flags) *Parser {
	t.Helper()
	p, err := New(loadTestDict(t), Config{
		PageSize: 512, NumPages: 2, MaxPages: 32, NumGroups: 8, MaxGroups: 64, Flags: flags,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func buildNewOrderSingle(t *testing.T, p *Parser) []byte {
	t.Helper()
	msg, err := p.NewMessage("D")
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	fields := []struct {
		tag int
		val string
	}{
		{49, "S"}, {56, "T"}, {34, "1"}, {52, "20240101-00:00:00"},
		{11, "CL1"}, {55, "AAA"}, {54, "1"}, {38, "100"}, {44, "50.5"}, {59, "0"},
	}
	for _, fld := range fields {
		if err := SetString(msg.Root, fld.tag, fld.val); err != nil {
			t.Fatalf("SetString(%d): %v", fld.tag, err)
		}
	}
	out, err := p.ToBytes(msg, '\x01', 0)
	if err != nil {
		t.Fatalf("ToBytes: %v", err)
	}
	return out
}

func TestBuildNewOrderSingle(t *testing.T) {
	p := newTestParser(t, 0)
	out := buildNewOrderSingle(t, p)
	s := string(out)
	if !strings.HasPrefix(s, "8=FIX.4.4\x019=") {
		t.Fatalf("unexpected prefix: %q", s)
	}
	if !strings.Contains(s, "\x0135=D\x01") {
		t.Fatalf("missing MsgType field: %q", s)
	}
	if !strings.HasSuffix(s, "\x01") {
		t.Fatalf("message must end with delimiter: %q", s)
	}
	lastField := s[strings.LastIndex(s[:len(s)-1], "\x01")+1:]
	if !strings.HasPrefix(lastField, "10=") || len(lastField) != len("10=NNN\x01") {
		t.Fatalf("expected 3-digit checksum field at end, got %q", lastField)
	}
}

func TestRoundTripMarketDataGroup(t *testing.T) {
	p := newTestParser(t, 0)
	msg, err := p.NewMessage("W")
	if err != nil {
		t.Fatal(err)
	}
	inst0, err := msg.Root.AddGroupInstance(268)
	if err != nil {
		t.Fatal(err)
	}
	SetString(inst0, 269, "0")
	SetString(inst0, 270, "1.0")
	inst1, err := msg.Root.AddGroupInstance(268)
	if err != nil {
		t.Fatal(err)
	}
	SetString(inst1, 269, "1")
	SetString(inst1, 270, "2.0")

	out, err := p.ToBytes(msg, '\x01', 0)
	if err != nil {
		t.Fatalf("ToBytes: %v", err)
	}

	decoded, stop, derr := p.Decode(out, '\x01')
	if derr != nil {
		t.Fatalf("Decode: %v", derr)
	}
	if stop != len(out) {
		t.Errorf("stop = %d, want %d", stop, len(out))
	}
	group := decoded.Root.Find(268)
	if group == nil || group.Count() != 2 {
		t.Fatalf("group 268 = %+v", group)
	}
	g1, derr := decoded.Root.GetGroup(268, 1)
	if derr != nil {
		t.Fatal(derr)
	}
	v, gerr := GetString(g1, 269)
	if gerr != nil || v != "1" {
		t.Errorf("instance 1 MDEntryType = %q, err %v", v, gerr)
	}
	px, gerr := GetString(g1, 270)
	if gerr != nil || px != "2.0" {
		t.Errorf("instance 1 MDEntryPx = %q, err %v", px, gerr)
	}
}

func TestHeaderPreview(t *testing.T) {
	p := newTestParser(t, 0)
	out := buildNewOrderSingle(t, p)

	preview, perr := PreviewHeader(out, '\x01')
	if perr != nil {
		t.Fatalf("PreviewHeader: %v", perr)
	}
	if preview.BeginString != "FIX.4.4" || preview.MsgType != "D" ||
		preview.SenderCompID != "S" || preview.TargetCompID != "T" ||
		!preview.HasMsgSeqNum || preview.MsgSeqNum != 1 {
		t.Fatalf("preview = %+v", preview)
	}
}

func TestChecksumViolationFailsWithCheckCRC(t *testing.T) {
	p := newTestParser(t, CheckCRC)
	out := buildNewOrderSingle(t, p)

	corrupted := append([]byte(nil), out...)
	idx := strings.Index(string(corrupted), "55=AAA")
	corrupted[idx+3] = 'Z' // flip a body byte inside the Symbol value

	_, _, derr := p.Decode(corrupted, '\x01')
	if derr == nil || derr.Code != protocol.ErrIntegrityCheck {
		t.Fatalf("err = %v, want INTEGRITY_CHECK", derr)
	}
}

func TestUnknownTagCheckExisting(t *testing.T) {
	withExtra := buildRawMessage("D", [][2]string{
		{"11", "CL1"}, {"55", "AAA"}, {"54", "1"}, {"9999", "zz"},
	}, '\x01')

	pOff := newTestParser(t, 0)
	if _, _, derr := pOff.Decode(withExtra, '\x01'); derr != nil {
		t.Fatalf("CHECK_EXISTING off should ignore unknown tag, got %v", derr)
	}

	pOn := newTestParser(t, CheckExisting)
	_, _, derr := pOn.Decode(withExtra, '\x01')
	if derr == nil || derr.Code != protocol.ErrUnknownField {
		t.Fatalf("err = %v, want UNKNOWN_FIELD", derr)
	}
}

func TestRequiredMissingFailsNamingField(t *testing.T) {
	p := newTestParser(t, CheckRequired)
	msg, err := p.NewMessage("D")
	if err != nil {
		t.Fatal(err)
	}
	// Omit tag 55 (Symbol), required for NewOrderSingle; set every other
	// required field (including the required header fields) so Symbol is
	// unambiguously the one reported missing.
	SetString(msg.Root, 49, "S")
	SetString(msg.Root, 56, "T")
	SetString(msg.Root, 34, "1")
	SetString(msg.Root, 11, "CL1")
	SetString(msg.Root, 54, "1")
	out, err := p.ToBytes(msg, '\x01', 0)
	if err != nil {
		t.Fatal(err)
	}

	_, _, derr := p.Decode(out, '\x01')
	if derr == nil || derr.Code != protocol.ErrUnknownField || !strings.Contains(derr.Text, "Symbol") {
		t.Fatalf("err = %v, want UNKNOWN_FIELD naming Symbol", derr)
	}
}

func TestGroupWrongIndexOnOutOfRangeGet(t *testing.T) {
	p := newTestParser(t, 0)
	msg, _ := p.NewMessage("W")
	msg.Root.AddGroupInstance(268)
	if _, err := msg.Root.GetGroup(268, 5); err == nil || err.Code != protocol.ErrGroupWrongIndex {
		t.Fatalf("err = %v, want GROUP_WRONG_INDEX", err)
	}
}

func TestNoMorePagesWhenFieldBytesExceedCapacity(t *testing.T) {
	p, err := New(loadTestDict(t), Config{
		PageSize: 32, NumPages: 1, MaxPages: 2, NumGroups: 2, MaxGroups: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	msg, err := p.NewMessage("D")
	if err != nil {
		t.Fatal(err)
	}
	// Each value is 20 bytes: a 32-byte page holds only one, so the third
	// distinct field forces a third page, beyond MaxPages.
	chunk := strings.Repeat("x", 20)
	var lastErr *protocol.Error
	for i := 0; i < 10 && lastErr == nil; i++ {
		lastErr = SetString(msg.Root, 60+i, chunk)
	}
	if lastErr == nil || lastErr.Code != protocol.ErrNoMorePages {
		t.Fatalf("err = %v, want NO_MORE_PAGES", lastErr)
	}
}

func TestDataTooShort(t *testing.T) {
	p := newTestParser(t, 0)
	out := buildNewOrderSingle(t, p)
	truncated := out[:len(out)-10]
	_, _, derr := p.Decode(truncated, '\x01')
	if derr == nil || derr.Code != protocol.ErrDataTooShort {
		t.Fatalf("err = %v, want DATA_TOO_SHORT", derr)
	}
}

func TestWrongProtocolVersion(t *testing.T) {
	p := newTestParser(t, 0)
	out := buildNewOrderSingle(t, p)
	wrong := strings.Replace(string(out), "FIX.4.4", "FIX.4.2", 1)
	_, _, derr := p.Decode([]byte(wrong), '\x01')
	if derr == nil || derr.Code != protocol.ErrWrongProtocolVer {
		t.Fatalf("err = %v, want WRONG_PROTOCOL_VER", derr)
	}
}
