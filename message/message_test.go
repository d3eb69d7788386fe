package message

import (
	"testing"

	"fixengine/arena"
	"fixengine/dict"
)

func newTestArena() *Arena {
	return NewArena(arena.Config{
		PageSize: 256, NumPages: 2, MaxPages: 16, NumGroups: 4, MaxGroups: 64,
	})
}

func TestSetValueCreateAndUpdate(t *testing.T) {
	a := newTestArena()
	m, err := New(a, &dict.MessageDescr{MsgType: "D"})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Root.SetValue(55, []byte("AAA")); err != nil {
		t.Fatal(err)
	}
	want := valueBodyLen(55, 3)
	if m.BodyLen() != want {
		t.Errorf("bodyLen = %d, want %d", m.BodyLen(), want)
	}
	if err := m.Root.SetValue(55, []byte("AAPL")); err != nil {
		t.Fatal(err)
	}
	want = valueBodyLen(55, 4)
	if m.BodyLen() != want {
		t.Errorf("bodyLen after update = %d, want %d", m.BodyLen(), want)
	}
	f := m.Root.Find(55)
	if string(f.Bytes()) != "AAPL" {
		t.Errorf("value = %q", f.Bytes())
	}
}

func TestSetValueOnGroupFieldFails(t *testing.T) {
	a := newTestArena()
	m, _ := New(a, &dict.MessageDescr{MsgType: "D"})
	if _, err := m.Root.AddGroupInstance(268); err != nil {
		t.Fatal(err)
	}
	if err := m.Root.SetValue(268, []byte("x")); err == nil {
		t.Fatal("expected FIELD_HAS_WRONG_TYPE")
	}
}

func TestAddGroupInstanceAndGetGroup(t *testing.T) {
	a := newTestArena()
	m, _ := New(a, &dict.MessageDescr{MsgType: "W"})
	inst1, err := m.Root.AddGroupInstance(268)
	if err != nil {
		t.Fatal(err)
	}
	inst1.SetValue(269, []byte("0"))
	inst1.SetValue(270, []byte("1.0"))

	inst2, err := m.Root.AddGroupInstance(268)
	if err != nil {
		t.Fatal(err)
	}
	inst2.SetValue(269, []byte("1"))
	inst2.SetValue(270, []byte("2.0"))

	f := m.Root.Find(268)
	if f.Count() != 2 {
		t.Fatalf("count = %d, want 2", f.Count())
	}
	g, err := m.Root.GetGroup(268, 1)
	if err != nil {
		t.Fatal(err)
	}
	if string(g.Find(269).Bytes()) != "1" {
		t.Errorf("instance 1 MDEntryType = %q", g.Find(269).Bytes())
	}

	if _, err := m.Root.GetGroup(268, 2); err == nil {
		t.Fatal("expected GROUP_WRONG_INDEX")
	}
}

func TestDelGroupShiftsTailAndDeletesOnEmpty(t *testing.T) {
	a := newTestArena()
	m, _ := New(a, &dict.MessageDescr{MsgType: "W"})
	inst1, _ := m.Root.AddGroupInstance(268)
	inst1.SetValue(269, []byte("0"))
	inst2, _ := m.Root.AddGroupInstance(268)
	inst2.SetValue(269, []byte("1"))

	if err := m.Root.DelGroup(268, 0); err != nil {
		t.Fatal(err)
	}
	f := m.Root.Find(268)
	if f.Count() != 1 {
		t.Fatalf("count after delete = %d, want 1", f.Count())
	}
	g, _ := m.Root.GetGroup(268, 0)
	if string(g.Find(269).Bytes()) != "1" {
		t.Errorf("surviving instance = %q, want shifted instance with value 1", g.Find(269).Bytes())
	}

	if err := m.Root.DelGroup(268, 0); err != nil {
		t.Fatal(err)
	}
	if m.Root.Find(268) != nil {
		t.Error("group field should be deleted entirely once count hits zero")
	}
	if m.BodyLen() != 0 {
		t.Errorf("bodyLen after deleting all instances = %d, want 0", m.BodyLen())
	}
}

func TestDelUnknownTagFails(t *testing.T) {
	a := newTestArena()
	m, _ := New(a, &dict.MessageDescr{MsgType: "D"})
	if err := m.Root.Del(999); err == nil {
		t.Fatal("expected FIELD_NOT_FOUND")
	}
}

func TestAnchorTagsContributeZeroBodyLen(t *testing.T) {
	a := newTestArena()
	m, _ := New(a, &dict.MessageDescr{MsgType: "D"})
	m.Root.SetValue(TagBeginString, []byte("FIX.4.4"))
	m.Root.SetValue(TagBodyLength, []byte("12"))
	m.Root.SetValue(TagCheckSum, []byte("128"))
	if m.BodyLen() != 0 {
		t.Errorf("bodyLen = %d, want 0 (anchor fields contribute nothing)", m.BodyLen())
	}
}

func TestFreeReturnsPagesAndGroupsWithoutPoolGrowth(t *testing.T) {
	a := newTestArena()
	before := a.Stats()
	for i := 0; i < 50; i++ {
		m, err := New(a, &dict.MessageDescr{MsgType: "D"})
		if err != nil {
			t.Fatal(err)
		}
		m.Root.SetValue(55, []byte("AAPL"))
		inst, _ := m.Root.AddGroupInstance(268)
		inst.SetValue(269, []byte("0"))
		m.Free()
	}
	after := a.Stats()
	if after.NumPages != before.NumPages || after.NumGroups != before.NumGroups {
		t.Errorf("pools grew: before=%+v after=%+v", before, after)
	}
}
