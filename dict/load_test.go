package dict

import (
	"os"
	"strings"
	"testing"

	"fixengine/protocol"
)

func loadTestDict(t *testing.T) *Dictionary {
	t.Helper()
	f, err := os.Open("../testdata/FIX44.xml")
	if err != nil {
		t.Fatalf("open testdata: %v", err)
	}
	defer f.Close()
	d, perr := Load(f)
	if perr != nil {
		t.Fatalf("Load: %v", perr)
	}
	return d
}

func TestLoadRegistryAndHeader(t *testing.T) {
	d := loadTestDict(t)
	if d.Version != protocol.FIX44 {
		t.Fatalf("version = %v, want FIX44", d.Version)
	}
	fd, ok := d.Field(55)
	if !ok {
		t.Fatal("tag 55 (Symbol) not found in registry")
	}
	if fd.Name != "Symbol" || fd.Type != protocol.String {
		t.Errorf("Symbol descriptor = %+v", fd)
	}
	if d.Header == nil {
		t.Fatal("header descriptor missing")
	}
	if _, ok := d.Header.ByTag[8]; !ok {
		t.Error("header missing BeginString")
	}
}

func TestLoadMessageNewOrderSingle(t *testing.T) {
	d := loadTestDict(t)
	m, ok := d.Message("D")
	if !ok {
		t.Fatal("msgtype D not found")
	}
	if m.Name != "NewOrderSingle" {
		t.Errorf("name = %q", m.Name)
	}
	symbol, ok := m.ByTag[55]
	if !ok || !symbol.Required {
		t.Errorf("Symbol should be required in NewOrderSingle, got %+v", symbol)
	}
	side, ok := m.ByTag[54]
	if !ok || len(side.AllowedValues) != 2 {
		t.Errorf("Side allowed values = %+v", side)
	}
}

func TestLoadMessageWithGroup(t *testing.T) {
	d := loadTestDict(t)
	m, ok := d.Message("W")
	if !ok {
		t.Fatal("msgtype W not found")
	}
	group, ok := m.ByTag[268]
	if !ok {
		t.Fatal("NoMDEntries (268) missing")
	}
	if group.Category != Group {
		t.Fatalf("category = %v, want Group", group.Category)
	}
	if group.Delimiter != 269 {
		t.Errorf("delimiter = %d, want 269 (MDEntryType)", group.Delimiter)
	}
	if _, ok := group.NestedFields[270]; !ok {
		t.Error("MDEntryPx missing from nested table")
	}
}

func TestLoadDuplicateFieldFails(t *testing.T) {
	xmlDoc := `<fix major="4" minor="4">
  <header></header>
  <trailer></trailer>
  <messages></messages>
  <fields>
    <field number="8" name="BeginString" type="STRING"/>
    <field number="8" name="BeginString" type="STRING"/>
  </fields>
</fix>`
	_, perr := Load(strings.NewReader(xmlDoc))
	if perr == nil || perr.Code != protocol.ErrDuplicateFieldDescr {
		t.Fatalf("err = %v, want ErrDuplicateFieldDescr", perr)
	}
}

func TestLoadUnresolvedComponentFails(t *testing.T) {
	xmlDoc := `<fix major="4" minor="4">
  <header></header>
  <trailer></trailer>
  <messages>
    <message name="M" msgtype="Z">
      <component name="Missing"/>
    </message>
  </messages>
  <fields>
    <field number="8" name="BeginString" type="STRING"/>
  </fields>
</fix>`
	_, perr := Load(strings.NewReader(xmlDoc))
	if perr == nil || perr.Code != protocol.ErrXMLAttrWrongValue {
		t.Fatalf("err = %v, want ErrXMLAttrWrongValue", perr)
	}
}
