package arena

import (
	"testing"

	"fixengine/protocol"
)

type testGroup struct {
	tag int
}

func TestAllocBumpsWithinPage(t *testing.T) {
	a := New[testGroup](Config{PageSize: 64, NumPages: 1, MaxPages: 2, NumGroups: 1, MaxGroups: 2})
	al := &Allocation[testGroup]{}

	p1, err := a.Alloc(al, 20)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := a.Alloc(al, 20)
	if err != nil {
		t.Fatal(err)
	}
	if &p1[0] == &p2[0] {
		t.Fatal("two allocations from the same page should not overlap")
	}
	if len(al.pages) != 1 {
		t.Fatalf("expected both allocations to share one page, got %d pages", len(al.pages))
	}
}

func TestAllocAcquiresNewPageWhenCurrentExhausted(t *testing.T) {
	a := New[testGroup](Config{PageSize: 32, NumPages: 1, MaxPages: 2, NumGroups: 1, MaxGroups: 2})
	al := &Allocation[testGroup]{}

	if _, err := a.Alloc(al, 20); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Alloc(al, 20); err != nil {
		t.Fatal(err)
	}
	if len(al.pages) != 2 {
		t.Fatalf("expected a second page to be acquired, got %d", len(al.pages))
	}
}

func TestAllocTooBigPage(t *testing.T) {
	a := New[testGroup](Config{PageSize: 16, NumPages: 1, MaxPages: 1, NumGroups: 1, MaxGroups: 1})
	al := &Allocation[testGroup]{}
	_, err := a.Alloc(al, 32)
	if err == nil || err.Code != protocol.ErrTooBigPage {
		t.Fatalf("err = %v, want TOO_BIG_PAGE", err)
	}
}

func TestAllocNoMorePages(t *testing.T) {
	a := New[testGroup](Config{PageSize: 16, NumPages: 1, MaxPages: 1, NumGroups: 1, MaxGroups: 1})
	al := &Allocation[testGroup]{}
	if _, err := a.Alloc(al, 16); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Alloc(al, 1); err == nil || err.Code != protocol.ErrNoMorePages {
		t.Fatalf("err = %v, want NO_MORE_PAGES", err)
	}
}

func TestReallocGrowsAndCopies(t *testing.T) {
	a := New[testGroup](Config{PageSize: 64, NumPages: 1, MaxPages: 2, NumGroups: 1, MaxGroups: 2})
	al := &Allocation[testGroup]{}
	p, err := a.Alloc(al, 4)
	if err != nil {
		t.Fatal(err)
	}
	copy(p, "abcd")
	grown, err := a.Realloc(al, p, 8)
	if err != nil {
		t.Fatal(err)
	}
	if string(grown[:4]) != "abcd" {
		t.Errorf("Realloc lost original bytes: %q", grown[:4])
	}
}

func TestReallocShrinksInPlace(t *testing.T) {
	a := New[testGroup](Config{PageSize: 64, NumPages: 1, MaxPages: 2, NumGroups: 1, MaxGroups: 2})
	al := &Allocation[testGroup]{}
	p, _ := a.Alloc(al, 8)
	copy(p, "abcdefgh")
	shrunk, err := a.Realloc(al, p, 4)
	if err != nil {
		t.Fatal(err)
	}
	if &shrunk[0] != &p[0] {
		t.Error("shrinking should stay in place")
	}
	if string(shrunk) != "abcd" {
		t.Errorf("got %q", shrunk)
	}
}

func TestAcquireAndReleaseGroup(t *testing.T) {
	a := New[testGroup](Config{PageSize: 16, NumPages: 1, MaxPages: 1, NumGroups: 1, MaxGroups: 1})
	al := &Allocation[testGroup]{}

	g, err := a.AcquireGroup(al)
	if err != nil {
		t.Fatal(err)
	}
	g.tag = 42

	if _, err := a.AcquireGroup(al); err == nil || err.Code != protocol.ErrNoMoreGroups {
		t.Fatalf("err = %v, want NO_MORE_GROUPS", err)
	}

	a.ReleaseGroup(al, g)
	g2, err := a.AcquireGroup(al)
	if err != nil {
		t.Fatal(err)
	}
	if g2.tag != 0 {
		t.Errorf("released group should be zeroed, got tag=%d", g2.tag)
	}
}

func TestFreeReturnsEverythingWithoutPoolGrowth(t *testing.T) {
	a := New[testGroup](Config{PageSize: 32, NumPages: 2, MaxPages: 4, NumGroups: 2, MaxGroups: 4})
	before := a.Stats()

	for i := 0; i < 20; i++ {
		al := &Allocation[testGroup]{}
		if _, err := a.Alloc(al, 16); err != nil {
			t.Fatal(err)
		}
		if _, err := a.AcquireGroup(al); err != nil {
			t.Fatal(err)
		}
		a.Free(al)
	}

	after := a.Stats()
	if after.NumPages != before.NumPages || after.NumGroups != before.NumGroups {
		t.Errorf("pools grew: before=%+v after=%+v", before, after)
	}
	if after.FreePages != before.FreePages || after.FreeGroups != before.FreeGroups {
		t.Errorf("free-list sizes changed: before=%+v after=%+v", before, after)
	}
}

func TestConfigValidateRejectsZeroValues(t *testing.T) {
	cases := []Config{
		{PageSize: 0, MaxPages: 1, MaxGroups: 1},
		{PageSize: 1, MaxPages: 0, MaxGroups: 1},
		{PageSize: 1, MaxPages: 1, MaxGroups: 0},
		{PageSize: 1, MaxPages: 1, NumPages: 2, MaxGroups: 1},
	}
	for _, c := range cases {
		if err := c.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", c)
		}
	}
}
