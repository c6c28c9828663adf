package catalog

import "testing"

func TestTableInvariants(t *testing.T) {
	seen := map[string]bool{}

	for _, g := range Groups() {
		if g.Name == "" {
			t.Fatalf("group id=%d has empty name", g.ID)
		}
		if seen[g.Name] {
			t.Fatalf("duplicate group name %q", g.Name)
		}
		seen[g.Name] = true

		if g.Count == 0 {
			t.Errorf("group %q: zero count", g.Name)
		}
		if g.Count > MaxTransfer {
			t.Errorf("group %q: count %d exceeds max transfer %d", g.Name, g.Count, MaxTransfer)
		}
		if int(g.Base)+int(g.Count) > AddressSpace {
			t.Errorf("group %q: range %d+%d exceeds address space", g.Name, g.Base, g.Count)
		}
		if len(g.Fields) > int(g.Count) {
			t.Errorf("group %q: %d field names for %d registers", g.Name, len(g.Fields), g.Count)
		}
		if g.Segment == "" {
			t.Errorf("group %q: empty topic segment", g.Name)
		}
	}
}

func TestLookup(t *testing.T) {
	g, ok := Lookup("temp")
	if !ok {
		t.Fatal("temp group not found")
	}
	if g.Base != 200 || g.Bank != BankInput || g.Decode != DecodeScaled {
		t.Fatalf("unexpected temp group: %+v", g)
	}

	if _, ok := Lookup("nonsense"); ok {
		t.Fatal("expected not-found for unknown group")
	}
}

func TestTempGroupCarriesHumidity(t *testing.T) {
	g, _ := Lookup("temp")

	found := false
	for _, f := range g.Fields {
		if f == "RH" {
			found = true
		}
	}
	if !found {
		t.Fatal("temp group must carry the RH field")
	}
}

func TestFieldName(t *testing.T) {
	g, _ := Lookup("control")

	if got := FieldName(g, 3); got != "VentSet" {
		t.Fatalf("FieldName(control, 3)=%q, want VentSet", got)
	}
	if got := FieldName(g, 99); got != "" {
		t.Fatalf("out-of-range offset returned %q", got)
	}
	if got := FieldName(g, -1); got != "" {
		t.Fatalf("negative offset returned %q", got)
	}
}

func TestTextGroups(t *testing.T) {
	for _, name := range []string{"display1", "display2"} {
		g, ok := Lookup(name)
		if !ok {
			t.Fatalf("%s not found", name)
		}
		if !g.Text() {
			t.Errorf("%s: expected text decode", name)
		}
		if g.Segment != "text" {
			t.Errorf("%s: expected text segment, got %q", name, g.Segment)
		}
	}
}
