package stoplist

import "testing"

func TestDefaultIncludesBothLists(t *testing.T) {
	m := Default("lorem")
	for _, w := range []string{"the", "system", "workflow", "lorem", "THE"} {
		if !m.IsStop(w) {
			t.Errorf("expected %q to be a stopword", w)
		}
	}
	if m.IsStop("loan") {
		t.Error("'loan' should not be a stopword")
	}
}

func TestAddRemove(t *testing.T) {
	m := NewManager([]string{"alpha"})
	m.Add("  Beta ")
	m.Add("")
	if !m.IsStop("beta") {
		t.Error("expected beta after Add")
	}
	m.Remove("ALPHA")
	if m.IsStop("alpha") {
		t.Error("alpha should be gone after Remove")
	}
	all := m.All()
	if len(all) != 1 || all[0] != "beta" {
		t.Fatalf("unexpected All(): %v", all)
	}
}

func TestStandardOmitsDomainExclusions(t *testing.T) {
	m := Standard("lorem")
	for _, w := range []string{"application", "data", "record", "process"} {
		if m.IsStop(w) {
			t.Errorf("%q should not be a standard stopword", w)
		}
	}
	if !m.IsStop("the") || !m.IsStop("lorem") {
		t.Error("expected English stopwords and extras")
	}
}
