package textnorm

import "testing"

func TestNormalizeTermIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"  Loan   Application ",
		"CUSTOMER\tData\nRecord",
		"ﬁnance ｌｅｎｄｉｎｇ",
		"already normal",
		" non-breaking space",
	}
	for _, in := range inputs {
		once := NormalizeTerm(in)
		twice := NormalizeTerm(once)
		if once != twice {
			t.Errorf("NormalizeTerm not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeTermFolds(t *testing.T) {
	if got := NormalizeTerm("  Loan   Application "); got != "loan application" {
		t.Fatalf("unexpected normalization %q", got)
	}
	if got := NormalizeTerm("ｌｏａｎ"); got != "loan" {
		t.Fatalf("expected NFKC fold to 'loan', got %q", got)
	}
}

func TestIsValidTerm(t *testing.T) {
	cases := map[string]bool{
		"":               false,
		"  ":             false,
		"123":            false,
		"12.5%":          false,
		"$1,000":         false,
		"form 1040":      false,
		"x":              false,
		"loan approval":  true,
		"credit-scoring": true,
	}
	for in, want := range cases {
		if got := IsValidTerm(in); got != want {
			t.Errorf("IsValidTerm(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSplitParagraphs(t *testing.T) {
	text := "First paragraph\nstill first.\n\n  \n\nSecond one.\n \nThird."
	paras := SplitParagraphs(text)
	if len(paras) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d: %q", len(paras), paras)
	}
	if paras[0] != "First paragraph\nstill first." {
		t.Errorf("unexpected first paragraph %q", paras[0])
	}
	if len(SplitParagraphs("   ")) != 0 {
		t.Error("whitespace-only text should have no paragraphs")
	}
}

func TestUnique(t *testing.T) {
	got := Unique([]string{"Loan Application", "loan  application", "", "credit score"})
	if len(got) != 2 || got[0] != "Loan Application" || got[1] != "credit score" {
		t.Fatalf("unexpected unique result %v", got)
	}
}
