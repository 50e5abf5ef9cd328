package config

import (
	"testing"
)

func TestLoaderAllEmpty(t *testing.T) {
	loader := Loader{}

	comp, err := loader.Load()
	if err != nil {
		t.Fatalf("Empty loader should succeed: %v", err)
	}
	if comp.Config == nil || comp.Stops == nil {
		t.Fatal("expected default config and stoplist")
	}
	if !comp.Stops.IsStop("the") || !comp.Stops.IsStop("workflow") {
		t.Error("default stoplist should carry English and domain exclusions")
	}
	if len(comp.Domains) != 0 {
		t.Errorf("expected no domains, got %d", len(comp.Domains))
	}
}

func TestLoaderMergesStopwordsAndDomains(t *testing.T) {
	cfgPath := writeFile(t, "glossary.yaml", "extraction:\n  stopwords: [lorem]\n")
	stopPath := writeFile(t, "stop.yaml", "terms: [ipsum]\n")
	domPath := writeFile(t, "domains.yaml", "domains:\n  - name: Retail Lending\n")

	comp, err := (&Loader{ConfigPath: cfgPath, StoplistPath: stopPath, DomainsPath: domPath}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !comp.Stops.IsStop("lorem") || !comp.Stops.IsStop("ipsum") {
		t.Error("configured and file stopwords should both apply")
	}
	if len(comp.Domains) != 1 || comp.Domains[0].NormalizedName != "retail lending" {
		t.Errorf("unexpected domains %+v", comp.Domains)
	}
}

func TestLoaderNonExistentStoplist(t *testing.T) {
	loader := Loader{StoplistPath: "/nonexistent/stoplist.yaml"}
	if _, err := loader.Load(); err == nil {
		t.Error("Should error on nonexistent stoplist")
	}
}

func TestLoaderNonExistentConfig(t *testing.T) {
	loader := Loader{ConfigPath: "/nonexistent/glossary.yaml"}
	if _, err := loader.Load(); err == nil {
		t.Error("Should error on nonexistent config")
	}
}

func TestLoaderExampleFiles(t *testing.T) {
	loader := Loader{
		ConfigPath:   "../../../examples/glossary.yaml",
		StoplistPath: "../../../examples/stoplist.yaml",
		DomainsPath:  "../../../examples/domains.yaml",
	}
	comp, err := loader.Load()
	if err != nil {
		t.Fatalf("example files should load: %v", err)
	}
	if comp.Config.Enrichment.Pacing.Seconds() != 20 {
		t.Errorf("pacing = %v", comp.Config.Enrichment.Pacing)
	}
	for _, w := range []string{"appendix", "customer"} {
		if !comp.Stops.IsStop(w) || !comp.Standard.IsStop(w) {
			t.Errorf("expected %q in both stoplists", w)
		}
	}
	if comp.Standard.IsStop("application") || !comp.Stops.IsStop("application") {
		t.Error("domain exclusions belong to the statistical stoplist only")
	}
	if len(comp.Domains) != 4 || comp.Domains[0].Name != "Lending" {
		t.Errorf("unexpected domains %+v", comp.Domains)
	}
}
