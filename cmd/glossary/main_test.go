package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/glossary/pkg/glossary/config"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfigFile(t *testing.T, dir string) string {
	return writeFile(t, dir, "glossary.yaml", `database:
  driver: sqlite
  path: `+filepath.Join(dir, "glossary.db")+`
logging:
  level: warn
  format: json
embedding:
  provider: hashing
  dimensions: 128
`)
}

const domainSeeds = `domains:
  - name: Lending
    category: Finance
    description: Loans, credit checks and repayment
  - name: Payments
    synonyms: [transfers]
`

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(config.Logging{Level: "debug", Format: "json"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v", log.GetLevel())
	}
	log.WithField("stage", "merge").Debug("done")
	if !strings.Contains(buf.String(), `"stage":"merge"`) {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
	if _, err := newLogger(config.Logging{Level: "loud"}, &buf); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestBuildEngine(t *testing.T) {
	dir := t.TempDir()
	eng, err := buildEngine(context.Background(), testConfigFile(t, dir), "", writeFile(t, dir, "domains.yaml", domainSeeds))
	if err != nil {
		t.Fatalf("buildEngine failed: %v", err)
	}
	defer eng.Close()

	if len(eng.domains) != 2 || eng.domains[0].Name != "Lending" {
		t.Errorf("unexpected domains %+v", eng.domains)
	}
	if eng.log.GetLevel() != logrus.WarnLevel {
		t.Errorf("logger level not taken from config")
	}
}

func TestBuildEngineInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", "database:\n  driver: postgres\n")
	if _, err := buildEngine(context.Background(), path, "", ""); err == nil {
		t.Error("buildEngine should reject an unknown driver")
	}
	if _, err := buildEngine(context.Background(), filepath.Join(dir, "missing.yaml"), "", ""); err == nil {
		t.Error("buildEngine should fail with a missing config file")
	}
}

func TestSeedAndListCommands(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfigFile(t, dir)
	seeds := writeFile(t, dir, "domains.yaml", domainSeeds)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		jsonOutput = false
		domainsFile = ""
	})

	rootCmd.SetArgs([]string{"domains", "seed", "--env", "", "--config", cfg, "--domains", seeds})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("domains seed: %v", err)
	}
	if !strings.Contains(out.String(), "Seeded 2 business domains.") {
		t.Errorf("unexpected output %q", out.String())
	}

	out.Reset()
	rootCmd.SetArgs([]string{"domains", "list", "--env", "", "--config", cfg, "--domains", ""})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("domains list: %v", err)
	}
	if !strings.Contains(out.String(), "Lending") || !strings.Contains(out.String(), "Payments") {
		t.Errorf("expected both domains listed, got %q", out.String())
	}

	out.Reset()
	rootCmd.SetArgs([]string{"terms", "pending", "--env", "", "--config", cfg})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("terms pending: %v", err)
	}
	if !strings.Contains(out.String(), "No terms found.") {
		t.Errorf("unexpected output %q", out.String())
	}

	rootCmd.SetArgs([]string{"terms", "approve", "42", "--by", "qa", "--env", "", "--config", cfg})
	if err := rootCmd.Execute(); err == nil {
		t.Error("approving an unknown term should fail")
	}
}
