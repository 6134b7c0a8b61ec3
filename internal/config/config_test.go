package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KaramelBytes/cafeteria-insights/internal/dashboard"
	"github.com/KaramelBytes/cafeteria-insights/internal/dataset"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DataPath != DefaultDataPath {
		t.Fatalf("data_path = %q", c.DataPath)
	}
	if c.Layout != dashboard.LayoutSplit || c.PreviewRows != 5 || c.Target != dashboard.DefaultTarget {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if len(c.Ratings) != 6 {
		t.Fatalf("ratings = %v", c.Ratings)
	}
	if c.ShutdownTimeout() != 10*time.Second {
		t.Fatalf("shutdown timeout = %v", c.ShutdownTimeout())
	}
	opt, err := c.DatasetOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opt.SheetIndex != 1 || opt.Delimiter != 0 || len(opt.MissingTokens) != len(dataset.DefaultMissingTokens) {
		t.Fatalf("unexpected options: %+v", opt)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	yml := `data_path: survey.tsv
layout: combined
delimiter: "\\t"
satisfaction_scale:
  Low: 1
  High: 3
labels:
  insights: Findings
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CAFETERIA_PREVIEW_ROWS", "8")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Layout != dashboard.LayoutCombined || c.DataPath != "survey.tsv" || c.PreviewRows != 8 {
		t.Fatalf("unexpected config: %+v", c)
	}
	if c.Labels["insights"] != "Findings" {
		t.Fatalf("labels = %v", c.Labels)
	}
	opt, err := c.DatasetOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opt.Delimiter != '\t' {
		t.Fatalf("delimiter = %q", opt.Delimiter)
	}
	s := c.DashboardSettings()
	if s.PreviewRows != 8 || len(s.Scale) != 2 {
		t.Fatalf("settings = %+v", s)
	}
}

func TestLoadEnvOnlyKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	t.Setenv("CAFETERIA_SHEET_NAME", "Responses")
	t.Setenv("CAFETERIA_DELIMITER", ";")
	t.Setenv("CAFETERIA_DECIMAL_SEPARATOR", ",")
	t.Setenv("CAFETERIA_THOUSANDS_SEPARATOR", ".")
	t.Setenv("CAFETERIA_LABELS", "insights=Findings,eda=Explore")
	t.Setenv("CAFETERIA_SATISFACTION_SCALE", "Satisfied=4,Neutral=3")

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.SheetName != "Responses" || c.Delimiter != ";" || c.DecimalSeparator != "," || c.ThousandsSeparator != "." {
		t.Fatalf("unexpected input settings: %+v", c)
	}
	if c.Labels["insights"] != "Findings" || c.Labels["eda"] != "Explore" {
		t.Fatalf("labels = %v", c.Labels)
	}
	if c.SatisfactionScale["Satisfied"] != 4 || c.SatisfactionScale["Neutral"] != 3 {
		t.Fatalf("satisfaction_scale = %v", c.SatisfactionScale)
	}
	opt, err := c.DatasetOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opt.Delimiter != ';' || opt.DecimalSeparator != ',' || opt.SheetName != "Responses" {
		t.Fatalf("unexpected options: %+v", opt)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("layout: tabs\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for layout")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for explicit missing config file")
	}
}

func TestDotEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CAFETERIA_TARGET=Satisfaction\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("CAFETERIA_TARGET") })
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if c.Target != "Satisfaction" {
		t.Fatalf("target = %q", c.Target)
	}
}

func TestSetAndSave(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	for key, val := range map[string]string{
		"layout":             "Combined",
		"ratings":            "Hygiene, Pricing",
		"satisfaction_scale": "low=1,medium=2,high=3",
		"max_rows":           "100",
	} {
		if err := c.Set(key, val); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	if c.Layout != "combined" || len(c.Ratings) != 2 || c.SatisfactionScale["medium"] != 2 || c.MaxRows != 100 {
		t.Fatalf("unexpected config after set: %+v", c)
	}
	for key, val := range map[string]string{
		"layout":             "tabs",
		"max_rows":           "-1",
		"satisfaction_scale": "low",
		"log_format":         "xml",
		"nope":               "x",
	} {
		if err := c.Set(key, val); err == nil {
			t.Fatalf("set %s=%s: expected error", key, val)
		}
	}

	if c.LogFormat != "console" {
		t.Fatalf("failed set changed log_format to %q", c.LogFormat)
	}
	path := filepath.Join(t.TempDir(), "saved.yaml")
	c.LogFormat = "json"
	if err := Save(c, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.Layout != "combined" || back.MaxRows != 100 || back.LogFormat != "json" {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}
