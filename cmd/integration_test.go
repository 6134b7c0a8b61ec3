package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

const surveyCSV = `Student_ID,Department,Food_Taste,Hygiene,Pricing,Waiting_Time,Meal_Variety,Staff_Behavior,Overall_Satisfaction
1,CS,4,4,3,2,4,5,4
2,EE,3,,2,4,3,4,3
3,,5,2,4,1,5,,5
4,ME,2,,1,5,2,3,2
5,CS,5,5,5,2,4,5,5
`

// isolate points HOME and the working directory at fresh temp dirs and
// writes the survey file into the working directory.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if err := os.WriteFile(filepath.Join(dir, "survey.csv"), []byte(surveyCSV), 0o644); err != nil {
		t.Fatalf("write survey: %v", err)
	}
	return dir
}

// resetFlags clears flag values and Changed state that persist across invocations.
func resetFlags() {
	cfgFile, debug, flagDataPath, flagLayout = "", false, "", ""
	repSections, repFeature, repOutput, repChartsDir = nil, "", "", ""
	chartFeature, chartOutput = "", ""
	serveAddr = ""
	cfg = nil
	sets := []*pflag.FlagSet{rootCmd.PersistentFlags(), reportCmd.Flags(), chartCmd.Flags(), serveCmd.Flags()}
	for _, fs := range sets {
		fs.VisitAll(func(fl *pflag.Flag) { fl.Changed = false })
	}
}

// runCmd is a helper to execute the root command with args and capture stdout.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func execCmd(args ...string) (string, error) {
	resetFlags()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_Sections(t *testing.T) {
	isolate(t)
	out := runCmd(t, "sections")
	if !strings.Contains(out, "layout: split") || !strings.Contains(out, "- visualization: Visual Analysis [visualization]") {
		t.Fatalf("unexpected sections output:\n%s", out)
	}
	out = runCmd(t, "sections", "--layout", "combined")
	if !strings.Contains(out, "- eda-preprocessing: EDA & Preprocessing [eda, preprocessing]") {
		t.Fatalf("unexpected combined output:\n%s", out)
	}
}

func TestCLI_ReportWritesMarkdownAndCharts(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "out", "report.md")
	charts := filepath.Join(dir, "out", "charts")
	runCmd(t, "report", "--data", "survey.csv", "-o", out, "--charts-dir", charts, "--feature", "Hygiene")

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	md := string(b)
	for _, want := range []string{
		"# Campus Cafeteria Satisfaction Analysis",
		"## Dataset Overview",
		"### Statistical Summary",
		"Missing values handled successfully!",
		"Dataset Shape After Cleaning: 5 rows × 9 columns",
		"![correlation](charts/visualization-correlation.png)",
		"- Review pricing strategy",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("report missing %q", want)
		}
	}
	// Overview renders before preprocessing, so it still shows the raw missing count.
	overview := md[strings.Index(md, "## Dataset Overview"):strings.Index(md, "## EDA")]
	if !strings.Contains(overview, "| Hygiene") || !strings.Contains(overview, "NaN") {
		t.Fatalf("overview should show raw data:\n%s", overview)
	}
	for _, name := range []string{"visualization-target.png", "visualization-ratings.png", "visualization-feature-Hygiene.png", "visualization-correlation.png"} {
		if _, err := os.Stat(filepath.Join(charts, name)); err != nil {
			t.Fatalf("chart %s not written: %v", name, err)
		}
	}
}

func TestCLI_ReportSelectedSectionsToStdout(t *testing.T) {
	isolate(t)
	out := runCmd(t, "report", "--data", "survey.csv", "--sections", "insights,EDA")
	if strings.Index(out, "## Insights") > strings.Index(out, "## EDA") {
		t.Fatalf("sections not rendered in the given order:\n%s", out)
	}
	if strings.Contains(out, "## Dataset Overview") {
		t.Fatalf("unrequested section rendered")
	}
}

func TestCLI_Chart(t *testing.T) {
	dir := isolate(t)
	png := filepath.Join(dir, "heat.png")
	runCmd(t, "chart", "correlation", "--data", "survey.csv", "-o", png)
	b, err := os.ReadFile(png)
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("\x89PNG")) {
		t.Fatalf("not a PNG")
	}
	if _, err := execCmd("chart", "pie", "--data", "survey.csv", "-o", png); err == nil {
		t.Fatalf("expected unknown chart error")
	}
}

func TestCLI_MissingDataFails(t *testing.T) {
	isolate(t)
	if _, err := execCmd("report", "--data", "absent.csv"); err == nil {
		t.Fatalf("expected load error")
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	dir := isolate(t)
	cfgPath := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(cfgPath, []byte("data_path: survey.csv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	runCmd(t, "--config", cfgPath, "config", "set", "layout", "combined")
	runCmd(t, "--config", cfgPath, "config", "set", "satisfaction_scale", "low=1,high=3")
	out := runCmd(t, "--config", cfgPath, "config", "show")
	if !strings.Contains(out, "layout: combined") || !strings.Contains(out, "satisfaction_scale: high=3,low=1") {
		t.Fatalf("unexpected config show:\n%s", out)
	}
	if _, err := execCmd("--config", cfgPath, "config", "set", "layout", "tabs"); err == nil {
		t.Fatalf("expected invalid layout error")
	}
}

func TestCLI_ConfigSetIgnoresFlagOverrides(t *testing.T) {
	dir := isolate(t)
	cfgPath := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(cfgPath, []byte("data_path: survey.csv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	runCmd(t, "--config", cfgPath, "--debug", "--data", "other.csv", "--layout", "combined", "config", "set", "preview_rows", "3")
	b, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	saved := string(b)
	for _, want := range []string{"data_path: survey.csv", "log_level: info", "layout: split", "preview_rows: 3"} {
		if !strings.Contains(saved, want) {
			t.Fatalf("saved config missing %q:\n%s", want, saved)
		}
	}
	if strings.Contains(saved, "other.csv") || strings.Contains(saved, "debug") {
		t.Fatalf("flag overrides persisted:\n%s", saved)
	}
}
