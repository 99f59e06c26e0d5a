package cli

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashheat/hashheat/pkg/cache"
	"github.com/hashheat/hashheat/pkg/metrics"
	"github.com/hashheat/hashheat/pkg/pipeline"
)

func testCLI() *CLI {
	return New(io.Discard, LogInfo)
}

func testHeatingInputs() *metrics.HeatingInputs {
	return &metrics.HeatingInputs{
		HeatDemandKWh:    1000,
		ElectricityPrice: 0.10,
		MinerEfficiency:  20,
		Hashprice:        0.03,
		FuelPricePerKWh:  0.12,
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	root := testCLI().RootCommand()

	want := []string{"chart", "rank", "sweep", "report", "tui", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestParseCalculator(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, pipeline.CalculatorHeating},
		{[]string{"heating"}, pipeline.CalculatorHeating},
		{[]string{"solar"}, pipeline.CalculatorSolar},
		{[]string{"SOLAR"}, pipeline.CalculatorSolar},
	}
	for _, tt := range tests {
		if got := parseCalculator(tt.args); got != tt.want {
			t.Errorf("parseCalculator(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); len(got) != 1 || got[0] != pipeline.FormatSVG {
		t.Errorf("parseFormats(\"\") = %v, want [svg]", got)
	}
	got := parseFormats("svg,json")
	if len(got) != 2 || got[0] != "svg" || got[1] != "json" {
		t.Errorf("parseFormats(\"svg,json\") = %v", got)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output   string
		fallback string
		want     string
	}{
		{"", "heating", "heating"},
		{"chart.svg", "heating", "chart"},
		{"chart.json", "heating", "chart"},
		{"chart.txt", "heating", "chart.txt"},
		{"out/chart", "heating", "out/chart"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.fallback); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.fallback, got, tt.want)
		}
	}
}

func TestInputFlagsOptions(t *testing.T) {
	f := inputFlags{
		country:      "ca",
		region:       "on",
		months:       6,
		decline:      0.05,
		heatDemand:   1200,
		elecPrice:    0.14,
		efficiency:   19,
		hashprice:    0.04,
		fuelPrice:    0.10,
		production:   900,
		selfConsumed: 250,
		exportRate:   0.05,
	}

	heating := f.options(pipeline.CalculatorHeating)
	if heating.Heating == nil || heating.Solar != nil {
		t.Fatal("heating options carry the wrong inputs")
	}
	if heating.Heating.HeatDemandKWh != 1200 || heating.Heating.ElectricityPrice != 0.14 {
		t.Errorf("heating inputs = %+v", heating.Heating)
	}
	if heating.Country != "ca" || heating.Months != 6 {
		t.Errorf("shared options = %+v", heating)
	}

	solar := f.options(pipeline.CalculatorSolar)
	if solar.Solar == nil || solar.Heating != nil {
		t.Fatal("solar options carry the wrong inputs")
	}
	if solar.Solar.MonthlyProductionKWh != 900 || solar.Solar.ExportRate != 0.05 {
		t.Errorf("solar inputs = %+v", solar.Solar)
	}
}

func TestFormatMetric(t *testing.T) {
	if got := formatMetric(68.75, "savings"); got != "68.8%" {
		t.Errorf("formatMetric(savings) = %q", got)
	}
	if got := formatMetric(math.Inf(1), "cope"); got != "∞" {
		t.Errorf("formatMetric(+Inf) = %q", got)
	}
	if got := formatMetric(3.2, "cope"); got != "3.20" {
		t.Errorf("formatMetric(cope) = %q", got)
	}
}

func TestRankingTableHighlightsUser(t *testing.T) {
	comp, err := pipeline.Compute(pipeline.Options{
		Calculator: pipeline.CalculatorHeating,
		Heating:    testHeatingInputs(),
	})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	out := rankingTable(comp.Ranking.All[:0:0], "savings")
	_ = out // empty input renders without panicking

	rows := comp.Ranking.All
	rendered := rankingTable(rows, "savings")
	if !strings.Contains(rendered, "You") {
		t.Error("rendered table missing user row")
	}
}

func TestServeKeyerScopesRedisOnly(t *testing.T) {
	if k := serveKeyer(serveConfig{}); k != nil {
		t.Error("file-cache deployment should use the unscoped default keyer")
	}
	if k := serveKeyer(serveConfig{redisAddr: "localhost:6379"}); k != nil {
		t.Error("empty scope should fall back to the unscoped default keyer")
	}

	k := serveKeyer(serveConfig{redisAddr: "localhost:6379", cacheScope: "prod"})
	if k == nil {
		t.Fatal("redis deployment with a scope should get a scoped keyer")
	}
	key := k.ComputeKey("heating", testHeatingInputs())
	if !strings.HasPrefix(key, "prod:") {
		t.Errorf("scoped key = %q, want prod: prefix", key)
	}
	unscoped := cache.NewDefaultKeyer().ComputeKey("heating", testHeatingInputs())
	if key == unscoped {
		t.Error("scoped key should differ from the unscoped key")
	}
}

func TestLoadUserConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if cfg := loadUserConfig(); cfg != (userConfig{}) {
		t.Errorf("missing config file should yield zero config, got %+v", cfg)
	}

	cfgDir := filepath.Join(dir, appName)
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "country = \"ca\"\nregion = \"ON\"\ncache_dir = \"/tmp/hh-cache\"\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := loadUserConfig()
	if cfg.Country != "ca" || cfg.Region != "ON" || cfg.CacheDir != "/tmp/hh-cache" {
		t.Errorf("loadUserConfig() = %+v", cfg)
	}

	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte("country = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if cfg := loadUserConfig(); cfg != (userConfig{}) {
		t.Errorf("malformed config should yield zero config, got %+v", cfg)
	}
}

func TestTUIModelRecompute(t *testing.T) {
	m := newTUIModel("us")
	if m.err != nil {
		t.Fatalf("initial model error = %v", m.err)
	}
	if m.comp == nil || m.comp.Heating == nil {
		t.Fatal("initial model has no heating result")
	}

	m.fields[0].value = "not-a-number"
	m.recompute()
	if m.err == nil {
		t.Error("recompute with bad input did not set error")
	}

	m.fields = defaultFields(pipeline.CalculatorSolar)
	m.calculator = pipeline.CalculatorSolar
	m.recompute()
	if m.err != nil {
		t.Fatalf("solar recompute error = %v", m.err)
	}
	if m.comp.Solar == nil {
		t.Error("solar recompute has no solar result")
	}
}
