package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hashheat/hashheat/pkg/metrics"
	"github.com/hashheat/hashheat/pkg/pipeline"
	"github.com/hashheat/hashheat/pkg/report"
)

// tuiCommand creates the interactive calculator command.
func (c *CLI) tuiCommand() *cobra.Command {
	var country string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive calculator with live ranking",
		Long: `Interactive calculator with live ranking.

Edit inputs field by field; results and your regional ranking update on
every keystroke. Tab switches between the heating and solar calculators.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			model := newTUIModel(country)
			_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&country, "country", pipeline.DefaultCountry, "reference country: us or ca")
	return cmd
}

var (
	tuiSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorOrange)
	tuiNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	tuiErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// tuiField is one editable numeric input.
type tuiField struct {
	label string
	value string
}

// tuiModel is the bubbletea model for the interactive calculator.
type tuiModel struct {
	calculator string
	country    string
	fields     []tuiField
	cursor     int

	comp *pipeline.ComputeResult
	err  error
}

func newTUIModel(country string) tuiModel {
	m := tuiModel{calculator: pipeline.CalculatorHeating, country: country}
	m.fields = defaultFields(m.calculator)
	m.recompute()
	return m
}

func defaultFields(calculator string) []tuiField {
	if calculator == pipeline.CalculatorSolar {
		return []tuiField{
			{"Production (kWh/mo)", "800"},
			{"Self-consumed (kWh)", "300"},
			{"Electricity ($/kWh)", "0.12"},
			{"Export rate ($/kWh)", "0.04"},
			{"Efficiency (J/TH)", "21.5"},
			{"Hashprice ($/TH/d)", "0.05"},
		}
	}
	return []tuiField{
		{"Heat demand (kWh/mo)", "1500"},
		{"Electricity ($/kWh)", "0.12"},
		{"Efficiency (J/TH)", "21.5"},
		{"Hashprice ($/TH/d)", "0.05"},
		{"Fuel price ($/kWh)", "0.11"},
	}
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "shift+tab":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "enter":
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
	case "tab":
		if m.calculator == pipeline.CalculatorHeating {
			m.calculator = pipeline.CalculatorSolar
		} else {
			m.calculator = pipeline.CalculatorHeating
		}
		m.fields = defaultFields(m.calculator)
		m.cursor = 0
		m.recompute()
	case "backspace":
		v := m.fields[m.cursor].value
		if v != "" {
			m.fields[m.cursor].value = v[:len(v)-1]
			m.recompute()
		}
	default:
		if len(key.String()) == 1 && strings.ContainsAny(key.String(), "0123456789.") {
			m.fields[m.cursor].value += key.String()
			m.recompute()
		}
	}
	return m, nil
}

// recompute reruns the calculator from the current field values. Parse
// failures and invalid inputs show as an error line instead of results.
func (m *tuiModel) recompute() {
	values := make([]float64, len(m.fields))
	for i, f := range m.fields {
		v, err := strconv.ParseFloat(f.value, 64)
		if err != nil {
			m.comp, m.err = nil, fmt.Errorf("%s is not a number", f.label)
			return
		}
		values[i] = v
	}

	opts := pipeline.Options{Calculator: m.calculator, Country: m.country}
	if m.calculator == pipeline.CalculatorSolar {
		opts.Solar = &metrics.SolarInputs{
			MonthlyProductionKWh: values[0],
			SelfConsumedKWh:      values[1],
			ElectricityPrice:     values[2],
			ExportRate:           values[3],
			MinerEfficiency:      values[4],
			Hashprice:            values[5],
		}
	} else {
		opts.Heating = &metrics.HeatingInputs{
			HeatDemandKWh:    values[0],
			ElectricityPrice: values[1],
			MinerEfficiency:  values[2],
			Hashprice:        values[3],
			FuelPricePerKWh:  values[4],
		}
	}

	m.comp, m.err = pipeline.Compute(opts)
}

func (m tuiModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Hashheat · %s calculator", m.calculator)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ field  type to edit  tab switch calculator  q quit"))
	b.WriteString("\n\n")

	for i, f := range m.fields {
		cursor := "  "
		style := tuiNormalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = tuiSelectedStyle
		}
		b.WriteString(cursor + style.Render(fmt.Sprintf("%-22s %s", f.label, f.value)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(tuiErrorStyle.Render(iconError + " " + m.err.Error()))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.resultsView())
	b.WriteString("\n")
	b.WriteString(rankingTable(
		m.comp.Ranking.Window(report.DefaultWindowTopN, report.DefaultWindowRadius),
		string(m.comp.Metric)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("  you are " + m.comp.Ranking.Position.Describe()))
	b.WriteString("\n")

	return b.String()
}

func (m tuiModel) resultsView() string {
	cur := m.comp.Currency
	line := func(label, value string) string {
		return "  " + StyleDim.Render(fmt.Sprintf("%-22s", label)) + StyleValue.Render(value) + "\n"
	}

	var b strings.Builder
	if h := m.comp.Heating; h != nil {
		b.WriteString(line("Gross cost", fmt.Sprintf("%s %s/mo", report.FormatValue(h.GrossCost, 2), cur)))
		b.WriteString(line("Mining revenue", fmt.Sprintf("%s %s/mo", report.FormatValue(h.MiningRevenue, 2), cur)))
		b.WriteString(line("Net cost", fmt.Sprintf("%s %s/mo", report.FormatValue(h.NetCost, 2), cur)))
		b.WriteString(line("Fuel alternative", fmt.Sprintf("%s %s/mo", report.FormatValue(h.FuelCost, 2), cur)))
		b.WriteString(line("Effective COP", report.FormatValue(h.COPe, 2)))
		b.WriteString(line("Savings", StyleHighlight.Render(report.FormatPercent(h.SavingsPct))))
	} else if s := m.comp.Solar; s != nil {
		b.WriteString(line("Surplus", fmt.Sprintf("%s kWh/mo", report.FormatValue(s.SurplusKWh, 0))))
		b.WriteString(line("Export value", fmt.Sprintf("%s %s/mo", report.FormatValue(s.ExportRevenue, 2), cur)))
		b.WriteString(line("Mining revenue", fmt.Sprintf("%s %s/mo", report.FormatValue(s.MiningRevenue, 2), cur)))
		b.WriteString(line("Uplift", StyleHighlight.Render(report.FormatPercent(s.SubsidyPct))))
	}
	return b.String()
}
