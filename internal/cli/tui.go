package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/domespec/pkg/engine"
	"github.com/matzehuels/domespec/pkg/report"
)

// Browser styles
var (
	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(colorGray)
	listDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ResultModel - Interactive report browser
// =============================================================================

// Browser sections, in tab order.
const (
	sectionSpec = iota
	sectionRows
	sectionWarnings
	sectionCount
)

var sectionTitles = [sectionCount]string{"Specification", "Rows", "Warnings"}

// ResultModel is the bubbletea model for browsing one report.
type ResultModel struct {
	Report  *report.Report
	Section int
	Cursor  int // selected row in the rows section
	Offset  int
	Height  int
}

// NewResultModel creates a browser positioned on the specification table.
func NewResultModel(r *report.Report) ResultModel {
	return ResultModel{Report: r, Height: 15}
}

func (m ResultModel) Init() tea.Cmd {
	return nil
}

func (m ResultModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m.Section = (m.Section + 1) % sectionCount
		case "shift+tab", "left", "h":
			m.Section = (m.Section + sectionCount - 1) % sectionCount
		case "up", "k":
			if m.Section == sectionRows && m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Section == sectionRows && m.Cursor < len(m.Report.Spec.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
	}
	return m, nil
}

func (m ResultModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Report.Project))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(m.Report.DocumentNo))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("⇥/←/→ section  ↑/↓ scroll  q quit"))
	b.WriteString("\n\n")
	b.WriteString(renderKPIs(m.Report.KPIs()))
	b.WriteString("\n")
	b.WriteString(m.tabs())
	b.WriteString("\n\n")

	switch m.Section {
	case sectionSpec:
		b.WriteString(renderItems(m.Report.Table()))
	case sectionRows:
		b.WriteString(m.rowsTable())
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Report.Spec.Rows))))
	case sectionWarnings:
		if len(m.Report.Warnings) == 0 {
			b.WriteString(styleIconSuccess.Render(iconSuccess) + " every search found an exact answer")
		} else {
			b.WriteString(renderWarnings(m.Report.Warnings))
		}
	}
	b.WriteString("\n")

	return b.String()
}

func (m ResultModel) tabs() string {
	parts := make([]string, sectionCount)
	for i, title := range sectionTitles {
		if i == sectionWarnings && len(m.Report.Warnings) > 0 {
			title = fmt.Sprintf("%s (%d)", title, len(m.Report.Warnings))
		}
		if i == m.Section {
			parts[i] = tabActiveStyle.Render(title)
		} else {
			parts[i] = tabInactiveStyle.Render(title)
		}
	}
	return strings.Join(parts, listDimStyle.Render("  │  "))
}

// rowsTable renders the visible window of the per-row breakdown.
func (m ResultModel) rowsTable() string {
	all := m.Report.Spec.Rows
	end := min(m.Offset+m.Height, len(all))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := all[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			fmt.Sprint(r.Index),
			string(r.Hemisphere),
			fmt.Sprint(r.Upper),
			fmt.Sprint(r.Lower),
			fmt.Sprint(r.LEDs),
			fmt.Sprintf("%g", r.Scan),
			fmt.Sprintf("%g", r.PWM),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Row", "Hemisphere", "Upper px", "Lower px", "LEDs", "Scan ICs", "PWM ICs").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(all) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle().Foreground(colorWhite)
			if all[idx].Hemisphere == engine.South {
				base = base.Foreground(colorGray)
			}
			if idx == m.Cursor {
				return base.Foreground(colorGreen).Bold(true)
			}
			return base
		})

	return t.Render()
}
