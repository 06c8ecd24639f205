package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sitegen/pkg/pipeline"
	"github.com/matzehuels/sitegen/pkg/records"
	"github.com/matzehuels/sitegen/pkg/translation"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	tabActiveStyle  = StyleTitle.Underline(true)
	tabInactive     = lipgloss.NewStyle().Foreground(colorGray)
	headerCellStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// browseCommand opens the interactive data browser.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Explore releases, themes and translations interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.execute(cmd.Context(),
				pipeline.StageReleases, pipeline.StageThemes, pipeline.StageTranslations)
			if err != nil {
				return err
			}
			p := tea.NewProgram(NewBrowseModel(data), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}

// =============================================================================
// BrowseModel - Interactive page data browser
// =============================================================================

// browseTab is one table of the browser.
type browseTab struct {
	Title   string
	Headers []string
	Rows    [][]string
	Details []string

	// Highlight marks rows drawn in the accent color.
	Highlight []bool
}

// BrowseModel is the bubbletea model for the data browser.
type BrowseModel struct {
	Tabs   []browseTab
	Active int
	Cursor int
	Offset int
	Height int
}

// NewBrowseModel creates a browser over releases, themes and translations.
func NewBrowseModel(data *pipeline.PageData) BrowseModel {
	return BrowseModel{
		Tabs: []browseTab{
			releasesTab(data),
			themesTab(data),
			translationsTab(data.Translations),
		},
		Height: 15,
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m.switchTab(1)
		case "shift+tab", "left", "h":
			m.switchTab(-1)
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Tabs[m.Active].Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 9
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m *BrowseModel) switchTab(delta int) {
	n := len(m.Tabs)
	m.Active = (m.Active + delta + n) % n
	m.Cursor, m.Offset = 0, 0
}

func (m BrowseModel) View() string {
	var b strings.Builder

	titles := make([]string, len(m.Tabs))
	for i, t := range m.Tabs {
		label := fmt.Sprintf("%s (%d)", t.Title, len(t.Rows))
		if i == m.Active {
			titles[i] = tabActiveStyle.Render(label)
		} else {
			titles[i] = tabInactive.Render(label)
		}
	}
	b.WriteString(strings.Join(titles, "   "))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ←/→ switch  q quit"))
	b.WriteString("\n\n")

	tab := m.Tabs[m.Active]
	if len(tab.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  nothing to show"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(tab.Rows))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, tab.Rows[i]...))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(append([]string{""}, tab.Headers...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerCellStyle
			}
			idx := m.Offset + row
			if idx >= len(tab.Rows) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle().Foreground(colorWhite)
			if idx < len(tab.Highlight) && tab.Highlight[idx] {
				base = base.Foreground(colorGreen)
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if m.Cursor < len(tab.Details) && tab.Details[m.Cursor] != "" {
		b.WriteString(StyleDim.Render("  " + tab.Details[m.Cursor]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(tab.Rows))))

	return b.String()
}

// =============================================================================
// Tabs
// =============================================================================

func releasesTab(data *pipeline.PageData) browseTab {
	tab := browseTab{
		Title:   "Releases",
		Headers: []string{"Version", "Branch", "Date", "Files"},
	}
	add := func(branch string, rels []records.ReleaseRecord) {
		for _, r := range rels {
			label := branch
			if r.Featured {
				label = "featured"
			}
			tab.Rows = append(tab.Rows, []string{r.Version, label, formatRelativeTime(r.Date), fmt.Sprint(len(r.Files))})
			tab.Highlight = append(tab.Highlight, r.Featured)
			tab.Details = append(tab.Details, r.Info)
		}
	}
	add("current", data.Releases)
	add("beta", data.Beta)
	add("older", data.Older)
	return tab
}

func themesTab(data *pipeline.PageData) browseTab {
	tab := browseTab{
		Title:   "Themes",
		Headers: []string{"Theme", "Version", "Support", "Size"},
	}
	for _, t := range data.Themes {
		tab.Rows = append(tab.Rows, []string{t.DisplayName, t.Version, t.SupportLevel, t.File.HumanSize})
		tab.Highlight = append(tab.Highlight, false)
		tab.Details = append(tab.Details, t.File.DownloadURL)
	}
	return tab
}

func translationsTab(recs []translation.Record) browseTab {
	tab := browseTab{
		Title:   "Translations",
		Headers: []string{"Language", "Done", "Translator", "Updated"},
	}
	for _, r := range recs {
		updated := "-"
		if !r.LastUpdate.IsZero() {
			updated = humanize.Time(r.LastUpdate)
		}
		tab.Rows = append(tab.Rows, []string{r.Language, r.PercentText, r.Translator, updated})
		tab.Highlight = append(tab.Highlight, r.Severity == translation.SeverityNone)
		tab.Details = append(tab.Details, fmt.Sprintf("%d of %d messages translated", r.Translated, r.Total))
	}
	return tab
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	diff := time.Since(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
