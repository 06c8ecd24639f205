package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sitegen/pkg/branch"
	"github.com/matzehuels/sitegen/pkg/pipeline"
	"github.com/matzehuels/sitegen/pkg/records"
	"github.com/matzehuels/sitegen/pkg/registry"
	"github.com/matzehuels/sitegen/pkg/translation"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// renderTable renders rows with a rounded border. Short rows are padded.
func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// shouldColorize reports whether w is an interactive terminal.
func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// painter colors table cells only when the output is a terminal.
type painter bool

func (p painter) paint(s string, colors ...text.Color) string {
	if !p || s == "" {
		return s
	}
	return text.Colors(colors).Sprint(s)
}

// =============================================================================
// Commands
// =============================================================================

// releasesCommand prints the classified releases.
func (c *CLI) releasesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "releases",
		Short: "Show releases grouped into current, beta and older branches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.execute(cmd.Context(), pipeline.StageReleases)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(data.Releases)+len(data.Beta)+len(data.Older) == 0 {
				printInfo("No releases found")
				return nil
			}
			fmt.Fprintln(w, releasesTable(data, painter(shouldColorize(w))))
			if n := len(data.Disagreements); n > 0 {
				printWarning("%d version pairs sort differently as text", n)
			}
			return nil
		},
	}
}

// themesCommand prints the theme releases.
func (c *CLI) themesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "Show theme releases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.execute(cmd.Context(), pipeline.StageThemes)
			if err != nil {
				return err
			}
			if len(data.Themes) == 0 {
				printInfo("No themes found")
				return nil
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, themesTable(data.Themes, painter(shouldColorize(w))))
			return nil
		},
	}
}

// translationsCommand prints the per-language catalog statistics.
func (c *CLI) translationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "translations",
		Short: "Show translation statistics per language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.execute(cmd.Context(), pipeline.StageTranslations)
			if err != nil {
				return err
			}
			if len(data.Translations) == 0 {
				printInfo("No translations found")
				return nil
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, translationsTable(data.Translations, painter(shouldColorize(w))))
			return nil
		},
	}
}

// =============================================================================
// Tables
// =============================================================================

func releasesTable(data *pipeline.PageData, p painter) string {
	var rows [][]string
	add := func(rels []records.ReleaseRecord, outcome branch.Outcome) {
		for _, r := range rels {
			name := r.Version
			label := string(outcome)
			if r.Featured {
				name = p.paint(name, text.Bold, text.FgGreen)
				label = string(branch.OutcomeFeatured)
			}
			rows = append(rows, []string{
				name,
				label,
				formatDate(r.Date),
				strconv.Itoa(len(r.Files)),
				r.Info,
			})
		}
	}
	add(data.Releases, branch.OutcomeCurrent)
	add(data.Beta, branch.OutcomeBeta)
	add(data.Older, branch.OutcomeOlder)

	return renderTable(
		[]string{"Version", "Branch", "Date", "Files", "Info"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

func themesTable(themes []records.ThemeRecord, p painter) string {
	rows := make([][]string, 0, len(themes))
	for _, t := range themes {
		rows = append(rows, []string{
			t.DisplayName,
			t.Version,
			p.paint(t.SupportLevel, supportColor(t.SupportLevel)),
			formatDate(t.Date),
			t.File.HumanSize,
		})
	}
	return renderTable(
		[]string{"Theme", "Version", "Support", "Date", "Size"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	)
}

func translationsTable(recs []translation.Record, p painter) string {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		updated := "-"
		if !r.LastUpdate.IsZero() {
			updated = humanize.Time(r.LastUpdate)
		}
		rows = append(rows, []string{
			r.Language,
			r.ShortName,
			fmt.Sprintf("%d/%d", r.Translated, r.Total),
			p.paint(r.PercentText, severityColor(r.Severity)),
			r.Translator,
			updated,
		})
	}
	return renderTable(
		[]string{"Language", "Code", "Messages", "Done", "Translator", "Updated"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
	)
}

func supportColor(level string) text.Color {
	if level == registry.SupportNA {
		return text.FgHiBlack
	}
	return text.FgCyan
}

func severityColor(severity string) text.Color {
	switch severity {
	case translation.SeverityLow:
		return text.FgRed
	case translation.SeverityMedium:
		return text.FgYellow
	default:
		return text.FgGreen
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
