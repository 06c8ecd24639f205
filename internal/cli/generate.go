package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sitegen/pkg/pipeline"
)

// dataFile is the name of the page data file inside the output directory.
const dataFile = "data.json"

// generateFlags holds flags for the generate command.
type generateFlags struct {
	stages []string
}

// generateCommand runs the pipeline and writes the page data.
func (c *CLI) generateCommand() *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Fetch every feed and write the page data",
		Long: `Generate runs every stage of the pipeline and writes the resulting page
data as JSON to the output directory. Unless --no-clean is given the output
directory is emptied first.`,
		Example: `  sitegen generate
  sitegen generate -o ./site --no-clean
  sitegen generate --stage releases --stage themes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, flags)
		},
	}

	cmd.Flags().StringSliceVar(&flags.stages, "stage", nil, "run only these stages ("+strings.Join(pipeline.Stages, ", ")+")")
	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, flags generateFlags) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts := pipeline.Options{Stages: flags.stages, Refresh: c.flags.refresh}
	if err := opts.Validate(); err != nil {
		return err
	}

	lock, err := acquireLock(cfg.Cache.Dir)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	if err := prepareOutput(cfg.Site.Output, cfg.Site.Clean); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	data, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done("Generated page data")

	path := filepath.Join(cfg.Site.Output, dataFile)
	size, err := writeData(path, data)
	if err != nil {
		return err
	}

	printSuccess("Page data generated")
	printFile(path)
	printStats(data.Stats, size)
	for _, st := range data.Stats.Stages {
		if st.Warning != "" {
			printWarning("%s: %s", st.Name, st.Warning)
		}
	}
	printNextStep("Preview the data", appName+" serve")
	return nil
}

// prepareOutput creates dir, removing its previous content when clean is set.
func prepareOutput(dir string, clean bool) error {
	if clean {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("clean output: %w", err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	return nil
}

// writeData writes data as indented JSON and returns the file size.
func writeData(path string, data *pipeline.PageData) (int64, error) {
	buf, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encode page data: %w", err)
	}
	buf = append(buf, '\n')
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		return 0, fmt.Errorf("write page data: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("write page data: %w", err)
	}
	return int64(len(buf)), nil
}

// formatSize renders a byte count for status lines.
func formatSize(n int64) string {
	return humanize.IBytes(uint64(n))
}
