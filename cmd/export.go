package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/canvas/internal/export"
	"github.com/ziadkadry99/canvas/internal/progress"
	"github.com/ziadkadry99/canvas/internal/snippets"
)

var (
	exportMarkup string
	exportStyle  string
	exportOut    string
	exportTitle  string
	exportAll    bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write index.html from a markup file and a style file",
	Long: `Combines a markup file and a style file into the same standalone index.html the playground downloads.
With --snippets, exports every starter snippet into <out>/<name>/index.html instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportAll {
			return exportSnippets(cmd)
		}

		markup, err := readOptional(exportMarkup)
		if err != nil {
			return err
		}
		style, err := readOptional(exportStyle)
		if err != nil {
			return err
		}

		title, err := exportTitleFor(cmd)
		if err != nil {
			return err
		}

		path, err := export.New(title).Export(markup, style).WriteFile(exportOut)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
		return nil
	},
}

func exportTitleFor(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("title") {
		return exportTitle, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.Export.Title, nil
}

// exportSnippets writes one document per starter snippet.
func exportSnippets(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lib, err := snippets.Open(cfg.Snippets.Dir, cfg.Snippets.Include)
	if err != nil {
		return fmt.Errorf("loading snippets: %w", err)
	}
	title, err := exportTitleFor(cmd)
	if err != nil {
		return err
	}

	svc := export.New(title)
	list := lib.List()
	reporter := progress.NewReporter()
	reporter.Start(len(list))
	for i, snip := range list {
		dir := filepath.Join(exportOut, filepath.FromSlash(snip.Name))
		if _, err := svc.Export(snip.Markup, snip.Style).WriteFile(dir); err != nil {
			reporter.Finish()
			return fmt.Errorf("exporting %s: %w", snip.Name, err)
		}
		reporter.Update(i+1, snip.Name)
	}
	reporter.Finish()

	fmt.Fprintf(os.Stderr, "Exported %d snippets to %s\n", len(list), exportOut)
	return nil
}

// readOptional returns the file's contents, or "" when no path is given.
func readOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func init() {
	exportCmd.Flags().StringVar(&exportMarkup, "markup", "", "HTML file for the page body")
	exportCmd.Flags().StringVar(&exportStyle, "style", "", "CSS file inlined in the page head")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", ".", "directory to write index.html into")
	exportCmd.Flags().StringVar(&exportTitle, "title", export.DefaultTitle, "document title (overrides config)")
	exportCmd.Flags().BoolVar(&exportAll, "snippets", false, "export every starter snippet")
	rootCmd.AddCommand(exportCmd)
}
