package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/scouting-report/external/transfermarkt"
	"github.com/riskibarqy/scouting-report/internal/app"
	"github.com/riskibarqy/scouting-report/internal/config"
	"github.com/riskibarqy/scouting-report/internal/domain/player"
	"github.com/riskibarqy/scouting-report/internal/domain/scouting"
	"github.com/riskibarqy/scouting-report/internal/platform/logging"
	"github.com/riskibarqy/scouting-report/internal/usecase"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	verbose bool
	logger  *logging.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "scout",
		Short:         "Football player scouting reports",
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logging.LevelInfo
			if opts.verbose {
				level = logging.LevelDebug
			}
			opts.logger = logging.NewConsole(level)
			logging.SetDefault(opts.logger)
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(reportCmd(opts))
	root.AddCommand(chartCmd(opts))
	root.AddCommand(importCmd(opts))
	return root
}

func (o *rootOptions) reportService() (*usecase.ReportService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.NewReportService(cfg, o.logger)
}

func reportCmd(opts *rootOptions) *cobra.Command {
	var (
		names   []string
		outDir  string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "report [name...]",
		Short: "Search each player and write their report as a PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.reportService()
			if err != nil {
				return err
			}

			batch := usecase.NewBatchService(svc, newFileWriter(outDir), opts.logger)
			result, err := batch.Generate(cmd.Context(), usecase.BatchInput{
				Names:      append(names, args...),
				MaxWorkers: workers,
			})
			if err != nil {
				return err
			}
			opts.logger.Info("batch finished",
				"tasks", result.TaskCount,
				"success", result.SuccessCount,
				"failed", result.FailedCount,
				"skipped", result.SkippedCount,
			)
			if err := printJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if result.SuccessCount == 0 && result.FailedCount > 0 {
				return fmt.Errorf("all %d report(s) failed", result.FailedCount)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&names, "name", "n", nil, "Player name to look up (repeatable)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "reports", "Directory the PDFs are written to")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent reports (default 4, max 16)")
	return cmd
}

func chartCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Extract chart segments from a raw record saved as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			var fields player.Record
			if err := sonic.Unmarshal(raw, &fields); err != nil {
				return fmt.Errorf("decode %s: %w", file, err)
			}

			svc, err := opts.reportService()
			if err != nil {
				return err
			}
			extraction := svc.ExtractChartData(cmd.Context(), fields)
			if extraction.UsedField == nil {
				opts.logger.Warn("no chart field found", "file", file)
			}
			return printJSON(cmd.OutOrStdout(), extraction)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "JSON file with the record fields, - for stdin")
	return cmd
}

func importCmd(opts *rootOptions) *cobra.Command {
	var (
		htmlFile string
		outDir   string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Build a report from a saved Transfermarkt profile page",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), htmlFile)
			if err != nil {
				return err
			}
			page, err := transfermarkt.Parse(bytes.NewReader(raw), time.Now())
			if err != nil {
				return err
			}
			if strings.TrimSpace(page.Profile.Name) == "" {
				return fmt.Errorf("no player found in %s", htmlFile)
			}

			svc, err := opts.reportService()
			if err != nil {
				return err
			}
			report := svc.Process(scouting.Input{
				Profile:    page.Profile,
				Statistics: page.Statistics,
			})
			if asJSON {
				return printJSON(cmd.OutOrStdout(), report)
			}

			doc, err := svc.RenderPDF(cmd.Context(), report)
			if err != nil {
				return err
			}
			path, err := newFileWriter(outDir).Write(cmd.Context(), doc)
			if err != nil {
				return err
			}
			opts.logger.Info("report written",
				"player", report.Profile.Name,
				"market_value", page.MarketValue,
				"path", path,
			)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	cmd.Flags().StringVar(&htmlFile, "html", "-", "Saved profile page, - for stdin")
	cmd.Flags().StringVarP(&outDir, "out", "o", "reports", "Directory the PDF is written to")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the processed report instead of writing a PDF")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return raw, nil
}

func printJSON(w io.Writer, v any) error {
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
