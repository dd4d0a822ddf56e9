// Command faultlog queries the equipment cascade and manages the daily fault
// log without starting the server.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/fault-logbook/backend/internal/app"
	"github.com/fault-logbook/backend/internal/config"
	"github.com/fault-logbook/backend/internal/filter"
	"github.com/fault-logbook/backend/internal/logging"
	"github.com/fault-logbook/backend/internal/models"
	"github.com/fault-logbook/backend/internal/recordlog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type cli struct {
	configPath string
	filter     string
	out        string

	cfg  *config.AppConfig
	core *app.Core
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "faultlog",
		Short:         "Equipment fault logbook tools",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "FaultLogbook.exe.config", "path to the XML configuration file")

	lines := &cobra.Command{
		Use:   "lines",
		Short: "List production lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.printOptions(cmd.OutOrStdout(), c.core.Index.Lines())
		},
	}
	areas := &cobra.Command{
		Use:   "areas <line>",
		Short: "List the areas of a line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.printOptions(cmd.OutOrStdout(), c.core.Index.Areas(args[0]))
		},
	}
	types := &cobra.Command{
		Use:   "types <line> <area>",
		Short: "List the equipment types of an area",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.printOptions(cmd.OutOrStdout(), c.core.Index.EquipmentTypes(args[0], args[1]))
		},
	}
	equipment := &cobra.Command{
		Use:   "equipment <line> <area> <type>",
		Short: "List the equipment of an equipment type",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.printOptions(cmd.OutOrStdout(), c.core.Index.Equipment(args[0], args[1], args[2]))
		},
	}
	for _, cmd := range []*cobra.Command{lines, areas, types, equipment} {
		cmd.Flags().StringVarP(&c.filter, "filter", "f", "", "case-insensitive substring filter")
	}

	records := &cobra.Command{
		Use:   "records",
		Short: "Print the saved records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.printRecords(cmd.OutOrStdout())
		},
	}

	export := &cobra.Command{
		Use:   "export",
		Short: "Export saved records to a spreadsheet and clear them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.export(cmd.OutOrStdout())
		},
	}
	export.Flags().StringVarP(&c.out, "out", "o", "", "destination .xlsx file (default from config)")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Discard all saved records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.core.Log.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared")
			return nil
		},
	}

	root.AddCommand(lines, areas, types, equipment, records, export, clearCmd)
	return root
}

func (c *cli) load(stderr io.Writer) error {
	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	logger := logging.NewLogger(stderr, cfg.Advanced.LogLevel, cfg.Advanced.LogFormat)
	slog.SetDefault(logger)

	core, err := app.Load(cfg, logger)
	if err != nil {
		return err
	}
	c.cfg, c.core = cfg, core
	return nil
}

func (c *cli) printOptions(w io.Writer, options []string) error {
	for _, o := range filter.Filter(options, c.filter) {
		if _, err := fmt.Fprintln(w, o); err != nil {
			return err
		}
	}
	return nil
}

func (c *cli) printRecords(w io.Writer) error {
	records := c.core.Log.All()
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No entries to preview")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := make([]string, len(models.LogHeader))
	for i, name := range models.LogHeader {
		header[i] = strings.ReplaceAll(name, "_", " ")
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range records {
		fmt.Fprintln(tw, strings.Join(r.Values(), "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Preview (%d rows)\n", len(records))
	return err
}

func (c *cli) export(w io.Writer) error {
	dest := c.out
	if dest == "" {
		dest = c.cfg.GetExportPath()
	}

	result, err := c.core.Log.ExportAndClear(c.core.Exporter, dest)
	if errors.Is(err, recordlog.ErrNoRecords) {
		_, err = fmt.Fprintln(w, "No entries to export")
		return err
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, result.Status())
	return err
}
