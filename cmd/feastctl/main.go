// Command feastctl computes holy days from the command line and manages the
// materialized feast table.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/feastday-api/internal/calendar"
	"github.com/zapponejosh/feastday-api/internal/config"
	"github.com/zapponejosh/feastday-api/internal/i18n"
	"github.com/zapponejosh/feastday-api/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// options are the flags shared by every subcommand.
type options struct {
	offsetMode string
	offsetDays int
	lang       string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "feastctl",
		Short:        "Compute feast days across the Western, Eastern, Hebrew and Coptic calendars",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.offsetMode, "offset-mode", config.OffsetModeFixed, "Julian to Gregorian offset policy: fixed or century")
	flags.IntVar(&opts.offsetDays, "offset-days", calendar.DefaultJulianOffsetDays, "days added to Julian dates when --offset-mode=fixed")
	flags.StringVar(&opts.lang, "lang", "en", "label language")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level for diagnostics on stderr")

	root.AddCommand(
		newEasterCmd(opts),
		newHebrewCmd(opts),
		newCopticCmd(opts),
		newHolyDaysCmd(opts),
		newMaterializeCmd(opts),
		newCoverageCmd(opts),
	)
	return root
}

func (o *options) logger() *slog.Logger {
	return logger.New(os.Stderr, o.logLevel, "text")
}

// registry builds a calendar registry using the offset flags.
func (o *options) registry() (*calendar.Registry, error) {
	cfg := config.Config{
		JulianOffsetMode: o.offsetMode,
		JulianOffsetDays: o.offsetDays,
	}
	if err := config.ValidateJulianOffset(cfg.JulianOffsetMode, cfg.JulianOffsetDays); err != nil {
		return nil, fmt.Errorf("--offset-mode/--offset-days: %w", err)
	}
	return calendar.NewRegistry(calendar.WithJulianOffset(cfg.JulianOffset())), nil
}

// labeler returns a label function for --lang.
func (o *options) labeler() (func(string) string, error) {
	tr, err := i18n.New("en", o.logger())
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	return tr.Labeler(o.lang), nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
