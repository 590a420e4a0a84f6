package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/feastday-api/internal/calendar"
	"github.com/zapponejosh/feastday-api/internal/export"
	"github.com/zapponejosh/feastday-api/internal/i18n"
)

type labelledFeast struct {
	calendar.FeastInstance
	Name string `json:"name"`
}

func newHolyDaysCmd(opts *options) *cobra.Command {
	var (
		format   string
		holyWeek bool
	)

	cmd := &cobra.Command{
		Use:   "holydays <system> <year>",
		Short: "List the holy days of a tradition for one year",
		Long: "List the holy days of a tradition for one year.\n\n" +
			"system is one of western, eastern, hebrew or coptic. The year is\n" +
			"in the tradition's own era: Gregorian for western and eastern,\n" +
			"Anno Mundi for hebrew and the Era of the Martyrs for coptic.",
		Example: "  feastctl holydays western 2025\n" +
			"  feastctl holydays hebrew 5785 --lang fr\n" +
			"  feastctl holydays coptic 1741 --format ics > coptic.ics",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			system, err := calendar.ParseCalendarSystem(args[0])
			if err != nil {
				return err
			}
			year, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: %q", calendar.ErrInvalidYear, args[1])
			}
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			label, err := opts.labeler()
			if err != nil {
				return err
			}

			var feasts []calendar.FeastInstance
			if holyWeek {
				feasts, err = reg.HolyWeek(system, year)
			} else {
				feasts, err = reg.ListHolyDays(system, year)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "table":
				tw := newTable(out)
				fmt.Fprintln(tw, "DATE\tDAY\tNAME\tKIND\tCATEGORY")
				for _, f := range feasts {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.Date, calendar.DayName(f.Date)[:3], label(f.NameKey), f.Kind, f.Category)
				}
				return tw.Flush()
			case string(export.FormatJSON):
				rows := make([]labelledFeast, len(feasts))
				for i, f := range feasts {
					rows[i] = labelledFeast{FeastInstance: f, Name: label(f.NameKey)}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			case string(export.FormatCSV):
				return export.WriteCSV(out, feasts, label)
			case string(export.FormatICS):
				name := fmt.Sprintf("%s %d", label(i18n.SystemKey(system.String())), year)
				return export.WriteICS(out, name, feasts, label, time.Now())
			default:
				return fmt.Errorf("unknown format %q: want table, json, csv or ics", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json, csv or ics")
	cmd.Flags().BoolVar(&holyWeek, "holy-week", false, "list Holy Week instead of the full year")
	return cmd
}
