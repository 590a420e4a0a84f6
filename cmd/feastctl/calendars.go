package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/feastday-api/internal/calendar"
	"github.com/zapponejosh/feastday-api/internal/i18n"
)

func newEasterCmd(opts *options) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "easter <year>",
		Short: "Print Western and Eastern Easter for one or more years",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", calendar.ErrInvalidYear, args[0])
			}
			if count < 1 || count > 500 {
				return fmt.Errorf("--count must be between 1 and 500, got %d", count)
			}
			reg, err := opts.registry()
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "YEAR\tWESTERN\tEASTERN\tAPART")
			for y := year; y < year+count; y++ {
				western, err := reg.Anchor(calendar.Western, y)
				if err != nil {
					return err
				}
				eastern, err := reg.Anchor(calendar.Eastern, y)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", y, western, eastern, calendar.DaysBetween(western, eastern))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of consecutive years")
	return cmd
}

func newHebrewCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "hebrew <year | year-month-day>",
		Short: "Describe a Hebrew year or convert a Hebrew date to Gregorian",
		Example: "  feastctl hebrew 5785\n" +
			"  feastctl hebrew 5785-7-15",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			label, err := opts.labeler()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if strings.Contains(args[0], "-") {
				year, month, day, err := calendar.ParseNativeDate(args[0])
				if err != nil {
					return err
				}
				date, err := calendar.HebrewToGregorian(year, month, day)
				if err != nil {
					return err
				}
				name := label(i18n.HebrewMonthKey(calendar.HebrewMonthOf(year, month).String()))
				fmt.Fprintf(out, "%s of %s %d is %s, %s\n", calendar.Ordinal(day), name, year, calendar.DayName(date), date)
				return nil
			}

			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", calendar.ErrInvalidYear, args[0])
			}
			yc, err := calendar.HebrewYear(year)
			if err != nil {
				return err
			}
			rh, err := calendar.RoshHashanah(year)
			if err != nil {
				return err
			}

			kind := "regular"
			if yc.Leap {
				kind = "leap"
			}
			fmt.Fprintf(out, "Hebrew year %d: %s, %d days, year %d of the 19-year cycle\n",
				year, kind, yc.DaysInYear(), calendar.HebrewCyclePosition(year))
			fmt.Fprintf(out, "Rosh Hashanah: %s, %s\n\n", calendar.DayName(rh), rh)

			tw := newTable(out)
			fmt.Fprintln(tw, "#\tMONTH\tDAYS\tBEGINS")
			for n := 1; n <= yc.MonthCount; n++ {
				first, err := calendar.HebrewToGregorian(year, n, 1)
				if err != nil {
					return err
				}
				name := label(i18n.HebrewMonthKey(calendar.HebrewMonthOf(year, n).String()))
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", n, name, yc.MonthLengths[n-1], first)
			}
			return tw.Flush()
		},
	}
}

func newCopticCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "coptic <year | year-month-day>",
		Short: "Describe a Coptic year or convert a Coptic date to Gregorian",
		Example: "  feastctl coptic 1741\n" +
			"  feastctl coptic 1741-4-29",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if strings.Contains(args[0], "-") {
				year, month, day, err := calendar.ParseNativeDate(args[0])
				if err != nil {
					return err
				}
				date, err := calendar.CopticToGregorian(year, month, day)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s day of month %d, %d A.M. is %s, %s\n", calendar.Ordinal(day), month, year, calendar.DayName(date), date)
				return nil
			}

			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", calendar.ErrInvalidYear, args[0])
			}
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			yc, err := calendar.CopticYear(year)
			if err != nil {
				return err
			}
			newYear, err := calendar.CopticToGregorian(year, 1, 1)
			if err != nil {
				return err
			}
			easter, err := reg.Anchor(calendar.Coptic, year)
			if err != nil {
				return err
			}

			kind := "regular"
			if yc.Leap {
				kind = "leap"
			}
			fmt.Fprintf(out, "Coptic year %d A.M.: %s, %d days\n", year, kind, yc.DaysInYear())
			fmt.Fprintf(out, "Nayrouz: %s, %s\n", calendar.DayName(newYear), newYear)
			fmt.Fprintf(out, "Easter:  %s, %s\n", calendar.DayName(easter), easter)
			return nil
		},
	}
}
