package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zapponejosh/feastday-api/internal/calendar"
	"github.com/zapponejosh/feastday-api/internal/database"
	"github.com/zapponejosh/feastday-api/internal/materialize"
)

const defaultDatabasePath = "./data/feastdays.db"

func databasePathDefault() string {
	if p := os.Getenv("DATABASE_PATH"); p != "" {
		return p
	}
	return defaultDatabasePath
}

func openDatabase(ctx context.Context, path string, log *slog.Logger) (*database.DB, error) {
	db, err := database.Open(database.DefaultConfig(path), log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

func newMaterializeCmd(opts *options) *cobra.Command {
	var (
		dbPath   string
		from, to int
	)

	cmd := &cobra.Command{
		Use:   "materialize",
		Short: "Compute every tradition for a range of years and store the results",
		Example: "  feastctl materialize --from 2025 --to 2030\n" +
			"  feastctl materialize --db /var/lib/feastday/feastdays.db",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == 0 {
				from = time.Now().Year()
			}
			if to == 0 {
				to = from + 5
			}

			reg, err := opts.registry()
			if err != nil {
				return err
			}
			log := opts.logger()

			db, err := openDatabase(cmd.Context(), dbPath, log)
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := materialize.NewService(reg, db, nil, log).Run(cmd.Context(), from, to)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Materialized %d-%d: %d rows in %s\n", result.FromYear, result.ToYear, result.Rows, result.Duration.Round(time.Millisecond))
			tw := newTable(out)
			fmt.Fprintln(tw, "CALENDAR\tROWS")
			for _, system := range calendar.AllSystems() {
				fmt.Fprintf(tw, "%s\t%d\n", system, result.BySystem[system])
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", databasePathDefault(), "SQLite database path")
	cmd.Flags().IntVar(&from, "from", 0, "first Gregorian year (default: current year)")
	cmd.Flags().IntVar(&to, "to", 0, "last Gregorian year (default: from + 5)")
	return cmd
}

func newCoverageCmd(opts *options) *cobra.Command {
	var (
		dbPath      string
		baseURL     string
		from, years int
		workers     int
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Report what is materialized, locally or through a running API",
		Long: "Report what is materialized.\n\n" +
			"Without --url the stored tradition years are read from the database.\n" +
			"With --url every day in the range is requested from a running server\n" +
			"and the feasts it returns are tallied per calendar.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseURL != "" {
				if from == 0 {
					from = time.Now().Year()
				}
				if years < 1 {
					return fmt.Errorf("--years must be at least 1, got %d", years)
				}
				if workers < 1 {
					workers = 1
				}
				sweep := &coverageSweep{
					client:  &http.Client{Timeout: 10 * time.Second},
					baseURL: strings.TrimRight(baseURL, "/"),
					workers: workers,
					verbose: verbose,
				}
				return sweep.run(cmd.Context(), cmd.OutOrStdout(), from, from+years-1)
			}

			db, err := openDatabase(cmd.Context(), dbPath, opts.logger())
			if err != nil {
				return err
			}
			defer db.Close()

			coverage, err := db.GetCoverage(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(coverage) == 0 {
				fmt.Fprintln(out, "No feasts materialized. Run feastctl materialize first.")
				return nil
			}
			tw := newTable(out)
			fmt.Fprintln(tw, "CALENDAR\tYEAR\tFEASTS\tFIRST\tLAST")
			for _, c := range coverage {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", c.System, c.TraditionYear, c.Feasts, c.EarliestDate, c.LatestDate)
			}
			return tw.Flush()
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&dbPath, "db", databasePathDefault(), "SQLite database path")
	flags.StringVar(&baseURL, "url", "", "base URL of a running API to sweep day by day")
	flags.IntVar(&from, "start", 0, "first Gregorian year of the sweep (default: current year)")
	flags.IntVar(&years, "years", 1, "number of years to sweep")
	flags.IntVar(&workers, "workers", 8, "concurrent requests during the sweep")
	flags.BoolVarP(&verbose, "verbose", "v", false, "print every date during the sweep")
	return cmd
}

// coverageSweep requests /api/v1/feasts/date/{date} for every day in a range.
type coverageSweep struct {
	client  *http.Client
	baseURL string
	workers int
	verbose bool
}

type dayResult struct {
	Date      civil.Date
	Feasts    []string
	Calendars []string
	Err       error
}

type envelope struct {
	Success bool `json:"success"`
	Data    struct {
		Feasts []struct {
			NameKey  string `json:"name_key"`
			Calendar string `json:"calendar"`
		} `json:"feasts"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (s *coverageSweep) run(ctx context.Context, w io.Writer, startYear, endYear int) error {
	first := civil.Date{Year: startYear, Month: time.January, Day: 1}
	last := civil.Date{Year: endYear, Month: time.December, Day: 31}
	total := calendar.DaysBetween(first, last) + 1

	fmt.Fprintf(w, "Sweeping %s to %s (%d days) against %s\n\n", first, last, total, s.baseURL)

	results := make([]dayResult, total)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	var mu sync.Mutex
	for i := 0; i < total; i++ {
		i := i
		date := calendar.AddDays(first, i)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := s.fetch(gctx, date)
			results[i] = res
			if s.verbose {
				mu.Lock()
				if res.Err != nil {
					fmt.Fprintf(w, "%s  FAIL  %v\n", date, res.Err)
				} else {
					fmt.Fprintf(w, "%s  %d  %s\n", date, len(res.Feasts), strings.Join(res.Feasts, ", "))
				}
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	bySystem := make(map[string]int)
	var failed []dayResult
	emptyDays := 0
	for _, res := range results {
		if res.Err != nil {
			failed = append(failed, res)
			continue
		}
		if len(res.Feasts) == 0 {
			emptyDays++
		}
		for _, system := range res.Calendars {
			bySystem[system]++
		}
	}

	fmt.Fprintln(w)
	tw := newTable(w)
	fmt.Fprintf(tw, "Days requested:\t%d\n", total)
	fmt.Fprintf(tw, "Days failed:\t%d\n", len(failed))
	fmt.Fprintf(tw, "Days without feasts:\t%d\n", emptyDays)
	if err := tw.Flush(); err != nil {
		return err
	}

	systems := make([]string, 0, len(bySystem))
	for k := range bySystem {
		systems = append(systems, k)
	}
	sort.Strings(systems)

	fmt.Fprintln(w)
	tw = newTable(w)
	fmt.Fprintln(tw, "CALENDAR\tFEASTS")
	for _, k := range systems {
		fmt.Fprintf(tw, "%s\t%d\n", k, bySystem[k])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(failed) > 0 {
		fmt.Fprintln(w, "\nFailures:")
		for _, res := range failed {
			fmt.Fprintf(w, "  %s: %v\n", res.Date, res.Err)
		}
		return fmt.Errorf("%d of %d days failed", len(failed), total)
	}
	return nil
}

func (s *coverageSweep) fetch(ctx context.Context, date civil.Date) dayResult {
	res := dayResult{Date: date}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/v1/feasts/date/"+date.String(), nil)
	if err != nil {
		res.Err = err
		return res
	}
	resp, err := s.client.Do(req)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()

	var body envelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		res.Err = fmt.Errorf("decode response: %w", err)
		return res
	}
	if resp.StatusCode != http.StatusOK || !body.Success {
		if body.Error != nil {
			res.Err = fmt.Errorf("%d %s: %s", resp.StatusCode, body.Error.Code, body.Error.Message)
		} else {
			res.Err = fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return res
	}
	for _, f := range body.Data.Feasts {
		res.Feasts = append(res.Feasts, f.NameKey)
		res.Calendars = append(res.Calendars, f.Calendar)
	}
	return res
}
