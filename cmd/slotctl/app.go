package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/weekly-signup/internal/client"
	"github.com/BruksfildServices01/weekly-signup/internal/config"
	"github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
	"github.com/BruksfildServices01/weekly-signup/internal/grid"
	"github.com/BruksfildServices01/weekly-signup/internal/logging"
	"github.com/BruksfildServices01/weekly-signup/internal/slot"
	"github.com/BruksfildServices01/weekly-signup/internal/timezone"
)

type options struct {
	apiURL  string
	date    string
	actor   string
	verbose bool
	timeout time.Duration

	tz string
}

// session is the grid engine wired to one API for one command run.
type session struct {
	store      *grid.Store
	roster     *grid.Roster
	navigator  *grid.Navigator
	controller *grid.Controller
	out        io.Writer
}

func rootCmd() *cobra.Command {
	opts := &options{tz: timezone.DefaultTimezone}

	apiDefault := "http://localhost:8080"
	if cfg, err := config.Load(); err == nil {
		apiDefault = cfg.APIURL
		opts.tz = cfg.Timezone
	}

	cmd := &cobra.Command{
		Use:   "slotctl",
		Short: "Book half-hour slots on the weekly signup grid",
		Long: `Book half-hour slots on the weekly signup grid.

Examples:
  slotctl week --date 2025-01-06 --as Alice
  slotctl week --offset 1
  slotctl toggle 2025-01-06 "9:30 AM" --as Alice
  slotctl drag 2025-01-06 10 11 12 --as Alice
`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api", apiDefault, "Signup API base URL")
	cmd.PersistentFlags().StringVar(&opts.date, "date", "", "Any date in the week to show (default: today)")
	cmd.PersistentFlags().StringVar(&opts.actor, "as", "", "Identity to act as")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log engine activity")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Overall timeout")

	cmd.AddCommand(weekCmd(opts), toggleCmd(opts), dragCmd(opts))
	return cmd
}

func weekCmd(opts *options) *cobra.Command {
	var offset int

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print the merged bookings of a week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				step := 1
				if offset < 0 {
					step = -1
				}
				for i := 0; i != offset; i += step {
					if err := s.navigator.MoveWeek(ctx, step); err != nil {
						return err
					}
				}
				render(s.out, s.store.Snapshot(), s.roster)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "Weeks to move from --date (negative goes back)")
	return cmd
}

func toggleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <date> <slot>",
		Short: "Claim a free slot or release your own",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := civil.ParseDate(args[0])
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", args[0], err)
			}
			idx, err := slot.Parse(args[1])
			if err != nil {
				return err
			}

			if opts.date == "" {
				opts.date = args[0]
			}

			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				outcome, err := s.controller.Toggle(ctx, date, idx, s.roster.Selected())
				fmt.Fprintf(s.out, "%s %s: %s\n", booking.DayLabel(date), slot.Label(idx), outcome)
				if err != nil {
					return err
				}
				render(s.out, s.store.Snapshot(), s.roster)
				return nil
			})
		},
	}
}

func dragCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "drag <date> <slot> [slot...]",
		Short: "Replay a drag gesture across slots of one day",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := civil.ParseDate(args[0])
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", args[0], err)
			}

			path := make([]int, 0, len(args)-1)
			for _, a := range args[1:] {
				idx, err := slot.Parse(a)
				if err != nil {
					return err
				}
				path = append(path, idx)
			}

			if opts.date == "" {
				opts.date = args[0]
			}

			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				var failed []grid.Result
				results := make(chan grid.Result, len(path))

				drag := grid.NewDragSession(s.controller, s.roster, grid.OnResult(func(r grid.Result) {
					results <- r
				}))

				drag.PointerDown(ctx, date, path[0])
				for _, idx := range path[1:] {
					drag.PointerEnter(ctx, date, idx)
				}
				drag.PointerUp()
				drag.Wait()
				close(results)

				for r := range results {
					fmt.Fprintf(s.out, "%s %s: %s\n", booking.DayLabel(r.Cell.Date), slot.Label(r.Cell.Slot), r.Outcome)
					if r.Err != nil {
						failed = append(failed, r)
					}
				}

				render(s.out, s.store.Snapshot(), s.roster)

				if len(failed) > 0 {
					return fmt.Errorf("%d of the dragged slots failed: %w", len(failed), failed[0].Err)
				}
				return nil
			})
		},
	}
}

func withSession(cmd *cobra.Command, opts *options, fn func(context.Context, *session) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := zap.NewNop()
	if opts.verbose {
		l, err := logging.New("development", "debug")
		if err != nil {
			return err
		}
		log = l
		defer func() { _ = l.Sync() }()
	}

	anchor := timezone.Today(opts.tz)
	if opts.date != "" {
		d, err := civil.ParseDate(opts.date)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", opts.date, err)
		}
		anchor = d
	}

	api := client.New(opts.apiURL)
	store := grid.NewStore(booking.WeekOf(anchor))

	roster := grid.NewRoster()
	detach := roster.Attach(store)
	defer detach()
	if opts.actor != "" {
		roster.Add(opts.actor)
	}

	s := &session{
		store:      store,
		roster:     roster,
		navigator:  grid.NewNavigator(store, api, anchor, log),
		controller: grid.NewController(store, api, log),
		out:        cmd.OutOrStdout(),
	}

	if err := s.navigator.Reload(ctx); err != nil {
		return err
	}
	return fn(ctx, s)
}

// render prints one line per range, marking the selected actor's with '*'.
func render(w io.Writer, snap grid.Snapshot, roster *grid.Roster) {
	me := roster.Selected()

	fmt.Fprintln(w, snap.Week.Label())
	ranges := snap.Ranges()
	for i, day := range snap.Week.Days() {
		fmt.Fprintf(w, "  %s\n", booking.DayLabel(day))
		for _, r := range ranges[i] {
			mark := " "
			if me != "" && r.Owner == me {
				mark = "*"
			}
			fmt.Fprintf(w, "   %s %s - %s  %s\n", mark, slot.Label(r.Start), slot.Label(r.End), r.Owner)
		}
	}

	if names := roster.Names(); len(names) > 0 {
		fmt.Fprintf(w, "People: %s\n", strings.Join(names, ", "))
	}
}
