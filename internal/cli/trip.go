package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/pkordes/wanderly/internal/domain"
)

func planCmd(a *app) *cobra.Command {
	var (
		start, end, pace, currency string
		group                      int
		budget                     float64
		interests, dietary, access []string
	)
	cmd := &cobra.Command{
		Use:   "plan <destination>",
		Short: "Generate an itinerary and save it as a new trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.auth.RequireCurrentUser(cmd.Context())
			if err != nil {
				return friendly(err, "user")
			}
			startDate, err := parseDate("start", start)
			if err != nil {
				return err
			}
			endDate, err := parseDate("end", end)
			if err != nil {
				return err
			}
			req := domain.ItineraryRequest{
				Destination:   args[0],
				StartDate:     startDate,
				EndDate:       endDate,
				GroupSize:     group,
				Pace:          domain.Pace(pace),
				Currency:      currency,
				Interests:     interests,
				Dietary:       dietary,
				Accessibility: access,
			}
			if cmd.Flags().Changed("budget") {
				req.Budget = &budget
			}

			res, err := a.planner.Plan(cmd.Context(), user.ID, req)
			if err != nil {
				return friendly(err, "trip")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", res.Itinerary.Title, res.Itinerary.Source)
			fmt.Fprintf(out, "trip %s  %s\n", res.Trip.ID, dateRange(res.Trip))
			for _, day := range res.Itinerary.Days {
				fmt.Fprintf(out, "\nDay %d  %s\n", day.DayIndex, day.Date)
				for _, pa := range day.Activities {
					fmt.Fprintf(out, "  %s-%s  %s\n", pa.StartTime, pa.EndTime, pa.Title)
				}
			}
			fmt.Fprintf(out, "\n%d activities proposed\n", len(res.Activities))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&start, "start", "", "First day, YYYY-MM-DD (required)")
	f.StringVar(&end, "end", "", "Last day, YYYY-MM-DD (required)")
	f.IntVar(&group, "group", 1, "Number of travellers")
	f.StringVar(&pace, "pace", string(domain.PaceBalanced), "relaxed, balanced or packed")
	f.Float64Var(&budget, "budget", 0, "Total budget in major currency units")
	f.StringVar(&currency, "currency", "USD", "ISO currency code")
	f.StringSliceVar(&interests, "interests", nil, "Interests, comma separated")
	f.StringSliceVar(&dietary, "dietary", nil, "Dietary restrictions, comma separated")
	f.StringSliceVar(&access, "accessibility", nil, "Accessibility needs, comma separated")
	markRequired(cmd, "start", "end")
	return cmd
}

func tripsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "trips",
		Short: "List your trips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.auth.RequireCurrentUser(cmd.Context())
			if err != nil {
				return friendly(err, "user")
			}
			trips, err := a.trips.ListForUser(cmd.Context(), user.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(trips) == 0 {
				fmt.Fprintln(out, "No trips yet. Try: wanderly plan <destination> --start ... --end ...")
				return nil
			}
			tw := newTable(out)
			fmt.Fprintln(tw, "ID\tTITLE\tDATES\tSTATUS\tBUDGET")
			for _, t := range trips {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, dateRange(t), t.Status, money(t.BudgetCents, t.Currency))
			}
			return tw.Flush()
		},
	}
}

func activitiesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "activities <trip-id>",
		Short: "List a trip's activities with their votes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			trip, err := memberTrip(ctx, a, args[0])
			if err != nil {
				return err
			}
			acts, err := a.activities.List(ctx, trip.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(acts) == 0 {
				fmt.Fprintln(out, "No activities.")
				return nil
			}
			tw := newTable(out)
			fmt.Fprintln(tw, "ID\tWHEN\tTITLE\tSTATUS\tCOST\tVOTES")
			for _, act := range acts {
				tally, err := a.votes.Tally(ctx, act.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t+%d/-%d\n",
					act.ID, when(act), act.Title, act.Status, money(act.CostCents, trip.Currency), tally.Up, tally.Down)
			}
			return tw.Flush()
		},
	}
}

func voteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "vote <activity-id> up|down",
		Short:     "Vote on an activity; voting again replaces your vote",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(domain.VoteUp), string(domain.VoteDown)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := a.auth.RequireCurrentUser(ctx)
			if err != nil {
				return friendly(err, "user")
			}
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid activity id %q", args[0])
			}
			act, err := a.activities.Get(ctx, id)
			if err != nil {
				return friendly(err, "activity")
			}
			if err := requireMember(ctx, a, act.TripID, user.ID); err != nil {
				return friendly(err, "activity")
			}
			if _, err := a.votes.Vote(ctx, act.ID, user.ID, domain.VoteChoice(args[1])); err != nil {
				return friendly(err, "activity")
			}
			tally, err := a.votes.Tally(ctx, act.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Voted %s on %q (+%d/-%d)\n", args[1], act.Title, tally.Up, tally.Down)
			return nil
		},
	}
}

// memberTrip resolves a trip ID argument for the current user. Trips the
// user does not belong to are reported as not found.
func memberTrip(ctx context.Context, a *app, arg string) (domain.Trip, error) {
	user, err := a.auth.RequireCurrentUser(ctx)
	if err != nil {
		return domain.Trip{}, friendly(err, "user")
	}
	id, err := uuid.Parse(arg)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("invalid trip id %q", arg)
	}
	trip, err := a.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, friendly(err, "trip")
	}
	if err := requireMember(ctx, a, trip.ID, user.ID); err != nil {
		return domain.Trip{}, friendly(err, "trip")
	}
	return trip, nil
}

func requireMember(ctx context.Context, a *app, tripID, userID uuid.UUID) error {
	members, err := a.members.List(ctx, tripID)
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(members, func(m domain.TripMember) bool { return m.UserID == userID }) {
		return domain.ErrNotFound
	}
	return nil
}

func parseDate(flag, v string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be a date like 2025-06-01, got %q", flag, v)
	}
	return t, nil
}

func dateRange(t domain.Trip) string {
	return t.StartDate.Format(time.DateOnly) + " to " + t.EndDate.Format(time.DateOnly)
}

func when(a domain.Activity) string {
	if a.StartTime == nil {
		return a.ItineraryDayID
	}
	return a.StartTime.UTC().Format("2006-01-02 15:04")
}

// money formats an amount in minor units, or "-" when absent.
func money(cents *int64, currency string) string {
	if cents == nil {
		return "-"
	}
	s := decimal.New(*cents, -2).StringFixed(2)
	if currency != "" {
		s += " " + currency
	}
	return s
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
