package cli

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/weather"
)

func sayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "say <trip-id> <message...>",
		Short: "Post a message to a trip's chat",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			trip, err := memberTrip(ctx, a, args[0])
			if err != nil {
				return err
			}
			user, err := a.auth.RequireCurrentUser(ctx)
			if err != nil {
				return friendly(err, "user")
			}
			m, err := a.messages.Send(ctx, trip.ID, user.ID, strings.Join(args[1:], " "), domain.MessageText)
			if err != nil {
				return friendly(err, "trip")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", m.CreatedAt.Local().Format("15:04"), user.DisplayName, html.UnescapeString(m.Content))
			return nil
		},
	}
}

func messagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "messages <trip-id>",
		Short: "Show a trip's chat history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			trip, err := memberTrip(ctx, a, args[0])
			if err != nil {
				return err
			}
			msgs, err := a.messages.List(ctx, trip.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(msgs) == 0 {
				fmt.Fprintln(out, "No messages yet.")
				return nil
			}
			names := map[string]string{}
			for _, m := range msgs {
				name, ok := names[m.UserID.String()]
				if !ok {
					name = m.UserID.String()[:8]
					if u, err := a.auth.GetUser(ctx, m.UserID); err == nil {
						name = u.DisplayName
					}
					names[m.UserID.String()] = name
				}
				// Stored content is HTML-escaped; a terminal shows it raw.
				fmt.Fprintf(out, "[%s] %s: %s\n", m.CreatedAt.Local().Format("Jan 2 15:04"), name, html.UnescapeString(m.Content))
			}
			return nil
		},
	}
}

func weatherCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "weather <trip-id>",
		Short: "Show the forecast for a trip's destination and dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			trip, err := memberTrip(ctx, a, args[0])
			if err != nil {
				return err
			}
			f := a.weather.Forecast(ctx, trip.DestinationText, trip.StartDate, trip.EndDate)
			out := cmd.OutOrStdout()
			header := "Weather for " + f.City
			if f.Mock {
				header += " (estimated)"
			}
			fmt.Fprintln(out, header)
			if len(f.Days) == 0 {
				fmt.Fprintln(out, "No forecast available for these dates.")
				return nil
			}
			tw := newTable(out)
			fmt.Fprintln(tw, "DATE\tTEMP\tFEELS\tHUMIDITY\tWIND\tCONDITIONS\tICON")
			for _, d := range f.Days {
				day, _ := time.Parse(time.DateOnly, d.Date)
				fmt.Fprintf(tw, "%s %s\t%.0f°C\t%.0f°C\t%d%%\t%.1f m/s\t%s\t%s\n",
					day.Format("Mon"), d.Date, d.Temp, d.FeelsLike, d.Humidity, d.WindSpeed, d.Description, weather.IconURL(d.Icon))
			}
			return tw.Flush()
		},
	}
}
