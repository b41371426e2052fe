package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ngmaloney/nz-tides/internal/models"
	"github.com/ngmaloney/nz-tides/internal/tables"
)

const (
	dateLayout    = "2006-01-02"
	instantLayout = "2006-01-02T15:04"
)

func newPortsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List ports and the years with tide tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()

			src, err := a.openSource(cmd.Context(), false)
			if err != nil {
				return err
			}
			lister, _ := src.(tables.YearLister)

			t := newTable("Port", "Name", "Latitude", "Longitude", "Years")
			for _, p := range models.AllPorts() {
				var lat, lon, years string
				if c, ok := p.Coordinates(); ok {
					lat, lon = c.Latitude, c.Longitude
				}
				if lister != nil {
					ys, err := lister.Years(cmd.Context(), p)
					if err != nil {
						return err
					}
					years = formatYears(ys)
				}
				t.Row(p.ID(), p.Name(), lat, lon, years)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}

func formatYears(years []int) string {
	sort.Ints(years)
	s := make([]string, len(years))
	for i, y := range years {
		s[i] = strconv.Itoa(y)
	}
	return strings.Join(s, ", ")
}

func newDayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "day PORT [DATE]",
		Short: "Show the high and low tides of a day",
		Long:  "Show the high and low tides at PORT on DATE (YYYY-MM-DD, default today).",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()

			port, err := models.ParsePort(args[0])
			if err != nil {
				return err
			}
			loc := a.cfg.Location()
			now := time.Now().In(loc)
			date := now
			if len(args) == 2 {
				if date, err = time.ParseInLocation(dateLayout, args[1], loc); err != nil {
					return fmt.Errorf("invalid date %q, want YYYY-MM-DD", args[1])
				}
			}

			r, err := a.resolver(cmd.Context())
			if err != nil {
				return err
			}
			events, err := r.GetTidesForDate(cmd.Context(), port, date)
			if err != nil {
				return err
			}
			printDay(cmd.OutOrStdout(), port, date, events, now)
			return nil
		},
	}
}

// newStepCmd builds "next" (forward) or "prev"
func newStepCmd(a *app, forward bool) *cobra.Command {
	var at, typ string

	use, short := "prev PORT", "Show the previous tide"
	if forward {
		use, short = "next PORT", "Show the next tide"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()

			port, err := models.ParsePort(args[0])
			if err != nil {
				return err
			}
			want, err := parseTideType(typ)
			if err != nil {
				return err
			}
			loc := a.cfg.Location()
			now := time.Now().In(loc)
			from := now
			if at != "" {
				if from, err = time.ParseInLocation(instantLayout, at, loc); err != nil {
					return fmt.Errorf("invalid --at %q, want YYYY-MM-DDTHH:MM", at)
				}
			}

			r, err := a.resolver(cmd.Context())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			var e models.TideEvent
			if forward {
				e, err = r.After(ctx, port, from)
			} else {
				e, err = r.Before(ctx, port, from)
			}
			if err == nil && want != "" && e.Type != want {
				if forward {
					e, err = r.NextOfType(ctx, e, want)
				} else {
					e, err = r.PreviousOfType(ctx, e, want)
				}
			}
			if err != nil {
				return err
			}

			printTide(cmd.OutOrStdout(), e, now)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "reference time YYYY-MM-DDTHH:MM (default now)")
	cmd.Flags().StringVar(&typ, "type", "", "only high or low tides")
	return cmd
}

func parseTideType(s string) (models.TideType, error) {
	switch strings.ToLower(s) {
	case "":
		return "", nil
	case "high", "h":
		return models.TideHigh, nil
	case "low", "l":
		return models.TideLow, nil
	}
	return "", fmt.Errorf("invalid tide type %q, want high or low", s)
}
