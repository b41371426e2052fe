package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ngmaloney/nz-tides/data"
	"github.com/ngmaloney/nz-tides/internal/models"
	"github.com/ngmaloney/nz-tides/internal/tables"
	"github.com/ngmaloney/nz-tides/internal/tides"
	"github.com/ngmaloney/nz-tides/internal/ui"
)

func newBrowseCmd(a *app) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "browse [PORT]",
		Short: "Browse tides in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()

			opts, err := a.browseOptions(args, date)
			if err != nil {
				return err
			}

			src, err := a.openSource(cmd.Context(), true)
			if err != nil {
				return err
			}
			if sqlite, ok := src.(*tables.SQLiteSource); ok {
				needed, err := sqlite.NeedsImport(cmd.Context())
				if err != nil {
					return err
				}
				if needed {
					opts.Importer = func(ctx context.Context, progress chan<- string) (int, error) {
						return sqlite.Import(ctx, data.Tables, progress)
					}
				}
			}

			m := ui.NewModel(tides.NewResolver(src, a.logger), opts)
			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "first day to show, YYYY-MM-DD (default today)")
	return cmd
}

func (a *app) browseOptions(args []string, date string) (ui.Options, error) {
	opts := ui.Options{Location: a.cfg.Location()}

	if len(args) == 1 {
		port, err := models.ParsePort(args[0])
		if err != nil {
			return opts, err
		}
		opts.Port = &port
	}

	if date != "" {
		d, err := time.ParseInLocation(dateLayout, date, opts.Location)
		if err != nil {
			return opts, fmt.Errorf("invalid --date %q, want YYYY-MM-DD", date)
		}
		opts.Date = d
	}
	return opts, nil
}
