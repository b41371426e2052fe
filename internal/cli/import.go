package cli

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/ngmaloney/nz-tides/data"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import [DIR]",
		Short: "Import tide tables into the SQLite database",
		Long: `Import every <port>/<year>.csv table under DIR into the database at
--db-path, replacing tables already there. Without DIR the bundled tables are
imported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()

			var fsys fs.FS = data.Tables
			if len(args) == 1 {
				if _, err := os.Stat(args[0]); err != nil {
					return err
				}
				fsys = os.DirFS(args[0])
			}

			src, err := a.openSQLite()
			if err != nil {
				return err
			}

			progressChan := make(chan string)
			done := make(chan struct{})
			go func() {
				defer close(done)
				for msg := range progressChan {
					a.logger.Info(msg)
				}
			}()

			count, err := src.Import(cmd.Context(), fsys, progressChan)
			close(progressChan)
			<-done
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tide tables into %s\n", count, a.cfg.DBPath)
			return nil
		},
	}
}
