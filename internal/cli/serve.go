package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/ngmaloney/nz-tides/internal/api"
	"github.com/ngmaloney/nz-tides/internal/config"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tide API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := a.newServer(ctx)
			if err != nil {
				return err
			}

			errc := make(chan error, 1)
			go func() {
				a.logger.Info("listening and serving", "addr", srv.Addr)
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			a.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().String("addr", config.DefaultAddr, "listen address")
	cobra.CheckErr(a.v.BindPFlag("addr", cmd.Flags().Lookup("addr")))
	return cmd
}

func (a *app) newServer(ctx context.Context) (*http.Server, error) {
	r, err := a.resolver(ctx)
	if err != nil {
		return nil, err
	}

	router := mux.NewRouter().StrictSlash(true)
	api.Register(router, r, a.cfg.Location(), a.logger)

	return &http.Server{
		Handler:      router,
		Addr:         a.cfg.Addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}, nil
}
