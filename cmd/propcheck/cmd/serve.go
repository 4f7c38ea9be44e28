package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/propcheck/httpapi"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the validation API over HTTP",
		Long: `Start the HTTP API.

Endpoints:
  POST /v1/validate
  GET  /v1/firms
  GET  /v1/firms/{slug}
  GET  /v1/firms/{slug}/tiers/{size}
  POST /v1/detect
  GET  /healthz
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srvCfg := a.cfg.Server
			if addr != "" {
				srvCfg.Addr = addr
			}

			opts := []httpapi.Option{httpapi.WithLogger(a.log)}
			j, err := a.openJournal("")
			if err != nil {
				return err
			}
			if j != nil {
				defer j.Close()
				opts = append(opts, httpapi.WithJournal(j))
			}

			srv, err := httpapi.NewServer(srvCfg, a.checker(), opts...)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}
