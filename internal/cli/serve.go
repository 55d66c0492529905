package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/PathVault/internal/server"
)

func (a *app) serveCommand() *cobra.Command {
	var host, port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the vault over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if host != "" {
				a.cfg.Server.Host = host
			}
			if port != "" {
				a.cfg.Server.Port = port
			}

			srv, err := server.NewServer(a.cfg,
				server.WithLogger(a.logger),
				server.WithVersion(Version),
			)
			if err != nil {
				return err
			}

			errChan := make(chan error, 1)
			go func() {
				errChan <- srv.Run()
			}()

			select {
			case <-cmd.Context().Done():
				a.logger.Info("Shutting down gracefully...")
				if err := srv.Close(); err != nil {
					a.logger.Error("Error during shutdown", zap.Error(err))
					return err
				}
				return nil
			case err := <-errChan:
				srv.Close()
				return err
			}
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides HOST)")
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}
