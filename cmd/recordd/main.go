// Command recordd runs the record registry with its built-in system
// services and an optional read-only debug server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kbukum/recordkit/bootstrap"
	"github.com/kbukum/recordkit/debugserver"
	"github.com/kbukum/recordkit/record"
	"github.com/kbukum/recordkit/version"
)

type rootOptions struct {
	configFile string
	envFile    string
}

type serveOptions struct {
	once        bool
	debugServer bool
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "recordd",
		Short: "Named record registry for system services",
		Long: `recordd hosts a registry of named records. System services publish
handles under well-known names; consumers open them, waiting until they
are published, and close them when done.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Short(),
	}
	root.SetVersionTemplate(version.Template("recordd"))

	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Path to config.yml (searched in standard locations when empty)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Path to a .env file")

	root.AddCommand(newServeCmd(opts), newConfigCmd(opts), newVersionCmd())
	return root
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the registry and system services",
		Example: `  recordd serve                  # run until SIGINT/SIGTERM
  recordd serve --once           # start services, print the summary, exit
  recordd serve --debug-server   # expose GET /records, /leases, /health`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root.configFile, root.envFile)
			if err != nil {
				return err
			}
			if opts.debugServer {
				cfg.DebugServer.Enabled = true
			}
			return serve(cmd.Context(), cfg, opts.once)
		},
	}
	cmd.Flags().BoolVar(&opts.once, "once", false, "Exit once every service has started")
	cmd.Flags().BoolVar(&opts.debugServer, "debug-server", false, "Enable the read-only debug server")
	return cmd
}

// serve wires the registry, services and debug server into a bootstrap App.
func serve(ctx context.Context, cfg *SystemConfig, once bool) error {
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}

	svc := newServices(cfg.Services, app.Records, app.Logger.WithComponent("services"))
	app.Summary.TrackService("radio-driver", []string{record.Names.Radio}, nil)
	app.Summary.TrackService("notification", []string{record.Names.Notification}, nil)
	app.Summary.TrackService("menu", nil, []string{record.Names.Radio, record.Names.Notification})

	if cfg.DebugServer.Enabled {
		srv := debugserver.New(cfg.DebugServer, app.Records, app.Logger,
			debugserver.WithService(cfg.Name),
			debugserver.WithHealthChecker(app.Components.HealthAll),
		)
		if err := app.RegisterComponent(debugserver.NewComponent(srv)); err != nil {
			return err
		}
	}

	app.OnStart(svc.start)
	app.OnStop(svc.stop)

	if once {
		return app.RunTask(ctx, func(context.Context) error {
			app.Logger.Info("services started", map[string]interface{}{
				"records": app.Records.Len(),
				"leases":  len(app.Records.Leases()),
			})
			return nil
		})
	}
	return app.Run(ctx)
}

func newConfigCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root.configFile, root.envFile)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return enc.Close()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "recordd %s\n", info.Full())
			fmt.Fprintf(out, "  commit: %s\n", info.GitCommit)
			fmt.Fprintf(out, "  go:     %s\n", info.GoVersion)
			return nil
		},
	}
}
