package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"devopsdemo/internal/banner"
	"devopsdemo/internal/config"
	"devopsdemo/internal/logger"
	"devopsdemo/internal/server"
)

func Execute() {
	if err := newRootCmd(viper.GetViper()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "devopsdemo",
		Short: "DevOps demo app - a greeting service for Kubernetes pipelines",
		Long: `
devopsdemo serves a single greeting on GET / (port 5000 by default).

Configuration comes from an optional YAML file ($HOME/.devopsdemo.yaml or
--config) and DEVOPSDEMO_* environment variables, e.g. DEVOPSDEMO_ADDR.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			config.SetDefaults(v)
			return config.ReadFile(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, v)
		},
	}

	// Custom Help with Banner
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		fmt.Fprint(c.OutOrStdout(), banner.GetString())
		c.Usage()
	})

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.devopsdemo.yaml)")

	cmd.AddCommand(
		newServeCmd(v),
		newProbeCmd(),
		newBenchCmd(),
		newVersionCmd(),
	)
	return cmd
}

func newServeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the greeting server (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, v)
		},
	}
}

func runServe(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	log, err := logger.Setup(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Out:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), banner.GetString())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.Listen(server.Config{
		Addr:              cfg.Addr,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.ShutdownTimeout,
		Logger:            log,
	})
	if err != nil {
		log.Error("server.listen_failed", "addr", cfg.Addr, "err", err)
		return err
	}

	return srv.Serve(ctx)
}
