package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/vsariola/multitrack/config"
	"github.com/vsariola/multitrack/version"
)

type rootOptions struct {
	configPath string
	noAudio    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "multitrack",
		Short:         "Multitrack instrument loading demo",
		Long:          "multitrack lets you add drum, melodic and audio tracks to a looping song and play it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTracker(cmd.Context(), opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $UserConfigDir/multitrack/"+config.FileName+")")
	cmd.PersistentFlags().BoolVar(&opts.noAudio, "no-audio", false, "do not open the audio device")
	cmd.AddCommand(newPlayCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "multitrack %s\n", version.Current)
		},
	}
}

func (o *rootOptions) load() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.noAudio {
		cfg.Audio.Enabled = false
	}
	return cfg, nil
}

func execute(cmd *cobra.Command) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "multitrack:", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
