package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/wanreader/internal/app"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	prefsPath  string
	debug      bool
	format     string
}

func (o *rootOptions) app() app.Options {
	return app.Options{ConfigPath: o.configPath, PrefsPath: o.prefsPath, Debug: o.debug}
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "wanreader: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "wanreader",
		Short:         "Browse wanandroid articles from the terminal",
		Long:          "Sign in, page through articles and favorites, collect them and read the full text, in a terminal UI or with one-shot commands.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), opts.app())
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file (default ~/.config/wanreader/config.toml)")
	rootCmd.PersistentFlags().StringVar(&opts.prefsPath, "prefs", "", "Path to preferences file (default ~/.config/wanreader/prefs.toml)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Log at debug level")
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", formatText, "Output format for commands: text, json or yaml")

	rootCmd.AddCommand(
		newLoginCmd(opts),
		newRegisterCmd(opts),
		newListCmd(opts, "articles", "List one page of the article feed", false),
		newListCmd(opts, "favorites", "List one page of your favorites", true),
		newCollectCmd(opts),
		newUncollectCmd(opts),
		newReadCmd(opts),
		newLogoutCmd(opts),
	)
	return rootCmd
}
