package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Tiliavir/gitlab-timelogs/internal/config"
)

var (
	cfgFile    string
	verbose    bool
	afterFlag  string
	beforeFlag string
)

var rootCmd = &cobra.Command{
	Use:   "gitlab-timelogs",
	Short: "Show your GitLab timelogs grouped by week, day, issue and epic",
	Long: `gitlab-timelogs fetches the timelogs of a user from the GitLab GraphQL API
and displays them grouped by ISO week and day, with sanity checks for
suspicious bookings.

Host, username and token can be passed as options, as environment variables
(GITLAB_HOST, GITLAB_USERNAME, GITLAB_TOKEN) or via the config file
~/.config/gitlab-timelogs/config.toml (see "gitlab-timelogs config init").

gitlab-timelogs IS NOT associated with the official GitLab project!`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runReport,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/gitlab-timelogs/config.toml)")
	pf.String("host", "", "GitLab host without https://, e.g. gitlab.example.com [$GITLAB_HOST]")
	pf.String("username", "", "your GitLab username [$GITLAB_USERNAME]")
	pf.String("token", "", "token with read_api scope [$GITLAB_TOKEN]")
	pf.StringVar(&afterFlag, "after", defaultAfter, "oldest date to include (inclusive), e.g. 2024-06-01")
	pf.StringVar(&beforeFlag, "before", "", "newest date to include (inclusive); defaults to today")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log API requests to stderr")
	filters.register(pf)

	cobra.CheckErr(viper.BindPFlag(config.KeyHost, pf.Lookup("host")))
	cobra.CheckErr(viper.BindPFlag(config.KeyUsername, pf.Lookup("username")))
	cobra.CheckErr(viper.BindPFlag(config.KeyToken, pf.Lookup("token")))
	config.Bind(viper.GetViper())

	registerReportFlags(rootCmd)

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(configCmd)
}

// setup installs the logger and merges the config file into viper.
func setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	// A broken config file is treated as an empty one.
	if warning := config.Load(viper.GetViper(), cfgFile); warning != nil {
		slog.Warn("ignoring config file", "err", warning)
	}
	return nil
}
