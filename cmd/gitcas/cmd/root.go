package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aweris/gitcas"
)

// app carries the configuration shared by every subcommand.
type app struct {
	v   *viper.Viper
	log *slog.Logger
}

// NewRootCmd builds the gitcas command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: slog.Default()}

	rootCmd := &cobra.Command{
		Use:           "gitcas",
		Short:         "Git-compatible content-addressable object store",
		Long:          "Store, inspect and snapshot content in a git-compatible loose object database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initConfig(cmd); err != nil {
				return err
			}
			return a.initLogger(cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ~/.config/gitcas/config.yaml)")
	flags.String("git-dir", ".git", "repository directory")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.Int("concurrency", gitcas.DefaultConcurrency, "number of files hashed in parallel")
	flags.Int("cache-size", 0, "number of objects kept in the in-memory cache (0 disables)")

	a.v.BindPFlag("git_dir", flags.Lookup("git-dir"))
	a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	a.v.BindPFlag("concurrency", flags.Lookup("concurrency"))
	a.v.BindPFlag("cache_size", flags.Lookup("cache-size"))

	rootCmd.AddCommand(
		a.newInitCmd(),
		a.newHashObjectCmd(),
		a.newCatFileCmd(),
		a.newLsTreeCmd(),
		a.newWriteTreeCmd(),
		a.newArchiveCmd(),
		a.newVerifyCmd(),
		a.newConfigCmd(),
	)
	return rootCmd
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errMissing) {
			fmt.Fprintln(rootCmd.ErrOrStderr(), "error:", err)
		}
		os.Exit(1)
	}
}

func (a *app) initConfig(cmd *cobra.Command) error {
	if cfg, _ := cmd.Flags().GetString("config"); cfg != "" {
		a.v.SetConfigFile(cfg)
	} else {
		a.v.AddConfigPath(configDir())
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("GITCAS")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func (a *app) initLogger(w io.Writer) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.v.GetString("log_level"))); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	a.log = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return nil
}

func (a *app) gitDir() string {
	return a.v.GetString("git_dir")
}

func (a *app) openRepo(extra ...gitcas.Option) (*gitcas.Repository, error) {
	opts := []gitcas.Option{
		gitcas.WithLogger(a.log),
		gitcas.WithConcurrency(a.v.GetInt("concurrency")),
		gitcas.WithCacheSize(a.v.GetInt("cache_size")),
		gitcas.WithExclude(a.v.GetStringSlice("exclude")...),
	}
	return gitcas.Open(a.gitDir(), append(opts, extra...)...)
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gitcas")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "gitcas")
	}
	return ".gitcas"
}
