/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Seednode/futguesser/internal/catalog"
	"github.com/Seednode/futguesser/internal/game"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	apiKey         string
	apiURL         string
	bind           string
	fetchTimeout   time.Duration
	homeURL        string
	maxAttempts    int
	maxID          int
	options        int
	pagesURL       string
	port           int
	prefix         string
	profile        bool
	renderDelay    time.Duration
	revealDelay    time.Duration
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.apiURL == "" {
		return errors.New("--api-url must not be empty")
	}
	if c.options < 1 {
		return fmt.Errorf("invalid option count (must be at least 1): %d", c.options)
	}
	if c.maxID < c.options {
		return fmt.Errorf("invalid max id (must be at least --options): %d", c.maxID)
	}
	if c.maxAttempts < 0 {
		return fmt.Errorf("invalid max attempts (must be 0 or greater): %d", c.maxAttempts)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

// home returns the location players are sent to when restarting.
func (c *Config) home() string {
	if c.homeURL != "" {
		return c.homeURL
	}
	return c.prefix + "/"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("FUTGUESSER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "futguesser",
		Short:         "Guess the football club from its crest.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVar(&cfg.apiKey, "api-key", "", "access token for the team catalog (env: FUTGUESSER_API_KEY)")
	fs.StringVar(&cfg.apiURL, "api-url", catalog.DefaultURL, "team catalog endpoint, team id is appended (env: FUTGUESSER_API_URL)")
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: FUTGUESSER_BIND)")
	fs.DurationVar(&cfg.fetchTimeout, "fetch-timeout", 10*time.Second, "timeout for catalog and page requests (env: FUTGUESSER_FETCH_TIMEOUT)")
	fs.StringVar(&cfg.homeURL, "home-url", "", "location players are sent to on restart, defaults to the site root (env: FUTGUESSER_HOME_URL)")
	fs.IntVar(&cfg.maxAttempts, "max-attempts", 500, "catalog lookups per round before giving up, 0 for no limit (env: FUTGUESSER_MAX_ATTEMPTS)")
	fs.IntVar(&cfg.maxID, "max-id", game.DefaultMaxID, "upper bound (exclusive) for random team ids (env: FUTGUESSER_MAX_ID)")
	fs.IntVar(&cfg.options, "options", 3, "number of teams offered per round (env: FUTGUESSER_OPTIONS)")
	fs.StringVar(&cfg.pagesURL, "pages-url", "", "load pages from this base url instead of the embedded copies (env: FUTGUESSER_PAGES_URL)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: FUTGUESSER_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: FUTGUESSER_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: FUTGUESSER_PROFILE)")
	fs.DurationVar(&cfg.renderDelay, "render-delay", time.Second, "pause between showing the game page and the round (env: FUTGUESSER_RENDER_DELAY)")
	fs.DurationVar(&cfg.revealDelay, "reveal-delay", 500*time.Millisecond, "pause between revealing the answer and the result page (env: FUTGUESSER_REVEAL_DELAY)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle players are disconnected (env: FUTGUESSER_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: FUTGUESSER_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: FUTGUESSER_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: FUTGUESSER_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: FUTGUESSER_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("futguesser v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
