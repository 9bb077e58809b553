package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/config"
	"github.com/s0up4200/marquee/filter"
	"github.com/s0up4200/marquee/tmdb"
)

var (
	cfgFile     string
	cfg         *config.Config
	logger      zerolog.Logger
	tmdbClient  *tmdb.Client
	whereFilter filter.CompiledFilter
	formatter   = catalog.NewConsoleFormatter()

	version   = "dev"
	buildTime = "unknown"

	// Command flags
	showEndpoint bool
	noFilter     bool
	whereExpr    string
	language     string
	width        int
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "marquee",
	Short: "Browse and search the TMDB movie catalog from the terminal",
	Long: `marquee fetches the popular movie list from TMDB, or search results when a
query is given, and renders it as a list of cards with poster links, titles and
short synopses.

Credentials come from the config file or the API_BASE and API_KEY environment
variables.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// SetVersion records build information reported by the version command
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&showEndpoint, "show-endpoint", false, "print the requested endpoint above the list")
	rootCmd.PersistentFlags().BoolVar(&noFilter, "no-filter", false, "disable client-side title filtering")
	rootCmd.PersistentFlags().StringVarP(&whereExpr, "where", "w", "", "expression to filter results, e.g. 'HasPoster and hasText(Overview, \"dune\")'")
	rootCmd.PersistentFlags().StringVarP(&language, "language", "l", "", "TMDB language (default pt-BR)")
	rootCmd.PersistentFlags().IntVar(&width, "width", 0, "render width in columns")

	// Add subcommands
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(popularCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	applyFlagOverrides(cmd)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err = setupLogger(cfg.Logging, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	if cfg.Screen.Where != "" {
		whereFilter, err = filter.NewExprCompiler().Compile(cfg.Screen.Where)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	// Missing credentials disable fetching but are not fatal
	if err := cfg.TMDB.Credentials(); err != nil {
		logger.Error().Err(err).Msg("TMDB credentials not configured, catalog will be empty")
		return nil
	}

	tmdbClient, err = tmdb.NewClient(strings.TrimSpace(cfg.TMDB.URL), strings.TrimSpace(cfg.TMDB.APIKey), logger,
		tmdb.WithLanguage(cfg.TMDB.Language),
		tmdb.WithTimeout(cfg.TMDB.Timeout),
		tmdb.WithImageBaseURL(cfg.TMDB.ImageURL),
		tmdb.WithPosterSize(cfg.TMDB.PosterSize),
		tmdb.WithUserAgent("marquee/"+version),
	)
	if err != nil {
		return fmt.Errorf("failed to create TMDB client: %w", err)
	}

	return nil
}

// applyFlagOverrides lets command line flags win over the config file
func applyFlagOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("show-endpoint") {
		cfg.Screen.ShowEndpoint = showEndpoint
	}
	if flags.Changed("no-filter") {
		cfg.Screen.ClientFilter = !noFilter
	}
	if flags.Changed("where") {
		cfg.Screen.Where = whereExpr
	}
	if flags.Changed("language") {
		cfg.TMDB.Language = language
	}
	if flags.Changed("width") {
		cfg.Screen.Width = width
	}
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, out *os.File) (zerolog.Logger, error) {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	var console io.Writer
	if cfg.Format == "json" {
		console = out
	} else {
		console = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    !cfg.Color || !isatty.IsTerminal(out.Fd()),
		}
	}

	if cfg.File == "" {
		return zerolog.New(console).With().Timestamp().Logger(), nil
	}

	if cfg.MaxSizeMB < 0 || cfg.MaxBackups < 0 || cfg.MaxAgeDays < 0 {
		return zerolog.Logger{}, errors.New("log rotation limits must not be negative")
	}

	// The file always gets JSON lines regardless of the console format
	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}

	return zerolog.New(zerolog.MultiLevelWriter(console, file)).With().Timestamp().Logger(), nil
}

// newScreen builds a catalog screen from the loaded configuration
func newScreen(opts ...catalog.Option) *catalog.Screen {
	// Keep the interface nil when there is no client so the screen sees missing config
	var fetcher catalog.Fetcher
	if tmdbClient != nil {
		fetcher = tmdbClient
	}

	base := []catalog.Option{catalog.WithShowEndpoint(cfg.Screen.ShowEndpoint)}
	if cfg.Screen.ClientFilter {
		base = append(base, catalog.WithClientFilter(filter.ByTitle()))
	}

	return catalog.NewScreen(fetcher, logger, append(base, opts...)...)
}

// renderScreen formats the current screen, applying the --where filter if set
func renderScreen(screen *catalog.Screen) string {
	visible := screen.Visible()
	if whereFilter != nil {
		var err error
		visible, err = filter.Select(visible, whereFilter)
		if err != nil {
			logger.Warn().Err(err).Str("where", whereFilter.Expression()).Msg("Filter failed for some movies")
		}
	}
	return formatter.FormatScreen(screen.State(), visible, formatOptions())
}

func formatOptions() catalog.FormatOptions {
	opts := catalog.FormatOptions{
		ShowEndpoint:  cfg.Screen.ShowEndpoint,
		Width:         cfg.Screen.Width,
		SynopsisLines: cfg.Screen.SynopsisLines,
	}
	if tmdbClient != nil {
		opts.PosterURL = tmdbClient.PosterURL
	}
	return opts
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to TMDB",
	Long:  `Test the connection to the TMDB API and display basic information.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if tmdbClient == nil {
		return cfg.TMDB.Credentials()
	}

	fmt.Fprintf(out, "Testing connection to TMDB at %s...\n", tmdbClient.BaseURL())

	ctx := cmd.Context()
	if err := tmdbClient.TestConnection(ctx); err != nil {
		if errors.Is(err, tmdb.ErrUnauthorized) {
			return fmt.Errorf("TMDB rejected the API key: %w", err)
		}
		return err
	}
	fmt.Fprintln(out, "✓ Connection successful!")

	movies, err := tmdbClient.PopularMovies(ctx)
	if err != nil {
		return fmt.Errorf("failed to get popular movies: %w", err)
	}

	fmt.Fprintf(out, "\nTMDB Catalog:\n")
	fmt.Fprintf(out, "- Language: %s\n", cfg.TMDB.Language)
	fmt.Fprintf(out, "- Popular movies on first page: %d\n", len(movies))
	fmt.Fprintf(out, "- Client-side title filter: %s\n", boolToStatus(cfg.Screen.ClientFilter))
	fmt.Fprintf(out, "- Endpoint readout: %s\n", boolToStatus(cfg.Screen.ShowEndpoint))

	return nil
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "marquee %s (built %s)\n", version, buildTime)
	},
}

func boolToStatus(b bool) string {
	if b {
		return "Enabled"
	}
	return "Disabled"
}
