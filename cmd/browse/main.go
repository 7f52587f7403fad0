package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"movie-discovery-service/internal/config"
	"movie-discovery-service/internal/paging"
	"movie-discovery-service/internal/service"
	"movie-discovery-service/internal/tui"
	"movie-discovery-service/pkg/httpclient"
)

var styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

type options struct {
	list    string
	genres  string
	query   string
	logFile string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styleError.Render(err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse TMDB movies in the terminal",
		Long: "Browse popular, now playing and upcoming movies, filter by genre\n" +
			"and search by title. Configuration comes from the same environment\n" +
			"variables as the server (TMDB_API_TOKEN, TMDB_BASE_URL, ...).",
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBrowse(opts)
		},
	}
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	cmd.Flags().StringVarP(&opts.list, "list", "l", "popular", "starting list: popular, now-playing or upcoming")
	cmd.Flags().StringVarP(&opts.genres, "genres", "g", "", "start in discover filtered by comma-separated genre ids")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "start with a title search")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to this file (discarded when empty)")

	return cmd
}

// parseStart turns flags into the browser's starting view.
func parseStart(opts *options) (tui.Start, error) {
	kind := service.ListKind(strings.ReplaceAll(opts.list, "-", "_"))
	if !kind.Valid() {
		return tui.Start{}, fmt.Errorf("unknown list %q", opts.list)
	}

	ids, err := paging.ParseGenreIDs(opts.genres)
	if err != nil {
		return tui.Start{}, err
	}

	return tui.Start{List: kind, Genres: ids, Query: opts.query}, nil
}

// setupLogging sends logs away from the terminal the TUI draws on.
func setupLogging(path, level string) (io.Closer, error) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if path == "" {
		log.Logger = zerolog.New(io.Discard)
		return io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return f, nil
}

func runBrowse(opts *options) error {
	start, err := parseStart(opts)
	if err != nil {
		return err
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	closer, err := setupLogging(opts.logFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	tmdbService := service.NewTMDBService(
		cfg.TMDBAPITokens,
		cfg.TMDBBaseURL,
		cfg.TMDBImageBase,
		service.WithHTTPClient(httpclient.NewClient(cfg.HTTPTimeout)),
		service.WithImages(service.NewImages(cfg.TMDBImageBase, cfg.ImagePlaceholder)),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p := tea.NewProgram(tui.New(ctx, tmdbService, start), tea.WithAltScreen())

	// Bridge OS signal cancellation into the Bubble Tea event loop.
	go func() {
		<-ctx.Done()
		p.Send(tea.Quit())
	}()

	log.Info().Str("list", opts.list).Msg("Browser started")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}
