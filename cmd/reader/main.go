package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lysyi3m/newsdesk/app/cfg"
	"github.com/lysyi3m/newsdesk/app/client"
	"github.com/lysyi3m/newsdesk/app/news"
	"github.com/lysyi3m/newsdesk/app/refresh"
	"github.com/lysyi3m/newsdesk/app/store"
	"github.com/lysyi3m/newsdesk/app/tui"
)

func main() {
	readerConfig, err := cfg.LoadReader()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if readerConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	closeLog, err := setupLogging(readerConfig.LogFile, readerConfig.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	slog.Info("Starting Newsdesk reader", "version", readerConfig.Version, "api_url", readerConfig.APIURL)

	apiClient := client.New(readerConfig.APIURL,
		client.WithUserAgent(readerConfig.UserAgent),
		client.WithAPIKey(readerConfig.APIAccessKey),
	)

	loader := refresh.NewLoader(apiClient)
	bridge := tui.NewBridge()
	clock := refresh.RealClock()

	autoRefresh := refresh.NewAutoRefresh(clock, bridge.RefreshDue, bridge.Tick)
	updater := refresh.NewUpdater(apiClient, bridge.Reload(loader), clock, refresh.UpdateDelay, bridge.UpdateDone)

	filterStore := store.New(news.DefaultCategories())
	filters := filterStore.Filters()
	filters.RefreshInterval = news.RefreshInterval(readerConfig.RefreshInterval)
	filterStore.Replace(filters)

	model := tui.NewModel(tui.Deps{
		Loader:     loader,
		Categories: apiClient,
		Updater:    updater,
		Scheduler:  autoRefresh,
		Store:      filterStore,
		Bridge:     bridge,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, runErr := program.Run()

	// Timers first so no callback races the closing bridge
	autoRefresh.Stop()
	updater.Stop()
	bridge.Close()

	if runErr != nil {
		slog.Error("Reader stopped with error", "error", runErr)
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

// setupLogging sends logs to path, or discards them when path is empty.
// The terminal belongs to the UI.
func setupLogging(path string, debug bool) (func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var out io.Writer = io.Discard
	closeFn := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		out = f
		closeFn = func() { f.Close() }
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})))
	return closeFn, nil
}
