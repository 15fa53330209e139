package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bdwatch/pursuit/internal/api"
	"github.com/bdwatch/pursuit/internal/config"
	"github.com/bdwatch/pursuit/internal/controller"
	"github.com/bdwatch/pursuit/internal/otel"
	"github.com/bdwatch/pursuit/internal/store"
	"github.com/bdwatch/pursuit/internal/ui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	server := cfg.ServerURL
	if flagServer != "" {
		server = flagServer
	}

	log, logFile := openLogger(cfg)
	defer func() {
		log.Emit(otel.Event{Kind: otel.KindShutdown, Comp: "main"})
		log.Close()
		if logFile != nil {
			logFile.Close()
		}
	}()
	log.Emit(otel.Event{Kind: otel.KindStartup, Comp: "main", Msg: version})

	// The cache is best-effort: a broken database means a cold start,
	// not a dead program.
	var st *store.Store
	if !flagNoCache {
		st, err = store.Open(config.CachePath())
		if err != nil {
			log.Error(otel.KindCacheError, "main", err)
			st = nil
		} else {
			defer st.Close()
		}
	}

	client := api.NewClient(server, cfg.Timeout())
	ctx := context.Background()

	// firstLoad gates the warm start. Only the Update loop calls
	// LoadCatalog, so no locking is needed.
	firstLoad := true

	fetchCmd := func() tea.Cmd {
		return func() tea.Msg {
			log.Emit(otel.Event{Kind: otel.KindFetchStart, Comp: "api"})
			start := time.Now()
			items, err := client.List(ctx)
			if err != nil {
				return ui.CatalogLoaded{Err: err}
			}
			log.Emit(otel.Event{
				Kind: otel.KindFetchComplete, Comp: "api",
				Dur: time.Since(start), Count: len(items),
			})
			if st != nil {
				if err := st.ReplaceAll(items, time.Now()); err != nil {
					log.Error(otel.KindCacheError, "store", err)
				}
			}
			return ui.CatalogLoaded{Items: items}
		}
	}

	cacheCmd := func() tea.Msg {
		if st == nil {
			return nil
		}
		items, err := st.Items()
		if err != nil {
			log.Error(otel.KindCacheError, "store", err)
			return nil
		}
		if len(items) == 0 {
			return nil
		}
		log.Emit(otel.Event{Kind: otel.KindCacheHit, Comp: "store", Count: len(items)})
		return ui.CatalogLoaded{Items: items, FromCache: true}
	}

	appCfg := ui.AppConfig{
		// Warm start: replay the cached catalog first, then fetch. The
		// sequence keeps ordering deterministic so a slow cache read can
		// never clobber a fresh fetch.
		LoadCatalog: func() tea.Cmd {
			if firstLoad {
				firstLoad = false
				return tea.Sequence(cacheCmd, fetchCmd())
			}
			return fetchCmd()
		},
		LoadDetail: func(id string) tea.Cmd {
			return func() tea.Msg {
				d, err := client.Detail(ctx, id)
				return ui.DetailLoaded{Detail: d, Err: err}
			}
		},
		PostClaim: func(id, typ, previous string) tea.Cmd {
			return func() tea.Msg {
				err := client.Claim(ctx, id, typ)
				return ui.ClaimResult{ID: id, Applied: typ, Previous: previous, Err: err}
			}
		},
		Logger:      log,
		KeepStale:   cfg.KeepStale(),
		TopAgencies: cfg.AgencyBars(),
	}

	app := ui.NewApp(appCfg, controller.New(nil))
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

// openLogger returns the event logger and, when file-backed, the file
// to close after the logger drains.
func openLogger(cfg *config.Config) (*otel.Logger, *os.File) {
	if !cfg.EventsEnabled() {
		return otel.NewNullLogger(), nil
	}
	path := config.EventLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return otel.NewNullLogger(), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return otel.NewNullLogger(), nil
	}
	return otel.NewLogger(f), f
}
