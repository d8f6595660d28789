// Command scenedirector plays SceneKitt music on the desktop. Narrative text
// and slash commands are read from stdin; see /help.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kittclouds/scenekitt/internal/config"
	"github.com/kittclouds/scenekitt/internal/logger"
	"github.com/kittclouds/scenekitt/internal/store"
	"github.com/kittclouds/scenekitt/pkg/backend/ebitenaudio"
	"github.com/kittclouds/scenekitt/pkg/director"
	"github.com/kittclouds/scenekitt/pkg/gesture"
	"github.com/kittclouds/scenekitt/pkg/scene"
)

func main() {
	initial := flag.String("scene", "main_menu", "scene to start with, empty for silence")
	flag.Parse()

	if err := realMain(*initial); err != nil {
		fmt.Fprintln(os.Stderr, "scenedirector:", err)
		os.Exit(1)
	}
}

func realMain(initial string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Logger())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	catalogs, err := loadCatalogs(cfg.CatalogFile)
	if err != nil {
		return err
	}

	db, err := store.NewSQLiteStoreWithDSN(cfg.PrefsDSN)
	if err != nil {
		return err
	}
	prefs := db.WithProfile(cfg.Profile)
	// the director closes prefs, which then closes the database
	_ = db.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	latch := gesture.NewLatch()
	d, err := director.New(director.Deps{
		Backend:    ebitenaudio.New(os.DirFS(cfg.TrackDir), cfg.SampleRate, log.Named("ebitenaudio")),
		Store:      prefs,
		Gestures:   latch,
		Logger:     log,
		Registerer: reg,
		Catalog:    catalogs.Scenes,
		Sounds:     catalogs.Sounds,
	}, director.Options{Transport: cfg.TransportOptions()})
	if err != nil {
		_ = prefs.Close()
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.Close(ctx); err != nil {
			log.Warn("closing director", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		srv := startMetricsServer(cfg.MetricsAddr, reg, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if cfg.WatchCatalog && cfg.CatalogFile != "" {
		w, err := config.WatchFile(cfg.CatalogFile)
		if err != nil {
			return fmt.Errorf("watch catalog: %w", err)
		}
		defer w.Close()
		go reloadCatalogs(w, cfg.CatalogFile, d, log)
	}

	if initial != "" {
		s, err := scene.Parse(initial)
		if err != nil {
			return err
		}
		d.ChangeScene(s)
	}

	ebiten.SetWindowSize(screenWidth*2, screenHeight*2)
	ebiten.SetWindowTitle("scenekitt")
	ebiten.SetRunnableOnUnfocused(true)

	win := &statusWindow{
		ctx:   ctx,
		d:     d,
		latch: latch,
		lines: readLines(os.Stdin),
		out:   os.Stdout,
		log:   log,
	}
	if err := ebiten.RunGame(win); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func loadCatalogs(file string) (config.Catalogs, error) {
	if file == "" {
		return config.DefaultCatalogs(), nil
	}
	return config.LoadCatalog(os.DirFS(filepath.Dir(file)), filepath.Base(file))
}

// reloadCatalogs swaps in the catalog file each time it changes. A file
// that fails to parse keeps the previous catalogs.
func reloadCatalogs(w *config.Watcher, file string, d *director.Director, log *zap.Logger) {
	for {
		select {
		case _, ok := <-w.Events:
			if !ok {
				return
			}
			c, err := loadCatalogs(file)
			if err != nil {
				log.Warn("catalog reload failed", zap.String("file", file), zap.Error(err))
				continue
			}
			d.SetCatalog(c.Scenes)
			d.SetSounds(c.Sounds)
			log.Info("catalog reloaded", zap.String("file", file))
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warn("catalog watcher", zap.Error(err))
		}
	}
}

func startMetricsServer(addr string, reg *prometheus.Registry, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	})

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("metrics server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server", zap.Error(err))
		}
	}()
	return srv
}

// readLines streams stdin lines until EOF.
func readLines(f *os.File) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()
	return lines
}
