package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/recera/vex/cmd/vexc/internal/config"
	"github.com/recera/vex/internal/cache"
	"github.com/recera/vex/pkg/devserver"
	"github.com/recera/vex/pkg/sfc"
	"github.com/recera/vex/pkg/transform"
)

// errBuildFailed marks a component that compiled with error
// diagnostics; the diagnostics themselves have already been reported.
var errBuildFailed = errors.New("compile errors")

type watchServer struct {
	cfg     *config.Config
	mode    transform.Mode
	watcher *fsnotify.Watcher
	reload  *devserver.Server
	cache   *cache.Cache
	buildMu sync.Mutex
}

func newWatchCommand() *cobra.Command {
	var port int
	var host string
	var mode string
	var fresh bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recompile components on change and push live reloads",
		Long: `Watches the source tree for .vex changes, recompiles through the
artifact cache, and notifies connected browsers over websocket.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(host, port, mode, fresh)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port for the reload server")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind the reload server to")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Backend: dom, vapor or ssr")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "Clear the artifact cache before starting")

	return cmd
}

func runWatch(host string, port int, mode string, fresh bool) error {
	cfg, err := loadConfig(mode, "", "")
	if err != nil {
		return err
	}
	if host != "" {
		cfg.Dev.Host = host
	}
	if port != 0 {
		cfg.Dev.Port = port
	}

	ws := &watchServer{cfg: cfg, mode: cfg.BackendMode()}

	if cfg.Cache.Enabled {
		cacheCfg := cache.DefaultConfig()
		if cfg.Cache.Dir != "" {
			cacheCfg.Dir = cfg.Cache.Dir
		}
		if cfg.Cache.MaxSize > 0 {
			cacheCfg.MaxSize = cfg.Cache.MaxSize
		}
		buildCache, err := cache.New(cacheCfg)
		if err != nil {
			log.Printf("⚠️  Failed to open build cache: %v", err)
			// Continue without cache
		} else {
			if fresh {
				if err := buildCache.Clear(); err != nil {
					log.Printf("⚠️  Failed to clear build cache: %v", err)
				}
			}
			ws.cache = buildCache
			defer buildCache.Close()
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()
	ws.watcher = watcher

	if err := ws.setupWatcher(); err != nil {
		return fmt.Errorf("failed to setup watcher: %w", err)
	}

	ws.reload = devserver.NewServer()
	defer ws.reload.Close()

	log.Println("🚀 Starting vex watch...")
	ws.rebuildAll()

	go ws.watchFiles()

	mux := http.NewServeMux()
	mux.Handle("/vex/live", ws.reload)

	addr := fmt.Sprintf("%s:%d", cfg.Dev.Host, cfg.Dev.Port)
	srv := &http.Server{Addr: addr, Handler: mux}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("\n🛑 Shutting down watch...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	log.Printf("✨ Reload server listening at ws://%s/vex/live", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (ws *watchServer) setupWatcher() error {
	root := ws.cfg.Src
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		// Skip hidden directories and node_modules
		if path != root && (strings.HasPrefix(info.Name(), ".") || info.Name() == "node_modules") {
			return filepath.SkipDir
		}
		return ws.watcher.Add(path)
	})
}

func (ws *watchServer) watchFiles() {
	debounce := time.NewTimer(0)
	<-debounce.C // drain initial timer

	var pendingEvents []fsnotify.Event
	var mu sync.Mutex

	for {
		select {
		case event, ok := <-ws.watcher.Events:
			if !ok {
				return
			}

			if !isRelevantFile(event.Name) {
				continue
			}

			mu.Lock()
			pendingEvents = append(pendingEvents, event)
			mu.Unlock()

			debounce.Reset(100 * time.Millisecond)

		case err, ok := <-ws.watcher.Errors:
			if !ok {
				return
			}
			log.Println("Watcher error:", err)

		case <-debounce.C:
			mu.Lock()
			events := pendingEvents
			pendingEvents = nil
			mu.Unlock()

			if len(events) > 0 {
				ws.handleFileChanges(events)
			}
		}
	}
}

func isRelevantFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".vex"
}

func (ws *watchServer) handleFileChanges(events []fsnotify.Event) {
	ws.buildMu.Lock()
	defer ws.buildMu.Unlock()

	changed := make(map[string]bool)
	for _, ev := range events {
		changed[ev.Name] = true
	}
	paths := make([]string, 0, len(changed))
	for p := range changed {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			log.Printf("  %s removed", path)
			continue
		}
		log.Printf("📝 %s changed", path)
		if err := ws.buildComponent(path); err != nil && err != errBuildFailed {
			log.Printf("❌ %s: %v", path, err)
		}
	}
}

func (ws *watchServer) rebuildAll() {
	ws.buildMu.Lock()
	defer ws.buildMu.Unlock()

	files, err := findComponents([]string{ws.cfg.Src})
	if err != nil {
		log.Printf("⚠️  Failed to scan %s: %v", ws.cfg.Src, err)
		return
	}
	log.Printf("🎨 Compiling %d component(s) for %s...", len(files), ws.mode)

	var failed int
	for _, path := range files {
		if err := ws.buildComponent(path); err != nil {
			if err != errBuildFailed {
				log.Printf("❌ %s: %v", path, err)
			}
			failed++
		}
	}
	if failed > 0 {
		log.Printf("⚠️  %d of %d component(s) failed", failed, len(files))
	} else {
		log.Printf("✅ %d component(s) ready", len(files))
	}
}

// buildComponent compiles one component, consulting the artifact cache
// so unchanged sources skip the pipeline entirely. Callers hold
// buildMu.
func (ws *watchServer) buildComponent(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	source := string(data)

	var key string
	if ws.cache != nil {
		key = cache.Key(path, ws.mode.String(), ws.cfg.RuntimeModule, source)
		if artifact, ok := ws.cache.Get(key); ok {
			if err := ws.restoreCached(path, source, artifact); err != nil {
				return err
			}
			log.Printf("  %s (cached)", path)
			ws.reload.Broadcast(devserver.Reload(path))
			return nil
		}
	}

	cb, err := compileSource(path, source, ws.cfg, ws.mode)
	if err != nil {
		return err
	}
	printDiagnostics(cb)
	if cb.Result.Diagnostics.HasErrors() {
		ws.reload.Broadcast(devserver.Diagnostics(path, plainDiagnostics(cb)))
		return errBuildFailed
	}

	if err := writeOutputs(cb, ws.cfg.Out, ws.mode); err != nil {
		return err
	}
	// Only diagnostic-free compiles are cached; a hit replays nothing.
	if ws.cache != nil && cb.Result.Diagnostics.Len() == 0 {
		if err := ws.cache.Put(key, []byte(cb.Module())); err != nil {
			log.Printf("⚠️  Failed to cache %s: %v", path, err)
		}
	}

	log.Printf("  %s → %s", path, outputPath(path, ws.cfg.Out, ws.mode))
	ws.reload.Broadcast(devserver.Reload(path))
	return nil
}

// restoreCached writes a cached module back to disk. Styles are cheap
// to split out of the source again, so they are rewritten rather than
// cached.
func (ws *watchServer) restoreCached(path, source string, artifact []byte) error {
	jsPath := outputPath(path, ws.cfg.Out, ws.mode)
	if err := os.MkdirAll(filepath.Dir(jsPath), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(jsPath, artifact, 0644); err != nil {
		return err
	}
	file, err := sfc.Parse(path, source)
	if err != nil {
		return err
	}
	return writeStyles(file, path, ws.cfg.Out)
}
