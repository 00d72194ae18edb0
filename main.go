package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"liveview/internal/board"
	"liveview/internal/config"
	"liveview/internal/ui"
	"liveview/query"
	"liveview/results"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "board.toml", "Board config file to load and watch")
	flag.StringVar(&cfgPath, "c", "board.toml", "Board config file to load and watch (shorthand)")
	flag.Parse()

	absPath, err := filepath.Abs(cfgPath)
	if err != nil {
		fmt.Printf("Error resolving path: %v\n", err)
		os.Exit(1)
	}

	// Set up logging
	logFile, err := os.OpenFile("liveview.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		fmt.Printf("Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.Printf("Starting liveview with config: %s", absPath)

	cfg, err := config.Load(absPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	st := board.NewStore(cfg)

	ctrl, err := results.New[*board.Task](st, query.Spec{
		Predicate: board.StatusPredicate(cfg.View.Status),
		Sort:      board.SortKeys(cfg.View.SortBy),
	}, sectioningFor(cfg))
	if err != nil {
		fmt.Printf("Error building view: %v\n", err)
		os.Exit(1)
	}
	defer ctrl.Teardown()

	// Watch the config file; edits while the demo runs are synced into
	// the store as live mutations.
	reload := make(chan struct{}, 1)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("File watching disabled: %v", err)
	} else {
		defer watcher.Close()
		if err := watcher.Add(filepath.Dir(absPath)); err != nil {
			log.Printf("File watching disabled: %v", err)
		} else {
			go watchConfig(watcher, absPath, reload)
		}
	}

	m := ui.New(absPath, cfg, st, ctrl, reload)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}

func sectioningFor(cfg *config.Config) *results.Sectioning {
	if cfg.View.SectionField == "" {
		return nil
	}
	return &results.Sectioning{Field: cfg.View.SectionField, Kind: results.KeyString}
}

// watchConfig forwards writes to the config file into the reload channel.
// Editors replace files in odd ways, so the whole directory is watched
// and events are matched by name.
func watchConfig(watcher *fsnotify.Watcher, path string, reload chan<- struct{}) {
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				close(reload)
				return
			}
			if ev.Name != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.Printf("Config changed: %s", ev)
			select {
			case reload <- struct{}{}:
			default: // a reload is already pending
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				close(reload)
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}
