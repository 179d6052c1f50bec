// Command orbital renders a technology stack as an interactive 3D-ish
// graph in the terminal. It loads a JSON stack file or SQLite database,
// lays the graph out on category rings, and runs an adaptive-quality
// frame loop on top of bubbletea.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/orbital/internal/datasource"
	"github.com/vanderheijden86/orbital/pkg/config"
	"github.com/vanderheijden86/orbital/pkg/debug"
	"github.com/vanderheijden86/orbital/pkg/export"
	"github.com/vanderheijden86/orbital/pkg/scene"
	"github.com/vanderheijden86/orbital/pkg/ui"
	"github.com/vanderheijden86/orbital/pkg/version"
	"github.com/vanderheijden86/orbital/pkg/watcher"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	textFlag := flag.Bool("text", false, "Print the text listing instead of the interactive view")
	snapshotFlag := flag.String("snapshot", "", "Render a snapshot to the given path (svg or png) and exit")
	wizardFlag := flag.Bool("export", false, "Run the interactive snapshot export wizard and exit")
	stackFlag := flag.String("stack", "", "Load a stack registered in the config by name")
	noWatch := flag.Bool("no-watch", false, "Disable live reload of the data source")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: orbital [options] [stack-file]")
		fmt.Println("\nAn interactive graph view of a technology stack.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("orbital %s\n", version.Version)
		os.Exit(0)
	}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue with defaults
		fmt.Fprintf(os.Stderr, "Warning: %v\n", cfgErr)
		cfg = config.DefaultConfig()
	}

	sourcePath, err := resolveSource(cfg, *stackFlag, flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	items, err := datasource.Load(context.Background(), sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", sourcePath, err)
		os.Exit(1)
	}
	if len(items) == 0 {
		fmt.Printf("No technologies found in %s.\n", sourcePath)
		os.Exit(0)
	}

	session, err := ui.NewSession(items, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building graph: %v\n", err)
		os.Exit(1)
	}
	defer session.Close()

	for _, w := range session.Graph.Warnings() {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	if *snapshotFlag != "" {
		if err := writeSnapshot(session, *snapshotFlag, ""); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing snapshot: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(*snapshotFlag)
		return
	}

	if *wizardFlag {
		wcfg, path, err := export.RunWizard(stackName(sourcePath))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export cancelled: %v\n", err)
			os.Exit(1)
		}
		if err := writeSnapshot(session, path, wcfg.Title); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing snapshot: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(path)
		return
	}

	caps := scene.Probe()
	if *textFlag || !caps.Interactive {
		if !caps.Interactive && !*textFlag {
			debug.Log("terminal not interactive (TERM=%q), falling back to text listing", caps.Term)
		}
		fmt.Print(session.TextListing())
		return
	}

	var w *watcher.Watcher
	if cfg.Watch.Enabled && !*noWatch {
		w, err = watcher.New(sourcePath,
			watcher.WithDebounce(time.Duration(cfg.Watch.DebounceMs)*time.Millisecond))
		if err == nil {
			if err := w.Start(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: watch disabled: %v\n", err)
				w = nil
			}
		}
	}

	m := ui.NewModel(session, sourcePath, cfg, w)
	if err := runTUIProgram(m); err != nil {
		fmt.Printf("Error running orbital: %v\n", err)
		os.Exit(1)
	}
}

// resolveSource picks the data source from, in order: the positional
// argument, the --stack name, and the default stack file lookup.
func resolveSource(cfg config.Config, stackName, arg string) (string, error) {
	if stackName != "" {
		s := cfg.FindStack(stackName)
		if s == nil {
			return "", fmt.Errorf("no stack named %q in config", stackName)
		}
		return datasource.Resolve(s.ResolvedPath())
	}
	return datasource.Resolve(arg)
}

func stackName(sourcePath string) string {
	base := filepath.Base(sourcePath)
	return base[:len(base)-len(filepath.Ext(base))]
}

// writeSnapshot renders the session at its resting camera and current
// tier.
func writeSnapshot(session *ui.Session, path, title string) error {
	return export.SaveSnapshot(export.SnapshotOptions{
		Path:        path,
		Title:       title,
		Nodes:       session.Nodes,
		Connections: session.Connections,
		Styles:      session.Styles,
		Stats:       session.Stats,
		Tier:        session.Controller.Tier(),
	})
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	_, err := p.Run()
	return err
}
