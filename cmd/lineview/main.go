package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/tracelens/lineview/pkg/config"
	"github.com/tracelens/lineview/pkg/debug"
	"github.com/tracelens/lineview/pkg/loader"
	"github.com/tracelens/lineview/pkg/model"
	"github.com/tracelens/lineview/pkg/paint"
	"github.com/tracelens/lineview/pkg/render"
	"github.com/tracelens/lineview/pkg/store"
	"github.com/tracelens/lineview/pkg/ui"
	"github.com/tracelens/lineview/pkg/version"
	"github.com/tracelens/lineview/pkg/viewport"
)

func main() {
	helpFlag := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	configPath := flag.String("config", "", "Config file path (default: XDG config dir)")
	nodesPath := flag.String("nodes", "", "Nodes JSON file (use with --edges for split input)")
	edgesPath := flag.String("edges", "", "Edges JSON file (use with --nodes for split input)")
	layoutPath := flag.String("layout", "", "SQLite layout database to load positions from")
	saveLayout := flag.Bool("save-layout", false, "Persist node positions to --layout and exit")
	snapshotPath := flag.String("snapshot", "", "Render one frame to a file (.png or .svg) and exit")
	snapshotW := flag.Int("snapshot-width", 1600, "Snapshot surface width in pixels")
	snapshotH := flag.Int("snapshot-height", 1200, "Snapshot surface height in pixels")
	wizardFlag := flag.Bool("wizard", false, "Interactively edit the config file and exit")
	flag.Parse()

	if *helpFlag {
		fmt.Println("Usage: lineview [options] <graph.json>")
		fmt.Println("\nAn interactive viewer for data-lineage graphs.")
		flag.PrintDefaults()
		os.Exit(0)
	}
	if *versionFlag {
		fmt.Printf("lineview %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *wizardFlag {
		if err := runWizard(&cfg, *configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Wizard failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	graph, graphFile, err := loadGraph(*nodesPath, *edgesPath, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading graph: %v\n", err)
		os.Exit(1)
	}
	if len(graph.Nodes) == 0 {
		fmt.Println("Graph is empty; nothing to show.")
		os.Exit(0)
	}

	if *layoutPath != "" {
		if err := applyLayout(graph, *layoutPath, *saveLayout); err != nil {
			fmt.Fprintf(os.Stderr, "Layout store: %v\n", err)
			os.Exit(1)
		}
		if *saveLayout {
			fmt.Printf("Saved %d positions to %s\n", len(graph.Nodes), *layoutPath)
			os.Exit(0)
		}
	} else if *saveLayout {
		fmt.Fprintln(os.Stderr, "Error: --save-layout requires --layout")
		os.Exit(2)
	}

	if *snapshotPath != "" {
		if err := exportSnapshot(graph, cfg, *snapshotPath, *snapshotW, *snapshotH); err != nil {
			fmt.Fprintf(os.Stderr, "Snapshot failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *snapshotPath)
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: stdout is not a terminal (use --snapshot for non-interactive export)")
		os.Exit(1)
	}

	m := ui.New(graph, cfg)
	if err := runTUIProgram(m, graphFile); err != nil {
		fmt.Printf("Error running lineview: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func loadGraph(nodesPath, edgesPath string, args []string) (*model.Graph, string, error) {
	if nodesPath != "" || edgesPath != "" {
		if nodesPath == "" || edgesPath == "" {
			return nil, "", fmt.Errorf("--nodes and --edges must be used together")
		}
		g, stats, err := loader.LoadSplit(nodesPath, edgesPath)
		if err != nil {
			return nil, "", err
		}
		// Live reload only watches single-file input.
		debug.Log("loaded split graph: %+v", stats)
		return g, "", nil
	}
	if len(args) != 1 {
		return nil, "", fmt.Errorf("expected one graph file argument (or --nodes/--edges)")
	}
	g, stats, err := loader.Load(args[0])
	if err != nil {
		return nil, "", err
	}
	debug.Log("loaded graph: %+v", stats)
	return g, args[0], nil
}

// applyLayout loads stored positions onto the graph, or persists the
// graph's positions when saving.
func applyLayout(g *model.Graph, path string, save bool) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	if save {
		return st.SaveGraph(g)
	}
	applied, err := st.ApplyTo(g)
	if err != nil {
		return err
	}
	debug.Log("applied %d stored positions", applied)
	return nil
}

// exportSnapshot renders the whole graph fitted to the surface.
func exportSnapshot(g *model.Graph, cfg config.Config, path string, w, h int) error {
	bounds, ok := model.BoundsOf(g.Nodes)
	if !ok {
		return fmt.Errorf("graph has no drawable nodes")
	}

	vp := viewport.New(float64(w), float64(h))
	zx := float64(w) / (bounds.Width() + 2*paintPadding)
	zy := float64(h) / (bounds.Height() + 2*paintPadding)
	if z := minF(zx, zy); z > 0 && z < 1 {
		vp.Zoom = z
	}
	vp = vp.CenterOn(bounds.Center())

	// Export covers everything visible at the fitted zoom; clustering
	// follows the same recommendation path as the interactive viewer.
	opts := cfg.RenderOptions(len(g.Nodes) > cfg.Perf.Cluster)
	opts.MaxVisible = len(g.Nodes) + 1

	rs, err := render.Compute(g.Nodes, g.Edges, vp, nil, opts)
	if err != nil {
		return err
	}
	return paint.SaveSnapshot(paint.SnapshotOptions{
		Path:          path,
		MinimapWidth:  cfg.Minimap.Width,
		MinimapHeight: cfg.Minimap.Height,
		AllNodes:      g.Nodes,
	}, rs, vp)
}

const paintPadding = 40.0

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// runWizard edits the main tunables in a form and writes the config
// back where it came from.
func runWizard(cfg *config.Config, path string) error {
	distance := fmt.Sprintf("%g", cfg.Engine.ClusterDistance)
	budget := strconv.Itoa(cfg.Engine.MaxVisible)
	margin := fmt.Sprintf("%g", cfg.Engine.MarginPx)
	fpsBadge := cfg.UI.FPSBadge

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Cluster distance (scene units)").
				Value(&distance).
				Validate(validatePositiveFloat),
			huh.NewInput().
				Title("Max visible entities").
				Value(&budget).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Culling margin (px)").
				Value(&margin).
				Validate(validatePositiveFloat),
			huh.NewConfirm().
				Title("Show FPS badge?").
				Value(&fpsBadge),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	cfg.Engine.ClusterDistance, _ = strconv.ParseFloat(distance, 64)
	cfg.Engine.MaxVisible, _ = strconv.Atoi(budget)
	cfg.Engine.MarginPx, _ = strconv.ParseFloat(margin, 64)
	cfg.UI.FPSBadge = fpsBadge

	if path != "" {
		return config.SaveTo(*cfg, path)
	}
	return config.Save(*cfg)
}

func validatePositiveFloat(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

func validatePositiveInt(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a positive integer")
	}
	return nil
}

func runTUIProgram(m ui.Model, graphFile string) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Live reload: re-parse the graph whenever the file changes and
	// hand the result to the running program.
	if graphFile != "" {
		w, err := loader.NewWatcher(graphFile,
			loader.WithOnChange(func() {
				g, _, err := loader.Load(graphFile)
				if err != nil {
					debug.Warn("reload failed: %v", err)
					return
				}
				p.Send(ui.GraphReloadedMsg{Graph: g})
			}),
			loader.WithOnError(func(err error) {
				debug.Warn("watcher: %v", err)
			}),
		)
		if err == nil {
			if err := w.Start(); err == nil {
				defer w.Stop()
			}
		}
	}

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
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}
