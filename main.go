package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"habstudio/internal/config"
	"habstudio/internal/hab"
	"habstudio/internal/model"
	"habstudio/internal/report"
	"habstudio/internal/store"
	"habstudio/internal/studio"
	"habstudio/internal/tui"
	"habstudio/internal/web"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "habstudio",
		Repository: "habstudio",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/habstudio/habstudio/releases")
	} else if pflag.Lookup("update").Changed {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	logCfg := zap.NewProductionConfig()
	if verbose {
		logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return logCfg.Build()
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: habstudio [options] [origin/name ...]\n\n")
		fmt.Fprintf(os.Stderr, "habstudio provisions an isolated Habitat studio root: it materializes\n")
		fmt.Fprintf(os.Stderr, "the requested packages, composes the studio PATH, and writes the\n")
		fmt.Fprintf(os.Stderr, "environment configuration the studio runs on.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  habstudio core/python             # Bootstrap a studio with core/python\n")
		fmt.Fprintf(os.Stderr, "  habstudio --inspect               # Browse the composed PATH in a TUI\n")
		fmt.Fprintf(os.Stderr, "  habstudio -r -o studio.txt        # Save an inspection report to a file\n")
		fmt.Fprintf(os.Stderr, "  habstudio --json                  # Output the inspection as JSON\n")
	}

	rootFlag := pflag.StringP("root", "R", "", "Target root to provision (overrides config)")
	inspectFlag := pflag.BoolP("inspect", "i", false, "Inspect a provisioned studio in TUI mode")
	jsonFlag := pflag.BoolP("json", "j", false, "Output the inspection as JSON")
	reportFlag := pflag.BoolP("report", "r", false, "Print an inspection report (CLI mode)")
	outputFlag := pflag.StringP("output", "o", "", "Save report to the specified file (combined with --report)")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Verbose report detail and debug logging")
	webFlag := pflag.BoolP("web", "w", false, "Serve the inspection on http://localhost:8080")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for the latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("habstudio version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if *rootFlag != "" {
		cfg.Root = *rootFlag
	}

	requested, err := requestedPackages(cfg, pflag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(*verboseFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	st := store.New(logger)
	inspector := studio.NewInspector(cfg, st)

	switch {
	case *webFlag:
		if err := web.Start(inspector, requested); err != nil {
			os.Exit(1)
		}
	case *inspectFlag:
		runTuiMode(inspector, requested)
	case *reportFlag:
		runReportMode(inspector, requested, *outputFlag, *verboseFlag)
	case *jsonFlag:
		runJsonMode(inspector, requested)
	default:
		runBootstrap(cfg, st, requested, logger)
	}
}

// requestedPackages merges config-file packages with positional arguments,
// qualifying bare names with the configured origin.
func requestedPackages(cfg *config.Config, args []string) ([]model.Ref, error) {
	var names []string
	names = append(names, cfg.Packages...)
	names = append(names, args...)
	for i, n := range names {
		names[i] = cfg.Qualify(n)
	}
	return model.ParseRefs(names)
}

func runBootstrap(cfg *config.Config, st *store.Store, requested []model.Ref, logger *zap.Logger) {
	cli := hab.NewCLI(cfg.HabBin, cfg.CacheKeyPath, logger)
	b := studio.New(cfg, st, cli, cli, os.Stdout, logger)

	if err := b.Bootstrap(context.Background(), requested); err != nil {
		fmt.Fprintf(os.Stderr, "Bootstrap failed: %v\n", err)
		os.Exit(1)
	}
}

func runReportMode(inspector *studio.Inspector, requested []model.Ref, outputFile string, verbose bool) {
	insp, err := inspector.Inspect(requested)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error inspecting studio: %v\n", err)
		os.Exit(1)
	}

	text := report.Generate(insp, verbose)

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(text), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report to %s: %v\n", outputFile, err)
			os.Exit(1)
		}
		fmt.Printf("Report saved to %s\n", outputFile)
	} else {
		fmt.Println(text)
	}
}

func runJsonMode(inspector *studio.Inspector, requested []model.Ref) {
	insp, err := inspector.Inspect(requested)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error inspecting studio: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(insp)
}

func runTuiMode(inspector *studio.Inspector, requested []model.Ref) {
	m := tui.InitialModel(inspector, requested)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
