package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/rtg/internal/app"
	"github.com/marcus/rtg/internal/clock"
	"github.com/marcus/rtg/internal/config"
	"github.com/marcus/rtg/internal/styles"
	"github.com/marcus/rtg/internal/words"
)

// Version is set at build time via ldflags
var Version = ""

var (
	configPath   = flag.String("config", "", "path to config file")
	paramsFlag   = flag.String("params", "", "query-string style overrides, e.g. \"words=steamhub&mode=press_press\"")
	wordlists    = flag.String("wordlists", "", "word list directory or http(s) base URL")
	maxDelay     = flag.Duration("max-delay", 0, "delay between the first two steps")
	autoStop     = flag.Duration("auto-stop", 0, "stop stepping after this long (0 disables)")
	watchFlag    = flag.Bool("watch", false, "reload the word list when its file changes")
	saveFlag     = flag.Bool("save-config", false, "write the effective config and exit")
	logFile      = flag.String("log-file", "", "write logs to this file")
	debugFlag    = flag.Bool("debug", false, "enable debug logging")
	versionFlag  = flag.Bool("version", false, "print version and exit")
	shortVersion = flag.Bool("v", false, "print version and exit (short)")
)

// Flags that share a name with a query parameter.
var paramFlags = map[string]string{
	"words":             "words",
	"mode":              "mode",
	"language":          "language",
	"fallback-language": "fallbackLanguage",
	"languages":         "languages",
	"qrcode":            "qrcode",
	"fullscreen":        "fullscreen",
	"theme":             "theme",
}

func init() {
	flag.String("words", "", "word list name")
	flag.String("mode", "", "operation mode (press_release, press_press, ...)")
	flag.String("language", "", "display language")
	flag.String("fallback-language", "", "language used when a word has no translation")
	flag.String("languages", "", "comma-separated languages cycled by the language button")
	flag.String("qrcode", "", "content of the QR code shown beside the words")
	flag.String("fullscreen", "true", "show the fullscreen button")
	flag.String("theme", "", "color theme")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rtg [options]\n\n")
		fmt.Fprintf(os.Stderr, "A random title generator kiosk.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	if *versionFlag || *shortVersion {
		fmt.Printf("rtg version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	// The terminal belongs to the UI, so logs go to a file or nowhere.
	logger, closeLog, err := setupLogger(*logFile, *debugFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *saveFlag {
		path := *configPath
		if path == "" {
			path = config.ConfigPath()
		}
		if err := config.SaveTo(path, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config written to %s\n", path)
		return
	}

	if err := styles.ApplyTheme(cfg.UI.Theme); err != nil {
		logger.Warn("theme not applied", "theme", cfg.UI.Theme, "err", err)
	}

	src, err := words.ParseSource(cfg.Words.Source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid word list source: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lists, err := words.Load(ctx, src, cfg.Words.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load word list: %v\n", err)
		os.Exit(1)
	}
	logger.Info("word list loaded", "name", cfg.Words.Name, "lists", len(lists))

	var reloads <-chan words.Reload
	if cfg.Words.Watch {
		reloads, err = words.Watch(ctx, src, cfg.Words.Name)
		if err != nil {
			logger.Warn("word list watch disabled", "err", err)
		}
	}

	loop := clock.NewLoop()
	model, err := app.New(app.Options{
		Config:    cfg,
		Lists:     lists,
		Scheduler: loop,
		Reloads:   reloads,
		Logger:    logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	loop.Bind(p.Send)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig layers the config file, --params and individual flags, in
// that order.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		return nil, err
	}
	if *paramsFlag != "" {
		if err := cfg.ApplyQuery(*paramsFlag); err != nil {
			return nil, err
		}
	}

	values := url.Values{}
	flag.Visit(func(f *flag.Flag) {
		if param, ok := paramFlags[f.Name]; ok {
			values.Set(param, f.Value.String())
		}
	})
	if len(values) > 0 {
		if err := cfg.ApplyValues(values); err != nil {
			return nil, err
		}
	}

	if *wordlists != "" {
		cfg.Words.Source = config.ExpandPath(*wordlists)
	}
	if *maxDelay > 0 {
		cfg.Stepper.MaxDelay = *maxDelay
	}
	if *autoStop > 0 {
		cfg.Stepper.AutoStop = *autoStop
	}
	if *watchFlag {
		cfg.Words.Watch = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogger(path string, debugLog bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if debugLog {
		level = slog.LevelDebug
	}
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(config.ExpandPath(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}

// effectiveVersion returns the version string, with fallback to build info.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	// Fall back to VCS info
	var revision string
	var dirty bool

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}

	if revision != "" {
		ver := "devel+" + revision
		if len(ver) > 20 {
			ver = ver[:20]
		}
		if dirty {
			ver += "+dirty"
		}
		return ver
	}

	return "devel"
}
