package app

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/rtg/internal/clock"
	"github.com/marcus/rtg/internal/config"
	"github.com/marcus/rtg/internal/event"
	"github.com/marcus/rtg/internal/i18n"
	"github.com/marcus/rtg/internal/input"
	"github.com/marcus/rtg/internal/mouse"
	"github.com/marcus/rtg/internal/msg"
	"github.com/marcus/rtg/internal/qrcode"
	"github.com/marcus/rtg/internal/stepper"
	"github.com/marcus/rtg/internal/tty"
	"github.com/marcus/rtg/internal/words"
	"golang.org/x/text/language"
)

// Hit region IDs.
const (
	regionStage      = "stage"
	regionFullscreen = "fullscreen"
	regionLanguage   = "language"
)

// Options configures a Model.
type Options struct {
	Config *config.Config
	Lists  words.Lists

	// Scheduler runs stepper, key release and auto-stop timers. When it is
	// a *clock.Loop, FireMsg messages are routed back to it.
	Scheduler clock.Scheduler

	// Reloads delivers live word list reloads (optional).
	Reloads <-chan words.Reload

	Rand      *rand.Rand          // nil uses the global source
	Clipboard func(string) error // nil uses the system clipboard
	Logger    *slog.Logger
}

// kiosk is the state shared with the input and stepper callbacks. The
// callbacks run inside Update, so it is only touched from the update
// goroutine.
type kiosk struct {
	cfg    *config.Config
	logger *slog.Logger

	sched clock.Scheduler
	loop  *clock.Loop

	document   *event.Target
	stage      *event.Target
	langButton *event.Target
	fsButton   *event.Target

	stepper *stepper.Stepper
	input   *input.Manager
	keys    *tty.KeyTracker
	router  *mouse.Router

	lists words.Lists
	rng   *rand.Rand
	ngram []words.Word

	baseLocale  language.Tag
	fallback    language.Tag
	languages   []language.Tag
	localeIndex int
	locale      language.Tag

	running    bool
	fullscreen bool
	autoStop   clock.Timer

	qr        *qrcode.Code
	clipboard func(string) error
	reloads   <-chan words.Reload

	// Commands produced by callbacks, drained at the end of Update.
	pending []tea.Cmd
}

// Model is the root Bubble Tea model.
type Model struct {
	k *kiosk

	keys keyMap

	width, height int
	ready         bool

	toast    msg.ToastMsg
	toastSeq int
}

// New wires the input manager, stepper and word lists together.
func New(opts Options) (Model, error) {
	if opts.Config == nil {
		return Model{}, errors.New("app: config is required")
	}
	if opts.Scheduler == nil {
		return Model{}, errors.New("app: scheduler is required")
	}
	if err := opts.Lists.Validate(); err != nil {
		return Model{}, err
	}
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	k := &kiosk{
		cfg:        cfg,
		logger:     logger,
		sched:      opts.Scheduler,
		document:   event.NewTargetWithLogger("document", logger),
		stage:      event.NewTargetWithLogger("stage", logger),
		langButton: event.NewTargetWithLogger("language-button", logger),
		fsButton:   event.NewTargetWithLogger("fullscreen-button", logger),
		lists:      opts.Lists,
		rng:        opts.Rand,
		clipboard:  opts.Clipboard,
		reloads:    opts.Reloads,
	}
	if loop, ok := opts.Scheduler.(*clock.Loop); ok {
		k.loop = loop
	}
	if k.clipboard == nil {
		k.clipboard = clipboard.WriteAll
	}

	if err := k.initLocales(); err != nil {
		return Model{}, err
	}

	if cfg.UI.QRCode != "" {
		code, err := qrcode.Render(cfg.UI.QRCode)
		if err != nil {
			logger.Warn("qr code disabled", "err", err)
		} else {
			k.qr = code
		}
	}

	k.stepper = stepper.New(k.sched, stepper.WithMaxDelay(cfg.Stepper.MaxDelay))
	k.stepper.OnStart = k.onStart
	k.stepper.OnStep = k.randomize
	k.stepper.OnStop = k.onStop

	mgr, err := input.New(input.Options{
		Mode:     cfg.Input.Mode,
		Document: k.document,
		Elements: input.Elements{
			Step:     k.stage,
			Language: k.langButton,
		},
		SpecialKeys: cfg.Input.SpecialKeys,
		IsStepping:  k.stepper.IsRunning,
		Logger:      logger,
	})
	if err != nil {
		return Model{}, err
	}
	mgr.OnStartStepping = k.stepper.Start
	mgr.OnStopStepping = k.stepper.Stop
	mgr.OnFullscreenChange = k.toggleFullscreen
	mgr.OnLanguageChange = k.nextLocale
	mgr.OnCopy = k.copyTitle
	k.input = mgr

	k.fsButton.AddListener(event.PointerUp, func(*event.Event) {
		k.setFullscreen(true)
	})

	k.keys = tty.NewKeyTracker(k.sched, k.document)
	k.keys.InitialRelease = cfg.Input.KeyRelease.Initial
	k.keys.RepeatRelease = cfg.Input.KeyRelease.Repeat

	k.router = mouse.NewRouter()
	k.router.Bind(regionStage, k.stage)
	k.router.Bind(regionFullscreen, k.fsButton)
	k.router.Bind(regionLanguage, k.langButton)

	k.randomize()
	k.setLocale(k.localeIndex)

	return Model{
		k:    k,
		keys: newKeyMap(cfg.Input.SpecialKeys),
	}, nil
}

// Init initializes the model and returns initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("rtg"),
		waitForReload(m.k.reloads),
	)
}

func (k *kiosk) initLocales() error {
	locale, fallback, languages, err := k.cfg.Locales()
	if err != nil {
		return err
	}
	if locale == language.Und {
		locale = i18n.SystemLocale()
	}
	if len(languages) == 0 {
		languages = k.lists.Locales()
	}
	k.baseLocale = locale
	k.fallback = fallback
	k.languages = languages
	k.localeIndex = i18n.IndexOfLocale(languages, locale)
	return nil
}

// setLocale switches to languages[i], or to the base locale when i is out
// of range. The current n-gram is kept.
func (k *kiosk) setLocale(i int) {
	if i >= 0 && i < len(k.languages) {
		k.localeIndex = i
		k.locale = k.languages[i]
	} else {
		k.localeIndex = -1
		k.locale = k.baseLocale
	}
	k.logger.Info("switching locale", "index", k.localeIndex, "locale", i18n.BaseName(k.locale))
}

func (k *kiosk) nextLocale() {
	if len(k.languages) == 0 {
		return
	}
	k.setLocale((k.localeIndex + 1) % len(k.languages))
}

func (k *kiosk) randomize() {
	k.ngram = words.RandomNGram(k.lists, k.rng)
}

func (k *kiosk) onStart() {
	k.running = true
	k.logger.Debug("stepping started")
	if d := k.cfg.Stepper.AutoStop; d > 0 {
		k.autoStop = k.sched.AfterFunc(d, func() {
			k.autoStop = nil
			k.stepper.Stop()
		})
	}
}

func (k *kiosk) onStop() {
	k.running = false
	if k.autoStop != nil {
		k.autoStop.Stop()
		k.autoStop = nil
	}
	k.logger.Debug("stepping stopped", "title", strings.Join(k.title(), " "))
}

func (k *kiosk) toggleFullscreen() {
	k.setFullscreen(!k.fullscreen)
}

func (k *kiosk) setFullscreen(on bool) {
	k.fullscreen = on
}

// title is the current n-gram in the current locale.
func (k *kiosk) title() []string {
	return words.Translate(k.ngram, k.locale, k.fallback)
}

func (k *kiosk) copyTitle() {
	text := strings.Join(k.title(), " ")
	write := k.clipboard
	k.pending = append(k.pending, func() tea.Msg {
		if err := write(text); err != nil {
			return msg.ToastMsg{Message: "Copy failed: " + err.Error(), Duration: msg.ErrorToastDuration, IsError: true}
		}
		return msg.ToastMsg{Message: "Copied: " + text, Duration: msg.ToastDuration}
	})
}

// reload swaps in new word lists. Locales follow the new lists unless they
// were configured explicitly.
func (k *kiosk) reload(lists words.Lists) {
	k.lists = lists
	if len(k.cfg.Locale.Languages) == 0 {
		current := k.locale
		k.languages = lists.Locales()
		k.setLocale(i18n.IndexOfLocale(k.languages, current))
	}
	k.randomize()
}

// shutdown releases held input and stops stepping.
func (k *kiosk) shutdown() {
	k.keys.ReleaseAll()
	k.router.Cancel()
	k.stepper.Stop()
	k.input.Close()
}

// Title returns the displayed words in the current locale.
func (m Model) Title() []string {
	return m.k.title()
}

// Running reports whether the words are being randomized.
func (m Model) Running() bool {
	return m.k.running
}

// Fullscreen reports whether the kiosk chrome is hidden.
func (m Model) Fullscreen() bool {
	return m.k.fullscreen
}

// Locale returns the active display locale.
func (m Model) Locale() language.Tag {
	return m.k.locale
}

// Toast returns the visible toast message, if any.
func (m Model) Toast() string {
	return m.toast.Message
}
