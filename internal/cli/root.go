package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Makepad-fr/shoplist/internal/config"
	"github.com/Makepad-fr/shoplist/internal/logging"
	"github.com/Makepad-fr/shoplist/internal/shoplist"
	"github.com/Makepad-fr/shoplist/internal/store"
	"github.com/Makepad-fr/shoplist/internal/tui"
	"github.com/Makepad-fr/shoplist/internal/ui"
	"github.com/Makepad-fr/shoplist/internal/view"
)

// errUsage marks errors that exit with code 2.
var errUsage = errors.New("usage")

func usagef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// App carries root flags and the process streams.
type App struct {
	ConfigFile string
	Store      string
	Path       string
	Theme      string
	LogFile    string
	Debug      bool
	Color      bool
	NoColor    bool

	in  *bufio.Reader
	out io.Writer
	err io.Writer
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := &App{in: bufio.NewReader(stdin), out: stdout, err: stderr}
	cmd := NewRootCmd(app)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return 0
	}
	switch {
	case errors.Is(err, shoplist.ErrEmptyLabel):
		// the warning is already on stderr
		return 2
	case errors.Is(err, errUsage):
		ui.Fail(stderr, strings.TrimPrefix(err.Error(), "usage: "))
		return 2
	case strings.HasPrefix(err.Error(), "unknown command"):
		ui.Fail(stderr, err.Error())
		return 2
	}
	ui.Fail(stderr, err.Error())
	return 1
}

func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "shoplist",
		Short:         "A small shopping list (TUI + CLI)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive list
  shoplist

  # Scriptable commands
  shoplist add "Oat milk"
  shoplist ls --filter milk
  shoplist edit 2 Bacon
  shoplist rm 3 --yes
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usagef("%v", err)
	})

	f := cmd.PersistentFlags()
	f.StringVar(&app.ConfigFile, "config", "", "config file (default ~/.shoplist/config.yaml)")
	f.StringVar(&app.Store, "store", "", "storage backend: json, sqlite or memory")
	f.StringVar(&app.Path, "path", "", "data file for the json/sqlite backend")
	f.StringVar(&app.Theme, "theme", "", "output theme: classic, neon or mono")
	f.StringVar(&app.LogFile, "log-file", "", "write diagnostic logs to this file")
	f.BoolVar(&app.Debug, "debug", false, "log at debug level")
	f.BoolVar(&app.Color, "color", false, "force ANSI colors even when stdout is not a terminal")
	f.BoolVar(&app.NoColor, "no-color", false, "disable ANSI colors in output (wins over --color)")

	cmd.AddCommand(
		newAddCmd(app),
		newListCmd(app),
		newRemoveCmd(app),
		newEditCmd(app),
		newClearCmd(app),
		newExportCmd(app),
	)
	return cmd
}

// resolveConfig applies defaults < file < env < flags.
func (a *App) resolveConfig(cmd *cobra.Command) (config.Config, error) {
	path := a.ConfigFile
	if path == "" {
		path = config.DefaultFile()
	}
	cfg, err := config.Load(path, config.Default())
	if err != nil {
		return cfg, err
	}
	cfg = config.FromEnv(cfg)

	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Store = a.Store
	}
	if flags.Changed("path") {
		cfg.Path = a.Path
	}
	if flags.Changed("theme") {
		cfg.Theme = a.Theme
	}
	if flags.Changed("log-file") {
		cfg.LogFile = a.LogFile
	}
	if flags.Changed("debug") {
		cfg.Debug = a.Debug
	}
	return cfg, nil
}

// backend is an opened store plus logger; callers must call close.
type backend struct {
	kv    store.KV
	log   *zap.Logger
	close func()
}

func (a *App) openBackend(cmd *cobra.Command) (*backend, error) {
	cfg, err := a.resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	ui.SetTheme(cfg.Theme)
	if a.Color || a.NoColor {
		ui.SetColorForcing(a.Color, a.NoColor)
	}

	log, err := logging.New(cfg.LogFile, cfg.Debug)
	if err != nil {
		return nil, err
	}
	kv, closeStore, err := config.OpenStore(cfg)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	log.Debug("store opened", zap.String("backend", cfg.Store), zap.String("path", cfg.Path))
	return &backend{
		kv:  kv,
		log: log,
		close: func() {
			if err := closeStore(); err != nil {
				log.Warn("close store", zap.Error(err))
			}
			_ = log.Sync()
		},
	}, nil
}

// session is a loaded controller over a headless view.
type session struct {
	*backend
	ctl  *shoplist.Controller
	view *view.List
}

func (a *App) openSession(cmd *cobra.Command, assumeYes bool) (*session, error) {
	b, err := a.openBackend(cmd)
	if err != nil {
		return nil, err
	}
	v := view.New()
	ctl := shoplist.New(v, b.kv,
		shoplist.WithConfirmer(a.confirmer(assumeYes)),
		shoplist.WithWarner(shoplist.WarnFunc(func(msg string) { ui.Warn(a.err, msg) })),
		shoplist.WithLogger(b.log),
	)
	if err := ctl.LoadAll(); err != nil {
		b.close()
		return nil, err
	}
	return &session{backend: b, ctl: ctl, view: v}, nil
}

// confirmer asks on stdin unless the caller passed --yes.
func (a *App) confirmer(assumeYes bool) shoplist.Confirmer {
	return shoplist.ConfirmFunc(func(prompt string) bool {
		if assumeYes {
			return true
		}
		fmt.Fprintf(a.err, "%s [y/N] ", prompt)
		line, err := a.in.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(a.err)
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	})
}

func runTUI(cmd *cobra.Command, app *App) error {
	b, err := app.openBackend(cmd)
	if err != nil {
		return err
	}
	defer b.close()
	return tui.Run(b.kv, b.log)
}
