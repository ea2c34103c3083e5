package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bryanchriswhite/FocusTabs/internal/api"
	"github.com/bryanchriswhite/FocusTabs/internal/bar"
	"github.com/bryanchriswhite/FocusTabs/internal/config"
	"github.com/bryanchriswhite/FocusTabs/internal/logger"
	"github.com/bryanchriswhite/FocusTabs/internal/process"
	"github.com/bryanchriswhite/FocusTabs/internal/tabs"
	"github.com/bryanchriswhite/FocusTabs/internal/x11"
)

// Initial container size when -g gives none.
const (
	defaultWidth  = 800
	defaultHeight = 600
)

type runOptions struct {
	detach   bool
	geometry string
	name     string
	replace  int
	noSpawn  bool
	version  bool
}

var runOpts runOptions

// colorFlags maps the color flags to their config keys.
var colorFlags = []struct {
	short, long, key, usage string
}{
	{"o", "normal-bg", "colors.normal_bg", "normal background color"},
	{"O", "normal-fg", "colors.normal_fg", "normal foreground color"},
	{"t", "selected-bg", "colors.selected_bg", "selected background color"},
	{"T", "selected-fg", "colors.selected_fg", "selected foreground color"},
	{"u", "urgent-bg", "colors.urgent_bg", "urgent background color"},
	{"U", "urgent-fg", "colors.urgent_fg", "urgent foreground color"},
}

// boolFlags maps the boolean behavior flags to their config keys.
var boolFlags = []struct {
	short, long, key, usage string
}{
	{"c", "close-last", "close_last_client", "close the container when its last client exits"},
	{"f", "fill-again", "fill_again", "start a new client when the last one exits"},
	{"k", "kill-first", "kill_clients_first", "close the selected client first when the container is closed"},
	{"b", "basename", "basename_titles", "show only the last path component of titles"},
	{"", "control", "control.enabled", "serve the control socket"},
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVarP(&runOpts.detach, "detach", "d", false, "detach from the terminal after printing the window id")
	f.StringVarP(&runOpts.geometry, "geometry", "g", "", "container geometry (X geometry syntax)")
	f.StringVarP(&runOpts.name, "name", "n", "focustabs", "WM_CLASS instance name")
	f.IntVarP(&runOpts.replace, "replace", "r", 0, "replace argument N of the command with the window id")
	f.BoolVarP(&runOpts.noSpawn, "no-spawn", "s", false, "do not start the command at startup")
	f.BoolVarP(&runOpts.version, "version", "v", false, "print the version and exit")
	f.StringP("position", "p", "", "position of new tabs, [s][+-]N (s: relative to the selected tab)")
	viper.BindPFlag("position", f.Lookup("position"))

	for _, b := range boolFlags {
		f.BoolP(b.long, b.short, false, b.usage)
		viper.BindPFlag(b.key, f.Lookup(b.long))
	}
	for _, c := range colorFlags {
		f.StringP(c.long, c.short, "", c.usage)
		viper.BindPFlag(c.key, f.Lookup(c.long))
	}
}

// applyOverrides copies settings given on the command line or in the
// environment over the file's values.
func applyOverrides(cfg *config.Config) error {
	if viper.IsSet("log_level") {
		if level := viper.GetString("log_level"); level != "" {
			cfg.LogLevel = level
		}
	}

	for _, c := range colorFlags {
		if !viper.IsSet(c.key) {
			continue
		}
		v := viper.GetString(c.key)
		switch c.key {
		case "colors.normal_bg":
			cfg.Colors.NormalBG = v
		case "colors.normal_fg":
			cfg.Colors.NormalFG = v
		case "colors.selected_bg":
			cfg.Colors.SelectedBG = v
		case "colors.selected_fg":
			cfg.Colors.SelectedFG = v
		case "colors.urgent_bg":
			cfg.Colors.UrgentBG = v
		case "colors.urgent_fg":
			cfg.Colors.UrgentFG = v
		}
	}

	if viper.IsSet("close_last_client") && viper.GetBool("close_last_client") {
		cfg.CloseLastClient = true
		cfg.FillAgain = false
	}
	if viper.IsSet("fill_again") && viper.GetBool("fill_again") {
		cfg.FillAgain = true
	}
	if viper.IsSet("kill_clients_first") {
		cfg.KillClientsFirst = viper.GetBool("kill_clients_first")
	}
	if viper.IsSet("basename_titles") {
		cfg.BasenameTitles = viper.GetBool("basename_titles")
	}
	if viper.IsSet("control.enabled") {
		cfg.Control.Enabled = viper.GetBool("control.enabled")
	}

	if viper.IsSet("position") {
		if p := viper.GetString("position"); p != "" {
			pos, rel, err := config.ParsePosition(p)
			if err != nil {
				return err
			}
			cfg.NewPosition, cfg.NPRelative = pos, rel
		}
	}
	return nil
}

func runTabs(cmd *cobra.Command, args []string) error {
	if runOpts.version {
		fmt.Printf("focustabs-%s\n", Version)
		return nil
	}

	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := configMgr.Get()
	if err := applyOverrides(cfg); err != nil {
		return err
	}
	logger.Init(cfg.LogLevel, isatty.IsTerminal(os.Stderr.Fd()))
	log := logger.WithComponent("main")

	detached := process.Detached()
	if runOpts.detach && !detached {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to find executable: %w", err)
		}
		id, err := process.Detach(append([]string{exe}, os.Args[1:]...))
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	}

	geom, err := config.ParseGeometry(runOpts.geometry)
	if err != nil {
		return err
	}
	x, y, width, height, fixed := geom.Resolve(defaultWidth, defaultHeight)

	theme, err := cfg.Theme()
	if err != nil {
		return err
	}
	opts, err := cfg.SessionOptions()
	if err != nil {
		return err
	}

	backend, err := x11.Open("")
	if err != nil {
		return err
	}
	defer backend.Close()

	renderer := bar.NewRenderer(theme, cfg.Strategy(), backend)
	barHeight := cfg.BarHeight
	if barHeight <= 0 {
		barHeight = renderer.Height()
	}

	err = backend.CreateContainer(x11.WindowSpec{
		X:                 x,
		Y:                 y,
		Width:             width,
		Height:            height,
		Fixed:             fixed,
		BarHeight:         barHeight,
		Name:              runOpts.name,
		Class:             "focustabs",
		Background:        theme.Norm.BG,
		SelectTabProperty: cfg.SelectTabProperty,
	})
	if err != nil {
		return err
	}
	container := backend.Container()

	opts.Version = Version
	opts.Command = args
	opts.ReplaceIndex = runOpts.replace
	opts.InitialSpawn = !runOpts.noSpawn
	opts.Width, opts.Height = width, height

	spawner := process.NewSpawner(fmt.Sprintf("XEMBED=%d", container))
	session := tabs.New(opts, backend, renderer, spawner)

	fmt.Printf("0x%x\n", uint32(container))
	if detached {
		if err := process.ReleaseStdout(); err != nil {
			log.Warn().Err(err).Msg("Failed to release stdout")
		}
	}

	if cfg.Control.Enabled {
		socket := cfg.Control.Socket
		if socket == "" {
			socket = api.DefaultSocketPath(container)
		}
		server := api.NewServer(api.NewSessionController(session), Version)
		if err := server.Start(socket); err != nil {
			log.Error().Err(err).Msg("Control socket unavailable")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				server.Close(ctx)
			}()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	log.Info().
		Uint32("window", uint32(container)).
		Strs("command", session.Command()).
		Msg("Container ready")

	if err := session.Run(ctx); err != nil {
		// The connection is unusable; clients are left to the window manager.
		return err
	}
	session.Cleanup()
	return nil
}
