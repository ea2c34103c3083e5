package config

import "fmt"

// Colors are the bar colors as "#rrggbb" values or color names.
type Colors struct {
	NormalFG   string `json:"normal_fg" yaml:"normal_fg"`
	NormalBG   string `json:"normal_bg" yaml:"normal_bg"`
	SelectedFG string `json:"selected_fg" yaml:"selected_fg"`
	SelectedBG string `json:"selected_bg" yaml:"selected_bg"`
	UrgentFG   string `json:"urgent_fg" yaml:"urgent_fg"`
	UrgentBG   string `json:"urgent_bg" yaml:"urgent_bg"`
}

// KeyBinding is one entry of a key table.
type KeyBinding struct {
	// Mods is a "+"-separated modifier list such as "ctrl+shift".
	Mods string `json:"mods,omitempty" yaml:"mods,omitempty"`
	// Key is a keysym name, or a decimal keycode when key_match is keycode.
	Key    string `json:"key" yaml:"key"`
	Action string `json:"action" yaml:"action"`
	// Arg is the integer or flag name the action takes.
	Arg string `json:"arg,omitempty" yaml:"arg,omitempty"`
	// Command is the spawn action's command line.
	Command []string `json:"command,omitempty" yaml:"command,omitempty,flow"`
}

// ControlConfig configures the local control socket.
type ControlConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	// Socket overrides $XDG_RUNTIME_DIR/focustabs-<window>.sock.
	Socket string `json:"socket,omitempty" yaml:"socket,omitempty"`
}

// Config represents the application configuration
type Config struct {
	Font      string `json:"font" yaml:"font"`
	Colors    Colors `json:"colors" yaml:"colors"`
	Before    string `json:"before" yaml:"before"`
	After     string `json:"after" yaml:"after"`
	TitleTrim string `json:"title_trim" yaml:"title_trim"`
	TabWidth  int    `json:"tab_width" yaml:"tab_width"`
	// BarHeight overrides the font-derived height when positive.
	BarHeight int `json:"bar_height" yaml:"bar_height"`

	Foreground   bool `json:"foreground" yaml:"foreground"`
	UrgentSwitch bool `json:"urgent_switch" yaml:"urgent_switch"`
	NewPosition  int  `json:"new_position" yaml:"new_position"`
	NPRelative   bool `json:"np_relative" yaml:"np_relative"`

	BasenameTitles bool `json:"basename_titles" yaml:"basename_titles"`
	ClientNumber   bool `json:"client_number" yaml:"client_number"`
	CenterTitles   bool `json:"center_titles" yaml:"center_titles"`
	Separator      int  `json:"separator" yaml:"separator"`
	BottomTabs     bool `json:"bottom_tabs" yaml:"bottom_tabs"`
	Autohide       bool `json:"autohide" yaml:"autohide"`
	HideTabs       bool `json:"hide_tabs" yaml:"hide_tabs"`
	EvenTabs       bool `json:"even_tabs" yaml:"even_tabs"`
	Drag           bool `json:"drag" yaml:"drag"`

	KeyMatch string `json:"key_match" yaml:"key_match"`
	// Keys and KeyReleases replace the built-in tables when non-empty.
	Keys        []KeyBinding `json:"keys,omitempty" yaml:"keys,omitempty"`
	KeyReleases []KeyBinding `json:"key_releases,omitempty" yaml:"key_releases,omitempty"`

	SelectTabProperty string `json:"select_tab_property" yaml:"select_tab_property"`
	CloseLastClient   bool   `json:"close_last_client" yaml:"close_last_client"`
	FillAgain         bool   `json:"fill_again" yaml:"fill_again"`
	KillClientsFirst  bool   `json:"kill_clients_first" yaml:"kill_clients_first"`

	LogLevel string        `json:"log_level" yaml:"log_level"`
	Control  ControlConfig `json:"control" yaml:"control"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Font: "monospace:size=9",
		Colors: Colors{
			NormalFG:   "#cccccc",
			NormalBG:   "#222222",
			SelectedFG: "#ffffff",
			SelectedBG: "#555555",
			UrgentFG:   "#cc0000",
			UrgentBG:   "#111111",
		},
		Before:            "<",
		After:             ">",
		TitleTrim:         "...",
		TabWidth:          200,
		Foreground:        true,
		KeyMatch:          "keysym",
		SelectTabProperty: "_TABBED_SELECT_TAB",
		LogLevel:          "warn",
	}
}

// validate rejects values no component can work with.
func (c *Config) validate() error {
	if c.TabWidth <= 0 && !c.EvenTabs {
		return fmt.Errorf("tab_width must be positive, got %d", c.TabWidth)
	}
	if c.BarHeight < 0 {
		return fmt.Errorf("bar_height must not be negative, got %d", c.BarHeight)
	}
	if c.Separator < 0 {
		return fmt.Errorf("separator must not be negative, got %d", c.Separator)
	}
	return nil
}
