package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bryanchriswhite/FocusTabs/internal/bar"
	"github.com/bryanchriswhite/FocusTabs/internal/tabs"
)

// Theme builds the bar theme. A font that cannot be loaded falls back to
// the fixed font; a color that cannot be parsed is an error.
func (c *Config) Theme() (bar.Theme, error) {
	th := bar.Theme{
		Face:         bar.LoadFace(c.Font),
		Before:       c.Before,
		After:        c.After,
		TitleTrim:    c.TitleTrim,
		Separator:    c.Separator,
		Center:       c.CenterTitles,
		ClientNumber: c.ClientNumber,
	}
	for _, col := range []struct {
		name string
		dst  *bar.ColorPair
		fg   bool
	}{
		{c.Colors.NormalFG, &th.Norm, true},
		{c.Colors.NormalBG, &th.Norm, false},
		{c.Colors.SelectedFG, &th.Sel, true},
		{c.Colors.SelectedBG, &th.Sel, false},
		{c.Colors.UrgentFG, &th.Urg, true},
		{c.Colors.UrgentBG, &th.Urg, false},
	} {
		rgba, err := bar.ParseColor(col.name)
		if err != nil {
			return bar.Theme{}, err
		}
		if col.fg {
			col.dst.FG = rgba
		} else {
			col.dst.BG = rgba
		}
	}
	return th, nil
}

// Strategy is the tab width policy.
func (c *Config) Strategy() bar.Strategy {
	if c.EvenTabs {
		return bar.Even{}
	}
	return bar.Fixed(c.TabWidth)
}

// KeyTables returns the press and release binding tables. Empty tables in
// the file mean the built-in ones for the configured key match.
func (c *Config) KeyTables() (keys, releases []tabs.Binding, match tabs.KeyMatch, err error) {
	match, err = tabs.ParseKeyMatch(c.KeyMatch)
	if err != nil {
		return nil, nil, 0, err
	}

	if len(c.Keys) > 0 {
		if keys, err = ParseBindings(c.Keys, match); err != nil {
			return nil, nil, 0, fmt.Errorf("keys: %w", err)
		}
	} else {
		if match == tabs.MatchKeycode {
			keys = tabs.DefaultKeycodes(c.SelectTabProperty)
		} else {
			keys = tabs.DefaultKeys(c.SelectTabProperty)
		}
		if c.HideTabs {
			if match == tabs.MatchKeycode {
				keys = append(keys, tabs.HideTabsKeycodes()...)
			} else {
				keys = append(keys, tabs.HideTabsKeys()...)
			}
		}
	}

	switch {
	case len(c.KeyReleases) > 0:
		if releases, err = ParseBindings(c.KeyReleases, match); err != nil {
			return nil, nil, 0, fmt.Errorf("key_releases: %w", err)
		}
	case c.HideTabs && match == tabs.MatchKeycode:
		releases = tabs.HideTabsReleaseKeycodes()
	case c.HideTabs:
		releases = tabs.HideTabsReleases()
	}
	return keys, releases, match, nil
}

// ParseBindings converts configured bindings.
func ParseBindings(list []KeyBinding, match tabs.KeyMatch) ([]tabs.Binding, error) {
	out := make([]tabs.Binding, 0, len(list))
	for i, kb := range list {
		b, err := parseBinding(kb, match)
		if err != nil {
			return nil, fmt.Errorf("binding %d (%s %s): %w", i, kb.Mods, kb.Key, err)
		}
		out = append(out, b)
	}
	return out, nil
}

func parseBinding(kb KeyBinding, match tabs.KeyMatch) (tabs.Binding, error) {
	mods, err := tabs.ParseModifiers(kb.Mods)
	if err != nil {
		return tabs.Binding{}, err
	}
	key, err := tabs.ParseKey(kb.Key, match)
	if err != nil {
		return tabs.Binding{}, err
	}
	action, err := tabs.ParseAction(kb.Action)
	if err != nil {
		return tabs.Binding{}, err
	}

	arg := tabs.NoArg
	switch action {
	case tabs.ActionRotate, tabs.ActionMoveTab, tabs.ActionMove, tabs.ActionShowBar:
		n := 0
		if kb.Arg != "" {
			if n, err = strconv.Atoi(kb.Arg); err != nil {
				return tabs.Binding{}, fmt.Errorf("%s needs an integer argument, got %q", action, kb.Arg)
			}
		}
		arg = tabs.Index(n)
	case tabs.ActionToggle:
		f, err := tabs.ParseFlag(kb.Arg)
		if err != nil {
			return tabs.Binding{}, err
		}
		arg = tabs.FlagRef(f)
	case tabs.ActionSpawn:
		if len(kb.Command) > 0 {
			arg = tabs.Command(kb.Command...)
		}
	}
	return tabs.Binding{Mods: mods, Key: key, Action: action, Arg: arg}, nil
}

// SessionOptions converts the settings the session reads. The caller adds
// the command line, the spawn policy and the window size.
func (c *Config) SessionOptions() (tabs.Options, error) {
	keys, releases, match, err := c.KeyTables()
	if err != nil {
		return tabs.Options{}, err
	}
	return tabs.Options{
		NewPosition:       c.NewPosition,
		PositionRelative:  c.NPRelative,
		Foreground:        c.Foreground,
		UrgentSwitch:      c.UrgentSwitch,
		CloseLastClient:   c.CloseLastClient,
		FillAgain:         c.FillAgain,
		KillClientsFirst:  c.KillClientsFirst,
		Basename:          c.BasenameTitles,
		BarHeight:         c.BarHeight,
		BottomTabs:        c.BottomTabs,
		Autohide:          c.Autohide,
		HideTabs:          c.HideTabs,
		Drag:              c.Drag,
		KeyMatch:          match,
		Keys:              keys,
		KeyReleases:       releases,
		SelectTabProperty: c.SelectTabProperty,
	}, nil
}

// ParsePosition parses the new-client position "[s][+-]N". A leading "s"
// makes the position relative to the selected tab.
func ParsePosition(s string) (pos int, relative bool, err error) {
	if rest, ok := strings.CutPrefix(s, "s"); ok {
		relative, s = true, rest
	}
	pos, err = strconv.Atoi(s)
	if err != nil {
		return 0, false, fmt.Errorf("invalid position %q", s)
	}
	return pos, relative, nil
}
