package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/lifevault/internal/services"
)

// Theme shows the theme, toggles it or sets it to dark or light.
func (a *App) Theme(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return usage("theme [dark|light|toggle]")
	}
	if len(args) == 0 {
		t, err := a.prefs.Theme(ctx)
		if err != nil {
			return err
		}
		a.println("Theme:", t)
		return nil
	}

	var t services.Theme
	var err error
	if args[0] == "toggle" {
		t, err = a.prefs.ToggleTheme(ctx)
	} else {
		t = services.Theme(args[0])
		err = a.prefs.SetTheme(ctx, t)
	}
	if err != nil {
		return err
	}
	a.println("Theme set to", t)
	return nil
}

// Settings shows the settings or changes them:
//
//	settings autolock <minutes>
//	settings font <small|medium|large>
func (a *App) Settings(ctx context.Context, args []string) error {
	s, err := a.prefs.Settings(ctx)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		lock := "off"
		if s.AutoLockTimeoutMinutes > 0 {
			lock = fmt.Sprintf("%d min", s.AutoLockTimeoutMinutes)
		}
		a.printf("Auto-lock: %s\nFont size: %s\n", lock, s.FontSize)
		return nil
	}
	if len(args) != 2 {
		return usage("settings [autolock <minutes>] [font <small|medium|large>]")
	}

	switch args[0] {
	case "autolock":
		m, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("minutes must be a whole number, got %q", args[1])
		}
		s.AutoLockTimeoutMinutes = m
	case "font":
		s.FontSize = services.FontSize(args[1])
	default:
		return fmt.Errorf("unknown setting %q", args[0])
	}
	if err := a.prefs.SaveSettings(ctx, s); err != nil {
		return err
	}
	a.println("Saved.")
	return nil
}
