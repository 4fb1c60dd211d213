package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/lifevault/internal/models"
	"github.com/dmitrijs2005/lifevault/internal/repositories/metadata"
)

// Metadata keys for user preferences.
const (
	KeyGoals       = "goals"
	KeySettings    = "settings"
	KeyTheme       = "theme"
	KeyWelcomeSeen = "welcome_seen"
)

type FontSize string

const (
	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// DefaultAutoLockMinutes applies when no setting was saved.
const DefaultAutoLockMinutes = 15

// Settings are the persisted UI settings.
type Settings struct {
	AutoLockTimeoutMinutes int      `json:"autoLockTimeoutMinutes"`
	FontSize               FontSize `json:"fontSize"`
}

func DefaultSettings() Settings {
	return Settings{AutoLockTimeoutMinutes: DefaultAutoLockMinutes, FontSize: FontMedium}
}

// Goal is a daily target for one metric of a domain.
type Goal struct {
	Domain models.Domain `json:"domain"`
	Metric string        `json:"metric"`
	Target float64       `json:"target"`
	Label  string        `json:"label"`
}

// GoalWithProgress pairs a goal with the latest daily value.
type GoalWithProgress struct {
	Goal
	Current    float64 `json:"current"`
	Percentage float64 `json:"percentage"`
}

// PreferenceService stores non-sensitive preferences in the plaintext
// metadata table. None of it needs the vault to be unlocked.
type PreferenceService struct {
	repo     metadata.Repository
	defaults Settings
}

func NewPreferenceService(db *sql.DB) *PreferenceService {
	return &PreferenceService{repo: metadata.NewSQLiteRepository(db), defaults: DefaultSettings()}
}

// WithAutoLockDefault sets the auto-lock minutes reported while no setting
// has been saved. Negative values are ignored.
func (p *PreferenceService) WithAutoLockDefault(minutes int) *PreferenceService {
	if minutes >= 0 {
		p.defaults.AutoLockTimeoutMinutes = minutes
	}
	return p
}

// Settings returns stored settings with defaults for anything missing or
// out of range.
func (p *PreferenceService) Settings(ctx context.Context) (Settings, error) {
	var stored struct {
		AutoLockTimeoutMinutes *int     `json:"autoLockTimeoutMinutes"`
		FontSize               FontSize `json:"fontSize"`
	}
	s := p.defaults
	ok, err := metadata.GetJSON(ctx, p.repo, KeySettings, &stored)
	if err != nil || !ok {
		return s, err
	}
	if stored.AutoLockTimeoutMinutes != nil && *stored.AutoLockTimeoutMinutes >= 0 {
		s.AutoLockTimeoutMinutes = *stored.AutoLockTimeoutMinutes
	}
	switch stored.FontSize {
	case FontSmall, FontMedium, FontLarge:
		s.FontSize = stored.FontSize
	}
	return s, nil
}

func (p *PreferenceService) SaveSettings(ctx context.Context, s Settings) error {
	if s.AutoLockTimeoutMinutes < 0 {
		return fmt.Errorf("auto-lock timeout must be >= 0, got %d", s.AutoLockTimeoutMinutes)
	}
	switch s.FontSize {
	case FontSmall, FontMedium, FontLarge:
	default:
		return fmt.Errorf("unknown font size %q", s.FontSize)
	}
	return metadata.SetJSON(ctx, p.repo, KeySettings, s)
}

// Theme returns the saved theme, dark when unset or unknown.
func (p *PreferenceService) Theme(ctx context.Context) (Theme, error) {
	v, err := p.repo.Get(ctx, KeyTheme)
	if err != nil {
		return ThemeDark, err
	}
	if Theme(v) == ThemeLight {
		return ThemeLight, nil
	}
	return ThemeDark, nil
}

func (p *PreferenceService) SetTheme(ctx context.Context, t Theme) error {
	if t != ThemeDark && t != ThemeLight {
		return fmt.Errorf("unknown theme %q", t)
	}
	return p.repo.Set(ctx, KeyTheme, []byte(t))
}

// ToggleTheme flips between dark and light and returns the new theme.
func (p *PreferenceService) ToggleTheme(ctx context.Context) (Theme, error) {
	cur, err := p.Theme(ctx)
	if err != nil {
		return cur, err
	}
	next := ThemeLight
	if cur == ThemeLight {
		next = ThemeDark
	}
	return next, p.SetTheme(ctx, next)
}

func (p *PreferenceService) WelcomeSeen(ctx context.Context) (bool, error) {
	return p.repo.Has(ctx, KeyWelcomeSeen)
}

func (p *PreferenceService) MarkWelcomeSeen(ctx context.Context) error {
	return p.repo.Set(ctx, KeyWelcomeSeen, []byte("true"))
}

// Goals returns saved goals; an unreadable value yields no goals.
func (p *PreferenceService) Goals(ctx context.Context) ([]Goal, error) {
	raw, err := p.repo.Get(ctx, KeyGoals)
	if err != nil {
		return nil, err
	}
	var goals []Goal
	if raw == nil || json.Unmarshal(raw, &goals) != nil || goals == nil {
		return []Goal{}, nil
	}
	return goals, nil
}

func (p *PreferenceService) AddGoal(ctx context.Context, g Goal) error {
	if !g.Domain.Valid() {
		return fmt.Errorf("goal domain %q: unknown", g.Domain)
	}
	goals, err := p.Goals(ctx)
	if err != nil {
		return err
	}
	return metadata.SetJSON(ctx, p.repo, KeyGoals, append(goals, g))
}

// RemoveGoal deletes the goal at index i.
func (p *PreferenceService) RemoveGoal(ctx context.Context, i int) error {
	goals, err := p.Goals(ctx)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(goals) {
		return fmt.Errorf("goal index %d out of range [0,%d)", i, len(goals))
	}
	goals = append(goals[:i], goals[i+1:]...)
	if len(goals) == 0 {
		return p.repo.Delete(ctx, KeyGoals)
	}
	return metadata.SetJSON(ctx, p.repo, KeyGoals, goals)
}
