// Package services contains application services of the dashboard client
// that sit above the sync store and the local database.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/admindash/internal/client/models"
	"github.com/dmitrijs2005/admindash/internal/client/repositories/metadata"
)

// SettingsService reads and writes user preferences kept in local metadata.
type SettingsService interface {
	// Theme returns the saved theme, or light when none is saved.
	Theme(ctx context.Context) (models.Theme, error)
	SetTheme(ctx context.Context, t models.Theme) error
	// ToggleTheme switches between light and dark and returns the new theme.
	ToggleTheme(ctx context.Context) (models.Theme, error)
}

type settingsService struct {
	repo metadata.Repository
}

func NewSettingsService(repo metadata.Repository) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) Theme(ctx context.Context) (models.Theme, error) {
	v, ok, err := s.repo.Get(ctx, metadata.KeyTheme)
	if err != nil {
		return models.ThemeLight, fmt.Errorf("read theme: %w", err)
	}
	if !ok {
		return models.ThemeLight, nil
	}
	t, err := models.ParseTheme(v)
	if err != nil {
		// a hand-edited or stale value falls back like a missing one
		return models.ThemeLight, nil
	}
	return t, nil
}

func (s *settingsService) SetTheme(ctx context.Context, t models.Theme) error {
	if _, err := models.ParseTheme(string(t)); err != nil {
		return err
	}
	if err := s.repo.Set(ctx, metadata.KeyTheme, string(t)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

func (s *settingsService) ToggleTheme(ctx context.Context) (models.Theme, error) {
	cur, err := s.Theme(ctx)
	if err != nil {
		return cur, err
	}
	next := cur.Toggle()
	if err := s.SetTheme(ctx, next); err != nil {
		return cur, err
	}
	return next, nil
}
