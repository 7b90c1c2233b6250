package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/streeteda/streeteda/internal/domain"
)

// PGSettingsStore reads and writes pricing settings.
type PGSettingsStore struct {
	db *sqlx.DB
}

// NewPGSettingsStore wraps the shared database handle.
func NewPGSettingsStore(db *sqlx.DB) *PGSettingsStore {
	return &PGSettingsStore{db: db}
}

// Get returns both pricing knobs; missing rows fall back to zero values.
func (s *PGSettingsStore) Get(ctx context.Context) (domain.Settings, error) {
	rows := []struct {
		Key   string `db:"key"`
		Value int64  `db:"value"`
	}{}
	err := s.db.SelectContext(ctx, &rows,
		`SELECT key, value FROM settings WHERE key IN ($1, $2)`,
		domain.SettingDeliveryFee, domain.SettingFreeDeliveryThreshold)
	if err != nil {
		return domain.Settings{}, domain.WrapStore("settings.get", err)
	}

	var out domain.Settings
	for _, r := range rows {
		switch r.Key {
		case domain.SettingDeliveryFee:
			out.DeliveryFee = r.Value
		case domain.SettingFreeDeliveryThreshold:
			out.FreeDeliveryThreshold = r.Value
		}
	}
	return out, nil
}

func (s *PGSettingsStore) Set(ctx context.Context, key string, value int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value)
		 VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	if err != nil {
		return domain.WrapStore("settings.set", err)
	}
	return nil
}
