package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/internreg/internal/crypto"
	"github.com/internreg/internal/model"
)

// settingsAD binds the sealed blob to the single settings row.
var settingsAD = []byte("app_settings:1")

type SettingsStore struct {
	db       *pgxpool.Pool
	crypter  *crypto.Crypter
	defaults *model.MailSettings
}

// NewSettingsStore returns a store that seeds itself from defaults when no
// settings row exists yet.
func NewSettingsStore(pool *pgxpool.Pool, crypter *crypto.Crypter, defaults *model.MailSettings) *SettingsStore {
	return &SettingsStore{db: pool, crypter: crypter, defaults: defaults}
}

// Load decrypts and returns the current settings.
func (s *SettingsStore) Load(ctx context.Context) (*model.MailSettings, error) {
	var data []byte
	err := s.db.QueryRow(ctx, `SELECT data FROM app_settings WHERE id = 1`).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		defaults := &model.MailSettings{}
		if s.defaults != nil {
			*defaults = *s.defaults
		}
		if saveErr := s.Save(ctx, defaults); saveErr != nil {
			return nil, saveErr
		}
		return defaults, nil
	} else if err != nil {
		return nil, err
	}

	plaintext, err := s.crypter.Open(data, settingsAD)
	if err != nil {
		slog.Error("settings: decryption failed", "err", err)
		return nil, err
	}
	var settings model.MailSettings
	if err := json.Unmarshal(plaintext, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save encrypts and persists settings.
func (s *SettingsStore) Save(ctx context.Context, settings *model.MailSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	ciphertext, err := s.crypter.Seal(raw, settingsAD)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO app_settings (id, data) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`, ciphertext)
	return err
}
