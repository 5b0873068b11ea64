package settings_models

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/solemar/concierge/logger"
)

var ErrSettingNotFound = errors.New("setting not found")

// Keys for well-known settings.
const KeyRevenueSharePercentage = "revenue_share_percentage"

// DefaultRevenueSharePercentage applies when the setting row is absent.
const DefaultRevenueSharePercentage = 15.0

// AppSetting is one key/value configuration row.
type AppSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetSetting fetches one setting by key.
func GetSetting(ctx context.Context, db *pgxpool.Pool, key string) (*AppSetting, error) {
	s := &AppSetting{}
	err := db.QueryRow(ctx,
		`SELECT key, value, updated_at FROM app_settings WHERE key = $1`, key,
	).Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingNotFound
		}
		return nil, fmt.Errorf("database error fetching setting %s: %w", key, err)
	}
	return s, nil
}

// UpsertSetting writes a setting value, keyed by name.
func UpsertSetting(ctx context.Context, db *pgxpool.Pool, key, value string) (*AppSetting, error) {
	s := &AppSetting{}
	err := db.QueryRow(ctx, `
		INSERT INTO app_settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		RETURNING key, value, updated_at`,
		key, value,
	).Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to upsert setting %s: %v", key, err)
		return nil, fmt.Errorf("failed to upsert setting: %w", err)
	}
	return s, nil
}

// GetRevenueSharePercentage returns the configured default concierge share,
// falling back to the built-in default when unset or unparseable.
func GetRevenueSharePercentage(ctx context.Context, db *pgxpool.Pool) float64 {
	s, err := GetSetting(ctx, db, KeyRevenueSharePercentage)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			logger.WarnLogger.Warnf("Falling back to default share percentage: %v", err)
		}
		return DefaultRevenueSharePercentage
	}

	pct, err := strconv.ParseFloat(s.Value, 64)
	if err != nil || pct < 0 || pct > 100 {
		logger.WarnLogger.Warnf("Invalid %s value %q, using default", KeyRevenueSharePercentage, s.Value)
		return DefaultRevenueSharePercentage
	}
	return pct
}
