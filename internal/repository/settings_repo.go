package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"reminder-service/internal/domain"
)

type settingsRepo struct {
	db *pgxpool.Pool
}

func NewSettingsRepo(db *pgxpool.Pool) SettingsStore {
	return &settingsRepo{db: db}
}

const settingsColumns = `
	id, birthday_enabled, anniversary_enabled, occasion_enabled,
	reminder_days, birthday_subject, birthday_template,
	anniversary_subject, anniversary_template,
	occasion_subject, occasion_template, updated_at
`

func scanSettings(row pgx.Row) (*domain.ReminderSettings, error) {
	var s domain.ReminderSettings
	err := row.Scan(
		&s.ID,
		&s.BirthdayEnabled,
		&s.AnniversaryEnabled,
		&s.OccasionEnabled,
		&s.ReminderDays,
		&s.BirthdaySubject,
		&s.BirthdayTemplate,
		&s.AnniversarySubject,
		&s.AnniversaryTemplate,
		&s.OccasionSubject,
		&s.OccasionTemplate,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.ReminderDays = domain.NormalizeReminderDays(s.ReminderDays)
	return &s, nil
}

func (r *settingsRepo) GetOrCreate(ctx context.Context) (*domain.ReminderSettings, error) {
	row := r.db.QueryRow(ctx, `SELECT `+settingsColumns+` FROM reminder_settings LIMIT 1`)
	s, err := scanSettings(row)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("load reminder settings: %w", err)
	}

	defaults := domain.DefaultSettings()
	row = r.db.QueryRow(ctx, `
		INSERT INTO reminder_settings (
			id, birthday_enabled, anniversary_enabled, occasion_enabled,
			reminder_days, birthday_subject, anniversary_subject, occasion_subject
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+settingsColumns,
		uuid.NewString(),
		defaults.BirthdayEnabled,
		defaults.AnniversaryEnabled,
		defaults.OccasionEnabled,
		defaults.ReminderDays,
		defaults.BirthdaySubject,
		defaults.AnniversarySubject,
		defaults.OccasionSubject,
	)
	s, err = scanSettings(row)
	if err != nil {
		return nil, fmt.Errorf("create default reminder settings: %w", err)
	}
	return s, nil
}

func (r *settingsRepo) Update(ctx context.Context, id string, patch domain.SettingsPatch) (*domain.ReminderSettings, error) {
	var days []int
	if patch.ReminderDays != nil {
		days = domain.NormalizeReminderDays(patch.ReminderDays)
	}

	// Sparse patch: COALESCE keeps columns whose patch field is NULL.
	row := r.db.QueryRow(ctx, `
		UPDATE reminder_settings SET
			birthday_enabled     = COALESCE($2, birthday_enabled),
			anniversary_enabled  = COALESCE($3, anniversary_enabled),
			occasion_enabled     = COALESCE($4, occasion_enabled),
			reminder_days        = COALESCE($5, reminder_days),
			birthday_subject     = COALESCE($6, birthday_subject),
			anniversary_subject  = COALESCE($7, anniversary_subject),
			occasion_subject     = COALESCE($8, occasion_subject),
			birthday_template    = CASE WHEN $9 THEN $10 ELSE birthday_template END,
			anniversary_template = CASE WHEN $11 THEN $12 ELSE anniversary_template END,
			occasion_template    = CASE WHEN $13 THEN $14 ELSE occasion_template END,
			updated_at           = now()
		WHERE id = $1
		RETURNING `+settingsColumns,
		id,
		patch.BirthdayEnabled,
		patch.AnniversaryEnabled,
		patch.OccasionEnabled,
		days,
		patch.BirthdaySubject,
		patch.AnniversarySubject,
		patch.OccasionSubject,
		patch.BirthdayTemplate != nil,
		patch.BirthdayTemplate,
		patch.AnniversaryTemplate != nil,
		patch.AnniversaryTemplate,
		patch.OccasionTemplate != nil,
		patch.OccasionTemplate,
	)
	s, err := scanSettings(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update reminder settings: %w", err)
	}
	return s, nil
}
