package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/remindue/internal/migration"
	"github.com/julianstephens/remindue/internal/models"
	"github.com/julianstephens/remindue/migrations"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'remindue init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return s.validateSchemaVersion()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) runMigrations() error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}

	runner := migration.NewRunner(s.db, subFS)
	_, err = runner.Apply(nil)
	return err
}

func (s *SQLiteStore) validateSchemaVersion() error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}

	return migration.NewRunner(s.db, subFS).ValidateVersion()
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

func (s *SQLiteStore) UpsertObligation(o models.Obligation) error {
	if err := o.Validate(); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		INSERT INTO obligations (
			id, title, amount, currency, due_at, frequency,
			notes, notification_handle, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			amount = excluded.amount,
			due_at = excluded.due_at,
			notes = excluded.notes,
			notification_handle = excluded.notification_handle
	`,
		// UTC-normalized text so ORDER BY compares correctly across
		// offsets; scan converts back to local.
		o.ID, o.Title, amountToColumn(o.Amount), o.Currency,
		o.DueAt.UTC().Format(time.RFC3339), string(o.Frequency),
		o.Notes, handleToColumn(o.NotificationHandle), o.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert obligation: %w", err)
	}

	return nil
}

func (s *SQLiteStore) GetObligation(id string) (models.Obligation, error) {
	row := s.db.QueryRow(`
		SELECT id, title, amount, currency, due_at, frequency,
			notes, notification_handle, created_at
		FROM obligations
		WHERE id = ?
	`, id)

	o, err := scanObligationText(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Obligation{}, ErrNotFound
	}
	if err != nil {
		return models.Obligation{}, fmt.Errorf("failed to get obligation: %w", err)
	}
	return o, nil
}

func (s *SQLiteStore) ListObligations() ([]models.Obligation, error) {
	rows, err := s.db.Query(`
		SELECT id, title, amount, currency, due_at, frequency,
			notes, notification_handle, created_at
		FROM obligations
		ORDER BY due_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query obligations: %w", err)
	}
	defer rows.Close()

	var obligations []models.Obligation
	for rows.Next() {
		o, err := scanObligationText(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan obligation: %w", err)
		}
		obligations = append(obligations, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating obligations: %w", err)
	}

	return obligations, nil
}

func (s *SQLiteStore) DeleteObligation(id string) error {
	result, err := s.db.Exec(`DELETE FROM obligations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete obligation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// scanObligationText decodes one obligation row with RFC3339 text
// timestamps (the SQLite encoding).
func scanObligationText(scan func(...any) error) (models.Obligation, error) {
	var (
		o          models.Obligation
		amountStr  sql.NullString
		handleStr  sql.NullString
		dueStr     string
		freqStr    string
		createdStr string
	)

	if err := scan(
		&o.ID, &o.Title, &amountStr, &o.Currency, &dueStr, &freqStr,
		&o.Notes, &handleStr, &createdStr,
	); err != nil {
		return models.Obligation{}, err
	}

	if err := decodeAmount(amountStr, &o.Amount); err != nil {
		return models.Obligation{}, err
	}

	o.Frequency = models.Frequency(freqStr)
	o.NotificationHandle = handleStr.String

	dueAt, err := time.Parse(time.RFC3339, dueStr)
	if err != nil {
		return models.Obligation{}, fmt.Errorf("failed to parse due_at: %w", err)
	}
	o.DueAt = dueAt.In(time.Local)

	createdAt, err := time.Parse(time.RFC3339, createdStr)
	if err != nil {
		return models.Obligation{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	o.CreatedAt = createdAt.In(time.Local)

	return o, nil
}

func decodeAmount(col sql.NullString, out *decimal.NullDecimal) error {
	if !col.Valid {
		return nil
	}
	d, err := decimal.NewFromString(col.String)
	if err != nil {
		return fmt.Errorf("failed to parse amount: %w", err)
	}
	*out = decimal.NewNullDecimal(d)
	return nil
}

func amountToColumn(amount decimal.NullDecimal) any {
	if !amount.Valid {
		return nil
	}
	return amount.Decimal.String()
}

func handleToColumn(handle string) any {
	if handle == "" {
		return nil
	}
	return handle
}
