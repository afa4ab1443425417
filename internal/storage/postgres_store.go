package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	_ "github.com/lib/pq"

	"github.com/julianstephens/remindue/internal/migration"
	"github.com/julianstephens/remindue/internal/models"
	"github.com/julianstephens/remindue/migrations"
)

type PostgresStore struct {
	connStr string
	db      *sql.DB
}

func NewPostgresStore(connStr string) *PostgresStore {
	return &PostgresStore{
		connStr: connStr,
	}
}

func (s *PostgresStore) Init() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *PostgresStore) Load() error {
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	return s.validateSchemaVersion()
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresStore) runMigrations() error {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}

	runner := migration.NewRunner(s.db, subFS)
	_, err = runner.Apply(nil)
	return err
}

func (s *PostgresStore) validateSchemaVersion() error {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}

	return migration.NewRunner(s.db, subFS).ValidateVersion()
}

func (s *PostgresStore) GetConfigPath() string {
	return s.connStr
}

func (s *PostgresStore) UpsertObligation(o models.Obligation) error {
	if err := o.Validate(); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		INSERT INTO obligations (
			id, title, amount, currency, due_at, frequency,
			notes, notification_handle, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			amount = EXCLUDED.amount,
			due_at = EXCLUDED.due_at,
			notes = EXCLUDED.notes,
			notification_handle = EXCLUDED.notification_handle
	`,
		o.ID, o.Title, amountToColumn(o.Amount), o.Currency,
		o.DueAt, string(o.Frequency),
		o.Notes, handleToColumn(o.NotificationHandle), o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert obligation: %w", err)
	}

	return nil
}

func (s *PostgresStore) GetObligation(id string) (models.Obligation, error) {
	row := s.db.QueryRow(`
		SELECT id, title, amount, currency, due_at, frequency,
			notes, notification_handle, created_at
		FROM obligations
		WHERE id = $1
	`, id)

	o, err := scanObligationNative(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Obligation{}, ErrNotFound
	}
	if err != nil {
		return models.Obligation{}, fmt.Errorf("failed to get obligation: %w", err)
	}
	return o, nil
}

func (s *PostgresStore) ListObligations() ([]models.Obligation, error) {
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
		o, err := scanObligationNative(rows.Scan)
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

func (s *PostgresStore) DeleteObligation(id string) error {
	result, err := s.db.Exec(`DELETE FROM obligations WHERE id = $1`, id)
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

// scanObligationNative decodes one obligation row with native timestamp
// columns (the PostgreSQL encoding).
func scanObligationNative(scan func(...any) error) (models.Obligation, error) {
	var (
		o         models.Obligation
		amountStr sql.NullString
		handleStr sql.NullString
		freqStr   string
		dueAt     time.Time
		createdAt time.Time
	)

	if err := scan(
		&o.ID, &o.Title, &amountStr, &o.Currency, &dueAt, &freqStr,
		&o.Notes, &handleStr, &createdAt,
	); err != nil {
		return models.Obligation{}, err
	}

	if err := decodeAmount(amountStr, &o.Amount); err != nil {
		return models.Obligation{}, err
	}

	o.Frequency = models.Frequency(freqStr)
	o.NotificationHandle = handleStr.String
	o.DueAt = dueAt.In(time.Local)
	o.CreatedAt = createdAt.In(time.Local)

	return o, nil
}
