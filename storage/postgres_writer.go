package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"faq-auditor/models"
)

// PostgresWriter persists audit report rows to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS audit_rows (
			id               SERIAL PRIMARY KEY,
			hotel            TEXT        NOT NULL,
			faq_url          TEXT        NOT NULL DEFAULT '',
			status           TEXT        NOT NULL DEFAULT '',
			kind             VARCHAR(16) NOT NULL DEFAULT '',
			item_index       VARCHAR(16) NOT NULL DEFAULT '',
			question         TEXT        NOT NULL DEFAULT '',
			answer           TEXT        NOT NULL DEFAULT '',
			reason           TEXT        NOT NULL DEFAULT '',
			meta_title       TEXT        NOT NULL DEFAULT '',
			meta_description TEXT        NOT NULL DEFAULT '',
			schema_summary   TEXT        NOT NULL DEFAULT '',
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_audit_rows_hotel ON audit_rows(hotel);
		CREATE INDEX IF NOT EXISTS idx_audit_rows_kind  ON audit_rows(kind);
	`)
	return err
}

// Clear deletes all existing rows from the table.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM audit_rows")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// WriteReport batch-inserts all report rows, clearing old data first.
func (pw *PostgresWriter) WriteReport(rows []models.AuditRow) error {
	if len(rows) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := pw.insertBatch(rows[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []models.AuditRow) error {
	const cols = 11
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, r := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for c := 0; c < cols; c++ {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			r.Hotel, r.FaqURL, r.Status, r.Kind, r.Index, r.Question, r.Answer,
			r.Reason, r.MetaTitle, r.MetaDescription, r.SchemaSummary)
	}

	query := fmt.Sprintf(`
		INSERT INTO audit_rows (hotel, faq_url, status, kind, item_index, question,
			answer, reason, meta_title, meta_description, schema_summary)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored report rows — used by the insight service.
func (pw *PostgresWriter) FetchAll() ([]models.AuditRow, error) {
	rows, err := pw.db.Query(`
		SELECT hotel, faq_url, status, kind, item_index, question, answer,
		       reason, meta_title, meta_description, schema_summary
		FROM audit_rows
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var out []models.AuditRow
	for rows.Next() {
		var r models.AuditRow
		if err := rows.Scan(
			&r.Hotel, &r.FaqURL, &r.Status, &r.Kind, &r.Index, &r.Question,
			&r.Answer, &r.Reason, &r.MetaTitle, &r.MetaDescription, &r.SchemaSummary,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
