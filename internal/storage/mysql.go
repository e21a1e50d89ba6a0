package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-sql-driver/mysql"

	"sitecheck/internal/domain"
)

var databaseNamePattern = regexp.MustCompile(`^[A-Za-z0-9_$]{1,64}$`)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS sitecheck_runs (
		run_id CHAR(36) NOT NULL PRIMARY KEY,
		seq BIGINT NOT NULL AUTO_INCREMENT UNIQUE,
		started_at DATETIME NOT NULL,
		base_url VARCHAR(2048) NOT NULL,
		report_path VARCHAR(1024) NOT NULL,
		total INT NOT NULL,
		passed INT NOT NULL,
		failed INT NOT NULL,
		skipped INT NOT NULL,
		duration_seconds DOUBLE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sitecheck_results (
		run_id CHAR(36) NOT NULL,
		position INT NOT NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		source VARCHAR(1024) NOT NULL,
		outcome VARCHAR(8) NOT NULL,
		cause TEXT NOT NULL,
		failed_step TEXT NOT NULL,
		steps_run INT NOT NULL,
		screenshot VARCHAR(1024) NOT NULL,
		duration_ms BIGINT NOT NULL,
		resolved BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (run_id, position),
		CONSTRAINT fk_sitecheck_results_run FOREIGN KEY (run_id) REFERENCES sitecheck_runs (run_id) ON DELETE CASCADE
	)`,
}

// latestRunQuery picks the last inserted run; seq never ties where started_at can
const latestRunQuery = `SELECT run_id, started_at, base_url, report_path, total, passed, failed, skipped, duration_seconds
	FROM sitecheck_runs ORDER BY seq DESC LIMIT 1`

// MySQLStorage appends every run to a MySQL history database
type MySQLStorage struct {
	cfg *mysql.Config
	db  *sql.DB
}

// NewMySQLStorage validates dsn; nothing is opened until Open
func NewMySQLStorage(dsn string) (*MySQLStorage, error) {
	cfg, err := NormalizeDSN(dsn)
	if err != nil {
		return nil, err
	}
	return &MySQLStorage{cfg: cfg}, nil
}

// NormalizeDSN parses dsn and sets the options the history tables rely on
func NormalizeDSN(dsn string) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}
	if cfg.DBName == "" {
		return nil, errors.New("invalid mysql dsn: database name is required")
	}
	if !isValidDatabaseName(cfg.DBName) {
		return nil, fmt.Errorf("invalid database name: %s", cfg.DBName)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg, nil
}

// Open creates the database and tables when missing and connects to them
func (s *MySQLStorage) Open(ctx context.Context) error {
	// Connect to MySQL server (without specifying database)
	server := s.cfg.Clone()
	server.DBName = ""
	admin, err := sql.Open("mysql", server.FormatDSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer admin.Close()

	if err := admin.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database server: %w", err)
	}

	exists, err := databaseExists(ctx, admin, s.cfg.DBName)
	if err != nil {
		return fmt.Errorf("failed to check database %s: %w", s.cfg.DBName, err)
	}
	if !exists {
		if _, err := admin.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", s.cfg.DBName)); err != nil {
			return fmt.Errorf("failed to create database %s: %w", s.cfg.DBName, err)
		}
	}

	db, err := sql.Open("mysql", s.cfg.FormatDSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database %s: %w", s.cfg.DBName, err)
	}
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return fmt.Errorf("failed to create history tables: %w", err)
		}
	}
	s.db = db
	return nil
}

// Close closes the connection pool
func (s *MySQLStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save inserts the run and its results in one transaction
func (s *MySQLStorage) Save(output *domain.RunOutput) error {
	if s.db == nil {
		return errors.New("mysql storage is not open")
	}
	started, err := time.Parse(time.RFC3339, output.Meta.Timestamp)
	if err != nil {
		return fmt.Errorf("invalid run timestamp %q: %w", output.Meta.Timestamp, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	m := output.Meta
	_, err = tx.Exec(`INSERT INTO sitecheck_runs
		(run_id, started_at, base_url, report_path, total, passed, failed, skipped, duration_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.RunID, started.UTC(), m.BaseURL, m.ReportPath, m.Total, m.Passed, m.Failed, m.Skipped, m.DurationSeconds)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", m.RunID, err)
	}

	for i, r := range output.Results {
		_, err = tx.Exec(`INSERT INTO sitecheck_results
			(run_id, position, name, description, source, outcome, cause, failed_step, steps_run, screenshot, duration_ms, resolved)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.RunID, i, r.Name, r.Description, r.Source, string(r.Outcome), r.Cause, r.FailedStep, r.StepsRun, r.Screenshot, r.DurationMS, r.Resolved)
		if err != nil {
			return fmt.Errorf("insert result %s: %w", r.Name, err)
		}
	}
	return tx.Commit()
}

// Load returns the most recent run
func (s *MySQLStorage) Load() (*domain.RunOutput, error) {
	if s.db == nil {
		return nil, errors.New("mysql storage is not open")
	}

	var out domain.RunOutput
	var started time.Time
	m := &out.Meta
	err := s.db.QueryRow(latestRunQuery).
		Scan(&m.RunID, &started, &m.BaseURL, &m.ReportPath, &m.Total, &m.Passed, &m.Failed, &m.Skipped, &m.DurationSeconds)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.New("no runs recorded")
	}
	if err != nil {
		return nil, fmt.Errorf("load last run: %w", err)
	}
	m.Timestamp = started.Format(time.RFC3339)
	m.Duration = time.Duration(m.DurationSeconds * float64(time.Second)).String()

	rows, err := s.db.Query(`SELECT name, description, source, outcome, cause, failed_step, steps_run, screenshot, duration_ms, resolved
		FROM sitecheck_results WHERE run_id = ? ORDER BY position`, m.RunID)
	if err != nil {
		return nil, fmt.Errorf("load results of %s: %w", m.RunID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var r domain.TestResult
		var outcome string
		if err := rows.Scan(&r.Name, &r.Description, &r.Source, &outcome, &r.Cause, &r.FailedStep, &r.StepsRun, &r.Screenshot, &r.DurationMS, &r.Resolved); err != nil {
			return nil, fmt.Errorf("load results of %s: %w", m.RunID, err)
		}
		r.Outcome = domain.Outcome(outcome)
		r.Duration = time.Duration(r.DurationMS) * time.Millisecond
		out.Results = append(out.Results, r)
	}
	return &out, rows.Err()
}

// SaveOutput updates the resolved flags of a recorded run
func (s *MySQLStorage) SaveOutput(output *domain.RunOutput) error {
	if s.db == nil {
		return errors.New("mysql storage is not open")
	}
	for i, r := range output.Results {
		_, err := s.db.Exec(`UPDATE sitecheck_results SET resolved = ? WHERE run_id = ? AND position = ?`,
			r.Resolved, output.Meta.RunID, i)
		if err != nil {
			return fmt.Errorf("update result %s: %w", r.Name, err)
		}
	}
	return nil
}

// databaseExists checks if a database exists
func databaseExists(ctx context.Context, db *sql.DB, dbName string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	err := db.QueryRowContext(ctx, query, dbName).Scan(&exists)
	return exists, err
}

// isValidDatabaseName allows only names safe to interpolate into CREATE DATABASE
func isValidDatabaseName(name string) bool {
	return databaseNamePattern.MatchString(name)
}
