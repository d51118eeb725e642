// Package store persists extracted survey facts to SQLite or PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/ukaji3/pollfacts-go/pkg/pollfacts/models"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavour and driver.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ErrUnsupportedDialect indicates an unknown database type.
var ErrUnsupportedDialect = errors.New("unsupported database type")

// ParseDialect maps a database type name onto a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pg":
		return DialectPostgres, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedDialect, name)
}

// Tables lists the store's tables in dependency order.
var Tables = []string{
	"surveys",
	"survey_questions",
	"answer_options",
	"demographics",
	"demographic_responses",
	"p1_responses",
	"processed_files",
}

// SQLStore writes survey records through database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects to the database named by dsn. For SQLite, dsn may be a plain
// file path; its directory is created when missing.
func Open(dbType, dsn string) (*SQLStore, error) {
	dialect, err := ParseDialect(dbType)
	if err != nil {
		return nil, err
	}

	if dialect == DialectSQLite {
		dsn, err = sqliteDSN(dsn)
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", dialect, err)
	}
	return New(db, dialect), nil
}

func sqliteDSN(dsn string) (string, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "", fmt.Errorf("sqlite database path must not be empty")
	}
	if strings.HasPrefix(dsn, "file:") || dsn == ":memory:" {
		return dsn, nil
	}
	if dir := filepath.Dir(dsn); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create database directory %q: %w", dir, err)
		}
	}
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=foreign_keys(ON)", dsn), nil
}

// New wraps an open database handle.
func New(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// DB returns the underlying handle.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Dialect returns the store's SQL dialect.
func (s *SQLStore) Dialect() Dialect {
	return s.dialect
}

// Close closes the database.
func (s *SQLStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// CreateSchema creates all tables. Safe to call multiple times.
func (s *SQLStore) CreateSchema(ctx context.Context) error {
	stmts := sqliteSchema
	if s.dialect == DialectPostgres {
		stmts = postgresSchema
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders as $n for PostgreSQL.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) exec(ctx context.Context, query string, args ...any) error {
	_, err := s.db.ExecContext(ctx, s.rebind(query), args...)
	return err
}

// nullable turns a nil pointer into a NULL argument.
func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func (s *SQLStore) insertID(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, s.rebind(query), args...).Scan(&id)
	return id, err
}

// InsertSurvey records a survey. An existing survey id is left unchanged.
func (s *SQLStore) InsertSurvey(ctx context.Context, sv models.Survey) error {
	err := s.exec(ctx,
		`INSERT INTO surveys (survey_id, month, year, filename) VALUES (?, ?, ?, ?)
		 ON CONFLICT (survey_id) DO NOTHING`,
		sv.ID, sv.Month, sv.Year, sv.Filename)
	if err != nil {
		return fmt.Errorf("insert survey %s: %w", sv.ID, err)
	}
	return nil
}

// InsertQuestion stores a stem or variant and returns its id.
func (s *SQLStore) InsertQuestion(ctx context.Context, q models.Question) (int64, error) {
	id, err := s.insertID(ctx,
		`INSERT INTO survey_questions
		 (survey_id, question_number, question_part, question_text, is_demographic, base_description)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING question_id`,
		q.SurveyID, q.Number, q.Part, q.Text, q.IsDemographic, nullable(q.BaseDescription))
	if err != nil {
		return 0, fmt.Errorf("insert question %s part %d: %w", q.Number, q.Part, err)
	}
	return id, nil
}

// InsertAnswerOption returns the id of the option with text under questionID,
// inserting it with order when it does not exist.
func (s *SQLStore) InsertAnswerOption(ctx context.Context, questionID int64, text string, order int) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT option_id FROM answer_options WHERE question_id = ? AND option_text = ?`),
		questionID, text).Scan(&id)
	switch {
	case err == nil:
		return id, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("lookup answer option %q: %w", text, err)
	}

	id, err = s.insertID(ctx,
		`INSERT INTO answer_options (question_id, option_text, option_order)
		 VALUES (?, ?, ?) RETURNING option_id`,
		questionID, text, order)
	if err != nil {
		return 0, fmt.Errorf("insert answer option %q: %w", text, err)
	}
	return id, nil
}

// InsertDemographic upserts a category on its code and returns its id.
// The description of an existing code is replaced.
func (s *SQLStore) InsertDemographic(ctx context.Context, code, description string) (int64, error) {
	id, err := s.insertID(ctx,
		`INSERT INTO demographics (demo_code, demo_description) VALUES (?, ?)
		 ON CONFLICT (demo_code) DO UPDATE SET demo_description = excluded.demo_description
		 RETURNING demo_id`,
		code, description)
	if err != nil {
		return 0, fmt.Errorf("insert demographic %s: %w", code, err)
	}
	return id, nil
}

// InsertFact stores one answer-option fact row.
func (s *SQLStore) InsertFact(ctx context.Context, f models.Fact) error {
	err := s.exec(ctx,
		`INSERT INTO p1_responses (question_id, survey_id, option_id, demo_id, item_label, cnt, pct)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.QuestionID, f.SurveyID, f.OptionID, nullable(f.DemoID), f.ItemLabel,
		nullable(models.Clean(f.Count)), nullable(models.Clean(f.Percent)))
	if err != nil {
		return fmt.Errorf("insert fact: %w", err)
	}
	return nil
}

// InsertDemographicResponse stores one demographic question response row.
func (s *SQLStore) InsertDemographicResponse(ctx context.Context, r models.DemographicResponse) error {
	err := s.exec(ctx,
		`INSERT INTO demographic_responses (question_id, survey_id, demo_id, item_label, count, percent)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.QuestionID, r.SurveyID, r.DemoID, r.ItemLabel,
		nullable(models.Clean(r.Count)), nullable(models.Clean(r.Percent)))
	if err != nil {
		return fmt.Errorf("insert demographic response: %w", err)
	}
	return nil
}

// IsFileProcessed reports whether filename was ingested before.
func (s *SQLStore) IsFileProcessed(ctx context.Context, filename string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT 1 FROM processed_files WHERE filename = ?`), filename).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("check processed file %s: %w", filename, err)
	}
	return true, nil
}

// MarkFileProcessed records filename as ingested by the run runID.
func (s *SQLStore) MarkFileProcessed(ctx context.Context, filename string, runID uuid.UUID) error {
	err := s.exec(ctx,
		`INSERT INTO processed_files (filename, run_id) VALUES (?, ?)
		 ON CONFLICT (filename) DO UPDATE SET run_id = excluded.run_id, processed_at = CURRENT_TIMESTAMP`,
		filename, runID.String())
	if err != nil {
		return fmt.Errorf("mark file processed %s: %w", filename, err)
	}
	return nil
}

// Questions returns the questions of a survey ordered by number and part.
func (s *SQLStore) Questions(ctx context.Context, surveyID string) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT question_id, survey_id, question_number, question_part, question_text, is_demographic, base_description
		 FROM survey_questions WHERE survey_id = ?
		 ORDER BY question_number, question_part`), surveyID)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []models.Question
	for rows.Next() {
		var (
			q    models.Question
			base sql.NullString
		)
		if err := rows.Scan(&q.ID, &q.SurveyID, &q.Number, &q.Part, &q.Text, &q.IsDemographic, &base); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if base.Valid {
			q.BaseDescription = &base.String
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Counts returns the number of rows in each table.
func (s *SQLStore) Counts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(Tables))
	for _, table := range Tables {
		var n int64
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
