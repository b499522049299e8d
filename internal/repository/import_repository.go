package repository

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/models"
)

type ImportRepository struct {
	db *sqlx.DB
}

func NewImportRepository(db *sqlx.DB) *ImportRepository {
	return &ImportRepository{db: db}
}

// Import sessions

func (r *ImportRepository) CreateSession(session *models.ImportSession) error {
	query := `INSERT INTO import_sessions (session_code, user_id, ledger_type, filename,
	          file_path, sheet_name, total_rows, valid_rows, invalid_rows, status)
	          VALUES (:session_code, :user_id, :ledger_type, :filename, :file_path,
	          :sheet_name, :total_rows, :valid_rows, :invalid_rows, :status)`
	result, err := r.db.NamedExec(query, session)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	session.ID = int(id)
	return nil
}

func (r *ImportRepository) GetSessionByCode(code string) (*models.ImportSession, error) {
	var session models.ImportSession
	query := "SELECT * FROM import_sessions WHERE session_code = ? LIMIT 1"
	err := r.db.Get(&session, query, code)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *ImportRepository) GetSessions(limit, offset int, userID int) ([]models.ImportSession, int, error) {
	var sessions []models.ImportSession
	var total int

	whereClause := ""
	args := []interface{}{}
	if userID > 0 {
		whereClause = "WHERE user_id = ?"
		args = append(args, userID)
	}

	countQuery := "SELECT COUNT(*) FROM import_sessions " + whereClause
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM import_sessions " + whereClause + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	if err := r.db.Select(&sessions, query, args...); err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

func (r *ImportRepository) DeleteSession(code string) error {
	query := "DELETE FROM import_sessions WHERE session_code = ?"
	_, err := r.db.Exec(query, code)
	return err
}

func (r *ImportRepository) UpdateSessionStatus(code, status string) error {
	query := "UPDATE import_sessions SET status = ? WHERE session_code = ?"
	_, err := r.db.Exec(query, status, code)
	return err
}

func (r *ImportRepository) UpdateSession(session *models.ImportSession) error {
	query := `UPDATE import_sessions SET total_rows = :total_rows, valid_rows = :valid_rows,
	          invalid_rows = :invalid_rows, persisted_rows = :persisted_rows,
	          status = :status, error_message = :error_message WHERE id = :id`
	_, err := r.db.NamedExec(query, session)
	return err
}

// Sink

// AppendRows appends record maps to a named table. This is the generic import
// sink: the pipeline upstream knows nothing about tables or SQL, and this
// method knows nothing about ledgers. Columns are the union of keys across
// the batch, ordered alphabetically; missing keys insert NULL.
func (r *ImportRepository) AppendRows(table string, rows []map[string]any) error {
	if len(rows) == 0 {
		return nil
	}

	columnSet := map[string]struct{}{}
	for _, row := range rows {
		for name := range row {
			columnSet[name] = struct{}{}
		}
	}
	columns := make([]string, 0, len(columnSet))
	for name := range columnSet {
		columns = append(columns, name)
	}
	sort.Strings(columns)

	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",") + ")"
	values := make([]string, 0, len(rows))
	args := make([]interface{}, 0, len(rows)*len(columns))
	for _, row := range rows {
		values = append(values, placeholders)
		for _, name := range columns {
			args = append(args, row[name])
		}
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		table, strings.Join(columns, ", "), strings.Join(values, ", "))
	_, err := r.db.Exec(query, args...)
	return err
}
