package models

import "time"

// ImportSession tracks one uploaded workbook through review and persistence.
type ImportSession struct {
	ID            int       `db:"id" json:"id"`
	SessionCode   string    `db:"session_code" json:"session_code"`
	UserID        int       `db:"user_id" json:"user_id"`
	LedgerType    string    `db:"ledger_type" json:"ledger_type"`
	Filename      string    `db:"filename" json:"filename"`
	FilePath      string    `db:"file_path" json:"file_path"`
	SheetName     string    `db:"sheet_name" json:"sheet_name"`
	TotalRows     int       `db:"total_rows" json:"total_rows"`
	ValidRows     int       `db:"valid_rows" json:"valid_rows"`
	InvalidRows   int       `db:"invalid_rows" json:"invalid_rows"`
	PersistedRows int       `db:"persisted_rows" json:"persisted_rows"`
	Status        string    `db:"status" json:"status"`
	ErrorMessage  string    `db:"error_message" json:"error_message"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Import session statuses.
const (
	SessionStatusReviewing  = "reviewing"
	SessionStatusPersisting = "persisting"
	SessionStatusCompleted  = "completed"
	SessionStatusFailed     = "failed"
)

// SheetInfo is the metadata returned by the sheet-enumeration mode: enough
// for a user to pick which sheet of a workbook to import.
type SheetInfo struct {
	Name     string   `json:"name"`
	RowCount int      `json:"row_count"`
	Headers  []string `json:"headers"`
}

// ConfirmImportRequest selects which reviewed rows to persist, by their
// original index. Invalid rows may be forced in explicitly.
type ConfirmImportRequest struct {
	Indexes      []int `json:"indexes"`
	ForceInvalid bool  `json:"force_invalid"`
}
