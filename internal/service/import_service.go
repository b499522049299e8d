package service

import (
	"fmt"

	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/config"
	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/importer"
	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/models"
	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/repository"
)

// ImportService ties the workbook parser, the normalization pipeline and the
// import sink together. The pipeline itself stays pure; everything touching
// files or storage lives here.
type ImportService struct {
	excel      *ExcelService
	importRepo *repository.ImportRepository
	processor  *importer.Processor
	cfg        *config.Config
}

func NewImportService(excel *ExcelService, importRepo *repository.ImportRepository, cfg *config.Config) *ImportService {
	return &ImportService{
		excel:      excel,
		importRepo: importRepo,
		processor:  importer.NewProcessor(),
		cfg:        cfg,
	}
}

// Preview parses the stored workbook and runs the normalization pipeline.
// Re-running on the same file produces a fresh, identical result.
func (s *ImportService) Preview(filePath, sheetName, ledgerType string) (importer.BatchResult, error) {
	grid, err := s.excel.ParseGrid(filePath, sheetName)
	if err != nil {
		return importer.BatchResult{}, err
	}
	return s.processor.Run(grid, ledgerType), nil
}

// TableFor maps a ledger type to the table its records are appended to.
func TableFor(ledgerType string) string {
	switch ledgerType {
	case importer.LedgerPayroll:
		return "nomina"
	case importer.LedgerExpenses:
		return "facturacion"
	case importer.LedgerTransfers:
		return "traslados"
	}
	return ""
}

// SelectRows filters a batch down to the caller's selection by original
// index. A nil selection means every row. Valid rows are always eligible;
// invalid rows only when explicitly forced.
func SelectRows(result importer.BatchResult, indexes []int, forceInvalid bool) []map[string]any {
	var want map[int]bool
	if len(indexes) > 0 {
		want = make(map[int]bool, len(indexes))
		for _, i := range indexes {
			want[i] = true
		}
	}

	var rows []map[string]any
	for _, outcome := range result.Rows {
		if want != nil && !want[outcome.OriginalIndex] {
			continue
		}
		if !outcome.Valid && !forceInvalid {
			continue
		}
		rows = append(rows, outcome.Data)
	}
	return rows
}

// Persist re-runs the pipeline on the session's workbook, applies the row
// selection and appends the chosen records to the ledger's table in batches.
// progress, when non-nil, is called after every appended batch.
func (s *ImportService) Persist(session *models.ImportSession, req models.ConfirmImportRequest, progress func(done, total int)) (int, error) {
	table := TableFor(session.LedgerType)
	if table == "" {
		return 0, fmt.Errorf("no storage table for ledger type %q", session.LedgerType)
	}

	result, err := s.Preview(session.FilePath, session.SheetName, session.LedgerType)
	if err != nil {
		return 0, err
	}

	rows := SelectRows(result, req.Indexes, req.ForceInvalid)
	batchSize := s.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = len(rows)
	}

	persisted := 0
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := s.importRepo.AppendRows(table, rows[start:end]); err != nil {
			return persisted, fmt.Errorf("failed to append rows to %s: %w", table, err)
		}
		persisted = end
		if progress != nil {
			progress(persisted, len(rows))
		}
	}
	return persisted, nil
}
