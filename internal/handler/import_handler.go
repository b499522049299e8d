package handler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/config"
	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/importer"
	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/models"
	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/repository"
	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/service"
	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/utils"
	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/worker"
)

type ImportHandler struct {
	importRepo    *repository.ImportRepository
	excelService  *service.ExcelService
	importService *service.ImportService
	asynqClient   *asynq.Client
	cfg           *config.Config
}

func NewImportHandler(
	importRepo *repository.ImportRepository,
	excelService *service.ExcelService,
	importService *service.ImportService,
	asynqClient *asynq.Client,
	cfg *config.Config,
) *ImportHandler {
	return &ImportHandler{
		importRepo:    importRepo,
		excelService:  excelService,
		importService: importService,
		asynqClient:   asynqClient,
		cfg:           cfg,
	}
}

// saveUpload validates and stores the uploaded workbook, returning its path.
func (h *ImportHandler) saveUpload(c *fiber.Ctx, code string) (string, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return "", fmt.Errorf("file is required")
	}

	ext := filepath.Ext(file.Filename)
	if ext != ".xlsx" && ext != ".xls" {
		return "", fmt.Errorf("only Excel files (.xlsx, .xls) are allowed")
	}
	if file.Size > int64(h.cfg.UploadMaxSize) {
		return "", fmt.Errorf("file size exceeds maximum limit")
	}

	filePath := filepath.Join(h.cfg.UploadPath, fmt.Sprintf("%s%s", code, ext))
	if err := c.SaveFile(file, filePath); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return filePath, nil
}

// Sheets lists a workbook's sheets with row counts and header labels, so a
// user can pick which one to import.
func (h *ImportHandler) Sheets(c *fiber.Ctx) error {
	code := fmt.Sprintf("SHEETS-%s", uuid.New().String()[:8])
	filePath, err := h.saveUpload(c, code)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	sheets, err := h.excelService.ListSheets(filePath)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read workbook", err)
	}

	return utils.SuccessResponse(c, "Sheets listed successfully", fiber.Map{
		"sheets": sheets,
	})
}

// Upload receives a workbook plus a ledger type, runs the normalization
// pipeline and returns the full review result. Nothing is persisted yet.
func (h *ImportHandler) Upload(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)

	ledgerType := c.FormValue("ledger_type")
	if service.TableFor(ledgerType) == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown ledger type", nil)
	}
	sheetName := c.FormValue("sheet")

	sessionCode := fmt.Sprintf("IMP-%s", uuid.New().String()[:8])
	filePath, err := h.saveUpload(c, sessionCode)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}
	file, _ := c.FormFile("file")

	result, err := h.importService.Preview(filePath, sheetName, ledgerType)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to parse workbook", err)
	}

	session := &models.ImportSession{
		SessionCode: sessionCode,
		UserID:      userID,
		LedgerType:  ledgerType,
		Filename:    file.Filename,
		FilePath:    filePath,
		SheetName:   sheetName,
		TotalRows:   result.TotalRows,
		ValidRows:   result.ValidCount,
		InvalidRows: result.InvalidCount,
		Status:      models.SessionStatusReviewing,
	}
	if err := h.importRepo.CreateSession(session); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create import session", err)
	}

	return utils.SuccessResponse(c, "File uploaded successfully", fiber.Map{
		"session": session,
		"result":  result,
	})
}

func (h *ImportHandler) GetSessions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)
	role := c.Locals("role").(string)

	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	filterUserID := 0
	if role != "admin" {
		filterUserID = userID
	}

	sessions, total, err := h.importRepo.GetSessions(params.Limit, offset, filterUserID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve sessions", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Sessions retrieved successfully", fiber.Map{
		"sessions": sessions,
	}, pagination)
}

// GetSession returns a session together with a fresh run of the pipeline, so
// the review table always reflects the stored workbook.
func (h *ImportHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.importRepo.GetSessionByCode(c.Params("code"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Session not found", err)
	}

	result, err := h.importService.Preview(session.FilePath, session.SheetName, session.LedgerType)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to process workbook", err)
	}

	return utils.SuccessResponse(c, "Session retrieved successfully", fiber.Map{
		"session": session,
		"result":  result,
	})
}

// Confirm queues persistence of the caller-selected rows. Invalid rows are
// only included when force_invalid is set.
func (h *ImportHandler) Confirm(c *fiber.Ctx) error {
	session, err := h.importRepo.GetSessionByCode(c.Params("code"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Session not found", err)
	}

	if session.Status == models.SessionStatusPersisting {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Session is already being persisted", nil)
	}
	if session.Status == models.SessionStatusCompleted {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Session is already completed", nil)
	}

	var req models.ConfirmImportRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if h.asynqClient == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Background job processing is not available (Redis not connected)", nil)
	}

	if err := h.importRepo.UpdateSessionStatus(session.SessionCode, models.SessionStatusPersisting); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update session status", err)
	}

	payload, _ := json.Marshal(worker.PersistTaskPayload{
		SessionCode:  session.SessionCode,
		Indexes:      req.Indexes,
		ForceInvalid: req.ForceInvalid,
	})
	task := asynq.NewTask(worker.TaskImportPersist, payload)
	info, err := h.asynqClient.Enqueue(task)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to queue persist task", err)
	}

	return utils.SuccessResponse(c, "Persistence started", fiber.Map{
		"job_id":  info.ID,
		"session": session,
	})
}

// Delete removes an import session and its stored workbook. Rows already
// persisted to the ledger tables are kept.
func (h *ImportHandler) Delete(c *fiber.Ctx) error {
	session, err := h.importRepo.GetSessionByCode(c.Params("code"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Session not found", err)
	}

	if session.FilePath != "" {
		if err := os.Remove(session.FilePath); err != nil && !os.IsNotExist(err) {
			utils.GetLogger().WithError(err).Warn("failed to remove uploaded workbook")
		}
	}

	if err := h.importRepo.DeleteSession(session.SessionCode); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete session", err)
	}

	return utils.SuccessResponse(c, "Session deleted successfully", nil)
}

// Template streams an empty workbook with the expected column order for a
// ledger type.
func (h *ImportHandler) Template(c *fiber.Ctx) error {
	ledgerType := c.Params("ledger_type")
	if len(importer.SchemaFor(ledgerType)) == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown ledger type", nil)
	}

	fileName := fmt.Sprintf("plantilla_%s.xlsx", ledgerType)
	outputPath := filepath.Join(h.cfg.UploadPath, fileName)
	if err := h.excelService.GenerateTemplate(ledgerType, outputPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate template", err)
	}

	return c.Download(outputPath, fileName)
}

// ErrorReport streams the rejected rows of a session as a workbook.
func (h *ImportHandler) ErrorReport(c *fiber.Ctx) error {
	session, err := h.importRepo.GetSessionByCode(c.Params("code"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Session not found", err)
	}

	result, err := h.importService.Preview(session.FilePath, session.SheetName, session.LedgerType)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to process workbook", err)
	}

	fileName := fmt.Sprintf("rechazadas_%s_%s.xlsx", session.SessionCode, time.Now().Format("20060102_150405"))
	outputPath := filepath.Join(h.cfg.UploadPath, fileName)
	if err := h.excelService.ExportErrorReport(result, outputPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export error report", err)
	}

	return c.Download(outputPath, fileName)
}
