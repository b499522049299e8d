package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/config"
	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/models"
	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/repository"
	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/service"
	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/utils"
)

// TaskImportPersist persists a confirmed row selection to ledger storage.
const TaskImportPersist = "import:persist"

type PersistTaskPayload struct {
	SessionCode  string `json:"session_code"`
	Indexes      []int  `json:"indexes"`
	ForceInvalid bool   `json:"force_invalid"`
}

type PersistTaskHandler struct {
	redis         *redis.Client
	importRepo    *repository.ImportRepository
	importService *service.ImportService
}

func NewPersistTaskHandler(db *sqlx.DB, redisClient *redis.Client, cfg *config.Config) *PersistTaskHandler {
	importRepo := repository.NewImportRepository(db)
	return &PersistTaskHandler{
		redis:         redisClient,
		importRepo:    importRepo,
		importService: service.NewImportService(service.NewExcelService(), importRepo, cfg),
	}
}

// publishProgress stores the session's persistence percentage in Redis for
// the review UI to poll. A failed write only degrades progress reporting, so
// it is logged instead of failing the task.
func (h *PersistTaskHandler) publishProgress(ctx context.Context, sessionCode string, done, total int) {
	progressKey := fmt.Sprintf("import:progress:%s", sessionCode)
	progress := 100.0
	if total > 0 {
		progress = float64(done) / float64(total) * 100
	}
	if err := h.redis.Set(ctx, progressKey, fmt.Sprintf("%.2f", progress), 0).Err(); err != nil {
		utils.GetLogger().WithError(err).WithField("session", sessionCode).
			Warn("failed to publish import progress")
	}
}

func (h *PersistTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	log := utils.GetLogger()

	var payload PersistTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	log.WithField("session", payload.SessionCode).Info("starting import persistence")

	session, err := h.importRepo.GetSessionByCode(payload.SessionCode)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	if session.Status == models.SessionStatusCompleted || session.Status == models.SessionStatusFailed {
		log.WithField("session", payload.SessionCode).WithField("status", session.Status).
			Info("session already finished, skipping")
		return nil
	}

	req := models.ConfirmImportRequest{
		Indexes:      payload.Indexes,
		ForceInvalid: payload.ForceInvalid,
	}

	persisted, err := h.importService.Persist(session, req, func(done, total int) {
		h.publishProgress(ctx, session.SessionCode, done, total)
	})
	if err != nil {
		session.Status = models.SessionStatusFailed
		session.ErrorMessage = err.Error()
		session.PersistedRows = persisted
		if updateErr := h.importRepo.UpdateSession(session); updateErr != nil {
			log.WithError(updateErr).Warn("failed to mark session as failed")
		}
		return fmt.Errorf("failed to persist session %s: %w", payload.SessionCode, err)
	}

	session.Status = models.SessionStatusCompleted
	session.PersistedRows = persisted
	if err := h.importRepo.UpdateSession(session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	log.WithField("session", payload.SessionCode).WithField("rows", persisted).
		Info("import persistence completed")
	return nil
}
