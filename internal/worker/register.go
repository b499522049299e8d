package worker

import (
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/Desarrollo-Coa/opera-soluciones-sub000/internal/config"
)

func RegisterHandlers(mux *asynq.ServeMux, db *sqlx.DB, redisClient *redis.Client, cfg *config.Config) {
	persistHandler := NewPersistTaskHandler(db, redisClient, cfg)
	mux.HandleFunc(TaskImportPersist, persistHandler.Handle)
}
