package worker

import (
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"catalog-web/internal/config"
	"catalog-web/internal/storage"
)

func RegisterHandlers(mux *asynq.ServeMux, db *sqlx.DB, redisClient *redis.Client, store storage.ObjectStore, cfg *config.Config, log *logrus.Logger) {
	publishHandler := NewPublishTaskHandler(db, redisClient, store, cfg, log)
	mux.HandleFunc(TaskImportPublish, publishHandler.Handle)
}
