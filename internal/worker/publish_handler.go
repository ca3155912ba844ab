package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"catalog-web/internal/config"
	"catalog-web/internal/importer"
	"catalog-web/internal/repository"
	"catalog-web/internal/service"
	"catalog-web/internal/storage"
)

const TaskImportPublish = "import:publish"

type PublishTaskPayload struct {
	JobID   int    `json:"job_id"`
	JobCode string `json:"job_code"`
}

type PublishTaskHandler struct {
	redis         *redis.Client
	importService *service.ImportService
	log           *logrus.Logger
}

func NewPublishTaskHandler(db *sqlx.DB, redisClient *redis.Client, store storage.ObjectStore, cfg *config.Config, log *logrus.Logger) *PublishTaskHandler {
	importRepo := repository.NewImportRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	workbook := service.NewWorkbookService()
	locator := importer.NewImageLocator(store, log)

	importService := service.NewImportService(importRepo, productRepo, categoryRepo, workbook, locator, cfg, log)

	return &PublishTaskHandler{
		redis:         redisClient,
		importService: importService,
		log:           log,
	}
}

func (h *PublishTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload PublishTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	h.log.WithFields(logrus.Fields{
		"job_id":   payload.JobID,
		"job_code": payload.JobCode,
	}).Info("starting publish")

	if err := h.importService.PublishJob(ctx, payload.JobID, h.redis); err != nil {
		h.log.WithError(err).WithField("job_code", payload.JobCode).Error("publish failed")
		return err
	}

	return nil
}
