package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"catalog-web/internal/config"
	"catalog-web/internal/importer"
	"catalog-web/internal/models"
	"catalog-web/internal/repository"
	"catalog-web/internal/service"
	"catalog-web/internal/utils"
	"catalog-web/internal/worker"
)

type ImportHandler struct {
	importRepo    *repository.ImportRepository
	categoryRepo  *repository.CategoryRepository
	importService *service.ImportService
	workbook      *service.WorkbookService
	asynqClient   *asynq.Client
	redis         *redis.Client
	cfg           *config.Config
}

func NewImportHandler(
	importRepo *repository.ImportRepository,
	categoryRepo *repository.CategoryRepository,
	importService *service.ImportService,
	workbook *service.WorkbookService,
	asynqClient *asynq.Client,
	redisClient *redis.Client,
	cfg *config.Config,
) *ImportHandler {
	return &ImportHandler{
		importRepo:    importRepo,
		categoryRepo:  categoryRepo,
		importService: importService,
		workbook:      workbook,
		asynqClient:   asynqClient,
		redis:         redisClient,
		cfg:           cfg,
	}
}

// Upload receives a workbook and runs the draft pipeline on it. If the same
// file content was imported before, the upload is rejected with the previous
// job unless force=true is passed.
func (h *ImportHandler) Upload(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)

	file, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File is required", err)
	}

	ext := filepath.Ext(file.Filename)
	if ext != ".xlsx" && ext != ".xlsm" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only Excel files (.xlsx, .xlsm) are allowed", nil)
	}

	if file.Size > int64(h.cfg.UploadMaxSize) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File size exceeds maximum limit", nil)
	}

	jobCode := fmt.Sprintf("IMP-%s", uuid.New().String()[:8])

	filePath := filepath.Join(h.cfg.UploadPath, fmt.Sprintf("%s%s", jobCode, ext))
	if err := c.SaveFile(file, filePath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save file", err)
	}

	contentHash, err := hashFile(filePath)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to read file", err)
	}

	if c.Query("force") != "true" {
		previous, err := h.importService.FindPreviousUpload(contentHash)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to check previous uploads", err)
		}
		if previous != nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success":      false,
				"message":      "This file was already imported. Pass force=true to import it again.",
				"previous_job": previous,
			})
		}
	}

	job, drafts, err := h.importService.StartImport(c.Context(), userID, jobCode, file.Filename, filePath, contentHash)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to process Excel file", err)
	}

	return utils.SuccessResponse(c, "File uploaded successfully", fiber.Map{
		"job":        job,
		"total_rows": len(drafts),
		"preview":    draftPreview(drafts, 10),
	})
}

func (h *ImportHandler) GetJobs(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)
	role := c.Locals("role").(string)

	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	// Admin sees every job, other users only their own
	filterUserID := userID
	if role == "admin" {
		filterUserID = 0
	}

	jobs, total, err := h.importRepo.GetJobs(filterUserID, params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve jobs", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))

	return utils.PaginatedResponseBuilder(c, "Jobs retrieved successfully", fiber.Map{
		"jobs":       jobs,
		"pagination": pagination,
	}, pagination)
}

func (h *ImportHandler) GetJobDetail(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid job ID", err)
	}

	job, err := h.importRepo.GetJobByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Job not found", err)
	}

	return utils.SuccessResponse(c, "Job retrieved successfully", job)
}

func (h *ImportHandler) GetItems(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid job ID", err)
	}

	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)
	status := c.Query("status", "")

	items, total, err := h.importRepo.GetItemsByJobPaginated(id, params.Limit, offset, status)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve items", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))

	return utils.PaginatedResponseBuilder(c, "Items retrieved successfully", fiber.Map{
		"items":      items,
		"pagination": pagination,
	}, pagination)
}

func (h *ImportHandler) AssignCategory(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid job ID", err)
	}

	var req struct {
		CategoryID string `json:"category_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.CategoryID == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "category_id is required", nil)
	}

	drafts, err := h.importService.AssignCategory(id, req.CategoryID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to assign category", err)
	}

	return utils.SuccessResponse(c, "Category assigned", fiber.Map{
		"items": drafts,
	})
}

func (h *ImportHandler) ValidateAll(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid job ID", err)
	}

	drafts, allValid, err := h.importService.ValidateJob(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to validate job", err)
	}

	return utils.SuccessResponse(c, "Validation completed", fiber.Map{
		"items":     drafts,
		"all_valid": allValid,
	})
}

func (h *ImportHandler) CheckDuplicates(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid job ID", err)
	}

	matches, err := h.importService.DetectDuplicates(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to check duplicates", err)
	}

	return utils.SuccessResponse(c, "Duplicate check completed", fiber.Map{
		"matches": matches,
	})
}

func (h *ImportHandler) ResolveDuplicate(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid job ID", err)
	}

	var req struct {
		RowIndex int    `json:"row_index"`
		Action   string `json:"action"`
		NewName  string `json:"new_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	resolution, err := parseResolution(req.Action, req.NewName)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	draft, err := h.importService.ResolveDuplicate(id, req.RowIndex, resolution)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to resolve duplicate", err)
	}

	return utils.SuccessResponse(c, "Duplicate resolved", draft)
}

func (h *ImportHandler) Publish(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid job ID", err)
	}

	job, err := h.importRepo.GetJobByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Job not found", err)
	}

	if job.Status == service.JobStatusPublishing {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Job is already being published", nil)
	}
	if job.Status == service.JobStatusCompleted {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Job is already completed", nil)
	}

	if h.asynqClient == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Background job processing is not available (Redis not connected)", nil)
	}

	if err := h.importRepo.UpdateJobStatus(id, service.JobStatusPublishing, ""); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update job status", err)
	}

	payload, _ := json.Marshal(worker.PublishTaskPayload{
		JobID:   job.ID,
		JobCode: job.JobCode,
	})

	task := asynq.NewTask(worker.TaskImportPublish, payload)
	info, err := h.asynqClient.Enqueue(task)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to queue publish task", err)
	}

	return utils.SuccessResponse(c, "Publishing started", fiber.Map{
		"task_id": info.ID,
		"job":     job,
	})
}

func (h *ImportHandler) GetProgress(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid job ID", err)
	}

	job, err := h.importRepo.GetJobByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Job not found", err)
	}

	progress := "0.00"
	if h.redis != nil {
		progressKey := fmt.Sprintf("import:progress:%d", id)
		if value, err := h.redis.Get(c.Context(), progressKey).Result(); err == nil {
			progress = value
		}
	}
	if job.Status == service.JobStatusCompleted {
		progress = "100.00"
	}

	return utils.SuccessResponse(c, "Progress retrieved", fiber.Map{
		"status":   job.Status,
		"progress": progress,
	})
}

func (h *ImportHandler) DownloadTemplate(c *fiber.Ctx) error {
	categories, err := h.categoryRepo.FindAllActive()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load categories", err)
	}

	templateFileName := fmt.Sprintf("catalog_import_template_%s.xlsx", time.Now().Format("20060102"))
	templatePath := filepath.Join(h.cfg.UploadPath, templateFileName)

	if err := h.workbook.GenerateImportTemplate(templatePath, categories); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate template", err)
	}

	return c.Download(templatePath, "catalog_import_template.xlsx")
}

func (h *ImportHandler) DeleteJob(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid job ID", err)
	}

	job, err := h.importRepo.GetJobByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Job not found", err)
	}

	if job.Status == service.JobStatusPublishing {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Cannot delete a job while it is being published", nil)
	}

	if err := h.importRepo.DeleteJob(id); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete job", err)
	}

	return utils.SuccessResponse(c, "Job deleted", nil)
}

func parseResolution(action, newName string) (importer.Resolution, error) {
	switch action {
	case "skip":
		return importer.ResolveSkip{}, nil
	case "publish":
		return importer.ResolvePublish{}, nil
	case "update":
		return importer.ResolveUpdate{}, nil
	case "rename":
		return importer.ResolveRename{NewName: newName}, nil
	}
	return nil, fmt.Errorf("unknown action %q, expected skip, publish, update or rename", action)
}

func hashFile(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func draftPreview(drafts []models.DraftRecord, limit int) []models.DraftRecord {
	if len(drafts) > limit {
		return drafts[:limit]
	}
	return drafts
}
