package worker

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// AsynqEnqueuer queues publish tasks on the shared asynq client. It backs the
// automatic publish trigger that fires when a job fully validates.
type AsynqEnqueuer struct {
	client *asynq.Client
}

func NewAsynqEnqueuer(client *asynq.Client) *AsynqEnqueuer {
	return &AsynqEnqueuer{client: client}
}

func (e *AsynqEnqueuer) EnqueuePublish(jobID int, jobCode string) error {
	payload, err := json.Marshal(PublishTaskPayload{JobID: jobID, JobCode: jobCode})
	if err != nil {
		return fmt.Errorf("failed to marshal publish payload: %w", err)
	}
	if _, err := e.client.Enqueue(asynq.NewTask(TaskImportPublish, payload)); err != nil {
		return fmt.Errorf("failed to enqueue publish task: %w", err)
	}
	return nil
}
