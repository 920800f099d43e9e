package myqueue

import (
	"context"
	"log"
	"os"
)

// inMemoryQueue only logs the task: when running locally there is no task
// infrastructure that could call us back.
type inMemoryQueue struct{}

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = newInMemoryQueue
	}
}

func newInMemoryQueue(c context.Context) (TaskQueuer, func(), error) {
	return &inMemoryQueue{}, func() {}, nil
}

func (q *inMemoryQueue) Enqueue(c context.Context, task Task) error {
	log.Printf("Would have enqueued task %s -> PUT %s", task.UID, task.WebhookURLPath)
	return nil
}
