package myqueue

import "context"

type Task struct {
	UID            string
	WebhookURLPath string
	Payload        []byte
}

//go:generate mockgen -source=api.go -package myqueue -destination queue_mock.go TaskQueuer
type TaskQueuer interface {
	Enqueue(c context.Context, task Task) error
}

var New func(c context.Context) (TaskQueuer, func(), error)
