package job

import (
	"context"

	"github.com/pkg/errors"

	"github.com/NEOCHOCAPIC/gastronomia/internal/model"
)

const (
	// TaskApplicationConfirmation sends the acknowledgment email to an applicant.
	TaskApplicationConfirmation = "email:application_confirmation"
)

// HandlerFunc does the work of a task.
type HandlerFunc func(ctx context.Context) error

// Task is a named unit of background work.
type Task struct {
	// Type identifies the task in logs, e.g. "email:application_confirmation".
	Type string

	// Fields are attached to every log line about this task.
	Fields map[string]any

	handler HandlerFunc
}

// NewTask wraps handler as a Task of the given type.
func NewTask(taskType string, handler HandlerFunc) *Task {
	return &Task{Type: taskType, handler: handler}
}

// EmailSender delivers one email. It is satisfied by *email.Client.
type EmailSender interface {
	Send(ctx context.Context, email model.OutboundEmail) (model.DeliveryResult, error)
}

// NewSendEmailTask builds a task that delivers msg through sender.
//
// A provider rejection fails the task the same way a transport error does.
func NewSendEmailTask(taskType string, sender EmailSender, msg model.OutboundEmail) *Task {
	t := NewTask(taskType, func(ctx context.Context) error {
		result, err := sender.Send(ctx, msg)
		if err != nil {
			return err
		}
		if !result.Succeeded {
			return errors.Errorf("email provider rejected message with status %d: %s", result.StatusCode, result.ErrorBody)
		}
		return nil
	})
	t.Fields = map[string]any{"to": msg.To}

	return t
}
