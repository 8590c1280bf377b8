// Package worker runs background export tasks: checklist PDFs written to
// the exports directory and XLSX booking registers.
package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"custodia/internal/domain"
	"custodia/internal/events"
	"custodia/internal/models"
)

const (
	TaskChecklistPDF    = "checklist_pdf"
	TaskBookingRegister = "booking_register"
)

var ErrQueueFull = errors.New("export queue is full")

// ExportTask is one unit of background work.
type ExportTask struct {
	Type           string
	Query          domain.ChecklistQuery
	OrganizationID string
	Start          time.Time
	End            time.Time
}

// ExportWorker drains a task queue on a single goroutine, retrying
// transient failures with exponential backoff.
type ExportWorker struct {
	generator  domain.ChecklistGenerator
	store      domain.Store
	eventBus   domain.EventPublisher
	exportPath string
	policy     RetryPolicy
	tasks      chan ExportTask
	logger     *zerolog.Logger
}

func NewExportWorker(generator domain.ChecklistGenerator, store domain.Store, eventBus domain.EventPublisher, exportPath string, logger *zerolog.Logger) *ExportWorker {
	return &ExportWorker{
		generator:  generator,
		store:      store,
		eventBus:   eventBus,
		exportPath: exportPath,
		policy:     DefaultRetryPolicy(),
		tasks:      make(chan ExportTask, models.ExportQueueSize),
		logger:     logger,
	}
}

var _ domain.ExportQueue = (*ExportWorker)(nil)

// EnqueueChecklist schedules a checklist PDF export.
func (w *ExportWorker) EnqueueChecklist(ctx context.Context, query domain.ChecklistQuery) error {
	return w.enqueue(ctx, ExportTask{Type: TaskChecklistPDF, Query: query})
}

// EnqueueRegister schedules an XLSX booking register export.
func (w *ExportWorker) EnqueueRegister(ctx context.Context, organizationID string, start, end time.Time) error {
	return w.enqueue(ctx, ExportTask{
		Type:           TaskBookingRegister,
		OrganizationID: organizationID,
		Start:          start,
		End:            end,
	})
}

func (w *ExportWorker) enqueue(ctx context.Context, task ExportTask) error {
	select {
	case w.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

// Start processes tasks until the context is cancelled.
func (w *ExportWorker) Start(ctx context.Context) {
	w.logger.Info().Str("path", w.exportPath).Msg("export worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("export worker stopped")
			return
		case task := <-w.tasks:
			w.processWithRetry(ctx, task)
		}
	}
}

func (w *ExportWorker) processWithRetry(ctx context.Context, task ExportTask) {
	var err error
	for attempt := 1; ; attempt++ {
		var path string
		path, err = w.process(ctx, task)
		if err == nil {
			w.publish(events.EventExportCompleted, events.ExportEventPayload{TaskType: task.Type, Path: path})
			return
		}

		if attempt > w.policy.MaxRetries || ctx.Err() != nil {
			break
		}

		delay := w.policy.NextDelay(attempt)
		w.logger.Warn().Err(err).Str("task", task.Type).Int("attempt", attempt).Dur("retry_in", delay).Msg("export failed, retrying")
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}

	w.logger.Error().Err(err).Str("task", task.Type).Msg("export failed permanently")
	w.publish(events.EventExportFailed, events.ExportEventPayload{TaskType: task.Type, Error: err.Error()})
}

func (w *ExportWorker) process(ctx context.Context, task ExportTask) (string, error) {
	if err := os.MkdirAll(w.exportPath, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	switch task.Type {
	case TaskChecklistPDF:
		return w.exportChecklist(ctx, task.Query)
	case TaskBookingRegister:
		return w.exportRegister(ctx, task.OrganizationID, task.Start, task.End)
	default:
		return "", fmt.Errorf("unknown export task type %q", task.Type)
	}
}

func (w *ExportWorker) exportChecklist(ctx context.Context, query domain.ChecklistQuery) (string, error) {
	pdfBytes, err := w.generator.GenerateChecklist(ctx, query)
	if err != nil {
		return "", err
	}

	fileName := fmt.Sprintf("checklist_%s_%s.pdf", query.BookingID, time.Now().Format("2006-01-02"))
	filePath := filepath.Join(w.exportPath, fileName)
	if err := os.WriteFile(filePath, pdfBytes, 0o644); err != nil {
		return "", fmt.Errorf("error saving checklist: %w", err)
	}

	w.logger.Info().Str("file_path", filePath).Msg("checklist PDF exported")
	return filePath, nil
}

func (w *ExportWorker) exportRegister(ctx context.Context, organizationID string, start, end time.Time) (string, error) {
	bookings, err := w.store.GetBookingsByDateRange(ctx, organizationID, start, end)
	if err != nil {
		return "", fmt.Errorf("error getting bookings: %w", err)
	}

	fileName := fmt.Sprintf("register_%s_to_%s.xlsx",
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	filePath := filepath.Join(w.exportPath, fileName)

	if err := WriteBookingRegister(filePath, start, end, bookings); err != nil {
		return "", err
	}

	w.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("booking register exported")
	return filePath, nil
}

func (w *ExportWorker) publish(eventType string, payload events.ExportEventPayload) {
	if w.eventBus == nil {
		return
	}
	if err := w.eventBus.PublishJSON(eventType, payload); err != nil {
		w.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}
