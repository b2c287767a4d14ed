package loading

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jeferson-peter/forecast-etl/internal/domain"
	"github.com/jeferson-peter/forecast-etl/pkg/activity"
	"github.com/jeferson-peter/forecast-etl/pkg/events"
)

// statementGeneratedEvent records an insert statement being produced.
type statementGeneratedEvent struct {
	City  string `json:"city"`
	Table string `json:"table"`
}

// rowsInsertedEvent records rows written to a sink table.
type rowsInsertedEvent struct {
	Pipeline string `json:"pipeline"`
	Table    string `json:"table"`
	Rows     int64  `json:"rows"`
}

// EventEmitter handles event emission for the loading tasks.
type EventEmitter struct {
	base activity.BaseActivities
}

// NewEventEmitter creates an EventEmitter with the provided base activities.
func NewEventEmitter(base activity.BaseActivities) *EventEmitter {
	return &EventEmitter{base: base}
}

// EmitStatementGenerated emits an event for a generated insert statement.
func (e *EventEmitter) EmitStatementGenerated(ctx context.Context, city string, rc activity.RunContext) {
	e.emit(ctx, "loading.statement_generated",
		domain.IdempotencyKey(rc.WorkflowID, rc.RunID, "statement_generated", city),
		statementGeneratedEvent{City: city, Table: "weather_data"},
		rc, "StatementGenerated["+city+"]")
}

// EmitRowsInserted emits an event for rows written to the sink.
func (e *EventEmitter) EmitRowsInserted(
	ctx context.Context,
	pipeline, table string,
	rows int64,
	rc activity.RunContext,
) {
	e.emit(ctx, "loading.rows_inserted",
		domain.IdempotencyKey(rc.WorkflowID, rc.RunID, "rows_inserted", table),
		rowsInsertedEvent{Pipeline: pipeline, Table: table, Rows: rows},
		rc, "RowsInserted["+table+"]")
}

func (e *EventEmitter) emit(
	ctx context.Context,
	eventType, idemKey string,
	payload any,
	rc activity.RunContext,
	description string,
) {
	body, err := json.Marshal(payload)
	if err != nil {
		activity.SafeLogError(ctx, "Failed to marshal loading event",
			"event_type", eventType,
			"error", err)
		return
	}

	e.base.EmitEventSafe(ctx, events.Envelope{
		ID:             uuid.New().String(),
		Type:           eventType,
		Source:         "loading-activity",
		Version:        "1.0.0",
		Timestamp:      time.Now(),
		IdempotencyKey: idemKey,
		WorkflowID:     rc.WorkflowID,
		RunID:          rc.RunID,
		Payload:        body,
	}, description)
}
