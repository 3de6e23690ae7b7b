// Package dispatch routes inbound units of work — queue batches and single
// HTTP requests — through validation and into the aggregation engine, and
// assembles the per-unit result envelopes.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/groblegark/sessionlog/internal/model"
	"github.com/groblegark/sessionlog/internal/session"
)

// QueueRecord is one member of a queue-delivered batch. Body holds a
// JSON-encoded EventRecord.
type QueueRecord struct {
	MessageID   string `json:"messageId"`
	EventSource string `json:"eventSource"`
	Body        string `json:"body"`
}

// QueueBatch is the unit of delivery on the queue ingress.
type QueueBatch struct {
	Records []QueueRecord `json:"Records"`
}

// Outcome is the per-record result inside a batch response. Exactly one of
// the success/flush/failure shapes is populated.
type Outcome struct {
	Success          bool   `json:"success"`
	Message          string `json:"message,omitempty"`
	Action           string `json:"action,omitempty"`
	DeletedDocuments *int   `json:"deletedDocuments,omitempty"`
	Error            string `json:"error,omitempty"`
	RecordID         string `json:"recordId,omitempty"`
}

// BatchResult is the response envelope for a queue batch. Results appear in
// input record order.
type BatchResult struct {
	ProcessedRecords int       `json:"processedRecords"`
	Results          []Outcome `json:"results"`
}

// Failed reports how many outcomes in the batch failed.
func (r BatchResult) Failed() int {
	n := 0
	for _, o := range r.Results {
		if !o.Success {
			n++
		}
	}
	return n
}

// Response is the envelope for a single request unit.
type Response struct {
	StatusCode int `json:"statusCode"`
	Body       any `json:"body"`
}

// SuccessBody is the 200 response body for a request unit.
type SuccessBody struct {
	Message string `json:"message"`
	Result  any    `json:"result"`
}

// ErrorBody is the 4xx/5xx response body for a request unit.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Dispatcher classifies inbound units and runs them through the engine.
type Dispatcher struct {
	engine *session.Engine
	logger *slog.Logger
}

// NewDispatcher returns a Dispatcher backed by the given engine.
func NewDispatcher(e *session.Engine, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{engine: e, logger: logger}
}

// ProcessBatch processes every record of a queue batch independently and
// returns one outcome per record, in input order. A record that fails to
// parse, validate, or persist never prevents its siblings from being
// processed.
func (d *Dispatcher) ProcessBatch(ctx context.Context, batch QueueBatch) BatchResult {
	results := make([]Outcome, 0, len(batch.Records))
	for _, rec := range batch.Records {
		outcome := d.processQueueRecord(ctx, rec)
		if !outcome.Success {
			d.logger.Warn("queue record failed",
				"record_id", rec.MessageID,
				"event_source", rec.EventSource,
				"err", outcome.Error,
			)
		}
		results = append(results, outcome)
	}
	return BatchResult{
		ProcessedRecords: len(batch.Records),
		Results:          results,
	}
}

func (d *Dispatcher) processQueueRecord(ctx context.Context, rec QueueRecord) Outcome {
	fail := func(err error) Outcome {
		return Outcome{Success: false, Error: err.Error(), RecordID: rec.MessageID}
	}

	var record model.EventRecord
	if err := json.Unmarshal([]byte(rec.Body), &record); err != nil {
		return fail(fmt.Errorf("decode record body: %w", err))
	}
	if err := model.ValidateRecord(&record); err != nil {
		return fail(err)
	}

	cmd, err := model.Classify(&record)
	if err != nil {
		return fail(err)
	}

	switch cmd.Kind {
	case model.CommandFlush:
		res, err := d.engine.Flush(ctx, cmd.SessionID)
		if err != nil {
			return fail(err)
		}
		deleted := res.DeletedDocuments
		return Outcome{
			Success:          true,
			Action:           res.Action,
			DeletedDocuments: &deleted,
		}
	default:
		if _, err := d.engine.Upsert(ctx, cmd.SessionID, cmd.Event); err != nil {
			return fail(err)
		}
		return Outcome{
			Success: true,
			Message: fmt.Sprintf("event recorded for session %s", cmd.SessionID),
		}
	}
}

// ProcessRequest processes a single request-sourced unit and returns an
// HTTP-style response envelope. OPTIONS short-circuits before validation;
// any method other than POST or OPTIONS is an unsupported unit.
func (d *Dispatcher) ProcessRequest(ctx context.Context, method string, body []byte) Response {
	switch method {
	case http.MethodOptions:
		// Preflight: no validation, no engine involvement.
		return Response{
			StatusCode: http.StatusOK,
			Body:       map[string]string{"message": "OK"},
		}
	case http.MethodPost:
		return d.processPost(ctx, body)
	default:
		return Response{
			StatusCode: http.StatusBadRequest,
			Body:       ErrorBody{Error: "Unsupported event type"},
		}
	}
}

func (d *Dispatcher) processPost(ctx context.Context, body []byte) Response {
	badRequest := func(msg string) Response {
		return Response{
			StatusCode: http.StatusBadRequest,
			Body:       ErrorBody{Error: "Bad Request", Message: msg},
		}
	}

	var record model.EventRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return badRequest("invalid JSON body")
	}
	if err := model.ValidateRecord(&record); err != nil {
		return badRequest(err.Error())
	}

	cmd, err := model.Classify(&record)
	if err != nil {
		// An unparsable timestamp is a local record failure, same class
		// as a missing field.
		return badRequest(err.Error())
	}

	switch cmd.Kind {
	case model.CommandFlush:
		res, err := d.engine.Flush(ctx, cmd.SessionID)
		if err != nil {
			return d.internalError(cmd.SessionID, err)
		}
		return Response{
			StatusCode: http.StatusOK,
			Body: SuccessBody{
				Message: fmt.Sprintf("session %s flushed", cmd.SessionID),
				Result:  res,
			},
		}
	default:
		res, err := d.engine.Upsert(ctx, cmd.SessionID, cmd.Event)
		if err != nil {
			return d.internalError(cmd.SessionID, err)
		}
		return Response{
			StatusCode: http.StatusOK,
			Body: SuccessBody{
				Message: fmt.Sprintf("event recorded for session %s", cmd.SessionID),
				Result:  res,
			},
		}
	}
}

func (d *Dispatcher) internalError(sessionID string, err error) Response {
	d.logger.Error("request unit failed", "session_id", sessionID, "err", err)
	return Response{
		StatusCode: http.StatusInternalServerError,
		Body:       ErrorBody{Error: "Internal Server Error", Message: err.Error()},
	}
}
