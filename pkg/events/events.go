// Package events defines the notification events emitted when a workflow submission finishes.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type EventType string

var ErrUnknownEventType = errors.New("unknown event type")

// Topic carries every notification event.
const Topic = "leadflow.notifications"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	WorkflowStartedEvent     EventType = "workflow.started"
	WorkflowStartFailedEvent EventType = "workflow.start_failed"
)

// Level tells the presentation shell how to style a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// FailureMessage is the generic text shown for every failed submission.
const FailureMessage = "Failed to start workflow. Please try again."

// StartedMessage is the text shown when a workflow was triggered.
func StartedMessage(workflowName string) string {
	return workflowName + " started successfully!"
}

type BaseEvent struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	PanelID      string    `json:"panel_id,omitempty"`
	WorkflowID   string    `json:"workflow_id"`
	WorkflowName string    `json:"workflow_name"`
	Level        Level     `json:"level"`
	Message      string    `json:"message"`
}

func NewBaseEvent(eventType EventType, panelID, workflowID, workflowName string) BaseEvent {
	return BaseEvent{
		ID:           uuid.New().String(),
		Type:         eventType,
		Timestamp:    time.Now().UTC(),
		PanelID:      panelID,
		WorkflowID:   workflowID,
		WorkflowName: workflowName,
	}
}

// Notification is the common view of every event, used by toast feeds.
func (b BaseEvent) Notification() BaseEvent {
	return b
}

// WorkflowStarted is published after the webhook accepted a submission.
type WorkflowStarted struct {
	BaseEvent

	Endpoint   string `json:"endpoint"`
	StatusCode int    `json:"status_code"`
}

func NewWorkflowStarted(panelID, workflowID, workflowName, endpoint string, statusCode int) *WorkflowStarted {
	base := NewBaseEvent(WorkflowStartedEvent, panelID, workflowID, workflowName)
	base.Level = LevelSuccess
	base.Message = StartedMessage(workflowName)

	return &WorkflowStarted{
		BaseEvent:  base,
		Endpoint:   endpoint,
		StatusCode: statusCode,
	}
}

func (w WorkflowStarted) GetType() EventType {
	return WorkflowStartedEvent
}

// WorkflowStartFailed is published when the webhook call failed for any reason.
type WorkflowStartFailed struct {
	BaseEvent

	Endpoint string `json:"endpoint"`
	Error    string `json:"error"`
}

func NewWorkflowStartFailed(panelID, workflowID, workflowName, endpoint string, cause error) *WorkflowStartFailed {
	base := NewBaseEvent(WorkflowStartFailedEvent, panelID, workflowID, workflowName)
	base.Level = LevelError
	base.Message = FailureMessage

	failed := &WorkflowStartFailed{
		BaseEvent: base,
		Endpoint:  endpoint,
	}

	if cause != nil {
		failed.Error = cause.Error()
	}

	return failed
}

func (w WorkflowStartFailed) GetType() EventType {
	return WorkflowStartFailedEvent
}

// Decode rebuilds a published event from its type and JSON payload.
func Decode(eventType EventType, payload []byte) (any, error) {
	var event any

	switch eventType {
	case WorkflowStartedEvent:
		event = &WorkflowStarted{}
	case WorkflowStartFailedEvent:
		event = &WorkflowStartFailed{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, eventType)
	}

	if err := json.Unmarshal(payload, event); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", eventType, err)
	}

	return event, nil
}
