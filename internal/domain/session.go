package domain

import (
	"time"
)

// SessionStatus represents the overall status of a publish session
type SessionStatus string

const (
	SessionStatusPending    SessionStatus = "pending"
	SessionStatusRunning    SessionStatus = "running"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusFailed     SessionStatus = "failed"
	SessionStatusRolledBack SessionStatus = "rolled_back"
)

// OperationStatus represents the status of an individual operation
type OperationStatus string

const (
	OperationStatusPending    OperationStatus = "pending"
	OperationStatusRunning    OperationStatus = "running"
	OperationStatusCompleted  OperationStatus = "completed"
	OperationStatusFailed     OperationStatus = "failed"
	OperationStatusRolledBack OperationStatus = "rolled_back"
)

// OperationType identifies the type of operation
type OperationType string

const (
	OperationTypeCheckSync   OperationType = "check_sync"
	OperationTypeCheckRemote OperationType = "check_remote_tag"
	OperationTypeCreateTag   OperationType = "create_tag"
	OperationTypePushTags    OperationType = "push_tags"
)

// PublishSession is the journal entry of one tagging run.
type PublishSession struct {
	SessionID  string            `json:"session_id"`
	StartedAt  time.Time         `json:"started_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	Version    string            `json:"version"`
	TagName    string            `json:"tag_name"`
	Message    string            `json:"message"`
	Branch     string            `json:"branch,omitempty"`
	Remote     string            `json:"remote,omitempty"`
	Publish    bool              `json:"publish"`
	Operations []OperationRecord `json:"operations"`
	Status     SessionStatus     `json:"status"`
	Error      string            `json:"error,omitempty"`
}

// OperationRecord represents a single operation in the run
type OperationRecord struct {
	ID          string          `json:"id"`
	Type        OperationType   `json:"type"`
	Status      OperationStatus `json:"status"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// NewPublishSession creates a new session journal
func NewPublishSession(sessionID string) *PublishSession {
	now := time.Now()
	return &PublishSession{
		SessionID:  sessionID,
		StartedAt:  now,
		UpdatedAt:  now,
		Operations: []OperationRecord{},
		Status:     SessionStatusPending,
	}
}

// AddOperation adds a new operation record to the session
func (s *PublishSession) AddOperation(opType OperationType) *OperationRecord {
	op := OperationRecord{
		ID:        generateOperationID(opType),
		Type:      opType,
		Status:    OperationStatusPending,
		StartedAt: time.Now(),
	}
	s.Operations = append(s.Operations, op)
	s.UpdatedAt = time.Now()
	return &s.Operations[len(s.Operations)-1]
}

// Operation returns the record of the given type, or nil.
func (s *PublishSession) Operation(opType OperationType) *OperationRecord {
	for i := range s.Operations {
		if s.Operations[i].Type == opType {
			return &s.Operations[i]
		}
	}
	return nil
}

// Succeeded reports whether the operation of the given type completed.
func (s *PublishSession) Succeeded(opType OperationType) bool {
	op := s.Operation(opType)
	return op != nil && op.Status == OperationStatusCompleted
}

// NeedsPush reports whether the tag exists locally but never reached the remote.
func (s *PublishSession) NeedsPush() bool {
	return s.Succeeded(OperationTypeCreateTag) && !s.Succeeded(OperationTypePushTags)
}

// MarkOperationStarted marks an operation as started
func (s *PublishSession) MarkOperationStarted(opType OperationType) {
	for i := range s.Operations {
		if s.Operations[i].Type == opType && s.Operations[i].Status == OperationStatusPending {
			s.Operations[i].Status = OperationStatusRunning
			s.Operations[i].StartedAt = time.Now()
			s.UpdatedAt = time.Now()
			break
		}
	}
}

// MarkOperationCompleted marks an operation as completed
func (s *PublishSession) MarkOperationCompleted(opType OperationType) {
	now := time.Now()
	for i := range s.Operations {
		if s.Operations[i].Type == opType && s.Operations[i].Status == OperationStatusRunning {
			s.Operations[i].Status = OperationStatusCompleted
			s.Operations[i].CompletedAt = &now
			s.Operations[i].Error = ""
			s.UpdatedAt = now
			break
		}
	}
}

// MarkOperationFailed marks an operation as failed
func (s *PublishSession) MarkOperationFailed(opType OperationType, err error) {
	now := time.Now()
	for i := range s.Operations {
		if s.Operations[i].Type == opType && s.Operations[i].Status == OperationStatusRunning {
			s.Operations[i].Status = OperationStatusFailed
			s.Operations[i].CompletedAt = &now
			s.Operations[i].Error = err.Error()
			s.UpdatedAt = now
			break
		}
	}
	s.Status = SessionStatusFailed
	s.Error = err.Error()
}

// MarkOperationRolledBack marks a completed operation as undone
func (s *PublishSession) MarkOperationRolledBack(opType OperationType) {
	for i := range s.Operations {
		if s.Operations[i].Type == opType && s.Operations[i].Status == OperationStatusCompleted {
			s.Operations[i].Status = OperationStatusRolledBack
			s.UpdatedAt = time.Now()
			break
		}
	}
}

// ResetOperation puts a failed operation back to pending so it can run again
func (s *PublishSession) ResetOperation(opType OperationType) {
	for i := range s.Operations {
		if s.Operations[i].Type == opType && s.Operations[i].Status != OperationStatusCompleted {
			s.Operations[i].Status = OperationStatusPending
			s.Operations[i].CompletedAt = nil
			s.UpdatedAt = time.Now()
			return
		}
	}
}

// generateOperationID creates a unique ID for an operation
func generateOperationID(opType OperationType) string {
	return string(opType) + "_" + time.Now().Format("20060102150405")
}
