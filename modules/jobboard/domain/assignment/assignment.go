package assignment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NoLink is the sentinel role-name meaning "no reporting or assistant link".
const NoLink = "NA"

type ConnectionType string

const (
	ConnectionReportsTo ConnectionType = "reports_to"
	ConnectionAssistant ConnectionType = "assistant"
)

// Connection is an explicit, manually drawn chart edge. Once present it is
// the authoritative rendering for that edge, though ReportsTo and Assistant
// remain the semantic source of truth.
type Connection struct {
	ID             string         `json:"id"`
	Type           ConnectionType `json:"type"`
	TargetRoleName string         `json:"target_role_name"`
	SourceHandle   string         `json:"source_handle,omitempty"`
	TargetHandle   string         `json:"target_handle,omitempty"`
}

// Assignment is a job-board role. Hierarchy links reference other roles by
// name, not by id: renaming a role silently detaches its incoming edges.
type Assignment struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	RoleName    string
	CadetID     *uuid.UUID
	ReportsTo   string
	Assistant   string
	Connections []Connection
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func New(roleName string) *Assignment {
	now := time.Now()
	return &Assignment{
		ID:        uuid.New(),
		RoleName:  roleName,
		ReportsTo: NoLink,
		Assistant: NoLink,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasParent reports whether the role carries an active reports-to link.
func (a *Assignment) HasParent() bool {
	return a.ReportsTo != "" && a.ReportsTo != NoLink
}

// IsAssistant reports whether the role carries an active assistant link.
func (a *Assignment) IsAssistant() bool {
	return a.Assistant != "" && a.Assistant != NoLink
}

type Repository interface {
	GetAll(ctx context.Context) ([]*Assignment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Assignment, error)
	Create(ctx context.Context, data *Assignment) error
	Update(ctx context.Context, data *Assignment) error
	Delete(ctx context.Context, id uuid.UUID) error
}
