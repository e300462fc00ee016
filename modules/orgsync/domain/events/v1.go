package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TopicGroupSyncExecutedV1 = "orgsync.executed.v1"
	EventVersionV1           = 1
)

// PackageResultV1 is the per-package outcome carried on the executed event.
type PackageResultV1 struct {
	Package  string   `json:"package"`
	Created  int      `json:"created"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings,omitempty"`
}

// GroupSyncExecutedV1 is published after a target organization was synced.
type GroupSyncExecutedV1 struct {
	EventID      uuid.UUID         `json:"event_id"`
	EventVersion int               `json:"event_version"`
	SourceOrgID  uuid.UUID         `json:"source_org_id"`
	TargetOrgID  uuid.UUID         `json:"target_org_id"`
	Strategy     string            `json:"strategy"`
	ExecutedAt   time.Time         `json:"executed_at"`
	Results      []PackageResultV1 `json:"results"`
}
