// Package types defines core data structures for the kodebase workflow kernel.
package types

import (
	"fmt"
	"time"
)

// State represents a lifecycle state recorded in an artifact's event log.
type State string

// Lifecycle state constants
const (
	StateDraft      State = "draft"
	StateReady      State = "ready"
	StateInProgress State = "in_progress"
	StateInReview   State = "in_review"
	StateCompleted  State = "completed"
	StateBlocked    State = "blocked"
	StateCancelled  State = "cancelled"
	StateArchived   State = "archived"
)

// IsValid checks if the state value is one of the known lifecycle states.
func (s State) IsValid() bool {
	switch s {
	case StateDraft, StateReady, StateInProgress, StateInReview,
		StateCompleted, StateBlocked, StateCancelled, StateArchived:
		return true
	}
	return false
}

// IsTerminal reports whether the state has no outgoing transitions.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateArchived
}

// ArtifactType categorizes an artifact by its position in the hierarchy.
type ArtifactType string

// Artifact type constants
const (
	TypeInitiative ArtifactType = "initiative"
	TypeMilestone  ArtifactType = "milestone"
	TypeIssue      ArtifactType = "issue"
)

// IsValid checks if the artifact type value is valid.
func (t ArtifactType) IsValid() bool {
	switch t {
	case TypeInitiative, TypeMilestone, TypeIssue:
		return true
	}
	return false
}

// Event is one immutable entry in an artifact's append-only log.
// The current status of an artifact is the State of its last event.
type Event struct {
	State     State             `yaml:"event" json:"event"`
	Timestamp time.Time         `yaml:"timestamp" json:"timestamp"`
	Actor     string            `yaml:"actor" json:"actor"`
	Trigger   string            `yaml:"trigger,omitempty" json:"trigger,omitempty"`
	Metadata  map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// Correlation metadata keys carried by cascade-generated events so a chain
// of automated transitions can be traced back to the action that started it.
const (
	MetaCascadeType      = "cascade_type"
	MetaTriggerEvent     = "trigger_event"
	MetaTriggerActor     = "trigger_actor"
	MetaTriggerTimestamp = "trigger_timestamp"
	MetaTriggerArtifact  = "trigger_artifact"
	MetaCascadeRoot      = "cascade_root"
	MetaReason           = "reason"
)

// Trigger markers
const (
	TriggerManual              = "manual"
	TriggerDependencyCompleted = "dependency_completed"
)

// CascadeActor is the fixed system identity stamped on cascade-generated
// events. The "[bot]" marker is what separates automation from humans
// during event deduplication.
const CascadeActor = "kodebase[bot]"

// Cascade type constants for the cascade_type metadata key
const (
	CascadeChildrenCompleted = "children_completed"
	CascadeFirstChildStarted = "first_child_started"
	CascadeArchiveOnParent   = "archive_on_parent_completion"
)

// IsCascadeGenerated reports whether the event was emitted by the cascade
// engine rather than recorded for a direct action.
func (e Event) IsCascadeGenerated() bool {
	return e.Meta(MetaCascadeType) != ""
}

// Meta returns a metadata value, or "" when metadata is absent.
func (e Event) Meta(key string) string {
	if e.Metadata == nil {
		return ""
	}
	return e.Metadata[key]
}

// Validate checks the event's field values.
func (e Event) Validate() error {
	if !e.State.IsValid() {
		return fmt.Errorf("invalid event state: %s", e.State)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("event missing timestamp")
	}
	if e.Actor == "" {
		return fmt.Errorf("event missing actor")
	}
	return nil
}

// Relationships holds the mirrored blocking edges for one artifact.
// For every pair, the blocker lists the blocked artifact in Blocks and
// the blocked artifact lists the blocker in BlockedBy.
type Relationships struct {
	Blocks    []string `yaml:"blocks,omitempty" json:"blocks,omitempty"`
	BlockedBy []string `yaml:"blocked_by,omitempty" json:"blocked_by,omitempty"`
}

// Metadata is the workflow-owned section of an artifact: its blocking
// relationships and its append-only event log.
type Metadata struct {
	Relationships Relationships `yaml:"relationships,omitempty" json:"relationships,omitempty"`
	Events        []Event       `yaml:"events" json:"events"`
}

// Artifact is a tracked unit of work in a strict ID-encoded tree.
// The kernel never stores artifacts; callers pass them in per call.
type Artifact struct {
	ID          string       `yaml:"-" json:"id"`
	Type        ArtifactType `yaml:"-" json:"type"`
	Title       string       `yaml:"title" json:"title"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`

	// Type-discriminating content fields. The type tag is assigned once
	// at the loading boundary from whichever of these is populated.
	Vision             string   `yaml:"vision,omitempty" json:"vision,omitempty"`
	Deliverables       []string `yaml:"deliverables,omitempty" json:"deliverables,omitempty"`
	AcceptanceCriteria []string `yaml:"acceptance_criteria,omitempty" json:"acceptance_criteria,omitempty"`

	Metadata Metadata `yaml:"metadata" json:"metadata"`
}

// Events returns the artifact's event log.
func (a *Artifact) Events() []Event {
	return a.Metadata.Events
}

// BlockedBy returns the IDs of artifacts blocking this one.
func (a *Artifact) BlockedBy() []string {
	return a.Metadata.Relationships.BlockedBy
}

// Blocks returns the IDs of artifacts this one blocks.
func (a *Artifact) Blocks() []string {
	return a.Metadata.Relationships.Blocks
}

// Validate checks the artifact's identity fields. Event log invariants are
// the state machine validator's job, not this method's.
func (a *Artifact) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("artifact ID is required")
	}
	if !ValidID(a.ID) {
		return fmt.Errorf("malformed artifact ID: %q", a.ID)
	}
	if !a.Type.IsValid() {
		return fmt.Errorf("invalid artifact type: %s", a.Type)
	}
	if a.Title == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// CascadeResult is the advisory outcome of a cascade decision. It is never
// persisted; the caller decides whether to act on it.
type CascadeResult struct {
	ShouldCascade bool   `json:"should_cascade"`
	NewState      State  `json:"new_state,omitempty"`
	Reason        string `json:"reason"`
}
