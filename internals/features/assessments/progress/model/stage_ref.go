package model

import "github.com/google/uuid"

// StageKind tells which of the two stage schemas a StageRef points into.
type StageKind string

const (
	StageKindLegacy  StageKind = "legacy"
	StageKindProcess StageKind = "process"
)

// StageRef is a step of an assessment in either schema:
// LegacyStage (stages + test_stages) or ProcessStageRef (process_stages).
type StageRef interface {
	Kind() StageKind
	ID() uuid.UUID
	Order() int
}

type LegacyStage struct {
	StageID    uuid.UUID `json:"stage_id"`
	TestID     uuid.UUID `json:"test_id"`
	StageOrder int       `json:"order"`
}

func (s LegacyStage) Kind() StageKind { return StageKindLegacy }
func (s LegacyStage) ID() uuid.UUID   { return s.StageID }
func (s LegacyStage) Order() int      { return s.StageOrder }

type ProcessStageRef struct {
	ProcessStageID uuid.UUID `json:"process_stage_id"`
	ProcessID      uuid.UUID `json:"process_id"`
	StageOrder     int       `json:"order"`
}

func (s ProcessStageRef) Kind() StageKind { return StageKindProcess }
func (s ProcessStageRef) ID() uuid.UUID   { return s.ProcessStageID }
func (s ProcessStageRef) Order() int      { return s.StageOrder }
