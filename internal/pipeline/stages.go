// Package pipeline implements the acquisition Kanban board for deals.
//
// Valid stage graph:
//
//	LEAD ──► ANALYZING ──► OFFER_MADE ──► UNDER_CONTRACT ──► CLOSED
//	  │          │              │                │
//	  └──────────┴──────────────┴────────────────┴──► DEAD
//
// CLOSED and DEAD are terminal stages.
package pipeline

import "fmt"

// Stage values mirror the deal_stage enum in PostgreSQL.
type Stage string

const (
	StageLead          Stage = "LEAD"
	StageAnalyzing     Stage = "ANALYZING"
	StageOfferMade     Stage = "OFFER_MADE"
	StageUnderContract Stage = "UNDER_CONTRACT"
	StageClosed        Stage = "CLOSED"
	StageDead          Stage = "DEAD"
)

// Stages lists every stage in board column order.
var Stages = []Stage{StageLead, StageAnalyzing, StageOfferMade, StageUnderContract, StageClosed, StageDead}

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Stage][]Stage{
	StageLead:          {StageAnalyzing, StageDead},
	StageAnalyzing:     {StageOfferMade, StageDead},
	StageOfferMade:     {StageUnderContract, StageDead},
	StageUnderContract: {StageClosed, StageDead},
	// CLOSED and DEAD are terminal
}

// ParseStage converts a raw string to a Stage, returning an error for
// unknown values.
func ParseStage(s string) (Stage, error) {
	st := Stage(s)
	switch st {
	case StageLead, StageAnalyzing, StageOfferMade, StageUnderContract, StageClosed, StageDead:
		return st, nil
	}
	return "", fmt.Errorf("unknown deal stage %q", s)
}

// IsTransitionAllowed reports whether moving from → to is permitted.
func IsTransitionAllowed(from, to Stage) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s has no outgoing transitions.
func IsTerminal(s Stage) bool { return s == StageClosed || s == StageDead }
