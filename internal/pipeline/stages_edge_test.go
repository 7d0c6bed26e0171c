package pipeline_test

import (
	"testing"

	"dealdesk/api-service/internal/pipeline"
)

// Stage names are case-sensitive, matching the Postgres enum.
func TestParseStage_CaseSensitive(t *testing.T) {
	for _, s := range []string{"lead", "analyzing", "offer_made", "under_contract", "closed", "dead"} {
		if _, err := pipeline.ParseStage(s); err == nil {
			t.Errorf("ParseStage(%q) should reject lowercase value, got nil error", s)
		}
	}
}

func TestParseStage_WithWhitespace(t *testing.T) {
	for _, s := range []string{" LEAD", "LEAD ", " LEAD "} {
		if _, err := pipeline.ParseStage(s); err == nil {
			t.Errorf("ParseStage(%q) should reject padded value, got nil error", s)
		}
	}
}

func TestParseStage_AllStagesRoundTrip(t *testing.T) {
	for _, s := range pipeline.Stages {
		got, err := pipeline.ParseStage(string(s))
		if err != nil {
			t.Errorf("ParseStage(%q) unexpected error: %v", s, err)
		}
		if got != s {
			t.Errorf("ParseStage(%q) = %q, want %q", s, got, s)
		}
	}
}

// Terminal stages are never the source of an allowed transition.
func TestIsTransitionAllowed_TerminalStagesHaveNoOutgoing(t *testing.T) {
	for _, from := range []pipeline.Stage{pipeline.StageClosed, pipeline.StageDead} {
		for _, to := range pipeline.Stages {
			if pipeline.IsTransitionAllowed(from, to) {
				t.Errorf("IsTransitionAllowed(%s → %s) must be false: %s is terminal", from, to, from)
			}
		}
	}
}

// LEAD is the initial column; nothing moves back into it.
func TestIsTransitionAllowed_LeadIsNeverReachable(t *testing.T) {
	for _, from := range pipeline.Stages {
		if pipeline.IsTransitionAllowed(from, pipeline.StageLead) {
			t.Errorf("IsTransitionAllowed(%s → LEAD) must be false", from)
		}
	}
}

// An unknown source stage has no outgoing transitions.
func TestIsTransitionAllowed_UnknownSource(t *testing.T) {
	if pipeline.IsTransitionAllowed(pipeline.Stage("ARCHIVED"), pipeline.StageDead) {
		t.Error("unknown source stage must not transition")
	}
}
