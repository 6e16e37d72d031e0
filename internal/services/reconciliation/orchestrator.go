package reconciliation

import (
	"context"
	"fmt"

	"bank-reconciliation-backend/internal/models"
)

// defaultMaxSteps bounds the orchestrator's step counter. The shipped
// stage list is strictly linear and can never reach it; the guard is
// reserved for future non-linear flows (retry/escalation) and carries
// no other semantics.
const defaultMaxSteps = 10

type stageFunc func(ctx context.Context, s *models.ReconciliationSession) error

type stage struct {
	name string
	run  stageFunc
}

// Orchestrator executes a fixed sequence of named stages over one
// session. No branching, no skips, no retries: the first stage error
// aborts the run with the failing stage named in the error.
type Orchestrator struct {
	stages      []stage
	maxSteps    int
	currentStep int
}

func NewOrchestrator(stages []stage) *Orchestrator {
	return &Orchestrator{stages: stages, maxSteps: defaultMaxSteps}
}

func (o *Orchestrator) Run(ctx context.Context, s *models.ReconciliationSession) error {
	for _, st := range o.stages {
		o.currentStep++
		if o.currentStep > o.maxSteps {
			return fmt.Errorf("pipeline exceeded %d steps at stage %q", o.maxSteps, st.name)
		}
		if err := st.run(ctx, s); err != nil {
			return fmt.Errorf("%s stage: %w", st.name, err)
		}
	}
	return nil
}
