package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/randalmurphal/pipetrack/pkg/pipetrack"
	"github.com/randalmurphal/pipetrack/pkg/pipetrack/eventlog"
	"github.com/randalmurphal/pipetrack/pkg/pipetrack/events"
)

func buildLinearPlan(n int) pipetrack.Plan {
	plan := pipetrack.Plan{Steps: make([]pipetrack.PlanStep, 0, n)}
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("step_%d", i)
		ps := pipetrack.PlanStep{
			Step: pipetrack.Step{
				Key:   key,
				Solid: pipetrack.Solid{Name: key, DefinitionName: "noop"},
				Kind:  events.StepKindTransform,
			},
			Compute: func(_ *pipetrack.StepContext) (pipetrack.StepResult, error) {
				return pipetrack.StepResult{Outputs: []pipetrack.Output{{Value: 1}}}, nil
			},
		}
		if i > 0 {
			ps.DependsOn = []string{fmt.Sprintf("step_%d", i-1)}
		}
		plan.Steps = append(plan.Steps, ps)
	}
	return plan
}

func benchmarkExecute(b *testing.B, n int, opts ...pipetrack.ContextOption) {
	plan := buildLinearPlan(n)
	opts = append([]pipetrack.ContextOption{pipetrack.WithLogger(discardLogger())}, opts...)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pc := pipetrack.NewPipelineContext(context.Background(), "bench", opts...)
		_, _ = pipetrack.Execute(pc, plan)
	}
}

// BenchmarkExecute_Linear_10 runs a 10-step linear plan.
func BenchmarkExecute_Linear_10(b *testing.B) {
	benchmarkExecute(b, 10)
}

// BenchmarkExecute_Linear_100 runs a 100-step linear plan.
func BenchmarkExecute_Linear_100(b *testing.B) {
	benchmarkExecute(b, 100)
}

// BenchmarkExecute_Linear_10_MemoryStore runs a 10-step plan recording to memory.
func BenchmarkExecute_Linear_10_MemoryStore(b *testing.B) {
	benchmarkExecute(b, 10, pipetrack.WithEventStore(eventlog.NewMemoryStore()))
}
