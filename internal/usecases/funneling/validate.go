package funneling

import (
	"fmt"

	"github.com/vfg2006/insights-engine/internal/domain"
)

// ValidateSteps exige ao menos duas etapas, nomes únicos e eventos em todas elas
func ValidateSteps(steps []domain.FunnelStep) error {
	if len(steps) < 2 {
		return domain.NewInvalidArgumentError("steps", "a funnel needs at least two steps")
	}

	seen := make(map[string]struct{}, len(steps))
	for i, step := range steps {
		if step.Name == "" {
			return domain.NewInvalidArgumentError("steps", fmt.Sprintf("step %d has no name", i))
		}

		if _, exists := seen[step.Name]; exists {
			return domain.NewInvalidArgumentError("steps", fmt.Sprintf("duplicated step name %q", step.Name))
		}
		seen[step.Name] = struct{}{}

		if len(step.EventNames) == 0 {
			return domain.NewInvalidArgumentError("steps", fmt.Sprintf("step %q has no event names", step.Name))
		}

		for _, event := range step.EventNames {
			if event == "" {
				return domain.NewInvalidArgumentError("steps", fmt.Sprintf("step %q has an empty event name", step.Name))
			}
		}
	}

	return nil
}
