package painter

import (
	"fmt"

	"github.com/Faultbox/texpaint/internal/texbank"
)

// Plan is a subscription tier.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
	PlanStudio  Plan = "studio"
)

// ParsePlan converts a tier name to a Plan.
func ParsePlan(s string) (Plan, error) {
	switch p := Plan(s); p {
	case PlanFree, PlanPremium, PlanStudio:
		return p, nil
	}
	return "", fmt.Errorf("unknown plan tier %q", s)
}

// MaxResolution returns the largest canvas the tier may use.
func (p Plan) MaxResolution() int {
	switch p {
	case PlanStudio:
		return texbank.Res4096
	case PlanPremium:
		return texbank.Res2048
	default:
		return texbank.Res1024
	}
}

// Entitlements supplies the resolution ceiling of the current user.
type Entitlements interface {
	MaxResolution() int
}

// StaticPlan is a fixed tier, as read from configuration.
type StaticPlan struct {
	Tier Plan
}

// MaxResolution implements Entitlements.
func (s StaticPlan) MaxResolution() int {
	return s.Tier.MaxResolution()
}
