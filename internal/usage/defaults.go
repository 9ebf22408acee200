package usage

import "time"

const (
	defaultPlan   = "Starter"
	defaultLimit  = 10
	defaultWindow = 7 * 24 * time.Hour
)

// Policy sets the plan name, credits per window and window length given to new users.
type Policy struct {
	Plan   string
	Limit  int
	Window time.Duration
}

// DefaultPolicy is the weekly starter allowance.
func DefaultPolicy() Policy {
	return Policy{Plan: defaultPlan, Limit: defaultLimit, Window: defaultWindow}
}

// WithLimit overrides the credit limit when limit is positive.
func (p Policy) WithLimit(limit int) Policy {
	if limit > 0 {
		p.Limit = limit
	}
	return p
}

func (p Policy) normalized() Policy {
	if p.Plan == "" {
		p.Plan = defaultPlan
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Window <= 0 {
		p.Window = defaultWindow
	}
	return p
}

func (p Policy) fresh(now time.Time) Usage {
	return Usage{
		Plan:     p.Plan,
		Limit:    p.Limit,
		Used:     0,
		ResetsAt: now.Add(p.Window),
	}
}
