// Package policy provides scripted controllers for the simulation engine.
// Policies consume only the public observation contract, the same way a
// trained model would, so a mission can swap between them freely.
package policy

import "github.com/forest-guardian/forest-guardian-api/sim"

// Policy picks one action per agent from the latest observation.
type Policy interface {
	// Name identifies the policy in mission records.
	Name() string

	// Decide returns exactly numAgents actions for the given observation.
	Decide(obs *sim.Observation, numAgents int) []sim.Action
}

// IdlePolicy keeps every agent in place. Useful as a spread-dynamics
// baseline: the fire evolves untouched.
type IdlePolicy struct{}

// Name identifies the policy in mission records.
func (IdlePolicy) Name() string { return "idle" }

// Decide returns Idle for every agent.
func (IdlePolicy) Decide(_ *sim.Observation, numAgents int) []sim.Action {
	actions := make([]sim.Action, numAgents)
	for i := range actions {
		actions[i] = sim.ActionIdle
	}
	return actions
}
