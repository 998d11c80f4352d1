package slaclock

// State represents the clock lifecycle state
type State string

const (
	StateRunning   State = "RUNNING"
	StateAtRisk    State = "AT_RISK"
	StatePaused    State = "PAUSED"
	StateBreached  State = "BREACHED"
	StateCompleted State = "COMPLETED"
)

func (s State) Terminal() bool {
	return s == StateBreached || s == StateCompleted
}

// Kind identifies which order milestone the clock measures
type Kind string

const (
	KindIntake      Kind = "INTAKE"
	KindFulfillment Kind = "FULFILLMENT"
	KindOverall     Kind = "OVERALL"
	KindCustom      Kind = "CUSTOM"
)

// DefaultAtRiskThresholdPercent is the fraction of the SLA window after
// which a still-running clock is flagged at risk.
const DefaultAtRiskThresholdPercent = 0.80

// DefaultTargetBusinessDays per clock kind, used when the start command
// does not carry an explicit target.
var DefaultTargetBusinessDays = map[Kind]int{
	KindIntake:      3,
	KindFulfillment: 5,
	KindOverall:     10,
	KindCustom:      5,
}
