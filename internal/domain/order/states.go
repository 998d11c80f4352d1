package order

// Status represents the order workflow state
type Status string

const (
	StatusCreated               Status = "CREATED"
	StatusInvited               Status = "INVITED"
	StatusIntakeInProgress      Status = "INTAKE_IN_PROGRESS"
	StatusIntakeComplete        Status = "INTAKE_COMPLETE"
	StatusReadyForFulfillment   Status = "READY_FOR_FULFILLMENT"
	StatusFulfillmentInProgress Status = "FULFILLMENT_IN_PROGRESS"
	StatusReadyForReport        Status = "READY_FOR_REPORT"
	StatusClosed                Status = "CLOSED"
	StatusBlocked               Status = "BLOCKED"
	StatusCanceled              Status = "CANCELED"
)

// allowedTransitions is the forward workflow table. Block, ResumeFromBlock
// and Cancel bypass it; everything else must be listed here.
var allowedTransitions = map[Status][]Status{
	StatusCreated:               {StatusInvited},
	StatusInvited:               {StatusIntakeInProgress},
	StatusIntakeInProgress:      {StatusIntakeComplete},
	StatusIntakeComplete:        {StatusReadyForFulfillment},
	StatusReadyForFulfillment:   {StatusFulfillmentInProgress},
	StatusFulfillmentInProgress: {StatusReadyForReport},
	StatusReadyForReport:        {StatusClosed},
	StatusClosed:                {},
	StatusCanceled:              {},
}

func (s Status) Terminal() bool {
	return s == StatusClosed || s == StatusCanceled
}

func (s Status) CanTransitionTo(to Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}
