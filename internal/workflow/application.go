package workflow

import "github.com/hireflow/hireflow/internal/screening"

// State tracks how far a single application has progressed.
type State int

const (
	StateEmpty State = iota
	StateIngested
	StateScreenedRejected
	StateScreenedAccepted
	StateNotified
	StateScheduled
	StateConfirmed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateIngested:
		return "ingested"
	case StateScreenedRejected:
		return "rejected"
	case StateScreenedAccepted:
		return "accepted"
	case StateNotified:
		return "notified"
	case StateScheduled:
		return "scheduled"
	case StateConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Application is the unit of work for one candidate. Only the
// controller mutates it.
type Application struct {
	candidateEmail string
	roleID         string
	resumeText     string
	verdict        *screening.Verdict
	state          State
}

func (a *Application) CandidateEmail() string { return a.candidateEmail }

func (a *Application) RoleID() string { return a.roleID }

func (a *Application) ResumeText() string { return a.resumeText }

func (a *Application) State() State { return a.state }

// Verdict returns the screening verdict, or nil before screening.
func (a *Application) Verdict() *screening.Verdict { return a.verdict }
