// Package workflow sequences one candidate application from ingestion
// through screening to the accept or reject side effects. Execution is
// synchronous and single-application: every operator action runs to
// completion, including the network calls it contains, before control
// returns.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hireflow/hireflow/internal/meeting"
	"github.com/hireflow/hireflow/internal/roles"
	"github.com/hireflow/hireflow/internal/screening"
	"go.uber.org/zap"
)

// Sentinel errors for controller operations.
var (
	ErrNoApplication = errors.New("no application in progress")
	ErrNotAccepted   = errors.New("application has not been accepted")
)

// Evaluator screens a resume against a role.
type Evaluator interface {
	Evaluate(ctx context.Context, resumeText string, role *roles.Profile) (*screening.Verdict, error)
}

// Dispatcher sends the candidate-facing emails.
type Dispatcher interface {
	SendRejection(ctx context.Context, candidateEmail, role, feedback string) error
	SendSelectionConfirmation(ctx context.Context, candidateEmail, role string) error
	SendInterviewConfirmation(ctx context.Context, candidateEmail, role string, slot *meeting.Slot) error
}

// Scheduler books the interview slot.
type Scheduler interface {
	Schedule(ctx context.Context, candidateEmail, role string) (*meeting.Slot, error)
}

// RoleSource resolves role profiles; read-only from the controller's
// perspective.
type RoleSource interface {
	Get(ctx context.Context, id string) (*roles.Profile, error)
}

// Deps aggregates the capabilities the controller drives.
type Deps struct {
	Evaluator  Evaluator
	Dispatcher Dispatcher
	Scheduler  Scheduler
	Roles      RoleSource
	Logger     *zap.Logger
}

// Controller owns the single in-flight application and enforces that
// each irreversible external action fires at most once per transition.
type Controller struct {
	deps Deps

	app           Application
	slot          *meeting.Slot
	rejectionSent bool
}

func NewController(deps Deps) *Controller {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Controller{deps: deps}
}

// Application returns a copy of the current application.
func (c *Controller) Application() Application { return c.app }

// State reports the current application state for the presentation layer.
func (c *Controller) State() State { return c.app.state }

// Slot returns the scheduled interview slot, or nil before scheduling.
func (c *Controller) Slot() *meeting.Slot { return c.slot }

// Ingest starts a fresh application from extracted resume text. Any
// previous application is discarded first, so re-ingesting a different
// document always begins from a clean slate.
func (c *Controller) Ingest(resumeText, candidateEmail, roleID string) error {
	resumeText = strings.TrimSpace(resumeText)
	candidateEmail = strings.TrimSpace(candidateEmail)
	roleID = strings.TrimSpace(roleID)

	if resumeText == "" {
		return errors.New("resume text is empty")
	}
	if candidateEmail == "" {
		return errors.New("candidate email is required")
	}
	if roleID == "" {
		return errors.New("role is required")
	}

	c.Reset()
	c.app = Application{
		candidateEmail: candidateEmail,
		roleID:         roleID,
		resumeText:     resumeText,
		state:          StateIngested,
	}

	c.deps.Logger.Info("application ingested",
		zap.String("candidate", candidateEmail),
		zap.String("role", roleID),
	)

	return nil
}

// TriggerScreening runs the screening evaluation once. On an evaluation
// failure the application stays ingested and the operator may trigger
// again; each trigger is a fresh model call. A rejected verdict also
// sends the feedback email.
func (c *Controller) TriggerScreening(ctx context.Context) error {
	switch c.app.state {
	case StateEmpty:
		return ErrNoApplication
	case StateIngested:
	default:
		c.deps.Logger.Info("screening already completed",
			zap.String("state", c.app.state.String()),
		)
		return nil
	}

	role, err := c.deps.Roles.Get(ctx, c.app.roleID)
	if err != nil {
		return fmt.Errorf("resolve role: %w", err)
	}

	var verdict *screening.Verdict
	if err := c.guard("screening", func() error {
		var evalErr error
		verdict, evalErr = c.deps.Evaluator.Evaluate(ctx, c.app.resumeText, role)
		return evalErr
	}); err != nil {
		return err
	}

	c.app.verdict = verdict

	if verdict.Selected {
		c.app.state = StateScreenedAccepted
		c.deps.Logger.Info("candidate accepted by screening",
			zap.String("candidate", c.app.candidateEmail),
			zap.String("role", c.app.roleID),
		)
		return nil
	}

	c.app.state = StateScreenedRejected
	c.deps.Logger.Info("candidate rejected by screening",
		zap.String("candidate", c.app.candidateEmail),
		zap.String("role", c.app.roleID),
		zap.String("feedback", verdict.Feedback),
	)

	return c.sendRejection(ctx)
}

func (c *Controller) sendRejection(ctx context.Context) error {
	if c.rejectionSent {
		return nil
	}
	c.rejectionSent = true

	if err := c.guard("rejection email", func() error {
		return c.deps.Dispatcher.SendRejection(ctx, c.app.candidateEmail, c.app.roleID, c.app.verdict.Feedback)
	}); err != nil {
		return fmt.Errorf("rejection feedback email: %w", err)
	}

	return nil
}

// ProceedWithAcceptance performs, in strict order: selection
// confirmation email, interview scheduling, interview confirmation
// email. A step failure aborts the remaining steps; steps that already
// succeeded are never rolled back or repeated, so re-invoking after a
// failure resumes where the sequence stopped.
func (c *Controller) ProceedWithAcceptance(ctx context.Context) error {
	switch c.app.state {
	case StateEmpty:
		return ErrNoApplication
	case StateScreenedAccepted, StateNotified, StateScheduled:
	case StateConfirmed:
		c.deps.Logger.Info("accept sequence already completed")
		return nil
	default:
		return ErrNotAccepted
	}

	if c.app.state == StateScreenedAccepted {
		if err := c.guard("selection confirmation email", func() error {
			return c.deps.Dispatcher.SendSelectionConfirmation(ctx, c.app.candidateEmail, c.app.roleID)
		}); err != nil {
			return fmt.Errorf("selection confirmation email: %w", err)
		}
		c.app.state = StateNotified
	}

	if c.app.state == StateNotified {
		var slot *meeting.Slot
		if err := c.guard("interview scheduling", func() error {
			var schedErr error
			slot, schedErr = c.deps.Scheduler.Schedule(ctx, c.app.candidateEmail, c.app.roleID)
			return schedErr
		}); err != nil {
			return fmt.Errorf("interview scheduling: %w", err)
		}
		c.slot = slot
		c.app.state = StateScheduled
	}

	if err := c.guard("interview confirmation email", func() error {
		return c.deps.Dispatcher.SendInterviewConfirmation(ctx, c.app.candidateEmail, c.app.roleID, c.slot)
	}); err != nil {
		return fmt.Errorf("interview confirmation email: %w", err)
	}
	c.app.state = StateConfirmed

	c.deps.Logger.Info("application confirmed",
		zap.String("candidate", c.app.candidateEmail),
		zap.String("role", c.app.roleID),
		zap.Time("interview_start", c.slot.StartTime),
	)

	return nil
}

// Reset discards the current application. Safe to call repeatedly.
func (c *Controller) Reset() {
	c.app = Application{}
	c.slot = nil
	c.rejectionSent = false
}

// guard converts a panicking capability into an ordinary error so a
// misbehaving integration cannot take down the session.
func (c *Controller) guard(step string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.deps.Logger.Error("unexpected capability failure",
				zap.String("step", step),
				zap.Any("panic", r),
			)
			err = fmt.Errorf("%s: unexpected failure: %v", step, r)
		}
	}()

	return fn()
}
