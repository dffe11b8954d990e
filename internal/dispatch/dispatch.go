// Package dispatch composes the candidate-facing emails. Each send is a
// natural-language instruction handed to the mail capability, which
// drafts and transmits the actual message.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hireflow/hireflow/internal/meeting"
	"go.uber.org/zap"
)

// RejectionClosing is the exact literal every rejection email ends with.
const RejectionClosing = "best,\nthe ai recruiting team"

// Mailer is the "send email" capability.
type Mailer interface {
	SendMail(ctx context.Context, instruction, recipient string) error
}

// Dispatcher builds and dispatches the three email variants.
type Dispatcher struct {
	mailer Mailer
	logger *zap.Logger
}

func New(mailer Mailer, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{mailer: mailer, logger: logger}
}

// SendRejection delivers the feedback email for a rejected application.
func (d *Dispatcher) SendRejection(ctx context.Context, candidateEmail, role, feedback string) error {
	if strings.TrimSpace(feedback) == "" {
		return errors.New("rejection feedback is required")
	}

	instruction := fmt.Sprintf(`Write an email to the candidate regarding their application for the %s position.
The email should:
1. Be empathetic, respectful, and human in tone.
2. Acknowledge their effort and interest in applying for the role.
3. Provide specific feedback from: %s, focusing on areas where they could improve.
4. Suggest actionable steps to enhance their skills or experience based on the feedback.
5. Recommend relevant learning resources, such as online courses, books, or certifications, tailored to the missing skills.
6. Encourage them to reapply in the future once they've addressed the areas of improvement.
7. End the email with the exact closing:
%s
8. Ensure the email is concise yet thoughtful, with professional wording and a supportive tone.`,
		role, feedback, RejectionClosing)

	d.logger.Info("sending rejection email",
		zap.String("recipient", candidateEmail),
		zap.String("role", role),
	)

	return d.mailer.SendMail(ctx, instruction, candidateEmail)
}

// SendSelectionConfirmation delivers the congratulations email for an
// accepted application.
func (d *Dispatcher) SendSelectionConfirmation(ctx context.Context, candidateEmail, role string) error {
	instruction := fmt.Sprintf(`Write an email to the candidate regarding their selection for the %s position.
The email should:
1. Start by congratulating the candidate on being selected for the interview. Use professional and courteous language throughout the email.
2. Briefly highlight why their profile stood out (e.g., skills, experience, or potential).
3. Clearly outline the next steps in the process.
4. Mention that they will receive the interview details, including date, time, and format, shortly.
5. Encourage them to prepare for the interview and let them know they can reach out with questions or concerns.
6. Use a clear structure with paragraphs and bullet points for readability.`,
		role)

	d.logger.Info("sending selection confirmation email",
		zap.String("recipient", candidateEmail),
		zap.String("role", role),
	)

	return d.mailer.SendMail(ctx, instruction, candidateEmail)
}

// SendInterviewConfirmation delivers the interview details for the
// scheduled slot.
func (d *Dispatcher) SendInterviewConfirmation(ctx context.Context, candidateEmail, role string, slot *meeting.Slot) error {
	if slot == nil {
		return errors.New("meeting slot is required")
	}

	instruction := fmt.Sprintf(`Write an email confirming the scheduled interview for the %s position.
The email should:
1. Start with a polite and enthusiastic confirmation of the interview details.
2. Include the following information clearly:
Role: %s position
Date and time: %s (%s)
Duration: %d minutes
Joining details: %s
3. Clearly state that the time is in %s (India Standard Time) and suggest the candidate double-check the timezone conversion to plan accordingly.
4. Politely request the candidate to join 5 minutes early to ensure a smooth start.
5. Encourage the candidate to be confident and well-prepared for the interview. Offer tips or resources if appropriate (e.g., topics to review or format expectations).
6. Conclude with a friendly note, wishing them the best for the interview.`,
		role, role,
		slot.StartTime.Format("Monday, 2 January 2006 at 15:04"), slot.Timezone,
		slot.DurationMinutes,
		slot.JoinInfo,
		slot.Timezone)

	d.logger.Info("sending interview confirmation email",
		zap.String("recipient", candidateEmail),
		zap.String("role", role),
		zap.Time("start_time", slot.StartTime),
	)

	return d.mailer.SendMail(ctx, instruction, candidateEmail)
}
