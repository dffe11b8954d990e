// Package mail implements the outbound mail capability: a language
// model turns a natural-language instruction into a drafted message,
// and an SMTP transport delivers it. The core never constructs raw
// message bytes itself.
package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/hireflow/hireflow/internal/utils"
	"go.uber.org/zap"
)

type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Transport delivers an already drafted message to a single recipient.
type Transport interface {
	Send(ctx context.Context, recipient, subject, message string) error
}

//go:embed draft_prompt.md
var draftPromptTemplate string

const defaultMaxLogLength = 200

// Agent is the "send email" capability consumed by the dispatcher.
type Agent struct {
	completer completer
	transport Transport
	company   string
	logger    *zap.Logger
	maxLogLen int
}

func NewAgent(completer completer, transport Transport, company string, logger *zap.Logger) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Agent{
		completer: completer,
		transport: transport,
		company:   strings.TrimSpace(company),
		logger:    logger,
		maxLogLen: defaultMaxLogLength,
	}
}

// SendMail drafts a message for the instruction and transmits it to the
// recipient. Any transport rejection surfaces to the caller unretried.
func (a *Agent) SendMail(ctx context.Context, instruction, recipient string) error {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return errors.New("recipient is required")
	}
	if strings.TrimSpace(instruction) == "" {
		return errors.New("instruction is required")
	}

	prompt := strings.ReplaceAll(draftPromptTemplate, "{{COMPANY}}", a.company)
	prompt = strings.ReplaceAll(prompt, "{{INSTRUCTION}}", instruction)

	raw, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		return fmt.Errorf("draft email: %w", err)
	}

	a.logger.Debug("email draft response",
		zap.String("recipient", recipient),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	subject, message, err := parseDraft(raw)
	if err != nil {
		return err
	}

	if err := a.transport.Send(ctx, recipient, subject, message); err != nil {
		return fmt.Errorf("send email to %s: %w", recipient, err)
	}

	a.logger.Info("email sent",
		zap.String("recipient", recipient),
		zap.String("subject", subject),
	)

	return nil
}

func parseDraft(raw string) (subject, message string, err error) {
	cleaned := utils.ExtractJSON(raw)

	var draft struct {
		Subject *string `json:"subject"`
		Message *string `json:"message"`
	}
	if err := json.Unmarshal([]byte(cleaned), &draft); err != nil {
		return "", "", fmt.Errorf("parse email draft: %w", err)
	}

	if draft.Subject == nil || strings.TrimSpace(*draft.Subject) == "" {
		return "", "", errors.New("email draft is missing a subject")
	}
	if draft.Message == nil || strings.TrimSpace(*draft.Message) == "" {
		return "", "", errors.New("email draft is missing a message")
	}

	return strings.TrimSpace(*draft.Subject), *draft.Message, nil
}
