// Package screening decides candidate acceptance by delegating the
// judgment to a language model and defensively validating its reply.
package screening

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/hireflow/hireflow/internal/roles"
	"github.com/hireflow/hireflow/internal/utils"
	"go.uber.org/zap"
)

// ErrMalformedResponse marks a model reply that fails schema validation:
// not JSON, or valid JSON missing the required selected/feedback keys.
var ErrMalformedResponse = errors.New("malformed screening response")

// Verdict is the structured screening result. Only Selected and
// Feedback are guaranteed; the rest is informational and may be empty.
type Verdict struct {
	Selected        bool
	Feedback        string
	MatchingSkills  []string
	MissingSkills   []string
	ExperienceLevel string
}

type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

// Evaluator builds the screening request and validates the verdict.
type Evaluator struct {
	completer completer
	logger    *zap.Logger
	maxLogLen int
}

func NewEvaluator(completer completer, logger *zap.Logger, maxLogLength int) *Evaluator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Evaluator{
		completer: completer,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Evaluate runs a single screening call for the resume against the role.
// The model is invoked exactly once; retries are the operator's call.
func (e *Evaluator) Evaluate(ctx context.Context, resumeText string, role *roles.Profile) (*Verdict, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, errors.New("resume text is required")
	}
	if role == nil {
		return nil, errors.New("role profile is required")
	}

	prompt := buildPrompt(resumeText, role)

	e.logger.Debug("screening request",
		zap.String("role_id", role.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("screening response",
		zap.String("role_id", role.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	return parseVerdict(raw)
}

func buildPrompt(resumeText string, role *roles.Profile) string {
	extra := strings.TrimSpace(role.ExtraInstructions)
	if extra == "" {
		extra = "none"
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{RESUME_TEXT}}", resumeText)
	prompt = strings.ReplaceAll(prompt, "{{ROLE}}", role.ID)
	prompt = strings.ReplaceAll(prompt, "{{ROLE_REQUIREMENTS}}", role.Description)
	prompt = strings.ReplaceAll(prompt, "{{EXTRA_INSTRUCTIONS}}", extra)
	return prompt
}

// parseVerdict treats the reply as untrusted input: missing required
// fields are rejected, never coerced.
func parseVerdict(raw string) (*Verdict, error) {
	cleaned := utils.ExtractJSON(raw)

	var data struct {
		Selected        *bool    `json:"selected"`
		Feedback        *string  `json:"feedback"`
		MatchingSkills  []string `json:"matching_skills"`
		MissingSkills   []string `json:"missing_skills"`
		ExperienceLevel string   `json:"experience_level"`
	}

	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if data.Selected == nil {
		return nil, fmt.Errorf("%w: missing selected key", ErrMalformedResponse)
	}
	if data.Feedback == nil || strings.TrimSpace(*data.Feedback) == "" {
		return nil, fmt.Errorf("%w: missing feedback key", ErrMalformedResponse)
	}

	return &Verdict{
		Selected:        *data.Selected,
		Feedback:        strings.TrimSpace(*data.Feedback),
		MatchingSkills:  data.MatchingSkills,
		MissingSkills:   data.MissingSkills,
		ExperienceLevel: strings.TrimSpace(data.ExperienceLevel),
	}, nil
}
