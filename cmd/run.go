package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/hireflow/hireflow/internal/dispatch"
	"github.com/hireflow/hireflow/internal/extract"
	"github.com/hireflow/hireflow/internal/llm"
	"github.com/hireflow/hireflow/internal/logger"
	"github.com/hireflow/hireflow/internal/mail"
	"github.com/hireflow/hireflow/internal/meeting"
	"github.com/hireflow/hireflow/internal/roles"
	"github.com/hireflow/hireflow/internal/screening"
	"github.com/hireflow/hireflow/internal/secrets"
	"github.com/hireflow/hireflow/internal/workflow"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptNewApplication = "New application"
	PromptScreen         = "Screen resume"
	PromptProceed        = "Proceed with acceptance"
	PromptStatus         = "Show status"
	PromptReset          = "Reset application"
	PromptExit           = "Exit"
)

var errExit = errors.New("exit requested")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive hireflow recruitment session",
	Run: func(_ *cobra.Command, _ []string) {
		run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// run is the main command for the cli.
func run() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting hireflow", zap.String("version", version))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.LLM == nil {
		logger.Fatal("llm configuration is required under the llm key")
	}
	if config.Email == nil || config.Email.SMTP == nil {
		logger.Fatal("email smtp configuration is required under the email key")
	}
	if config.Zoom == nil {
		logger.Fatal("zoom configuration is required under the zoom key")
	}
	if strings.TrimSpace(config.Company) == "" {
		logger.Fatal("company name is required under the company key")
	}

	controller, store, err := buildWorkflow(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the workflow", zap.Error(err))
	}
	defer store.Close()

	for {
		action, err := selectAction(controller.State())
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, controller, store, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Warn("action failed", zap.String("action", action), zap.Error(err))
		}

		logger.Info("application status", zap.String("state", controller.State().String()))
	}
}

// buildWorkflow wires the capabilities into a workflow controller.
func buildWorkflow(ctx context.Context, config *Config, baseLogger *zap.Logger) (*workflow.Controller, *roles.Store, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name: "llm api key",
		File: config.LLM.APIKeyFile,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w (set llm.api-key-file or HIREFLOW_LLM_API_KEY_FILE)", err)
	}

	completer, err := llm.New(ctx, llm.Config{
		Provider: config.LLM.Provider,
		APIKey:   apiKey,
		Model:    config.LLM.Model,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("building llm completer: %w", err)
	}

	llmLogger := logger.WithFields(baseLogger, logger.CommonFields(config.LLM.Provider, completer.Model())...)

	smtpPassword, err := secrets.Load(secrets.Source{
		Name: "smtp password",
		File: config.Email.SMTP.PasswordFile,
	})
	if err != nil {
		return nil, nil, err
	}

	transport, err := mail.NewSMTPTransport(mail.SMTPConfig{
		Host:     config.Email.SMTP.Host,
		Port:     config.Email.SMTP.Port,
		Identity: config.Email.SMTP.Identity,
		Username: config.Email.SMTP.Username,
		Password: smtpPassword,
		Sender:   config.Email.Sender,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("building smtp transport: %w", err)
	}

	zoomSecret, err := secrets.Load(secrets.Source{
		Name: "zoom client secret",
		File: config.Zoom.ClientSecretFile,
	})
	if err != nil {
		return nil, nil, err
	}

	zoomClient, err := meeting.NewZoomClient(meeting.ZoomConfig{
		AccountID:    config.Zoom.AccountID,
		ClientID:     config.Zoom.ClientID,
		ClientSecret: zoomSecret,
	}, baseLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("building zoom client: %w", err)
	}

	scheduler, err := meeting.NewScheduler(zoomClient, baseLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("building scheduler: %w", err)
	}

	rolesDB := config.RolesDB
	if rolesDB == "" {
		rolesDB = app + ".db"
	}

	store, err := roles.Open(ctx, rolesDB)
	if err != nil {
		return nil, nil, err
	}

	agent := mail.NewAgent(completer, transport, config.Company, llmLogger)

	controller := workflow.NewController(workflow.Deps{
		Evaluator:  screening.NewEvaluator(completer, llmLogger, config.LLM.MaxLogLength),
		Dispatcher: dispatch.New(agent, baseLogger),
		Scheduler:  scheduler,
		Roles:      storeRoleSource{store},
		Logger:     baseLogger,
	})

	return controller, store, nil
}

// storeRoleSource adapts the roles store to the controller's read-only view.
type storeRoleSource struct {
	store *roles.Store
}

func (s storeRoleSource) Get(ctx context.Context, id string) (*roles.Profile, error) {
	return s.store.Get(ctx, id)
}

// selectAction offers the actions valid for the current state.
func selectAction(state workflow.State) (string, error) {
	var items []string

	switch state {
	case workflow.StateEmpty:
		items = []string{PromptNewApplication}
	case workflow.StateIngested:
		items = []string{PromptScreen, PromptNewApplication, PromptReset}
	case workflow.StateScreenedAccepted, workflow.StateNotified, workflow.StateScheduled:
		items = []string{PromptProceed, PromptStatus, PromptReset}
	default:
		items = []string{PromptStatus, PromptNewApplication, PromptReset}
	}

	prompt := promptui.Select{
		Label: "Choose an action",
		Items: append(items, PromptExit),
	}

	_, action, err := prompt.Run()
	return action, err
}

func handleAction(ctx context.Context, action string, controller *workflow.Controller, store *roles.Store, logger *zap.Logger) error {
	switch action {
	case PromptNewApplication:
		return newApplication(ctx, controller, store)
	case PromptScreen:
		return controller.TriggerScreening(ctx)
	case PromptProceed:
		return controller.ProceedWithAcceptance(ctx)
	case PromptStatus:
		printStatus(controller, logger)
		return nil
	case PromptReset:
		controller.Reset()
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// newApplication collects the role, resume and candidate email and
// ingests a fresh application.
func newApplication(ctx context.Context, controller *workflow.Controller, store *roles.Store) error {
	profiles, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return fmt.Errorf("no roles configured, add one with '%s roles add'", app)
	}

	items := make([]string, 0, len(profiles))
	for _, profile := range profiles {
		items = append(items, profile.ID)
	}

	rolePrompt := promptui.Select{
		Label: "Select the role the candidate is applying for",
		Items: items,
	}
	_, roleID, err := rolePrompt.Run()
	if err != nil {
		return err
	}

	pathPrompt := promptui.Prompt{
		Label: "Path to the resume PDF",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("path must not be empty")
			}
			return nil
		},
	}
	path, err := pathPrompt.Run()
	if err != nil {
		return err
	}

	resumeText, err := extract.Text(path)
	if err != nil {
		return fmt.Errorf("ingesting resume: %w", err)
	}

	emailPrompt := promptui.Prompt{
		Label: "Candidate's email address",
		Validate: func(input string) error {
			if !strings.Contains(input, "@") {
				return errors.New("a valid email address is required")
			}
			return nil
		},
	}
	candidateEmail, err := emailPrompt.Run()
	if err != nil {
		return err
	}

	return controller.Ingest(resumeText, candidateEmail, roleID)
}

func printStatus(controller *workflow.Controller, logger *zap.Logger) {
	appState := controller.Application()

	fields := []zap.Field{
		zap.String("state", appState.State().String()),
		zap.String("candidate", appState.CandidateEmail()),
		zap.String("role", appState.RoleID()),
	}

	if verdict := appState.Verdict(); verdict != nil {
		fields = append(fields,
			zap.Bool("selected", verdict.Selected),
			zap.String("feedback", verdict.Feedback),
		)
	}

	if slot := controller.Slot(); slot != nil {
		fields = append(fields,
			zap.Time("interview_start", slot.StartTime),
			zap.String("join_info", slot.JoinInfo),
		)
	}

	logger.Info("current application", fields...)
}
