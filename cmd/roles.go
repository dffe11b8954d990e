package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/hireflow/hireflow/internal/logger"
	"github.com/hireflow/hireflow/internal/roles"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Manage the role profiles candidates can be screened against",
}

var rolesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or update a role profile",
	Run: func(_ *cobra.Command, _ []string) {
		rolesAdd()
	},
}

var rolesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured role profiles",
	Run: func(_ *cobra.Command, _ []string) {
		rolesList()
	},
}

func init() {
	rolesCmd.AddCommand(rolesAddCmd)
	rolesCmd.AddCommand(rolesListCmd)
	rootCmd.AddCommand(rolesCmd)
}

func openRolesStore(ctx context.Context) (*roles.Store, *zap.Logger) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	rolesDB := app + ".db"
	if config != nil && config.RolesDB != "" {
		rolesDB = config.RolesDB
	}

	store, err := roles.Open(ctx, rolesDB)
	if err != nil {
		logger.Fatal("opening the roles store", zap.String("path", rolesDB), zap.Error(err))
	}

	return store, logger
}

func rolesAdd() {
	ctx := context.Background()

	store, logger := openRolesStore(ctx)
	defer store.Close()

	idPrompt := promptui.Prompt{
		Label: "Role id (e.g. backend-engineer)",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("role id must not be empty")
			}
			return nil
		},
	}
	id, err := idPrompt.Run()
	if err != nil {
		logger.Fatal("reading the role id", zap.Error(err))
	}

	descriptionPrompt := promptui.Prompt{
		Label: "Role description and requirements",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("role description must not be empty")
			}
			return nil
		},
	}
	description, err := descriptionPrompt.Run()
	if err != nil {
		logger.Fatal("reading the role description", zap.Error(err))
	}

	extraPrompt := promptui.Prompt{
		Label: "Extra screening instructions (optional)",
	}
	extra, err := extraPrompt.Run()
	if err != nil {
		logger.Fatal("reading the extra instructions", zap.Error(err))
	}

	profile := &roles.Profile{
		ID:                strings.TrimSpace(id),
		Description:       strings.TrimSpace(description),
		ExtraInstructions: strings.TrimSpace(extra),
	}

	if err := store.Upsert(ctx, profile); err != nil {
		logger.Fatal("saving the role", zap.Error(err))
	}

	logger.Info("role saved", zap.String("role", profile.ID))
}

func rolesList() {
	ctx := context.Background()

	store, logger := openRolesStore(ctx)
	defer store.Close()

	profiles, err := store.List(ctx)
	if err != nil {
		logger.Fatal("listing the roles", zap.Error(err))
	}

	if len(profiles) == 0 {
		fmt.Printf("no roles configured, add one with '%s roles add'\n", app)
		return
	}

	for _, profile := range profiles {
		fmt.Printf("%s: %s\n", profile.ID, profile.Description)
		if profile.ExtraInstructions != "" {
			fmt.Printf("  extra instructions: %s\n", profile.ExtraInstructions)
		}
	}
}
