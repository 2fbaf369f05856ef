package main

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muhammadolammi/skillnest/internal/api"
	"github.com/muhammadolammi/skillnest/internal/auth"
	"github.com/muhammadolammi/skillnest/internal/database"
)

var (
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Run: func(_ *cobra.Command, _ []string) {
			lg, config := setup(needDatabase)
			defer lg.Sync()

			store, err := database.Open(config.DatabaseURL)
			if err != nil {
				lg.Fatal("error opening db", zap.Error(err))
			}
			defer store.Close()

			if err := store.Migrate(context.Background()); err != nil {
				lg.Fatal("migration failed", zap.Error(err))
			}
			lg.Info("schema is up to date")
		},
	}

	createAdminCmd = &cobra.Command{
		Use:   "createadmin",
		Short: "Interactively create an admin account",
		Run: func(_ *cobra.Command, _ []string) {
			lg, config := setup(needDatabase)
			defer lg.Sync()

			acct, err := promptAdmin()
			if err != nil {
				lg.Fatal("prompt failed", zap.Error(err))
			}

			store, err := database.Open(config.DatabaseURL)
			if err != nil {
				lg.Fatal("error opening db", zap.Error(err))
			}
			defer store.Close()

			user, err := api.CreateAccount(context.Background(), store, acct)
			if err != nil {
				lg.Fatal("failed to create admin", zap.Error(err))
			}
			lg.Info("admin created", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
		},
	}
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)
}

func validateUsername(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("username is required")
	}
	if strings.ContainsAny(input, " \t") {
		return errors.New("username cannot contain spaces")
	}
	return nil
}

func validateEmail(input string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(input)); err != nil {
		return errors.New("invalid email address")
	}
	return nil
}

func validatePassword(input string) error {
	if len(input) < auth.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", auth.MinPasswordLength)
	}
	return nil
}

func promptAdmin() (api.NewAccount, error) {
	username, err := (&promptui.Prompt{Label: "Username", Validate: validateUsername}).Run()
	if err != nil {
		return api.NewAccount{}, err
	}
	email, err := (&promptui.Prompt{Label: "Email", Validate: validateEmail}).Run()
	if err != nil {
		return api.NewAccount{}, err
	}
	password, err := (&promptui.Prompt{Label: "Password", Mask: '*', Validate: validatePassword}).Run()
	if err != nil {
		return api.NewAccount{}, err
	}
	_, err = (&promptui.Prompt{
		Label: "Password (again)",
		Mask:  '*',
		Validate: func(input string) error {
			if input != password {
				return errors.New("passwords do not match")
			}
			return nil
		},
	}).Run()
	if err != nil {
		return api.NewAccount{}, err
	}

	return api.NewAccount{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: password,
		Role:     auth.RoleAdmin,
		IsStaff:  true,
	}, nil
}
