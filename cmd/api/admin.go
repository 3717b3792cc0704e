package main

import (
	"fmt"
	"os"

	"coursemart/internal/auth"
	"coursemart/internal/model"
	"coursemart/internal/repository"
	"coursemart/internal/service"

	"github.com/spf13/cobra"
)

func newAdminCmd(a *app) *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator accounts",
	}

	var name, email, password string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an administrator account",
		Long: `Create an administrator. Public registration only creates regular users.

The password may be passed with --password or the ADMIN_PASSWORD environment variable.

Examples:
  coursemart admin create --name "Ada" --email ada@example.com --password s3cret!`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}

			ctx := cmd.Context()

			pool, err := a.openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			authService := service.NewAuthService(
				repository.NewUserRepository(pool, a.logger),
				auth.NewBcryptHasher(a.cfg.Auth.BcryptCost),
				auth.NewTokenService(a.cfg.Auth.JWTSecret, a.cfg.Auth.TokenTTLDuration()),
				a.logger,
			)

			user, err := authService.CreateAdmin(ctx, &model.RegisterRequest{
				Name:     name,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (%s)\n", user.Email, user.ID)

			return nil
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Display name")
	createCmd.Flags().StringVar(&email, "email", "", "Login email")
	createCmd.Flags().StringVar(&password, "password", "", "Login password (defaults to $ADMIN_PASSWORD)")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("email")

	adminCmd.AddCommand(createCmd)

	return adminCmd
}
