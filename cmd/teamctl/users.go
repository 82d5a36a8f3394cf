package main

import (
	"fmt"
	"text/tabwriter"

	"teamhub/internal/models"
	"teamhub/internal/repositories"

	"github.com/spf13/cobra"
)

func init() {
	usersCmd := &cobra.Command{Use: "users", Short: "Account operations"}

	// create
	var email, name, password, role string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account for a roster email, or with an explicit role",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < 8 {
				return fmt.Errorf("--password must be at least 8 characters")
			}
			if role != "" && !models.UserRole(role).Valid() {
				return fmt.Errorf("invalid --role %q", role)
			}

			db, _, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			repo := repositories.NewUserRepository(db)
			user := &models.User{Email: email, Name: name}
			if err := user.SetPassword(password); err != nil {
				return err
			}

			ctx := cmd.Context()
			if role == "" {
				// Role suy ra từ roster (player / staff)
				err = repo.RegisterFromRoster(ctx, user)
			} else {
				user.Email = repositories.NormalizeEmail(email)
				user.Role = models.UserRole(role)
				user.IsActive = true
				err = repo.Create(ctx, user)
			}
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) id=%s\n", user.Email, user.Role, user.ID)
			return nil
		},
	}
	createCmd.Flags().StringVarP(&email, "email", "e", "", "Email (required)")
	createCmd.Flags().StringVarP(&name, "name", "n", "", "Display name (required)")
	createCmd.Flags().StringVarP(&password, "password", "p", "", "Password (required)")
	createCmd.Flags().StringVarP(&role, "role", "r", "", "Role override: player, coach, admin, captain")
	_ = createCmd.MarkFlagRequired("email")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("password")
	usersCmd.AddCommand(createCmd)

	// list
	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			users, total, err := repositories.NewUserRepository(db).List(cmd.Context(), repositories.FindOptions{Limit: limit})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "EMAIL\tNAME\tROLE\tACTIVE")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", u.Email, u.Name, u.Role, u.IsActive)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d\n", len(users), total)
			return nil
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "l", 50, "Max rows")
	usersCmd.AddCommand(listCmd)

	rootCmd.AddCommand(usersCmd)
}
