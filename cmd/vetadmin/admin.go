package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/swastik-pharma/vetstore/internal/auth"
)

func newAdminCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage back-office admin accounts",
	}
	cmd.AddCommand(newAdminCreateCmd(e), newAdminUpdateCmd(e), newAdminListCmd(e))
	return cmd
}

func newAdminCreateCmd(e *env) *cobra.Command {
	var email, password, role string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := e.admins(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			admin, err := svc.CreateAdmin(cmd.Context(), email, password, role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Admin created: %s (id %d, role %s)\n", admin.Email, admin.ID, admin.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().StringVar(&role, "role", auth.RoleSuperAdmin, "admin role")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newAdminUpdateCmd(e *env) *cobra.Command {
	var email, newEmail, password, role string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change the email, password or role of an admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var upd auth.AdminUpdate
			flags := cmd.Flags()
			if flags.Changed("new-email") {
				upd.Email = &newEmail
			}
			if flags.Changed("password") {
				upd.Password = &password
			}
			if flags.Changed("role") {
				upd.Role = &role
			}
			if upd.Email == nil && upd.Password == nil && upd.Role == nil {
				return errors.New("provide at least one of --new-email, --password or --role")
			}

			svc, closeFn, err := e.admins(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			admin, err := svc.UpdateAdmin(cmd.Context(), email, upd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Admin updated: %s (id %d, role %s)\n", admin.Email, admin.ID, admin.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "current admin email")
	cmd.Flags().StringVar(&newEmail, "new-email", "", "new email")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.Flags().StringVar(&role, "role", "", "new role")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newAdminListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List admin accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := e.admins(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			admins, err := svc.ListAdmins(cmd.Context())
			if err != nil {
				return err
			}
			if len(admins) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No admins found")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tEMAIL\tROLE\tCREATED")
			for _, a := range admins {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", a.ID, a.Email, a.Role, a.CreatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
}
