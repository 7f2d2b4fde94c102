package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func signupCmd(a *app) *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.auth.SignUp(cmd.Context(), email, password, name)
			if err != nil {
				return friendly(err, "account")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed up as %s <%s>\n", user.DisplayName, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password, 6 to 72 characters (required)")
	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	markRequired(cmd, "email", "password", "name")
	return cmd
}

func signinCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in to an existing account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.auth.SignIn(cmd.Context(), email, password)
			if err != nil {
				return friendly(err, "account")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", user.DisplayName, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	markRequired(cmd, "email", "password")
	return cmd
}

func signoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Forget the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.auth.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.auth.RequireCurrentUser(cmd.Context())
			if err != nil {
				return friendly(err, "user")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\nid: %s\n", user.DisplayName, user.Email, user.ID)
			return nil
		},
	}
}

func markRequired(cmd *cobra.Command, names ...string) {
	for _, n := range names {
		_ = cmd.MarkFlagRequired(n)
	}
}
