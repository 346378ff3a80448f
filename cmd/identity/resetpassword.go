package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/campushub/identity/internal/domain"
)

// NewResetPasswordCmd creates the reset-password subcommand.
//
// This is an out-of-band recovery path: it bypasses login entirely and
// trusts whoever can invoke it. Restrict access to the binary and the
// database at the deployment level; the tool itself performs no caller
// verification.
func NewResetPasswordCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "reset-password <email> <new-password> [role]",
		Short: "Overwrite a user's password (and optionally role) by email",
		Long: `Overwrites the password of the account identified by email, bypassing
normal authentication. The new password is hashed before storage. If a
role is given the account's role is overwritten too; otherwise it is left
untouched. The account must already exist: reset never creates one.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResetPassword(cmd, args, timeout)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", defaultAdminTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runResetPassword(cmd *cobra.Command, args []string, timeout time.Duration) error {
	email, newPassword := args[0], args[1]
	var newRole domain.Role
	if len(args) == 3 {
		newRole = domain.Role(args[2])
		if !newRole.Valid() {
			return fmt.Errorf("%w: %q (valid: %v)", domain.ErrInvalidRole, newRole, domain.Roles)
		}
	}

	store, db, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	user, err := store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no such user: %s", email)
		}
		return fmt.Errorf("look up user: %w", err)
	}

	if err := store.SetPassword(ctx, user.ID, newPassword); err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	if newRole != "" {
		if err := store.SetRole(ctx, user.ID, newRole); err != nil {
			return fmt.Errorf("set role: %w", err)
		}
	}

	// Re-read for the confirmation output so updated_at reflects the change.
	updated, err := store.FindByID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("reload user: %w", err)
	}

	cmd.Printf("Password reset for %s\n", updated.Email)
	cmd.Printf("  id:         %s\n", updated.ID)
	cmd.Printf("  role:       %s\n", updated.Role)
	cmd.Printf("  updated at: %s\n", updated.UpdatedAt.Format(time.RFC3339))
	return nil
}
