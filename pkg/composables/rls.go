package composables

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/workforce/pkg/configuration"
)

// ApplyGroupRLS pins the transaction to the organization group in the context
// via a session setting, so row security policies can scope every statement.
func ApplyGroupRLS(ctx context.Context, tx pgx.Tx) error {
	if configuration.Use().RLSEnforce != "enforce" {
		return nil
	}
	groupID, err := UseGroupID(ctx)
	if err != nil {
		return fmt.Errorf("rls requires organization group in context: %w", err)
	}
	_, err = tx.Exec(ctx, "SELECT set_config('app.current_org_group', $1, true)", groupID.String())
	if err != nil {
		return fmt.Errorf("failed to set rls group context: %w", err)
	}
	return nil
}
