package permission

import (
	"fmt"

	vo "github.com/autopro-kz/autopro/internal/domain/user/valueobjects"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

const (
	ResourceListing        = "listing"
	ResourceSubscription   = "subscription"
	ResourcePlan           = "subscription_plan"
	ResourcePaymentAccount = "payment_account"

	ActionRead  = "read"
	ActionWrite = "write"
	ActionBuy   = "buy"

	ActionModerate = "moderate"
)

// DefaultPolicies are the role grants installed on startup. Admins inherit
// every owner grant.
func DefaultPolicies() [][]string {
	owner := vo.RoleOwner.String()
	admin := vo.RoleAdmin.String()
	return [][]string{
		{owner, ResourceListing, ActionRead},
		{owner, ResourceListing, ActionWrite},
		{owner, ResourceSubscription, ActionRead},
		{owner, ResourceSubscription, ActionBuy},

		{admin, ResourceListing, ActionModerate},
		{admin, ResourcePlan, ActionRead},
		{admin, ResourcePlan, ActionWrite},
		{admin, ResourcePaymentAccount, ActionRead},
		{admin, ResourcePaymentAccount, ActionWrite},
	}
}

// InitPolicies installs DefaultPolicies. Existing rules are left alone, so it
// is safe to run on every start.
func InitPolicies(e *Enforcer, log logger.Interface) error {
	for _, p := range DefaultPolicies() {
		if err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w", p[0], p[1], p[2], err)
		}
	}
	if err := e.AddRoleInheritance(vo.RoleAdmin.String(), vo.RoleOwner.String()); err != nil {
		return err
	}

	log.Infow("permission policies initialized", "count", len(DefaultPolicies()))
	return nil
}
