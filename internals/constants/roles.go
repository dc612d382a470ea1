package constants

import "fmt"

const (
	RoleAdmin      = "admin"
	RoleOwner      = "owner"
	RoleAccountant = "accountant"
)

// Template pesan error role
const ErrOnlyFinanceCanAccess = "Hanya admin, owner, atau bendahara yang boleh mengakses fitur %s."

func RoleErrorFinance(feature string) string {
	return fmt.Sprintf(ErrOnlyFinanceCanAccess, feature)
}

var (
	// FinanceRoles boleh menjalankan billing manual.
	FinanceRoles = []string{RoleAdmin, RoleOwner, RoleAccountant}
)
