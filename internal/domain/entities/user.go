package entities

// UserRole represents the role of a platform user
type UserRole string

const (
	UserRoleCustomer  UserRole = "customer"
	UserRoleShopOwner UserRole = "shop_owner"
	UserRoleAdmin     UserRole = "admin"
)

// ValidUserRole reports whether r names a known role.
func ValidUserRole(r UserRole) bool {
	switch r {
	case UserRoleCustomer, UserRoleShopOwner, UserRoleAdmin:
		return true
	}
	return false
}
