package constants

// Actor roles carried in JWT claims and checked by the route middleware.
const (
	RoleCustomer = "customer"
	RoleChef     = "chef"
	RoleAdmin    = "admin"

	// RoleAny allows any authenticated actor.
	RoleAny = "any"
)

// CancellationInitiators are the roles allowed to cancel a confirmed booking.
var CancellationInitiators = []string{
	RoleCustomer,
	RoleChef,
}
