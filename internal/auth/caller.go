package auth

// CallerKind tags the two roles the platform knows about.
type CallerKind int

const (
	// CallerAdmin is the unrestricted platform administrator.
	CallerAdmin CallerKind = iota
	// CallerRestaurantStaff is scoped to exactly one restaurant.
	CallerRestaurantStaff
)

// Caller is resolved once per request by the middleware and threaded
// through via context; it replaces ad-hoc "does a profile exist" checks.
type Caller struct {
	Kind         CallerKind
	UserID       int64
	RestaurantID int64
	Role         string
}

// CanManage reports whether the caller may touch data belonging to the
// given restaurant.
func (c Caller) CanManage(restaurantID int64) bool {
	if c.Kind == CallerAdmin {
		return true
	}
	return c.RestaurantID == restaurantID
}
