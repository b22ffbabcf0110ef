package domain

// Role values carried in the JWT and the request context.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// EnforceRequest adalah input untuk pengecekan akses.
// Subject adalah role claim dari token, bukan object client terpisah.
type EnforceRequest struct {
	Role     string
	Resource string
	Action   string
}
