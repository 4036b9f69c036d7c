package model

import "time"

// Account is a registered customer.  The password is only ever held as a
// bcrypt hash; the clear text never reaches the store.
type Account struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email"`
	Mobile       string    `json:"mobile"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated caller of a request.
type Identity struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// Role names carried in access tokens.
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// Role returns the token role for the identity.
func (i Identity) Role() string {
	if i.IsAdmin {
		return RoleAdmin
	}
	return RoleCustomer
}
