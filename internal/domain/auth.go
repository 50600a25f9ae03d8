package domain

// Identity is the claim set carried by a verified session credential.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}
