package models

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID    string
	Role      UserRole
	Username  string
	IPAddress string
	UserAgent string
}

func SystemActor() Actor {
	return Actor{Username: SystemUser}
}

func (a Actor) IsIct() bool {
	return a.Role.IsIct()
}
