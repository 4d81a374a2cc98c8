package models

// Caller identifies who issued a request. The zero value is an anonymous
// caller.
type Caller struct {
	UserID uint
	Role   string
}

// Anonymous is the caller of unauthenticated requests.
var Anonymous = Caller{}

func (c Caller) IsAnonymous() bool {
	return c.UserID == 0
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
