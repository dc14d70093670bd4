package service

// Caller identifies who is driving an engine call. It is passed
// explicitly into every operation instead of living in ambient state so
// ownership and attribution checks never depend on request context
// plumbing.
type Caller struct {
	UserID uint
	Role   string
}

const RoleAdmin = "admin"

func (c Caller) Admin() bool {
	return c.Role == RoleAdmin
}
