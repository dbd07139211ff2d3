package model

// Principal identifies the authenticated caller of a request.
type Principal struct {
	UserID int
	Role   Role
}

func (p Principal) IsFarmer() bool { return p.Role == RoleFarmer }

func (p Principal) IsBuyer() bool { return p.Role == RoleBuyer }
