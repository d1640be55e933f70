package entity

// Principal identidad autenticada que llega a los casos de uso desde el token.
type Principal struct {
	UserID    string
	CompanyID string
	Role      string
}

func (p Principal) IsSuperAdmin() bool   { return p.Role == RoleSuperAdmin }
func (p Principal) IsCompanyAdmin() bool { return p.Role == RoleCompanyAdmin }
func (p Principal) IsTechnician() bool   { return p.Role == RoleTechnician }
func (p Principal) IsSalesStaff() bool   { return p.Role == RoleSalesStaff }
