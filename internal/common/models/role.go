package models

import "fmt"

// Role is the stable machine value stored on users and carried in JWT claims.
// Human-readable labels exist only at the view-model boundary.
type Role string

const (
	RoleAdmin           Role = "ADMIN"
	RoleManager         Role = "MANAGER"
	RolePhysiotherapist Role = "PHYSIOTHERAPIST"
	RoleReceptionist    Role = "RECEPTIONIST"
)

// ParseRole validates a raw role value against the four known roles.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdmin, RoleManager, RolePhysiotherapist, RoleReceptionist:
		return Role(raw), nil
	}
	return "", fmt.Errorf("unrecognized role %q", raw)
}

// Label translates the machine value to the pt-BR label shown on dashboards.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrador"
	case RoleManager:
		return "Gestor"
	case RolePhysiotherapist:
		return "Fisioterapeuta"
	case RoleReceptionist:
		return "Recepcionista"
	}
	return string(r)
}
