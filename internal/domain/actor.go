package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type ActorRole string

const (
	RoleTenant   ActorRole = "tenant"
	RoleOperator ActorRole = "operator"
)

// Actor is whoever performs a write; it is recorded in audit columns as
// "role:id".
type Actor struct {
	Role ActorRole
	ID   int64
}

func TenantActor(id int64) Actor   { return Actor{Role: RoleTenant, ID: id} }
func OperatorActor(id int64) Actor { return Actor{Role: RoleOperator, ID: id} }

func (a Actor) IsOperator() bool { return a.Role == RoleOperator }

func (a Actor) String() string {
	return fmt.Sprintf("%s:%d", a.Role, a.ID)
}

func ParseActor(s string) (Actor, error) {
	role, id, ok := strings.Cut(s, ":")
	if !ok {
		return Actor{}, fmt.Errorf("bad actor %q", s)
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return Actor{}, fmt.Errorf("bad actor %q: %w", s, err)
	}
	switch ActorRole(role) {
	case RoleTenant, RoleOperator:
		return Actor{Role: ActorRole(role), ID: n}, nil
	}
	return Actor{}, fmt.Errorf("bad actor role %q", role)
}
