package access

import (
	"bazaarbondhu/internal/domain/entity"
)

type Phase int

const (
	PhaseUnresolved Phase = iota
	PhaseResolving
	PhaseResolved
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseResolving:
		return "resolving"
	case PhaseResolved:
		return "resolved"
	case PhaseFailed:
		return "failed"
	default:
		return "unresolved"
	}
}

// RoleState is what consumers observe while a role is being looked up. A
// zero RoleState is Unresolved, never a default role.
type RoleState struct {
	Phase Phase
	Role  entity.Role
	Err   error
}

func Unresolved() RoleState { return RoleState{Phase: PhaseUnresolved} }

func Resolving() RoleState { return RoleState{Phase: PhaseResolving} }

func Resolved(role entity.Role) RoleState {
	if !role.Valid() {
		return RoleState{Phase: PhaseFailed, Err: ErrUnknownRole}
	}
	return RoleState{Phase: PhaseResolved, Role: role}
}

func Failed(err error) RoleState {
	if err == nil {
		err = ErrUnknownRole
	}
	return RoleState{Phase: PhaseFailed, Err: err}
}

// Known returns the role only once it is resolved.
func (s RoleState) Known() (entity.Role, bool) {
	if s.Phase != PhaseResolved {
		return "", false
	}
	return s.Role, true
}
