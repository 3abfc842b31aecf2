package domain

import "fmt"

// Role is the organizational rank of a user. It drives booking limits,
// approval routing and room access.
type Role string

const (
	RoleFuncionario Role = "FUNCIONARIO"
	RoleCoordenador Role = "COORDENADOR"
	RoleGerente     Role = "GERENTE"
	RoleDiretor     Role = "DIRETOR"
)

var roleRanks = map[Role]int{
	RoleFuncionario: 1,
	RoleCoordenador: 2,
	RoleGerente:     3,
	RoleDiretor:     4,
}

// Rank returns the numeric rank of the role. An undefined role is a
// configuration defect and panics; boundary code must validate first.
func (r Role) Rank() int {
	rank, ok := roleRanks[r]
	if !ok {
		panic(fmt.Sprintf("undefined role %q", r))
	}
	return rank
}

// Valid reports whether the role is one of the defined values.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// ParseRole validates a raw role string from the boundary.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

// ManagerTier reports whether the role may approve or reject bookings.
func (r Role) ManagerTier() bool {
	return r == RoleGerente || r == RoleDiretor
}

// AccountKind separates administrative capability from organizational rank.
type AccountKind string

const (
	AccountKindAdmin    AccountKind = "ADMIN"
	AccountKindStandard AccountKind = "STANDARD"
)

// Valid reports whether the account kind is defined.
func (k AccountKind) Valid() bool {
	return k == AccountKindAdmin || k == AccountKindStandard
}

// ParseAccountKind validates a raw account kind string.
func ParseAccountKind(raw string) (AccountKind, error) {
	kind := AccountKind(raw)
	if !kind.Valid() {
		return "", fmt.Errorf("unknown account kind %q", raw)
	}
	return kind, nil
}

// AccessLevel is the minimum role rank required to book a room. Its values
// map 1:1 onto the role scale.
type AccessLevel string

const (
	AccessLevelFuncionario AccessLevel = "FUNCIONARIO"
	AccessLevelCoordenador AccessLevel = "COORDENADOR"
	AccessLevelGerente     AccessLevel = "GERENTE"
	AccessLevelDiretor     AccessLevel = "DIRETOR"
)

// Rank returns the numeric rank the level requires.
func (l AccessLevel) Rank() int {
	return Role(l).Rank()
}

// Valid reports whether the access level is defined.
func (l AccessLevel) Valid() bool {
	return Role(l).Valid()
}

// ParseAccessLevel validates a raw access level string.
func ParseAccessLevel(raw string) (AccessLevel, error) {
	level := AccessLevel(raw)
	if !level.Valid() {
		return "", fmt.Errorf("unknown access level %q", raw)
	}
	return level, nil
}
