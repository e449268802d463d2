// Package accesscontrol gates every mutating tokenization entry point
// behind role membership and a pause flag, mirroring the role model of the
// on-chain access-control base (Executor writes reservations, Governor
// administers roles and the pause flag, Operator runs maintenance tasks).
package accesscontrol

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/integraledger/integra-api/internal/constants"
)

// Role is a named permission group.
type Role string

const (
	RoleExecutor Role = constants.ExecutorRole
	RoleGovernor Role = constants.GovernorRole
	RoleOperator Role = constants.OperatorRole
)

// ErrPaused is returned by mutating entry points while the platform is paused
var ErrPaused = errors.New("platform is paused")

// MissingRoleError is returned when an actor lacks a required role.
type MissingRoleError struct {
	Role    Role
	Address common.Address
}

func (e *MissingRoleError) Error() string {
	return fmt.Sprintf("address %s does not hold role %s", e.Address, e.Role)
}

// Registry tracks role membership and the pause flag. All mutation goes
// through Governor-gated methods.
type Registry struct {
	mu     sync.RWMutex
	roles  map[common.Address]map[Role]bool
	paused bool
}

// NewRegistry creates a registry with the given address holding Governor.
func NewRegistry(governor common.Address) *Registry {
	r := &Registry{
		roles: make(map[common.Address]map[Role]bool),
	}
	r.roles[governor] = map[Role]bool{RoleGovernor: true}
	return r
}

// HasRole reports whether addr holds role.
func (r *Registry) HasRole(addr common.Address, role Role) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roles[addr][role]
}

// RequireRole returns a MissingRoleError unless addr holds role.
func (r *Registry) RequireRole(addr common.Address, role Role) error {
	if !r.HasRole(addr, role) {
		return &MissingRoleError{Role: role, Address: addr}
	}
	return nil
}

// Grant gives addr the role. Caller must hold Governor.
func (r *Registry) Grant(caller, addr common.Address, role Role) error {
	if err := r.RequireRole(caller, RoleGovernor); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.roles[addr] == nil {
		r.roles[addr] = make(map[Role]bool)
	}
	r.roles[addr][role] = true
	return nil
}

// Revoke removes the role from addr. Caller must hold Governor.
func (r *Registry) Revoke(caller, addr common.Address, role Role) error {
	if err := r.RequireRole(caller, RoleGovernor); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.roles[addr], role)
	return nil
}

// Pause stops all mutating entry points. Caller must hold Governor.
func (r *Registry) Pause(caller common.Address) error {
	if err := r.RequireRole(caller, RoleGovernor); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = true
	return nil
}

// Unpause re-enables mutating entry points. Caller must hold Governor.
func (r *Registry) Unpause(caller common.Address) error {
	if err := r.RequireRole(caller, RoleGovernor); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = false
	return nil
}

// Paused reports the pause flag.
func (r *Registry) Paused() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.paused
}

// RequireActive returns ErrPaused while the platform is paused. Every
// mutating entry point rechecks this, pause state can change between calls.
func (r *Registry) RequireActive() error {
	if r.Paused() {
		return ErrPaused
	}
	return nil
}
