// Package authz decides which account roles may perform which actions,
// backed by an in-memory casbin enforcer.
package authz

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"
)

//go:embed model.conf
var modelText string

// Roles. Member and company both inherit RoleAuthenticated.
const (
	RoleMember        = "MEMBER"
	RoleCompany       = "COMPANY"
	RoleAuthenticated = "AUTHENTICATED"
)

// Objects.
const (
	ObjectMemberMatching  = "member_matching"
	ObjectCompanyMatching = "company_matching"
	ObjectInterview       = "interview"
	ObjectInvitation      = "team_invitation"
	ObjectTeam            = "team"
	ObjectProfile         = "member_profile"
	ObjectStatistics      = "matching_statistics"
)

// Actions.
const (
	ActionView    = "view"
	ActionRespond = "respond"
	ActionApply   = "apply"
	ActionPropose = "propose"
	ActionDecide  = "decide"
)

// ErrForbidden is returned when the role may not perform the action.
var ErrForbidden = errors.New("forbidden")

// Authorizer checks role permissions.
type Authorizer interface {
	Authorize(role, object, action string) error
}

type authorizer struct {
	enforcer *casbin.SyncedEnforcer
	logger   *zap.SugaredLogger
}

// New builds an Authorizer with the built-in policy.
func New(logger *zap.SugaredLogger) (Authorizer, error) {
	enforcer, err := NewEnforcer()
	if err != nil {
		return nil, err
	}
	return &authorizer{enforcer: enforcer, logger: logger}, nil
}

// NewEnforcer loads the embedded model and seeds the role policy.
func NewEnforcer() (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse authorization model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	return enforcer, nil
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		{RoleMember, ObjectMemberMatching, ActionView},
		{RoleMember, ObjectMemberMatching, ActionRespond},
		{RoleMember, ObjectMemberMatching, ActionApply},
		{RoleMember, ObjectInvitation, ActionView},
		{RoleMember, ObjectInvitation, ActionDecide},
		{RoleMember, ObjectProfile, ActionView},
		{RoleCompany, ObjectCompanyMatching, ActionView},
		{RoleCompany, ObjectInterview, ActionView},
		{RoleCompany, ObjectInterview, ActionPropose},
		{RoleCompany, ObjectStatistics, ActionView},
		{RoleAuthenticated, ObjectTeam, ActionView},
	}
	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return fmt.Errorf("failed to seed policy %v: %w", p, err)
		}
	}

	for _, role := range []string{RoleMember, RoleCompany} {
		if _, err := enforcer.AddGroupingPolicy(role, RoleAuthenticated); err != nil {
			return fmt.Errorf("failed to seed role %s: %w", role, err)
		}
	}
	return nil
}

// Authorize returns ErrForbidden unless role may perform action on object.
func (a *authorizer) Authorize(role, object, action string) error {
	allowed, err := a.enforcer.Enforce(role, object, action)
	if err != nil {
		return fmt.Errorf("authorization check failed: %w", err)
	}
	if !allowed {
		a.logger.Debugw("authorization denied", "role", role, "object", object, "action", action)
		return ErrForbidden
	}
	return nil
}
