package rbac

import (
	"sync"

	"go-attend/internal/domain"

	"github.com/casbin/casbin/v2"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

// Policy bersifat statis: dua role (ADMIN, USER), ADMIN mewarisi semua
// permission USER. Tidak ada policy per-tenant yang perlu di-load ulang.
var defaultPolicies = [][]string{
	// USER grants
	{domain.RoleUser, "user", "read_self"},
	{domain.RoleUser, "user", "update_self"},
	{domain.RoleUser, "attendance", "mark"},
	{domain.RoleUser, "attendance", "read_self"},
	{domain.RoleUser, "attendance", "grade_self"},
	{domain.RoleUser, "leave", "create"},
	{domain.RoleUser, "leave", "read_self"},
	{domain.RoleUser, "task", "read_self"},
	{domain.RoleUser, "task", "submit"},

	// ADMIN grants (selain warisan dari USER)
	{domain.RoleAdmin, "user", "read_all"},
	{domain.RoleAdmin, "attendance", "read_all"},
	{domain.RoleAdmin, "attendance", "grade_any"},
	{domain.RoleAdmin, "leave", "read_all"},
	{domain.RoleAdmin, "leave", "approve"},
	{domain.RoleAdmin, "task", "create"},
	{domain.RoleAdmin, "task", "update"},
	{domain.RoleAdmin, "task", "read_all"},
	{domain.RoleAdmin, "task", "approve"},
}

func NewService(enforcer *casbin.Enforcer) (Service, error) {
	s := &service{enforcer: enforcer}
	if err := s.loadDefaultPolicy(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *service) loadDefaultPolicy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enforcer.ClearPolicy()

	if _, err := s.enforcer.AddGroupingPolicy(domain.RoleAdmin, domain.RoleUser); err != nil {
		return err
	}

	for _, p := range defaultPolicies {
		if _, err := s.enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enforcer.Enforce(req.Role, req.Resource, req.Action)
}
