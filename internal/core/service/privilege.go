package service

import (
	"context"

	"github.com/99minutos/portal-users/internal/core/domain"
)

// GrantAdmin adds ADMIN to the target's roles. Only superadmins may do so.
func (s *UserService) GrantAdmin(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	return s.changeAdminPrivilege(ctx, actor, id, domain.GrantAdmin)
}

// RevokeAdmin removes ADMIN from the target's roles. Only superadmins may do so.
func (s *UserService) RevokeAdmin(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	return s.changeAdminPrivilege(ctx, actor, id, domain.RevokeAdmin)
}

// changeAdminPrivilege authorizes the actor before the target is resolved,
// so callers without the privilege get ErrForbidden whether or not the
// target exists. Resolution, transition and write happen in one atomic
// repository call.
func (s *UserService) changeAdminPrivilege(ctx context.Context, actor *domain.User, id string, change domain.AdminPrivilegeChange) (*domain.User, error) {
	if !change.Permitted(actor.Roles) {
		s.logger.Warn().
			Str("actor_id", actor.ID).
			Str("target_id", id).
			Str("change", change.String()).
			Msg("admin privilege change rejected")
		return nil, domain.ErrForbidden
	}

	updated, err := s.repo.UpdateRoles(ctx, id, change.Apply)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("actor_id", actor.ID).
		Str("target_id", id).
		Str("change", change.String()).
		Strs("roles", updated.Roles.Strings()).
		Msg("admin privilege changed")
	return updated, nil
}
