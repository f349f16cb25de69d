package commands

import (
	"context"
	"fmt"

	"projecthub/microservices/progress-service/models"
	"projecthub/microservices/progress-service/services"
)

// AuthorizeTeamMemberAdd checks that the caller may add members to teamID.
func AuthorizeTeamMemberAdd(ctx context.Context, deps *Dependencies, identity *models.Identity, teamID int64) error {
	if identity == nil {
		return services.ErrUnauthenticated
	}
	team, err := deps.Svc.GetTeam(ctx, teamID)
	if err != nil {
		return fmt.Errorf("failed to load team %d: %w", teamID, err)
	}
	return deps.Permissions.CanManageTeamMembers(identity, team)
}

// AuthorizeTeamMemberRemove checks that the caller may remove the membership memberID.
func AuthorizeTeamMemberRemove(ctx context.Context, deps *Dependencies, identity *models.Identity, memberID int64) error {
	if identity == nil {
		return services.ErrUnauthenticated
	}
	member, err := deps.Svc.GetTeamMember(ctx, memberID)
	if err != nil {
		return fmt.Errorf("failed to load team member %d: %w", memberID, err)
	}
	return AuthorizeTeamMemberAdd(ctx, deps, identity, member.TeamID)
}
