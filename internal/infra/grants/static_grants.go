package grants

import (
	"context"
	"strings"

	"buzzugc/internal/domain"
	"buzzugc/internal/domain/model"
	"buzzugc/internal/domain/ports/repository"
)

var _ repository.GrantRepository = (*StaticGrants)(nil)

// StaticGrants is the config-backed allow-list of grandfathered users.
// Members may be listed by stable id or by email; emails match
// case-insensitively. A store-backed table can replace this without the
// resolver noticing.
type StaticGrants struct {
	plan    model.PlanID
	members map[string]struct{}
}

func NewStaticGrants(plan model.PlanID, members []string) *StaticGrants {
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" {
			set[m] = struct{}{}
		}
	}
	return &StaticGrants{plan: plan, members: set}
}

func (g *StaticGrants) FindGrant(ctx context.Context, userID, email string) (model.PlanID, error) {
	if _, ok := g.members[strings.ToLower(userID)]; ok {
		return g.plan, nil
	}
	if email != "" {
		if _, ok := g.members[strings.ToLower(email)]; ok {
			return g.plan, nil
		}
	}
	return "", domain.ErrNotFound
}
