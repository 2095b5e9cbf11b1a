package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"chat-core/internal/models"
	"chat-core/internal/repositories"
)

// AuthorResolver turns message author ids into display identities in two
// batched lookups: members first for server scopes, then users.
type AuthorResolver struct {
	users   repositories.UserRepository
	servers repositories.ServerRepository
	media   *MediaResolver
}

func NewAuthorResolver(users repositories.UserRepository, servers repositories.ServerRepository, media *MediaResolver) *AuthorResolver {
	return &AuthorResolver{users: users, servers: servers, media: media}
}

// Resolve maps each resolvable AuthorID to its Author. Authors whose user or
// member row is gone are absent from the map.
func (r *AuthorResolver) Resolve(ctx context.Context, msgs []models.Message) (map[uuid.UUID]models.Author, error) {
	var userIDs, memberIDs []uuid.UUID
	for _, msg := range msgs {
		if msg.ScopeKind.ServerScoped() {
			memberIDs = append(memberIDs, msg.AuthorID)
		} else {
			userIDs = append(userIDs, msg.AuthorID)
		}
	}

	members, err := r.servers.GetMembersByIDs(ctx, lo.Uniq(memberIDs))
	if err != nil {
		return nil, err
	}
	userIDs = append(userIDs, lo.Map(members, func(m models.ServerMember, _ int) uuid.UUID { return m.UserID })...)

	users, err := r.users.GetUsersByIDs(ctx, lo.Uniq(userIDs))
	if err != nil {
		return nil, err
	}
	byUser := lo.KeyBy(users, func(u models.User) uuid.UUID { return u.ID })

	authors := make(map[uuid.UUID]models.Author, len(users)+len(members))
	for _, u := range users {
		authors[u.ID] = r.author(u, nil)
	}
	for _, m := range members {
		m := m
		if u, ok := byUser[m.UserID]; ok {
			authors[m.ID] = r.author(u, &m.ID)
		}
	}
	return authors, nil
}

func (r *AuthorResolver) author(u models.User, memberID *uuid.UUID) models.Author {
	return models.Author{
		ID:        u.ID,
		MemberID:  memberID,
		Name:      u.Name,
		AvatarURL: r.media.URL(u.AvatarRef),
	}
}
