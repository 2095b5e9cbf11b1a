package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chat-core/internal/apperrors"
	"chat-core/internal/models"
	"chat-core/internal/observability"
	"chat-core/internal/repositories"
)

const maxReactionLength = 32

// DedupeReactions groups raw reaction rows by value. Groups keep the order
// in which their value first appears, reactor ids keep row order, and each
// group carries its first row as a sample.
func DedupeReactions(rows []models.Reaction) []models.ReactionGroup {
	groups := []models.ReactionGroup{}
	index := map[string]int{}
	for _, row := range rows {
		i, ok := index[row.Value]
		if !ok {
			i = len(groups)
			index[row.Value] = i
			groups = append(groups, models.ReactionGroup{Value: row.Value, Sample: row, ReactorIDs: []uuid.UUID{}})
		}
		groups[i].Count++
		groups[i].ReactorIDs = append(groups[i].ReactorIDs, row.ReactorID)
	}
	return groups
}

type ReactionService struct {
	messages  repositories.MessageRepository
	reactions repositories.ReactionRepository
	scopes    scopeResolver
	notifier
}

func NewReactionService(
	messages repositories.MessageRepository,
	reactions repositories.ReactionRepository,
	conversations repositories.ConversationRepository,
	servers repositories.ServerRepository,
	friends repositories.FriendRepository,
	publisher EventPublisher,
	log *zap.Logger,
) *ReactionService {
	return &ReactionService{
		messages:  messages,
		reactions: reactions,
		scopes:    scopeResolver{conversations: conversations, servers: servers, friends: friends},
		notifier:  notifier{publisher: publisher, log: nopLogger(log).Named("reactions")},
	}
}

// ToggleReaction adds or removes the caller's value on a message. The caller
// reacts as a user in direct scope and as a member in server scopes.
func (s *ReactionService) ToggleReaction(ctx context.Context, messageID, callerID uuid.UUID, value string) (models.ToggleResult, error) {
	value = strings.TrimSpace(value)
	if value == "" || utf8.RuneCountInString(value) > maxReactionLength {
		return models.ToggleResult{}, apperrors.Validation("reaction must be between 1 and %d characters", maxReactionLength)
	}

	msg, err := s.messages.GetMessage(ctx, messageID)
	if errors.Is(err, repositories.ErrMessageNotFound) {
		return models.ToggleResult{}, apperrors.NotFound("message not found")
	}
	if err != nil {
		return models.ToggleResult{}, err
	}
	access, err := s.scopes.forMessage(ctx, callerID, msg)
	if err != nil {
		return models.ToggleResult{}, err
	}
	if err := s.scopes.writable(ctx, access); err != nil {
		return models.ToggleResult{}, err
	}

	result, err := s.reactions.Toggle(ctx, msg.ID, access.ActorID, value)
	if err != nil {
		return models.ToggleResult{}, err
	}

	observability.IncReactionToggle(string(result.Outcome))
	s.notify(ctx, "reaction.toggled", access.Room, map[string]any{
		"message_id":  msg.ID,
		"reactor_id":  access.ActorID,
		"value":       value,
		"outcome":     result.Outcome,
		"reaction_id": result.ReactionID,
	})
	return result, nil
}
