package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chat-core/internal/models"
	"chat-core/internal/repositories"
)

// Summarizer produces the thread preview of one parent message.
type Summarizer interface {
	Summarize(ctx context.Context, parentID uuid.UUID) (models.ThreadSummary, error)
}

// ReplySummarizer computes the summary from the stored replies on every call.
type ReplySummarizer struct {
	messages repositories.MessageRepository
	authors  *AuthorResolver
}

func NewReplySummarizer(messages repositories.MessageRepository, authors *AuthorResolver) *ReplySummarizer {
	return &ReplySummarizer{messages: messages, authors: authors}
}

func (s *ReplySummarizer) Summarize(ctx context.Context, parentID uuid.UUID) (models.ThreadSummary, error) {
	replies, err := s.messages.ListReplies(ctx, parentID)
	if err != nil {
		return models.ThreadSummary{}, err
	}
	if len(replies) == 0 {
		return models.ThreadSummary{}, nil
	}

	last := replies[len(replies)-1]
	summary := models.ThreadSummary{Count: len(replies), LastReplyAt: last.CreatedAt.Time}
	authors, err := s.authors.Resolve(ctx, []models.Message{last})
	if err != nil {
		return models.ThreadSummary{}, err
	}
	if author, ok := authors[last.AuthorID]; ok {
		summary.LastReplierName = author.Name
		summary.LastReplierAvatar = author.AvatarURL
	}
	return summary, nil
}

// SummaryCache stores computed summaries by parent id. Get reports the
// generation it observed; Set drops a write for a generation that an
// Invalidate has already replaced.
type SummaryCache interface {
	Get(ctx context.Context, parentID uuid.UUID) (models.ThreadSummary, uint64, bool, error)
	Set(ctx context.Context, parentID uuid.UUID, generation uint64, summary models.ThreadSummary) error
	Invalidate(ctx context.Context, parentID uuid.UUID) error
}

// ThreadInvalidator drops a cached summary after its thread changed.
type ThreadInvalidator interface {
	Invalidate(ctx context.Context, parentID uuid.UUID) error
}

// CachedSummarizer serves summaries from a cache and falls back to the
// wrapped Summarizer. Cache failures degrade to recomputation.
type CachedSummarizer struct {
	inner Summarizer
	cache SummaryCache
	log   *zap.Logger
}

func NewCachedSummarizer(inner Summarizer, cache SummaryCache, log *zap.Logger) *CachedSummarizer {
	return &CachedSummarizer{inner: inner, cache: cache, log: nopLogger(log).Named("threads")}
}

func (s *CachedSummarizer) Summarize(ctx context.Context, parentID uuid.UUID) (models.ThreadSummary, error) {
	summary, generation, ok, cacheErr := s.cache.Get(ctx, parentID)
	if cacheErr != nil {
		s.log.Warn("summary cache read failed", zap.Stringer("parent_id", parentID), zap.Error(cacheErr))
	}
	if ok {
		return summary, nil
	}

	summary, err := s.inner.Summarize(ctx, parentID)
	if err != nil {
		return models.ThreadSummary{}, err
	}
	if cacheErr != nil {
		return summary, nil
	}
	if err := s.cache.Set(ctx, parentID, generation, summary); err != nil {
		s.log.Warn("summary cache write failed", zap.Stringer("parent_id", parentID), zap.Error(err))
	}
	return summary, nil
}

func (s *CachedSummarizer) Invalidate(ctx context.Context, parentID uuid.UUID) error {
	return s.cache.Invalidate(ctx, parentID)
}
