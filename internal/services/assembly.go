package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"chat-core/internal/apperrors"
	"chat-core/internal/models"
	"chat-core/internal/observability"
	"chat-core/internal/repositories"
)

const assemblyConcurrency = 8

// Assembler builds the client view of messages: author identity, grouped
// reactions, thread preview and media URL per row.
type Assembler struct {
	messages  repositories.MessageRepository
	reactions repositories.ReactionRepository
	scopes    scopeResolver
	authors   *AuthorResolver
	threads   Summarizer
	media     *MediaResolver
	log       *zap.Logger
}

func NewAssembler(
	messages repositories.MessageRepository,
	reactions repositories.ReactionRepository,
	conversations repositories.ConversationRepository,
	servers repositories.ServerRepository,
	authors *AuthorResolver,
	threads Summarizer,
	media *MediaResolver,
	log *zap.Logger,
) *Assembler {
	return &Assembler{
		messages:  messages,
		reactions: reactions,
		scopes:    scopeResolver{conversations: conversations, servers: servers},
		authors:   authors,
		threads:   threads,
		media:     media,
		log:       nopLogger(log).Named("assembly"),
	}
}

// GetPage returns one newest-first page of assembled messages. Rows whose
// author no longer resolves are left out; the cursor still advances past them.
func (a *Assembler) GetPage(ctx context.Context, sel models.ScopeSelector, opts models.PageOptions, callerID uuid.UUID) (models.Page[models.AssembledMessage], error) {
	ctx, span := otel.Tracer("chat-core/services").Start(ctx, "assembly.page")
	defer span.End()

	if sel.Count() != 1 {
		return models.Page[models.AssembledMessage]{}, apperrors.Validation("exactly one of channel_id, conversation_id or parent_message_id is required")
	}
	if err := a.authorize(ctx, sel, callerID); err != nil {
		return models.Page[models.AssembledMessage]{}, err
	}

	page, err := a.messages.Paginate(ctx, sel, opts)
	if errors.Is(err, repositories.ErrInvalidCursor) {
		return models.Page[models.AssembledMessage]{}, apperrors.Validation("invalid cursor")
	}
	if err != nil {
		return models.Page[models.AssembledMessage]{}, err
	}
	span.SetAttributes(attribute.Int("assembly.rows", len(page.Items)))

	items, err := a.assemble(ctx, page.Items)
	if err != nil {
		return models.Page[models.AssembledMessage]{}, err
	}
	return models.Page[models.AssembledMessage]{Items: items, Cursor: page.Cursor, IsDone: page.IsDone, HasMore: page.HasMore}, nil
}

// GetMessage assembles a single message. It returns nil without error when
// the author can no longer be resolved.
func (a *Assembler) GetMessage(ctx context.Context, messageID, callerID uuid.UUID) (*models.AssembledMessage, error) {
	ctx, span := otel.Tracer("chat-core/services").Start(ctx, "assembly.message", trace.WithAttributes(attribute.String("message.id", messageID.String())))
	defer span.End()

	msg, err := a.messages.GetMessage(ctx, messageID)
	if errors.Is(err, repositories.ErrMessageNotFound) {
		return nil, apperrors.NotFound("message not found")
	}
	if err != nil {
		return nil, err
	}
	if _, err := a.scopes.forMessage(ctx, callerID, msg); err != nil {
		return nil, err
	}

	items, err := a.assemble(ctx, []models.Message{msg})
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return &items[0], nil
}

func (a *Assembler) authorize(ctx context.Context, sel models.ScopeSelector, callerID uuid.UUID) error {
	if sel.ParentMessageID == nil {
		_, err := a.scopes.forSelector(ctx, callerID, sel)
		return err
	}
	parent, err := a.messages.GetMessage(ctx, *sel.ParentMessageID)
	if errors.Is(err, repositories.ErrMessageNotFound) {
		return apperrors.NotFound("parent message not found")
	}
	if err != nil {
		return err
	}
	_, err = a.scopes.forMessage(ctx, callerID, parent)
	return err
}

func (a *Assembler) assemble(ctx context.Context, msgs []models.Message) ([]models.AssembledMessage, error) {
	if len(msgs) == 0 {
		return []models.AssembledMessage{}, nil
	}

	authors, err := a.authors.Resolve(ctx, msgs)
	if err != nil {
		return nil, err
	}
	reactions, err := a.reactions.ListForMessages(ctx, lo.Map(msgs, func(m models.Message, _ int) uuid.UUID { return m.ID }))
	if err != nil {
		return nil, err
	}

	rows := make([]*models.AssembledMessage, len(msgs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(assemblyConcurrency)
	for i, msg := range msgs {
		author, ok := authors[msg.AuthorID]
		if !ok {
			observability.IncAssemblyDropped("author")
			a.log.Debug("dropping message with unresolved author", zap.Stringer("message_id", msg.ID), zap.Stringer("author_id", msg.AuthorID))
			continue
		}
		i, msg := i, msg
		g.Go(func() error {
			summary, err := a.threads.Summarize(gctx, msg.ID)
			if err != nil {
				return fmt.Errorf("thread summary of %s: %w", msg.ID, err)
			}
			rows[i] = &models.AssembledMessage{
				Message:   msg,
				User:      author,
				ImageURL:  a.media.URL(msg.ImageRef),
				Reactions: DedupeReactions(reactions[msg.ID]),
				Thread:    summary,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return lo.FilterMap(rows, func(row *models.AssembledMessage, _ int) (models.AssembledMessage, bool) {
		if row == nil {
			return models.AssembledMessage{}, false
		}
		return *row, true
	}), nil
}
