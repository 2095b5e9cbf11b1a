package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"chat-core/internal/models"
)

type SummarizerMock struct {
	mock.Mock
}

func (m *SummarizerMock) Summarize(ctx context.Context, parentID uuid.UUID) (models.ThreadSummary, error) {
	args := m.Called(ctx, parentID)
	var summary models.ThreadSummary
	if val := args.Get(0); val != nil {
		summary = val.(models.ThreadSummary)
	}
	return summary, args.Error(1)
}

type SummaryCacheMock struct {
	mock.Mock
}

func (m *SummaryCacheMock) Get(ctx context.Context, parentID uuid.UUID) (models.ThreadSummary, uint64, bool, error) {
	args := m.Called(ctx, parentID)
	var summary models.ThreadSummary
	if val := args.Get(0); val != nil {
		summary = val.(models.ThreadSummary)
	}
	var generation uint64
	if val := args.Get(1); val != nil {
		generation = val.(uint64)
	}
	return summary, generation, args.Bool(2), args.Error(3)
}

func (m *SummaryCacheMock) Set(ctx context.Context, parentID uuid.UUID, generation uint64, summary models.ThreadSummary) error {
	args := m.Called(ctx, parentID, generation, summary)
	return args.Error(0)
}

func (m *SummaryCacheMock) Invalidate(ctx context.Context, parentID uuid.UUID) error {
	args := m.Called(ctx, parentID)
	return args.Error(0)
}
