package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-core/internal/models"
)

func TestDedupeReactionsGroupsByValue(t *testing.T) {
	r1, r2, r3 := uuid.New(), uuid.New(), uuid.New()
	rows := []models.Reaction{
		{ID: uuid.New(), ReactorID: r1, Value: "🔥"},
		{ID: uuid.New(), ReactorID: r2, Value: "👍"},
		{ID: uuid.New(), ReactorID: r2, Value: "🔥"},
		{ID: uuid.New(), ReactorID: r3, Value: "🔥"},
	}

	groups := DedupeReactions(rows)

	require.Len(t, groups, 2)
	assert.Equal(t, "🔥", groups[0].Value)
	assert.Equal(t, 3, groups[0].Count)
	assert.Equal(t, []uuid.UUID{r1, r2, r3}, groups[0].ReactorIDs)
	assert.Equal(t, rows[0].ID, groups[0].Sample.ID)
	assert.Equal(t, "👍", groups[1].Value)
	assert.Equal(t, 1, groups[1].Count)
	assert.Equal(t, rows[1].ID, groups[1].Sample.ID)
}

func TestDedupeReactionsCountsMatchRows(t *testing.T) {
	values := []string{"a", "b", "a", "c", "b", "a"}
	rows := make([]models.Reaction, 0, len(values))
	for _, v := range values {
		rows = append(rows, models.Reaction{ID: uuid.New(), ReactorID: uuid.New(), Value: v})
	}

	total := 0
	for _, g := range DedupeReactions(rows) {
		assert.Len(t, g.ReactorIDs, g.Count)
		total += g.Count
	}
	assert.Equal(t, len(rows), total)
}

func TestDedupeReactionsEmpty(t *testing.T) {
	groups := DedupeReactions(nil)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}
