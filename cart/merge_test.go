package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livwell/models"
)

func TestMergeNoneKeepsCartsApart(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger()
	guest, user := models.Guest("sid"), models.Authenticated("user-1")

	_, err := l.AddItem(ctx, guest, juice("1", 1, "69.99"))
	require.NoError(t, err)

	items, err := l.Merge(ctx, guest, user, MergeNone)
	require.NoError(t, err)
	assert.Empty(t, items)

	guestItems, err := l.Items(ctx, guest)
	require.NoError(t, err)
	assert.Len(t, guestItems, 1)
}

func TestMergeAdopt(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger()
	guest, user := models.Guest("sid"), models.Authenticated("user-1")

	_, err := l.AddItem(ctx, user, juice("1", 1, "69.99"))
	require.NoError(t, err)
	_, err = l.AddItem(ctx, guest, juice("1", 2, "69.99"))
	require.NoError(t, err)
	_, err = l.AddItem(ctx, guest, custom("Mine", 45))
	require.NoError(t, err)

	items, err := l.Merge(ctx, guest, user, MergeAdopt)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Quantity)
	assert.True(t, items[1].IsCustom)

	guestItems, err := l.Items(ctx, guest)
	require.NoError(t, err)
	assert.Empty(t, guestItems)
}

func TestParseMergePolicy(t *testing.T) {
	p, err := ParseMergePolicy("")
	require.NoError(t, err)
	assert.Equal(t, MergeNone, p)

	p, err = ParseMergePolicy("adopt")
	require.NoError(t, err)
	assert.Equal(t, MergeAdopt, p)

	_, err = ParseMergePolicy("steal")
	assert.Error(t, err)
}
