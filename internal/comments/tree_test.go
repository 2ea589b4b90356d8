package comments

import (
	"testing"

	"github.com/nexusfeed/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestBuildTree(t *testing.T) {
	flat := []models.Comment{
		{ID: 1, PostID: 10, Content: "first root"},
		{ID: 2, PostID: 10, ParentID: uintPtr(1), Content: "reply to first"},
		{ID: 3, PostID: 10, Content: "second root"},
		{ID: 4, PostID: 10, ParentID: uintPtr(1), Content: "another reply to first"},
		{ID: 5, PostID: 10, ParentID: uintPtr(3), Content: "reply to second"},
	}

	roots := BuildTree(flat)
	require.Len(t, roots, 2)

	assert.Equal(t, uint(1), roots[0].ID)
	require.Len(t, roots[0].Replies, 2)
	assert.Equal(t, uint(2), roots[0].Replies[0].ID)
	assert.Equal(t, uint(4), roots[0].Replies[1].ID)

	assert.Equal(t, uint(3), roots[1].ID)
	require.Len(t, roots[1].Replies, 1)
	assert.Equal(t, uint(5), roots[1].Replies[0].ID)
}

func TestBuildTreeOrphanBecomesRoot(t *testing.T) {
	// Parent 99 is absent, as after its author was blocked or it was deleted
	flat := []models.Comment{
		{ID: 1, PostID: 10, Content: "root"},
		{ID: 2, PostID: 10, ParentID: uintPtr(99), Content: "orphan"},
	}

	roots := BuildTree(flat)
	require.Len(t, roots, 2)
	assert.Equal(t, uint(1), roots[0].ID)
	assert.Equal(t, uint(2), roots[1].ID)
	assert.Empty(t, roots[1].Replies)
}

func TestBuildTreeEmpty(t *testing.T) {
	assert.Empty(t, BuildTree(nil))
	assert.Empty(t, BuildTree([]models.Comment{}))
}

func TestBuildTreeDeterministic(t *testing.T) {
	flat := []models.Comment{
		{ID: 1, PostID: 10},
		{ID: 2, PostID: 10, ParentID: uintPtr(1)},
		{ID: 3, PostID: 10},
	}

	first := BuildTree(flat)
	second := BuildTree(flat)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, len(first[i].Replies), len(second[i].Replies))
	}
}
