package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelationRefConstructors(t *testing.T) {
	e := EventRef(7)
	assert.Equal(t, RelationEvent, e.Kind())
	assert.Equal(t, int64(7), e.TargetID())
	assert.False(t, e.IsZero())

	td := TodoRef(3)
	assert.Equal(t, RelationTodo, td.Kind())
	assert.Equal(t, int64(3), td.TargetID())

	var zero RelationRef
	assert.True(t, zero.IsZero())
}

func TestMergeRefsDeduplicates(t *testing.T) {
	refs := MergeRefs([]int64{1, 2, 1}, []int64{2, 2})
	assert.Equal(t, []RelationRef{EventRef(1), EventRef(2), TodoRef(2)}, refs)
}

func TestMergeRefsEmpty(t *testing.T) {
	refs := MergeRefs(nil, nil)
	assert.Empty(t, refs)
}
