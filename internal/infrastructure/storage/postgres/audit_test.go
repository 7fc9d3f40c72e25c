package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff_ChangedField(t *testing.T) {
	oldState := map[string]any{"name": "Main Warehouse", "is_active": true}
	newState := map[string]any{"name": "Central Warehouse", "is_active": true}

	changes := Diff(oldState, newState)

	assert.Len(t, changes, 1)
	assert.Equal(t, map[string]any{"old": "Main Warehouse", "new": "Central Warehouse"}, changes["name"])
}

func TestDiff_AddedAndRemovedFields(t *testing.T) {
	oldState := map[string]any{"code": "WH-01"}
	newState := map[string]any{"comment": "relocated"}

	changes := Diff(oldState, newState)

	assert.Equal(t, map[string]any{"old": nil, "new": "relocated"}, changes["comment"])
	assert.Equal(t, map[string]any{"old": "WH-01", "new": nil}, changes["code"])
}

func TestDiff_NoChanges(t *testing.T) {
	state := map[string]any{"name": "Main Warehouse", "version": 3}

	changes := Diff(state, map[string]any{"name": "Main Warehouse", "version": 3})

	assert.Empty(t, changes)
}
