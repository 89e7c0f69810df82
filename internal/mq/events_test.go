package mq

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceEventRoutingKey(t *testing.T) {
	ev := ResourceEvent{Resource: "project", Action: ActionCreated}
	assert.Equal(t, "project.created", ev.RoutingKey())

	ev = ResourceEvent{Resource: "task", Action: ActionDeleted}
	assert.Equal(t, "task.deleted", ev.RoutingKey())
}

func TestResourceEventOmitsNilRecord(t *testing.T) {
	ev := ResourceEvent{
		Resource:   "task",
		Action:     ActionDeleted,
		ID:         3,
		OccurredAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, "record")
	assert.Equal(t, "task", raw["resource"])
}
