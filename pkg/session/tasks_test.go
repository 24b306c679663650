package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTasksDoneAcceptsOnce(t *testing.T) {
	tasks := NewTasks(context.Background())
	id, ctx := tasks.Start()

	assert.Equal(t, 1, tasks.Pending())
	assert.True(t, tasks.Done(id))
	assert.False(t, tasks.Done(id), "a task settles only once")
	assert.Error(t, ctx.Err(), "settled task context is released")
	assert.Equal(t, 0, tasks.Pending())
}

func TestTasksCancelRejectsResult(t *testing.T) {
	tasks := NewTasks(context.Background())
	id, ctx := tasks.Start()

	tasks.Cancel(id)

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.False(t, tasks.Done(id))
}

func TestTasksCloseCancelsEverything(t *testing.T) {
	tasks := NewTasks(context.Background())
	id1, ctx1 := tasks.Start()
	id2, ctx2 := tasks.Start()

	tasks.Close()
	tasks.Close()

	assert.True(t, tasks.Closed())
	assert.ErrorIs(t, ctx1.Err(), context.Canceled)
	assert.ErrorIs(t, ctx2.Err(), context.Canceled)
	assert.False(t, tasks.Done(id1))
	assert.False(t, tasks.Done(id2))

	id3, ctx3 := tasks.Start()
	assert.ErrorIs(t, ctx3.Err(), context.Canceled, "tasks started after Close are born cancelled")
	assert.False(t, tasks.Done(id3))
}

func TestTasksFollowParent(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	tasks := NewTasks(parent)
	_, ctx := tasks.Start()

	cancel()

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
