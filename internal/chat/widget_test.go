package chat

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWidget_SeededWithGreeting(t *testing.T) {
	w := NewWidget(nil, WidgetOptions{})
	msgs := w.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, 1, msgs[0].ID)
	assert.Equal(t, Greeting, msgs[0].Text)
	assert.False(t, msgs[0].IsUser)
}

func TestWidget_SendAppendsThenReplies(t *testing.T) {
	w := NewWidget(nil, WidgetOptions{Delay: 10 * time.Millisecond})
	defer w.Close()

	msg, replies, err := w.Send("What payment options?")
	require.NoError(t, err)
	assert.Equal(t, 2, msg.ID)
	assert.True(t, msg.IsUser)
	assert.Len(t, w.Messages(), 2)

	select {
	case reply := <-replies:
		assert.Equal(t, 3, reply.ID)
		assert.Equal(t, replyFor("payment"), reply.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("reply never arrived")
	}
	assert.Len(t, w.Messages(), 3)
	assert.Equal(t, 0, w.Pending())
}

func TestWidget_BlankInputIgnored(t *testing.T) {
	w := NewWidget(nil, WidgetOptions{})
	_, _, err := w.Send("   \t")
	assert.ErrorIs(t, err, ErrBlankMessage)
	assert.Len(t, w.Messages(), 1)
}

func TestWidget_CloseCancelsPendingReplies(t *testing.T) {
	var calls int
	var mu sync.Mutex
	w := NewWidget(nil, WidgetOptions{
		Delay: time.Hour,
		OnReply: func(Message) {
			mu.Lock()
			calls++
			mu.Unlock()
		},
	})

	_, replies, err := w.Send("help")
	require.NoError(t, err)
	assert.Equal(t, 1, w.Pending())

	w.Close()
	w.Close()

	_, ok := <-replies
	assert.False(t, ok)
	assert.Equal(t, 0, w.Pending())
	assert.Len(t, w.Messages(), 2)

	_, _, err = w.Send("hello again")
	assert.ErrorIs(t, err, ErrWidgetClosed)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, calls)
}

func TestWidget_IDsFollowPosition(t *testing.T) {
	w := NewWidget(nil, WidgetOptions{})
	defer w.Close()

	for _, text := range []string{"fee", "doctor"} {
		_, replies, err := w.Send(text)
		require.NoError(t, err)
		<-replies
	}
	msgs := w.Messages()
	require.Len(t, msgs, 5)
	for i, m := range msgs {
		assert.Equal(t, i+1, m.ID)
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(nil, WidgetOptions{Delay: time.Hour})

	id, w := reg.Open("client@example.com")
	_, _, err := w.Send("help")
	require.NoError(t, err)

	_, ok := reg.Get(id, "other@example.com")
	assert.False(t, ok)
	got, ok := reg.Get(id, "client@example.com")
	require.True(t, ok)
	assert.Same(t, w, got)

	anonID, _ := reg.Open("")
	assert.Equal(t, 2, reg.Len())
	assert.True(t, reg.Remove(anonID, ""))
	assert.False(t, reg.Remove(anonID, ""))

	reg.CloseAll()
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, 0, w.Pending())
}
