package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, ch <-chan *LocalMessage) *LocalMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(200 * time.Millisecond):
		t.Fatal("no message")
		return nil
	}
}

func TestPubSub_DeliversToEverySubscriber(t *testing.T) {
	ps := NewPubSub(8)
	ctx := context.Background()

	a, cancelA, err := ps.Subscribe(ctx, "arena:hud")
	require.NoError(t, err)
	defer cancelA()
	b, cancelB, err := ps.Subscribe(ctx, "arena:hud", "arena:debug")
	require.NoError(t, err)
	defer cancelB()

	require.NoError(t, ps.Publish(ctx, "arena:hud", `{"score":10}`))
	for _, ch := range []<-chan *LocalMessage{a, b} {
		msg := recv(t, ch)
		assert.Equal(t, "arena:hud", msg.Channel)
		assert.JSONEq(t, `{"score":10}`, msg.Payload)
	}

	require.NoError(t, ps.Publish(ctx, "arena:debug", "x"))
	assert.Equal(t, "arena:debug", recv(t, b).Channel)
	assert.Empty(t, a)
}

func TestPubSub_CancelClosesAndUnsubscribes(t *testing.T) {
	ps := NewPubSub(4)
	ch, cancel, err := ps.Subscribe(context.Background(), "hud", "score")
	require.NoError(t, err)
	assert.Equal(t, 1, ps.Subscribers("hud"))
	assert.Equal(t, 1, ps.Subscribers("score"))

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, ps.Subscribers("hud"))
	assert.Equal(t, 0, ps.Subscribers("score"))
	assert.NoError(t, ps.Publish(context.Background(), "hud", "late"))
}

func TestPubSub_ContextEndsSubscription(t *testing.T) {
	ps := NewPubSub(4)
	ctx, stop := context.WithCancel(context.Background())
	ch, cancel, err := ps.Subscribe(ctx, "timer")
	require.NoError(t, err)
	defer cancel()

	stop()
	assert.Eventually(t, func() bool { return ps.Subscribers("timer") == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-ch
	assert.False(t, open)
}

func TestPubSub_FullBufferDrops(t *testing.T) {
	ps := NewPubSub(2)
	ctx := context.Background()
	ch, cancel, _ := ps.Subscribe(ctx, "timer")
	defer cancel()

	for i := 0; i < 5; i++ {
		require.NoError(t, ps.Publish(ctx, "timer", "tick"))
	}
	assert.Len(t, ch, 2)
}

func TestPubSub_DefaultBuffer(t *testing.T) {
	ps := NewPubSub(0)
	ch, cancel, _ := ps.Subscribe(context.Background(), "c")
	defer cancel()
	assert.Equal(t, 256, cap(ch))
}

func TestPubSub_CloseEndsSubscriptions(t *testing.T) {
	ps := NewPubSub(4)
	ch, cancel, err := ps.Subscribe(context.Background(), "hud", "timer")
	require.NoError(t, err)

	require.NoError(t, ps.Close())
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, ps.Subscribers("hud"))
	assert.NotPanics(t, cancel)
	assert.NoError(t, ps.Publish(context.Background(), "hud", "late"))
}
