package hook

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func passThrough(_ context.Context, _ string, d any) (any, error) { return d, nil }

func TestTrigger_NoHandlers(t *testing.T) {
	hc := NewHookCenter(zap.NewNop())
	out, err := hc.Trigger(context.Background(), "noop", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, out)
	assert.False(t, hc.Has("noop"))
}

func TestTrigger_NilCenterPassesThrough(t *testing.T) {
	var hc *HookCenter
	out, err := hc.Trigger(context.Background(), BeforeDamageCalc, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, out)
	assert.False(t, hc.Has(BeforeDamageCalc))
}

func TestTrigger_DamagePayloadModified(t *testing.T) {
	hc := NewHookCenter(zap.NewNop())
	hc.Register(BeforeDamageCalc, 0, "double", func(_ context.Context, _ string, d any) (any, error) {
		p := d.(*DamagePayload)
		p.Amount *= 2
		return p, nil
	})
	hc.Register(BeforeDamageCalc, 1, "plus_one", func(_ context.Context, _ string, d any) (any, error) {
		p := d.(*DamagePayload)
		p.Amount++
		return p, nil
	})
	p := &DamagePayload{Source: SourcePlayer, Base: 20, Amount: 20}
	_, err := hc.Trigger(context.Background(), BeforeDamageCalc, p)
	require.NoError(t, err)
	assert.Equal(t, 41, p.Amount)
	assert.True(t, hc.Has(BeforeDamageCalc))
}

func TestTrigger_PriorityOrder(t *testing.T) {
	hc := NewHookCenter(zap.NewNop())
	var order []string
	reg := func(prio int, name string) {
		hc.Register("ev", prio, name, func(_ context.Context, _ string, d any) (any, error) {
			order = append(order, name)
			return d, nil
		})
	}
	reg(10, "high")
	reg(1, "low")
	reg(5, "mid")
	reg(5, "mid2")
	_, _ = hc.Trigger(context.Background(), "ev", nil)
	assert.Equal(t, []string{"low", "mid", "mid2", "high"}, order)
}

func TestTrigger_ErrInterrupt(t *testing.T) {
	hc := NewHookCenter(zap.NewNop())
	var secondCalled bool
	hc.Register(BeforeItemUse, 0, "deny", func(_ context.Context, _ string, d any) (any, error) {
		return d, ErrInterrupt
	})
	hc.Register(BeforeItemUse, 1, "should_not_run", func(_ context.Context, _ string, d any) (any, error) {
		secondCalled = true
		return d, nil
	})
	_, err := hc.Trigger(context.Background(), BeforeItemUse, &EntityPayload{ID: 1, Kind: "health"})
	assert.True(t, errors.Is(err, ErrInterrupt))
	assert.False(t, secondCalled)
}

func TestTrigger_NonInterruptError_Continues(t *testing.T) {
	hc := NewHookCenter(zap.NewNop())
	var secondCalled bool
	hc.Register("ev", 0, "err", func(_ context.Context, _ string, d any) (any, error) {
		return d, errors.New("some error")
	})
	hc.Register("ev", 1, "second", func(_ context.Context, _ string, d any) (any, error) {
		secondCalled = true
		return d, nil
	})
	_, err := hc.Trigger(context.Background(), "ev", nil)
	assert.NoError(t, err)
	assert.True(t, secondCalled)
}

func TestUnregister_OnlyNamed(t *testing.T) {
	hc := NewHookCenter(zap.NewNop())
	var c1, c2 bool
	hc.Register("ev", 0, "h1", func(_ context.Context, _ string, d any) (any, error) { c1 = true; return d, nil })
	hc.Register("ev", 1, "h2", func(_ context.Context, _ string, d any) (any, error) { c2 = true; return d, nil })
	hc.Unregister("ev", "h1")
	_, _ = hc.Trigger(context.Background(), "ev", nil)
	assert.False(t, c1)
	assert.True(t, c2)
}

func TestUnregisterAll(t *testing.T) {
	hc := NewHookCenter(zap.NewNop())
	hc.Register(OnRoundStart, 0, "plugin", passThrough)
	hc.Register(OnRoundEnd, 0, "plugin", passThrough)
	hc.Register(OnRoundEnd, 0, "other", passThrough)
	hc.UnregisterAll("plugin")
	assert.False(t, hc.Has(OnRoundStart))
	assert.True(t, hc.Has(OnRoundEnd))
}

func TestTrigger_PanicSkipsHandler(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	hc := NewHookCenter(logger)
	hc.Register("ev", 0, "boom", func(_ context.Context, _ string, d any) (any, error) {
		panic("bad plugin")
	})
	hc.Register("ev", 1, "inc", func(_ context.Context, _ string, d any) (any, error) {
		return d.(int) + 1, nil
	})
	out, err := hc.Trigger(context.Background(), "ev", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, out)
}

func TestAllowAndNotify(t *testing.T) {
	var nilCenter *HookCenter
	assert.True(t, nilCenter.Allow(context.Background(), BeforeItemUse, nil))
	nilCenter.Notify(context.Background(), AfterItemUse, nil)

	hc := NewHookCenter(nil)
	assert.True(t, hc.Allow(context.Background(), BeforeItemUse, nil))

	var seen []string
	hc.Register(AfterEnemyDeath, 0, "log", func(_ context.Context, event string, d any) (any, error) {
		seen = append(seen, event)
		return d, nil
	})
	hc.Notify(context.Background(), AfterEnemyDeath, &EntityPayload{ID: 3, Kind: "enemy"})
	assert.Equal(t, []string{AfterEnemyDeath}, seen)

	hc.Register(BeforeItemUse, 0, "deny", func(_ context.Context, _ string, d any) (any, error) {
		return d, ErrInterrupt
	})
	assert.False(t, hc.Allow(context.Background(), BeforeItemUse, nil))
}
