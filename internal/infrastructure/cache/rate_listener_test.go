package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingRefresher struct {
	calls int
	panic bool
}

func (r *countingRefresher) Refresh(context.Context) {
	r.calls++
	if r.panic {
		panic("boom")
	}
}

func TestRateListener_HandleNotification(t *testing.T) {
	refresher := &countingRefresher{}
	l := NewRateListener(nil, refresher)
	l.ctx = context.Background()

	l.handleNotification("other_channel", "")
	assert.Zero(t, refresher.calls)

	l.handleNotification(RatesChangedChannel, "GBP")
	assert.Equal(t, 1, refresher.calls)
	assert.Equal(t, 1, l.Received())
}

func TestRateListener_RefreshPanicIsContained(t *testing.T) {
	refresher := &countingRefresher{panic: true}
	l := NewRateListener(nil, refresher)
	l.ctx = context.Background()

	assert.NotPanics(t, func() { l.handleNotification(RatesChangedChannel, "USD") })
	assert.Zero(t, l.Received())
}

func TestRateListener_StopWithoutStart(t *testing.T) {
	l := NewRateListener(nil, &countingRefresher{})
	assert.NotPanics(t, l.Stop)
}
