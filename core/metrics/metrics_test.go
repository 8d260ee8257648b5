package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewTimer(t *testing.T) {
	var got []float64
	tm := NewTimer(func(s float64) { got = append(got, s) })
	time.Sleep(5 * time.Millisecond)
	tm.ObserveDuration()

	require.Len(t, got, 1)
	require.GreaterOrEqual(t, got[0], 0.005)
}

func TestNopTimer(t *testing.T) {
	require.NotPanics(t, func() { NopTimer().ObserveDuration() })
}
