package history

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAt(seq uint64, o Outcome) Sample {
	return Sample{Seq: seq, SentAt: time.Unix(int64(seq), 0), Outcome: o}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		expected int
	}{
		{"default capacity", 0, DefaultCapacity},
		{"negative capacity", -3, DefaultCapacity},
		{"custom capacity", 300, 300},
		{"single slot", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(tt.capacity)
			assert.Equal(t, tt.expected, h.Capacity())
			assert.Equal(t, 0, h.Len())
			assert.Equal(t, Totals{}, h.Totals())
		})
	}
}

func TestAppend_LengthAndTotals(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		appends  int
	}{
		{"empty", 10, 0},
		{"under capacity", 10, 4},
		{"exactly full", 10, 10},
		{"overflow", 10, 25},
		{"capacity one", 1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(tt.capacity)
			for i := 0; i < tt.appends; i++ {
				require.NoError(t, h.Append(sampleAt(uint64(i), Succeeded(time.Millisecond))))
			}

			want := tt.appends
			if want > tt.capacity {
				want = tt.capacity
			}
			snap := h.Snapshot()
			assert.Len(t, snap.Samples, want)
			assert.Equal(t, uint64(tt.appends), snap.Totals.Sent)
			assert.GreaterOrEqual(t, snap.Totals.Sent, uint64(len(snap.Samples)))
		})
	}
}

func TestAppend_EvictsOldestFirst(t *testing.T) {
	h := New(5)
	for i := 0; i < 12; i++ {
		require.NoError(t, h.Append(sampleAt(uint64(i), Succeeded(time.Duration(i)*time.Millisecond))))
	}

	snap := h.Snapshot()
	require.Len(t, snap.Samples, 5)
	for i, s := range snap.Samples {
		assert.Equal(t, uint64(7+i), s.Seq, "index %d", i)
	}
}

func TestAppend_LossSurvivesEviction(t *testing.T) {
	h := New(10)
	// 30 losses spread over 100 probes, mostly evicted by the end
	for i := 0; i < 100; i++ {
		o := Succeeded(20 * time.Millisecond)
		if i%10 < 3 {
			o = TimedOut()
		}
		require.NoError(t, h.Append(sampleAt(uint64(i), o)))
	}

	totals := h.Totals()
	assert.Equal(t, uint64(100), totals.Sent)
	assert.Equal(t, uint64(30), totals.Lost)
	assert.Equal(t, uint64(70), totals.Succeeded)
	assert.Equal(t, 10, h.Len())
}

func TestAppend_ErrorsCountAsLost(t *testing.T) {
	h := New(4)
	require.NoError(t, h.Append(sampleAt(0, Failed(ErrUnreachable))))
	require.NoError(t, h.Append(sampleAt(1, TimedOut())))
	require.NoError(t, h.Append(sampleAt(2, Succeeded(time.Millisecond))))

	totals := h.Totals()
	assert.Equal(t, Totals{Sent: 3, Succeeded: 1, Lost: 2}, totals)
}

func TestAppend_RejectsOutOfOrder(t *testing.T) {
	h := New(4)
	require.NoError(t, h.Append(sampleAt(5, TimedOut())))

	assert.Error(t, h.Append(sampleAt(5, TimedOut())))
	assert.Error(t, h.Append(sampleAt(2, TimedOut())))

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, uint64(1), h.Totals().Sent)

	// First sample may start at zero
	fresh := New(4)
	assert.NoError(t, fresh.Append(sampleAt(0, TimedOut())))
}

func TestSnapshot_IsIndependentCopy(t *testing.T) {
	h := New(3)
	require.NoError(t, h.Append(sampleAt(0, Succeeded(time.Millisecond))))

	snap := h.Snapshot()
	snap.Samples[0].Outcome = TimedOut()

	again := h.Snapshot()
	assert.True(t, again.Samples[0].Outcome.OK())

	require.NoError(t, h.Append(sampleAt(1, TimedOut())))
	assert.Len(t, snap.Samples, 1, "older snapshot must not grow")
}

func TestSnapshot_Last(t *testing.T) {
	h := New(3)
	_, ok := h.Snapshot().Last()
	assert.False(t, ok)

	require.NoError(t, h.Append(sampleAt(0, Succeeded(time.Millisecond))))
	require.NoError(t, h.Append(sampleAt(1, TimedOut())))

	last, ok := h.Snapshot().Last()
	require.True(t, ok)
	assert.Equal(t, uint64(1), last.Seq)
	assert.Equal(t, Timeout, last.Outcome.Kind)
}

func TestConcurrentAppendAndSnapshot(t *testing.T) {
	h := New(50)
	const n = 5000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			rtt := time.Duration(i+1) * time.Microsecond
			_ = h.Append(Sample{Seq: uint64(i), SentAt: time.Unix(0, int64(i)), Outcome: Succeeded(rtt)})
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				snap := h.Snapshot()
				assert.LessOrEqual(t, len(snap.Samples), 50)
				assert.GreaterOrEqual(t, snap.Totals.Sent, uint64(len(snap.Samples)))
				for j, s := range snap.Samples {
					// every field of a sample is derived from its Seq, so a torn
					// write would show up as a mismatch
					assert.Equal(t, time.Duration(s.Seq+1)*time.Microsecond, s.Outcome.RTT)
					assert.Equal(t, int64(s.Seq), s.SentAt.UnixNano())
					if j > 0 {
						assert.Greater(t, s.Seq, snap.Samples[j-1].Seq)
					}
				}
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, uint64(n), h.Totals().Sent)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "20ms", Succeeded(20*time.Millisecond).String())
	assert.Equal(t, "timeout", TimedOut().String())
	assert.Equal(t, "error: unreachable", Failed(ErrUnreachable).String())
	assert.Equal(t, "OutcomeKind(9)", OutcomeKind(9).String())
}
