package idx_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vantasec/adminauth/pkg/idx"
)

func TestNewProducesValidULIDs(t *testing.T) {
	t.Parallel()

	id := idx.New()
	require.False(t, id.IsZero())

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestNewIsMonotonicWithinProcess(t *testing.T) {
	t.Parallel()

	prev := idx.New()
	for range 100 {
		next := idx.New()
		require.Less(t, prev.String(), next.String())
		prev = next
	}
}

func TestNewIsSafeForConcurrentUse(t *testing.T) {
	t.Parallel()

	const n = 200
	var (
		mu  sync.Mutex
		ids = make(map[idx.ID]struct{}, n)
		wg  sync.WaitGroup
	)

	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := idx.New()
			mu.Lock()
			ids[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, ids, n)
}

func TestParseRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "   ", "not-a-ulid", "0123456789"} {
		_, err := idx.Parse(s)
		require.ErrorIs(t, err, idx.ErrInvalid)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	id := idx.NewAt(at)
	require.Equal(t, at, id.Time())
}
