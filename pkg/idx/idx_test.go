package idx_test

import (
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/credvault/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	id := idx.New()
	require.Len(t, id.String(), 26)

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	lower, err := idx.Parse(strings.ToLower(id.String()))
	require.NoError(t, err)
	require.Equal(t, id, lower)

	for _, s := range []string{"", "   ", "not-a-ulid", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3Z"} {
		_, err := idx.Parse(s)
		require.ErrorIs(t, err, idx.ErrInvalid, "input %q", s)
	}
}

func TestTime(t *testing.T) {
	at := time.Date(2025, 6, 1, 9, 0, 0, 123_456_789, time.UTC)

	require.True(t, at.Truncate(time.Millisecond).Equal(idx.NewAt(at).Time()))
	require.True(t, idx.ID("").Time().IsZero())
	require.True(t, idx.ID("garbage").Time().IsZero())
}

func TestSameMillisecondSortsInMintOrder(t *testing.T) {
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	ids := make([]string, 50)
	for i := range ids {
		ids[i] = idx.NewAt(at).String()
	}
	require.True(t, slices.IsSorted(ids))
}

func TestConcurrentMintingIsUnique(t *testing.T) {
	const n = 500

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		seen = make(map[idx.ID]struct{}, n)
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := idx.New()
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, seen, n)
}
