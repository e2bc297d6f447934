package hub

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/seating-lobby/internal/lobby"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewHub(ctx, lobby.Deps{})
}

func TestHub_Ensure_Get_SamePointer(t *testing.T) {
	h := newTestHub(t)
	reply := make(chan *lobby.Lobby, 1)

	h.Inbox() <- EnsureTable{ID: "ZED123", Reply: reply}
	lb1 := <-reply

	h.Inbox() <- GetTable{ID: "ZED123", Reply: reply}
	lb2 := <-reply

	require.NotNil(t, lb1)
	assert.Same(t, lb1, lb2)
	assert.Equal(t, "ZED123", lb1.ID())
}

func TestHub_Get_UnknownIsNil(t *testing.T) {
	h := newTestHub(t)
	lb, err := h.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, lb)
}

func TestHub_ConcurrentEnsure_CreatesOneTable(t *testing.T) {
	h := newTestHub(t)

	const callers = 64
	got := make([]*lobby.Lobby, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lb, err := h.Ensure(context.Background(), "T1")
			assert.NoError(t, err)
			got[i] = lb
		}(i)
	}
	wg.Wait()

	for _, lb := range got {
		assert.Same(t, got[0], lb)
	}
	tables, err := h.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, tables, 1)
}

func TestHub_List_CreationOrder(t *testing.T) {
	h := newTestHub(t)
	for i := 3; i >= 1; i-- {
		_, err := h.Ensure(context.Background(), fmt.Sprintf("T%d", i))
		require.NoError(t, err)
	}
	_, err := h.Ensure(context.Background(), "T3")
	require.NoError(t, err)

	tables, err := h.List(context.Background())
	require.NoError(t, err)
	ids := make([]string, 0, len(tables))
	for _, lb := range tables {
		ids = append(ids, lb.ID())
	}
	assert.Equal(t, []string{"T3", "T2", "T1"}, ids)
}

func TestHub_Shutdown_ClosesTables(t *testing.T) {
	h := newTestHub(t)
	lb, err := h.Ensure(context.Background(), "T1")
	require.NoError(t, err)

	h.Inbox() <- ShutdownHub{}

	require.Eventually(t, func() bool {
		_, err := h.Ensure(context.Background(), "T2")
		return err == ErrHubClosed
	}, time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_, err := lb.View(ctx)
		return err == lobby.ErrClosed
	}, time.Second, 10*time.Millisecond)
}
