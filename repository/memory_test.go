package repository

import (
	"context"
	"sync"
	"testing"

	"salonsmart-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	storeContract(t, func(t *testing.T) *Store { return NewMemoryStore() })
}

func TestMemoryStore_ConcurrentCreates(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc := &models.Service{Name: "Cut", Price: 10, Duration: 30, IsActive: true}
			assert.NoError(t, store.Services.Create(ctx, svc))
		}()
	}
	wg.Wait()

	all, err := store.Services.List(ctx, ServiceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 50)
}

func TestMemoryStore_CallerCannotMutateRows(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	svc := &models.Service{Name: "Cut", Price: 10, Duration: 30, IsActive: true}
	require.NoError(t, store.Services.Create(ctx, svc))
	svc.Name = "Changed after create"

	got, err := store.Services.Get(ctx, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cut", got.Name)
}
