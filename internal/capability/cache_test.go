package capability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// =============================================================================
// Memory Handle Cache Test Suite
// =============================================================================

type MemoryCacheSuite struct {
	suite.Suite
}

func TestMemoryCacheSuite(t *testing.T) {
	suite.Run(t, new(MemoryCacheSuite))
}

func (s *MemoryCacheSuite) TestGetSet() {
	ctx := context.Background()

	s.Run("miss returns empty without error", func() {
		cache := NewMemoryHandleCache(time.Minute)
		endpoint, err := cache.Get(ctx, "sanctions")
		s.NoError(err)
		s.Empty(endpoint)
	})

	s.Run("set then get round-trips", func() {
		cache := NewMemoryHandleCache(time.Minute)
		s.NoError(cache.Set(ctx, "sanctions", "http://caps.internal/sanctions"))

		endpoint, err := cache.Get(ctx, "sanctions")
		s.NoError(err)
		s.Equal("http://caps.internal/sanctions", endpoint)
	})

	s.Run("entries expire after the TTL", func() {
		cache := NewMemoryHandleCache(10 * time.Millisecond)
		s.NoError(cache.Set(ctx, "coding", "http://caps.internal/coding"))

		time.Sleep(25 * time.Millisecond)

		endpoint, err := cache.Get(ctx, "coding")
		s.NoError(err)
		s.Empty(endpoint)
	})
}
