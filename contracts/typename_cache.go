package contracts

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// TypeNameClient resolves a type id against the universe type endpoint.
type TypeNameClient interface {
	TypeName(ctx context.Context, typeID int) (string, error)
}

// Resolution is the outcome of a type-name lookup. Defaulted marks names
// that fell back to the placeholder because the upstream lookup failed.
type Resolution struct {
	Name      string
	Defaulted bool
}

// TypeNameCache memoizes type-id lookups for the process lifetime. Entries
// are never evicted; type names are immutable reference data. Failed
// lookups are cached too, so a consistently failing id hits upstream once.
type TypeNameCache struct {
	client TypeNameClient

	mu    sync.RWMutex
	names map[int]Resolution
	group singleflight.Group
}

func NewTypeNameCache(client TypeNameClient) *TypeNameCache {
	return &TypeNameCache{
		client: client,
		names:  make(map[int]Resolution),
	}
}

// Resolve returns the display name for a type id. It never fails: a lookup
// error degrades to "Unknown Item (<id>)". Concurrent misses for the same
// id share a single upstream call.
func (c *TypeNameCache) Resolve(ctx context.Context, typeID int) Resolution {
	c.mu.RLock()
	resolution, ok := c.names[typeID]
	c.mu.RUnlock()
	if ok {
		return resolution
	}

	result, _, _ := c.group.Do(strconv.Itoa(typeID), func() (interface{}, error) {
		name, err := c.client.TypeName(ctx, typeID)
		resolution := Resolution{Name: name}
		if err != nil {
			log.Warn().Err(err).Int("type_id", typeID).Msg("type name lookup failed, using placeholder")
			resolution = Resolution{
				Name:      fmt.Sprintf("Unknown Item (%d)", typeID),
				Defaulted: true,
			}
		}

		c.mu.Lock()
		c.names[typeID] = resolution
		c.mu.Unlock()
		return resolution, nil
	})
	return result.(Resolution)
}
