package bulletproofs

import (
	"sync"

	"github.com/MixinNetwork/bulletproofs-go/group"
	"github.com/floatdrop/lru"
)

const gensCacheSize = 16

type gensKey struct {
	group         string
	gensCapacity  int
	partyCapacity int
}

var (
	gensCacheMu sync.Mutex
	gensCache   = lru.New[gensKey, *BulletproofGens](gensCacheSize)
)

// CachedBulletproofGens returns a process-wide shared generator set.
// Callers must not call IncreaseCapacity on the result.
func CachedBulletproofGens(g group.Group, gensCapacity, partyCapacity int) (*BulletproofGens, error) {
	key := gensKey{g.Name(), gensCapacity, partyCapacity}

	gensCacheMu.Lock()
	defer gensCacheMu.Unlock()

	if bp := gensCache.Get(key); bp != nil {
		return *bp, nil
	}
	bp, err := NewBulletproofGens(g, gensCapacity, partyCapacity)
	if err != nil {
		return nil, err
	}
	gensCache.Set(key, bp)
	return bp, nil
}
