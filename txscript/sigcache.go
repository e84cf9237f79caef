package txscript

import (
	"crypto/sha256"
	"sync"
)

// sigCacheEntry is the lookup key for a single memoized verification
// result: the signature oracle is a pure function of (pubKey, signature,
// hash), so that triple's digest is sufficient to identify a cached
// verdict.
type sigCacheEntry [sha256.Size]byte

func newSigCacheEntry(pubKey, signature, hash []byte) sigCacheEntry {
	h := sha256.New()
	h.Write(pubKey)
	h.Write(signature)
	h.Write(hash)
	var entry sigCacheEntry
	copy(entry[:], h.Sum(nil))
	return entry
}

// SigCache memoizes the outcome of signature verification, as described
// in §5: the oracle is expected to be a pure function of its inputs, and
// a single redeem script or multisig witness commonly re-verifies the
// same (pubkey, signature) pair across retries (e.g. mempool
// re-validation after a reorg). It is safe for concurrent use by
// multiple engines validating independent scripts in parallel.
type SigCache struct {
	mtx     sync.RWMutex
	entries map[sigCacheEntry]bool
	maxSize int
}

// NewSigCache returns a SigCache that holds at most maxEntries memoized
// verdicts. Once full, further inserts are dropped rather than evicted,
// favoring predictable memory use over perfect LRU behavior — acceptable
// because a cache miss merely falls back to calling the oracle, which
// is correctness-neutral.
func NewSigCache(maxEntries int) *SigCache {
	return &SigCache{
		entries: make(map[sigCacheEntry]bool, maxEntries),
		maxSize: maxEntries,
	}
}

// Exists returns whether the result for (pubKey, signature, hash) is
// already memoized, and if so what it was.
func (c *SigCache) Exists(pubKey, signature, hash []byte) (bool, bool) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	valid, ok := c.entries[newSigCacheEntry(pubKey, signature, hash)]
	return valid, ok
}

// Add records the verification result for (pubKey, signature, hash).
func (c *SigCache) Add(pubKey, signature, hash []byte, valid bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if len(c.entries) >= c.maxSize {
		return
	}
	c.entries[newSigCacheEntry(pubKey, signature, hash)] = valid
}

// cachingVerifier wraps a SigVerifier with a SigCache, consulted before
// and populated after every delegate call.
type cachingVerifier struct {
	verifier SigVerifier
	cache    *SigCache
}

// NewCachingVerifier returns a SigVerifier that memoizes verifier's
// results in cache. Pass a nil cache to disable memoization — the
// wrapped verifier is then called directly every time, which is the
// correct fallback for one-off script evaluation where building a cache
// would cost more than it saves.
func NewCachingVerifier(verifier SigVerifier, cache *SigCache) SigVerifier {
	if cache == nil {
		return verifier
	}
	return &cachingVerifier{verifier: verifier, cache: cache}
}

func (c *cachingVerifier) Verify(pubKey, signature, hash []byte) bool {
	if valid, ok := c.cache.Exists(pubKey, signature, hash); ok {
		return valid
	}
	valid := c.verifier.Verify(pubKey, signature, hash)
	c.cache.Add(pubKey, signature, hash, valid)
	return valid
}
