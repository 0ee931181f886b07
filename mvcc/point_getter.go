package mvcc

import (
	"bytes"

	"github.com/verity-db/verity/engine"
)

// iterOptions builds cursor construction options from reader configuration.
func iterOptions(fillCache bool, prefixFilter bool) engine.IterOptions {
	// Prefix-restricted cursors let the engine use its prefix bloom filter
	// when only a single key will ever be read.
	return engine.IterOptions{FillCache: fillCache, PrefixSeek: prefixFilter}
}

// PointGetterBuilder assembles a configured PointGetter from a snapshot.
type PointGetterBuilder struct {
	snapshot       engine.Snapshot
	multi          bool
	fillCache      bool
	omitValue      bool
	isolationLevel IsolationLevel
}

// NewPointGetterBuilder initializes a builder with its defaults: multi-use,
// cache-filling, value-returning, snapshot isolation.
func NewPointGetterBuilder(snapshot engine.Snapshot) *PointGetterBuilder {
	return &PointGetterBuilder{
		snapshot:       snapshot,
		multi:          true,
		fillCache:      true,
		omitValue:      false,
		isolationLevel: SI,
	}
}

// Multi sets whether multiple keys will be read. When false the cursors are
// prefix-restricted and the getter may serve exactly one Get.
//
// Defaults to true.
func (b *PointGetterBuilder) Multi(multi bool) *PointGetterBuilder {
	b.multi = multi
	return b
}

// FillCache sets whether reads populate the engine's block cache. Forwarded
// verbatim to cursor construction; no correctness impact.
//
// Defaults to true.
func (b *PointGetterBuilder) FillCache(fill bool) *PointGetterBuilder {
	b.fillCache = fill
	return b
}

// OmitValue makes Get return a zero-length value for keys that exist,
// skipping the default-CF fetch when the caller only needs existence.
//
// Defaults to false.
func (b *PointGetterBuilder) OmitValue(omit bool) *PointGetterBuilder {
	b.omitValue = omit
	return b
}

// IsolationLevel sets the read's isolation level.
//
// Defaults to SI.
func (b *PointGetterBuilder) IsolationLevel(level IsolationLevel) *PointGetterBuilder {
	b.isolationLevel = level
	return b
}

// Build constructs the PointGetter. The write cursor is created eagerly; the
// default cursor waits until a read actually needs the value store.
func (b *PointGetterBuilder) Build() (*PointGetter, error) {
	writeCursor, err := b.snapshot.IterCF(
		engine.CFWrite,
		iterOptions(b.fillCache, !b.multi),
		engine.ScanForward,
	)
	if err != nil {
		return nil, err
	}
	return &PointGetter{
		snapshot:       b.snapshot,
		multi:          b.multi,
		fillCache:      b.fillCache,
		omitValue:      b.omitValue,
		isolationLevel: b.isolationLevel,
		writeCursor:    writeCursor,
	}, nil
}

// PointGetter reads the value of a user key at a timestamp. Internally,
// rollbacks and lock records are skipped and smaller versions are tried.
// Under SI, locks are checked first.
//
// If multi is false the cursors are prefix-restricted, so Get may only be
// called once; a second call panics rather than returning a silently wrong
// result.
//
// If multi is true the getter can be reused for many keys, and performs best
// when keys are read in ascending order and are close to each other.
//
// A PointGetter is not safe for concurrent use. It borrows the snapshot and
// must not outlive it.
//
// Use PointGetterBuilder to build PointGetter.
type PointGetter struct {
	snapshot       engine.Snapshot
	multi          bool
	fillCache      bool
	omitValue      bool
	isolationLevel IsolationLevel

	statistics engine.Statistics

	// Whether there was already a Get call. When multi is false this guards
	// against reuse of the prefix-restricted cursors.
	readOnce bool

	writeCursor *engine.Cursor

	// The default cursor is lazily created since short values never need
	// the default CF.
	defaultCursor *engine.Cursor
}

// TakeStatistics takes out and resets the statistics collected so far.
func (g *PointGetter) TakeStatistics() engine.Statistics {
	st := g.statistics
	g.statistics = engine.Statistics{}
	return st
}

// Get reads the value of the raw user key at ts. See PointGetter for
// details.
func (g *PointGetter) Get(key []byte, ts uint64) (MaybeValue, error) {
	if !g.multi && g.readOnce {
		panic("PointGetter(multi=false) must not call Get multiple times")
	}
	g.readOnce = true

	if g.isolationLevel == SI {
		// Check for locks that signal concurrent writes.
		adjusted, err := LoadAndCheckLock(g.snapshot, key, ts, &g.statistics)
		if err != nil {
			return NoValue, err
		}
		ts = adjusted
	}

	encodedKey := EncodeKey(key)

	// Seek to the newest version at or below ts; older versions follow.
	if _, err := g.writeCursor.NearSeek(AppendTS(encodedKey, ts), &g.statistics.Write); err != nil {
		return NoValue, err
	}

	for {
		if !g.writeCursor.Valid() {
			if err := g.writeCursor.Err(); err != nil {
				return NoValue, err
			}
			// Key space ended.
			return NoValue, nil
		}
		userKey, err := TruncateTS(g.writeCursor.Key(&g.statistics.Write))
		if err != nil {
			return NoValue, err
		}
		if !bytes.Equal(userKey, encodedKey) {
			// Moved past this key's contiguous version run; nothing under
			// the key can appear further on.
			return NoValue, nil
		}
		write, err := ParseWrite(g.writeCursor.Value(&g.statistics.Write))
		if err != nil {
			return NoValue, err
		}
		g.statistics.Write.Processed++

		switch write.Type {
		case WritePut:
			if g.omitValue {
				return SomeValue([]byte{}), nil
			}
			if write.ShortValue != nil {
				// Value is carried in the write record.
				return SomeValue(write.ShortValue), nil
			}
			// Value is in the default CF.
			if err := g.ensureDefaultCursor(); err != nil {
				return NoValue, err
			}
			value, err := LoadDataByWrite(g.defaultCursor, encodedKey, write, &g.statistics)
			if err != nil {
				return NoValue, err
			}
			return SomeValue(value), nil
		case WriteDelete:
			return NoValue, nil
		case WriteLock, WriteRollback:
			// Non-decisive bookkeeping record; try the next older version.
		}

		g.writeCursor.Next(&g.statistics.Write)
	}
}

// ensureDefaultCursor creates the default cursor if it doesn't exist.
func (g *PointGetter) ensureDefaultCursor() error {
	if g.defaultCursor != nil {
		return nil
	}
	cursor, err := g.snapshot.IterCF(
		engine.CFDefault,
		iterOptions(g.fillCache, !g.multi),
		engine.ScanForward,
	)
	if err != nil {
		return err
	}
	g.defaultCursor = cursor
	return nil
}

// Close releases the getter's cursors.
func (g *PointGetter) Close() {
	g.writeCursor.Close()
	if g.defaultCursor != nil {
		g.defaultCursor.Close()
	}
}
