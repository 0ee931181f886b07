// Package mvcc implements the point-lookup read path of a multi-version
// storage layer.
//
// Committed history lives in three engine column families: the write CF is a
// chronological index mapping versioned keys to write records, the default CF
// holds full payloads for writes too large to inline, and the lock CF holds
// one in-progress lock per user key. A PointGetter reconciles the three into
// a single logical read at a timestamp under snapshot isolation.
package mvcc

// IsolationLevel selects how much a read interacts with in-flight writers.
type IsolationLevel int

const (
	// SI is snapshot isolation: reads check the lock CF and fail with
	// ErrLocked when a conflicting writer is in flight.
	SI IsolationLevel = iota
	// RC skips lock checking entirely and reads whatever has committed.
	RC
)

// MaybeValue is the result of a point read: a value, or its recorded absence.
type MaybeValue struct {
	Present bool
	Value   []byte
}

// NoValue is the absent read result.
var NoValue = MaybeValue{Present: false, Value: nil}

// SomeValue wraps a present value.
func SomeValue(v []byte) MaybeValue {
	return MaybeValue{Present: true, Value: v}
}
