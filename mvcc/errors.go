package mvcc

import "fmt"

// ErrLocked reports a conflicting in-flight transaction: a lock on the key
// with a start timestamp at or below the read timestamp. Callers typically
// resolve the lock or retry after backoff; this layer never retries.
type ErrLocked struct {
	Key     []byte
	Primary []byte
	StartTS uint64
	TTL     uint64
}

func (e ErrLocked) Error() string {
	return fmt.Sprintf("key %q is locked (primary %q, start ts %d, ttl %d)",
		e.Key, e.Primary, e.StartTS, e.TTL)
}

// ErrBadFormatKey reports a versioned key too short to carry a timestamp
// suffix. This is index corruption, not a recoverable condition.
type ErrBadFormatKey struct {
	Key []byte
}

func (e ErrBadFormatKey) Error() string {
	return fmt.Sprintf("bad format versioned key %q", e.Key)
}

// ErrBadFormatWrite reports an unparseable write record.
type ErrBadFormatWrite struct {
	Value []byte
}

func (e ErrBadFormatWrite) Error() string {
	return fmt.Sprintf("bad format write record %q", e.Value)
}

// ErrBadFormatLock reports an unparseable lock record.
type ErrBadFormatLock struct {
	Value []byte
}

func (e ErrBadFormatLock) Error() string {
	return fmt.Sprintf("bad format lock record %q", e.Value)
}

// ErrDefaultNotFound reports a Put record whose payload is missing from the
// default CF. The write index promised a value the value store does not
// have, so this is corruption rather than an absent key.
type ErrDefaultNotFound struct {
	Key     []byte
	StartTS uint64
}

func (e ErrDefaultNotFound) Error() string {
	return fmt.Sprintf("default value not found for key %q at start ts %d",
		e.Key, e.StartTS)
}
