package engine

// CFStatistics counts cursor activity against a single column family.
//
// Every cursor operation takes a *CFStatistics and updates it in place; the
// reader that owns the cursors owns the counters too, so there is no shared
// global state.
type CFStatistics struct {
	// Seek counts full seeks issued to the engine.
	Seek int
	// NearSeek counts seeks satisfied by stepping from the current position.
	NearSeek int
	// Next counts forward steps, including those taken inside a near seek.
	Next int
	// FlowKeys counts keys whose bytes were read off the cursor.
	FlowKeys int
	// Processed counts entries the caller actually interpreted.
	Processed int
}

// Add accumulates other into s.
func (s *CFStatistics) Add(other CFStatistics) {
	s.Seek += other.Seek
	s.NearSeek += other.NearSeek
	s.Next += other.Next
	s.FlowKeys += other.FlowKeys
	s.Processed += other.Processed
}

// Statistics aggregates per-column-family counters for one reader.
type Statistics struct {
	Lock  CFStatistics
	Write CFStatistics
	Data  CFStatistics
}

// Add accumulates other into s.
func (s *Statistics) Add(other Statistics) {
	s.Lock.Add(other.Lock)
	s.Write.Add(other.Write)
	s.Data.Add(other.Data)
}
