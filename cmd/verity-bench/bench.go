//go:build cgo

package main

import (
	"fmt"
	"math/rand"
	"time"
)

type generator struct {
	*rand.Rand
	key       int
	valueSize int
}

func newGenerator(valueSize int) *generator {
	r := rand.New(rand.NewSource(0))
	return &generator{r, 0, valueSize}
}

func (g generator) ReSeed(i int64) {
	g.Rand.Seed(i)
}

func keyName(i int) []byte {
	return []byte(fmt.Sprintf("key-%08d", i))
}

func (g *generator) NextKey() []byte {
	k := g.key
	g.key++
	return keyName(k)
}

func (g generator) RandomKey(max int) []byte {
	return keyName(int(g.Rand.Int63n(int64(max))))
}

func (g generator) Value() []byte {
	b := make([]byte, g.valueSize)
	g.Read(b)
	return b
}

type stats struct {
	Ops   int
	Bytes int
	Start time.Time
	End   *time.Time
}

func newStats() *stats {
	return &stats{Ops: 0, Bytes: 0, Start: time.Now()}
}

// FinishedSingleOp records finishing an operation that processed some number
// of bytes.
func (s *stats) FinishedSingleOp(bytes int) {
	s.Ops++
	s.Bytes += bytes
}

// done marks the benchmark finished.
func (s *stats) done() {
	if s.End != nil {
		panic("stats object marked done multiple times")
	}
	t := time.Now()
	s.End = &t
}

func (s stats) seconds() float64 {
	return s.End.Sub(s.Start).Seconds()
}

func (s stats) MicrosPerOp() float64 {
	return (s.seconds() * 1e6) / float64(s.Ops)
}

func (s stats) MegabytesPerSec() float64 {
	mb := float64(s.Bytes) / (1024 * 1024)
	return mb / s.seconds()
}

func (s stats) formatStats() string {
	if s.Bytes == 0 {
		return fmt.Sprintf("%7.3f micros/op", s.MicrosPerOp())
	}
	return fmt.Sprintf("%7.3f micros/op; %6.1f MB/s",
		s.MicrosPerOp(),
		s.MegabytesPerSec())
}

// BenchState tracks information for a single benchmark.
type BenchState struct {
	name string
	*generator
	*stats
}

// NewBench initializes a BenchState.
func NewBench(name string, valueSize int) BenchState {
	return BenchState{name, newGenerator(valueSize), newStats()}
}

// Report finishes the benchmark and prints final statistics.
func (s BenchState) Report() {
	s.stats.done()
	fmt.Printf("%-20s : %s\n", s.name, s.stats.formatStats())
}
