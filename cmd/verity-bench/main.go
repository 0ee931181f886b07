//go:build cgo

// verity-bench measures point-get latency of the MVCC read path over the
// in-memory or LevelDB engine.
//
// The fill benchmark installs committed history the way the commit protocol
// would: a write record per version, with payloads above the inline limit
// spilled to the default CF. Read benchmarks then resolve keys at the latest
// timestamp through a PointGetter.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/verity-db/verity/engine"
	"github.com/verity-db/verity/engine/leveldb"
	"github.com/verity-db/verity/engine/memory"
	"github.com/verity-db/verity/fs"
	"github.com/verity-db/verity/mvcc"
)

const dbPath = "benchmark.db"

type database interface {
	Put(cf engine.CF, key, value []byte)
	TakeSnapshot() engine.Snapshot
	ReleaseSnapshot(snap engine.Snapshot)
	Close()
}

type memDatabase struct {
	*memory.Engine
}

func (d memDatabase) TakeSnapshot() engine.Snapshot        { return d.Engine.Snapshot() }
func (d memDatabase) ReleaseSnapshot(snap engine.Snapshot) {}
func (d memDatabase) Close()                               {}

type levelDatabase struct {
	*leveldb.Database
}

func (d levelDatabase) TakeSnapshot() engine.Snapshot { return d.Database.Snapshot() }
func (d levelDatabase) ReleaseSnapshot(snap engine.Snapshot) {
	snap.(*leveldb.Snapshot).Release()
}

func initDb() database {
	switch *engineType {
	case "mem":
		return memDatabase{memory.New()}
	case "leveldb":
		os.RemoveAll(dbPath)
		return levelDatabase{leveldb.New(dbPath)}
	}
	panic(fmt.Errorf("unknown engine type %s", *engineType))
}

var benchmarks = flag.String("benchmarks", "fill,getseq,getrandom,getmiss", "comma-separated list of benchmarks to run")
var engineType = flag.String("engine", "mem", "engine to use (mem|leveldb)")
var numKeys = flag.Int("keys", 100000, "number of distinct keys to commit")
var numVersions = flag.Int("versions", 3, "number of committed versions per key")
var valueSize = flag.Int("value-size", 100, "value size in bytes")
var numReads = flag.Int("reads", -1, "number of reads to perform (-1 to copy keys)")
var omitValue = flag.Bool("omit-value", false, "read existence only, skipping value fetches")
var isolation = flag.String("isolation", "si", "isolation level for reads (si|rc)")
var dumpDir = flag.String("dump-dir", "", "directory to dump mem-engine regions into after fill")
var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var memprofile = flag.String("memprofile", "", "write memory profile to `file`")
var printStats = flag.Bool("stats", false, "print reader statistics after each read benchmark")

func isolationLevel() mvcc.IsolationLevel {
	switch *isolation {
	case "si":
		return mvcc.SI
	case "rc":
		return mvcc.RC
	}
	panic(fmt.Errorf("unknown isolation level %s", *isolation))
}

func writeMemProfile(fname string) {
	f, err := os.Create(fname)
	if err != nil {
		log.Fatal("could not create memory profile: ", err)
	}
	runtime.GC() // get up-to-date statistics
	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Fatal("could not write memory profile: ", err)
	}
	f.Close()
}

// commitPut installs one committed version of key, spilling large values to
// the default CF the way the commit protocol does.
func commitPut(db database, key, value []byte, startTS, commitTS uint64) {
	w := mvcc.Write{Type: mvcc.WritePut, StartTS: startTS}
	encoded := mvcc.EncodeKey(key)
	if len(value) <= mvcc.ShortValueMaxLen {
		w.ShortValue = value
	} else {
		db.Put(engine.CFDefault, mvcc.AppendTS(encoded, startTS), value)
	}
	db.Put(engine.CFWrite, mvcc.AppendTS(encoded, commitTS), w.Encode())
}

func fill(db database, s BenchState) {
	for v := 0; v < *numVersions; v++ {
		s.generator.key = 0
		for i := 0; i < *numKeys; i++ {
			k, val := s.NextKey(), s.Value()
			ts := uint64(v)*2 + 1
			commitPut(db, k, val, ts, ts+1)
			s.FinishedSingleOp(len(k) + len(val))
		}
	}
	if *dumpDir != "" && *engineType == "mem" {
		db.(memDatabase).Dump(fs.DirFs(*dumpDir), "regions")
	}
}

func newGetter(db database) (*mvcc.PointGetter, engine.Snapshot) {
	snap := db.TakeSnapshot()
	g, err := mvcc.NewPointGetterBuilder(snap).
		OmitValue(*omitValue).
		IsolationLevel(isolationLevel()).
		Build()
	if err != nil {
		panic(err)
	}
	return g, snap
}

func get(g *mvcc.PointGetter, s BenchState, key []byte) {
	v, err := g.Get(key, math.MaxUint64)
	if err != nil {
		panic(err)
	}
	if v.Present {
		s.FinishedSingleOp(len(key) + len(v.Value))
	}
}

func reportReaderStats(g *mvcc.PointGetter) {
	st := g.TakeStatistics()
	fmt.Printf("%-20s : write %+v\n", "[meta] reader", st.Write)
	fmt.Printf("%-20s : data  %+v\n", "[meta] reader", st.Data)
}

func runBenchmarks(db database) {
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}
	if *memprofile != "" {
		defer writeMemProfile(*memprofile)
	}

	for _, name := range strings.Split(*benchmarks, ",") {
		s := NewBench(name, *valueSize)
		switch name {
		case "fill":
			fill(db, s)
		case "getseq":
			g, snap := newGetter(db)
			for i := 0; i < *numReads; i++ {
				get(g, s, keyName(i%*numKeys))
			}
			if *printStats {
				reportReaderStats(g)
			}
			g.Close()
			db.ReleaseSnapshot(snap)
		case "getrandom":
			g, snap := newGetter(db)
			s.ReSeed(1)
			for i := 0; i < *numReads; i++ {
				get(g, s, s.RandomKey(*numKeys))
			}
			if *printStats {
				reportReaderStats(g)
			}
			g.Close()
			db.ReleaseSnapshot(snap)
		case "getmiss":
			g, snap := newGetter(db)
			for i := 0; i < *numReads; i++ {
				get(g, s, keyName(*numKeys+i))
			}
			g.Close()
			db.ReleaseSnapshot(snap)
		case "getsingle":
			// a fresh single-use getter per key, the one-shot read pattern
			for i := 0; i < *numReads; i++ {
				snap := db.TakeSnapshot()
				g, err := mvcc.NewPointGetterBuilder(snap).
					Multi(false).
					OmitValue(*omitValue).
					IsolationLevel(isolationLevel()).
					Build()
				if err != nil {
					panic(err)
				}
				get(g, s, keyName(i%*numKeys))
				g.Close()
				db.ReleaseSnapshot(snap)
			}
		default:
			fmt.Fprintf(os.Stderr, "unknown benchmark %s\n", name)
			os.Exit(1)
		}
		s.Report()
	}
}

func main() {
	flag.Parse()

	if len(flag.Args()) > 0 {
		fmt.Fprintln(os.Stderr, "extra command line arguments", flag.Args())
		flag.Usage()
		os.Exit(1)
	}

	if *numReads == -1 {
		*numReads = *numKeys
	}

	totalBytes := float64(*numKeys * *numVersions * *valueSize)
	for _, info := range []struct {
		Key   string
		Value string
	}{
		{"engine", *engineType},
		{"keys", fmt.Sprintf("%d", *numKeys)},
		{"versions/key", fmt.Sprintf("%d", *numVersions)},
		{"isolation", *isolation},
		{"total data (MB)", fmt.Sprintf("%.1f", totalBytes/(1024*1024))},
	} {
		fmt.Printf("%20s %s\n", info.Key+":", info.Value)
	}
	fmt.Println(strings.Repeat("-", 30))

	db := initDb()
	runBenchmarks(db)
	db.Close()
}
