package driver

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/christopher1986/querybuilder/dialect"
)

// Entry is one executed statement held by the journal.
type Entry struct {
	ID       ulid.ULID
	SQL      string
	Bound    string
	Args     []any
	Duration time.Duration
	Err      string
	At       time.Time
}

// DebugSQL interpolates the args into the bound text as dialect literals.
// The result is for reading, never for execution.
func (e Entry) DebugSQL(d dialect.Dialect) string {
	if len(e.Args) == 0 {
		return e.Bound
	}
	if d.Placeholder(1) == "?" {
		var out strings.Builder
		out.Grow(len(e.Bound))
		idx := 0
		for i := 0; i < len(e.Bound); i++ {
			if e.Bound[i] == '?' && idx < len(e.Args) {
				out.WriteString(d.RenderValue(e.Args[idx]))
				idx++
				continue
			}
			out.WriteByte(e.Bound[i])
		}
		return out.String()
	}
	// Indexed placeholders, replaced longest index first so $1 does not
	// clobber $10.
	text := e.Bound
	for i := len(e.Args); i >= 1; i-- {
		text = strings.ReplaceAll(text, d.Placeholder(i), d.RenderValue(e.Args[i-1]))
	}
	return text
}

// Journal keeps a fixed-size ring of recently executed statements. Entry
// IDs are ULIDs, so they sort by execution time.
type Journal struct {
	mu      sync.Mutex
	entries []Entry
	start   int
	count   int
	entropy *ulid.MonotonicEntropy
}

// NewJournal returns a journal holding the last size entries. Sizes below
// one are raised to one.
func NewJournal(size int) *Journal {
	if size < 1 {
		size = 1
	}
	return &Journal{
		entries: make([]Entry, size),
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Record stamps the entry with an ID and timestamp and appends it,
// displacing the oldest entry when the ring is full.
func (j *Journal) Record(e Entry) ulid.ULID {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()
	e.ID = ulid.MustNew(ulid.Timestamp(now), j.entropy)
	e.At = now

	idx := (j.start + j.count) % len(j.entries)
	j.entries[idx] = e
	if j.count < len(j.entries) {
		j.count++
	} else {
		j.start = (j.start + 1) % len(j.entries)
	}
	return e.ID
}

// Entries returns the journal contents oldest first.
func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]Entry, 0, j.count)
	for i := 0; i < j.count; i++ {
		out = append(out, j.entries[(j.start+i)%len(j.entries)])
	}
	return out
}

// Len reports the number of retained entries.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.count
}
