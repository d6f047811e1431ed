package status

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
)

// Document is the persisted status record. The field names are part of the
// on-disk format.
type Document struct {
	Started         *Time  `json:"started"`
	Updated         *Time  `json:"updated"`
	Finished        *Time  `json:"finished"`
	CurrentRepair   *Step  `json:"current_repair"`
	FailedRepairs   []Step `json:"failed_repairs"`
	SuccessfulCount int    `json:"successful_count"`
	FailedCount     int    `json:"failed_count"`
}

// Ledger records repair progress and overwrites the whole status document
// on every mutation. Worker tasks report start/success/failure
// concurrently, so every mutation is serialized by an internal lock and
// persisted before the lock is released. The ledger does not lock the file
// across processes, a run assumes it is the only writer.
type Ledger struct {
	lock  sync.Mutex
	fs    afero.Fs
	clock clockwork.Clock
	path  string
	doc   Document
}

// NewLedger creates an empty ledger. An empty path disables persistence,
// the ledger then only tracks counts in memory.
func NewLedger(fs afero.Fs, clock clockwork.Clock, path string) *Ledger {
	return &Ledger{
		fs:    fs,
		clock: clock,
		path:  path,
		doc:   Document{FailedRepairs: []Step{}},
	}
}

// Load reads a previously persisted status document.
func Load(fs afero.Fs, clock clockwork.Clock, path string) (*Ledger, error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read status file \"%s\": %s", path, err)
	}
	l := NewLedger(fs, clock, path)
	if err := json.Unmarshal(content, &l.doc); err != nil {
		return nil, fmt.Errorf("status file \"%s\" is invalid: %s", path, err)
	}
	if l.doc.FailedRepairs == nil {
		l.doc.FailedRepairs = []Step{}
	}
	return l, nil
}

// Document returns a copy of the current state.
func (l *Ledger) Document() Document {
	l.lock.Lock()
	defer l.lock.Unlock()
	doc := l.doc
	doc.FailedRepairs = append([]Step(nil), l.doc.FailedRepairs...)
	return doc
}

// Start resets all fields and stamps the run start.
func (l *Ledger) Start() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	now := NewTime(l.clock.Now())
	l.doc = Document{Started: &now, FailedRepairs: []Step{}}
	return l.write()
}

// RepairStart records the step as the repair in flight.
func (l *Ledger) RepairStart(step Step) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.doc.CurrentRepair = &step
	return l.write()
}

// RepairSuccess records a successfully repaired step.
func (l *Ledger) RepairSuccess(step Step) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.doc.SuccessfulCount++
	return l.write()
}

// RepairFail appends the step to the failed list, a resumed run will
// re-attempt it.
func (l *Ledger) RepairFail(step Step) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.doc.FailedRepairs = append(l.doc.FailedRepairs, step)
	l.doc.FailedCount++
	return l.write()
}

// Finish stamps the run end.
func (l *Ledger) Finish() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	now := NewTime(l.clock.Now())
	l.doc.Finished = &now
	return l.write()
}

// Reopen clears the finished stamp before a resume run.
func (l *Ledger) Reopen() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.doc.Finished = nil
	return l.write()
}

// FailedRepairs returns a stable snapshot of the failed list, independent
// of later mutation.
func (l *Ledger) FailedRepairs() []Step {
	l.lock.Lock()
	defer l.lock.Unlock()
	return append([]Step(nil), l.doc.FailedRepairs...)
}

// RetryStart removes the oldest failed entry, restamps the given step and
// records it as the repair in flight.
func (l *Ledger) RetryStart(step Step) (Step, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if len(l.doc.FailedRepairs) > 0 {
		l.doc.FailedRepairs = l.doc.FailedRepairs[1:]
		l.doc.FailedCount--
	}
	step.Time = NewTime(l.clock.Now())
	l.doc.CurrentRepair = &step
	return step, l.write()
}

// RetrySuccess records a re-attempted entry that succeeded.
func (l *Ledger) RetrySuccess() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.doc.SuccessfulCount++
	return l.write()
}

// RetryFail puts the step back at the end of the failed list.
func (l *Ledger) RetryFail(step Step) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.doc.FailedRepairs = append(l.doc.FailedRepairs, step)
	l.doc.FailedCount++
	return l.write()
}

// SuccessfulCount returns the number of successfully repaired steps.
func (l *Ledger) SuccessfulCount() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.doc.SuccessfulCount
}

// FailedCount returns the number of steps currently failing.
func (l *Ledger) FailedCount() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.doc.FailedCount
}

// write persists the whole document. Callers must hold the lock. A ledger
// without a path is a no-op writer.
func (l *Ledger) write() error {
	if l.path == "" {
		return nil
	}
	now := NewTime(l.clock.Now())
	l.doc.Updated = &now
	content, err := json.Marshal(l.doc)
	if err != nil {
		return fmt.Errorf("cannot encode status document: %s", err)
	}
	if err := afero.WriteFile(l.fs, l.path, content, 0o644); err != nil {
		return fmt.Errorf("cannot write status file \"%s\": %s", l.path, err)
	}
	return nil
}
