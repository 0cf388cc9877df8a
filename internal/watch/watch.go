// Package watch decides when a filesystem read counts as a new viewing.
//
// A media player issues thousands of reads over one playback, all from
// the same process. The detector keeps the id of the last recognized
// process that reported a read and only records a watch when that id
// changes, which collapses one playback into one history row. The slot
// is global: two recognized players reading in alternation re-trigger
// on every transition.
package watch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shirou/gopsutil/v3/process"
)

// ErrIdentity indicates the reporting process's command name could not
// be read. Reads that trip this are failed rather than silently
// uncounted.
var ErrIdentity = errors.New("process identity lookup failed")

// Identifier resolves a process id to its short command name. On Linux
// the name comes from the proc pseudo-filesystem, already truncated to
// 15 characters by the kernel.
type Identifier interface {
	CommandName(pid uint32) (string, error)
}

// Recorder receives one call per detected viewing.
type Recorder interface {
	RecordWatch(ctx context.Context, title string) error
}

// ProcIdentifier resolves command names through gopsutil.
type ProcIdentifier struct{}

// CommandName implements Identifier.
func (ProcIdentifier) CommandName(pid uint32) (string, error) {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return "", err
	}
	return proc.Name()
}

// Detector suppresses duplicate watch notifications from repeated reads
// by the same media-player process. Safe for concurrent use.
type Detector struct {
	players  map[string]struct{}
	identify Identifier
	recorder Recorder

	mu      sync.Mutex
	lastPID uint32 // 0 means no recognized process seen yet
}

// NewDetector builds a detector recognizing the given command names.
func NewDetector(players []string, identify Identifier, recorder Recorder) *Detector {
	set := make(map[string]struct{}, len(players))
	for _, p := range players {
		set[p] = struct{}{}
	}
	return &Detector{
		players:  set,
		identify: identify,
		recorder: recorder,
	}
}

// Observe inspects one read of title issued by pid. It records a watch
// when the reader is a recognized media player whose pid differs from
// the previous recognized reader. An identity lookup failure is a hard
// error; the caller must fail the triggering read.
func (d *Detector) Observe(ctx context.Context, pid uint32, title string) error {
	comm, err := d.identify.CommandName(pid)
	if err != nil {
		return fmt.Errorf("%w: pid %d: %v", ErrIdentity, pid, err)
	}

	if _, ok := d.players[comm]; !ok {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if pid == d.lastPID {
		return nil
	}
	d.lastPID = pid

	return d.recorder.RecordWatch(ctx, title)
}
