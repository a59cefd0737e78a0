package budget

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/nspcc-dev/soroban-go/pkg/rpcclient/actor"
)

// FileRecorder appends snapshots to a file as JSON lines.
type FileRecorder struct {
	lock sync.Mutex
	f    *os.File
	enc  *json.Encoder
}

// NewFileRecorder opens (creating if needed) the file at the given path for
// appending.
func NewFileRecorder(path string) (*FileRecorder, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open budget file: %w", err)
	}
	return &FileRecorder{f: f, enc: json.NewEncoder(f)}, nil
}

// Record implements the Recorder interface. Results without simulation
// data are ignored.
func (r *FileRecorder) Record(label string, res *actor.SubmissionResult) error {
	s, ok := FromResult(label, res)
	if !ok {
		return nil
	}
	return r.Write(s)
}

// Write appends the snapshot to the file.
func (r *FileRecorder) Write(s *Snapshot) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.enc.Encode(s)
}

// Close closes the file.
func (r *FileRecorder) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.f.Close()
}
