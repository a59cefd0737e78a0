/*
Package budget records resource consumption of contract calls.

Every state-changing call that reached the network can be turned into a
Snapshot of the resources its simulation consumed and declared. Snapshots
are appended to NDJSON files or stored in a bbolt database to compare the
costs of the same operation across contract versions.
*/
package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/nspcc-dev/soroban-go/pkg/rpcclient/actor"
)

// Snapshot is a resource consumption record of a single call.
type Snapshot struct {
	ID       uuid.UUID `json:"id"`
	Label    string    `json:"label"`
	Time     time.Time `json:"time"`
	Contract string    `json:"contract"`
	Method   string    `json:"method"`
	Hash     string    `json:"hash"`
	Status   string    `json:"status"`

	CPUInsns    uint64 `json:"cpuInsns"`
	MemBytes    uint64 `json:"memBytes"`
	EventsBytes int    `json:"eventsBytes"`

	Instructions     uint32 `json:"instructions"`
	ReadBytes        uint32 `json:"readBytes"`
	WriteBytes       uint32 `json:"writeBytes"`
	ReadOnlyEntries  int    `json:"readOnlyEntries"`
	ReadWriteEntries int    `json:"readWriteEntries"`
	FootprintBytes   int    `json:"footprintBytes"`
	ResourceFee      int64  `json:"resourceFee"`
	MinResourceFee   int64  `json:"minResourceFee"`
}

// Recorder stores snapshots of call results under the given label.
type Recorder interface {
	Record(label string, res *actor.SubmissionResult) error
}

// FromResult creates a Snapshot from the call result. False is returned if
// the result has no simulation cost data.
func FromResult(label string, res *actor.SubmissionResult) (*Snapshot, bool) {
	if res == nil || res.Simulation == nil || res.Simulation.Cost == nil {
		return nil, false
	}
	sim := res.Simulation
	s := &Snapshot{
		ID:             uuid.New(),
		Label:          label,
		Time:           time.Now().UTC(),
		Contract:       res.Contract,
		Method:         res.Method,
		Hash:           res.Hash.String(),
		Status:         string(res.Status),
		CPUInsns:       sim.Cost.CPUInsns,
		MemBytes:       sim.Cost.MemBytes,
		EventsBytes:    sim.EventsSize(),
		MinResourceFee: sim.MinResourceFee,
	}
	if sd, err := sim.SorobanData(); err == nil {
		s.Instructions = sd.Resources.Instructions
		s.ReadBytes = sd.Resources.ReadBytes
		s.WriteBytes = sd.Resources.WriteBytes
		s.ReadOnlyEntries = len(sd.Resources.Footprint.ReadOnly)
		s.ReadWriteEntries = len(sd.Resources.Footprint.ReadWrite)
		s.FootprintBytes = sd.FootprintSize()
		s.ResourceFee = sd.ResourceFee
	}
	return s, true
}

type nop struct{}

// Nop is a Recorder that drops everything.
var Nop Recorder = nop{}

func (nop) Record(string, *actor.SubmissionResult) error { return nil }

type multi []Recorder

// Multi returns a Recorder that passes results to all of the given ones.
// All of them are tried, the first error is returned.
func Multi(rs ...Recorder) Recorder {
	var m = make(multi, 0, len(rs))
	for _, r := range rs {
		if r != nil {
			m = append(m, r)
		}
	}
	return m
}

func (m multi) Record(label string, res *actor.SubmissionResult) error {
	var first error
	for _, r := range m {
		if err := r.Record(label, res); err != nil && first == nil {
			first = err
		}
	}
	return first
}
