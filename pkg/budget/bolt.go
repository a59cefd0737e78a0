package budget

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nspcc-dev/soroban-go/pkg/io"
	"github.com/nspcc-dev/soroban-go/pkg/rpcclient/actor"
	"go.etcd.io/bbolt"
)

// Bucket is the bbolt bucket snapshots are stored in.
var Bucket = []byte("budget")

// BoltRecorder stores snapshots in a bbolt database. Keys are composed of
// the label, the snapshot time and ID, so records with the same label are
// ordered by time.
type BoltRecorder struct {
	db *bbolt.DB
}

// NewBoltRecorder opens (creating if needed) the database at the given path.
func NewBoltRecorder(path string) (*BoltRecorder, error) {
	err := io.MakeDirForFile(path, "budget DB")
	if err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(Bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not create budget bucket: %w", err)
	}
	return &BoltRecorder{db: db}, nil
}

// Record implements the Recorder interface. Results without simulation
// data are ignored.
func (r *BoltRecorder) Record(label string, res *actor.SubmissionResult) error {
	s, ok := FromResult(label, res)
	if !ok {
		return nil
	}
	return r.Put(s)
}

// Put stores the snapshot.
func (r *BoltRecorder) Put(s *Snapshot) error {
	v, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(Bucket).Put(snapshotKey(s), v)
	})
}

// History returns all snapshots with the given label ordered by time.
func (r *BoltRecorder) History(label string) ([]Snapshot, error) {
	var (
		res    []Snapshot
		prefix = []byte(label + "/")
	)
	err := r.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(Bucket).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var s Snapshot
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("bad snapshot %s: %w", k, err)
			}
			res = append(res, s)
		}
		return nil
	})
	return res, err
}

// Close closes the database.
func (r *BoltRecorder) Close() error {
	return r.db.Close()
}

func snapshotKey(s *Snapshot) []byte {
	// Fixed-width time keeps lexicographic and chronological orders equal.
	return []byte(s.Label + "/" + s.Time.UTC().Format("2006-01-02T15:04:05.000000000Z07:00") + "/" + s.ID.String())
}
