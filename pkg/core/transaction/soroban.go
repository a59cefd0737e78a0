package transaction

import (
	"encoding/base64"
	"fmt"

	"github.com/nspcc-dev/soroban-go/pkg/io"
)

// maxArchivedEntries limits the number of archived entry indexes.
const maxArchivedEntries = 1024

// Resources are the limits of a contract invocation.
type Resources struct {
	Footprint    Footprint
	Instructions uint32
	ReadBytes    uint32
	WriteBytes   uint32
}

// SorobanData is the resource declaration attached to a contract invocation
// transaction. It's produced by simulation and must be present for the
// transaction to be accepted.
type SorobanData struct {
	// ArchivedEntries are indexes of ReadWrite footprint entries to be
	// restored automatically, it's only present in the extended form.
	ArchivedEntries []uint32
	Resources       Resources
	ResourceFee     int64
}

// EncodeBinary implements the io.Serializable interface.
func (d *SorobanData) EncodeBinary(w *io.BinWriter) {
	if len(d.ArchivedEntries) == 0 {
		w.WriteU32BE(0)
	} else {
		w.WriteU32BE(1)
		w.WriteU32BE(uint32(len(d.ArchivedEntries)))
		for _, idx := range d.ArchivedEntries {
			w.WriteU32BE(idx)
		}
	}
	d.Resources.Footprint.EncodeBinary(w)
	w.WriteU32BE(d.Resources.Instructions)
	w.WriteU32BE(d.Resources.ReadBytes)
	w.WriteU32BE(d.Resources.WriteBytes)
	w.WriteI64BE(d.ResourceFee)
}

// DecodeBinary implements the io.Serializable interface.
func (d *SorobanData) DecodeBinary(r *io.BinReader) {
	switch ext := r.ReadU32BE(); ext {
	case 0:
	case 1:
		n := r.ReadArrayLen(maxArchivedEntries)
		d.ArchivedEntries = make([]uint32, 0, n)
		for i := 0; i < n && r.Err == nil; i++ {
			d.ArchivedEntries = append(d.ArchivedEntries, r.ReadU32BE())
		}
	default:
		if r.Err == nil {
			r.Err = fmt.Errorf("unknown soroban data extension %d", ext)
		}
		return
	}
	d.Resources.Footprint.DecodeBinary(r)
	d.Resources.Instructions = r.ReadU32BE()
	d.Resources.ReadBytes = r.ReadU32BE()
	d.Resources.WriteBytes = r.ReadU32BE()
	d.ResourceFee = r.ReadI64BE()
}

// FootprintSize returns the size of encoded footprint.
func (d *SorobanData) FootprintSize() int {
	b, err := io.ToByteArray(&d.Resources.Footprint)
	if err != nil {
		return 0
	}
	return len(b)
}

// Copy returns a deep copy of the data.
func (d *SorobanData) Copy() *SorobanData {
	res := *d
	res.ArchivedEntries = append([]uint32(nil), d.ArchivedEntries...)
	res.Resources.Footprint.ReadOnly = append([]LedgerKey(nil), d.Resources.Footprint.ReadOnly...)
	res.Resources.Footprint.ReadWrite = append([]LedgerKey(nil), d.Resources.Footprint.ReadWrite...)
	return &res
}

// SorobanDataFromBase64 decodes SorobanData from base64-encoded XDR.
func SorobanDataFromBase64(s string) (*SorobanData, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	d := new(SorobanData)
	if err := io.FromByteArray(d, b); err != nil {
		return nil, fmt.Errorf("invalid soroban data: %w", err)
	}
	return d, nil
}

// Base64 returns base64-encoded XDR of the data.
func (d *SorobanData) Base64() (string, error) {
	b, err := io.ToByteArray(d)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
