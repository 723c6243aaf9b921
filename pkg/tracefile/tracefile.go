// Package tracefile defines the normalized trace record model consumed by the
// timeline builder, and a line-oriented JSON codec for the on-disk form.
//
// A trace file starts with one metadata line followed by one record per line.
// Timestamps in records are absolute nanoseconds; the builder rebases them
// onto the metadata epoch.
package tracefile

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Metadata describes the traced process. It is passed through the index
// build unchanged.
type Metadata struct {
	EpochNs     uint64 `json:"epoch_ns"`
	CommandLine string `json:"cmd"`
	ProcessID   uint32 `json:"pid"`
}

// Interval is a half-open absolute time range [StartNs, EndNs).
type Interval struct {
	StartNs uint64 `json:"start_ns"`
	EndNs   uint64 `json:"end_ns"`
}

// Record is one raw trace record. Interval is nil for non-interval payloads
// (instant markers, counters); the builder drops those.
type Record struct {
	ThreadID    uint32    `json:"tid"`
	Label       string    `json:"label"`
	Kind        string    `json:"kind"`
	ExtraLabels []string  `json:"extra,omitempty"`
	Payload     *uint64   `json:"payload,omitempty"`
	Interval    *Interval `json:"interval,omitempty"`
}

// Reader yields trace records in file order. Next returns io.EOF after the
// last record.
type Reader interface {
	Metadata() Metadata
	Next() (*Record, error)
}

// Trace is a fully decoded trace file.
type Trace struct {
	Meta    Metadata
	Records []Record
}

// Open reads and decodes the trace file at path.
func Open(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tracefile: %w", err)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("tracefile: %s: %w", path, err)
	}
	return t, nil
}

// Decode parses a trace from r. The first non-empty line must be the
// metadata object; every following non-empty line is one record.
func Decode(r io.Reader) (*Trace, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	res := &Trace{}
	sawMeta := false
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		if !sawMeta {
			if err := json.Unmarshal(raw, &res.Meta); err != nil {
				return nil, fmt.Errorf("malformed metadata at line %d: %w", line, err)
			}
			sawMeta = true
			continue
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("malformed record at line %d: %w", line, err)
		}
		res.Records = append(res.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !sawMeta {
		return nil, errors.New("missing metadata line")
	}

	return res, nil
}

// Encode writes t in the format accepted by Decode.
func Encode(t *Trace, w io.Writer) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	if err := enc.Encode(&t.Meta); err != nil {
		return err
	}
	for i := range t.Records {
		if err := enc.Encode(&t.Records[i]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Reader returns a Reader over the decoded records.
func (t *Trace) Reader() Reader {
	return &sliceReader{trace: t}
}

type sliceReader struct {
	trace *Trace
	next  int
}

func (r *sliceReader) Metadata() Metadata {
	return r.trace.Meta
}

func (r *sliceReader) Next() (*Record, error) {
	if r.next >= len(r.trace.Records) {
		return nil, io.EOF
	}
	rec := &r.trace.Records[r.next]
	r.next++
	return rec, nil
}
