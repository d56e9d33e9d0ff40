package bersim

import (
	"errors"
	"fmt"
	"sync"
)

// ResultSink receives sweep records, in step order, after a sweep has succeeded.
type ResultSink interface {
	Write(r SweepRecord) error
	Close() error
}

// WriteAll hands every record to the sink, stopping at the first failure.
func WriteAll(sink ResultSink, records []SweepRecord) error {
	for _, r := range records {
		if err := sink.Write(r); err != nil {
			return fmt.Errorf("writing %s step %d: %w", r.Scheme, r.Step, err)
		}
	}

	return nil
}

// MemorySink keeps records in memory.
type MemorySink struct {
	mu      sync.Mutex
	records []SweepRecord
}

func (m *MemorySink) Write(r SweepRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, r)

	return nil
}

func (m *MemorySink) Close() error { return nil }

// Records returns a copy of everything written so far.
func (m *MemorySink) Records() []SweepRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out = make([]SweepRecord, len(m.records))
	copy(out, m.records)

	return out
}

// MultiSink writes each record to all of its sinks.
type MultiSink []ResultSink

func (ms MultiSink) Write(r SweepRecord) error {
	var errs []error
	for _, s := range ms {
		if err := s.Write(r); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (ms MultiSink) Close() error {
	var errs []error
	for _, s := range ms {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
