// Package testutil provides a callback recorder for exercising a
// multiparser.Session in tests: it accumulates the (record, metadata)
// pairs a Session's per-thread callback receives.
package testutil

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Delivery is one callback invocation captured by a Recorder.
type Delivery struct {
	Record   map[string]any
	Metadata map[string]any
}

func (d *Delivery) String() string {
	return fmt.Sprintf("%v (meta %v)", d.Record, d.Metadata)
}

// Recorder collects every delivery a Session's per-thread callback
// receives. Safe for concurrent use since deliveries normally arrive from
// more than one worker goroutine.
type Recorder struct {
	mu         sync.Mutex
	Deliveries []*Delivery
}

// Callback is a multiparser.CallbackFunc-shaped method: pass r.Callback to
// multiparser.WithPerThreadCallback.
func (r *Recorder) Callback(record map[string]any, metadata map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Deliveries = append(r.Deliveries, &Delivery{Record: record, Metadata: metadata})
}

// Len returns the number of deliveries recorded so far.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Deliveries)
}

// All returns a snapshot copy of every delivery recorded so far.
func (r *Recorder) All() []*Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Delivery, len(r.Deliveries))
	copy(out, r.Deliveries)
	return out
}

// HasField returns true if any recorded delivery's record contains field.
func (r *Recorder) HasField(field string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.Deliveries {
		if _, ok := d.Record[field]; ok {
			return true
		}
	}
	return false
}

// FieldValue returns the value of field from the first delivery that
// carries it.
func (r *Recorder) FieldValue(field string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.Deliveries {
		if v, ok := d.Record[field]; ok {
			return v, true
		}
	}
	return nil, false
}

// AssertContainsFields fails t unless some recorded delivery's record is
// exactly fields.
func (r *Recorder) AssertContainsFields(t *testing.T, fields map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.Deliveries {
		if reflect.DeepEqual(fields, d.Record) {
			return
		}
	}
	assert.Fail(t, fmt.Sprintf("no delivery matched fields %v", fields))
}
