package intentions

import (
	"fmt"
	"sync/atomic"
	"time"
)

// historySeq is a process-wide counter giving every record a total order,
// independent of clock resolution.
var historySeq atomic.Int64

// HistoryRecord is a single human-readable mutation note attached to an
// intention, tagged by the component that produced it.
type HistoryRecord struct {
	Seq     int64
	Time    time.Time
	Tag     string
	Summary string
}

func (r HistoryRecord) String() string {
	return "[" + r.Tag + "] " + r.Summary
}

// History is the append-only change log carried by every intention.
type History struct {
	records []HistoryRecord
}

// Record appends a new entry tagged by the given component.
func (h *History) Record(tag, format string, args ...any) {
	h.records = append(h.records, HistoryRecord{
		Seq:     historySeq.Add(1),
		Time:    time.Now(),
		Tag:     tag,
		Summary: fmt.Sprintf(format, args...),
	})
}

// Records returns the log in chronological order.
func (h *History) Records() []HistoryRecord {
	return h.records
}

// MergeFrom appends all of other's records, keeping chronological order by
// sequence number. Used when two intentions are fused into one.
func (h *History) MergeFrom(other *History) {
	if other == nil {
		return
	}
	h.records = append(h.records, other.records...)
	for i := 1; i < len(h.records); i++ {
		for j := i; j > 0 && h.records[j].Seq < h.records[j-1].Seq; j-- {
			h.records[j], h.records[j-1] = h.records[j-1], h.records[j]
		}
	}
}
