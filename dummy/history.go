package dummy

import "github.com/zeu5/gym-dummy/types"

// EpisodeRecord is the log of one episode.
// len(Observations) == len(Actions)+1 after the reset and after every step.
type EpisodeRecord struct {
	Index        int
	Observations []types.Observation
	Actions      []types.Action
}

func (r *EpisodeRecord) copy() EpisodeRecord {
	observations := make([]types.Observation, len(r.Observations))
	for i, o := range r.Observations {
		observations[i] = o.Copy()
	}
	actions := make([]types.Action, len(r.Actions))
	copy(actions, r.Actions)
	return EpisodeRecord{
		Index:        r.Index,
		Observations: observations,
		Actions:      actions,
	}
}

// History keeps the episode records of an environment, oldest first.
// With a limit only the most recent records are kept.
type History struct {
	records []*EpisodeRecord
	limit   int
}

func newHistory(limit int) *History {
	return &History{
		records: make([]*EpisodeRecord, 0),
		limit:   limit,
	}
}

func (h *History) begin(index int, first types.Observation) *EpisodeRecord {
	record := &EpisodeRecord{
		Index:        index,
		Observations: []types.Observation{first},
		Actions:      make([]types.Action, 0),
	}
	h.records = append(h.records, record)
	if h.limit > 0 && len(h.records) > h.limit {
		evicted := len(h.records) - h.limit
		for i := 0; i < evicted; i++ {
			h.records[i] = nil
		}
		h.records = h.records[evicted:]
	}
	return record
}

func (h *History) current() *EpisodeRecord {
	if len(h.records) == 0 {
		return nil
	}
	return h.records[len(h.records)-1]
}

// Len is the number of records retained
func (h *History) Len() int {
	return len(h.records)
}

// Episode returns a copy of the record with the given index, false if it never existed or was evicted
func (h *History) Episode(index int) (EpisodeRecord, bool) {
	if len(h.records) == 0 {
		return EpisodeRecord{}, false
	}
	// indices are contiguous so the position is an offset from the oldest retained one
	pos := index - h.records[0].Index
	if pos < 0 || pos >= len(h.records) {
		return EpisodeRecord{}, false
	}
	return h.records[pos].copy(), true
}

// Records returns copies of all retained records
func (h *History) Records() []EpisodeRecord {
	out := make([]EpisodeRecord, len(h.records))
	for i, r := range h.records {
		out[i] = r.copy()
	}
	return out
}
