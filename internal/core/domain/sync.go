package domain

import "time"

// DefaultSyncLimit is the number of records processed per pass when unset.
const DefaultSyncLimit = 5

// SyncOptions selects the slice of eligible records to process.
type SyncOptions struct {
	// Limit is the maximum number of records to process. Zero means DefaultSyncLimit.
	Limit int

	// Offset is the index of the first record to process.
	Offset int

	// Reset purges the index before processing.
	Reset bool
}

// Normalised returns the options with defaults applied.
func (o SyncOptions) Normalised() SyncOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultSyncLimit
	}
	return o
}

// RecordFailure describes a record that could not be published.
type RecordFailure struct {
	RecordID string `json:"record_id"`
	Title    string `json:"title"`
	Reason   string `json:"reason"`
}

// SyncResult is the outcome of one pass and the cursor for the next.
type SyncResult struct {
	RunID           string          `json:"run_id"`
	TotalPages      int             `json:"totalPages"`
	Processed       int             `json:"processed"`
	OffsetStart     int             `json:"offsetStart"`
	NextOffset      *int            `json:"nextOffset"`
	Done            bool            `json:"done"`
	TitlesProcessed []string        `json:"titlesProcessed"`
	TitlesSkipped   []string        `json:"titlesSkipped,omitempty"`
	ChunksPublished int             `json:"chunksPublished"`
	Failures        []RecordFailure `json:"failures,omitempty"`
	Purge           *PurgeReport    `json:"purge,omitempty"`
}

// Next returns the options for the pass that continues this one.
// The second return value is false once the sequence is done.
func (r SyncResult) Next(limit int) (SyncOptions, bool) {
	if r.Done || r.NextOffset == nil {
		return SyncOptions{}, false
	}
	return SyncOptions{Limit: limit, Offset: *r.NextOffset}, true
}

// PurgeStage names the step of a file removal that failed.
type PurgeStage string

// Purge stages.
const (
	PurgeDetach PurgeStage = "detach"
	PurgeDelete PurgeStage = "delete"
)

// PurgeFailure describes one file that could not be fully removed.
type PurgeFailure struct {
	FileID string     `json:"file_id"`
	Stage  PurgeStage `json:"stage"`
	Reason string     `json:"reason"`
}

// PurgeReport is the outcome of removing every published file.
type PurgeReport struct {
	Listed  int            `json:"listed"`
	Removed []string       `json:"removed"`
	Failed  []PurgeFailure `json:"failed,omitempty"`
}

// SyncState is the persisted cursor of the most recent pass.
type SyncState struct {
	// Key identifies the target index.
	Key string `json:"key"`

	// RunID is the id of the pass that produced this state.
	RunID string `json:"run_id"`

	// NextOffset is where the next pass starts. Nil once done.
	NextOffset *int `json:"next_offset"`

	// Done reports whether the sequence reached the end of the eligible list.
	Done bool `json:"done"`

	// UpdatedAt is when the state was saved.
	UpdatedAt time.Time `json:"updated_at"`
}
