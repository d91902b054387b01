package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Mahek1394/research-engineering-intern-assignment/internal/analysis"
	"github.com/Mahek1394/research-engineering-intern-assignment/internal/dataset"
	"github.com/Mahek1394/research-engineering-intern-assignment/internal/pipeline"
)

// ErrNoDataset is returned by View before anything was uploaded.
var ErrNoDataset = errors.New("no dataset uploaded")

// Session holds the dataset currently under study and the selected date
// range. It is not safe for concurrent use; the pipeline it loads through is.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	pipeline *pipeline.Pipeline
	ds       *dataset.Dataset
	hasRange bool
	start    dataset.Date
	end      dataset.Date
	view     *dataset.View
}

// New starts an empty session loading through p.
func New(p *pipeline.Pipeline) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		pipeline:  p,
	}
}

// Upload loads pl and makes it the current dataset. A fatal load error
// leaves the previous dataset in place. An empty dataset is accepted and its
// *dataset.EmptyDatasetError is returned for the caller to report.
func (s *Session) Upload(pl pipeline.Payload) error {
	ds, err := s.pipeline.Load(pl)
	if pipeline.IsFatal(err) {
		return err
	}
	s.ds = ds
	s.refresh()
	return err
}

// LoadFile reads path and uploads it.
func (s *Session) LoadFile(path string) error {
	pl, err := pipeline.ReadPayload(path)
	if err != nil {
		return err
	}
	return s.Upload(pl)
}

// Dataset returns the current dataset, or nil.
func (s *Session) Dataset() *dataset.Dataset { return s.ds }

// SetRange selects records dated within [start, end].
func (s *Session) SetRange(start, end dataset.Date) {
	s.hasRange, s.start, s.end = true, start, end
	s.refresh()
}

// ClearRange selects the whole dataset again.
func (s *Session) ClearRange() {
	s.hasRange, s.start, s.end = false, dataset.InvalidDate, dataset.InvalidDate
	s.refresh()
}

// Range returns the selected interval; ok is false when none is set.
func (s *Session) Range() (start, end dataset.Date, ok bool) {
	return s.start, s.end, s.hasRange
}

func (s *Session) refresh() {
	s.UpdatedAt = time.Now()
	if s.ds == nil {
		s.view = nil
		return
	}
	if s.hasRange {
		s.view = dataset.Filter(s.ds, s.start, s.end)
	} else {
		s.view = dataset.All(s.ds)
	}
}

// View returns the records under the current range.
func (s *Session) View() (*dataset.View, error) {
	if s.view == nil {
		return nil, ErrNoDataset
	}
	return s.view, nil
}

// Report summarizes the current view.
func (s *Session) Report(opt analysis.ReportOptions) (*analysis.Report, error) {
	v, err := s.View()
	if err != nil {
		return nil, err
	}
	return analysis.BuildReport(s.ds.Name(), v, opt), nil
}

func (s *Session) String() string {
	if s.ds == nil {
		return fmt.Sprintf("session %s (empty)", s.ID)
	}
	return fmt.Sprintf("session %s: %s, %d of %d posts", s.ID, s.ds.Name(), s.view.Len(), s.ds.Len())
}
