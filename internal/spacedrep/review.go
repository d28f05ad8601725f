package spacedrep

import (
	"encoding/json"
	"sort"
	"time"
)

// PracticeItem holds the review state of a single question.
type PracticeItem struct {
	ID           string
	Ease         Ease
	NextDue      time.Time
	CorrectCount int
	WrongCount   int
}

// practiceItemJSON is the stored shape. NextDue is unix milliseconds.
type practiceItemJSON struct {
	ID           string `json:"id"`
	Ease         int    `json:"ease"`
	NextDue      int64  `json:"nextDue"`
	CorrectCount int    `json:"correctCount"`
	WrongCount   int    `json:"wrongCount"`
}

func (p PracticeItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(practiceItemJSON{
		ID:           p.ID,
		Ease:         int(p.Ease),
		NextDue:      p.NextDue.UnixMilli(),
		CorrectCount: p.CorrectCount,
		WrongCount:   p.WrongCount,
	})
}

func (p *PracticeItem) UnmarshalJSON(data []byte) error {
	var raw practiceItemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = PracticeItem{
		ID:           raw.ID,
		Ease:         max(MinEase, min(MaxEase, Ease(raw.Ease))),
		NextDue:      time.UnixMilli(raw.NextDue),
		CorrectCount: raw.CorrectCount,
		WrongCount:   raw.WrongCount,
	}
	return nil
}

// IsDue returns true if the question is due (at or past NextDue).
func (p *PracticeItem) IsDue(now time.Time) bool {
	return !now.Before(p.NextDue)
}

// Attempts returns the total number of answers recorded.
func (p *PracticeItem) Attempts() int {
	return p.CorrectCount + p.WrongCount
}

// Status describes an item's review status for display.
type Status string

const (
	StatusLearning Status = "learning"
	StatusDue      Status = "due"
	StatusKnown    Status = "known"
)

// Status returns the review status at now. Items at the top two ease
// levels that are not yet due count as known.
func (p *PracticeItem) Status(now time.Time) Status {
	if p.IsDue(now) {
		return StatusDue
	}
	if p.Ease >= MaxEase-1 {
		return StatusKnown
	}
	return StatusLearning
}

// Record is the per-lesson map of practice items keyed by question ID.
// It only ever grows.
type Record map[string]PracticeItem

// Apply records an answer to question id at now and returns the updated
// item. A question seen for the first time starts at InitialEase.
func (r Record) Apply(id string, correct bool, now time.Time) PracticeItem {
	item, ok := r[id]
	if !ok {
		item = PracticeItem{ID: id, Ease: InitialEase, NextDue: now}
	}

	item.Ease = UpdateEase(item.Ease, correct)
	item.NextDue = NextDue(item.Ease, correct, now)
	if correct {
		item.CorrectCount++
	} else {
		item.WrongCount++
	}

	r[id] = item
	return item
}

// IsDue reports whether question id should be practiced at now. Questions
// never answered are always due.
func (r Record) IsDue(id string, now time.Time) bool {
	item, ok := r[id]
	if !ok {
		return true
	}
	return item.IsDue(now)
}

// Due returns the items due at now, most overdue first.
func (r Record) Due(now time.Time) []PracticeItem {
	var due []PracticeItem
	for _, item := range r {
		if item.IsDue(now) {
			due = append(due, item)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].NextDue.Equal(due[j].NextDue) {
			return due[i].ID < due[j].ID
		}
		return due[i].NextDue.Before(due[j].NextDue)
	})
	return due
}

// Stats summarises a record.
type Stats struct {
	Items    int
	Due      int
	Known    int
	Correct  int
	Wrong    int
	MeanEase float64
}

// Stats returns the summary of r at now.
func (r Record) Stats(now time.Time) Stats {
	var s Stats
	var easeSum int
	for _, item := range r {
		s.Items++
		s.Correct += item.CorrectCount
		s.Wrong += item.WrongCount
		easeSum += int(item.Ease)
		switch item.Status(now) {
		case StatusDue:
			s.Due++
		case StatusKnown:
			s.Known++
		}
	}
	if s.Items > 0 {
		s.MeanEase = float64(easeSum) / float64(s.Items)
	}
	return s
}
