package server

import (
	"time"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/progress"
	"github.com/abhisek/fjala/internal/questions"
	"github.com/abhisek/fjala/internal/session"
	"github.com/abhisek/fjala/internal/store"
)

// LessonResponse is one row of GET /api/lessons.
type LessonResponse struct {
	Slug       string        `json:"slug"`
	Title      string        `json:"title"`
	Level      content.Level `json:"level,omitempty"`
	Summary    string        `json:"summary,omitempty"`
	Published  bool          `json:"published"`
	VocabCount int           `json:"vocab_count"`
	QuizCount  int           `json:"quiz_count"`
}

// VocabResponse is a vocabulary item in the requested dialect.
type VocabResponse struct {
	ID       string          `json:"id"`
	Gloss    string          `json:"gloss"`
	Phrase   string          `json:"phrase"`
	Dialect  content.Dialect `json:"dialect,omitempty"`
	IPA      string          `json:"ipa,omitempty"`
	AudioURL string          `json:"audio_url,omitempty"`
}

// LessonDetailResponse is GET /api/lessons/:slug.
type LessonDetailResponse struct {
	LessonResponse
	Body    string          `json:"body,omitempty"`
	Dialect content.Dialect `json:"dialect"`
	Vocab   []VocabResponse `json:"vocab"`
	Correct int             `json:"answers_correct"`
	Total   int             `json:"answers_total"`
}

// QuestionResponse is a question without its answer. For match_pairs the
// right column is shuffled.
type QuestionResponse struct {
	ID       string         `json:"id"`
	Type     questions.Type `json:"type"`
	Label    string         `json:"label"`
	Prompt   string         `json:"prompt"`
	Options  []string       `json:"options,omitempty"`
	Left     []string       `json:"left,omitempty"`
	Right    []string       `json:"right,omitempty"`
	AudioURL string         `json:"audio_url,omitempty"`
}

// StateResponse is a session's observable state.
type StateResponse struct {
	ID         string            `json:"id"`
	Lesson     string            `json:"lesson"`
	Dialect    content.Dialect   `json:"dialect"`
	Phase      string            `json:"phase"`
	Index      int               `json:"index"`
	Total      int               `json:"total"`
	Stats      session.Stats     `json:"stats"`
	Accuracy   int               `json:"accuracy"`
	Hearts     int               `json:"hearts"`
	HeartsOn   bool              `json:"hearts_enabled"`
	GameOver   bool              `json:"game_over"`
	Question   *QuestionResponse `json:"question,omitempty"`
	LastResult *session.Result   `json:"last_result,omitempty"`
	StartTime  time.Time         `json:"start_time"`
}

// CreateSessionRequest is the body of POST /api/sessions. Unset fields
// take the server's rules.
type CreateSessionRequest struct {
	Slug    string `json:"slug"`
	Dialect string `json:"dialect"`
	Count   int    `json:"count"`
	Hearts  *bool  `json:"hearts"`
	DueOnly *bool  `json:"due_only"`
}

// AnswerRequest is the body of POST /api/sessions/:id/answers. Match
// questions send their pairings instead of an answer.
type AnswerRequest struct {
	Answer string           `json:"answer"`
	Pairs  []questions.Pair `json:"pairs"`
}

// AnswerResponse carries the scored result and the state after it.
type AnswerResponse struct {
	Result *session.Result `json:"result"`
	State  StateResponse   `json:"state"`
}

// SummaryResponse is GET /api/sessions/:id/summary.
type SummaryResponse struct {
	session.SessionSummary
	DurationSecs int `json:"duration_secs"`
}

// DayXPResponse is one day of the XP history.
type DayXPResponse struct {
	Date string `json:"date"`
	XP   int    `json:"xp"`
}

// SessionRecordResponse is a finished session.
type SessionRecordResponse struct {
	ID           string    `json:"id"`
	Lesson       string    `json:"lesson"`
	FinishedAt   time.Time `json:"finished_at"`
	Questions    int       `json:"questions"`
	Answered     int       `json:"answered"`
	Correct      int       `json:"correct"`
	XPEarned     int       `json:"xp_earned"`
	GameOver     bool      `json:"game_over"`
	DurationSecs int       `json:"duration_secs"`
}

// ProgressResponse is GET /api/progress.
type ProgressResponse struct {
	progress.Snapshot
	NextMilestone int                     `json:"next_milestone"`
	DailyXP       []DayXPResponse         `json:"daily_xp"`
	Recent        []SessionRecordResponse `json:"recent_sessions"`
}

// TipResponse is GET /api/tips/random.
type TipResponse struct {
	Tip string `json:"tip"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func toLessonResponse(info store.LessonInfo) LessonResponse {
	return LessonResponse{
		Slug:       info.Slug,
		Title:      info.Title,
		Level:      info.Level,
		Summary:    info.Summary,
		Published:  info.Published,
		VocabCount: info.VocabCount,
		QuizCount:  info.QuizCount,
	}
}

func toVocabResponse(v content.VocabItem, d content.Dialect) VocabResponse {
	picked := v.Pick(d)
	return VocabResponse{
		ID:       v.ID,
		Gloss:    v.Gloss,
		Phrase:   picked.Phrase,
		Dialect:  picked.Dialect,
		IPA:      picked.IPA,
		AudioURL: picked.AudioURL,
	}
}

func (s *Server) toQuestionResponse(q *questions.Question) *QuestionResponse {
	if q == nil {
		return nil
	}
	out := &QuestionResponse{
		ID:       q.ID,
		Type:     q.Type,
		Label:    q.Type.Label(),
		Prompt:   q.Prompt,
		Options:  q.Options,
		AudioURL: q.AudioURL,
	}
	if q.Type == questions.TypeMatchPairs {
		out.Left = make([]string, len(q.Pairs))
		for i, p := range q.Pairs {
			out.Left[i] = p.Left
		}
		out.Right = s.shuffleRight(q.Pairs)
	}
	return out
}

func (s *Server) toStateResponse(st session.State) StateResponse {
	return StateResponse{
		ID:         st.ID,
		Lesson:     st.Lesson,
		Dialect:    st.Dialect,
		Phase:      st.Phase,
		Index:      st.Index,
		Total:      st.Total,
		Stats:      st.Stats,
		Accuracy:   st.Stats.Accuracy(),
		Hearts:     st.Hearts,
		HeartsOn:   st.HeartsOn,
		GameOver:   st.GameOver,
		Question:   s.toQuestionResponse(st.Question),
		LastResult: st.LastResult,
		StartTime:  st.StartTime,
	}
}

func toSessionRecordResponse(rec store.SessionRecord) SessionRecordResponse {
	return SessionRecordResponse{
		ID:           rec.SessionID,
		Lesson:       rec.LessonSlug,
		FinishedAt:   rec.Timestamp,
		Questions:    rec.Questions,
		Answered:     rec.Answered,
		Correct:      rec.Correct,
		XPEarned:     rec.XPEarned,
		GameOver:     rec.GameOver,
		DurationSecs: rec.DurationSecs,
	}
}
