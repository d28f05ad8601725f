package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/markdown"
	"github.com/abhisek/fjala/internal/progress"
	"github.com/abhisek/fjala/internal/questions"
	"github.com/abhisek/fjala/internal/session"
	"github.com/abhisek/fjala/internal/store"
)

const (
	historyDays  = 7
	recentLimit  = 5
	maxQuestions = 100
	errNoSession = "session not found"
)

// listLessons handles GET /api/lessons. Drafts are hidden unless all=true.
func (s *Server) listLessons(c echo.Context) error {
	all, _ := strconv.ParseBool(c.QueryParam("all"))
	infos, err := s.deps.Content.ListLessons(c.Request().Context(), !all)
	if err != nil {
		return err
	}
	out := make([]LessonResponse, len(infos))
	for i, info := range infos {
		out[i] = toLessonResponse(info)
	}
	return c.JSON(http.StatusOK, out)
}

// getLesson handles GET /api/lessons/:slug.
func (s *Server) getLesson(c echo.Context) error {
	ctx := c.Request().Context()
	dialect, err := s.resolveDialect(c, c.QueryParam("dialect"))
	if err != nil {
		return err
	}
	lesson, err := s.deps.Content.LoadPractice(ctx, c.Param("slug"))
	if err != nil {
		return err
	}

	out := LessonDetailResponse{
		LessonResponse: LessonResponse{
			Slug:       lesson.Slug,
			Title:      lesson.Title,
			Level:      lesson.Level,
			Summary:    lesson.Summary,
			Published:  lesson.Published,
			VocabCount: len(lesson.Vocab),
			QuizCount:  len(lesson.QuizItems()),
		},
		Body:    markdown.ToText([]byte(lesson.BodyMarkdown)),
		Dialect: dialect,
		Vocab:   make([]VocabResponse, len(lesson.Vocab)),
	}
	for i, v := range lesson.Vocab {
		out.Vocab[i] = toVocabResponse(v, dialect)
	}
	if s.deps.Events != nil {
		acc, err := s.deps.Events.LessonAccuracy(ctx, lesson.Slug)
		if err != nil {
			return err
		}
		out.Correct, out.Total = acc.Correct, acc.Answered
	}
	return c.JSON(http.StatusOK, out)
}

// reviewLesson handles GET /api/lessons/:slug/review.
func (s *Server) reviewLesson(c echo.Context) error {
	ctx := c.Request().Context()
	dialect, err := s.resolveDialect(c, c.QueryParam("dialect"))
	if err != nil {
		return err
	}
	lesson, err := s.deps.Content.LoadPractice(ctx, c.Param("slug"))
	if err != nil {
		return err
	}
	rec, err := s.deps.Progress.PracticeRecord(ctx, session.LessonKey(lesson))
	if err != nil {
		return err
	}
	dueOnly, _ := strconv.ParseBool(c.QueryParam("due"))
	items := session.Review(questions.New(questions.DefaultConfig()), lesson, dialect, rec, s.deps.Now(), dueOnly)
	return c.JSON(http.StatusOK, items)
}

// createSession handles POST /api/sessions.
func (s *Server) createSession(c echo.Context) error {
	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "slug is required")
	}
	if req.Count < 0 || req.Count > maxQuestions {
		return echo.NewHTTPError(http.StatusBadRequest, "count must be between 0 and "+strconv.Itoa(maxQuestions))
	}
	dialect, err := s.resolveDialect(c, req.Dialect)
	if err != nil {
		return err
	}

	rules := s.deps.Rules
	if req.Count > 0 {
		rules.QuestionCount = req.Count
	}
	if req.Hearts != nil {
		rules.HeartsEnabled = *req.Hearts
	}
	if req.DueOnly != nil {
		rules.DueOnly = *req.DueOnly
	}

	sess := s.newSession(rules)
	if err := sess.Load(c.Request().Context(), s.deps.Content, req.Slug, dialect); err != nil {
		return err
	}
	s.putSession(sess)
	return c.JSON(http.StatusCreated, s.toStateResponse(sess.State()))
}

// getSession handles GET /api/sessions/:id.
func (s *Server) getSession(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.toStateResponse(sess.State()))
}

// submitAnswer handles POST /api/sessions/:id/answers.
func (s *Server) submitAnswer(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	var req AnswerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	var res *session.Result
	if len(req.Pairs) > 0 {
		res, err = sess.SubmitPairs(c.Request().Context(), req.Pairs)
	} else {
		res, err = sess.Submit(c.Request().Context(), req.Answer)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AnswerResponse{Result: res, State: s.toStateResponse(sess.State())})
}

// nextQuestion handles POST /api/sessions/:id/next.
func (s *Server) nextQuestion(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	if err := sess.Next(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.toStateResponse(sess.State()))
}

// restartSession handles POST /api/sessions/:id/restart.
func (s *Server) restartSession(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	if err := sess.Restart(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.toStateResponse(sess.State()))
}

// sessionSummary handles GET /api/sessions/:id/summary.
func (s *Server) sessionSummary(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	sum := sess.Summary()
	return c.JSON(http.StatusOK, SummaryResponse{SessionSummary: sum, DurationSecs: int(sum.Duration.Seconds())})
}

// getProgress handles GET /api/progress.
func (s *Server) getProgress(c echo.Context) error {
	ctx := c.Request().Context()
	now := s.deps.Now()
	snap, err := progress.Load(ctx, s.deps.Progress, now, s.deps.Dialect)
	if err != nil {
		return err
	}

	out := ProgressResponse{
		Snapshot:      snap,
		NextMilestone: progress.NextStreakMilestone(snap.Streak),
		DailyXP:       []DayXPResponse{},
		Recent:        []SessionRecordResponse{},
	}
	if s.deps.Events != nil {
		days, err := s.deps.Events.DailyXP(ctx, historyDays, now)
		if err != nil {
			return err
		}
		for _, d := range days {
			out.DailyXP = append(out.DailyXP, DayXPResponse{Date: d.Date, XP: d.XP})
		}
		recent, err := s.deps.Events.RecentSessions(ctx, recentLimit)
		if err != nil {
			return err
		}
		for _, r := range recent {
			out.Recent = append(out.Recent, toSessionRecordResponse(r))
		}
	}
	return c.JSON(http.StatusOK, out)
}

// randomTip handles GET /api/tips/random.
func (s *Server) randomTip(c echo.Context) error {
	if s.deps.Tips == nil {
		return echo.NewHTTPError(http.StatusNotFound, "tips are disabled")
	}
	return c.JSON(http.StatusOK, TipResponse{Tip: s.deps.Tips.Tip(c.Request().Context())})
}

func (s *Server) session(c echo.Context) (*session.Session, error) {
	sess, ok := s.lookupSession(c.Param("id"))
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, errNoSession)
	}
	return sess, nil
}

// resolveDialect picks the requested dialect, then the stored
// preference, then the server default.
func (s *Server) resolveDialect(c echo.Context, requested string) (content.Dialect, error) {
	if requested != "" {
		d, ok := content.ParseDialect(requested)
		if !ok {
			return "", echo.NewHTTPError(http.StatusBadRequest, "unknown dialect "+strconv.Quote(requested))
		}
		return d, nil
	}
	d, ok, err := s.deps.Progress.Dialect(c.Request().Context())
	if err != nil {
		return "", err
	}
	if !ok {
		d = s.deps.Dialect
	}
	return d, nil
}

// handleError writes err as an ErrorResponse with a status derived from
// its kind.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := err.Error()
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		status = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(he.Code)
		}
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrNoQuestions):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrWrongPhase):
		status = http.StatusConflict
	case errors.Is(err, session.ErrNotMatchPairs):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		s.log.WithError(err).WithField("path", c.Path()).Error("request failed")
		msg = http.StatusText(status)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, ErrorResponse{Error: msg})
	}
	if err != nil {
		s.log.WithError(err).Warn("write error response")
	}
}
