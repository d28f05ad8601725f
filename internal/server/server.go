// Package server exposes practice sessions over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/progress"
	"github.com/abhisek/fjala/internal/questions"
	"github.com/abhisek/fjala/internal/session"
	"github.com/abhisek/fjala/internal/store"
	"github.com/abhisek/fjala/internal/tips"
)

const (
	// DefaultSessionTTL is how long an untouched session is kept.
	DefaultSessionTTL = 2 * time.Hour

	shutdownTimeout = 5 * time.Second
)

// Deps are the collaborators of a Server. Content, Progress and Events
// are required.
type Deps struct {
	Content  store.ContentRepo
	Progress progress.Store
	Events   store.EventRepo
	Tips     tips.Source

	Rules   session.Rules
	Dialect content.Dialect

	// RequestsPerSecond limits each client IP. Zero disables limiting.
	RequestsPerSecond float64
	SessionTTL        time.Duration

	Logger logrus.FieldLogger
	Now    func() time.Time
	Rand   *rand.Rand
}

// Server is the HTTP practice API. Sessions live in memory.
type Server struct {
	echo *echo.Echo
	deps Deps
	log  logrus.FieldLogger

	mu       sync.Mutex
	sessions map[string]*entry
	rng      *rand.Rand
}

type entry struct {
	sess    *session.Session
	touched time.Time
}

// New builds a Server with its routes registered.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if deps.Dialect == "" {
		deps.Dialect = content.DefaultDialect
	}
	if deps.SessionTTL <= 0 {
		deps.SessionTTL = DefaultSessionTTL
	}

	s := &Server{
		echo:     echo.New(),
		deps:     deps,
		log:      deps.Logger.WithField("component", "server"),
		sessions: make(map[string]*entry),
		rng:      deps.Rand,
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = s.handleError

	s.echo.Use(middleware.Recover())
	s.echo.Use(requestLogger(s.log))
	if deps.RequestsPerSecond > 0 {
		s.echo.Use(middleware.RateLimiter(
			middleware.NewRateLimiterMemoryStore(rate.Limit(deps.RequestsPerSecond)),
		))
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.echo.Group("/api")

	api.GET("/lessons", s.listLessons)
	api.GET("/lessons/:slug", s.getLesson)
	api.GET("/lessons/:slug/review", s.reviewLesson)

	api.POST("/sessions", s.createSession)
	api.GET("/sessions/:id", s.getSession)
	api.POST("/sessions/:id/answers", s.submitAnswer)
	api.POST("/sessions/:id/next", s.nextQuestion)
	api.POST("/sessions/:id/restart", s.restartSession)
	api.GET("/sessions/:id/summary", s.sessionSummary)

	api.GET("/progress", s.getProgress)
	api.GET("/tips/random", s.randomTip)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.WithField("addr", addr).Info("listening")
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newSession builds a session with the server's collaborators.
func (s *Server) newSession(rules session.Rules) *session.Session {
	s.mu.Lock()
	seed1, seed2 := s.rng.Uint64(), s.rng.Uint64()
	s.mu.Unlock()

	deps := session.Deps{
		Progress:  s.deps.Progress,
		Generator: questions.New(questions.DefaultConfig(), questions.WithRand(rand.New(rand.NewPCG(seed1, seed2)))),
		Events:    s.deps.Events,
		Tips:      s.deps.Tips,
		Logger:    s.deps.Logger,
		Now:       s.deps.Now,
	}
	return session.New(deps, rules)
}

func (s *Server) putSession(sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.deps.Now()
	for id, e := range s.sessions {
		if now.Sub(e.touched) > s.deps.SessionTTL {
			delete(s.sessions, id)
		}
	}
	s.sessions[sess.ID()] = &entry{sess: sess, touched: now}
}

func (s *Server) lookupSession(id string) (*session.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	e.touched = s.deps.Now()
	return e.sess, true
}

// shuffleRight returns the right column of pairs in a random order.
func (s *Server) shuffleRight(pairs []questions.Pair) []string {
	board := questions.NewMatchBoard(pairs, questions.DefaultMatchRules())
	s.mu.Lock()
	board.ShuffleRight(s.rng)
	s.mu.Unlock()

	out := make([]string, board.Len())
	for i := range out {
		out[i] = board.Item(questions.Right, i)
	}
	return out
}
