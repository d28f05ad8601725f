package practice

import "github.com/abhisek/fjala/internal/session"

// loadedMsg is sent when the session has loaded its lesson and questions.
type loadedMsg struct {
	Err error
}

// answeredMsg is sent when an answer has been scored and persisted.
type answeredMsg struct {
	Result *session.Result
	Err    error
}

// advancedMsg is sent after Next or Restart.
type advancedMsg struct {
	Err error
}
