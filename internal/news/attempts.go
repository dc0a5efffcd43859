package news

import (
	"fmt"
	"sync"
	"time"

	"marketreport/internal/logger"
)

// Attempt records the result of fetching one query.
type Attempt struct {
	Timestamp  time.Time
	Query      string
	Error      string
	Duration   time.Duration
	StatusCode int
	Articles   int
	Success    bool
}

// AttemptLog keeps fetch attempts in the order they were made.
// It is safe for concurrent use.
type AttemptLog struct {
	attempts []Attempt
	mu       sync.Mutex
}

// NewAttemptLog creates an empty attempt log.
func NewAttemptLog() *AttemptLog {
	return &AttemptLog{}
}

// Record appends the outcome of a fetch.
func (al *AttemptLog) Record(query string, err error, statusCode, articles int, duration time.Duration) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}

	al.mu.Lock()
	defer al.mu.Unlock()

	al.attempts = append(al.attempts, Attempt{
		Timestamp:  time.Now(),
		Query:      query,
		Error:      errMsg,
		Duration:   duration,
		StatusCode: statusCode,
		Articles:   articles,
		Success:    err == nil,
	})
}

// Attempts returns a copy of the recorded attempts.
func (al *AttemptLog) Attempts() []Attempt {
	al.mu.Lock()
	defer al.mu.Unlock()

	out := make([]Attempt, len(al.attempts))
	copy(out, al.attempts)

	return out
}

// Reset clears the log, typically at the start of a run.
func (al *AttemptLog) Reset() {
	al.mu.Lock()
	defer al.mu.Unlock()

	al.attempts = nil
}

// AttemptStats contains statistics about fetch attempts.
type AttemptStats struct {
	TotalDuration time.Duration
	Total         int
	Successful    int
	Failed        int
	Empty         int
	Articles      int
}

// Stats summarises the log. Empty counts successful fetches that returned no articles.
func (al *AttemptLog) Stats() AttemptStats {
	var stats AttemptStats

	for _, a := range al.Attempts() {
		stats.Total++
		stats.Articles += a.Articles
		stats.TotalDuration += a.Duration

		switch {
		case !a.Success:
			stats.Failed++
		case a.Articles == 0:
			stats.Successful++
			stats.Empty++
		default:
			stats.Successful++
		}
	}

	return stats
}

// String returns a string representation of attempt stats.
func (s AttemptStats) String() string {
	return fmt.Sprintf(
		"Queries: %d total, %d success (%d empty), %d failed | Articles: %d | Time: %.2fs",
		s.Total,
		s.Successful,
		s.Empty,
		s.Failed,
		s.Articles,
		s.TotalDuration.Seconds(),
	)
}

// LogSummary logs one line per attempt and the overall stats.
func (al *AttemptLog) LogSummary(l *logger.Logger) {
	for i, a := range al.Attempts() {
		if a.Success {
			l.Debug("fetch attempt",
				"n", i+1, "query", a.Query, "articles", a.Articles,
				"status", a.StatusCode, "duration", a.Duration)

			continue
		}

		l.Warn("fetch attempt failed",
			"n", i+1, "query", a.Query, "status", a.StatusCode,
			"error", a.Error, "duration", a.Duration)
	}

	l.Info("fetch summary", "stats", al.Stats().String())
}
