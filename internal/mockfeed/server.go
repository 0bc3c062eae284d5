package mockfeed

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/okian/feedback/pkg/logger"
)

// Server serves a fixed record set as a JSON array at FeedPath.
type Server struct {
	mu        sync.Mutex
	records   []Record
	latency   time.Duration
	failEvery int
	requests  int
	stats     Stats
}

// NewServer creates a feed server over records.
func NewServer(records []Record, cfg *Config) *Server {
	return &Server{
		records:   records,
		latency:   cfg.Latency,
		failEvery: cfg.FailEvery,
		stats:     Stats{Generated: len(records), StartTime: time.Now()},
	}
}

// Handler returns the feed routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(FeedPath, s.handleFeed)
	return mux
}

// Stats returns a copy of the served/failed counters.
func (s *Server) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	s.mu.Lock()
	s.requests++
	fail := s.failEvery > 0 && s.requests%s.failEvery == 0
	if fail {
		s.stats.Failed++
	} else {
		s.stats.Served++
	}
	s.mu.Unlock()

	if s.latency > 0 {
		select {
		case <-time.After(s.latency):
		case <-r.Context().Done():
			return
		}
	}

	if fail {
		logger.Get().Debug(r.Context(), "injecting feed failure")
		http.Error(w, "feed temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.records); err != nil {
		logger.Get().Error(r.Context(), "failed to encode feed", logger.Error(err))
	}
}
