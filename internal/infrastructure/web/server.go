package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"TrendDeck/internal/colour"
	"TrendDeck/internal/domain"
)

const shutdownTimeout = 5 * time.Second

// DeckSource exposes the published pipeline state and a way to refresh it.
type DeckSource interface {
	State() domain.PipelineState
	Refresh(ctx context.Context) domain.PipelineState
}

// Server renders the published deck over HTTP and accepts card notifications.
type Server struct {
	addr     string
	source   DeckSource
	selector colour.Selector
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type cardView struct {
	Title     string `json:"title"`
	Emoji     string `json:"emoji"`
	URL       string `json:"url"`
	Color     string `json:"color"`
	TextColor string `json:"textColor"`
}

type stateView struct {
	State   string     `json:"state"`
	Message string     `json:"message,omitempty"`
	Cards   []cardView `json:"cards"`
}

type swipeRequest struct {
	Title     string `json:"title"`
	Direction string `json:"direction"`
}

type leftScreenRequest struct {
	Title string `json:"title"`
}

// NewServer builds the HTTP boundary listening on addr.
func NewServer(addr string, source DeckSource, selector colour.Selector, logger *slog.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:     addr,
		source:   source,
		selector: selector,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Handler returns the routed mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("POST /api/cards/swipe", s.handleSwipe)
	mux.HandleFunc("POST /api/cards/left-screen", s.handleLeftScreen)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down and waits for
// background refreshes started through the API.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.info("http server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		<-errCh
		s.Close()
		return err
	}
}

// Close cancels in-flight API refreshes and waits for them.
func (s *Server) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	state := s.source.State()
	view := stateView{
		State:   state.Kind.String(),
		Message: state.Message,
		Cards:   []cardView{},
	}
	if state.Kind == domain.StateReady {
		for _, card := range state.Deck {
			view.Cards = append(view.Cards, cardView{
				Title:     card.Title,
				Emoji:     card.Emoji,
				URL:       card.URL,
				Color:     card.Color,
				TextColor: s.selector.PickTextColor(card.Color),
			})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(view); err != nil {
		s.warn("encode state", "error", err)
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	if s.ctx.Err() != nil {
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		state := s.source.Refresh(s.ctx)
		s.info("api refresh finished", "state", state.Kind.String())
	}()

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleSwipe(w http.ResponseWriter, r *http.Request) {
	var req swipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	s.info("card swiped", "title", req.Title, "direction", req.Direction)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLeftScreen(w http.ResponseWriter, r *http.Request) {
	var req leftScreenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	s.info("card left screen", "title", req.Title)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) info(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Server) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
