// Package httpapi exposes run sessions over a JSON HTTP API.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/user/district-runner/internal/interfaces"
	"go.uber.org/zap"
)

// Server routes HTTP requests to the game manager
type Server struct {
	gameManager interfaces.GameManager
	logger      *zap.Logger
}

// NewServer creates a new API server
func NewServer(gameManager interfaces.GameManager, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		gameManager: gameManager,
		logger:      logger,
	}
}

// Router builds the chi router with every API route
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(s.requestLogger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	router.Route("/runs", func(r chi.Router) {
		r.Post("/", s.handleNewRun)

		r.Route("/{runID}", func(r chi.Router) {
			r.Get("/", s.handleGetRun)
			r.Get("/missions", s.handleListMissions)
			r.Post("/missions/{missionID}/accept", s.handleAcceptMission)
			r.Get("/scene", s.handleCurrentScene)
			r.Post("/scene/options/{index}", s.handleSelectOption)
			r.Post("/scene/advance", s.handleAdvanceScene)
			r.Post("/abandon", s.handleAbandon)
			r.Post("/items/{itemID}/buy", s.handleBuyItem)
			r.Get("/memory", s.handleMemory)
			r.Get("/history", s.handleHistory)
			r.Post("/save", s.handleSave)
			r.Post("/load", s.handleLoad)
		})
	})

	return router
}

// requestLogger logs each request with zap
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

type newRunRequest struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Difficulty string `json:"difficulty"`
}

func (s *Server) handleNewRun(w http.ResponseWriter, r *http.Request) {
	var req newRunRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, r, fmt.Errorf("%w: %v", errInvalidRequest, err))
			return
		}
	}

	run, err := s.gameManager.NewRun(req.Name, req.Role, req.Difficulty)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, run)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.gameManager.GetRun(chi.URLParam(r, "runID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleListMissions(w http.ResponseWriter, r *http.Request) {
	missions, err := s.gameManager.ListMissions(chi.URLParam(r, "runID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, missions)
}

func (s *Server) handleAcceptMission(w http.ResponseWriter, r *http.Request) {
	view, err := s.gameManager.AcceptMission(chi.URLParam(r, "runID"), chi.URLParam(r, "missionID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCurrentScene(w http.ResponseWriter, r *http.Request) {
	view, err := s.gameManager.CurrentScene(chi.URLParam(r, "runID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSelectOption(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: option index must be a number", errInvalidRequest))
		return
	}

	step, err := s.gameManager.SelectOption(chi.URLParam(r, "runID"), index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, step)
}

func (s *Server) handleAdvanceScene(w http.ResponseWriter, r *http.Request) {
	step, err := s.gameManager.AdvanceScene(chi.URLParam(r, "runID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, step)
}

func (s *Server) handleAbandon(w http.ResponseWriter, r *http.Request) {
	if err := s.gameManager.AbandonMission(chi.URLParam(r, "runID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBuyItem(w http.ResponseWriter, r *http.Request) {
	purchase, err := s.gameManager.BuyItem(chi.URLParam(r, "runID"), chi.URLParam(r, "itemID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, purchase)
}

func (s *Server) handleMemory(w http.ResponseWriter, r *http.Request) {
	events, err := s.gameManager.GetMemory(chi.URLParam(r, "runID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	histories, err := s.gameManager.GetHistories(chi.URLParam(r, "runID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, histories)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.gameManager.SaveRun(r.Context(), chi.URLParam(r, "runID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	run, err := s.gameManager.LoadRun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	} else {
		s.logger.Debug("Request rejected",
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
