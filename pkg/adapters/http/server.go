// Package http exposes the onboarding engine over a JSON REST surface.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	"github.com/openbadge-labs/sprout/pkg/domain"
	"github.com/openbadge-labs/sprout/pkg/ledger"
)

// Engine is the surface the handler needs from the onboarding core.
type Engine interface {
	StartSession(ctx context.Context, sessionID string, authority ledger.Address) (*domain.Session, error)
	Session(ctx context.Context, sessionID string) (*domain.Session, error)
	ProbeChain(ctx context.Context, sessionID string) (*domain.Session, error)
	Evaluate(ctx context.Context, sessionID string) (*domain.Session, *domain.PresentationNode, error)
	RefreshBalance(ctx context.Context, sessionID string) (*domain.Session, error)
	StageProfile(ctx context.Context, sessionID string, params domain.ProfileParams) error
	StageAchievement(ctx context.Context, sessionID string, params domain.AchievementParams) error
	StageCredential(ctx context.Context, sessionID string, params domain.CredentialParams) error
	AttemptCreate(ctx context.Context, sessionID string, kind domain.Kind) (ledger.Address, error)
	ForceReset(ctx context.Context, sessionID string, boundary domain.ResetBoundary) (*domain.Session, error)
	NextStep(s *domain.Session) domain.Step
	Render(step domain.Step, s *domain.Session) *domain.PresentationNode
}

// Server implements the REST handlers.
type Server struct {
	engine Engine
	logger *slog.Logger
}

// NewHandler builds the chi router for the engine.
func NewHandler(engine Engine, logger *slog.Logger) http.Handler {
	s := &Server{engine: engine, logger: logger}

	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Post("/probe", s.probe)
			r.Post("/balance", s.refreshBalance)
			r.Post("/create/{kind}", s.create)
			r.Post("/reset", s.reset)
		})
	})
	return r
}

type sessionResponse struct {
	Session *domain.Session          `json:"session"`
	Step    domain.Step              `json:"next_step"`
	Node    *domain.PresentationNode `json:"node,omitempty"`
}

func (s *Server) respondSession(w http.ResponseWriter, session *domain.Session, node *domain.PresentationNode) {
	s.writeJSON(w, http.StatusOK, sessionResponse{
		Session: session,
		Step:    s.engine.NextStep(session),
		Node:    node,
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createSessionRequest struct {
	ID        string `json:"id,omitempty"`
	Authority string `json:"authority"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var body createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	authority, err := ledger.Parse(body.Authority)
	if err != nil || authority.IsZero() {
		s.writeError(w, http.StatusBadRequest, "a valid authority address is required")
		return
	}
	if body.ID == "" {
		body.ID = uuid.NewString()
	}

	session, err := s.engine.StartSession(r.Context(), body.ID, authority)
	if err != nil {
		s.handleEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, sessionResponse{
		Session: session,
		Step:    s.engine.NextStep(session),
	})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.engine.Session(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.handleEngineError(w, err)
		return
	}
	step := s.engine.NextStep(session)
	s.respondSession(w, session, s.engine.Render(step, session))
}

func (s *Server) probe(w http.ResponseWriter, r *http.Request) {
	session, node, err := s.engine.Evaluate(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.handleEngineError(w, err)
		return
	}
	s.respondSession(w, session, node)
}

func (s *Server) refreshBalance(w http.ResponseWriter, r *http.Request) {
	session, err := s.engine.RefreshBalance(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.handleEngineError(w, err)
		return
	}
	s.respondSession(w, session, nil)
}

type createRequest struct {
	Params map[string]any `json:"params,omitempty"`
}

type createResponse struct {
	Address   string      `json:"address"`
	Step      domain.Step `json:"next_step"`
	SessionID string      `json:"session_id"`
}

// create stages the body params (when given) and attempts the creation.
// Param maps decode through mapstructure so field naming matches the
// domain structs' tags.
func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	kind, err := domain.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body createRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if body.Params != nil {
		if err := s.stage(r.Context(), sessionID, kind, body.Params); err != nil {
			s.handleEngineError(w, err)
			return
		}
	}

	addr, err := s.engine.AttemptCreate(r.Context(), sessionID, kind)
	if err != nil {
		s.handleEngineError(w, err)
		return
	}

	session, err := s.engine.Session(r.Context(), sessionID)
	if err != nil {
		s.handleEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, createResponse{
		Address:   addr.String(),
		Step:      s.engine.NextStep(session),
		SessionID: sessionID,
	})
}

func (s *Server) stage(ctx context.Context, sessionID string, kind domain.Kind, raw map[string]any) error {
	switch kind {
	case domain.KindProfile:
		var params domain.ProfileParams
		if err := decodeParams(raw, &params); err != nil {
			return err
		}
		if err := params.Validate(); err != nil {
			return &badRequestError{msg: err.Error()}
		}
		return s.engine.StageProfile(ctx, sessionID, params)
	case domain.KindAchievement:
		var params domain.AchievementParams
		if err := decodeParams(raw, &params); err != nil {
			return err
		}
		if err := params.Validate(); err != nil {
			return &badRequestError{msg: err.Error()}
		}
		return s.engine.StageAchievement(ctx, sessionID, params)
	case domain.KindCredential:
		var params struct {
			Recipient string `mapstructure:"recipient"`
		}
		if err := decodeParams(raw, &params); err != nil {
			return err
		}
		recipient, err := ledger.Parse(params.Recipient)
		if err != nil {
			return &badRequestError{msg: err.Error()}
		}
		credParams := domain.CredentialParams{Recipient: recipient}
		if err := credParams.Validate(); err != nil {
			return &badRequestError{msg: err.Error()}
		}
		return s.engine.StageCredential(ctx, sessionID, credParams)
	}
	// KindAccount takes no parameters.
	return nil
}

func decodeParams(raw map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return &badRequestError{msg: "invalid params: " + err.Error()}
	}
	return nil
}

type resetRequest struct {
	Boundary string `json:"boundary"`
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	var body resetRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	boundary, err := domain.ParseResetBoundary(body.Boundary)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := s.engine.ForceReset(r.Context(), chi.URLParam(r, "sessionID"), boundary)
	if err != nil {
		s.handleEngineError(w, err)
		return
	}
	s.respondSession(w, session, nil)
}

type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleEngineError(w http.ResponseWriter, err error) {
	var insufficient *domain.InsufficientFundsError
	var badReq *badRequestError

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrCreationBusy):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &insufficient):
		s.writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, domain.ErrParentMissing), errors.Is(err, domain.ErrMissingParams):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &badReq):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", "err", err)
		s.writeError(w, http.StatusBadGateway, err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
