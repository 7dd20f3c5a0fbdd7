package turn

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"turnserver/internal/bootstrap"
	errs "turnserver/internal/errors"
	"turnserver/internal/httpresponse"
	"turnserver/internal/utils"
)

type TurnPlayer interface {
	PlayTurn(ctx context.Context, raw []byte) ([]byte, error)
}

type TurnHandler struct {
	cfg    bootstrap.Config
	log    *zap.SugaredLogger
	turnUC TurnPlayer
}

func NewTurnHandler(cfg bootstrap.Config, log *zap.SugaredLogger, turnUC TurnPlayer) *TurnHandler {
	return &TurnHandler{
		cfg:    cfg,
		log:    log,
		turnUC: turnUC,
	}
}

// NewRouter serves the turn endpoint on every path. Only POST is accepted.
func NewRouter(h *TurnHandler, middlewares ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.recoverTurn)
	r.Use(middlewares...)

	r.MethodNotAllowed(h.HandleMethodNotAllowed)
	r.Post("/", h.HandleTurn)
	r.Post("/*", h.HandleTurn)
	return r
}

func (t *TurnHandler) HandleTurn(w http.ResponseWriter, r *http.Request) {
	body, err := utils.ReadRequestBody(w, r, t.cfg.MaxBodyBytes)
	if err != nil {
		t.log.Errorw("failed to read turn request",
			"request_id", middleware.GetReqID(r.Context()), "kind", errs.KindOf(err), "error", err)
		t.writeFailure(w, err)
		return
	}

	out, err := t.turnUC.PlayTurn(r.Context(), body)
	if err != nil {
		t.writeFailure(w, err)
		return
	}

	if err := httpresponse.WriteJSON(w, http.StatusOK, out); err != nil {
		t.log.Warnw("failed to write turn response", "request_id", middleware.GetReqID(r.Context()), "error", err)
	}
}

func (t *TurnHandler) HandleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodPost)
	_ = httpresponse.WriteText(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
}

func (t *TurnHandler) writeFailure(w http.ResponseWriter, err error) {
	if !t.cfg.ExposeErrors {
		_ = httpresponse.WriteInternalErrorResponse(w)
		return
	}
	_ = httpresponse.WriteText(w, http.StatusInternalServerError, err.Error())
}

// recoverTurn answers a panic that escaped the use case with the usual 500
// text/plain failure instead of dropping the connection.
func (t *TurnHandler) recoverTurn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			t.log.Errorw("turn handler panicked",
				"request_id", middleware.GetReqID(r.Context()), "panic", rvr, "stack", string(debug.Stack()))
			t.writeFailure(w, fmt.Errorf("%w: %v", errs.ErrInternal, rvr))
		}()
		next.ServeHTTP(w, r)
	})
}
