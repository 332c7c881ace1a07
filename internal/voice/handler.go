package voice

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/tiptonco/probation-scheduler/internal/appointments"
	"github.com/tiptonco/probation-scheduler/internal/probationers"
	"github.com/tiptonco/probation-scheduler/internal/schedule"
	"github.com/tiptonco/probation-scheduler/pkg/logging"
)

// Handler exposes the voice decision service over HTTP for the voice
// gateway. All timestamps cross this boundary as RFC 3339 with offsets.
type Handler struct {
	service *Service
	// escalationPhone is read to unknown callers so a human can sort them
	// out; the number lives in config, not code.
	escalationPhone string
	logger          *logging.Logger
}

// NewHandler creates the voice HTTP handler.
func NewHandler(service *Service, escalationPhone string, logger *logging.Logger) *Handler {
	if service == nil {
		panic("voice: service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, escalationPhone: escalationPhone, logger: logger}
}

type candidateRequest struct {
	Phone     string `json:"phone"`
	Candidate string `json:"candidate"`
	From      string `json:"from,omitempty"`
	Kind      string `json:"kind"`
}

type verdictResponse struct {
	Verdict     schedule.Verdict          `json:"verdict"`
	Appointment *appointments.Appointment `json:"appointment,omitempty"`
}

// Validate handles POST /voice/validate.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	req, candidate, kind, ok := h.decodeCandidate(w, r)
	if !ok {
		return
	}

	verdict, err := h.service.ValidateCandidate(r.Context(), req.Phone, candidate, kind)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, verdictResponse{Verdict: verdict})
}

// NextSlot handles POST /voice/next-slot.
func (h *Handler) NextSlot(w http.ResponseWriter, r *http.Request) {
	var req candidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	kind, ok := schedule.ParseRequestKind(req.Kind)
	if !ok {
		http.Error(w, "unknown request kind", http.StatusBadRequest)
		return
	}
	var from time.Time
	if req.From != "" {
		parsed, err := time.Parse(time.RFC3339, req.From)
		if err != nil {
			http.Error(w, "from must be RFC 3339 with offset", http.StatusBadRequest)
			return
		}
		from = parsed
	}

	slot, err := h.service.SuggestNextSlot(r.Context(), req.Phone, from, kind)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"slot": slot.Format(time.RFC3339)})
}

// Book handles POST /voice/book.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	req, candidate, kind, ok := h.decodeCandidate(w, r)
	if !ok {
		return
	}

	appt, verdict, err := h.service.Book(r.Context(), req.Phone, candidate, kind)
	if err != nil {
		h.writeError(w, err)
		return
	}
	status := http.StatusOK
	if appt != nil {
		status = http.StatusCreated
	}
	h.writeJSON(w, status, verdictResponse{Verdict: verdict, Appointment: appt})
}

// Reschedule handles POST /voice/reschedule.
func (h *Handler) Reschedule(w http.ResponseWriter, r *http.Request) {
	var req candidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	candidate, err := time.Parse(time.RFC3339, req.Candidate)
	if err != nil {
		http.Error(w, "candidate must be RFC 3339 with offset", http.StatusBadRequest)
		return
	}

	appt, verdict, err := h.service.RescheduleMissed(r.Context(), req.Phone, candidate)
	if err != nil {
		h.writeError(w, err)
		return
	}
	status := http.StatusOK
	if appt != nil {
		status = http.StatusCreated
	}
	h.writeJSON(w, status, verdictResponse{Verdict: verdict, Appointment: appt})
}

// CheckIn handles POST /voice/check-in.
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req candidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	appt, verdict, err := h.service.RecordCheckIn(r.Context(), req.Phone, time.Time{})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, verdictResponse{Verdict: verdict, Appointment: appt})
}

// CallerContext handles GET /voice/caller-context.
func (h *Handler) CallerContext(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		http.Error(w, "phone query parameter required", http.StatusBadRequest)
		return
	}

	cc, err := h.service.CallerContext(r.Context(), phone, time.Time{})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, cc)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeCandidate(w http.ResponseWriter, r *http.Request) (candidateRequest, time.Time, schedule.RequestKind, bool) {
	var req candidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return req, time.Time{}, "", false
	}
	candidate, err := time.Parse(time.RFC3339, req.Candidate)
	if err != nil {
		http.Error(w, "candidate must be RFC 3339 with offset", http.StatusBadRequest)
		return req, time.Time{}, "", false
	}
	kind, ok := schedule.ParseRequestKind(req.Kind)
	if !ok {
		http.Error(w, "unknown request kind", http.StatusBadRequest)
		return req, time.Time{}, "", false
	}
	return req, candidate, kind, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, probationers.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{
			"error":        "caller not recognized",
			"office_phone": h.escalationPhone,
		})
	case errors.Is(err, ErrNoCheckInDue), errors.Is(err, appointments.ErrInvalidTransition):
		h.writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, appointments.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		// Includes ErrNoSlotFound: an operator problem, never narrated.
		h.logger.Error("voice request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
