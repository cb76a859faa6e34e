package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"propledger/internal/metrics"
	"propledger/internal/repos/props"
	"propledger/internal/repos/snapshots"
	"propledger/internal/repos/users"
	"propledger/internal/repos/wagers"
	"propledger/internal/services/ledger"
	"propledger/internal/services/settlement"
	contractevents "propledger/pkg/contracts/events"
)

// Collaborators the handlers need, kept as small interfaces so tests can
// run against the memory ledger.
type (
	WagerReader interface {
		ByUser(ctx context.Context, userID uint64) ([]wagers.Wager, error)
	}

	PropGetter interface {
		Get(ctx context.Context, propID string) (*props.Prop, error)
	}

	SettlementRunner interface {
		Run(ctx context.Context, sport string) (*settlement.Report, error)
	}

	Snapshotter interface {
		CreateSnapshot(ctx context.Context, userID uint64) (*snapshots.Snapshot, error)
	}

	PlacedPublisher interface {
		PublishWagerPlaced(ctx context.Context, e contractevents.WagerPlaced) error
	}
)

// Deps wires the HTTP surface. Publisher may be nil.
type Deps struct {
	Ledger      ledger.Ledger
	Wagers      WagerReader
	Props       PropGetter
	Settlements SettlementRunner
	Performance Snapshotter
	Publisher   PlacedPublisher
	Metrics     *metrics.Recorder
}

// HandlerProvider exposes the HTTP handlers over the wired services.
type HandlerProvider struct {
	deps Deps
}

func NewHandler(deps Deps) *HandlerProvider {
	return &HandlerProvider{deps: deps}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
		http.Error(w, `{"error":"internal json encode failure"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseUserIDFromPath reads `{userId}` from chi routes like:
//
//	GET  /user/{userId}/bankroll
//	POST /user/{userId}/wagers
func parseUserIDFromPath(r *http.Request) (uint64, error) {
	idStr := chi.URLParam(r, "userId")
	if idStr == "" {
		return 0, fmt.Errorf("missing userId")
	}

	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid userId: %w", err)
	}
	if id == 0 {
		return 0, fmt.Errorf("invalid userId: must be positive")
	}

	return id, nil
}

// parseAmountCents converts a decimal string with up to 2 fractional digits
// into cents.
func parseAmountCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount required")
	}
	neg := false
	if s[0] == '+' {
		s = s[1:]
	}
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 || parts[0] == "" {
		return 0, fmt.Errorf("invalid amount")
	}
	intPart := parts[0]
	frac := "00"
	if len(parts) == 2 {
		if len(parts[1]) > 2 {
			return 0, fmt.Errorf("amount supports up to 2 decimals")
		}
		frac = parts[1] + strings.Repeat("0", 2-len(parts[1]))
	}
	ip, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount integer")
	}
	fp, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount fractional")
	}
	total := ip*100 + fp
	if neg {
		total = -total
	}
	return total, nil
}

// formatCents renders integer cents as a 2-decimal string.
func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// --- DTOs ---

type placeWagerRequest struct {
	PropID string  `json:"propId"`
	SlipID string  `json:"slipId"`
	Stake  string  `json:"stake"`
	Odds   float64 `json:"odds"`
}

type wagerResponse struct {
	ID              string   `json:"id"`
	UserID          uint64   `json:"userId"`
	PropID          string   `json:"propId,omitempty"`
	SlipID          string   `json:"slipId,omitempty"`
	Stake           string   `json:"stake"`
	Odds            float64  `json:"odds"`
	PotentialReturn string   `json:"potentialReturn"`
	Status          string   `json:"status"`
	OpeningLine     float64  `json:"openingLine"`
	ClosingLine     *float64 `json:"closingLine,omitempty"`
	CLV             *float64 `json:"clv,omitempty"`
	SettledAt       string   `json:"settledAt,omitempty"`
	CreatedAt       string   `json:"createdAt"`
}

func toWagerResponse(w *wagers.Wager) wagerResponse {
	resp := wagerResponse{
		ID:              w.ID,
		UserID:          w.UserID,
		PropID:          w.PropID,
		SlipID:          w.SlipID,
		Stake:           formatCents(w.StakeCents),
		Odds:            w.Odds,
		PotentialReturn: formatCents(w.PotentialReturnCents),
		Status:          string(w.Status),
		OpeningLine:     w.OpeningLine,
		ClosingLine:     w.ClosingLine,
		CLV:             w.CLV,
		CreatedAt:       w.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if w.SettledAt != nil {
		resp.SettledAt = w.SettledAt.UTC().Format("2006-01-02T15:04:05Z")
	}
	return resp
}

// --- Handlers ---

// GetBankrollHandler handles GET /user/{userId}/bankroll
func (h *HandlerProvider) GetBankrollHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	bankroll, err := h.deps.Ledger.Bankroll(r.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}

		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"userId":   userID,
		"bankroll": formatCents(bankroll),
	})
}

// PlaceWagerHandler handles POST /user/{userId}/wagers
func (h *HandlerProvider) PlaceWagerHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	defer r.Body.Close()

	var req placeWagerRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err = dec.Decode(&req)
	if err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "empty body")
			return
		}

		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	stakeCents, err := parseAmountCents(req.Stake)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if stakeCents <= 0 {
		writeError(w, http.StatusBadRequest, "stake must be > 0")
		return
	}
	if req.Odds <= 1.0 {
		writeError(w, http.StatusBadRequest, "odds must be > 1.0")
		return
	}

	place := ledger.PlaceRequest{
		UserID:               userID,
		StakeCents:           stakeCents,
		Odds:                 req.Odds,
		PotentialReturnCents: potentialReturnCents(stakeCents, req.Odds),
		SlipID:               req.SlipID,
	}

	if req.PropID != "" {
		prop, err := h.deps.Props.Get(r.Context(), req.PropID)
		if err != nil {
			if errors.Is(err, props.ErrPropNotFound) {
				writeError(w, http.StatusNotFound, "prop not found")
				return
			}

			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !prop.Active {
			writeError(w, http.StatusConflict, "prop is no longer active")
			return
		}

		place.PropID = prop.ID
		place.OpeningLine = prop.Line
	}

	wager, err := h.deps.Ledger.Place(r.Context(), place)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidStake):
			writeError(w, http.StatusBadRequest, "stake must be > 0")
			return
		case errors.Is(err, users.ErrInsufficientFunds):
			writeError(w, http.StatusConflict, "insufficient funds")
			return
		case errors.Is(err, users.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user not found")
			return
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	h.deps.Metrics.WagerPlaced()
	h.publishPlaced(r.Context(), wager)

	writeJSON(w, http.StatusCreated, toWagerResponse(wager))
}

// ListWagersHandler handles GET /user/{userId}/wagers
func (h *HandlerProvider) ListWagersHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	list, err := h.deps.Wagers.ByUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]wagerResponse, 0, len(list))
	for i := range list {
		out = append(out, toWagerResponse(&list[i]))
	}

	writeJSON(w, http.StatusOK, map[string]any{"wagers": out})
}

// RunSettlementsHandler handles POST /admin/settlements/run?sport=
//
// Returns the full batch report including partial failures; never
// all-or-nothing.
func (h *HandlerProvider) RunSettlementsHandler(w http.ResponseWriter, r *http.Request) {
	sport := r.URL.Query().Get("sport")

	report, err := h.deps.Settlements.Run(r.Context(), sport)
	if err != nil {
		slog.Error("manual settlement run failed", "error", err)
		writeError(w, http.StatusBadGateway, "settlement run failed: upstream unavailable")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// CreateSnapshotHandler handles POST /user/{userId}/snapshots
func (h *HandlerProvider) CreateSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	snap, err := h.deps.Performance.CreateSnapshot(r.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}

		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":          snap.ID,
		"userId":      snap.UserID,
		"bankroll":    formatCents(snap.BankrollCents),
		"totalWagers": snap.TotalWagers,
		"wins":        snap.Wins,
		"losses":      snap.Losses,
		"pushes":      snap.Pushes,
		"winRate":     snap.WinRate,
		"roi":         snap.ROI,
		"avgClv":      snap.AvgCLV,
	})
}

func (h *HandlerProvider) publishPlaced(ctx context.Context, w *wagers.Wager) {
	if h.deps.Publisher == nil {
		return
	}

	err := h.deps.Publisher.PublishWagerPlaced(ctx, contractevents.WagerPlaced{
		WagerID:     w.ID,
		UserID:      w.UserID,
		PropID:      w.PropID,
		SlipID:      w.SlipID,
		StakeCents:  w.StakeCents,
		Odds:        w.Odds,
		OpeningLine: w.OpeningLine,
	})
	if err != nil {
		slog.Warn("publish wager_placed failed", "wager_id", w.ID, "error", err)
	}
}

// potentialReturnCents precomputes stake × payout multiplier, rounded to
// the nearest cent.
func potentialReturnCents(stakeCents int64, odds float64) int64 {
	return int64(float64(stakeCents)*odds + 0.5)
}
