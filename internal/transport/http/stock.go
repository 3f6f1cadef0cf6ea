package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jesuschirre/client-ecom/internal/app"
	"github.com/jesuschirre/client-ecom/internal/domain"
	"github.com/jesuschirre/client-ecom/internal/inventory"
)

// StockPanel is what the stock panel endpoints need.
type StockPanel interface {
	Availability(ctx context.Context, in app.AvailabilityInput) (inventory.Report, error)
	ListStock(ctx context.Context, r domain.DateRange) ([]domain.StockDay, error)
	SetSlots(ctx context.Context, day time.Time, slots int) (domain.StockDay, error)
}

// HandleAvailability serves GET /availability?start=&end=&plan_id=&days=lunes,martes.
func HandleAvailability(svc StockPanel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		rng, err := parseRangeQuery(q.Get("start"), q.Get("end"))
		if err != nil {
			writeRequestError(w, err)
			return
		}

		var days []string
		if raw, ok := q["days"]; ok {
			days = splitDays(raw)
		}
		pattern, err := parsePattern(days)
		if err != nil {
			writeRequestError(w, err)
			return
		}

		report, err := svc.Availability(r.Context(), app.AvailabilityInput{
			PlanID:  q.Get("plan_id"),
			Range:   rng,
			Pattern: pattern,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newAvailabilityResponse(report))
	}
}

// HandleListStock serves GET /stock?start=&end=. Days without a record are
// omitted and count as default capacity.
func HandleListStock(svc StockPanel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		rng, err := parseRangeQuery(q.Get("start"), q.Get("end"))
		if err != nil {
			writeRequestError(w, err)
			return
		}

		days, err := svc.ListStock(r.Context(), rng)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		resp := make([]stockDayResponse, 0, len(days))
		for _, d := range days {
			resp = append(resp, stockDayResponse{Date: domain.FormatDate(d.Date), AvailableSlots: d.AvailableSlots})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleSetStock serves PUT /stock/{date}.
func HandleSetStock(svc StockPanel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := domain.ParseDate(chi.URLParam(r, "date"))
		if err != nil {
			writeRequestError(w, err)
			return
		}

		var req setStockRequest
		if err := decodeJSON(r, &req); err != nil {
			writeRequestError(w, err)
			return
		}

		saved, err := svc.SetSlots(r.Context(), day, *req.AvailableSlots)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stockDayResponse{Date: domain.FormatDate(saved.Date), AvailableSlots: saved.AvailableSlots})
	}
}

func parseRangeQuery(start, end string) (domain.DateRange, error) {
	if start == "" || end == "" {
		return domain.DateRange{}, &requestError{code: codeMissingRequiredField, msg: "start and end are required"}
	}
	s, err := domain.ParseDate(start)
	if err != nil {
		return domain.DateRange{}, err
	}
	e, err := domain.ParseDate(end)
	if err != nil {
		return domain.DateRange{}, err
	}
	rng := domain.NewDateRange(s, e)
	if err := rng.Validate(); err != nil {
		return domain.DateRange{}, err
	}
	return rng, nil
}

// splitDays accepts both ?days=lunes,martes and ?days=lunes&days=martes.
func splitDays(values []string) []string {
	out := []string{}
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
