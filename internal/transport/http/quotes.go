package http

import (
	"context"
	"net/http"

	"github.com/jesuschirre/client-ecom/internal/app"
)

// Quoter is the minimal interface needed to price a prospective contract.
type Quoter interface {
	Quote(ctx context.Context, in app.QuoteInput) (app.Quote, error)
}

// HandleCreateQuote prices a date range and pattern against a plan and
// reports stock for it. Nothing is stored.
func HandleCreateQuote(svc Quoter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quoteRequest
		if err := decodeJSON(r, &req); err != nil {
			writeRequestError(w, err)
			return
		}

		in, err := req.toInput()
		if err != nil {
			writeRequestError(w, err)
			return
		}

		q, err := svc.Quote(r.Context(), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newQuoteResponse(q))
	}
}

func (req quoteRequest) toInput() (app.QuoteInput, error) {
	start, err := parseDateField(req.StartDate)
	if err != nil {
		return app.QuoteInput{}, err
	}
	end, err := parseDateField(req.EndDate)
	if err != nil {
		return app.QuoteInput{}, err
	}
	dur, err := parseDuration(req.Duration)
	if err != nil {
		return app.QuoteInput{}, err
	}
	pattern, err := parsePattern(req.EmissionDays)
	if err != nil {
		return app.QuoteInput{}, err
	}
	return app.QuoteInput{
		PlanID:   req.PlanID,
		Start:    start,
		End:      end,
		Duration: dur,
		Pattern:  pattern,
		Discount: req.Discount,
	}, nil
}
