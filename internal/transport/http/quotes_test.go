package http

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jesuschirre/client-ecom/internal/app"
	"github.com/jesuschirre/client-ecom/internal/domain"
	"github.com/jesuschirre/client-ecom/internal/inventory"
	"github.com/jesuschirre/client-ecom/internal/pricing"
)

func TestHandleCreateQuote(t *testing.T) {
	t.Parallel()

	quote := app.Quote{
		Plan:  domain.Plan{ID: "plan-1", Name: "Prime"},
		Range: domain.NewDateRange(date(2024, 1, 1), date(2024, 1, 7)),
		Pricing: pricing.Result{
			TotalCalendarDays:  7,
			ActiveEmissionDays: 5,
			DailyRate:          decimal.NewFromInt(10),
			Gross:              decimal.NewFromInt(50),
			Discount:           decimal.NewFromInt(10),
			FinalPrice:         decimal.NewFromInt(40),
		},
		Availability: inventory.Report{
			Required:         3,
			EmittingDayCount: 1,
			Days: []inventory.DayReport{
				{Date: date(2024, 1, 1), Weekday: time.Monday, Emitting: true, Known: true, Available: 100, Required: 3, Verdict: inventory.VerdictOK},
				{Date: date(2024, 1, 6), Weekday: time.Saturday, Verdict: inventory.VerdictNotEmitting, Known: true, Available: 100},
			},
		},
	}

	t.Run("prices a range", func(t *testing.T) {
		t.Parallel()
		svc := &stubQuoter{out: quote}
		rec := serve(t, HandleCreateQuote(svc), http.MethodPost, "/quotes",
			`{"plan_id":"plan-1","start_date":"2024-01-01","end_date":"2024-01-07","emission_days":["lunes","viernes"],"discount":"10"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp quoteResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.FinalPrice != "40.00" || resp.DailyRate != "10.00" || resp.ActiveEmissionDays != 5 {
			t.Fatalf("unexpected pricing: %+v", resp)
		}
		if resp.StartDate != "2024-01-01" || resp.EndDate != "2024-01-07" {
			t.Fatalf("unexpected range: %s..%s", resp.StartDate, resp.EndDate)
		}
		if !resp.Availability.OK || len(resp.Availability.Days) != 2 || resp.Availability.Days[0].Weekday != "lunes" {
			t.Fatalf("unexpected availability: %+v", resp.Availability)
		}

		if svc.got.PlanID != "plan-1" || !svc.got.Start.Equal(date(2024, 1, 1)) || !svc.got.End.Equal(date(2024, 1, 7)) {
			t.Fatalf("unexpected input: %+v", svc.got)
		}
		if svc.got.Pattern != domain.NewEmissionPattern(time.Monday, time.Friday) {
			t.Fatalf("unexpected pattern: %v", svc.got.Pattern.Names())
		}
		if !svc.got.Discount.Equal(decimal.NewFromInt(10)) {
			t.Fatalf("unexpected discount: %s", svc.got.Discount)
		}
	})

	t.Run("defaults pattern and passes duration", func(t *testing.T) {
		t.Parallel()
		svc := &stubQuoter{out: quote}
		rec := serve(t, HandleCreateQuote(svc), http.MethodPost, "/quotes",
			`{"plan_id":"plan-1","duration":{"unit":"meses","value":3}}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.got.Pattern != domain.WeekdaysPattern() {
			t.Fatalf("expected weekdays pattern, got %v", svc.got.Pattern.Names())
		}
		if svc.got.Start != nil || svc.got.Duration == nil || *svc.got.Duration != (domain.Duration{Unit: domain.DurationMonths, Value: 3}) {
			t.Fatalf("unexpected input: %+v", svc.got)
		}
	})

	t.Run("rejects bad requests", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name     string
			body     string
			svcErr   error
			status   int
			wantCode string
		}{
			{name: "unknown field", body: `{"plan_id":"p","extra":1}`, status: http.StatusBadRequest, wantCode: codeInvalidRequestBody},
			{name: "missing plan", body: `{"start_date":"2024-01-01"}`, status: http.StatusBadRequest, wantCode: codeMissingRequiredField},
			{name: "bad date", body: `{"plan_id":"p","start_date":"01/01/2024"}`, status: http.StatusBadRequest, wantCode: codeInvalidDate},
			{name: "bad weekday", body: `{"plan_id":"p","emission_days":["funday"]}`, status: http.StatusBadRequest, wantCode: codeInvalidWeekday},
			{name: "bad duration unit", body: `{"plan_id":"p","duration":{"unit":"weeks","value":2}}`, status: http.StatusBadRequest, wantCode: codeInvalidDuration},
			{name: "zero duration", body: `{"plan_id":"p","duration":{"unit":"dias","value":0}}`, status: http.StatusBadRequest, wantCode: codeInvalidDuration},
			{name: "empty pattern", body: `{"plan_id":"p","emission_days":[]}`, svcErr: domain.ErrEmptyEmissionPattern, status: http.StatusBadRequest, wantCode: codeEmptyEmission},
			{name: "plan not found", body: `{"plan_id":"p"}`, svcErr: domain.ErrPlanNotFound, status: http.StatusNotFound, wantCode: codePlanNotFound},
		}
		for _, tt := range tests {
			svc := &stubQuoter{err: tt.svcErr}
			rec := serve(t, HandleCreateQuote(svc), http.MethodPost, "/quotes", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("%s: expected status %d, got %d", tt.name, tt.status, rec.Code)
			}
			var resp errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("%s: decode response: %v", tt.name, err)
			}
			if resp.Code != tt.wantCode {
				t.Fatalf("%s: expected code %s, got %s", tt.name, tt.wantCode, resp.Code)
			}
		}
	})
}
