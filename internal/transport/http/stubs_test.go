package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jesuschirre/client-ecom/internal/app"
	"github.com/jesuschirre/client-ecom/internal/domain"
	"github.com/jesuschirre/client-ecom/internal/inventory"
	"github.com/jesuschirre/client-ecom/internal/status"
)

type stubQuoter struct {
	got app.QuoteInput
	out app.Quote
	err error
}

func (s *stubQuoter) Quote(_ context.Context, in app.QuoteInput) (app.Quote, error) {
	s.got = in
	return s.out, s.err
}

type stubStock struct {
	gotAvailability app.AvailabilityInput
	report          inventory.Report
	days            []domain.StockDay
	gotSet          time.Time
	gotSlots        int
	err             error
}

func (s *stubStock) Availability(_ context.Context, in app.AvailabilityInput) (inventory.Report, error) {
	s.gotAvailability = in
	return s.report, s.err
}

func (s *stubStock) ListStock(_ context.Context, _ domain.DateRange) ([]domain.StockDay, error) {
	return s.days, s.err
}

func (s *stubStock) SetSlots(_ context.Context, day time.Time, slots int) (domain.StockDay, error) {
	s.gotSet, s.gotSlots = day, slots
	if s.err != nil {
		return domain.StockDay{}, s.err
	}
	return domain.StockDay{Date: day, AvailableSlots: slots}, nil
}

type stubContracts struct {
	gotCreate   app.CreateContractInput
	gotActivate app.ActivateContractInput
	gotEdit     app.RescheduleContractInput
	gotFilter   app.ListFilter
	gotID       string
	gotAmount   decimal.Decimal
	view        app.ContractView
	views       []app.ContractView
	summary     status.Summary
	err         error
}

func (s *stubContracts) Create(_ context.Context, in app.CreateContractInput) (app.ContractView, error) {
	s.gotCreate = in
	return s.view, s.err
}

func (s *stubContracts) Activate(_ context.Context, in app.ActivateContractInput) (app.ContractView, error) {
	s.gotActivate = in
	return s.view, s.err
}

func (s *stubContracts) Cancel(_ context.Context, id string) (app.ContractView, error) {
	s.gotID = id
	return s.view, s.err
}

func (s *stubContracts) Reschedule(_ context.Context, in app.RescheduleContractInput) (app.ContractView, error) {
	s.gotEdit = in
	return s.view, s.err
}

func (s *stubContracts) UpdateAgreedAmount(_ context.Context, id string, amount decimal.Decimal) (app.ContractView, error) {
	s.gotID, s.gotAmount = id, amount
	return s.view, s.err
}

func (s *stubContracts) Get(_ context.Context, id string) (app.ContractView, error) {
	s.gotID = id
	return s.view, s.err
}

func (s *stubContracts) List(_ context.Context, filter app.ListFilter) ([]app.ContractView, error) {
	s.gotFilter = filter
	return s.views, s.err
}

func (s *stubContracts) Summary(_ context.Context) (status.Summary, error) {
	return s.summary, s.err
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func serve(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
