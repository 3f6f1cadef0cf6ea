package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jesuschirre/client-ecom/internal/app"
	"github.com/jesuschirre/client-ecom/internal/domain"
	"github.com/jesuschirre/client-ecom/internal/inventory"
	"github.com/jesuschirre/client-ecom/internal/status"
)

type durationRequest struct {
	Unit  string `json:"unit" validate:"required"`
	Value int    `json:"value"`
}

type quoteRequest struct {
	PlanID       string           `json:"plan_id" validate:"required"`
	StartDate    string           `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate      string           `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Duration     *durationRequest `json:"duration"`
	EmissionDays []string         `json:"emission_days"`
	Discount     decimal.Decimal  `json:"discount"`
}

type createContractRequest struct {
	ClientID     string           `json:"client_id" validate:"required"`
	CampaignName string           `json:"campaign_name" validate:"required"`
	AdDetails    string           `json:"ad_details"`
	PlanID       string           `json:"plan_id" validate:"required"`
	StartDate    string           `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate      string           `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Duration     *durationRequest `json:"duration"`
	EmissionDays []string         `json:"emission_days"`
	Discount     decimal.Decimal  `json:"discount"`
	AgreedAmount *decimal.Decimal `json:"agreed_amount"`
}

type activateContractRequest struct {
	StartDate string           `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string           `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Duration  *durationRequest `json:"duration"`
}

type rescheduleContractRequest struct {
	PlanID       string           `json:"plan_id" validate:"required"`
	StartDate    string           `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate      string           `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Duration     *durationRequest `json:"duration"`
	EmissionDays []string         `json:"emission_days"`
	Discount     decimal.Decimal  `json:"discount"`
}

type agreedAmountRequest struct {
	AgreedAmount *decimal.Decimal `json:"agreed_amount" validate:"required"`
}

type setStockRequest struct {
	AvailableSlots *int `json:"available_slots" validate:"required"`
}

type quoteResponse struct {
	PlanID             string               `json:"plan_id"`
	PlanName           string               `json:"plan_name"`
	StartDate          string               `json:"start_date"`
	EndDate            string               `json:"end_date"`
	TotalCalendarDays  int                  `json:"total_calendar_days"`
	ActiveEmissionDays int                  `json:"active_emission_days"`
	DailyRate          string               `json:"daily_rate"`
	Gross              string               `json:"gross"`
	Discount           string               `json:"discount"`
	FinalPrice         string               `json:"final_price"`
	Availability       availabilityResponse `json:"availability"`
}

type availabilityResponse struct {
	RequiredSlotsPerDay int           `json:"required_slots_per_day"`
	EmittingDays        int           `json:"emitting_days"`
	ConflictDays        int           `json:"conflict_days"`
	UnknownDays         int           `json:"unknown_days"`
	OK                  bool          `json:"ok"`
	Days                []dayResponse `json:"days"`
}

type dayResponse struct {
	Date     string `json:"date"`
	Weekday  string `json:"weekday"`
	Emitting bool   `json:"emitting"`
	// Available is null when the stock lookup for the day failed.
	Available *int   `json:"available_slots"`
	Shortfall int    `json:"shortfall,omitempty"`
	Verdict   string `json:"verdict"`
}

type durationResponse struct {
	Unit  string `json:"unit"`
	Value int    `json:"value"`
}

type contractResponse struct {
	ID                  string            `json:"id"`
	ClientID            string            `json:"client_id"`
	CampaignName        string            `json:"campaign_name"`
	AdDetails           string            `json:"ad_details"`
	PlanID              string            `json:"plan_id"`
	StartDate           *string           `json:"start_date"`
	EndDate             *string           `json:"end_date"`
	Duration            *durationResponse `json:"duration,omitempty"`
	EmissionDays        []string          `json:"emission_days"`
	Discount            string            `json:"discount"`
	SuggestedAmount     string            `json:"suggested_amount"`
	AgreedAmount        *string           `json:"agreed_amount"`
	Amount              string            `json:"amount"`
	Status              string            `json:"status"`
	ReservedSlotsPerDay int               `json:"reserved_slots_per_day"`
	CreatedAt           time.Time         `json:"created_at"`
}

type summaryResponse struct {
	Total             int `json:"total"`
	Active            int `json:"active"`
	Scheduled         int `json:"scheduled"`
	Expiring          int `json:"expiring"`
	Expired           int `json:"expired"`
	PendingActivation int `json:"pending_activation"`
	Cancelled         int `json:"cancelled"`
}

type stockDayResponse struct {
	Date           string `json:"date"`
	AvailableSlots int    `json:"available_slots"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func newQuoteResponse(q app.Quote) quoteResponse {
	return quoteResponse{
		PlanID:             q.Plan.ID,
		PlanName:           q.Plan.Name,
		StartDate:          domain.FormatDate(q.Range.Start),
		EndDate:            domain.FormatDate(q.Range.End),
		TotalCalendarDays:  q.Pricing.TotalCalendarDays,
		ActiveEmissionDays: q.Pricing.ActiveEmissionDays,
		DailyRate:          money(q.Pricing.DailyRate),
		Gross:              money(q.Pricing.Gross),
		Discount:           money(q.Pricing.Discount),
		FinalPrice:         money(q.Pricing.FinalPrice),
		Availability:       newAvailabilityResponse(q.Availability),
	}
}

func newAvailabilityResponse(r inventory.Report) availabilityResponse {
	days := make([]dayResponse, 0, len(r.Days))
	for _, d := range r.Days {
		day := dayResponse{
			Date:      domain.FormatDate(d.Date),
			Weekday:   domain.WeekdayName(d.Weekday),
			Emitting:  d.Emitting,
			Shortfall: d.Shortfall,
			Verdict:   string(d.Verdict),
		}
		if d.Known {
			n := d.Available
			day.Available = &n
		}
		days = append(days, day)
	}
	return availabilityResponse{
		RequiredSlotsPerDay: r.Required,
		EmittingDays:        r.EmittingDayCount,
		ConflictDays:        r.ConflictDayCount,
		UnknownDays:         r.UnknownDayCount,
		OK:                  r.Complete() && !r.HasConflicts(),
		Days:                days,
	}
}

func newContractResponse(v app.ContractView) contractResponse {
	c := v.Contract
	resp := contractResponse{
		ID:                  c.ID,
		ClientID:            c.ClientID,
		CampaignName:        c.CampaignName,
		AdDetails:           c.AdDetails,
		PlanID:              c.PlanID,
		EmissionDays:        c.Pattern.Names(),
		Discount:            money(c.Discount),
		SuggestedAmount:     money(c.SuggestedAmount),
		Amount:              money(v.Amount),
		Status:              string(v.Status),
		ReservedSlotsPerDay: c.ReservedSlotsPerDay,
		CreatedAt:           c.CreatedAt,
	}
	if c.Start != nil {
		s := domain.FormatDate(*c.Start)
		resp.StartDate = &s
	}
	if c.End != nil {
		s := domain.FormatDate(*c.End)
		resp.EndDate = &s
	}
	if c.Duration != nil {
		resp.Duration = &durationResponse{Unit: string(c.Duration.Unit), Value: c.Duration.Value}
	}
	if c.AgreedAmount != nil {
		s := money(*c.AgreedAmount)
		resp.AgreedAmount = &s
	}
	return resp
}

func newSummaryResponse(s status.Summary) summaryResponse {
	return summaryResponse{
		Total:             s.Total,
		Active:            s.Active,
		Scheduled:         s.Scheduled,
		Expiring:          s.Expiring,
		Expired:           s.Expired,
		PendingActivation: s.Pending,
		Cancelled:         s.Cancelled,
	}
}

// parseDateField parses an optional YYYY-MM-DD value.
func parseDateField(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseDuration(req *durationRequest) (*domain.Duration, error) {
	if req == nil {
		return nil, nil
	}
	unit, err := domain.ParseDurationUnit(req.Unit)
	if err != nil {
		return nil, err
	}
	d := domain.Duration{Unit: unit, Value: req.Value}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// parsePattern reads weekday names. An absent list means Monday to Friday;
// an explicit empty list is kept empty so the service rejects it.
func parsePattern(days []string) (domain.EmissionPattern, error) {
	if days == nil {
		return domain.WeekdaysPattern(), nil
	}
	return domain.ParseEmissionPattern(days)
}
