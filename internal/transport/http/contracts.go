package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/jesuschirre/client-ecom/internal/app"
	"github.com/jesuschirre/client-ecom/internal/domain"
	"github.com/jesuschirre/client-ecom/internal/status"
)

// ContractManager is the contract service as seen by the HTTP layer.
type ContractManager interface {
	Create(ctx context.Context, in app.CreateContractInput) (app.ContractView, error)
	Activate(ctx context.Context, in app.ActivateContractInput) (app.ContractView, error)
	Cancel(ctx context.Context, id string) (app.ContractView, error)
	Reschedule(ctx context.Context, in app.RescheduleContractInput) (app.ContractView, error)
	UpdateAgreedAmount(ctx context.Context, id string, amount decimal.Decimal) (app.ContractView, error)
	Get(ctx context.Context, id string) (app.ContractView, error)
	List(ctx context.Context, filter app.ListFilter) ([]app.ContractView, error)
	Summary(ctx context.Context) (status.Summary, error)
}

func HandleCreateContract(svc ContractManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createContractRequest
		if err := decodeJSON(r, &req); err != nil {
			writeRequestError(w, err)
			return
		}

		in, err := req.toInput()
		if err != nil {
			writeRequestError(w, err)
			return
		}

		view, err := svc.Create(r.Context(), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, newContractResponse(view))
	}
}

// HandleListContracts serves GET /contracts. ?status= keeps only contracts
// currently displayed with that status.
func HandleListContracts(svc ContractManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := svc.List(r.Context(), app.ListFilter{
			Status: domain.ContractStatus(r.URL.Query().Get("status")),
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		resp := make([]contractResponse, 0, len(views))
		for _, v := range views {
			resp = append(resp, newContractResponse(v))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func HandleContractSummary(svc ContractManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := svc.Summary(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newSummaryResponse(s))
	}
}

func HandleGetContract(svc ContractManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newContractResponse(view))
	}
}

// HandleActivateContract schedules a pending contract. The body is optional:
// without it the contract starts today and runs for its stored duration.
func HandleActivateContract(svc ContractManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req activateContractRequest
		if r.ContentLength != 0 {
			if err := decodeJSON(r, &req); err != nil {
				writeRequestError(w, err)
				return
			}
		}

		start, err := parseDateField(req.StartDate)
		if err != nil {
			writeRequestError(w, err)
			return
		}
		end, err := parseDateField(req.EndDate)
		if err != nil {
			writeRequestError(w, err)
			return
		}
		dur, err := parseDuration(req.Duration)
		if err != nil {
			writeRequestError(w, err)
			return
		}

		view, err := svc.Activate(r.Context(), app.ActivateContractInput{
			ID:       chi.URLParam(r, "id"),
			Start:    start,
			End:      end,
			Duration: dur,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newContractResponse(view))
	}
}

func HandleCancelContract(svc ContractManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.Cancel(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newContractResponse(view))
	}
}

// HandleRescheduleContract serves PUT /contracts/{id}: a full edit of plan,
// dates, weekdays and discount. The agreed amount is not part of the body.
func HandleRescheduleContract(svc ContractManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rescheduleContractRequest
		if err := decodeJSON(r, &req); err != nil {
			writeRequestError(w, err)
			return
		}

		in, err := req.toInput(chi.URLParam(r, "id"))
		if err != nil {
			writeRequestError(w, err)
			return
		}

		view, err := svc.Reschedule(r.Context(), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newContractResponse(view))
	}
}

// HandleUpdateAgreedAmount records the operator's amount. The suggested
// amount is never changed here.
func HandleUpdateAgreedAmount(svc ContractManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req agreedAmountRequest
		if err := decodeJSON(r, &req); err != nil {
			writeRequestError(w, err)
			return
		}

		view, err := svc.UpdateAgreedAmount(r.Context(), chi.URLParam(r, "id"), *req.AgreedAmount)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newContractResponse(view))
	}
}

func (req createContractRequest) toInput() (app.CreateContractInput, error) {
	start, err := parseDateField(req.StartDate)
	if err != nil {
		return app.CreateContractInput{}, err
	}
	end, err := parseDateField(req.EndDate)
	if err != nil {
		return app.CreateContractInput{}, err
	}
	dur, err := parseDuration(req.Duration)
	if err != nil {
		return app.CreateContractInput{}, err
	}
	pattern, err := parsePattern(req.EmissionDays)
	if err != nil {
		return app.CreateContractInput{}, err
	}
	return app.CreateContractInput{
		ClientID:     req.ClientID,
		CampaignName: req.CampaignName,
		AdDetails:    req.AdDetails,
		PlanID:       req.PlanID,
		Start:        start,
		End:          end,
		Duration:     dur,
		Pattern:      pattern,
		Discount:     req.Discount,
		AgreedAmount: req.AgreedAmount,
	}, nil
}

func (req rescheduleContractRequest) toInput(id string) (app.RescheduleContractInput, error) {
	start, err := parseDateField(req.StartDate)
	if err != nil {
		return app.RescheduleContractInput{}, err
	}
	end, err := parseDateField(req.EndDate)
	if err != nil {
		return app.RescheduleContractInput{}, err
	}
	dur, err := parseDuration(req.Duration)
	if err != nil {
		return app.RescheduleContractInput{}, err
	}
	pattern, err := parsePattern(req.EmissionDays)
	if err != nil {
		return app.RescheduleContractInput{}, err
	}
	return app.RescheduleContractInput{
		ID:       id,
		PlanID:   req.PlanID,
		Start:    start,
		End:      end,
		Duration: dur,
		Pattern:  pattern,
		Discount: req.Discount,
	}, nil
}
