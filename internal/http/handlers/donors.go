package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"donorcrm/internal/domain"
	"donorcrm/internal/service"
)

func (a *App) DonorsCreate(w http.ResponseWriter, r *http.Request) {
	var req donorRequest
	if !a.decode(w, r, &req) {
		return
	}
	d, err := a.Service.AddDonor(r.Context(), service.AddDonorInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Type:       domain.DonorType(req.DonorType),
		Notes:      req.Notes,
		AssignedTo: req.AssignedTo,
		Address:    req.Address,
		TaxID:      req.TaxID,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, toDonorResponse(*d))
}

func (a *App) DonorsList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := a.Service.ListDonors(r.Context(), domain.DonorFilter{
		Tier:       domain.Tier(q.Get("tier")),
		Type:       domain.DonorType(q.Get("type")),
		AssignedTo: q.Get("assigned_to"),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out := make([]donorResponse, 0, len(items))
	for _, d := range items {
		out = append(out, toDonorResponse(d))
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}

func (a *App) DonorsGet(w http.ResponseWriter, r *http.Request) {
	d, err := a.Service.GetDonor(r.Context(), chi.URLParam(r, "id"))
	a.writeDonor(w, r, d, err)
}

func (a *App) DonorsLookup(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "email is required")
		return
	}
	d, err := a.Service.GetDonorByEmail(r.Context(), email)
	a.writeDonor(w, r, d, err)
}

func (a *App) writeDonor(w http.ResponseWriter, r *http.Request, d *domain.Donor, err error) {
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if d == nil {
		a.error(w, http.StatusNotFound, "not_found", "donor not found")
		return
	}
	a.json(w, http.StatusOK, toDonorResponse(*d))
}

func (a *App) DonorsLTV(w http.ResponseWriter, r *http.Request) {
	ltv, err := a.Service.LTV(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, ltvResponse{
		DonorID:       ltv.DonorID,
		Name:          ltv.Name,
		Tier:          string(ltv.Tier),
		TotalGiven:    ltv.TotalGiven,
		DonationCount: ltv.DonationCount,
		AverageGift:   ltv.AverageGift,
		FirstDonation: ltv.FirstDonation,
		LastDonation:  ltv.LastDonation,
		Campaigns:     ltv.Campaigns,
	})
}
