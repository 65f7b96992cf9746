package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"donorcrm/internal/domain"
	"donorcrm/internal/service"
)

func (a *App) CampaignsCreate(w http.ResponseWriter, r *http.Request) {
	var req campaignRequest
	if !a.decode(w, r, &req) {
		return
	}
	c, err := a.Service.CreateCampaign(r.Context(), service.CreateCampaignInput{
		Name:        req.Name,
		Goal:        req.Goal,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Description: req.Description,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, toCampaignResponse(*c))
}

func (a *App) CampaignsList(w http.ResponseWriter, r *http.Request) {
	status := domain.CampaignStatus(r.URL.Query().Get("status"))
	items, err := a.Service.ListCampaigns(r.Context(), status)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out := make([]campaignResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toCampaignResponse(c))
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}

func (a *App) CampaignsGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	c, err := a.Service.GetCampaign(r.Context(), name)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if c == nil {
		a.error(w, http.StatusNotFound, "not_found", "campaign not found")
		return
	}
	a.json(w, http.StatusOK, toCampaignResponse(*c))
}

func (a *App) CampaignsSetStatus(w http.ResponseWriter, r *http.Request) {
	var req campaignStatusRequest
	if !a.decode(w, r, &req) {
		return
	}
	c, err := a.Service.SetCampaignStatus(r.Context(), chi.URLParam(r, "name"), domain.CampaignStatus(req.Status))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toCampaignResponse(*c))
}

func (a *App) CampaignsSummary(w http.ResponseWriter, r *http.Request) {
	s, err := a.Service.CampaignSummary(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, campaignSummaryResponse{
		Campaign:        s.Campaign,
		Status:          string(s.Status),
		Goal:            s.Goal,
		TotalRaised:     s.TotalRaised,
		ProgressPct:     s.ProgressPct,
		GiftCount:       s.GiftCount,
		DonorCount:      s.DonorCount,
		AverageGift:     s.AverageGift,
		LargestGift:     s.LargestGift,
		RecurringDonors: s.RecurringDonors,
	})
}
