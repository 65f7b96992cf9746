package handlers

import (
	"net/http"
	"strconv"

	"donorcrm/internal/service"
)

func (a *App) ReportsMajorGifts(w http.ResponseWriter, r *http.Request) {
	threshold := service.DefaultMajorGiftThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "threshold must be a number")
			return
		}
		threshold = v
	}
	gifts, err := a.Service.MajorGifts(r.Context(), threshold)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out := make([]majorGiftResponse, 0, len(gifts))
	for _, g := range gifts {
		out = append(out, majorGiftResponse{
			DonorID:      g.DonorID,
			Name:         g.Name,
			Email:        g.Email,
			DonorType:    string(g.Type),
			Tier:         string(g.Tier),
			TotalGiven:   g.TotalGiven,
			LastDonation: g.LastDonation,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"threshold": threshold, "items": out})
}

func (a *App) ReportsRetention(w http.ResponseWriter, r *http.Request) {
	rep, err := a.Service.RetentionReport(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, retentionResponse{
		Year:              rep.Year,
		RetainedDonors:    rep.RetainedDonors,
		LapsedDonors:      rep.LapsedDonors,
		NewDonors:         rep.NewDonors,
		ReactivatedDonors: rep.ReactivatedDonors,
		RetainedCount:     rep.RetainedCount,
		LapsedCount:       rep.LapsedCount,
		NewCount:          rep.NewCount,
		ReactivatedCount:  rep.ReactivatedCount,
		RetentionRate:     rep.RetentionRate,
	})
}

func (a *App) ReportsTiers(w http.ResponseWriter, r *http.Request) {
	buckets, err := a.Service.TierSummary(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out := make([]tierBucketResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, tierBucketResponse{Tier: string(b.Tier), DonorCount: b.DonorCount, TotalGiven: b.TotalGiven})
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}

func (a *App) ReportsOrphanCampaigns(w http.ResponseWriter, r *http.Request) {
	orphans, err := a.Service.OrphanCampaigns(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out := make([]orphanCampaignResponse, 0, len(orphans))
	for _, o := range orphans {
		out = append(out, orphanCampaignResponse{Campaign: o.Name, GiftCount: o.GiftCount, TotalRaised: o.TotalRaised})
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}
