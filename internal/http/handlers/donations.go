package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"donorcrm/internal/domain"
	"donorcrm/internal/service"
)

func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	var req donationRequest
	if !a.decode(w, r, &req) {
		return
	}
	d, err := a.Service.RecordDonation(r.Context(), service.RecordDonationInput{
		DonorID:         req.DonorID,
		Amount:          req.Amount,
		Campaign:        req.Campaign,
		Type:            domain.DonationType(req.DonationType),
		Method:          domain.PaymentMethod(req.Method),
		Notes:           req.Notes,
		ReferenceNumber: req.ReferenceNumber,
		ReceivedAt:      req.ReceivedAt,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, toDonationResponse(*d))
}

func (a *App) DonationsList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := a.Service.ListDonations(r.Context(), domain.DonationFilter{
		DonorID:  q.Get("donor_id"),
		Campaign: q.Get("campaign"),
		Type:     domain.DonationType(q.Get("type")),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out := make([]donationResponse, 0, len(items))
	for _, d := range items {
		out = append(out, toDonationResponse(d))
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}

func (a *App) DonationsGet(w http.ResponseWriter, r *http.Request) {
	d, err := a.Service.GetDonation(r.Context(), chi.URLParam(r, "id"))
	a.writeDonation(w, r, d, err)
}

func (a *App) DonationsAcknowledge(w http.ResponseWriter, r *http.Request) {
	d, err := a.Service.AcknowledgeDonation(r.Context(), chi.URLParam(r, "id"))
	a.writeDonation(w, r, d, err)
}

func (a *App) DonationsReceipt(w http.ResponseWriter, r *http.Request) {
	d, err := a.Service.SendReceipt(r.Context(), chi.URLParam(r, "id"))
	a.writeDonation(w, r, d, err)
}

func (a *App) writeDonation(w http.ResponseWriter, r *http.Request, d *domain.Donation, err error) {
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if d == nil {
		a.error(w, http.StatusNotFound, "not_found", "donation not found")
		return
	}
	a.json(w, http.StatusOK, toDonationResponse(*d))
}

// PaymentsCharge charges through the processor and records the gift. The
// credential may come from the body or the X-Payment-Credential header.
func (a *App) PaymentsCharge(w http.ResponseWriter, r *http.Request) {
	var req chargeRequest
	if !a.decode(w, r, &req) {
		return
	}
	credential := strings.TrimSpace(req.APICredential)
	if credential == "" {
		credential = strings.TrimSpace(r.Header.Get("X-Payment-Credential"))
	}
	d, err := a.Service.ChargeAndRecordPayment(r.Context(), service.ChargeInput{
		DonorID:     req.DonorID,
		AmountMinor: req.AmountMinor,
		Campaign:    req.Campaign,
		MethodToken: req.PaymentMethod,
		Credential:  credential,
		Type:        domain.DonationType(req.DonationType),
		Notes:       req.Notes,
		Currency:    req.Currency,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, toDonationResponse(*d))
}
