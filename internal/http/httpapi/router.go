package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"donorcrm/internal/http/handlers"
	mw "donorcrm/internal/middleware"
)

// RouterOptions carries the cross-cutting HTTP settings.
type RouterOptions struct {
	Logger         zerolog.Logger
	AllowedOrigins []string
	Limiter        mw.Limiter
	LimitWindow    time.Duration
}

func NewRouter(app *handlers.App, opts RouterOptions) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(mw.RequestID, middleware.RealIP, mw.Logger(opts.Logger, app.Metrics), middleware.Recoverer)
	r.Use(mw.CORS(opts.AllowedOrigins))

	r.Method(stdhttp.MethodGet, "/metrics", app.MetricsHandler())

	r.Route("/v1", func(r chi.Router) {
		// Health
		r.Get("/healthz", app.Health)
		r.Get("/openapi.json", app.OpenAPIJSON)
		r.Get("/docs", app.OpenAPIDocs)

		r.Group(func(r chi.Router) {
			if opts.Limiter != nil {
				r.Use(mw.RateLimit(opts.Limiter, opts.LimitWindow, opts.Logger))
			}

			r.Route("/campaigns", func(r chi.Router) {
				r.Post("/", app.CampaignsCreate)
				r.Get("/", app.CampaignsList)
				r.Get("/{name}", app.CampaignsGet)
				r.Put("/{name}/status", app.CampaignsSetStatus)
				r.Get("/{name}/summary", app.CampaignsSummary)
			})

			r.Route("/donors", func(r chi.Router) {
				r.Post("/", app.DonorsCreate)
				r.Get("/", app.DonorsList)
				r.Get("/lookup", app.DonorsLookup)
				r.Get("/{id}", app.DonorsGet)
				r.Get("/{id}/ltv", app.DonorsLTV)
			})

			r.Route("/donations", func(r chi.Router) {
				r.Post("/", app.DonationsCreate)
				r.Get("/", app.DonationsList)
				r.Get("/{id}", app.DonationsGet)
				r.Post("/{id}/acknowledge", app.DonationsAcknowledge)
				r.Post("/{id}/receipt", app.DonationsReceipt)
			})

			r.Post("/payments/charges", app.PaymentsCharge)

			r.Route("/reports", func(r chi.Router) {
				r.Get("/major-gifts", app.ReportsMajorGifts)
				r.Get("/retention", app.ReportsRetention)
				r.Get("/tiers", app.ReportsTiers)
				r.Get("/orphan-campaigns", app.ReportsOrphanCampaigns)
			})
		})
	})

	return r
}
