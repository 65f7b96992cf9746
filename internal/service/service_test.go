package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"donorcrm/internal/adapter/repo"
	"donorcrm/internal/domain"
	"donorcrm/internal/events"
	"donorcrm/internal/infra"
)

var fixedNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

func newTestStore(t *testing.T) *repo.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "donors.db")
	db, err := infra.OpenSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := infra.ApplySchema(context.Background(), db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	reader, err := infra.OpenSQLiteReader(path)
	if err != nil {
		t.Fatalf("open sqlite reader: %v", err)
	}
	t.Cleanup(func() { _ = reader.Close() })
	return repo.NewStore(infra.NewSQLRunner(db, infra.DialectSQLite, zerolog.Nop()).WithReader(reader))
}

func newTestService(t *testing.T, opts Options) *Service {
	t.Helper()
	if opts.Store == nil {
		opts.Store = newTestStore(t)
	}
	if opts.Clock == nil {
		opts.Clock = func() time.Time { return fixedNow }
	}
	opts.Logger = zerolog.Nop()
	return New(opts)
}

func addDonor(t *testing.T, svc *Service, name, email string) *domain.Donor {
	t.Helper()
	d, err := svc.AddDonor(context.Background(), AddDonorInput{Name: name, Email: email})
	if err != nil {
		t.Fatalf("AddDonor(%s): %v", email, err)
	}
	return d
}

func record(t *testing.T, svc *Service, in RecordDonationInput) *domain.Donation {
	t.Helper()
	d, err := svc.RecordDonation(context.Background(), in)
	if err != nil {
		t.Fatalf("RecordDonation: %v", err)
	}
	return d
}

func at(year int, month time.Month, day int) *time.Time {
	ts := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	return &ts
}

func TestFallDriveScenario(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestService(t, Options{Publisher: pub})
	ctx := context.Background()

	if _, err := svc.CreateCampaign(ctx, CreateCampaignInput{
		Name: "Fall Drive", Goal: 10000, StartDate: "2025-01-01", EndDate: "2025-12-31",
	}); err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	alice := addDonor(t, svc, "Alice", "alice@x.com")

	record(t, svc, RecordDonationInput{DonorID: alice.ID, Amount: 6000, Campaign: "Fall Drive", Method: domain.MethodCheck})
	got, err := svc.GetDonor(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetDonor: %v", err)
	}
	if got.Tier != domain.TierSilver || got.TotalGiven != 6000 {
		t.Fatalf("after first gift: tier=%s total=%v", got.Tier, got.TotalGiven)
	}

	record(t, svc, RecordDonationInput{DonorID: alice.ID, Amount: 5000, Campaign: "Fall Drive", Method: domain.MethodCheck})
	got, err = svc.GetDonor(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetDonor: %v", err)
	}
	if got.Tier != domain.TierGold || got.TotalGiven != 11000 {
		t.Fatalf("after second gift: tier=%s total=%v", got.Tier, got.TotalGiven)
	}
	if len(got.Campaigns) != 1 || got.Campaigns[0] != "Fall Drive" {
		t.Fatalf("campaigns = %v", got.Campaigns)
	}

	summary, err := svc.CampaignSummary(ctx, "Fall Drive")
	if err != nil {
		t.Fatalf("CampaignSummary: %v", err)
	}
	if summary.TotalRaised != 11000 || summary.ProgressPct != 110.0 || summary.DonorCount != 1 ||
		summary.AverageGift != 5500 || summary.LargestGift != 6000 || summary.GiftCount != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	want := []string{
		events.TypeDonationRecorded, events.TypeTierChanged,
		events.TypeDonationRecorded, events.TypeTierChanged,
	}
	types := pub.types()
	if len(types) != len(want) {
		t.Fatalf("events = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("events = %v, want %v", types, want)
		}
	}
}

func TestMajorGifts(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()
	alice := addDonor(t, svc, "Alice", "alice@x.com")
	bob := addDonor(t, svc, "Bob", "bob@x.com")
	record(t, svc, RecordDonationInput{DonorID: alice.ID, Amount: 11000, Campaign: "Fall Drive"})
	record(t, svc, RecordDonationInput{DonorID: bob.ID, Amount: 9000, Campaign: "Fall Drive"})

	gifts, err := svc.MajorGifts(ctx, DefaultMajorGiftThreshold)
	if err != nil {
		t.Fatalf("MajorGifts: %v", err)
	}
	if len(gifts) != 1 || gifts[0].DonorID != alice.ID || gifts[0].TotalGiven != 11000 {
		t.Fatalf("gifts = %+v", gifts)
	}

	all, err := svc.MajorGifts(ctx, -1)
	if err != nil {
		t.Fatalf("MajorGifts(-1): %v", err)
	}
	if len(all) != 2 || all[0].DonorID != alice.ID || all[1].DonorID != bob.ID {
		t.Fatalf("negative threshold gifts = %+v, want every donor", all)
	}
	exact, err := svc.MajorGifts(ctx, 10999.995)
	if err != nil || len(exact) != 1 {
		t.Fatalf("fractional threshold gifts = %+v, %v", exact, err)
	}
	for _, bad := range []float64{math.NaN(), math.Inf(1)} {
		if _, err := svc.MajorGifts(ctx, bad); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("MajorGifts(%v) err = %v, want ErrInvalidArgument", bad, err)
		}
	}
}

func TestRetentionReport(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()
	x := addDonor(t, svc, "X", "x@example.org")
	y := addDonor(t, svc, "Y", "y@example.org")
	z := addDonor(t, svc, "Z", "z@example.org")
	r := addDonor(t, svc, "R", "r@example.org")

	record(t, svc, RecordDonationInput{DonorID: x.ID, Amount: 10, ReceivedAt: at(2024, 3, 1)})
	record(t, svc, RecordDonationInput{DonorID: x.ID, Amount: 10, ReceivedAt: at(2025, 3, 1)})
	record(t, svc, RecordDonationInput{DonorID: y.ID, Amount: 10, ReceivedAt: at(2024, 12, 31)})
	record(t, svc, RecordDonationInput{DonorID: z.ID, Amount: 10, ReceivedAt: at(2025, 1, 1)})
	record(t, svc, RecordDonationInput{DonorID: r.ID, Amount: 10, ReceivedAt: at(2022, 5, 1)})
	record(t, svc, RecordDonationInput{DonorID: r.ID, Amount: 10, ReceivedAt: at(2025, 5, 1)})

	report, err := svc.RetentionReport(ctx)
	if err != nil {
		t.Fatalf("RetentionReport: %v", err)
	}
	if report.Year != 2025 {
		t.Fatalf("year = %d", report.Year)
	}
	check := func(name string, got []string, want ...string) {
		t.Helper()
		if len(got) != len(want) {
			t.Fatalf("%s = %v, want %v", name, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%s = %v, want %v", name, got, want)
			}
		}
	}
	check("retained", report.RetainedDonors, x.ID)
	check("lapsed", report.LapsedDonors, y.ID)
	check("new", report.NewDonors, z.ID)
	check("reactivated", report.ReactivatedDonors, r.ID)
	if report.RetentionRate != 0.5 {
		t.Fatalf("retention rate = %v, want 0.5", report.RetentionRate)
	}
}

func TestRetentionReportEmpty(t *testing.T) {
	svc := newTestService(t, Options{})
	report, err := svc.RetentionReport(context.Background())
	if err != nil {
		t.Fatalf("RetentionReport: %v", err)
	}
	if report.RetentionRate != 0 || report.RetainedCount != 0 || report.NewDonors == nil {
		t.Fatalf("unexpected empty report: %+v", report)
	}
}

func TestDuplicateKeys(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()

	in := CreateCampaignInput{Name: "Gala", Goal: 500, StartDate: "2025-02-01", EndDate: "2025-02-28"}
	if _, err := svc.CreateCampaign(ctx, in); err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	if _, err := svc.CreateCampaign(ctx, in); !errors.Is(err, domain.ErrDuplicateKey) {
		t.Fatalf("second campaign err = %v, want ErrDuplicateKey", err)
	}

	addDonor(t, svc, "Alice", "alice@x.com")
	_, err := svc.AddDonor(ctx, AddDonorInput{Name: "Alice Again", Email: " ALICE@x.com "})
	if !errors.Is(err, domain.ErrDuplicateKey) {
		t.Fatalf("second donor err = %v, want ErrDuplicateKey", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()

	campaigns := []CreateCampaignInput{
		{Name: "", Goal: 10, StartDate: "2025-01-01", EndDate: "2025-02-01"},
		{Name: "Zero", Goal: 0, StartDate: "2025-01-01", EndDate: "2025-02-01"},
		{Name: "BadDate", Goal: 10, StartDate: "01/01/2025", EndDate: "2025-02-01"},
	}
	for _, in := range campaigns {
		if _, err := svc.CreateCampaign(ctx, in); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("CreateCampaign(%+v) err = %v, want ErrInvalidArgument", in, err)
		}
	}

	backwards, err := svc.CreateCampaign(ctx, CreateCampaignInput{Name: "Backwards", Goal: 10, StartDate: "2025-03-01", EndDate: "2025-02-01"})
	if err != nil || backwards == nil {
		t.Fatalf("end before start should be accepted, err = %v", err)
	}

	donors := []AddDonorInput{
		{Name: "", Email: "a@x.com"},
		{Name: "A", Email: "not-an-email"},
		{Name: "A", Email: "a@x.com", Type: "alien"},
	}
	for _, in := range donors {
		if _, err := svc.AddDonor(ctx, in); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("AddDonor(%+v) err = %v, want ErrInvalidArgument", in, err)
		}
	}
}

func TestRecordDonationRejectsInvalidInput(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()
	alice := addDonor(t, svc, "Alice", "alice@x.com")

	tests := []struct {
		name string
		in   RecordDonationInput
		want error
	}{
		{name: "zero amount", in: RecordDonationInput{DonorID: alice.ID, Amount: 0}, want: domain.ErrInvalidArgument},
		{name: "negative amount", in: RecordDonationInput{DonorID: alice.ID, Amount: -25}, want: domain.ErrInvalidArgument},
		{name: "unknown method", in: RecordDonationInput{DonorID: alice.ID, Amount: 5, Method: "barter"}, want: domain.ErrInvalidArgument},
		{name: "unknown type", in: RecordDonationInput{DonorID: alice.ID, Amount: 5, Type: "monthly"}, want: domain.ErrInvalidArgument},
		{name: "unknown donor", in: RecordDonationInput{DonorID: "ghost", Amount: 5}, want: domain.ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.RecordDonation(ctx, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}

	got, err := svc.GetDonor(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetDonor: %v", err)
	}
	if got.TotalGiven != 0 || got.LastDonationAt != nil || len(got.Campaigns) != 0 {
		t.Fatalf("donor changed by rejected gifts: %+v", got)
	}
	all, err := svc.ListDonations(ctx, domain.DonationFilter{})
	if err != nil {
		t.Fatalf("ListDonations: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("donations = %d, want 0", len(all))
	}
}

func TestLastDonationDoesNotRegress(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()
	alice := addDonor(t, svc, "Alice", "alice@x.com")

	record(t, svc, RecordDonationInput{DonorID: alice.ID, Amount: 10, ReceivedAt: at(2025, 5, 1)})
	record(t, svc, RecordDonationInput{DonorID: alice.ID, Amount: 10, ReceivedAt: at(2024, 1, 1)})

	got, err := svc.GetDonor(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetDonor: %v", err)
	}
	if got.LastDonationAt == nil || !got.LastDonationAt.Equal(*at(2025, 5, 1)) {
		t.Fatalf("last donation = %v", got.LastDonationAt)
	}

	ltv, err := svc.LTV(ctx, alice.ID)
	if err != nil {
		t.Fatalf("LTV: %v", err)
	}
	if ltv.DonationCount != 2 || ltv.TotalGiven != 20 || ltv.AverageGift != 10 {
		t.Fatalf("ltv = %+v", ltv)
	}
	if !ltv.FirstDonation.Equal(*at(2024, 1, 1)) || !ltv.LastDonation.Equal(*at(2025, 5, 1)) {
		t.Fatalf("ltv range = %v..%v", ltv.FirstDonation, ltv.LastDonation)
	}
}

func TestLTVWithoutDonations(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()
	alice := addDonor(t, svc, "Alice", "alice@x.com")

	ltv, err := svc.LTV(ctx, alice.ID)
	if err != nil {
		t.Fatalf("LTV: %v", err)
	}
	if ltv.DonationCount != 0 || ltv.AverageGift != 0 || ltv.FirstDonation != nil || ltv.LastDonation != nil {
		t.Fatalf("ltv = %+v", ltv)
	}
	if _, err := svc.LTV(ctx, "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("LTV ghost err = %v, want ErrNotFound", err)
	}
}

func TestSendReceiptIsIdempotent(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()
	alice := addDonor(t, svc, "Alice", "alice@x.com")
	gift := record(t, svc, RecordDonationInput{DonorID: alice.ID, Amount: 40})

	for i := 0; i < 2; i++ {
		got, err := svc.SendReceipt(ctx, gift.ID)
		if err != nil {
			t.Fatalf("SendReceipt #%d: %v", i, err)
		}
		if !got.Acknowledged || !got.TaxReceiptSent {
			t.Fatalf("flags after receipt #%d: %+v", i, got)
		}
	}

	missing, err := svc.SendReceipt(ctx, "ghost")
	if err != nil || missing != nil {
		t.Fatalf("SendReceipt ghost = %v, %v", missing, err)
	}
	missing, err = svc.AcknowledgeDonation(ctx, "ghost")
	if err != nil || missing != nil {
		t.Fatalf("AcknowledgeDonation ghost = %v, %v", missing, err)
	}
}

func TestGettersReturnNilWhenAbsent(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()

	if d, err := svc.GetDonor(ctx, "ghost"); err != nil || d != nil {
		t.Fatalf("GetDonor = %v, %v", d, err)
	}
	if d, err := svc.GetDonorByEmail(ctx, "ghost@x.com"); err != nil || d != nil {
		t.Fatalf("GetDonorByEmail = %v, %v", d, err)
	}
	if c, err := svc.GetCampaign(ctx, "ghost"); err != nil || c != nil {
		t.Fatalf("GetCampaign = %v, %v", c, err)
	}
	if g, err := svc.GetDonation(ctx, "ghost"); err != nil || g != nil {
		t.Fatalf("GetDonation = %v, %v", g, err)
	}
	if _, err := svc.CampaignSummary(ctx, "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("CampaignSummary err = %v, want ErrNotFound", err)
	}
}

func TestGetDonorByEmailIgnoresCase(t *testing.T) {
	svc := newTestService(t, Options{})
	alice := addDonor(t, svc, "Alice", "Alice@X.com")
	got, err := svc.GetDonorByEmail(context.Background(), "ALICE@x.COM")
	if err != nil || got == nil || got.ID != alice.ID {
		t.Fatalf("GetDonorByEmail = %+v, %v", got, err)
	}
}

func TestTierSummaryAndOrphans(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()
	if _, err := svc.CreateCampaign(ctx, CreateCampaignInput{Name: "Gala", Goal: 100, StartDate: "2025-01-01", EndDate: "2025-12-31"}); err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	alice := addDonor(t, svc, "Alice", "alice@x.com")
	addDonor(t, svc, "Bob", "bob@x.com")
	record(t, svc, RecordDonationInput{DonorID: alice.ID, Amount: 60000, Campaign: "Gala"})
	record(t, svc, RecordDonationInput{DonorID: alice.ID, Amount: 15, Campaign: "Gaal"})

	tiers, err := svc.TierSummary(ctx)
	if err != nil {
		t.Fatalf("TierSummary: %v", err)
	}
	want := []struct {
		tier  domain.Tier
		count int
		total float64
	}{
		{domain.TierBronze, 1, 0},
		{domain.TierSilver, 0, 0},
		{domain.TierGold, 0, 0},
		{domain.TierPlatinum, 1, 60015},
	}
	if len(tiers) != len(want) {
		t.Fatalf("tiers = %+v", tiers)
	}
	for i, w := range want {
		if tiers[i].Tier != w.tier || tiers[i].DonorCount != w.count || tiers[i].TotalGiven != w.total {
			t.Fatalf("tiers[%d] = %+v, want %+v", i, tiers[i], w)
		}
	}

	orphans, err := svc.OrphanCampaigns(ctx)
	if err != nil {
		t.Fatalf("OrphanCampaigns: %v", err)
	}
	if len(orphans) != 1 || orphans[0].Name != "Gaal" || orphans[0].TotalRaised != 15 {
		t.Fatalf("orphans = %+v", orphans)
	}
}

func TestSetCampaignStatus(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()
	if _, err := svc.CreateCampaign(ctx, CreateCampaignInput{Name: "Gala", Goal: 100, StartDate: "2025-01-01", EndDate: "2025-12-31"}); err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	c, err := svc.SetCampaignStatus(ctx, "Gala", domain.CampaignClosed)
	if err != nil {
		t.Fatalf("SetCampaignStatus: %v", err)
	}
	if c.Status != domain.CampaignClosed {
		t.Fatalf("status = %s", c.Status)
	}
	if _, err := svc.SetCampaignStatus(ctx, "ghost", domain.CampaignClosed); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("ghost err = %v, want ErrNotFound", err)
	}
	if _, err := svc.SetCampaignStatus(ctx, "Gala", "archived"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("bad status err = %v, want ErrInvalidArgument", err)
	}
}

func TestPublishFailureDoesNotFailRecording(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("redis down")}
	svc := newTestService(t, Options{Publisher: pub})
	alice := addDonor(t, svc, "Alice", "alice@x.com")

	gift, err := svc.RecordDonation(context.Background(), RecordDonationInput{DonorID: alice.ID, Amount: 5})
	if err != nil {
		t.Fatalf("RecordDonation: %v", err)
	}
	if gift == nil || len(pub.types()) != 1 {
		t.Fatalf("gift=%v events=%v", gift, pub.types())
	}
}

func TestRecordDonationRejectsAmountsPastMaximum(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()
	alice := addDonor(t, svc, "Alice", "alice@x.com")

	_, err := svc.RecordDonation(ctx, RecordDonationInput{DonorID: alice.ID, Amount: 1e17})
	if !errors.Is(err, domain.ErrInvalidArgument) || !strings.Contains(err.Error(), "exceeds the maximum") {
		t.Fatalf("oversized gift err = %v", err)
	}

	half := domain.MaxAmount / 2
	record(t, svc, RecordDonationInput{DonorID: alice.ID, Amount: half})
	record(t, svc, RecordDonationInput{DonorID: alice.ID, Amount: half})
	_, err = svc.RecordDonation(ctx, RecordDonationInput{DonorID: alice.ID, Amount: 1})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("gift past the maximum total err = %v", err)
	}

	donor, err := svc.GetDonor(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetDonor: %v", err)
	}
	if donor.TotalGiven != domain.MaxAmount || donor.Tier != domain.TierPlatinum {
		t.Fatalf("donor total=%v tier=%q, want %v platinum", donor.TotalGiven, donor.Tier, domain.MaxAmount)
	}
	gifts, err := svc.ListDonations(ctx, domain.DonationFilter{DonorID: alice.ID})
	if err != nil {
		t.Fatalf("ListDonations: %v", err)
	}
	if len(gifts) != 2 {
		t.Fatalf("donations = %d, want 2", len(gifts))
	}
}

func TestCreateCampaignRejectsGoalPastMaximum(t *testing.T) {
	svc := newTestService(t, Options{})
	_, err := svc.CreateCampaign(context.Background(), CreateCampaignInput{
		Name: "Moonshot", Goal: 1e17, StartDate: "2025-01-01", EndDate: "2025-12-31",
	})
	if !errors.Is(err, domain.ErrInvalidArgument) || !strings.Contains(err.Error(), "exceeds the maximum") {
		t.Fatalf("err = %v", err)
	}
}

func TestConcurrentGiftsToOneDonorAreNotLost(t *testing.T) {
	svc := newTestService(t, Options{})
	ctx := context.Background()
	alice := addDonor(t, svc, "Alice", "alice@x.com")

	const writers = 24
	const amount = 100.0
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.RecordDonation(ctx, RecordDonationInput{
				DonorID:  alice.ID,
				Amount:   amount,
				Campaign: fmt.Sprintf("Drive %d", i%3),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("RecordDonation: %v", err)
		}
	}

	donor, err := svc.GetDonor(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetDonor: %v", err)
	}
	want := writers * amount
	if donor.TotalGiven != want || donor.Tier != domain.TierFor(want) {
		t.Fatalf("donor total=%v tier=%q, want %v %q", donor.TotalGiven, donor.Tier, want, domain.TierFor(want))
	}
	if len(donor.Campaigns) != 3 {
		t.Fatalf("campaigns = %v, want 3 distinct", donor.Campaigns)
	}
	gifts, err := svc.ListDonations(ctx, domain.DonationFilter{DonorID: alice.ID})
	if err != nil {
		t.Fatalf("ListDonations: %v", err)
	}
	if len(gifts) != writers {
		t.Fatalf("donations = %d, want %d", len(gifts), writers)
	}
}
