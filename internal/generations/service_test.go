package generations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"cameo-backend/internal/campaigns"
	"cameo-backend/internal/prompts/analyzer"
	"cameo-backend/internal/queue"
	"cameo-backend/internal/stylepresets"
	"cameo-backend/internal/usage"
	"cameo-backend/internal/videogen"
)

type fakeVideo struct {
	calls []videogen.Request
	res   videogen.Result
	err   error
}

func (f *fakeVideo) Generate(_ context.Context, req videogen.Request) (videogen.Result, error) {
	f.calls = append(f.calls, req)
	return f.res, f.err
}

type failingQueue struct{}

func (failingQueue) Send(context.Context, queue.Message) error { return errors.New("queue down") }

func newSyncService(video videogen.Client) (*Service, *MemoryRepo) {
	repo := NewMemoryRepo()
	svc := NewService(repo, video)
	svc.async = func(fn func()) { fn() }
	return svc, repo
}

func TestCreateProcessesInProcessWithoutQueue(t *testing.T) {
	video := &fakeVideo{res: videogen.Result{VideoURI: "https://videos.example/1.mp4"}}
	svc, repo := newSyncService(video)

	g, err := svc.Create(t.Context(), "user-1", CreateInput{Prompt: "  a dog running in the park  ", Platform: "TikTok"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.Status != StatusQueued || g.Prompt != "a dog running in the park" {
		t.Fatalf("unexpected created generation: %+v", g)
	}
	if g.AspectRatio != stylepresets.DefaultAspectRatio || g.DurationSeconds != stylepresets.DefaultDurationSeconds {
		t.Fatalf("expected defaults, got %s / %d", g.AspectRatio, g.DurationSeconds)
	}
	if g.Platform != analyzer.PlatformTikTok {
		t.Fatalf("expected tiktok, got %q", g.Platform)
	}
	want := analyzer.Analyze("a dog running in the park", &analyzer.Context{})
	if diff := cmp.Diff(&want, g.Analysis); diff != "" {
		t.Fatalf("analysis snapshot mismatch (-want +got):\n%s", diff)
	}

	stored, err := repo.GetByID(t.Context(), g.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != StatusCompleted || stored.VideoURI != "https://videos.example/1.mp4" {
		t.Fatalf("expected completed generation, got %+v", stored)
	}
	if stored.StartedAt == nil || stored.CompletedAt == nil {
		t.Fatalf("expected timestamps, got %+v", stored)
	}
	if len(video.calls) != 1 || video.calls[0].Prompt != "a dog running in the park" {
		t.Fatalf("unexpected video calls: %+v", video.calls)
	}
}

func TestCreateAppliesStylePresetAndCampaign(t *testing.T) {
	presets := stylepresets.NewService(stylepresets.NewMemoryRepo())
	preset, err := presets.Create(t.Context(), "user-1", stylepresets.Input{Name: "Neon", PromptSuffix: "neon lighting, cinematic", AspectRatio: "16:9", DurationSeconds: 6})
	if err != nil {
		t.Fatalf("create preset: %v", err)
	}
	camps := campaigns.NewService(campaigns.NewMemoryRepo(), nil)
	campaign, err := camps.Create(t.Context(), "user-1", campaigns.Input{Name: "Launch", TargetPlatforms: []string{"youtube"}, BrandGuidelineID: "bg-1"})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}

	video := &fakeVideo{res: videogen.Result{VideoURI: "uri"}}
	svc, _ := newSyncService(video)
	svc.Presets = presets
	svc.Campaigns = camps

	g, err := svc.Create(t.Context(), "user-1", CreateInput{Prompt: "robot dancing.", StylePresetID: preset.ID, CampaignID: campaign.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.EffectivePrompt != "robot dancing, neon lighting, cinematic" {
		t.Fatalf("unexpected effective prompt %q", g.EffectivePrompt)
	}
	if g.AspectRatio != "16:9" || g.DurationSeconds != 6 {
		t.Fatalf("expected preset framing, got %s / %d", g.AspectRatio, g.DurationSeconds)
	}
	if g.Platform != analyzer.PlatformYouTube {
		t.Fatalf("expected campaign platform, got %q", g.Platform)
	}
	withGuidelines := analyzer.Analyze("robot dancing.", &analyzer.Context{BrandGuidelines: "bg-1"})
	if diff := cmp.Diff(&withGuidelines, g.Analysis); diff != "" {
		t.Fatalf("analysis should see brand guidelines (-want +got):\n%s", diff)
	}
	if video.calls[0].Prompt != g.EffectivePrompt || video.calls[0].AspectRatio != "16:9" {
		t.Fatalf("video request should use effective prompt, got %+v", video.calls[0])
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newSyncService(&fakeVideo{})
	svc.Presets = stylepresets.NewService(stylepresets.NewMemoryRepo())

	tests := []struct {
		name string
		in   CreateInput
	}{
		{name: "blank prompt", in: CreateInput{Prompt: "   "}},
		{name: "unknown platform", in: CreateInput{Prompt: "x", Platform: "vine"}},
		{name: "bad aspect ratio", in: CreateInput{Prompt: "x", AspectRatio: "4:3"}},
		{name: "duration too long", in: CreateInput{Prompt: "x", DurationSeconds: 61}},
		{name: "missing preset", in: CreateInput{Prompt: "x", StylePresetID: "nope"}},
		{name: "campaigns unavailable", in: CreateInput{Prompt: "x", CampaignID: "c-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(t.Context(), "user-1", tt.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCreateEnforcesUsage(t *testing.T) {
	svc, repo := newSyncService(&fakeVideo{res: videogen.Result{VideoURI: "uri"}})
	svc.Usage = usage.NewService(usage.Policy{Limit: 1})

	if _, err := svc.Create(t.Context(), "user-1", CreateInput{Prompt: "first"}); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := svc.Create(t.Context(), "user-1", CreateInput{Prompt: "second"}); !errors.Is(err, usage.ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}
	items, err := repo.List(t.Context(), "user-1", 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected only the first generation persisted, got %d", len(items))
	}
}

func TestCreateEnqueuesWhenQueueConfigured(t *testing.T) {
	video := &fakeVideo{}
	svc, repo := newSyncService(video)
	q := queue.NewMemoryQueue(4)
	svc.Queue = q

	g, err := svc.Create(WithRequestID(t.Context(), "req-1"), "user-1", CreateInput{Prompt: "x"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if q.Len() != 1 {
		t.Fatalf("expected one queued message, got %d", q.Len())
	}
	deliveries, err := q.Receive(t.Context(), 1)
	if err != nil || len(deliveries) != 1 {
		t.Fatalf("Receive: %v %v", deliveries, err)
	}
	msg, err := queue.DecodeMessage(deliveries[0].Body)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if msg.GenerationID != g.ID || msg.RequestID != "req-1" || msg.Version != queue.MessageVersion {
		t.Fatalf("unexpected message: %+v", msg)
	}
	stored, _ := repo.GetByID(t.Context(), g.ID)
	if stored.Status != StatusQueued || len(video.calls) != 0 {
		t.Fatalf("expected generation left for the worker, got %+v", stored)
	}
}

func TestCreateFallsBackWhenEnqueueFails(t *testing.T) {
	video := &fakeVideo{res: videogen.Result{VideoURI: "uri"}}
	svc, repo := newSyncService(video)
	svc.Queue = failingQueue{}

	g, err := svc.Create(t.Context(), "user-1", CreateInput{Prompt: "x"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	stored, _ := repo.GetByID(t.Context(), g.ID)
	if stored.Status != StatusCompleted {
		t.Fatalf("expected in-process completion, got %s", stored.Status)
	}
}

func TestProcessGenerationClassifiesFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{name: "timeout", err: fmt.Errorf("poll: %w", videogen.ErrTimeout), code: ErrorCodeVideoTimeout},
		{name: "deadline", err: context.DeadlineExceeded, code: ErrorCodeVideoTimeout},
		{name: "rejected", err: fmt.Errorf("%w: safety filter", videogen.ErrRejected), code: ErrorCodeVideoRejected},
		{name: "unavailable", err: fmt.Errorf("%w: code 13: internal", videogen.ErrUnavailable), code: ErrorCodeVideoUnavailable},
		{name: "not configured", err: videogen.ErrNotConfigured, code: ErrorCodeInternal},
		{name: "other", err: errors.New("boom\nline two"), code: ErrorCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newSyncService(&fakeVideo{err: tt.err})
			g, err := svc.Create(t.Context(), "user-1", CreateInput{Prompt: "x"})
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			stored, _ := repo.GetByID(t.Context(), g.ID)
			if stored.Status != StatusFailed || stored.ErrorCode != tt.code {
				t.Fatalf("expected failed/%s, got %s/%s", tt.code, stored.Status, stored.ErrorCode)
			}
			if stored.ErrorMessage == "" || stored.CompletedAt == nil {
				t.Fatalf("expected error message and completion time, got %+v", stored)
			}
		})
	}
}

func TestProcessGenerationRefundsProviderFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantUsed int
	}{
		{name: "timeout refunds", err: videogen.ErrTimeout, wantUsed: 0},
		{name: "provider outage refunds", err: fmt.Errorf("%w: code 13: internal", videogen.ErrUnavailable), wantUsed: 0},
		{name: "rejection keeps charge", err: fmt.Errorf("%w: safety filter", videogen.ErrRejected), wantUsed: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newSyncService(&fakeVideo{err: tt.err})
			meter := usage.NewService(usage.Policy{Limit: 3})
			svc.Usage = meter

			if _, err := svc.Create(t.Context(), "user-1", CreateInput{Prompt: "x"}); err != nil {
				t.Fatalf("Create: %v", err)
			}
			u, err := meter.Get(t.Context(), "user-1")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if u.Used != tt.wantUsed {
				t.Fatalf("expected used %d, got %d", tt.wantUsed, u.Used)
			}
		})
	}
}

type refundCall struct {
	userID string
	n      int
	window time.Time
}

type recordingMeter struct {
	window  time.Time
	refunds []refundCall
}

func (m *recordingMeter) Consume(_ context.Context, _ string, n int) (usage.Usage, error) {
	return usage.Usage{Limit: 10, Used: n, ResetsAt: m.window}, nil
}

func (m *recordingMeter) Refund(_ context.Context, userID string, n int, window time.Time) (usage.Usage, error) {
	m.refunds = append(m.refunds, refundCall{userID: userID, n: n, window: window})
	return usage.Usage{Limit: 10, ResetsAt: m.window}, nil
}

func TestProcessGenerationRefundsAgainstChargedWindow(t *testing.T) {
	charged := mustTime(t, "2026-03-08T12:00:00Z")
	meter := &recordingMeter{window: charged}
	svc, repo := newSyncService(&fakeVideo{err: videogen.ErrTimeout})
	svc.Usage = meter
	svc.CreditCost = 2

	g, err := svc.Create(t.Context(), "user-1", CreateInput{Prompt: "x"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	stored, _ := repo.GetByID(t.Context(), g.ID)
	if stored.CreditsCharged != 2 || stored.CreditWindow == nil || !stored.CreditWindow.Equal(charged) {
		t.Fatalf("expected charge recorded on the generation, got %d %v", stored.CreditsCharged, stored.CreditWindow)
	}

	want := []refundCall{{userID: "user-1", n: 2, window: charged}}
	if diff := cmp.Diff(want, meter.refunds, cmp.AllowUnexported(refundCall{})); diff != "" {
		t.Fatalf("refund mismatch (-want +got):\n%s", diff)
	}
}

type failingCreateRepo struct {
	*MemoryRepo
}

func (failingCreateRepo) Create(context.Context, Generation) error { return errors.New("insert failed") }

func TestCreateRefundsWhenInsertFails(t *testing.T) {
	meter := &recordingMeter{window: mustTime(t, "2026-03-08T12:00:00Z")}
	svc := NewService(failingCreateRepo{NewMemoryRepo()}, &fakeVideo{})
	svc.Usage = meter

	if _, err := svc.Create(t.Context(), "user-1", CreateInput{Prompt: "x"}); err == nil {
		t.Fatalf("expected insert error")
	}
	if len(meter.refunds) != 1 || meter.refunds[0].n != 1 {
		t.Fatalf("expected the charge refunded, got %+v", meter.refunds)
	}
}

func TestSanitizeErrorFlattensAndTruncates(t *testing.T) {
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'a'
	}
	if got := sanitizeError(errors.New("a\nb\r")); got != "a b" {
		t.Fatalf("unexpected sanitized message %q", got)
	}
	if got := sanitizeError(errors.New(string(long))); len(got) != 500 {
		t.Fatalf("expected truncation to 500, got %d", len(got))
	}
	// 499 ASCII bytes followed by a three-byte rune straddling the limit.
	straddle := strings.Repeat("a", 499) + "€tail"
	got := sanitizeError(errors.New(straddle))
	if !utf8.ValidString(got) {
		t.Fatalf("truncation split a rune: %q", got[len(got)-4:])
	}
	if len(got) != 499 {
		t.Fatalf("expected cut back to 499 bytes, got %d", len(got))
	}
}

func TestProcessGenerationIsIdempotent(t *testing.T) {
	video := &fakeVideo{res: videogen.Result{VideoURI: "uri"}}
	svc, repo := newSyncService(video)

	g, err := svc.Create(t.Context(), "user-1", CreateInput{Prompt: "x"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	before, _ := repo.GetByID(t.Context(), g.ID)
	if err := svc.ProcessGeneration(t.Context(), g.ID); err != nil {
		t.Fatalf("ProcessGeneration: %v", err)
	}
	after, _ := repo.GetByID(t.Context(), g.ID)
	if len(video.calls) != 1 {
		t.Fatalf("expected a single render, got %d", len(video.calls))
	}
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("terminal generation changed (-before +after):\n%s", diff)
	}

	if err := svc.ProcessGeneration(t.Context(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkProcessingReclaimsStaleClaims(t *testing.T) {
	repo := NewMemoryRepo()
	start := mustTime(t, "2026-01-01T00:00:00Z")
	if err := repo.Create(t.Context(), Generation{ID: "g-1", UserID: "u", Status: StatusQueued, CreatedAt: start}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	claimed, err := repo.MarkProcessing(t.Context(), "g-1", start, start.Add(-staleProcessingAfter))
	if err != nil || !claimed {
		t.Fatalf("expected first claim, got %v %v", claimed, err)
	}
	later := start.Add(time.Minute)
	if claimed, _ := repo.MarkProcessing(t.Context(), "g-1", later, later.Add(-staleProcessingAfter)); claimed {
		t.Fatalf("expected a fresh claim to block a second worker")
	}
	much := start.Add(staleProcessingAfter + time.Minute)
	if claimed, _ := repo.MarkProcessing(t.Context(), "g-1", much, much.Add(-staleProcessingAfter)); !claimed {
		t.Fatalf("expected a stale claim to be reclaimed")
	}
}

func TestListIsOwnerScopedAndNewestFirst(t *testing.T) {
	svc, _ := newSyncService(&fakeVideo{res: videogen.Result{VideoURI: "uri"}})
	base := mustTime(t, "2026-01-01T00:00:00Z")
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	for _, p := range []string{"one", "two", "three"} {
		if _, err := svc.Create(t.Context(), "user-1", CreateInput{Prompt: p}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, err := svc.Create(t.Context(), "user-2", CreateInput{Prompt: "other"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	items, err := svc.List(t.Context(), "user-1", 2, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	got := make([]string, 0, len(items))
	for _, g := range items {
		got = append(got, g.Prompt)
	}
	if diff := cmp.Diff([]string{"three", "two"}, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if _, err := svc.Get(t.Context(), "user-2", items[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected other users to get ErrNotFound, got %v", err)
	}
}

func mustTime(t *testing.T, raw string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return ts
}
