package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dentascribe/internal/record"
	"dentascribe/internal/upstream/clinicnlp"
	"dentascribe/internal/webhook"
)

type fakeAnalyzer struct {
	mu            sync.Mutex
	languages     []string
	fullErr       error
	simplifiedErr error
	analysis      clinicnlp.Analysis
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ string, language string) (clinicnlp.Analysis, error) {
	f.mu.Lock()
	f.languages = append(f.languages, language)
	f.mu.Unlock()
	if language != "" {
		if f.fullErr != nil {
			return clinicnlp.Analysis{}, f.fullErr
		}
		return f.analysis, nil
	}
	if f.simplifiedErr != nil {
		return clinicnlp.Analysis{}, f.simplifiedErr
	}
	return f.analysis, nil
}

type fakeDirectory struct {
	patientID string
	err       error
}

func (f *fakeDirectory) PatientID(context.Context, string) (string, error) {
	return f.patientID, f.err
}

type fakeNotifier struct {
	events chan webhook.Event
}

func (f *fakeNotifier) Notify(_ context.Context, event webhook.Event) {
	f.events <- event
}

type fakeMetrics struct {
	mu        sync.Mutex
	fallbacks []string
	records   int
}

func (f *fakeMetrics) IncTierFallback(tier string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fallbacks = append(f.fallbacks, tier)
}

func (f *fakeMetrics) AddToothRecords(count int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records += count
}

func newTestService(analyzer Analyzer, directory ConsultationDirectory, notifier Notifier, metrics MetricsObserver) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(analyzer, directory, notifier, logger, metrics, time.Second, time.Second, "en-US")
}

func sampleAnalysis(confidence int) clinicnlp.Analysis {
	return clinicnlp.Analysis{
		ChiefComplaint: &record.ChiefComplaint{
			PrimaryComplaint:   "Toothache",
			PatientDescription: "pain in the lower right",
			LocationDetail:     "tooth 46",
			AssociatedSymptoms: []string{"Pain"},
		},
		HOPI: &record.HistoryOfPresentIllness{
			Onset:              "3 day(s) ago",
			AggravatingFactors: []string{"cold"},
			RelievingFactors:   []string{},
		},
		Confidence:          confidence,
		AutoExtracted:       true,
		ExtractionTimestamp: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}
}

func TestProcessFullAnalysisTier(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: sampleAnalysis(92)}
	svc := newTestService(analyzer, &fakeDirectory{patientID: "p1"}, nil, nil)

	res, err := svc.Process(context.Background(), ProcessInput{
		Transcript:     "Patient has pain in tooth 46",
		Language:       "en-US",
		ConsultationID: "c1",
	})
	require.NoError(t, err)

	assert.Equal(t, 92, res.Content.Confidence)
	assert.Equal(t, "Toothache", res.Content.ChiefComplaint.PrimaryComplaint)
	assert.True(t, res.Content.AutoExtracted)
	assert.Equal(t, []string{"en-US"}, analyzer.languages)
}

func TestProcessSimplifiedFallbackConfidence(t *testing.T) {
	analyzer := &fakeAnalyzer{fullErr: errors.New("model overloaded"), analysis: sampleAnalysis(80)}
	metrics := &fakeMetrics{}
	svc := newTestService(analyzer, &fakeDirectory{patientID: "p1"}, nil, metrics)

	res, err := svc.Process(context.Background(), ProcessInput{
		Transcript:     "tooth 46 hurts",
		ConsultationID: "c1",
	})
	require.NoError(t, err)

	assert.Equal(t, 60, res.Content.Confidence)
	assert.Equal(t, []string{"en-US", ""}, analyzer.languages)
	assert.Equal(t, []string{"full_analysis"}, metrics.fallbacks)
}

func TestProcessSimplifiedFallbackConfidenceFloor(t *testing.T) {
	analyzer := &fakeAnalyzer{fullErr: errors.New("boom"), analysis: sampleAnalysis(0)}
	svc := newTestService(analyzer, &fakeDirectory{patientID: "p1"}, nil, nil)

	res, err := svc.Process(context.Background(), ProcessInput{
		Transcript:     "tooth 46 hurts",
		ConsultationID: "c1",
	})
	require.NoError(t, err)
	assert.Equal(t, 30, res.Content.Confidence)
}

func TestProcessKeywordFallbackTier(t *testing.T) {
	analyzer := &fakeAnalyzer{fullErr: errors.New("down"), simplifiedErr: errors.New("still down")}
	metrics := &fakeMetrics{}
	svc := newTestService(analyzer, &fakeDirectory{patientID: "p1"}, nil, metrics)

	res, err := svc.Process(context.Background(), ProcessInput{
		Transcript:     "patient complains of severe pain in tooth 46 for 3 days",
		ConsultationID: "c1",
	})
	require.NoError(t, err)

	assert.Equal(t, 25, res.Content.Confidence)
	assert.True(t, res.Content.AutoExtracted)
	assert.Equal(t, "Toothache", res.Content.ChiefComplaint.PrimaryComplaint)
	assert.Equal(t, []string{"full_analysis", "simplified_fallback"}, metrics.fallbacks)
}

func TestProcessKeywordTierExtractsToothRecords(t *testing.T) {
	analyzer := &fakeAnalyzer{fullErr: errors.New("down"), simplifiedErr: errors.New("down")}
	svc := newTestService(analyzer, &fakeDirectory{patientID: "p1"}, nil, nil)

	res, err := svc.Process(context.Background(), ProcessInput{
		Transcript:     "Patient has tooth 44 deep caries with sharp pain on cold",
		ConsultationID: "c1",
	})
	require.NoError(t, err)

	require.Len(t, res.ToothDiagnoses, 1)
	rec := res.ToothDiagnoses[0]
	assert.Equal(t, "c1", rec.ConsultationID)
	assert.Equal(t, "p1", rec.PatientID)
	assert.Equal(t, "44", rec.ToothNumber)
	assert.Equal(t, record.StatusCaries, rec.Status)
	assert.Equal(t, "Deep Caries", rec.PrimaryDiagnosis)
	assert.Equal(t, "Root Canal Treatment", rec.RecommendedTreatment)
	assert.Equal(t, record.PriorityHigh, rec.TreatmentPriority)
	assert.Contains(t, rec.Symptoms, "Sharp pain")
	assert.Contains(t, rec.Symptoms, "Cold sensitivity")
}

func TestProcessLookupFailureSkipsToothExtractionOnly(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: sampleAnalysis(90)}
	svc := newTestService(analyzer, &fakeDirectory{err: errors.New("consultation not found")}, nil, nil)

	res, err := svc.Process(context.Background(), ProcessInput{
		Transcript:     "tooth 44 deep caries",
		ConsultationID: "missing",
	})
	require.NoError(t, err)

	assert.NotNil(t, res.ToothDiagnoses)
	assert.Empty(t, res.ToothDiagnoses)
	assert.Equal(t, 90, res.Content.Confidence)
}

func TestProcessEmptyTranscriptSkipsAnalyzer(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: sampleAnalysis(90)}
	svc := newTestService(analyzer, &fakeDirectory{patientID: "p1"}, nil, nil)

	res, err := svc.Process(context.Background(), ProcessInput{
		Transcript:     "   ",
		ConsultationID: "c1",
	})
	require.NoError(t, err)

	assert.Empty(t, analyzer.languages)
	assert.Equal(t, 25, res.Content.Confidence)
	assert.Empty(t, res.ToothDiagnoses)
}

func TestProcessKeywordTierIsDeterministic(t *testing.T) {
	analyzer := &fakeAnalyzer{fullErr: errors.New("down"), simplifiedErr: errors.New("down")}
	svc := newTestService(analyzer, &fakeDirectory{patientID: "p1"}, nil, nil)

	in := ProcessInput{
		Transcript:     "patient complains of deep caries in tooth 44 with sharp pain on cold for 2 days",
		ConsultationID: "c1",
	}
	first, err := svc.Process(context.Background(), in)
	require.NoError(t, err)
	second, err := svc.Process(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first.ToothDiagnoses, second.ToothDiagnoses)

	firstContent := first.Content
	secondContent := second.Content
	firstContent.ExtractionTimestamp = time.Time{}
	secondContent.ExtractionTimestamp = time.Time{}
	assert.Equal(t, firstContent, secondContent)
}

func TestProcessNotifiesWebhook(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: sampleAnalysis(90)}
	notifier := &fakeNotifier{events: make(chan webhook.Event, 1)}
	svc := newTestService(analyzer, &fakeDirectory{patientID: "p1"}, notifier, nil)

	_, err := svc.Process(context.Background(), ProcessInput{
		Transcript:     "tooth 46 hurts",
		ConsultationID: "c1",
		SessionID:      "s1",
	})
	require.NoError(t, err)

	select {
	case event := <-notifier.events:
		assert.Equal(t, webhook.EventTranscriptProcessed, event.Type)
		assert.Equal(t, "c1", event.ConsultationID)
		assert.Equal(t, "s1", event.SessionID)
		assert.NotEmpty(t, event.ID)
	case <-time.After(time.Second):
		t.Fatal("expected a webhook event")
	}
}

func TestProcessCountsExtractedRecords(t *testing.T) {
	analyzer := &fakeAnalyzer{fullErr: errors.New("down"), simplifiedErr: errors.New("down")}
	metrics := &fakeMetrics{}
	svc := newTestService(analyzer, &fakeDirectory{patientID: "p1"}, nil, metrics)

	res, err := svc.Process(context.Background(), ProcessInput{
		Transcript:     "tooth 44 deep caries and tooth 46 abscess",
		ConsultationID: "c1",
	})
	require.NoError(t, err)
	require.Len(t, res.ToothDiagnoses, 2)
	assert.Equal(t, 2, metrics.records)
}
