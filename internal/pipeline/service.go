// Package pipeline orchestrates transcript-to-clinical-record extraction.
// Content extraction degrades across three confidence tiers instead of
// failing; tooth records are classified per context window and reconciled
// with the chief complaint.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"dentascribe/internal/extract"
	"dentascribe/internal/record"
	"dentascribe/internal/upstream/clinicnlp"
	"dentascribe/internal/webhook"
)

type Analyzer interface {
	Analyze(ctx context.Context, transcript, language string) (clinicnlp.Analysis, error)
}

type ConsultationDirectory interface {
	PatientID(ctx context.Context, consultationID string) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, event webhook.Event)
}

type MetricsObserver interface {
	IncTierFallback(tier string)
	AddToothRecords(count int)
}

// Tier confidence constants: the simplified tier keeps a floor of 30 so a
// still-AI-assisted result never scores near zero, and the keyword tier is
// pinned at 25 to signal lowest trust.
const (
	simplifiedConfidenceFloor   = 30
	simplifiedConfidencePenalty = 20
	keywordConfidence           = 25
)

type tier int

const (
	tierFullAnalysis tier = iota
	tierSimplifiedFallback
	tierKeywordFallback
)

func (t tier) String() string {
	switch t {
	case tierFullAnalysis:
		return "full_analysis"
	case tierSimplifiedFallback:
		return "simplified_fallback"
	default:
		return "keyword_fallback"
	}
}

type Service struct {
	analyzer        Analyzer
	directory       ConsultationDirectory
	notifier        Notifier
	logger          *slog.Logger
	metrics         MetricsObserver
	analyzeTimeout  time.Duration
	lookupTimeout   time.Duration
	defaultLanguage string
}

type ProcessInput struct {
	Transcript     string
	Language       string
	ConsultationID string
	SessionID      string
}

type ProcessResult struct {
	Content        record.ProcessedContent
	ToothDiagnoses []record.ToothDiagnosisRecord
}

func New(analyzer Analyzer, directory ConsultationDirectory, notifier Notifier, logger *slog.Logger, metrics MetricsObserver, analyzeTimeout, lookupTimeout time.Duration, defaultLanguage string) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		analyzer:        analyzer,
		directory:       directory,
		notifier:        notifier,
		logger:          logger,
		metrics:         metrics,
		analyzeTimeout:  analyzeTimeout,
		lookupTimeout:   lookupTimeout,
		defaultLanguage: strings.TrimSpace(defaultLanguage),
	}
}

// Process runs the full pipeline for one transcript. It always returns a
// structured result: extraction failures degrade the confidence score
// rather than surfacing as errors.
func (s *Service) Process(ctx context.Context, in ProcessInput) (ProcessResult, error) {
	transcript := strings.TrimSpace(in.Transcript)
	language := strings.TrimSpace(in.Language)
	if language == "" {
		language = s.defaultLanguage
	}

	content := s.extractContent(ctx, transcript, language)
	teeth := s.extractToothRecords(ctx, in.ConsultationID, transcript, content)

	if s.notifier != nil {
		event := webhook.NewEvent(webhook.EventTranscriptProcessed, transcript, in.ConsultationID, in.SessionID)
		go s.notifier.Notify(context.WithoutCancel(ctx), event)
	}

	return ProcessResult{Content: content, ToothDiagnoses: teeth}, nil
}

// extractContent walks the tier list in order and returns the first
// successful result. The keyword tier cannot fail, so the loop always
// terminates with content.
func (s *Service) extractContent(ctx context.Context, transcript, language string) record.ProcessedContent {
	lowered := strings.ToLower(transcript)

	tiers := []tier{tierFullAnalysis, tierSimplifiedFallback, tierKeywordFallback}
	if transcript == "" {
		// Nothing for the classifier service to work with; go straight to
		// the deterministic tier.
		tiers = []tier{tierKeywordFallback}
	}

	for _, t := range tiers {
		content, err := s.runTier(ctx, t, transcript, lowered, language)
		if err != nil {
			s.logger.Warn("extraction tier failed, degrading", "tier", t.String(), "error", err)
			if s.metrics != nil {
				s.metrics.IncTierFallback(t.String())
			}
			continue
		}
		s.logger.Info("content extracted", "tier", t.String(), "confidence", content.Confidence)
		return content
	}
	return record.NewProcessedContent()
}

func (s *Service) runTier(ctx context.Context, t tier, transcript, lowered, language string) (record.ProcessedContent, error) {
	switch t {
	case tierFullAnalysis:
		analysis, err := s.analyze(ctx, transcript, language)
		if err != nil {
			return record.ProcessedContent{}, err
		}
		content := record.NewProcessedContent()
		overlayAnalysis(&content, analysis, true)
		content.Confidence = analysis.Confidence
		return content, nil

	case tierSimplifiedFallback:
		analysis, err := s.analyze(ctx, transcript, "")
		if err != nil {
			return record.ProcessedContent{}, err
		}
		content := keywordContent(lowered)
		overlayAnalysis(&content, analysis, false)
		content.Confidence = analysis.Confidence - simplifiedConfidencePenalty
		if content.Confidence < simplifiedConfidenceFloor {
			content.Confidence = simplifiedConfidenceFloor
		}
		return content, nil

	default:
		content := keywordContent(lowered)
		content.Confidence = keywordConfidence
		return content, nil
	}
}

func (s *Service) analyze(ctx context.Context, transcript, language string) (clinicnlp.Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, s.analyzeTimeout)
	defer cancel()
	return s.analyzer.Analyze(ctx, transcript, language)
}

// keywordContent builds every section from the deterministic extractors.
func keywordContent(lowered string) record.ProcessedContent {
	content := record.NewProcessedContent()
	content.ChiefComplaint = extract.ExtractChiefComplaint(lowered)
	content.HOPI = extract.ExtractHOPI(lowered)
	content.MedicalHistory = extract.ExtractMedicalHistory(lowered)
	content.PersonalHistory = extract.ExtractPersonalHistory(lowered)
	content.ClinicalExamination = extract.ExtractClinicalExamination(lowered)
	content.Investigations = extract.ExtractInvestigations(lowered)
	content.Diagnosis = extract.ExtractDiagnosis(lowered)
	content.TreatmentPlan = extract.ExtractTreatmentPlan(lowered)
	content.AutoExtracted = true
	content.ExtractionTimestamp = time.Now().UTC()
	return content
}

// overlayAnalysis copies the collaborator's sections onto content. In full
// mode every section it produced is taken; in simplified mode only chief
// complaint and HOPI are trusted, the rest stay with the keyword tier.
func overlayAnalysis(content *record.ProcessedContent, analysis clinicnlp.Analysis, full bool) {
	if analysis.ChiefComplaint != nil {
		content.ChiefComplaint = *analysis.ChiefComplaint
	}
	if analysis.HOPI != nil {
		content.HOPI = *analysis.HOPI
	}
	if full {
		if analysis.MedicalHistory != nil {
			content.MedicalHistory = *analysis.MedicalHistory
		}
		if analysis.PersonalHistory != nil {
			content.PersonalHistory = *analysis.PersonalHistory
		}
		if analysis.ClinicalExamination != nil {
			content.ClinicalExamination = *analysis.ClinicalExamination
		}
	}
	content.AutoExtracted = true
	content.ExtractionTimestamp = analysis.ExtractionTimestamp
	if content.ExtractionTimestamp.IsZero() {
		content.ExtractionTimestamp = time.Now().UTC()
	}
}

// extractToothRecords resolves the patient id and reconciles per-window
// classifications with the chief complaint. A failed lookup short-circuits
// tooth extraction only; the rest of the pipeline result stands.
func (s *Service) extractToothRecords(ctx context.Context, consultationID, transcript string, content record.ProcessedContent) []record.ToothDiagnosisRecord {
	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	patientID, err := s.directory.PatientID(lookupCtx, consultationID)
	if err != nil {
		s.logger.Error("patient lookup failed, skipping tooth extraction", "consultation_id", consultationID, "error", err)
		return []record.ToothDiagnosisRecord{}
	}

	windows := extract.Windows(transcript)
	records := reconcile(consultationID, patientID, windows, content, time.Now().Format("2006-01-02"))

	if s.metrics != nil {
		s.metrics.AddToothRecords(len(records))
	}
	s.logger.Info("tooth records extracted", "consultation_id", consultationID, "windows", len(windows), "records", len(records))
	return records
}
