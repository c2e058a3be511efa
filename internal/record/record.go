// Package record defines the structured clinical records produced by the
// extraction pipeline. Sections are explicit typed structs with optional
// fields; slice fields are kept non-nil so absent data marshals as empty
// containers rather than null.
package record

import "time"

type ToothStatus string

const (
	StatusHealthy          ToothStatus = "healthy"
	StatusCaries           ToothStatus = "caries"
	StatusAttention        ToothStatus = "attention"
	StatusExtractionNeeded ToothStatus = "extraction_needed"
	StatusRootCanal        ToothStatus = "root_canal"
	StatusFilled           ToothStatus = "filled"
	StatusCrown            ToothStatus = "crown"
	StatusMissing          ToothStatus = "missing"
)

type TreatmentPriority string

const (
	PriorityUrgent  TreatmentPriority = "urgent"
	PriorityHigh    TreatmentPriority = "high"
	PriorityMedium  TreatmentPriority = "medium"
	PriorityLow     TreatmentPriority = "low"
	PriorityRoutine TreatmentPriority = "routine"
)

// Provenance markers stored in ToothDiagnosisRecord.Notes.
const (
	NoteAutoExtracted = "auto-extracted"
	NoteSymptomsOnly  = "symptoms only, awaiting diagnosis"
)

type ChiefComplaint struct {
	PrimaryComplaint   string   `json:"primary_complaint"`
	PatientDescription string   `json:"patient_description"`
	LocationDetail     string   `json:"location_detail"`
	AssociatedSymptoms []string `json:"associated_symptoms"`
	Duration           string   `json:"duration"`
	Severity           string   `json:"severity"`
}

type HistoryOfPresentIllness struct {
	Onset              string   `json:"onset"`
	Duration           string   `json:"duration"`
	Progression        string   `json:"progression"`
	AggravatingFactors []string `json:"aggravating_factors"`
	RelievingFactors   []string `json:"relieving_factors"`
}

type MedicalHistory struct {
	Conditions  []string `json:"conditions"`
	Medications []string `json:"medications"`
	Allergies   []string `json:"allergies"`
}

type PersonalHistory struct {
	Habits      []string `json:"habits"`
	OralHygiene string   `json:"oral_hygiene"`
}

type ClinicalExamination struct {
	Findings      string   `json:"findings"`
	TeethInvolved []string `json:"teeth_involved"`
}

type Investigations struct {
	Tests    []string `json:"tests"`
	Findings string   `json:"findings"`
}

type DiagnosisSection struct {
	Provisional  string   `json:"provisional"`
	Differential []string `json:"differential"`
}

type TreatmentPlan struct {
	Procedures []string `json:"procedures"`
	Notes      string   `json:"notes"`
}

type ProcessedContent struct {
	ChiefComplaint      ChiefComplaint          `json:"chiefComplaint"`
	HOPI                HistoryOfPresentIllness `json:"historyOfPresentIllness"`
	MedicalHistory      MedicalHistory          `json:"medicalHistory"`
	PersonalHistory     PersonalHistory         `json:"personalHistory"`
	ClinicalExamination ClinicalExamination     `json:"clinicalExamination"`
	Investigations      Investigations          `json:"investigations"`
	Diagnosis           DiagnosisSection        `json:"diagnosis"`
	TreatmentPlan       TreatmentPlan           `json:"treatmentPlan"`
	Confidence          int                     `json:"confidence"`
	AutoExtracted       bool                    `json:"auto_extracted"`
	ExtractionTimestamp time.Time               `json:"extraction_timestamp"`
}

// NewProcessedContent returns a ProcessedContent with every slice field
// initialised, so downstream merging and JSON encoding never see nil.
func NewProcessedContent() ProcessedContent {
	return ProcessedContent{
		ChiefComplaint:      ChiefComplaint{AssociatedSymptoms: []string{}},
		HOPI:                HistoryOfPresentIllness{AggravatingFactors: []string{}, RelievingFactors: []string{}},
		MedicalHistory:      MedicalHistory{Conditions: []string{}, Medications: []string{}, Allergies: []string{}},
		PersonalHistory:     PersonalHistory{Habits: []string{}},
		ClinicalExamination: ClinicalExamination{TeethInvolved: []string{}},
		Investigations:      Investigations{Tests: []string{}},
		Diagnosis:           DiagnosisSection{Differential: []string{}},
		TreatmentPlan:       TreatmentPlan{Procedures: []string{}},
	}
}

type PainCharacteristics struct {
	Quality  string   `json:"quality,omitempty"`
	Triggers []string `json:"triggers,omitempty"`
	Duration string   `json:"duration,omitempty"`
}

type ToothDiagnosisRecord struct {
	ConsultationID       string               `json:"consultationId"`
	PatientID            string               `json:"patientId"`
	ToothNumber          string               `json:"toothNumber"`
	Status               ToothStatus          `json:"status"`
	PrimaryDiagnosis     string               `json:"primaryDiagnosis,omitempty"`
	DiagnosisDetails     string               `json:"diagnosisDetails"`
	Symptoms             []string             `json:"symptoms"`
	PainCharacteristics  *PainCharacteristics `json:"painCharacteristics,omitempty"`
	ClinicalFindings     string               `json:"clinicalFindings,omitempty"`
	RecommendedTreatment string               `json:"recommendedTreatment,omitempty"`
	TreatmentPriority    TreatmentPriority    `json:"treatmentPriority"`
	ExaminationDate      string               `json:"examinationDate"`
	Notes                string               `json:"notes"`
}

// HasSignal reports whether the record carries any clinical signal. Records
// with neither a diagnosis nor symptoms are discarded by the reconciler.
func (r ToothDiagnosisRecord) HasSignal() bool {
	return r.PrimaryDiagnosis != "" || len(r.Symptoms) > 0
}
