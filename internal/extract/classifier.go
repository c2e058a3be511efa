package extract

import (
	"strings"

	"dentascribe/internal/record"
)

// Classification is the outcome of running the decision tree over one
// context window. PrimaryDiagnosis stays empty when only symptoms were
// found; the classifier never guesses a diagnosis from symptoms alone.
type Classification struct {
	Status               record.ToothStatus
	PrimaryDiagnosis     string
	Symptoms             []string
	PainCharacteristics  *record.PainCharacteristics
	ClinicalFindings     string
	RecommendedTreatment string
	TreatmentPriority    record.TreatmentPriority
}

// diagnosisRule pairs a trigger concept with the branch that resolves the
// final (diagnosis, treatment, priority) triple. Rules are evaluated in
// table order and the first hit wins, so this slice is the single source
// of truth for precedence.
type diagnosisRule struct {
	concept Concept
	resolve func(window string, c *Classification)
}

// Overlapping keywords make the order below (caries before abscess before
// pulpitis, and so on) outcome-determining; do not rearrange without
// clinical review.
var diagnosisRules = []diagnosisRule{
	{conceptCaries, resolveCaries},
	{conceptAbscess, func(_ string, c *Classification) {
		c.set(record.StatusAttention, "Apical Abscess", "Root Canal Treatment", record.PriorityUrgent)
	}},
	{conceptPulpitis, resolvePulpitis},
	{conceptNecrosis, func(_ string, c *Classification) {
		c.set(record.StatusAttention, "Pulp Necrosis", "Root Canal Treatment", record.PriorityUrgent)
	}},
	{conceptFracture, resolveFracture},
	{conceptExtraction, func(_ string, c *Classification) {
		c.set(record.StatusExtractionNeeded, "Non-restorable Tooth", "Extraction", record.PriorityHigh)
	}},
	{conceptRootCanal, func(_ string, c *Classification) {
		c.set(record.StatusRootCanal, "Pulpal Involvement", "Root Canal Treatment", record.PriorityHigh)
	}},
	{conceptFilling, func(_ string, c *Classification) {
		c.set(record.StatusFilled, "Existing Restoration", "", record.PriorityRoutine)
	}},
	{conceptCrown, func(_ string, c *Classification) {
		c.set(record.StatusCrown, "Crowned Tooth", "", record.PriorityRoutine)
	}},
	{conceptMissing, func(_ string, c *Classification) {
		c.set(record.StatusMissing, "Missing Tooth", "Prosthetic Evaluation", record.PriorityRoutine)
	}},
	{conceptGingivitis, func(_ string, c *Classification) {
		c.set(record.StatusAttention, "Gingivitis", "Scaling & Root Planing", record.PriorityMedium)
	}},
	{conceptPeriodontitis, func(window string, c *Classification) {
		diagnosis := "Chronic Periodontitis"
		if containsConcept(window, conceptAggressive) {
			diagnosis = "Aggressive Periodontitis"
		}
		c.set(record.StatusAttention, diagnosis, "Scaling & Root Planing", record.PriorityHigh)
	}},
	{conceptHypersensitivity, func(_ string, c *Classification) {
		c.set(record.StatusAttention, "Dentin Hypersensitivity", "Desensitizing Agent Application", record.PriorityMedium)
	}},
}

// Classify runs the decision tree over one lower-cased context window.
// Symptom extraction always runs, regardless of which diagnosis branch
// matched: symptoms are not mutually exclusive with a diagnosis.
func Classify(window string) Classification {
	c := Classification{
		Status:            record.StatusAttention,
		Symptoms:          []string{},
		TreatmentPriority: record.PriorityRoutine,
	}
	c.Symptoms, c.PainCharacteristics = collectSymptoms(window)
	c.ClinicalFindings = collectFindings(window)

	for _, rule := range diagnosisRules {
		if containsConcept(window, rule.concept) {
			rule.resolve(window, &c)
			return c
		}
	}

	// Symptom-only window: flag for follow-up but leave the diagnosis to a
	// clinician.
	if containsAny(window, conceptPain, conceptSensitive) {
		c.RecommendedTreatment = "Further investigation required"
		c.TreatmentPriority = record.PriorityHigh
	}
	return c
}

func (c *Classification) set(status record.ToothStatus, diagnosis, treatment string, priority record.TreatmentPriority) {
	c.Status = status
	c.PrimaryDiagnosis = diagnosis
	c.RecommendedTreatment = treatment
	c.TreatmentPriority = priority
}

// resolveCaries disambiguates caries severity: deep > moderate >
// incipient > rampant > root > recurrent, defaulting to moderate.
func resolveCaries(window string, c *Classification) {
	switch {
	case containsConcept(window, conceptDeep):
		c.set(record.StatusCaries, "Deep Caries", "Root Canal Treatment", record.PriorityHigh)
	case containsConcept(window, conceptModerate):
		c.set(record.StatusCaries, "Moderate Caries", "Composite Filling", record.PriorityMedium)
	case containsConcept(window, conceptIncipient):
		c.set(record.StatusCaries, "Incipient Caries", "Fluoride Application", record.PriorityLow)
	case containsConcept(window, conceptRampant):
		c.set(record.StatusCaries, "Rampant Caries", "Multiple restorations required", record.PriorityUrgent)
	case containsConcept(window, conceptRootCaries):
		c.set(record.StatusCaries, "Root Caries", "Glass Ionomer Restoration", record.PriorityMedium)
	case containsConcept(window, conceptRecurrent):
		c.set(record.StatusCaries, "Recurrent Caries", "Replacement Restoration", record.PriorityMedium)
	default:
		c.set(record.StatusCaries, "Moderate Caries", "Composite Filling", record.PriorityMedium)
	}
}

// resolvePulpitis checks irreversible before reversible: "irreversible"
// contains "reversible" as a substring, so the order matters.
func resolvePulpitis(window string, c *Classification) {
	switch {
	case containsConcept(window, conceptIrreversible):
		c.set(record.StatusAttention, "Irreversible Pulpitis", "Root Canal Treatment", record.PriorityHigh)
	case containsConcept(window, conceptReversible):
		c.set(record.StatusAttention, "Reversible Pulpitis", "Pulp Capping", record.PriorityMedium)
	default:
		c.set(record.StatusAttention, "Irreversible Pulpitis", "Root Canal Treatment", record.PriorityHigh)
	}
}

func resolveFracture(window string, c *Classification) {
	if containsConcept(window, conceptRootFracture) {
		c.set(record.StatusExtractionNeeded, "Root Fracture", "Extraction", record.PriorityHigh)
		return
	}
	c.set(record.StatusAttention, "Crown Fracture (Enamel-Dentin)", "Full Crown (Zirconia) or Composite Filling", record.PriorityHigh)
}

// symptomLabels maps matcher concepts to the canonical symptom strings
// stored on records, evaluated in this order.
var symptomLabels = []struct {
	concept Concept
	label   string
}{
	{conceptSharp, "Sharp pain"},
	{conceptDull, "Dull pain"},
	{conceptThrobbing, "Throbbing pain"},
	{conceptShooting, "Shooting pain"},
	{conceptLingering, "Lingering pain"},
	{conceptSpontaneous, "Spontaneous pain"},
	{conceptCold, "Cold sensitivity"},
	{conceptHot, "Heat sensitivity"},
	{conceptSweet, "Sweet sensitivity"},
	{conceptChewing, "Pain on chewing"},
	{conceptPain, "Pain"},
	{conceptSensitive, "Sensitivity"},
	{conceptSwelling, "Swelling"},
	{conceptBleeding, "Bleeding"},
	{conceptMobility, "Tooth mobility"},
}

var painTriggers = []struct {
	concept Concept
	label   string
}{
	{conceptCold, "cold"},
	{conceptHot, "heat"},
	{conceptSweet, "sweet"},
	{conceptChewing, "chewing"},
}

func collectSymptoms(window string) ([]string, *record.PainCharacteristics) {
	symptoms := []string{}
	seen := map[string]bool{}
	for _, s := range symptomLabels {
		if !containsConcept(window, s.concept) || seen[s.label] {
			continue
		}
		seen[s.label] = true
		symptoms = append(symptoms, s.label)
	}

	pain := record.PainCharacteristics{}
	for _, q := range []struct {
		concept Concept
		label   string
	}{{conceptSharp, "sharp"}, {conceptDull, "dull"}, {conceptThrobbing, "throbbing"}} {
		if containsConcept(window, q.concept) {
			pain.Quality = q.label
			break
		}
	}
	for _, t := range painTriggers {
		if containsConcept(window, t.concept) {
			pain.Triggers = append(pain.Triggers, t.label)
		}
	}
	switch {
	case containsConcept(window, conceptLingering):
		pain.Duration = "lingering"
	case containsConcept(window, conceptSpontaneous):
		pain.Duration = "spontaneous"
	}

	if pain.Quality == "" && len(pain.Triggers) == 0 && pain.Duration == "" {
		return symptoms, nil
	}
	return symptoms, &pain
}

func collectFindings(window string) string {
	var findings []string
	if containsConcept(window, conceptSwelling) {
		findings = append(findings, "swelling present")
	}
	if containsConcept(window, conceptBleeding) {
		findings = append(findings, "bleeding noted")
	}
	if containsConcept(window, conceptMobility) {
		findings = append(findings, "tooth mobility noted")
	}
	return strings.Join(findings, "; ")
}
