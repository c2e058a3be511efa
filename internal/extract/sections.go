package extract

import (
	"fmt"
	"regexp"
	"strings"

	"dentascribe/internal/record"
)

// Section extractors are the last-resort keyword tier: anchor-and-window
// scans that populate consultation-level sections from free text. They are
// intentionally low precision, never fail, and return zero-value sections
// (with non-nil slices) when no anchor is present. All take an already
// lower-cased transcript.

var (
	durationRE = regexp.MustCompile(`(\d+)\s*(day|week|month|year)s?`)
	allergicRE = regexp.MustCompile(`allergic to ([a-z]+)`)
	takingRE   = regexp.MustCompile(`taking ([a-z]+)`)
)

// anchorIndex returns the position of the earliest occurrence of any
// anchor, or -1.
func anchorIndex(text string, anchors ...string) int {
	best := -1
	for _, a := range anchors {
		if i := strings.Index(text, a); i >= 0 && (best == -1 || i < best) {
			best = i
		}
	}
	return best
}

// excerpt takes a clamped window around idx.
func excerpt(text string, idx, before, after int) string {
	start := idx - before
	if start < 0 {
		start = 0
	}
	end := idx + after
	if end > len(text) {
		end = len(text)
	}
	return strings.TrimSpace(text[start:end])
}

func ExtractChiefComplaint(text string) record.ChiefComplaint {
	cc := record.ChiefComplaint{AssociatedSymptoms: []string{}}
	idx := anchorIndex(text, "chief complaint", "complain", "problem", "came with", "presented with", "pain", "दर्द")
	if idx < 0 {
		return cc
	}
	window := excerpt(text, idx, 20, 130)

	switch {
	case containsConcept(window, conceptSwelling):
		cc.PrimaryComplaint = "Swelling"
	case containsConcept(window, conceptBleeding):
		cc.PrimaryComplaint = "Bleeding gums"
	case containsConcept(window, conceptFracture):
		cc.PrimaryComplaint = "Broken tooth"
	case containsConcept(window, conceptCaries):
		cc.PrimaryComplaint = "Tooth decay"
	case containsConcept(window, conceptPain):
		cc.PrimaryComplaint = "Toothache"
	case containsConcept(window, conceptSensitive):
		cc.PrimaryComplaint = "Tooth sensitivity"
	default:
		cc.PrimaryComplaint = "Dental complaint"
	}
	cc.PatientDescription = window
	cc.LocationDetail = locationDetail(window)
	cc.AssociatedSymptoms, _ = collectSymptoms(window)
	if m := durationRE.FindStringSubmatch(window); m != nil {
		cc.Duration = fmt.Sprintf("%s %s(s)", m[1], m[2])
	}
	for _, sev := range []string{"severe", "moderate", "mild"} {
		if strings.Contains(window, sev) {
			cc.Severity = sev
			break
		}
	}
	return cc
}

// locationDetail gathers tooth mentions plus quadrant/side words from the
// window so the reconciler can pick up teeth the classifier pass missed.
func locationDetail(window string) string {
	var parts []string
	for _, m := range toothMentionRE.FindAllString(window, -1) {
		parts = append(parts, strings.TrimSpace(m))
	}
	for _, side := range []string{"upper", "lower", "left", "right", "front", "back"} {
		if strings.Contains(window, side) {
			parts = append(parts, side)
		}
	}
	return strings.Join(parts, ", ")
}

func ExtractHOPI(text string) record.HistoryOfPresentIllness {
	h := record.HistoryOfPresentIllness{AggravatingFactors: []string{}, RelievingFactors: []string{}}
	idx := anchorIndex(text, "started", "since", "began", "for the past", "for the last")
	if idx < 0 {
		return h
	}
	window := excerpt(text, idx, 30, 120)

	if m := durationRE.FindStringSubmatch(window); m != nil {
		h.Onset = fmt.Sprintf("%s %s(s) ago", m[1], m[2])
		h.Duration = fmt.Sprintf("%s %s(s)", m[1], m[2])
	}
	switch {
	case strings.Contains(window, "worse") || strings.Contains(window, "worsening") || strings.Contains(window, "increas"):
		h.Progression = "worsening"
	case strings.Contains(window, "better") || strings.Contains(window, "improv"):
		h.Progression = "improving"
	case strings.Contains(window, "same"):
		h.Progression = "static"
	}
	for _, t := range painTriggers {
		if containsConcept(window, t.concept) {
			h.AggravatingFactors = append(h.AggravatingFactors, t.label)
		}
	}
	if strings.Contains(window, "painkiller") || strings.Contains(window, "medicine") || strings.Contains(window, "analgesic") {
		h.RelievingFactors = append(h.RelievingFactors, "analgesics")
	}
	if strings.Contains(window, "cold water") {
		h.RelievingFactors = append(h.RelievingFactors, "cold water")
	}
	return h
}

var medicalConditions = []struct {
	keywords []string
	label    string
}{
	{[]string{"diabetes", "diabetic", "मधुमेह"}, "Diabetes"},
	{[]string{"hypertension", "blood pressure", "रक्तचाप"}, "Hypertension"},
	{[]string{"asthma", "दमा"}, "Asthma"},
	{[]string{"thyroid"}, "Thyroid disorder"},
	{[]string{"cardiac", "heart"}, "Cardiac condition"},
	{[]string{"epilepsy", "seizure"}, "Epilepsy"},
}

func ExtractMedicalHistory(text string) record.MedicalHistory {
	m := record.MedicalHistory{Conditions: []string{}, Medications: []string{}, Allergies: []string{}}
	idx := anchorIndex(text, "medical history", "diabet", "hypertension", "blood pressure", "asthma", "thyroid", "cardiac", "allerg", "taking")
	if idx < 0 {
		return m
	}
	window := excerpt(text, idx, 40, 140)

	for _, cond := range medicalConditions {
		for _, kw := range cond.keywords {
			if strings.Contains(window, kw) {
				m.Conditions = append(m.Conditions, cond.label)
				break
			}
		}
	}
	for _, match := range allergicRE.FindAllStringSubmatch(window, -1) {
		m.Allergies = append(m.Allergies, match[1])
	}
	for _, match := range takingRE.FindAllStringSubmatch(window, -1) {
		m.Medications = append(m.Medications, match[1])
	}
	return m
}

func ExtractPersonalHistory(text string) record.PersonalHistory {
	p := record.PersonalHistory{Habits: []string{}}
	idx := anchorIndex(text, "smok", "tobacco", "alcohol", "gutka", "pan masala", "brush")
	if idx < 0 {
		return p
	}
	window := excerpt(text, idx, 40, 120)

	if strings.Contains(window, "smok") {
		p.Habits = append(p.Habits, "smoking")
	}
	if strings.Contains(window, "tobacco") || strings.Contains(window, "gutka") || strings.Contains(window, "pan masala") {
		p.Habits = append(p.Habits, "tobacco chewing")
	}
	if strings.Contains(window, "alcohol") {
		p.Habits = append(p.Habits, "alcohol")
	}
	if strings.Contains(window, "brush") {
		switch {
		case strings.Contains(window, "twice"):
			p.OralHygiene = "brushes twice daily"
		case strings.Contains(window, "once"):
			p.OralHygiene = "brushes once daily"
		default:
			p.OralHygiene = "brushing reported"
		}
	}
	return p
}

func ExtractClinicalExamination(text string) record.ClinicalExamination {
	e := record.ClinicalExamination{TeethInvolved: []string{}}
	idx := anchorIndex(text, "on examination", "examination reveals", "clinically", "intraoral", "intra-oral", "extraoral", "extra-oral")
	if idx < 0 {
		return e
	}
	window := excerpt(text, idx, 10, 150)

	e.Findings = window
	for _, m := range toothMentionRE.FindAllStringSubmatch(window, -1) {
		e.TeethInvolved = append(e.TeethInvolved, m[1])
	}
	return e
}

var investigationTests = []struct {
	keywords []string
	label    string
}{
	{[]string{"iopa"}, "IOPA"},
	{[]string{"opg"}, "OPG"},
	{[]string{"cbct"}, "CBCT"},
	{[]string{"x-ray", "xray", "radiograph"}, "X-ray"},
	{[]string{"vitality test", "pulp test"}, "Pulp vitality test"},
	{[]string{"percussion"}, "Percussion test"},
}

func ExtractInvestigations(text string) record.Investigations {
	inv := record.Investigations{Tests: []string{}}
	idx := anchorIndex(text, "x-ray", "xray", "radiograph", "iopa", "opg", "cbct", "vitality test", "pulp test", "percussion")
	if idx < 0 {
		return inv
	}
	window := excerpt(text, idx, 40, 120)

	for _, test := range investigationTests {
		for _, kw := range test.keywords {
			if strings.Contains(window, kw) {
				inv.Tests = append(inv.Tests, test.label)
				break
			}
		}
	}
	inv.Findings = window
	return inv
}

func ExtractDiagnosis(text string) record.DiagnosisSection {
	d := record.DiagnosisSection{Differential: []string{}}
	idx := anchorIndex(text, "diagnosis", "diagnosed", "appears to be", "consistent with", "suggestive of")
	if idx < 0 {
		return d
	}
	d.Provisional = excerpt(text, idx, 10, 130)
	return d
}

var treatmentProcedures = []struct {
	keywords []string
	label    string
}{
	{[]string{"root canal", "rct", "endodontic"}, "Root Canal Treatment"},
	{[]string{"extract"}, "Extraction"},
	{[]string{"filling", "composite", "restoration"}, "Composite Filling"},
	{[]string{"scaling", "cleaning"}, "Scaling & Polishing"},
	{[]string{"crown", "cap"}, "Crown Placement"},
	{[]string{"fluoride"}, "Fluoride Application"},
}

func ExtractTreatmentPlan(text string) record.TreatmentPlan {
	tp := record.TreatmentPlan{Procedures: []string{}}
	idx := anchorIndex(text, "treatment plan", "plan is", "advised", "recommend", "will need", "schedule")
	if idx < 0 {
		return tp
	}
	window := excerpt(text, idx, 20, 150)

	for _, proc := range treatmentProcedures {
		for _, kw := range proc.keywords {
			if strings.Contains(window, kw) {
				tp.Procedures = append(tp.Procedures, proc.label)
				break
			}
		}
	}
	tp.Notes = window
	return tp
}
