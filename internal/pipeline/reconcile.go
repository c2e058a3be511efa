package pipeline

import (
	"regexp"
	"strings"

	"dentascribe/internal/extract"
	"dentascribe/internal/record"
)

var toothNumberRE = regexp.MustCompile(`\b\d{1,2}\b`)

// reconcile merges per-window classifications with tooth mentions implied
// by the chief complaint. Window-derived records come first in insertion
// order; chief-complaint records are appended for teeth not already seen.
// Per tooth the first writer wins, except that a diagnosis-bearing record
// replaces an earlier diagnosis-free one in place. Records with neither a
// diagnosis nor symptoms carry no clinical signal and are dropped.
func reconcile(consultationID, patientID string, windows []extract.Window, content record.ProcessedContent, examDate string) []record.ToothDiagnosisRecord {
	records := []record.ToothDiagnosisRecord{}
	index := map[string]int{}

	for _, w := range windows {
		rec := recordFromWindow(consultationID, patientID, w, examDate)
		if !rec.HasSignal() {
			continue
		}
		if i, ok := index[w.ToothNumber]; ok {
			if records[i].PrimaryDiagnosis == "" && rec.PrimaryDiagnosis != "" {
				records[i] = rec
			}
			continue
		}
		index[w.ToothNumber] = len(records)
		records = append(records, rec)
	}

	for _, tooth := range toothNumberRE.FindAllString(content.ChiefComplaint.LocationDetail, -1) {
		if _, ok := index[tooth]; ok {
			continue
		}
		rec := recordFromChiefComplaint(consultationID, patientID, tooth, content.ChiefComplaint, examDate)
		if !rec.HasSignal() {
			continue
		}
		index[tooth] = len(records)
		records = append(records, rec)
	}

	return records
}

func recordFromWindow(consultationID, patientID string, w extract.Window, examDate string) record.ToothDiagnosisRecord {
	cls := extract.Classify(w.Text)

	notes := record.NoteAutoExtracted
	if cls.PrimaryDiagnosis == "" {
		notes = record.NoteSymptomsOnly
	}

	return record.ToothDiagnosisRecord{
		ConsultationID:       consultationID,
		PatientID:            patientID,
		ToothNumber:          w.ToothNumber,
		Status:               cls.Status,
		PrimaryDiagnosis:     cls.PrimaryDiagnosis,
		DiagnosisDetails:     strings.TrimSpace(w.Text),
		Symptoms:             cls.Symptoms,
		PainCharacteristics:  cls.PainCharacteristics,
		ClinicalFindings:     cls.ClinicalFindings,
		RecommendedTreatment: cls.RecommendedTreatment,
		TreatmentPriority:    cls.TreatmentPriority,
		ExaminationDate:      examDate,
		Notes:                notes,
	}
}

// recordFromChiefComplaint synthesizes a lower-information record for a
// tooth that only appears in the chief complaint's location detail.
func recordFromChiefComplaint(consultationID, patientID, tooth string, cc record.ChiefComplaint, examDate string) record.ToothDiagnosisRecord {
	complaintText := strings.ToLower(cc.PrimaryComplaint + " " + cc.PatientDescription)

	rec := record.ToothDiagnosisRecord{
		ConsultationID:    consultationID,
		PatientID:         patientID,
		ToothNumber:       tooth,
		Status:            record.StatusAttention,
		DiagnosisDetails:  strings.TrimSpace(cc.PatientDescription),
		Symptoms:          append([]string{}, cc.AssociatedSymptoms...),
		TreatmentPriority: record.PriorityHigh,
		ExaminationDate:   examDate,
		Notes:             record.NoteSymptomsOnly,
	}

	if extract.ImpliesCaries(complaintText) {
		rec.Status = record.StatusCaries
		rec.PrimaryDiagnosis = "Dental Caries"
		rec.TreatmentPriority = record.PriorityMedium
		rec.Notes = record.NoteAutoExtracted
	} else if len(rec.Symptoms) > 0 {
		rec.RecommendedTreatment = "Further investigation required"
	}

	return rec
}
