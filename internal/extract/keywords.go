package extract

import "strings"

// Concept identifies one clinical notion the matcher can test a context
// window against. Surface forms live in conceptKeywords; adding a language
// means adding strings there, not touching classifier logic.
type Concept string

const (
	conceptCaries           Concept = "caries"
	conceptDeep             Concept = "deep"
	conceptModerate         Concept = "moderate"
	conceptIncipient        Concept = "incipient"
	conceptRampant          Concept = "rampant"
	conceptRootCaries       Concept = "root_caries"
	conceptRecurrent        Concept = "recurrent"
	conceptAbscess          Concept = "abscess"
	conceptPulpitis         Concept = "pulpitis"
	conceptIrreversible     Concept = "irreversible"
	conceptReversible       Concept = "reversible"
	conceptNecrosis         Concept = "necrosis"
	conceptFracture         Concept = "fracture"
	conceptRootFracture     Concept = "root_fracture"
	conceptExtraction       Concept = "extraction"
	conceptRootCanal        Concept = "root_canal"
	conceptFilling          Concept = "filling"
	conceptCrown            Concept = "crown"
	conceptMissing          Concept = "missing"
	conceptGingivitis       Concept = "gingivitis"
	conceptPeriodontitis    Concept = "periodontitis"
	conceptAggressive       Concept = "aggressive"
	conceptHypersensitivity Concept = "hypersensitivity"
	conceptPain             Concept = "pain"
	conceptSharp            Concept = "sharp"
	conceptDull             Concept = "dull"
	conceptThrobbing        Concept = "throbbing"
	conceptShooting         Concept = "shooting"
	conceptLingering        Concept = "lingering"
	conceptSpontaneous      Concept = "spontaneous"
	conceptCold             Concept = "cold"
	conceptHot              Concept = "hot"
	conceptSweet            Concept = "sweet"
	conceptChewing          Concept = "chewing"
	conceptSwelling         Concept = "swelling"
	conceptBleeding         Concept = "bleeding"
	conceptSensitive        Concept = "sensitive"
	conceptMobility         Concept = "mobility"
)

// conceptKeywords maps each concept to its surface forms. English terms are
// kept alongside Hindi (Devanagari) equivalents so mixed-language dictation
// matches the same branch. All entries are lower case; windows are lower
// cased before matching.
var conceptKeywords = map[Concept][]string{
	conceptCaries:           {"caries", "cavity", "cavities", "decay", "decayed", "kida", "कैविटी", "सड़न", "कीड़ा"},
	conceptDeep:             {"deep", "गहरा", "गहरी"},
	conceptModerate:         {"moderate", "मध्यम"},
	conceptIncipient:        {"incipient", "early", "initial", "शुरुआती"},
	conceptRampant:          {"rampant", "multiple cavities", "व्यापक"},
	conceptRootCaries:       {"root caries", "root surface caries", "जड़ की सड़न"},
	conceptRecurrent:        {"recurrent", "secondary caries", "दोबारा"},
	conceptAbscess:          {"abscess", "pus", "फोड़ा", "मवाद"},
	conceptPulpitis:         {"pulpitis", "pulp inflammation", "पल्पाइटिस"},
	conceptIrreversible:     {"irreversible", "अपरिवर्तनीय"},
	conceptReversible:       {"reversible", "प्रतिवर्ती"},
	conceptNecrosis:         {"necrosis", "necrotic", "non-vital", "nonvital", "dead tooth", "मृत"},
	conceptFracture:         {"fracture", "fractured", "broken", "chipped", "cracked", "टूटा", "फ्रैक्चर"},
	conceptRootFracture:     {"root fracture", "vertical fracture", "जड़ टूट"},
	conceptExtraction:       {"extract", "extraction", "remove the tooth", "pull the tooth", "pull it out", "निकालना", "निकलवाना"},
	conceptRootCanal:        {"root canal", "rct", "endodontic", "रूट कैनाल"},
	conceptFilling:          {"filling", "filled", "restoration", "restored", "composite", "amalgam", "भराई", "फिलिंग"},
	conceptCrown:            {"crown", "cap", "capped", "कैप", "क्राउन"},
	conceptMissing:          {"missing", "absent", "lost the tooth", "गायब", "गिर गया"},
	conceptGingivitis:       {"gingivitis", "gum inflammation", "inflamed gums", "मसूड़ों की सूजन"},
	conceptPeriodontitis:    {"periodontitis", "periodontal", "bone loss", "पायरिया"},
	conceptAggressive:       {"aggressive", "rapid", "आक्रामक"},
	conceptHypersensitivity: {"hypersensitivity", "hypersensitive", "अतिसंवेदनशील"},
	conceptPain:             {"pain", "ache", "aching", "hurt", "hurts", "hurting", "दर्द", "पीड़ा"},
	conceptSharp:            {"sharp", "stabbing", "तेज", "चुभन"},
	conceptDull:             {"dull", "हल्का"},
	conceptThrobbing:        {"throbbing", "pulsating", "धड़कता", "धड़कन"},
	conceptShooting:         {"shooting", "radiating", "झटके"},
	conceptLingering:        {"lingering", "lasts long", "देर तक"},
	conceptSpontaneous:      {"spontaneous", "without any reason", "अपने आप"},
	conceptCold:             {"cold", "ice water", "ice cream", "ठंडा", "ठंडे"},
	conceptHot:              {"hot", "heat", "warm", "गरम", "गर्म"},
	conceptSweet:            {"sweet", "sugar", "मीठा", "मीठे"},
	conceptChewing:          {"chew", "chewing", "biting", "bite", "चबाने", "काटने"},
	conceptSwelling:         {"swelling", "swollen", "सूजन", "सूजा"},
	conceptBleeding:         {"bleeding", "bleed", "blood", "खून", "रक्त"},
	conceptSensitive:        {"sensitive", "sensitivity", "संवेदनशील", "झनझनाहट"},
	conceptMobility:         {"mobile", "mobility", "loose", "shaking", "हिलता", "हिल रहा"},
}

// containsConcept reports whether any surface form of the concept occurs in
// the window. The window must already be lower cased.
func containsConcept(window string, c Concept) bool {
	for _, kw := range conceptKeywords[c] {
		if strings.Contains(window, kw) {
			return true
		}
	}
	return false
}

// ImpliesCaries reports whether free text (already lower cased) carries
// caries language. The reconciler uses it to pick a status for teeth that
// only appear in the chief complaint.
func ImpliesCaries(text string) bool {
	return containsConcept(text, conceptCaries)
}

// containsAny is the OR of containsConcept over several concepts.
func containsAny(window string, concepts ...Concept) bool {
	for _, c := range concepts {
		if containsConcept(window, c) {
			return true
		}
	}
	return false
}
