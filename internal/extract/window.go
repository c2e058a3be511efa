// Package extract implements the deterministic keyword tier of the
// transcript pipeline: tooth context windows, the multilingual concept
// table, the clinical decision tree, and the consultation-level section
// extractors. Everything here is a pure function over the transcript text.
package extract

import (
	"regexp"
	"strings"
)

// toothMentionRE recognises "tooth 44", "tooth number 44", "tooth #44",
// "#44" and "number 44" with a 1-2 digit capture.
var toothMentionRE = regexp.MustCompile(`(?i)(?:tooth\s*(?:number\s*|#\s*)?|#\s*|\bnumber\s+)(\d{1,2})\b`)

const windowRadius = 100

// Window is one classification unit: a tooth number and the lower-cased
// text surrounding its mention.
type Window struct {
	ToothNumber string
	Text        string
}

// Windows returns one Window per tooth mention, in transcript order.
// Repeated mentions of the same tooth yield repeated windows on purpose;
// each is classified independently and the reconciler merges them later.
func Windows(transcript string) []Window {
	matches := toothMentionRE.FindAllStringSubmatchIndex(transcript, -1)
	if len(matches) == 0 {
		return nil
	}
	windows := make([]Window, 0, len(matches))
	for _, m := range matches {
		start := m[0] - windowRadius
		if start < 0 {
			start = 0
		}
		end := m[1] + windowRadius
		if end > len(transcript) {
			end = len(transcript)
		}
		windows = append(windows, Window{
			ToothNumber: transcript[m[2]:m[3]],
			Text:        strings.ToLower(transcript[start:end]),
		})
	}
	return windows
}
