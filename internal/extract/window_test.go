package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowsRecognizesMentionVariants(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       []string
	}{
		{"tooth word", "Patient has tooth 44 deep caries", []string{"44"}},
		{"tooth number word", "Problem in tooth number 16 today", []string{"16"}},
		{"hash shorthand", "Decay visible on #36 distal", []string{"36"}},
		{"tooth hash", "tooth #21 is fractured", []string{"21"}},
		{"number word", "pain in number 12 since last week", []string{"12"}},
		{"multiple mentions", "tooth 44 caries and tooth 46 abscess", []string{"44", "46"}},
		{"repeated tooth kept", "tooth 44 caries, again tooth 44 hurts", []string{"44", "44"}},
		{"no mention", "patient reports generalized soreness", nil},
		{"three digits not a tooth", "reference code 123 on file", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows := Windows(tt.transcript)
			var got []string
			for _, w := range windows {
				got = append(got, w.ToothNumber)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWindowsTextIsLowerCasedAndClamped(t *testing.T) {
	windows := Windows("Tooth 44 has DEEP CARIES")
	require.Len(t, windows, 1)
	assert.Equal(t, "tooth 44 has deep caries", windows[0].Text)
}

func TestWindowsBoundsAroundLongTranscript(t *testing.T) {
	prefix := strings.Repeat("a", 300)
	suffix := strings.Repeat("b", 300)
	windows := Windows(prefix + " tooth 18 hurts " + suffix)
	require.Len(t, windows, 1)

	// 100 chars either side of the match span, no more.
	assert.LessOrEqual(t, len(windows[0].Text), len(" tooth 18 hurts ")+200)
	assert.Contains(t, windows[0].Text, "tooth 18 hurts")
}
