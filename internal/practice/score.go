// Package practice scores a spoken practice attempt against a lesson phrase.
package practice

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PassThreshold is the minimum accuracy, in percent, of a passing attempt.
const PassThreshold = 70

type WordResult struct {
	Expected string `json:"expected"`
	Heard    string `json:"heard"`
	Correct  bool   `json:"correct"`
}

type Result struct {
	Accuracy int          `json:"accuracy"`
	Words    []WordResult `json:"words"`
	Passed   bool         `json:"passed"`
}

// Score compares transcript to target word by word, position for position.
// Case, punctuation and accents are ignored. Extra trailing words in the
// transcript do not count against the attempt.
func Score(target, transcript string) Result {
	want, display := words(target)
	got, _ := words(transcript)

	res := Result{Words: make([]WordResult, 0, len(want))}
	if len(want) == 0 {
		return res
	}

	correct := 0
	for i, w := range want {
		wr := WordResult{Expected: display[i]}
		if i < len(got) {
			wr.Heard = got[i]
			wr.Correct = got[i] == w
		}
		if wr.Correct {
			correct++
		}
		res.Words = append(res.Words, wr)
	}

	res.Accuracy = int(math.Floor(float64(correct)/float64(len(want))*100 + 0.5))
	res.Passed = res.Accuracy >= PassThreshold
	return res
}

// words splits s into folded words for comparison, alongside the original
// words with surrounding punctuation removed. Punctuation-only tokens are dropped.
func words(s string) (folded, display []string) {
	for _, raw := range strings.Fields(s) {
		w := strings.TrimFunc(raw, notWordRune)
		if w == "" {
			continue
		}
		folded = append(folded, fold(w))
		display = append(display, w)
	}
	return folded, display
}

func notWordRune(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}
