package workflow

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// The outer request handler may prepend earlier turns to the utterance as
// "이전 대화: … 현재 질문: …". The engine strips that wrapper, mines the
// prior turns for slot-shaped facts and folds them back into the current
// question when it lacks them.

const (
	priorContextMarker  = "이전 대화:"
	currentQuestionMark = "현재 질문:"
)

type priorInfo struct {
	productName string
	country     string
	price       string
	quantity    string
}

var (
	ctxProductPatterns = []*regexp.Regexp{
		regexp.MustCompile(`상품명[:\s]*([^\n]+)`),
		regexp.MustCompile(`상품[:\s]*([^\n]+)`),
		regexp.MustCompile(`([가-힣a-zA-Z0-9\s]{3,}?)(?:을|를|이|가)\s*(?:샀|구매|구입)`),
	}
	ctxCountryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`국가[:\s]*([^\n]+)`),
		regexp.MustCompile(`([가-힣]{2,4})에서`),
	}
	ctxPricePatterns = []*regexp.Regexp{
		regexp.MustCompile(`가격[:\s]*([^\n]+)`),
		regexp.MustCompile(`(\d[\d,]*)\s*(?:원|달러|엔|위안|유로)`),
	}
	ctxQuantityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`수량[:\s]*(\d+)`),
		regexp.MustCompile(`(\d+)\s*개`),
	}
	digitPattern = regexp.MustCompile(`\d`)
)

// splitPriorContext separates a wrapped utterance into its prior-context part
// and the current question. Unwrapped utterances come back unchanged with an
// empty context.
func splitPriorContext(utterance string) (context, current string) {
	if !strings.Contains(utterance, priorContextMarker) {
		return "", utterance
	}
	rest := strings.Replace(utterance, priorContextMarker, "", 1)
	if idx := strings.Index(rest, currentQuestionMark); idx >= 0 {
		context = strings.TrimSpace(rest[:idx])
		current = strings.TrimSpace(rest[idx+len(currentQuestionMark):])
		return context, current
	}
	return strings.TrimSpace(rest), utterance
}

// extractPriorInfo mines the prior turns for slot-shaped facts.
func extractPriorInfo(context string) priorInfo {
	var info priorInfo
	for _, re := range ctxProductPatterns {
		if m := re.FindStringSubmatch(context); m != nil {
			name := strings.TrimSpace(m[1])
			if utf8.RuneCountInString(name) >= 3 {
				info.productName = name
				break
			}
		}
	}
	for _, re := range ctxCountryPatterns {
		if m := re.FindStringSubmatch(context); m != nil {
			country := strings.TrimSpace(m[1])
			if utf8.RuneCountInString(country) >= 2 {
				info.country = country
				break
			}
		}
	}
	for _, re := range ctxPricePatterns {
		if m := re.FindStringSubmatch(context); m != nil {
			info.price = strings.TrimSpace(m[1])
			break
		}
	}
	for _, re := range ctxQuantityPatterns {
		if m := re.FindStringSubmatch(context); m != nil {
			info.quantity = strings.TrimSpace(m[1])
			break
		}
	}
	return info
}

// mergeWithCurrent rebuilds an utterance that carries the prior facts the
// current question is missing, so the slot extractor sees one complete
// sentence.
func mergeWithCurrent(info priorInfo, current string) string {
	merged := current
	if info.productName != "" && !strings.Contains(strings.ToLower(current), "상품") {
		merged = info.productName + " " + merged
	}
	if info.country != "" && !strings.Contains(current, "에서") {
		merged = info.country + "에서 " + merged
	}
	if info.price != "" && !digitPattern.MatchString(current) {
		merged = merged + " " + info.price
	}
	if info.quantity != "" && !strings.Contains(current, "개") {
		merged = merged + " " + info.quantity + "개"
	}
	return merged
}

// josaEuro appends the 으로/로 instrumental particle: words ending in an open
// syllable take 로, the rest take 으로.
func josaEuro(word string) string {
	if word == "" {
		return ""
	}
	last, _ := utf8.DecodeLastRuneInString(word)
	if last < 0xAC00 || last > 0xD7A3 {
		return word + "으로"
	}
	if (last-0xAC00)%28 == 0 {
		return word + "로"
	}
	return word + "으로"
}
