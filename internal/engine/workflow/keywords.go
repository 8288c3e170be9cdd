package workflow

import (
	"strings"

	"github.com/customsbot-poc/server/internal/engine/model"
)

var terminationKeywords = []string{"중단", "그만", "취소", "종료"}

var correctionKeywords = []string{"수정", "잘못", "다시", "틀렸"}

var offTopicKeywords = []string{
	"날씨", "음식", "영화", "음악", "운동", "취미", "가족", "친구",
	"일", "학교", "공부", "시험", "여행", "휴가", "주말", "주중",
	"아침", "점심", "저녁", "잠", "병원", "약", "건강",
}

// tariffContextKeywords veto the off-topic check: an utterance mentioning any
// of these stays in scope even when a drift keyword also matched.
var tariffContextKeywords = []string{
	"관세", "세금", "통관", "hs", "코드", "가격", "원", "달러", "엔", "유로",
}

// simpleTariffRequests are bare "just calculate my duty" phrases that carry
// no product information at all.
var simpleTariffRequests = []string{
	"관세 계산해줘", "관세 예측해줘", "관세 계산", "관세 예측",
	"세금 계산해줘", "세금 예측해줘",
}

func isTermination(utterance string) bool {
	return containsAny(utterance, terminationKeywords)
}

func isCorrection(utterance string) bool {
	return containsAny(utterance, correctionKeywords)
}

func isOffTopic(utterance string) bool {
	return containsAny(strings.ToLower(utterance), offTopicKeywords)
}

func hasTariffContext(utterance string) bool {
	return containsAny(strings.ToLower(utterance), tariffContextKeywords)
}

func isSimpleTariffRequest(utterance string) bool {
	trimmed := strings.TrimSpace(utterance)
	for _, phrase := range simpleTariffRequests {
		if trimmed == phrase {
			return true
		}
	}
	return false
}

// scenarioFromKeywords resolves the purchase channel from characteristic
// words; empty when nothing matches and the oracle should judge instead.
func scenarioFromKeywords(utterance string) model.Scenario {
	lowered := strings.ToLower(utterance)
	switch {
	case containsAny(lowered, []string{"여행", "직접", "휴대", "체류"}):
		return model.ScenarioPurchasedAbroad
	case containsAny(lowered, []string{"온라인", "쇼핑", "직구"}):
		return model.ScenarioOverseasDirect
	case containsAny(lowered, []string{"배송", "택배", "운송"}):
		return model.ScenarioShippedFromAbroad
	}
	return ""
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
