package prompts

import (
	_ "embed"
	"strings"
)

//go:embed template/extract_slots.txt
var extractSlotsTemplate string

//go:embed template/detect_scenario.txt
var detectScenarioTemplate string

//go:embed template/correction_intent.txt
var correctionIntentTemplate string

//go:embed template/classify_codes.txt
var classifyCodesTemplate string

//go:embed template/reclassify_codes.txt
var reclassifyCodesTemplate string

// Known tokens are replaced individually so JSON braces inside the templates
// survive rendering untouched.

// ExtractSlots renders the structured slot-extraction instruction.
func ExtractSlots(utterance string) string {
	return strings.NewReplacer("{user_input}", utterance).Replace(extractSlotsTemplate)
}

// DetectScenario renders the purchase-channel judgment prompt.
func DetectScenario(utterance string) string {
	return strings.NewReplacer("{user_input}", utterance).Replace(detectScenarioTemplate)
}

// CorrectionIntent renders the "is this a reclassification request" prompt.
func CorrectionIntent(utterance string) string {
	return strings.NewReplacer("{user_input}", utterance).Replace(correctionIntentTemplate)
}

// ClassifyCodes renders the ranked HS6 prediction prompt.
func ClassifyCodes(description string) string {
	return strings.NewReplacer("{product_description}", description).Replace(classifyCodesTemplate)
}

// ReclassifyCodes renders the re-prediction prompt carrying the user's
// feedback about the previous candidate list.
func ReclassifyCodes(productName, feedback string) string {
	return strings.NewReplacer(
		"{product_name}", productName,
		"{user_input}", feedback,
	).Replace(reclassifyCodesTemplate)
}
