package workflow

// User-facing Korean replies. Handlers compose these verbatim; no message is
// ever generated by the model.
const (
	msgSessionTerminated = "관세 계산을 중단하겠습니다. 다른 질문이 있으시면 언제든 말씀해 주세요."

	msgContinueOrStop = "현재 관세 계산을 진행 중입니다. 계속 진행하시겠습니까, 아니면 중단하시겠습니까?\n\n계속하려면 '계속'을, 중단하려면 '중단'을 입력해 주세요."

	msgInputCollectionPrompt = `구매하신 상품 정보를 입력해 주세요!

💡 **상품 묘사의 정확도가 높을수록 정확한 관세 예측이 가능합니다!**

💡 **배송비는 따로 입력받고 있지 않습니다. 국제배송비(직배송)는 관세기준에 포함되지 않지만 현지 배송비는 관세기준에 포함되니 참고하시어 상품 가격과 같이 입력 부탁드립니다!**

예시:
• "아랫창은 고무로 되어있고 하얀색 운동화를 80000원에 독일에서 샀어요"
• "인텔 i7 노트북을 150만원에 미국에서 구매했어요"
• "블루투스 이어폰 2개를 12만원에 일본에서 샀어요"

위 예시를 참고하여 상품 정보를 입력해 주세요.`

	msgSimpleTariffRequest = `관세 계산을 위해 다음 정보가 필요합니다:

• 상품명 또는 상품 설명
• 구매 국가
• 상품 가격
• 수량 (선택사항)

💡 **다음과 같이 입력해 주세요:**
• "미국에서 150만원에 노트북을 샀어요"
• "일본에서 10만원짜리 이어폰을 구매했어요"
• "독일에서 80만원에 운동화 2켤레를 샀어요"

위 예시 중 하나를 참고하여 상품 정보를 입력해 주세요.`

	msgMissingInfoPrompt = "다음 정보가 누락되었습니다:"

	msgProductInfoExample = "💡 **상품명, 구매 국가, 상품 가격을 모두 입력해 주세요!**\n\n예시:\n• \"미국에서 150만원에 노트북을 샀어요\"\n• \"일본에서 10만원짜리 이어폰을 구매했어요\"\n• \"독일에서 80만원에 운동화 2켤레를 샀어요\"\n\n위 예시를 참고하여 상품 정보를 입력해 주세요."

	msgScenarioGuidePrefix = "예상하고 안내를 도와드릴게요."

	msgHS6CandidatesHeader = "HS 코드 예측 모델로부터 HS6 코드 후보를 찾았습니다. 번호를 선택해 주세요:"

	msgHS6RepredictionHeader = "HS 코드 재예측 결과입니다. 번호를 선택해 주세요:"

	msgHS6Confidence = "신뢰도:"

	msgHS6Selected = "선택하신 HS 6자리 코드:"

	msgHS10CandidatesHeader = "HS 10자리 코드 후보를 선택해 주세요:"

	msgSelectCandidate = "💡 **위 후보 중 하나를 선택해 주세요.**"

	msgNumberExample = "예시: \"1번\", \"2번\", \"3번\" 등"

	msgRepredictionHint = "만약 후보가 모두 적합하지 않으면 '코드가 없다', '다시', '재예측' 등으로 입력해 주세요."

	msgInvalidNumber = "**잘못된 번호입니다.**"

	msgHS10NumberOnly = "💡 **번호를 입력해 주세요.** (예: 1, 2, 3)"

	msgUnrecognizedState = "죄송합니다. 현재 상태를 인식할 수 없습니다. 처음부터 다시 시작하겠습니다."

	msgInputProcessingError = "입력 처리 중 오류가 발생했습니다. 숫자를 입력하거나, 재예측을 원하시면 '다시', '재예측' 등으로 입력해 주세요."

	msgPredictionFailed = "HS 코드 예측에 실패했습니다. 상품명을 더 구체적으로 입력해 주세요."

	msgRepredictionFailed = "HS 코드 예측에 다시 실패했습니다. 상품명을 더 구체적으로 입력해 주세요."

	msgNoProductName = "상품명을 알 수 없어 HS 코드 예측을 다시 시도할 수 없습니다. 처음부터 다시 입력해 주세요."

	msgNoHS10Candidates = "HS10 코드 예측에 실패했습니다. HS6 코드를 다시 선택해 주세요."

	msgCorrectionScenario = "어떤 정보를 수정하시겠습니까?\n1. 시나리오\n2. 상품 정보\n3. 처음부터 다시 시작"

	msgCorrectionInput = "어떤 정보를 수정하시겠습니까?\n1. 상품묘사\n2. 국가\n3. 가격\n4. 수량\n5. 배송비\n6. 처음부터 다시 시작"
)
