package workflow

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/customsbot-poc/server/internal/engine/duty"
	"github.com/customsbot-poc/server/internal/engine/hscode"
	"github.com/customsbot-poc/server/internal/engine/model"
	"github.com/customsbot-poc/server/internal/engine/prompts"
	"github.com/customsbot-poc/server/internal/engine/refdata"
	"github.com/customsbot-poc/server/internal/engine/session"
	"github.com/customsbot-poc/server/internal/engine/slots"
	logx "github.com/customsbot-poc/server/pkg/logger"
)

// Engine is the conversation state machine. It owns the per-turn dispatch
// (termination, topic drift, corrections, canned requests) and the four step
// handlers that drive extraction, classification and calculation across
// turns. Handlers never return errors: every failure becomes a Korean
// re-prompt and the session holds position or resets.
type Engine struct {
	repo       model.SessionRepository
	locker     *session.Locker
	extractor  *slots.Extractor
	classifier *hscode.Classifier
	calculator *duty.Calculator
	oracle     model.Oracle
	store      *refdata.Store
	rates      duty.RateSource
}

type Config struct {
	Repo       model.SessionRepository
	Extractor  *slots.Extractor
	Classifier *hscode.Classifier
	Calculator *duty.Calculator
	Oracle     model.Oracle
	Store      *refdata.Store
	Rates      duty.RateSource
}

func NewEngine(cfg Config) *Engine {
	return &Engine{
		repo:       cfg.Repo,
		locker:     session.NewLocker(),
		extractor:  cfg.Extractor,
		classifier: cfg.Classifier,
		calculator: cfg.Calculator,
		oracle:     cfg.Oracle,
		store:      cfg.Store,
		rates:      cfg.Rates,
	}
}

// ProcessTurn handles one utterance for one session to completion. Turns on
// the same session are serialized; state is persisted only after the handler
// finishes, so an aborted turn leaves the stored state untouched.
func (e *Engine) ProcessTurn(ctx context.Context, sessionID, utterance string) (reply string, err error) {
	unlock := e.locker.Lock(sessionID)
	defer unlock()

	state, err := e.repo.Load(ctx, sessionID)
	if err != nil {
		return "", err
	}

	if terr := e.repo.AppendTranscript(ctx, sessionID, schema.UserMessage(utterance)); terr != nil {
		logx.Warn().Err(terr).Str("sessionID", sessionID).Msg("failed to append user transcript")
	}

	defer func() {
		if r := recover(); r != nil {
			logx.Error().Any("panic", r).Str("sessionID", sessionID).Msg("turn handler panicked")
			reply, err = msgInputProcessingError, nil
		}
	}()

	reply = e.dispatch(ctx, state, utterance)

	if err := e.repo.Save(ctx, sessionID, state); err != nil {
		return "", err
	}
	if terr := e.repo.AppendTranscript(ctx, sessionID, schema.AssistantMessage(reply, nil)); terr != nil {
		logx.Warn().Err(terr).Str("sessionID", sessionID).Msg("failed to append reply transcript")
	}
	return reply, nil
}

// EndSession drops the session state and transcript.
func (e *Engine) EndSession(ctx context.Context, sessionID string) error {
	unlock := e.locker.Lock(sessionID)
	defer unlock()
	return e.repo.Delete(ctx, sessionID)
}

// dispatch applies the short-circuit checks in their fixed order, then hands
// the stripped utterance to the current step's handler.
func (e *Engine) dispatch(ctx context.Context, st *model.TariffState, utterance string) string {
	priorContext, current := splitPriorContext(utterance)

	if isTermination(current) {
		st.Reset()
		return st.Record(msgSessionTerminated)
	}

	// drift check runs against the stripped utterance, but a tariff keyword
	// anywhere in the raw input keeps the turn in scope
	if st.SessionActive && isOffTopic(current) && !hasTariffContext(utterance) {
		return st.Record(msgContinueOrStop)
	}

	if st.SessionActive && strings.TrimSpace(current) == "계속" {
		return st.Record(e.rePrompt(st))
	}

	if isCorrection(current) {
		return e.handleCorrection(ctx, st, current)
	}

	if isSimpleTariffRequest(current) {
		return st.Record(msgSimpleTariffRequest)
	}

	switch st.CurrentStep {
	case model.StepScenarioSelection:
		return e.handleScenarioSelection(ctx, st, current)
	case model.StepInputCollection:
		return e.handleInputCollection(ctx, st, current, priorContext)
	case model.StepHS6Selection:
		return e.handleHS6Selection(ctx, st, current)
	case model.StepHS10Selection:
		return e.handleHS10Selection(ctx, st, current)
	}

	st.Reset()
	return st.Record(msgUnrecognizedState)
}

// handleCorrection returns the step-specific correction path. HS6 selection
// skips the menu and re-classifies directly; HS10 selection has no
// correction path at all.
func (e *Engine) handleCorrection(ctx context.Context, st *model.TariffState, current string) string {
	switch st.CurrentStep {
	case model.StepInputCollection:
		return st.Record(msgCorrectionInput)
	case model.StepHS6Selection:
		return e.performReclassification(ctx, st, current)
	case model.StepHS10Selection:
		return st.Record(msgHS10NumberOnly)
	default:
		return st.Record(msgCorrectionScenario)
	}
}

// rePrompt re-shows the current step's guidance after a "계속" confirmation.
func (e *Engine) rePrompt(st *model.TariffState) string {
	switch st.CurrentStep {
	case model.StepHS6Selection:
		return candidateListHS6(msgHS6CandidatesHeader, st.HS6Candidates)
	case model.StepHS10Selection:
		return candidateListHS10(st.HS10Candidates)
	default:
		return msgInputCollectionPrompt
	}
}

// detectScenario resolves the purchase channel from keywords first, then the
// oracle. Failure of either path degrades to "unknown" rather than blocking.
func (e *Engine) detectScenario(ctx context.Context, utterance string) model.Scenario {
	if s := scenarioFromKeywords(utterance); s != "" {
		return s
	}
	if e.oracle == nil {
		return ""
	}
	reply, err := e.oracle.Complete(ctx, prompts.DetectScenario(utterance))
	if err != nil {
		logx.Warn().Err(err).Msg("scenario detection failed")
		return ""
	}
	cleaned := reply
	for _, tok := range []string{"답변:", "입니다", "에 해당합니다", ".", `"`, "'"} {
		cleaned = strings.ReplaceAll(cleaned, tok, "")
	}
	cleaned = strings.TrimSpace(cleaned)
	for _, s := range model.ValidScenarios {
		if strings.Contains(cleaned, string(s)) {
			return s
		}
	}
	return ""
}
