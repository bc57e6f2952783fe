package interview

import (
	"context"
	"fmt"
	"log"
	"strings"

	"interview-conductor/internal/blueprint"
	"interview-conductor/internal/codegen"
	"interview-conductor/internal/conductor"
	"interview-conductor/internal/config"
	"interview-conductor/internal/metrics"
	"interview-conductor/internal/session"
)

// LLMClient — текстовый оракул. Выполняется internal/api.Client.
type LLMClient interface {
	GenerateResponse(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// Service — внешний интерфейс движка интервью: создание сессии,
// обработка ходов, статус и завершение
type Service struct {
	synthesizer *blueprint.DataSynthesizer
	builder     *blueprint.Builder
	engine      *conductor.Engine
	store       session.Store
	generator   *codegen.Generator
	metrics     *metrics.Metrics
	cfg         *config.Config
}

// NewService собирает сервис интервью из готовых компонентов
func NewService(llm LLMClient, store session.Store, cfg *config.Config, m *metrics.Metrics) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	if m == nil {
		m = metrics.NewMetrics()
	}
	return &Service{
		synthesizer: blueprint.NewDataSynthesizer(llm),
		builder:     blueprint.NewBuilder(llm),
		engine:      conductor.NewEngine(llm, cfg),
		store:       store,
		generator:   codegen.NewGenerator(llm),
		metrics:     m,
		cfg:         cfg,
	}
}

// CreateRequest — входные данные для старта сессии
type CreateRequest struct {
	CandidateName  string `json:"candidate_name"`
	Position       string `json:"position"`
	Company        string `json:"company"`
	Resume         string `json:"resume"`
	JobDescription string `json:"job_description"`
	InterviewType  string `json:"interview_type"`
	Seniority      string `json:"seniority"`
}

// CreateResult — результат старта сессии
type CreateResult struct {
	SessionID      string           `json:"session_id"`
	FirstUtterance string           `json:"first_utterance"`
	Summary        BlueprintSummary `json:"summary"`
}

// TurnResponse — результат обработки одного ответа кандидата
type TurnResponse struct {
	Status        string             `json:"status"`
	NextUtterance string             `json:"next_utterance"`
	ActionTaken   conductor.Action   `json:"action_taken"`
	Progress      conductor.Progress `json:"progress"`
}

// BlueprintSummary — краткое представление плана для внешнего API
type BlueprintSummary struct {
	SessionID       string   `json:"session_id"`
	CandidateName   string   `json:"candidate_name"`
	Position        string   `json:"position"`
	Company         string   `json:"company"`
	InterviewType   string   `json:"interview_type"`
	TechnicalTopics []string `json:"technical_topics"`
	BehavioralTopic []string `json:"behavioral_topics"`
	TranscriptHead  []string `json:"transcript_head"`
}

// Status — текущее состояние сессии для внешнего API
type Status struct {
	SessionID string             `json:"session_id"`
	Completed bool               `json:"completed"`
	Progress  conductor.Progress `json:"progress"`
}

// CreateSession выполняет фазу подготовки: синтез данных, построение
// плана, стартовое приветствие. Синтез и построение плана не падают
// (у обоих есть fallback), поэтому ошибка возможна только от хранилища.
func (s *Service) CreateSession(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	interviewType := blueprint.NormalizeType(req.InterviewType)
	if req.CandidateName == "" {
		req.CandidateName = "Candidate"
	}
	if req.Position == "" {
		req.Position = "Software Engineer"
	}
	if req.Company == "" {
		req.Company = "the company"
	}

	log.Printf("Создание сессии: %s, %s @ %s, тип %s", req.CandidateName, req.Position, req.Company, interviewType)

	data := s.synthesizer.Synthesize(ctx, req.Resume, req.JobDescription, req.Position, req.Company)
	bp := s.builder.Build(ctx, data, req.CandidateName, req.Position, req.Company, interviewType)

	introduction := s.introductionMessage(bp)

	sess := &session.Session{
		Blueprint:     bp,
		Transcript:    []string{"Sarah: " + introduction},
		State:         conductor.NewSessionState(interviewType),
		LastUtterance: introduction,
	}
	if err := s.store.Put(bp.SessionID, sess); err != nil {
		return nil, fmt.Errorf("ошибка сохранения сессии: %w", err)
	}

	// Алгоритмическая задача готовится фоном и не влияет на разговор
	if blueprint.AllowsTechnical(interviewType) {
		s.generator.Pregenerate(context.WithoutCancel(ctx), bp.SessionID, req.JobDescription, req.Position, req.Seniority)
	}

	s.metrics.IncrementSessionsStarted()

	return &CreateResult{
		SessionID:      bp.SessionID,
		FirstUtterance: introduction,
		Summary:        summarize(sess),
	}, nil
}

// SubmitTurn обрабатывает очередной ответ кандидата. Ходы одной сессии
// сериализуются мьютексом сессии.
func (s *Service) SubmitTurn(ctx context.Context, sessionID, answer string) (*TurnResponse, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	unlock := sess.LockTurn()
	defer unlock()

	if sess.Completed {
		return &TurnResponse{
			Status:        "completed",
			NextUtterance: sess.LastUtterance,
			Progress:      conductor.Progress{Percentage: 100, Phase: "completion", Exchanges: len(sess.Transcript)},
		}, nil
	}

	sess.Transcript = append(sess.Transcript, "Candidate: "+answer)

	result := s.engine.ProcessTurn(ctx, sess.Blueprint, sess.State, sess.Transcript, answer)

	sess.Transcript = append(sess.Transcript, "Sarah: "+result.Utterance)
	sess.LastUtterance = result.Utterance
	s.metrics.IncrementTurnsProcessed()

	resp := &TurnResponse{
		Status:        "active",
		NextUtterance: result.Utterance,
		ActionTaken:   result.Action,
		Progress:      conductor.CalculateProgress(len(sess.Transcript), sess.State.InterviewType, s.cfg),
	}

	if result.Completed {
		sess.Completed = true
		resp.Status = "completed"
		resp.Progress = conductor.Progress{Percentage: 100, Phase: "completion", Exchanges: len(sess.Transcript)}
		s.metrics.IncrementSessionsCompleted()
		s.generator.Cancel(sessionID)
		if err := session.Archive(sess); err != nil {
			log.Printf("Сессия %s: не удалось сохранить итог: %v", sessionID, err)
		}
	}

	if err := s.store.Put(sessionID, sess); err != nil {
		return nil, fmt.Errorf("ошибка сохранения сессии: %w", err)
	}
	return resp, nil
}

// GetStatus возвращает прогресс сессии
func (s *Service) GetStatus(sessionID string) (*Status, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	st := &Status{SessionID: sessionID, Completed: sess.Completed}
	if sess.Completed {
		st.Progress = conductor.Progress{Percentage: 100, Phase: "completion", Exchanges: len(sess.Transcript)}
	} else {
		st.Progress = conductor.CalculateProgress(len(sess.Transcript), sess.State.InterviewType, s.cfg)
	}
	return st, nil
}

// GetBlueprintSummary возвращает краткое представление плана сессии
func (s *Service) GetBlueprintSummary(sessionID string) (*BlueprintSummary, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	summary := summarize(sess)
	return &summary, nil
}

// GetCodingChallenge возвращает фоново сгенерированную задачу сессии
func (s *Service) GetCodingChallenge(sessionID string) (*codegen.CodingQuestion, error) {
	if _, err := s.store.Get(sessionID); err != nil {
		return nil, err
	}
	return s.generator.Get(sessionID)
}

// CompleteSession принудительно завершает сессию: итог сохраняется,
// сессия удаляется из хранилища
func (s *Service) CompleteSession(sessionID string) (*BlueprintSummary, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	unlock := sess.LockTurn()
	defer unlock()

	if !sess.Completed {
		sess.Completed = true
		s.metrics.IncrementSessionsCompleted()
	}
	s.generator.Forget(sessionID)

	if err := session.Archive(sess); err != nil {
		log.Printf("Сессия %s: не удалось сохранить итог: %v", sessionID, err)
	}

	summary := summarize(sess)
	if err := s.store.Delete(sessionID); err != nil {
		return nil, err
	}
	return &summary, nil
}

// introductionMessage выбирает стартовую реплику: вступительный вопрос
// из плана, иначе типовое приветствие под формат интервью
func (s *Service) introductionMessage(bp *blueprint.InterviewBlueprint) string {
	for _, q := range bp.IntroductionQuestions {
		if strings.TrimSpace(q.QuestionText) != "" {
			return q.QuestionText
		}
	}

	var description string
	switch bp.InterviewType {
	case blueprint.TypeTechnicalOnly:
		description = "technical interview focusing exclusively on your technical expertise, problem-solving skills, and project experience"
	case blueprint.TypeBehavioralOnly:
		description = "behavioral interview focusing exclusively on your professional experiences, soft skills, and leadership capabilities"
	default:
		description = "comprehensive technical and behavioral interview to explore your experience and background"
	}

	return fmt.Sprintf(
		"Hi %s, I'm thrilled to meet you today! I'm Sarah, a Principal Engineer at %s. I'm looking forward to a %s for the %s. Can you start by telling me a bit about yourself and what excites you about this position?",
		bp.CandidateName, bp.Company, description, bp.Position)
}

func summarize(sess *session.Session) BlueprintSummary {
	bp := sess.Blueprint

	tech := make([]string, 0, len(bp.TechnicalQuestions))
	for _, q := range bp.TechnicalQuestions {
		tech = append(tech, q.QuestionText)
	}
	behavioral := make([]string, 0, len(bp.BehavioralQuestions))
	for _, q := range bp.BehavioralQuestions {
		behavioral = append(behavioral, q.QuestionText)
	}

	head := sess.Transcript
	if len(head) > 4 {
		head = head[:4]
	}

	return BlueprintSummary{
		SessionID:       bp.SessionID,
		CandidateName:   bp.CandidateName,
		Position:        bp.Position,
		Company:         bp.Company,
		InterviewType:   bp.InterviewType,
		TechnicalTopics: tech,
		BehavioralTopic: behavioral,
		TranscriptHead:  append([]string(nil), head...),
	}
}
