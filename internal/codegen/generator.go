package codegen

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"interview-conductor/internal/prompts"
	"interview-conductor/internal/sanitizer"
)

// ErrNotReady возвращается, пока задача для сессии еще не сгенерирована
var ErrNotReady = errors.New("задача для сессии еще не готова")

// LLMClient — текстовый оракул. Выполняется internal/api.Client.
type LLMClient interface {
	GenerateResponse(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// TestCase — один проверочный пример алгоритмической задачи
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	Rationale      string `json:"rationale"`
}

// CodingQuestion — алгоритмическая задача, сгенерированная под вакансию
type CodingQuestion struct {
	Title            string     `json:"title"`
	Difficulty       string     `json:"difficulty"`
	ProblemStatement string     `json:"problem_statement"`
	PrimaryPattern   string     `json:"primary_pattern"`
	Constraints      []string   `json:"constraints"`
	TestCases        []TestCase `json:"test_cases"`
}

// Generator фоново генерирует алгоритмические задачи по одной на сессию.
// Результаты никак не влияют на состояние разговора: движок интервью
// их не читает, они забираются отдельно.
type Generator struct {
	llm LLMClient

	mutex    sync.Mutex
	results  map[string]*CodingQuestion
	inflight map[string]context.CancelFunc
}

// NewGenerator создает фоновый генератор задач
func NewGenerator(llm LLMClient) *Generator {
	return &Generator{
		llm:      llm,
		results:  make(map[string]*CodingQuestion),
		inflight: make(map[string]context.CancelFunc),
	}
}

// Pregenerate запускает фоновую генерацию задачи для сессии.
// Идемпотентен: повторный вызов при живой горутине или готовом
// результате — no-op.
func (g *Generator) Pregenerate(ctx context.Context, sessionID, jobDescription, position, seniority string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, exists := g.results[sessionID]; exists {
		return
	}
	if _, running := g.inflight[sessionID]; running {
		return
	}

	genCtx, cancel := context.WithCancel(ctx)
	g.inflight[sessionID] = cancel

	go g.generate(genCtx, sessionID, jobDescription, position, seniority)
}

// Cancel прерывает фоновую генерацию для сессии, если она идет
func (g *Generator) Cancel(sessionID string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if cancel, running := g.inflight[sessionID]; running {
		cancel()
		delete(g.inflight, sessionID)
	}
}

// Get возвращает готовую задачу сессии
func (g *Generator) Get(sessionID string) (*CodingQuestion, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	q, exists := g.results[sessionID]
	if !exists {
		return nil, ErrNotReady
	}
	return q, nil
}

// Forget удаляет результат и прерывает генерацию: вызывается при
// завершении сессии
func (g *Generator) Forget(sessionID string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if cancel, running := g.inflight[sessionID]; running {
		cancel()
		delete(g.inflight, sessionID)
	}
	delete(g.results, sessionID)
}

// generate выполняет до трех попыток генерации: исходную и две повторные
// на случай невалидного ответа оракула
func (g *Generator) generate(ctx context.Context, sessionID, jobDescription, position, seniority string) {
	defer func() {
		g.mutex.Lock()
		delete(g.inflight, sessionID)
		g.mutex.Unlock()
	}()

	prompt := prompts.CodingChallenge(jobDescription, position, seniority)

	for attempt := 0; attempt < 3; attempt++ {
		if ctx.Err() != nil {
			return
		}

		response, err := g.llm.GenerateResponse(ctx, prompt, 0.5, 2000)
		if err != nil {
			log.Printf("Генерация задачи %s: оракул недоступен (%v)", sessionID, err)
			return
		}

		question, err := parseQuestion(response)
		if err != nil {
			log.Printf("Генерация задачи %s: невалидный ответ (попытка %d): %v", sessionID, attempt+1, err)
			continue
		}

		g.mutex.Lock()
		// Cancel мог сработать пока шел запрос
		if ctx.Err() == nil {
			g.results[sessionID] = question
		}
		g.mutex.Unlock()
		log.Printf("Генерация задачи %s: готово (%s, %s)", sessionID, question.Title, question.Difficulty)
		return
	}
	log.Printf("Генерация задачи %s: все попытки исчерпаны", sessionID)
}

func parseQuestion(response string) (*CodingQuestion, error) {
	cleaned, err := sanitizer.Extract(response)
	if err != nil {
		return nil, err
	}

	var q CodingQuestion
	if err := json.Unmarshal([]byte(cleaned), &q); err != nil {
		return nil, err
	}
	if err := validateQuestion(&q); err != nil {
		return nil, err
	}
	return &q, nil
}

func validateQuestion(q *CodingQuestion) error {
	if q.Title == "" {
		return errors.New("пустой заголовок задачи")
	}
	if q.ProblemStatement == "" {
		return errors.New("пустое условие задачи")
	}
	switch q.Difficulty {
	case "Easy", "Medium", "Hard":
	default:
		return errors.New("недопустимая сложность задачи")
	}
	if len(q.TestCases) == 0 {
		return errors.New("нет проверочных примеров")
	}
	return nil
}
