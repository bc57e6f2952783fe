package blueprint

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"interview-conductor/internal/prompts"
	"interview-conductor/internal/sanitizer"
)

// LLMClient — текстовый оракул. Выполняется internal/api.Client.
type LLMClient interface {
	GenerateResponse(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// DataSynthesizer превращает сырое резюме и описание вакансии
// в структурированную выжимку одним вызовом оракула
type DataSynthesizer struct {
	llm LLMClient
}

// NewDataSynthesizer создает синтезатор данных
func NewDataSynthesizer(llm LLMClient) *DataSynthesizer {
	return &DataSynthesizer{llm: llm}
}

// rawSynthesis — формат ответа препроцессингового промпта
type rawSynthesis struct {
	JDSummary struct {
		KeyTechnicalSkills        []string `json:"key_technical_skills"`
		KeyBehavioralCompetencies []string `json:"key_behavioral_competencies"`
	} `json:"jd_summary"`
	ResumeSummary struct {
		HighlightedProjects []rawProject `json:"highlighted_projects"`
	} `json:"resume_summary"`
	PotentialQuestionAreas []string `json:"potential_question_areas"`
}

type rawProject struct {
	ProjectDetail string   `json:"project_detail"`
	ProjectName   string   `json:"project_name"`
	SkillsUsed    []string `json:"skills_used"`
}

// Synthesize выполняет один вызов оракула и конвертирует ответ во
// внутренний формат. Никогда не возвращает ошибку: при любом сбое
// оракула или парсинга отдается универсальный fallback — создание
// сессии здесь не абортируется, деградирует только качество синтеза.
func (s *DataSynthesizer) Synthesize(ctx context.Context, resumeText, jobDescription, position, company string) SynthesizedData {
	prompt := prompts.Synthesis(resumeText, jobDescription, position, company)

	response, err := s.llm.GenerateResponse(ctx, prompt, 0.1, 2000)
	if err != nil {
		log.Printf("Синтез данных: оракул недоступен (%v), используем fallback", err)
		return fallbackSynthesis()
	}

	cleaned, err := sanitizer.Extract(response)
	if err != nil {
		log.Printf("Синтез данных: не удалось восстановить JSON, используем fallback")
		return fallbackSynthesis()
	}

	var raw rawSynthesis
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		log.Printf("Синтез данных: ошибка парсинга (%v), используем fallback", err)
		return fallbackSynthesis()
	}

	return convertSynthesis(raw)
}

// convertSynthesis приводит формат препроцессинга к внутреннему виду
func convertSynthesis(raw rawSynthesis) SynthesizedData {
	projects := raw.ResumeSummary.HighlightedProjects

	relevantProjects := make([]string, 0, 3)
	for i, p := range projects {
		if i >= 3 {
			break
		}
		detail := p.ProjectDetail
		if detail == "" {
			detail = p.ProjectName
		}
		if detail == "" {
			detail = fmt.Sprintf("Project %d", i+1)
		}
		if len(detail) > 80 {
			detail = detail[:80] + "..."
		}
		relevantProjects = append(relevantProjects, detail)
	}

	// Сильные стороны: по два первых навыка из каждого из топ-3 проектов
	seen := make(map[string]bool)
	strengths := make([]string, 0, 3)
	for i, p := range projects {
		if i >= 3 {
			break
		}
		for j, skill := range p.SkillsUsed {
			if j >= 2 {
				break
			}
			if !seen[skill] && len(strengths) < 3 {
				seen[skill] = true
				strengths = append(strengths, skill)
			}
		}
	}
	if len(strengths) == 0 {
		strengths = []string{"Technical Background", "Experience", "Skills"}
	}

	technical := limit(raw.JDSummary.KeyTechnicalSkills, 5)
	behavioral := limit(raw.JDSummary.KeyBehavioralCompetencies, 5)

	areasToProbe := append(limit(technical, 2), limit(behavioral, 1)...)
	if len(areasToProbe) == 0 {
		areasToProbe = []string{"Technical Depth", "Leadership", "Communication"}
	}

	return SynthesizedData{
		KeyTechnicalSkills:        technical,
		KeyBehavioralCompetencies: behavioral,
		RelevantProjects:          relevantProjects,
		CandidateStrengths:        strengths,
		AreasToProbe:              areasToProbe,
		ResumeJobAlignment: fmt.Sprintf(
			"Candidate has experience with %d relevant projects and skills that align with the role requirements",
			len(projects)),
	}
}

// fallbackSynthesis — фиксированная универсальная выжимка на случай сбоя
func fallbackSynthesis() SynthesizedData {
	return SynthesizedData{
		KeyTechnicalSkills:        []string{"Technical Skills", "Problem Solving", "System Design", "Engineering", "Analysis"},
		KeyBehavioralCompetencies: []string{"Leadership", "Communication", "Teamwork"},
		RelevantProjects:          []string{"Project Experience", "Technical Implementation", "Problem Solving"},
		CandidateStrengths:        []string{"Technical Background", "Experience", "Skills"},
		AreasToProbe:              []string{"Technical Depth", "Leadership Experience", "Problem Solving"},
		ResumeJobAlignment:        "Candidate appears to have relevant experience for the role",
	}
}

func limit(items []string, n int) []string {
	if len(items) <= n {
		return append([]string(nil), items...)
	}
	return append([]string(nil), items[:n]...)
}
