package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const resultsDir = "results"

// ArchivedInterview — итог завершенной сессии для записи на диск
type ArchivedInterview struct {
	SessionID     string    `json:"session_id"`
	CandidateName string    `json:"candidate_name"`
	Position      string    `json:"position"`
	Company       string    `json:"company"`
	InterviewType string    `json:"interview_type"`
	Transcript    []string  `json:"transcript"`
	VisitedTopics []string  `json:"visited_topics"`
	CompletedAt   time.Time `json:"completed_at"`
}

// Archive сохраняет итог завершенной сессии в JSON файл
func Archive(sess *Session) error {
	err := os.MkdirAll(resultsDir, 0755)
	if err != nil {
		return fmt.Errorf("ошибка создания директории %s: %w", resultsDir, err)
	}

	visited := make([]string, 0, len(sess.State.VisitedTopics))
	for id := range sess.State.VisitedTopics {
		visited = append(visited, id)
	}

	archived := ArchivedInterview{
		SessionID:     sess.Blueprint.SessionID,
		CandidateName: sess.Blueprint.CandidateName,
		Position:      sess.Blueprint.Position,
		Company:       sess.Blueprint.Company,
		InterviewType: sess.Blueprint.InterviewType,
		Transcript:    sess.Transcript,
		VisitedTopics: visited,
		CompletedAt:   time.Now(),
	}

	jsonData, err := json.MarshalIndent(archived, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации результата: %w", err)
	}

	filename := fmt.Sprintf("%s.json", archived.SessionID)
	path := filepath.Join(resultsDir, filename)
	err = os.WriteFile(path, jsonData, 0644)
	if err != nil {
		return fmt.Errorf("ошибка записи файла %s: %w", path, err)
	}

	return nil
}

// LoadArchived загружает итог завершенной сессии из JSON файла
func LoadArchived(sessionID string) (*ArchivedInterview, error) {
	path := filepath.Join(resultsDir, fmt.Sprintf("%s.json", sessionID))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", path, err)
	}

	var archived ArchivedInterview
	err = json.Unmarshal(data, &archived)
	if err != nil {
		return nil, fmt.Errorf("ошибка десериализации JSON: %w", err)
	}

	return &archived, nil
}
