package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"interview-conductor/internal/api"
	"interview-conductor/internal/config"
	"interview-conductor/internal/interview"
	"interview-conductor/internal/metrics"
	"interview-conductor/internal/session"
)

func main() {
	fmt.Println("🚀 Запуск движка интервью...")

	// Загружаем переменные окружения; .env опционален
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используем переменные окружения")
	}

	appCfg := config.LoadAppConfig()
	if err := appCfg.OpenAI.Validate(); err != nil {
		log.Fatalf("Ошибка конфигурации OpenAI: %v", err)
	}

	// Настройки движка: YAML опционален, без него работают дефолты
	cfg, err := config.Load("config/interview.yaml")
	if err != nil {
		log.Printf("Конфигурация интервью не загружена (%v), используем значения по умолчанию", err)
		cfg = config.Default()
	}

	fmt.Println("🔧 Инициализация сервисов...")

	client := api.NewClientWithConfig(
		appCfg.OpenAI.APIKey,
		appCfg.OpenAI.Model,
		"",
		appCfg.OpenAI.Timeout,
		appCfg.OpenAI.MaxRetries,
	)
	fmt.Println("✅ OpenAI клиент инициализирован")

	store := session.NewMemoryStore(appCfg.Engine.SessionTTL, appCfg.Engine.CleanupInterval)
	defer store.Stop()

	m := metrics.NewMetrics()
	client.SetRecorder(m)
	service := interview.NewService(client, store, cfg, m)
	fmt.Println("✅ Сервис интервью инициализирован")

	fmt.Println("\n📋 Конфигурация:")
	fmt.Printf("• Потолок длины разговора: %d реплик\n", cfg.GetTranscriptCeiling())
	fmt.Printf("• Уточнений на тему: до %d\n", cfg.GetMaxFollowUps())

	runConsoleInterview(service)

	snapshot := m.GetSnapshot()
	fmt.Printf("\n📊 Итого: сессий %d, ходов %d, вызовов оракула %d\n",
		snapshot.SessionsStarted, snapshot.TurnsProcessed, snapshot.OracleCallsTotal)
}

// runConsoleInterview ведет одно интервью через стандартный ввод
func runConsoleInterview(service *interview.Service) {
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Println("\n🎤 Новое интервью")
	req := interview.CreateRequest{
		CandidateName:  promptLine(scanner, "Имя кандидата"),
		Position:       promptLine(scanner, "Позиция"),
		Company:        promptLine(scanner, "Компания"),
		InterviewType:  promptLine(scanner, "Тип интервью (technical_only / behavioral_only / technical_behavioral)"),
		Resume:         promptLine(scanner, "Резюме (одной строкой)"),
		JobDescription: promptLine(scanner, "Описание вакансии (одной строкой)"),
	}

	result, err := service.CreateSession(ctx, req)
	if err != nil {
		log.Fatalf("Ошибка создания сессии: %v", err)
	}

	fmt.Printf("\n✅ Сессия создана: %s\n", result.SessionID)
	fmt.Printf("\nSarah: %s\n", result.FirstUtterance)

	for {
		fmt.Print("\nВы: ")
		if !scanner.Scan() {
			return
		}
		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			continue
		}
		if answer == "/exit" {
			if _, err := service.CompleteSession(result.SessionID); err != nil {
				log.Printf("Ошибка завершения сессии: %v", err)
			}
			fmt.Println("Интервью прервано.")
			return
		}

		resp, err := service.SubmitTurn(ctx, result.SessionID, answer)
		if err != nil {
			log.Printf("Ошибка обработки ответа: %v", err)
			continue
		}

		fmt.Printf("\nSarah: %s\n", resp.NextUtterance)
		fmt.Printf("   [%s, прогресс %d%%, фаза %s]\n", resp.ActionTaken, resp.Progress.Percentage, resp.Progress.Phase)

		if resp.Status == "completed" {
			fmt.Println("\n🎉 Интервью завершено!")
			return
		}
	}
}

func promptLine(scanner *bufio.Scanner, label string) string {
	fmt.Printf("%s: ", label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}
