package sanitizer

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrParseFailure возвращается, когда все стратегии восстановления JSON исчерпаны
var ErrParseFailure = errors.New("не удалось восстановить валидный JSON из ответа модели")

var (
	openBraceRuns  = regexp.MustCompile(`\{\{+`)
	closeBraceRuns = regexp.MustCompile(`\}\}+`)
)

// Sanitize выполняет best-effort восстановление JSON объекта из сырого ответа модели.
// Никогда не возвращает ошибку: если все стратегии провалились, отдает лучший
// вариант как есть. Вызывающий код обязан парсить результат и обрабатывать неудачу.
func Sanitize(raw string) string {
	cleaned, _ := Extract(raw)
	return cleaned
}

// Extract применяет упорядоченную цепочку стратегий восстановления:
// 1) срезать markdown код-блоки
// 2) вырезать подстроку от первой '{' до последней '}'
// 3) схлопнуть удвоенные скобки ({{ -> {, }} -> }) — артефакт промптов с экранированными примерами
// 4) проверить парсингом
// 5) если все еще невалидно — найти первый сбалансированный блок скобок в ИСХОДНОМ тексте
// Возвращает ErrParseFailure вместе с лучшей догадкой, если валидный JSON так и не получен.
func Extract(raw string) (string, error) {
	if raw == "" {
		return raw, ErrParseFailure
	}

	cleaned := StripFences(raw)
	cleaned = sliceBraces(cleaned)
	if json.Valid([]byte(cleaned)) {
		return cleaned, nil
	}

	collapsed := CollapseDoubledBraces(cleaned)
	if json.Valid([]byte(collapsed)) {
		return collapsed, nil
	}

	// Последняя попытка: сбалансированный блок из исходного текста
	if balanced, ok := firstBalancedObject(raw); ok && json.Valid([]byte(balanced)) {
		return balanced, nil
	}

	return collapsed, ErrParseFailure
}

// StripFences удаляет обрамление ```json ... ``` вокруг ответа
func StripFences(text string) string {
	cleaned := strings.TrimSpace(text)

	if strings.HasPrefix(cleaned, "```") {
		if strings.HasPrefix(cleaned, "```json") {
			cleaned = cleaned[len("```json"):]
		} else {
			cleaned = cleaned[len("```"):]
		}
		if strings.HasSuffix(cleaned, "```") {
			cleaned = cleaned[:len(cleaned)-len("```")]
		}
	}

	return strings.TrimSpace(cleaned)
}

// sliceBraces вырезает подстроку от первой '{' до последней '}'
func sliceBraces(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}
	return text
}

// CollapseDoubledBraces схлопывает последовательности {{ и }} до одиночных скобок.
// Известный артефакт шаблонных промптов, где примеры JSON экранируются удвоением.
func CollapseDoubledBraces(text string) string {
	collapsed := openBraceRuns.ReplaceAllString(text, "{")
	collapsed = closeBraceRuns.ReplaceAllString(collapsed, "}")

	collapsed = strings.TrimSpace(collapsed)
	if !strings.HasPrefix(collapsed, "{") {
		collapsed = "{" + collapsed
	}
	if !strings.HasSuffix(collapsed, "}") {
		collapsed = collapsed + "}"
	}
	return collapsed
}

// firstBalancedObject сканирует текст и возвращает первый сбалансированный блок {...}.
// Скобки внутри строковых литералов игнорируются.
func firstBalancedObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		switch r {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start != -1 {
					return text[start : i+1], true
				}
			}
		}
	}

	return "", false
}

// ExtractStringField достает строковое поле по имени через regex — запасной
// вариант, когда объект целиком так и не распарсился
func ExtractStringField(raw, field string) (string, error) {
	pattern := regexp.MustCompile(`"` + regexp.QuoteMeta(field) + `"\s*:\s*"([^"]*)"`)
	match := pattern.FindStringSubmatch(raw)
	if match == nil {
		return "", ErrParseFailure
	}
	return match[1], nil
}
