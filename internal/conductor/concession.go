package conductor

import "strings"

// Фиксированный список фраз капитуляции. Детерминированная проверка
// подстрокой выполняется до любого обращения к оракулу.
var concessionPhrases = []string{
	"i don't know",
	"i do not know",
	"dont know",
	"don't know",
	"not sure",
	"i'm not sure",
	"im not sure",
	"can't recall",
	"cannot recall",
	"cant recall",
	"can't remember",
	"cannot remember",
	"cant remember",
	"don't remember",
	"do not remember",
	"dont remember",
	"no idea",
	"i have no idea",
	"have no idea",
}

// IsConcession сообщает, содержит ли ответ кандидата фразу капитуляции.
// Сравнение без учета регистра, по вхождению подстроки.
func IsConcession(answer string) bool {
	lowered := strings.ToLower(answer)
	for _, phrase := range concessionPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}
