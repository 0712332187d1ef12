package game

import (
	"fmt"

	"github.com/SweetyAngel/egerus/internal/stress"
)

// Feedback returns the message shown after a round resolves.
func Feedback(o Outcome, word string, correct int) string {
	answer := stress.Stressed(word, correct)
	switch o {
	case OutcomeCorrect:
		return "Правильно! 👍"
	case OutcomeWrong:
		return fmt.Sprintf("Неправильно. Правильный ответ: \"%s\"", answer)
	case OutcomeTimeout:
		return fmt.Sprintf("К сожалению, Вы не успели. Правильный ответ: \"%s\"", answer)
	}
	return ""
}

// FormatTimer renders seconds as "00:SS", clamping negatives to zero.
func FormatTimer(seconds int) string {
	return fmt.Sprintf("00:%02d", max(seconds, 0))
}
