package oracle

import (
	"fmt"
	"strings"

	"monedero/internal/models"
)

// BuildFeedbackPrompt summarizes a user's expenses into the fixed coaching
// prompt. The oracle is asked for JSON with 'regrets', 'improvements' and
// 'tips', but its reply is passed through to clients unparsed: the contract
// is best-effort natural-language JSON, not a validated schema.
func BuildFeedbackPrompt(expenses []models.Expense) string {
	lines := make([]string, 0, len(expenses))
	for _, g := range expenses {
		lines = append(lines, fmt.Sprintf("%s - $%v - %s - %s", g.ChargeName, g.Amount, g.Category, g.Utility))
	}

	return "Analiza estos gastos de un usuario y genera tips de mejora financiera. " +
		"Indica qué gastos no deberían haberse hecho, en qué ha mejorado y consejos prácticos. " +
		"Devuélvelo en JSON con campos: 'regrets', 'improvements', 'tips'.\n\n" +
		"Gastos:\n" + strings.Join(lines, "\n")
}
