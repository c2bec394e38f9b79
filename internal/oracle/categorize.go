package oracle

import (
	"encoding/json"
	"strings"
)

// Category pairs a catalog label with its canonical emoji.
type Category struct {
	Emoji    string `json:"emoji"`
	Category string `json:"category"`
}

// DefaultCategory is returned whenever the oracle's reply cannot be decoded.
var DefaultCategory = Category{Emoji: "🏷️", Category: "Default"}

// categorizerPreamble enumerates the closed category catalog the model must
// answer from. Kept as one instruction string so the emoji/category pairing
// cannot drift between prompt and fallback.
const categorizerPreamble = "Expense Categorizer based on Emojis: " +
	"Travel ✈️; Food 🍽️; Shopping 🛍️; Entertainment 🍿; Transport ⛽; " +
	"Groceries 🛒; Home 🏠; Health ⚕️; Education 📚; Sport 🏋️‍♀️; " +
	"Technology 💻; Fashion 👕; Personal Care 💄; Pets 🐾; " +
	"Gifts 🎁; Savings 📈; Banking 🏦; Cash 🏧; Hobbies 🎮; Automotive 🛠️; " +
	"Default 🏷️. Return the corresponding emoji and its category in JSON format " +
	"with only these two data points: "

// BuildCategorizerPrompt wraps the caller's text in the fixed catalog instruction.
func BuildCategorizerPrompt(text string) string {
	return categorizerPreamble + text
}

// ParseCategoryReply decodes the oracle's reply into a Category. The reply
// is expected to be a JSON object with "emoji" and "category" fields,
// possibly wrapped in markdown code fences. Any deviation falls back to
// DefaultCategory instead of failing: a cosmetic emoji is never worth an
// errored request.
func ParseCategoryReply(raw string) Category {
	cleaned := StripCodeFences(raw)

	var cat Category
	if err := json.Unmarshal([]byte(cleaned), &cat); err != nil {
		return DefaultCategory
	}
	if cat.Emoji == "" || cat.Category == "" {
		return DefaultCategory
	}
	return cat
}

// StripCodeFences removes a surrounding markdown code fence, with or
// without a language tag, from the oracle's reply.
func StripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line (e.g. "json").
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
