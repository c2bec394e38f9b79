package oracle

import (
	"encoding/json"
	"fmt"
	"time"
)

// GoalReply is the fixed JSON object the oracle must produce when deriving
// a goal from a free-text request.
type GoalReply struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	GoalAmount  float64 `json:"goal_amount"`
	Tipo        string  `json:"tipo"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
}

const goalDateLayout = "2006-01-02"

// BuildGoalPrompt instructs the oracle to turn a user's free-text request
// into the fixed goal JSON object.
func BuildGoalPrompt(text string, today time.Time) string {
	return fmt.Sprintf(
		"Eres un asistente financiero. A partir de la petición del usuario, genera una meta de ahorro o de reducción de gastos. "+
			"Responde ÚNICAMENTE con un objeto JSON con exactamente estas claves: "+
			"'name' (texto corto), 'description' (texto), 'goal_amount' (número), "+
			"'tipo' ('ahorro' o 'reduccion'), 'start_date' y 'end_date' (formato YYYY-MM-DD). "+
			"La fecha de hoy es %s.\n\nPetición: %s",
		today.Format(goalDateLayout), text)
}

// ParseGoalReply decodes the oracle's goal reply. Unlike category replies
// there is no sensible default here, so an undecodable or incomplete reply
// is an error the caller reports without retrying.
func ParseGoalReply(raw string) (*GoalReply, time.Time, time.Time, error) {
	cleaned := StripCodeFences(raw)

	var reply GoalReply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return nil, time.Time{}, time.Time{}, fmt.Errorf("goal reply is not valid JSON: %w", err)
	}

	if reply.Name == "" {
		return nil, time.Time{}, time.Time{}, fmt.Errorf("goal reply is missing 'name'")
	}
	if reply.GoalAmount <= 0 {
		return nil, time.Time{}, time.Time{}, fmt.Errorf("goal reply has non-positive 'goal_amount'")
	}

	start, err := time.Parse(goalDateLayout, reply.StartDate)
	if err != nil {
		return nil, time.Time{}, time.Time{}, fmt.Errorf("goal reply has invalid 'start_date': %w", err)
	}
	end, err := time.Parse(goalDateLayout, reply.EndDate)
	if err != nil {
		return nil, time.Time{}, time.Time{}, fmt.Errorf("goal reply has invalid 'end_date': %w", err)
	}

	return &reply, start, end, nil
}
