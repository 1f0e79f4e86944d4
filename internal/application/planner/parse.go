package planner

import (
	"encoding/json"
	"strings"

	"github.com/mealforge/v2/internal/domain/plan"
)

// stripCodeFences removes surrounding Markdown code-fence markers that
// generators habitually wrap JSON in, e.g. "```json ... ```". Anything
// beyond fence removal is left untouched: malformed JSON is a terminal
// parse failure, not something to repair.
func stripCodeFences(s string) string {
	out := strings.TrimSpace(s)
	if strings.HasPrefix(out, "```") {
		if idx := strings.IndexByte(out, '\n'); idx >= 0 {
			out = out[idx+1:]
		} else {
			out = strings.TrimPrefix(out, "```")
		}
	}
	out = strings.TrimSpace(out)
	out = strings.TrimSuffix(out, "```")
	return strings.TrimSpace(out)
}

// parsePlan turns raw generator output into a Plan, or fails. The caller
// wraps failures with the raw text retained for diagnostics.
func parsePlan(raw string) (*plan.Plan, error) {
	cleaned := stripCodeFences(raw)

	var parsed plan.Plan
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}
