package assistant

import (
	"fmt"
	"strings"

	"codeberg.org/mutker/overtake/internal/engine"
)

type rule struct {
	keywords []string
	reply    func(m engine.DerivedMetrics, c Context) string
}

// KeywordResponder answers by testing the lowercased question against a
// fixed keyword list. The first rule with a matching keyword wins, so
// "should I pit or pass" is answered with the pit estimate.
type KeywordResponder struct {
	rules []rule
}

func NewKeywordResponder() *KeywordResponder {
	return &KeywordResponder{
		rules: []rule{
			{
				keywords: []string{"tire"},
				reply: func(m engine.DerivedMetrics, c Context) string {
					return fmt.Sprintf("Avg tire temp %.1f°C · Avg pressure %.2f psi.", m.AverageTireTemperature, c.AveragePressure)
				},
			},
			{
				keywords: []string{"pit"},
				reply: func(m engine.DerivedMetrics, _ Context) string {
					return fmt.Sprintf("Estimated pit: %s.", m.Pit.Text)
				},
			},
			{
				keywords: []string{"pass", "overtake"},
				reply: func(m engine.DerivedMetrics, _ Context) string {
					return fmt.Sprintf("Pass in: %s.", m.Pass.Text)
				},
			},
			{
				keywords: []string{"position"},
				reply: func(m engine.DerivedMetrics, c Context) string {
					return fmt.Sprintf("Current: %d, Predicted: %d.", c.CurrentPosition, m.PredictedPlacement)
				},
			},
		},
	}
}

func (r *KeywordResponder) Answer(question string, m engine.DerivedMetrics, c Context) string {
	q := strings.ToLower(question)

	for _, rl := range r.rules {
		for _, kw := range rl.keywords {
			if strings.Contains(q, kw) {
				return rl.reply(m, c)
			}
		}
	}

	return m.Recommendation
}
