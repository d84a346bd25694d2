package advice

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"mealpulse/internal/ai"
)

// Generator composes the advice pipeline: prompt the model, fall back to
// deterministic text on failure, and memoize either outcome through the
// cache it owns.
type Generator struct {
	client *ai.Client
	cache  *Cache
	log    zerolog.Logger
}

func NewGenerator(client *ai.Client, cache *Cache, log zerolog.Logger) *Generator {
	return &Generator{
		client: client,
		cache:  cache,
		log:    log.With().Str("component", "advice").Logger(),
	}
}

// Cache exposes the owned cache so its sweeper can be started alongside
// the server lifecycle.
func (g *Generator) Cache() *Cache { return g.cache }

// Advise returns dietary advice for the user's goal and today's intake.
// It never fails: an upstream outage yields cached fallback text instead.
func (g *Generator) Advise(ctx context.Context, userID, goal string, actualCalories float64) Result {
	key := Key(userID, goal, actualCalories)
	return g.cache.GetOrCompute(key, func() Result {
		text, err := g.client.GenerateAdvice(ctx, goal, actualCalories)
		if err != nil {
			g.log.Warn().Err(err).Str("goal", goal).Msg("advice generation failed, caching fallback")
			return Result{Text: fallbackText(goal, actualCalories), Fallback: true}
		}
		return Result{Text: text}
	})
}

// fallbackText is the deterministic advice used during upstream outages.
func fallbackText(goal string, calories float64) string {
	switch goal {
	case "lose", "diet", "減量":
		return fmt.Sprintf("今日の摂取は約%.0fkcalです。野菜とたんぱく質を中心に、腹八分目を意識しましょう。", calories)
	case "gain", "bulk", "増量":
		return fmt.Sprintf("今日の摂取は約%.0fkcalです。たんぱく質を体重1kgあたり2gを目安にしっかり摂りましょう。", calories)
	default:
		return fmt.Sprintf("今日の摂取は約%.0fkcalです。PFCバランスを意識して、水分補給も忘れずに。", calories)
	}
}
