package compose

import (
	"github.com/cardpulse/card-bot/pkg/engage"
	"github.com/cardpulse/card-bot/pkg/types"
	"github.com/cardpulse/card-bot/pkg/vision"
)

// Phrasings for a confirmed visual detection. The card name is the only
// specific claim any of them makes.
var visualTemplates = []string{
	"That {card} looks clean, congrats on the pull",
	"Clean copy of {card} right there",
	"The {card} artwork never misses",
	"That {card} is a serious hit",
}

// BuildVisualResponse names only cards the vision classifier confirmed at
// or above threshold. With no confirmed cards it produces nothing and the
// fallback chain takes over; asserting an unconfirmed card is a
// correctness bug, not a style choice.
func BuildVisualResponse(sessionSeed string, res *types.VisionResult) (string, error) {
	confirmed := vision.ConfirmedCards(res)
	if len(confirmed) == 0 {
		return "", nil
	}

	card := confirmed[0]
	name := card.Name
	if card.Set != "" {
		name += " from " + card.Set
	}

	idx := engage.SelectIndex(sessionSeed+"|"+card.Name, len(visualTemplates))
	tmpl := NewTemplate(visualTemplates[idx], Slot{Name: "card", Required: true})
	return tmpl.Render(map[string]string{"card": name})
}
