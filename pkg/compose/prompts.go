package compose

import (
	"fmt"
	"strings"

	"github.com/cardpulse/card-bot/pkg/types"
)

// promptPreamble is shared by every generator-backed strategy.
const promptPreamble = `You are a friendly Pokemon card collector replying on social media.
Write one short casual reply, under 200 characters.
Rules:
- no hashtags, no emojis, no quotation marks around the reply
- never invent prices, percentages, or market claims
- never mention being a bot or an AI
- sound like a hobbyist, not a brand account`

// buildThreadPrompt constructs the prompt for thread-aware replies,
// including only context actually captured from the thread.
func buildThreadPrompt(post *types.Post, priorExchanges []string) string {
	var b strings.Builder
	b.WriteString(promptPreamble)
	b.WriteString("\n\nYou are replying inside an ongoing conversation.\n")

	if len(post.ThreadMessages) > 0 {
		b.WriteString("Earlier messages in the thread:\n")
		for _, m := range post.ThreadMessages {
			fmt.Fprintf(&b, "- %s\n", m)
		}
	}
	if len(priorExchanges) > 0 {
		b.WriteString("Your past exchanges with this person:\n")
		for _, e := range priorExchanges {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}

	fmt.Fprintf(&b, "\nLatest message from @%s: %s\n", post.Author, post.Text)
	b.WriteString("Reply to the latest message, staying on the thread's topic.")
	return b.String()
}

// buildHumanLikePrompt constructs the prompt for casual showcase replies.
func buildHumanLikePrompt(post *types.Post, f types.Features) string {
	var b strings.Builder
	b.WriteString(promptPreamble)
	b.WriteString("\n\nSomeone is showing off a card or pull they're excited about.\n")
	fmt.Fprintf(&b, "Their post: %s\n", post.Text)
	if len(f.CardEntities) > 0 {
		fmt.Fprintf(&b, "Card mentioned: %s\n", f.CardEntities[0].Name)
	}
	b.WriteString("Share their excitement in one short sentence.")
	return b.String()
}

// buildFallbackPrompt constructs the generic-engagement prompt.
func buildFallbackPrompt(post *types.Post) string {
	var b strings.Builder
	b.WriteString(promptPreamble)
	b.WriteString("\n\nWrite a short friendly reply to this post:\n")
	b.WriteString(post.Text)
	return b.String()
}
