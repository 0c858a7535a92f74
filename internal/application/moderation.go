package application

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
)

// Verdict is the moderation outcome for a piece of content.
type Verdict struct {
	Allowed    bool     `json:"allowed"`
	Reason     string   `json:"reason"`
	Categories []string `json:"categories,omitempty"`
}

// Classifier is the external content-classification capability.
// Implementation lives in infrastructure/openai.
type Classifier interface {
	Classify(ctx context.Context, content string) (Verdict, error)
}

// Off-topic terms rejected outright, before the classifier is consulted.
var bannedTopics = []string{
	"pizza", "burger", "dating", "party", "football",
	"music", "movies", "politics", "gaming", "club",
	"concert", "festival",
}

// ContentGate runs the two-stage moderation pipeline: keyword gate first,
// then the classifier. When the classifier is unavailable the keyword
// verdict stands and the request still completes.
type ContentGate struct {
	classifier Classifier
}

// NewContentGate creates a ContentGate. classifier may be nil, in which
// case only the keyword gate applies.
func NewContentGate(classifier Classifier) *ContentGate {
	return &ContentGate{classifier: classifier}
}

// Check moderates content. A banned keyword rejects before any classifier
// call is attempted.
func (g *ContentGate) Check(ctx context.Context, content string) Verdict {
	if matched := matchBanned(content); len(matched) > 0 {
		return Verdict{
			Allowed:    false,
			Reason:     "Off-topic keyword detected (not school related)",
			Categories: matched,
		}
	}

	if g.classifier == nil {
		return Verdict{Allowed: true, Reason: "Allowed by keyword filter"}
	}

	v, err := g.classifier.Classify(ctx, content)
	if err != nil {
		log.Warn().Err(err).Msg("classifier unavailable, used fallback filter")
		return Verdict{Allowed: true, Reason: "Moderation unavailable, used fallback filter"}
	}
	return v
}

func matchBanned(content string) []string {
	lower := strings.ToLower(content)
	var matched []string
	for _, word := range bannedTopics {
		if strings.Contains(lower, word) {
			matched = append(matched, word)
		}
	}
	return matched
}
