// Package scoring implements the local credibility heuristic used when no
// remote provider is configured or a remote call fails.
package scoring

import (
	"math/rand/v2"
	"strings"
	"unicode/utf8"

	"github.com/factchecker/truthlens/internal/models"
)

// Score bounds for generated results.
const (
	MinScore = 10
	MaxScore = 95

	// NoiseRange is the half-width of the uniform perturbation added to every score.
	NoiseRange = 10
)

const (
	textBaseline  = 50
	imageBaseline = 75
	videoBaseline = 40

	suspiciousPenalty = 30
	credibleBonus     = 25
	trustedLinkBonus  = 20
	socialLinkPenalty = 15
	lengthAdjustment  = 10

	shortTextRunes = 50
	longTextRunes  = 200
)

var (
	suspiciousPhrases = []string{
		"urgent", "breaking", "shocking", "exclusive",
		"you won't believe", "doctors hate", "one weird trick",
	}
	crediblePhrases = []string{
		"according to", "research shows", "study published",
		"official statement", "verified", "confirmed",
	}
	trustedDomains = []string{"reuters.com", "bbc.com", "ap.org"}
	socialDomains  = []string{"facebook.com", "twitter.com"}
)

// RandomSource supplies uniform integers in [0, n).
type RandomSource interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource is backed by math/rand/v2's global generator, which is safe
// for concurrent use.
var DefaultSource RandomSource = globalSource{}

// Scorer computes credibility scores.
type Scorer struct {
	rnd RandomSource
}

// NewScorer creates a scorer. A nil source selects DefaultSource.
func NewScorer(rnd RandomSource) *Scorer {
	if rnd == nil {
		rnd = DefaultSource
	}
	return &Scorer{rnd: rnd}
}

// Score returns the credibility of content of the given kind, in [MinScore, MaxScore].
// The result is noisy: a uniform integer in [-NoiseRange, NoiseRange] is added
// to the baseline before clamping.
func (s *Scorer) Score(content string, kind models.ContentKind) int {
	return Clamp(Baseline(content, kind) + s.Perturbation())
}

// Perturbation draws the random term added to every score.
func (s *Scorer) Perturbation() int {
	return s.rnd.IntN(2*NoiseRange+1) - NoiseRange
}

// Analyze scores content and renders the matching report templates.
func (s *Scorer) Analyze(content string, kind models.ContentKind) models.Assessment {
	return BuildReport(s.Score(content, kind), kind)
}

// Baseline returns the score before the random perturbation and clamping.
func Baseline(content string, kind models.ContentKind) int {
	switch kind {
	case models.KindImage:
		return imageBaseline
	case models.KindVideo:
		return videoBaseline
	case models.KindText:
		return textBaseline + textAdjustment(content)
	default:
		return textBaseline
	}
}

func textAdjustment(content string) int {
	lower := strings.ToLower(content)
	delta := 0

	if containsAny(lower, suspiciousPhrases) {
		delta -= suspiciousPenalty
	}
	if containsAny(lower, crediblePhrases) {
		delta += credibleBonus
	}

	// Domain checks run on the raw content, as submitted.
	if strings.Contains(content, "http") {
		if containsAny(content, trustedDomains) {
			delta += trustedLinkBonus
		} else if containsAny(content, socialDomains) {
			delta -= socialLinkPenalty
		}
	}

	n := utf8.RuneCountInString(content)
	if n < shortTextRunes {
		delta -= lengthAdjustment
	}
	if n > longTextRunes {
		delta += lengthAdjustment
	}
	return delta
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// Clamp bounds a score to [MinScore, MaxScore].
func Clamp(score int) int {
	return max(MinScore, min(MaxScore, score))
}
