package scoring

import (
	"github.com/factchecker/truthlens/internal/models"
)

// Deepfake detection is a placeholder: the verdict and sub-scores are drawn
// at random and carry no signal about the uploaded media.
const (
	manipulatedPercent = 40
	minDeepfakeConf    = 60
	maxDeepfakeConf    = 100
	maxSubScore        = 100
)

var (
	manipulatedAdvice = []string{
		"Verify with original source",
		"Check multiple angles",
		"Look for inconsistencies",
	}
	authenticAdvice = []string{
		"Appears authentic",
		"No major red flags detected",
		"Consider source verification",
	}
)

// DeepfakeVerdict is the synthetic outcome of a deepfake check.
type DeepfakeVerdict struct {
	IsManipulated   bool
	Confidence      int
	Analysis        models.DeepfakeAnalysis
	Recommendations []string
}

// DetectDeepfake draws a synthetic verdict. The media itself is not inspected.
func (s *Scorer) DetectDeepfake() DeepfakeVerdict {
	manipulated := s.rnd.IntN(100) < manipulatedPercent
	return DeepfakeVerdict{
		IsManipulated: manipulated,
		Confidence:    minDeepfakeConf + s.rnd.IntN(maxDeepfakeConf-minDeepfakeConf+1),
		Analysis: models.DeepfakeAnalysis{
			FacialConsistency:   s.rnd.IntN(maxSubScore + 1),
			AudioSync:           s.rnd.IntN(maxSubScore + 1),
			LightingConsistency: s.rnd.IntN(maxSubScore + 1),
			TemporalConsistency: s.rnd.IntN(maxSubScore + 1),
		},
		Recommendations: Recommendations(manipulated),
	}
}

// Recommendations returns the fixed advice list for a verdict.
func Recommendations(manipulated bool) []string {
	src := authenticAdvice
	if manipulated {
		src = manipulatedAdvice
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// ClampConfidence bounds a deepfake verdict confidence to [60, 100].
func ClampConfidence(v int) int {
	return max(minDeepfakeConf, min(maxDeepfakeConf, v))
}

// ClampPercent bounds v to [0, 100].
func ClampPercent(v int) int {
	return max(0, min(100, v))
}
