package scoring

import (
	"github.com/factchecker/truthlens/internal/models"
)

// Band is one of the three score ranges that select report wording.
type Band int

const (
	BandLow Band = iota
	BandMedium
	BandHigh
)

// Band thresholds, inclusive lower bounds.
const (
	HighThreshold   = 70
	MediumThreshold = 50
)

func (b Band) String() string {
	switch b {
	case BandHigh:
		return "high"
	case BandMedium:
		return "medium"
	default:
		return "low"
	}
}

// BandOf returns the band a score falls into.
func BandOf(score int) Band {
	switch {
	case score >= HighThreshold:
		return BandHigh
	case score >= MediumThreshold:
		return BandMedium
	default:
		return BandLow
	}
}

// tiered holds one string per band, indexed by Band.
type tiered [3]string

func (t tiered) pick(b Band) string { return t[b] }

type itemTemplate struct {
	title       string
	status      tiered
	description tiered
	floor       int
	offset      int
}

type kindTemplate struct {
	items       []itemTemplate
	sources     []models.SourceRef
	factStatus  tiered
	factSummary tiered
	factDetails [3][]string
}

// BuildReport maps a score and content kind to the fixed explanation,
// source and fact-check templates. It is deterministic.
func BuildReport(score int, kind models.ContentKind) models.Assessment {
	tpl, ok := templates[kind]
	if !ok {
		tpl = templates[models.KindText]
	}
	band := BandOf(score)

	explanation := make([]models.ExplanationItem, 0, len(tpl.items))
	for _, it := range tpl.items {
		explanation = append(explanation, models.ExplanationItem{
			Title:       it.title,
			Status:      it.status.pick(band),
			Description: it.description.pick(band),
			Confidence:  max(it.floor, score-it.offset),
		})
	}

	sources := make([]models.SourceRef, len(tpl.sources))
	copy(sources, tpl.sources)

	details := make([]string, len(tpl.factDetails[band]))
	copy(details, tpl.factDetails[band])

	return models.Assessment{
		Credibility: score,
		Explanation: explanation,
		Sources:     sources,
		FactCheck: models.FactCheckSummary{
			Status:  tpl.factStatus.pick(band),
			Summary: tpl.factSummary.pick(band),
			Details: details,
		},
	}
}

// Tiered strings are ordered low, medium, high.
var templates = map[models.ContentKind]kindTemplate{
	models.KindText: {
		items: []itemTemplate{
			{
				title:  "Source Verification",
				status: tiered{"Unverified", "Partially Verified", "Verified"},
				description: tiered{
					"The source appears unreliable or unverified.",
					"The source shows some credibility indicators but requires further verification.",
					"The source has been verified as a legitimate news outlet with a good track record.",
				},
				floor: 60, offset: 10,
			},
			{
				title:  "Factual Accuracy",
				status: tiered{"Questionable", "Mixed Accuracy", "Mostly Accurate"},
				description: tiered{
					"Multiple inaccuracies or unverified claims detected.",
					"Some facts appear accurate while others require verification.",
					"Key facts in the content have been cross-referenced with multiple reliable sources.",
				},
				floor: 50, offset: 15,
			},
			{
				title:  "Bias Detection",
				status: tiered{"High Bias", "Moderate Bias", "Minimal Bias"},
				description: tiered{
					"Content shows significant bias and one-sided reporting.",
					"Content shows some bias but presents multiple perspectives.",
					"Content shows minimal political or ideological bias.",
				},
				floor: 40, offset: 20,
			},
		},
		sources: []models.SourceRef{
			{Name: "Reuters", Credibility: models.CredibilityHigh, URL: "https://reuters.com"},
			{Name: "Associated Press", Credibility: models.CredibilityHigh, URL: "https://ap.org"},
			{Name: "BBC News", Credibility: models.CredibilityHigh, URL: "https://bbc.com"},
		},
		factStatus: tiered{"Unverified", "Partially Verified", "Verified"},
		factSummary: tiered{
			"This information has not been verified and may contain inaccuracies.",
			"Some claims have been verified while others require further investigation.",
			"This information has been fact-checked and verified by multiple independent sources.",
		},
		factDetails: [3][]string{
			{
				"No verification by independent fact-checkers",
				"Multiple contradictory sources found",
				"Source material difficult to verify",
			},
			{
				"Partial verification by fact-checking organizations",
				"Some contradictory evidence found",
				"Source material partially verifiable",
			},
			{
				"Claim verified by 3 independent fact-checking organizations",
				"No contradictory evidence found",
				"Source material is publicly available and verifiable",
			},
		},
	},
	models.KindImage: {
		items: []itemTemplate{
			{
				title:  "Image Authenticity",
				status: tiered{"Suspicious", "Likely Authentic", "Authentic"},
				description: tiered{
					"Signs of potential digital manipulation detected.",
					"Minor inconsistencies detected but image appears mostly authentic.",
					"No signs of digital manipulation detected in the image.",
				},
				floor: 60, offset: 5,
			},
			{
				title:  "Metadata Analysis",
				status: tiered{"Inconsistent", "Mostly Consistent", "Consistent"},
				description: tiered{
					"Metadata shows significant inconsistencies suggesting manipulation.",
					"Metadata shows some inconsistencies but overall appears legitimate.",
					"Image metadata appears consistent with the claimed source and date.",
				},
				floor: 50, offset: 10,
			},
			{
				title:  "Reverse Image Search",
				status: tiered{"Duplicates Found", "Mostly Unique", "Unique"},
				description: tiered{
					"Multiple duplicate or similar images found in reverse search.",
					"Some similar images found but no exact duplicates.",
					"No duplicate images found in reverse search results.",
				},
				floor: 40, offset: 15,
			},
		},
		sources: []models.SourceRef{
			{Name: "Google Images", Credibility: models.CredibilityHigh, URL: "https://images.google.com"},
			{Name: "TinEye", Credibility: models.CredibilityHigh, URL: "https://tineye.com"},
		},
		factStatus: tiered{"Suspicious", "Likely Authentic", "Authentic"},
		factSummary: tiered{
			"Image shows signs of potential manipulation or editing.",
			"Image appears mostly authentic with minor concerns.",
			"Image appears to be authentic with no signs of manipulation.",
		},
		factDetails: [3][]string{
			{
				"Clear evidence of digital manipulation",
				"Metadata has been modified or is inconsistent",
				"Image has been used in multiple misleading contexts",
			},
			{
				"Minor evidence of potential editing",
				"Metadata shows some inconsistencies",
				"Image has been used in some questionable contexts",
			},
			{
				"No evidence of digital editing found",
				"Metadata is consistent and unmodified",
				"Image has not been previously used in misleading contexts",
			},
		},
	},
	models.KindVideo: {
		items: []itemTemplate{
			{
				title:  "Video Authenticity",
				status: tiered{"Likely Manipulated", "Likely Authentic", "Authentic"},
				description: tiered{
					"Signs of potential deepfake or video manipulation detected.",
					"Minor inconsistencies detected but video appears mostly authentic.",
					"No signs of deepfake or video manipulation detected.",
				},
				floor: 50, offset: 10,
			},
			{
				title:  "Audio Analysis",
				status: tiered{"Suspicious", "Mostly Natural", "Natural"},
				description: tiered{
					"Audio patterns suggest possible synthesis or editing.",
					"Audio shows some inconsistencies but appears mostly natural.",
					"Audio patterns appear natural and consistent.",
				},
				floor: 40, offset: 15,
			},
			{
				title:  "Frame Analysis",
				status: tiered{"Inconsistent", "Mostly Consistent", "Consistent"},
				description: tiered{
					"Inconsistencies detected in facial features and lighting.",
					"Minor inconsistencies in facial features and lighting.",
					"Facial features and lighting appear consistent throughout.",
				},
				floor: 30, offset: 20,
			},
		},
		sources: []models.SourceRef{
			{Name: "Deepfake Detection AI", Credibility: models.CredibilityHigh, URL: "https://deepfake-detection.ai"},
			{Name: "Video Forensics Lab", Credibility: models.CredibilityHigh, URL: "https://video-forensics.org"},
		},
		factStatus: tiered{"Likely Manipulated", "Likely Authentic", "Authentic"},
		factSummary: tiered{
			"This video shows signs of potential manipulation or deepfake technology.",
			"Video appears mostly authentic with minor concerns.",
			"Video appears to be authentic with no signs of manipulation.",
		},
		factDetails: [3][]string{
			{
				"Facial features show inconsistencies typical of deepfake generation",
				"Audio-visual synchronization appears artificial",
				"Recommended to verify with original source",
			},
			{
				"Minor evidence of potential manipulation",
				"Audio-visual synchronization mostly natural",
				"Some inconsistencies in facial features",
			},
			{
				"No evidence of deepfake technology detected",
				"Audio-visual synchronization appears natural",
				"Facial features remain consistent throughout",
			},
		},
	},
}
