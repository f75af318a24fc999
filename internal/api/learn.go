package api

// Quiz is a multiple-choice question. Correct indexes Options.
type Quiz struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  int      `json:"correct"`
}

// LearnCard is one lesson within a topic.
type LearnCard struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Quiz    Quiz   `json:"quiz"`
}

// LearnTopic groups lesson cards.
type LearnTopic struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Cards       []LearnCard `json:"cards"`
}

// LearnContent is the educational document served by /api/learn.
type LearnContent struct {
	Topics []LearnTopic `json:"topics"`
}

var learnContent = LearnContent{
	Topics: []LearnTopic{
		{
			ID:          1,
			Title:       "Understanding Misinformation",
			Description: "Learn how to identify and combat false information",
			Cards: []LearnCard{
				{
					Title:   "Types of Misinformation",
					Content: "Misinformation can be classified into several categories: disinformation (intentionally false), misinformation (unintentionally false), and malinformation (true information used to harm).",
					Quiz: Quiz{
						Question: "What is the difference between disinformation and misinformation?",
						Options: []string{
							"Disinformation is always false, misinformation is sometimes true",
							"Disinformation is intentional, misinformation is unintentional",
							"There is no difference",
							"Disinformation is digital, misinformation is analog",
						},
						Correct: 1,
					},
				},
				{
					Title:   "Source Verification",
					Content: "Always check the source of information. Look for author credentials, publication date, and whether the source has a history of accuracy.",
					Quiz: Quiz{
						Question: "What should you check when verifying a source?",
						Options: []string{
							"Only the publication date",
							"Author credentials and publication history",
							"Only the website design",
							"The number of social media shares",
						},
						Correct: 1,
					},
				},
			},
		},
		{
			ID:          2,
			Title:       "Deepfake Detection",
			Description: "Learn to identify manipulated media content",
			Cards: []LearnCard{
				{
					Title:   "Visual Cues",
					Content: "Look for inconsistencies in facial features, lighting, shadows, and reflections. Deepfakes often have subtle artifacts around the face and eyes.",
					Quiz: Quiz{
						Question: "What are common signs of deepfake videos?",
						Options: []string{
							"Perfect lighting and shadows",
							"Inconsistencies in facial features",
							"High video quality",
							"Professional editing",
						},
						Correct: 1,
					},
				},
			},
		},
	},
}
