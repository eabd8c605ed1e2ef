package policy

// FeedbackBuckets holds the spoken reactions to a scored answer, one bucket per band.
type FeedbackBuckets struct {
	Excellent []string `yaml:"excellent" json:"excellent"`
	Good      []string `yaml:"good" json:"good"`
	Adequate  []string `yaml:"adequate" json:"adequate"`
	Weak      []string `yaml:"weak" json:"weak"`
}

func DefaultFeedback() FeedbackBuckets {
	return FeedbackBuckets{
		Excellent: []string{
			"Excellent answer, that was very clear.",
			"Great explanation, you clearly know this part of your project well.",
			"Very well put. Let's keep going.",
		},
		Good: []string{
			"Good answer, thank you.",
			"That makes sense, nicely explained.",
			"Good, that covers the main points.",
		},
		Adequate: []string{
			"Okay, thanks for that.",
			"Alright, I understand the general idea.",
			"Thanks, that gives me a rough picture.",
		},
		Weak: []string{
			"Thanks for trying. Let's move on.",
			"No problem, let's continue with the next one.",
			"Okay, let's look at something else.",
		},
	}
}

// Bucket selects the band for a score: >=8 excellent, >=6 good, >=4 adequate, else weak.
func (b FeedbackBuckets) Bucket(score float64) []string {
	switch {
	case score >= 8:
		return b.Excellent
	case score >= 6:
		return b.Good
	case score >= 4:
		return b.Adequate
	default:
		return b.Weak
	}
}

// Merge fills empty buckets in b from fallback.
func (b FeedbackBuckets) Merge(fallback FeedbackBuckets) FeedbackBuckets {
	if len(b.Excellent) == 0 {
		b.Excellent = fallback.Excellent
	}
	if len(b.Good) == 0 {
		b.Good = fallback.Good
	}
	if len(b.Adequate) == 0 {
		b.Adequate = fallback.Adequate
	}
	if len(b.Weak) == 0 {
		b.Weak = fallback.Weak
	}
	return b
}

// FeedbackFor draws one message from the score's bucket using choose.
func FeedbackFor(score float64, buckets FeedbackBuckets, choose Chooser) string {
	bucket := buckets.Bucket(score)
	if len(bucket) == 0 {
		return ""
	}
	if choose == nil {
		choose = RandomChooser()
	}
	i := choose(len(bucket))
	if i < 0 || i >= len(bucket) {
		i = 0
	}
	return bucket[i]
}
