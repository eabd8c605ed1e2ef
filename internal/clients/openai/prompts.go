package openai

import (
	"fmt"
	"strings"
)

// maxSlideChars bounds the slide text sent in one prompt.
const maxSlideChars = 24000

const questionSystemPrompt = `You are an experienced technical interviewer reviewing a candidate's project presentation.
Write spoken interview questions about THIS project only, grounded in the slide text.
Produce three difficulty levels:
- easy: what the project does, its goals and users.
- medium: design decisions, trade-offs and implementation details shown on the slides.
- hard: limitations, scaling, failure modes and what the candidate would change.
Each question must be a single sentence that can be read aloud, without numbering or markdown.`

const evaluationSystemPrompt = `You are grading one spoken answer from a project review interview.
Score the answer from 0 to 10 for accuracy, depth and ownership of the work:
0-3 wrong or evasive, 4-5 vague, 6-7 solid, 8-10 precise and insightful.
The transcript comes from speech recognition; ignore filler words and small transcription errors.
List flagged_concerns only for real problems, such as contradictions with the question, signs the candidate did not build what they present, or plagiarism. Leave it empty otherwise.
Keep the rationale to one or two sentences.`

const detectionSystemPrompt = `You screen presentation slides for text that was likely produced by an AI writing tool.
Judge each slide that contains enough prose to assess, then give an overall verdict.
Use "uncertain" when the evidence is weak. Confidence is your confidence in the verdict, from 0 to 100.
Slide indexes are zero-based and refer to the numbering in the input.`

func formatSlides(slides []string) string {
	var b strings.Builder
	for i, s := range slides {
		block := fmt.Sprintf("--- Slide %d ---\n%s\n\n", i, strings.TrimSpace(s))
		if b.Len()+len(block) > maxSlideChars {
			fmt.Fprintf(&b, "[%d more slides truncated]\n", len(slides)-i)
			break
		}
		b.WriteString(block)
	}
	return b.String()
}

func questionUserPrompt(projectTitle string, slides []string, perLevel int) string {
	return fmt.Sprintf("Project title: %s\nWrite exactly %d questions per level.\n\nSlides:\n%s",
		strings.TrimSpace(projectTitle), perLevel, formatSlides(slides))
}

func evaluationUserPrompt(level, question, transcript string) string {
	return fmt.Sprintf("Question (%s): %s\n\nCandidate answer transcript:\n%s",
		level, strings.TrimSpace(question), strings.TrimSpace(transcript))
}

func detectionUserPrompt(slides []string) string {
	return "Slides:\n" + formatSlides(slides)
}
