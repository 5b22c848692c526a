package ai

import "strings"

func evaluatorSystemPrompt(skill string) string {
	return "You are an experienced IELTS " + skill + " examiner. Estimate the band (0-9, half bands allowed) of the " +
		"candidate response. Respond with a JSON object containing band, feedback, and a criteria object mapping each " +
		"official assessment criterion to its band. Return JSON only."
}

func buildUserPrompt(input EvaluationInput) string {
	builder := strings.Builder{}
	builder.WriteString("# Skill\n")
	builder.WriteString(input.Skill)
	if input.Part != "" {
		builder.WriteString("\n\n## Part\n")
		builder.WriteString(input.Part)
	}
	builder.WriteString("\n\n## Prompt\n")
	builder.WriteString(input.Prompt)
	builder.WriteString("\n\n## Candidate Response\n")
	builder.WriteString(input.Response)
	builder.WriteString("\nReturn JSON.")
	return builder.String()
}
