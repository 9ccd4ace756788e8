package llm

import (
	"fmt"
	"strings"
)

// contentSchemaExample is embedded in the copywriter prompt so the model in
// json_object mode reliably produces every field.
const contentSchemaExample = `{
  "title": "Attention-grabbing title",
  "body": "Full post text, formatted for the platform",
  "hashtags": ["#relevant", "#hashtags"],
  "hook_analysis": "Why the opening hook works for this audience",
  "value_proposition": "The concrete value the reader gets",
  "call_to_action": "What the reader should do next",
  "estimated_performance": "Expected engagement level with reasoning"
}`

const ideasSchemaExample = `{
  "ideas": [
    {
      "topic": "Content topic",
      "angle": "Specific angle or framing",
      "trending_factor": "Why this resonates right now"
    }
  ]
}`

// Chat agent identifiers. Each gets its own persona prompt.
const (
	AgentCopywriter = "copywriter"
	AgentStrategist = "strategist"
	AgentEditor     = "editor"
)

var agentPrompts = map[string]string{
	AgentCopywriter: "You are an expert social media copywriter. Help the user draft, rewrite and polish content. Answer concisely and always offer a concrete next version of the text rather than abstract advice.",
	AgentStrategist: "You are a content marketing strategist. Help the user plan campaigns, pick platforms and build a content calendar grounded in their brand profile and goals.",
	AgentEditor:     "You are a meticulous editor. Improve clarity, structure and tone of the user's drafts while preserving their voice. Point out the specific changes you made.",
}

// AgentSystemPrompt returns the persona prompt for the given agent, falling
// back to the copywriter persona for unknown names.
func AgentSystemPrompt(agent string, profile BrandProfile) string {
	prompt, ok := agentPrompts[agent]
	if !ok {
		prompt = agentPrompts[AgentCopywriter]
	}
	return prompt + "\n\n" + profileSection(profile)
}

// ContentSystemPrompt builds the copywriter prompt for structured generation.
func ContentSystemPrompt(input GenerationInput) string {
	var b strings.Builder

	b.WriteString("You are an expert social media content creator and copywriter.\n")
	b.WriteString(profileSection(input.Profile))
	b.WriteString("\n\nTask:\n")
	fmt.Fprintf(&b, "- Platform: %s\n", input.Platform)
	fmt.Fprintf(&b, "- Content type: %s\n", input.ContentType)
	if input.Tone != "" {
		fmt.Fprintf(&b, "- Tone: %s\n", input.Tone)
	}
	if input.TargetAudience != "" {
		fmt.Fprintf(&b, "- Target audience: %s\n", input.TargetAudience)
	}

	b.WriteString("\nRespond with a single JSON object exactly matching this structure:\n")
	b.WriteString(contentSchemaExample)
	b.WriteString("\nAll fields are required. Do not wrap the JSON in markdown fences.")

	return b.String()
}

// IdeasSystemPrompt builds the prompt for content idea suggestions.
func IdeasSystemPrompt(profile BrandProfile, platform string, count int) string {
	var b strings.Builder

	b.WriteString("You are a content marketing strategist generating fresh content ideas.\n")
	b.WriteString(profileSection(profile))
	fmt.Fprintf(&b, "\n\nSuggest %d distinct content ideas", count)
	if platform != "" {
		fmt.Fprintf(&b, " for %s", platform)
	}
	b.WriteString(".\n\nRespond with a single JSON object exactly matching this structure:\n")
	b.WriteString(ideasSchemaExample)
	b.WriteString("\nDo not wrap the JSON in markdown fences.")

	return b.String()
}

func profileSection(p BrandProfile) string {
	var b strings.Builder

	b.WriteString("Brand profile:\n")
	if p.Industry != "" {
		fmt.Fprintf(&b, "- Industry: %s\n", p.Industry)
	}
	if p.CoreMessage != "" {
		fmt.Fprintf(&b, "- Core message: %s\n", p.CoreMessage)
	}
	if p.BrandVoiceTone != "" {
		fmt.Fprintf(&b, "- Brand voice: %s\n", p.BrandVoiceTone)
	}
	if p.WritingStyle != "" {
		fmt.Fprintf(&b, "- Writing style: %s\n", p.WritingStyle)
	}
	if len(p.TargetAudiences) > 0 {
		fmt.Fprintf(&b, "- Target audiences: %s\n", strings.Join(p.TargetAudiences, ", "))
	}
	if len(p.ContentPillars) > 0 {
		fmt.Fprintf(&b, "- Content pillars: %s\n", strings.Join(p.ContentPillars, ", "))
	}
	if len(p.PreferredPlatforms) > 0 {
		fmt.Fprintf(&b, "- Preferred platforms: %s\n", strings.Join(p.PreferredPlatforms, ", "))
	}
	if p.PrimaryGoal != "" {
		fmt.Fprintf(&b, "- Primary goal: %s\n", p.PrimaryGoal)
	}

	return b.String()
}
