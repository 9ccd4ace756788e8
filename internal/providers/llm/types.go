package llm

// GeneratedContent is the structured post the model must return.
type GeneratedContent struct {
	Title                string   `json:"title"`
	Body                 string   `json:"body"`
	Hashtags             []string `json:"hashtags"`
	HookAnalysis         string   `json:"hook_analysis"`
	ValueProposition     string   `json:"value_proposition"`
	CallToAction         string   `json:"call_to_action"`
	EstimatedPerformance string   `json:"estimated_performance"`
}

// Idea is a single content idea suggestion.
type Idea struct {
	Topic          string `json:"topic"`
	Angle          string `json:"angle"`
	TrendingFactor string `json:"trending_factor"`
}

// IdeaList is the envelope the ideas prompt asks the model for.
type IdeaList struct {
	Ideas []Idea `json:"ideas"`
}

// ChatMessage is one turn of a chat-completions conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// BrandProfile carries the user attributes woven into system prompts.
type BrandProfile struct {
	Industry           string
	CoreMessage        string
	BrandVoiceTone     string
	WritingStyle       string
	TargetAudiences    []string
	ContentPillars     []string
	PreferredPlatforms []string
	PrimaryGoal        string
}

// GenerationInput describes one content generation request.
type GenerationInput struct {
	Platform       string
	ContentType    string
	Topic          string
	TargetAudience string
	Tone           string
	Profile        BrandProfile
}
