package sourcery

// GenerateRequest asks the server for a template matching a free-text
// prompt. Exclude lists variant indices already shown in the current
// generation session.
type GenerateRequest struct {
	Prompt  string `json:"prompt"`
	Exclude []int  `json:"exclude,omitempty"`
}

// GeneratedTemplate is a resolved template variant.
type GeneratedTemplate struct {
	Subject string `json:"subject"`
	Content string `json:"content"`
	// TemplateIndex identifies the variant within its category so the
	// caller can extend its exclusion set.
	TemplateIndex int `json:"templateIndex"`
	// HasMore reports whether an unseen variant remains; it is also true
	// on wrap-around, telling the caller to reset its exclusion set.
	HasMore bool `json:"hasMore"`
}
