package catalog

// QuickPick is a template bundled with the composer overlay for one-click
// insertion, keyed by slug.
type QuickPick struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Template    Template `json:"template"`
}

// QuickPicks returns the bundled one-click templates in display order.
func QuickPicks() []QuickPick {
	return quickPicks
}

// QuickPickBySlug looks up a bundled template by its slug.
func QuickPickBySlug(slug string) (QuickPick, bool) {
	for _, qp := range quickPicks {
		if qp.Slug == slug {
			return qp, true
		}
	}
	return QuickPick{}, false
}

var quickPicks = []QuickPick{
	{
		Slug:        "cold-outreach",
		Title:       "Cold Outreach",
		Description: "Professional introduction for new prospects",
		Template: Template{
			Subject: "Quick question about {{company}}",
			Content: `Hi {{first_name}},

I noticed that {{company}} is making waves in the {{industry}} industry, and I wanted to reach out.

I help companies like yours improve their outreach and lead generation processes. Would you be open to a quick chat about how we could potentially help {{company}} achieve similar results?

Best regards,
[Your name]`,
		},
	},
	{
		Slug:        "follow-up",
		Title:       "Follow-up",
		Description: "Gentle reminder for previous conversations",
		Template: Template{
			Subject: "Following up on our previous conversation",
			Content: `Hi {{first_name}},

I wanted to follow up on my previous email. I understand you're probably busy, but I'd love to hear your thoughts on how we could help {{company}} improve its outreach efforts.

Would you be open to a brief 15-minute call this week?

Best regards,
[Your name]`,
		},
	},
	{
		Slug:        "introduction",
		Title:       "Introduction",
		Description: "Connect with industry professionals",
		Template: Template{
			Subject: "Introduction from a fellow {{industry}} professional",
			Content: `Hi {{first_name}},

I hope this email finds you well. I'm reaching out because I noticed your work at {{company}} in the {{industry}} space.

I'd love to connect and learn more about your experience in the industry. Would you be open to a brief conversation?

Best regards,
[Your name]`,
		},
	},
}
