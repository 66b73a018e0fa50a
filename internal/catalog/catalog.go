package catalog

import "strings"

// Category is one of the fixed intent buckets a prompt resolves to.
type Category string

const (
	CategorySales        Category = "sales"
	CategoryMarketing    Category = "marketing"
	CategoryPartnership  Category = "partnership"
	CategoryIntroduction Category = "introduction"
	CategoryFollowup     Category = "followup"
)

// Categories lists every known category.
var Categories = []Category{
	CategorySales,
	CategoryMarketing,
	CategoryPartnership,
	CategoryIntroduction,
	CategoryFollowup,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategorySales, CategoryMarketing, CategoryPartnership, CategoryIntroduction, CategoryFollowup:
		return true
	}
	return false
}

// Template is a (subject, content) pair. Content may contain placeholder
// tokens of the form {{identifier}} and the literal signature slot
// "[Your name]".
type Template struct {
	Subject string `json:"subject"`
	Content string `json:"content"`
}

// SignatureSlot is the literal replaced with a sender name at resolution time.
const SignatureSlot = "[Your name]"

// SenderNames is the pool a resolved template's signature is drawn from.
var SenderNames = []string{"Alex", "Sam", "Jordan", "Taylor"}

// Variants returns the ordered variant list for a category. Unknown
// categories fall back to the introduction variants, mirroring the
// classifier's default bucket.
func Variants(c Category) []Template {
	if v, ok := variants[c]; ok {
		return v
	}
	return variants[CategoryIntroduction]
}

// Fields holds the contact attributes available for placeholder substitution.
type Fields struct {
	FirstName string
	LastName  string
	Email     string
	Company   string
	Industry  string
}

// Substitute replaces every {{token}} placeholder in s with the matching
// contact field. Unknown tokens and the signature slot are left untouched.
func Substitute(s string, f Fields) string {
	r := strings.NewReplacer(
		"{{first_name}}", f.FirstName,
		"{{last_name}}", f.LastName,
		"{{email}}", f.Email,
		"{{company}}", f.Company,
		"{{industry}}", f.Industry,
	)
	return r.Replace(s)
}

var variants = map[Category][]Template{
	CategorySales: {
		{
			Subject: "Improving {{company}}'s sales performance",
			Content: `Hi {{first_name}},

I've been following {{company}}'s growth in the {{industry}} space, and I noticed an opportunity to potentially improve your sales performance.

Our platform has helped similar companies in the {{industry}} sector increase their conversion rates by 25-30% through automated, personalized outreach.

Would you be open to a quick 15-minute call this week to discuss how we could help {{company}} achieve similar results?

Best regards,
[Your name]`,
		},
		{
			Subject: "Boost {{company}}'s revenue with proven strategies",
			Content: `Hi {{first_name}},

I've been researching companies in the {{industry}} sector and was particularly impressed by {{company}}'s approach to market challenges.

We specialize in helping {{industry}} companies optimize their sales processes, and our clients typically see:
• 40% increase in qualified leads
• 2x faster sales cycle
• 25% higher close rates

I'd love to share some specific ideas for {{company}}. Would you be open to a brief call this week?

Best regards,
[Your name]`,
		},
		{
			Subject: "Quick idea for {{company}}'s sales growth",
			Content: `Hi {{first_name}},

I noticed {{company}}'s recent expansion in the {{industry}} market and wanted to reach out with a specific opportunity.

We've developed a unique approach that has helped similar companies in the {{industry}} space achieve remarkable sales growth:
• Automated lead qualification
• Personalized engagement sequences
• AI-powered conversion optimization

Could we schedule a 15-minute call to explore how these strategies might benefit {{company}}?

Best regards,
[Your name]`,
		},
	},
	CategoryMarketing: {
		{
			Subject: "Enhancing {{company}}'s marketing strategy",
			Content: `Hi {{first_name}},

I came across {{company}}'s marketing initiatives in the {{industry}} space and wanted to reach out with some ideas.

We've developed innovative strategies that have helped companies like yours in the {{industry}} sector achieve:
• 40% increase in engagement rates
• 2x improvement in lead quality
• Significant reduction in customer acquisition costs

Would you be interested in learning how we could adapt these strategies for {{company}}?

Best regards,
[Your name]`,
		},
		{
			Subject: "Transform {{company}}'s digital presence",
			Content: `Hi {{first_name}},

Your recent marketing campaigns at {{company}} caught my attention, and I see tremendous potential for growth in the {{industry}} space.

We've pioneered a data-driven approach that has delivered exceptional results for similar companies:
• 3x increase in organic reach
• 45% higher conversion rates
• Substantial ROI improvement

I'd love to share some specific insights about how we could amplify {{company}}'s market presence.

Best regards,
[Your name]`,
		},
		{
			Subject: "Innovative marketing solutions for {{company}}",
			Content: `Hi {{first_name}},

I've been following {{company}}'s growth in the {{industry}} sector and noticed an opportunity to significantly enhance your market impact.

Our team has developed cutting-edge strategies that combine:
• AI-powered audience targeting
• Advanced analytics and optimization
• Multi-channel campaign automation

Would you be interested in discussing how these approaches could benefit {{company}}?

Best regards,
[Your name]`,
		},
	},
	CategoryPartnership: {
		{
			Subject: "Strategic partnership opportunity - {{company}}",
			Content: `Hi {{first_name}},

I'm reaching out because I see tremendous potential for collaboration between our companies in the {{industry}} sector.

{{company}}'s innovative approach aligns perfectly with our vision, and I believe a strategic partnership could create significant value for both organizations.

I'd love to schedule a brief call to explore potential synergies and discuss how we could work together to achieve mutual growth.

Best regards,
[Your name]`,
		},
		{
			Subject: "Collaboration opportunity with {{company}}",
			Content: `Hi {{first_name}},

I've been impressed by {{company}}'s achievements in the {{industry}} space and believe there's a unique opportunity for us to create something exceptional together.

Our complementary strengths in the {{industry}} sector could lead to:
• Expanded market reach
• Enhanced product offerings
• Accelerated innovation

Would you be open to exploring this potential partnership?

Best regards,
[Your name]`,
		},
		{
			Subject: "Let's create something amazing together",
			Content: `Hi {{first_name}},

{{company}}'s reputation for excellence in the {{industry}} sector is well-known, and I believe we have a unique opportunity to combine our strengths.

I envision a partnership that could:
• Drive revolutionary innovation
• Capture new market opportunities
• Deliver unprecedented value to customers

Could we schedule a brief call to discuss this potential collaboration?

Best regards,
[Your name]`,
		},
	},
	CategoryIntroduction: {
		{
			Subject: "Quick introduction from a fellow {{industry}} professional",
			Content: `Hi {{first_name}},

I hope this email finds you well. I recently came across {{company}} and was impressed by your contributions to the {{industry}} industry.

I lead a team that specializes in helping companies like yours streamline their operations and accelerate growth. Some of our clients in the {{industry}} space have seen remarkable improvements in their key metrics.

Would you be open to a brief conversation about how we might be able to add similar value to {{company}}?

Best regards,
[Your name]`,
		},
		{
			Subject: "Connecting with {{company}} - {{industry}} innovation",
			Content: `Hi {{first_name}},

Your work at {{company}} in the {{industry}} space has caught my attention, particularly your innovative approach to industry challenges.

I've spent years helping companies in the {{industry}} sector optimize their operations and achieve sustainable growth. I believe my experience could be valuable to {{company}}'s continued success.

Would you be interested in connecting for a brief discussion?

Best regards,
[Your name]`,
		},
		{
			Subject: "Reaching out from the {{industry}} community",
			Content: `Hi {{first_name}},

I came across {{company}}'s recent developments in the {{industry}} sector and was genuinely impressed by your forward-thinking approach.

Having worked with several leading companies in this space, I see some interesting opportunities for {{company}} to further strengthen its market position.

Could we schedule a quick call to exchange ideas and explore potential collaboration?

Best regards,
[Your name]`,
		},
	},
	CategoryFollowup: {
		{
			Subject: "Following up - {{company}} opportunity",
			Content: `Hi {{first_name}},

I wanted to follow up on my previous email about helping {{company}} optimize its operations in the {{industry}} space.

I understand you're likely busy, but I truly believe we could provide significant value to your team. We've recently helped another {{industry}} company achieve:
• 35% efficiency improvement
• 45% cost reduction
• 60% faster time-to-market

Would you be open to a quick 15-minute call this week to discuss these possibilities?

Best regards,
[Your name]`,
		},
		{
			Subject: "Quick check-in about {{company}}'s growth",
			Content: `Hi {{first_name}},

I'm following up on my previous message regarding potential opportunities for {{company}} in the {{industry}} sector.

Since my last email, we've achieved some remarkable results with similar companies:
• Streamlined operations
• Increased productivity
• Enhanced market presence

I'd love to share these insights with you. Would you have 15 minutes for a quick discussion?

Best regards,
[Your name]`,
		},
		{
			Subject: "Re: {{company}} - Let's connect",
			Content: `Hi {{first_name}},

I hope you've had a chance to review my previous message about helping {{company}} excel in the {{industry}} space.

I understand how busy things can get, but I believe a brief conversation could be incredibly valuable. Our recent client success stories in the {{industry}} sector have been remarkable.

Would you be open to a short call this week to explore these opportunities?

Best regards,
[Your name]`,
		},
	},
}
