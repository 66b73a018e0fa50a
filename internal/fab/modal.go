package fab

import (
	"slices"
	"strings"

	"github.com/sourcery-io/sourcery/internal/catalog"
	"github.com/sourcery-io/sourcery/internal/dom"
	"github.com/sourcery-io/sourcery/internal/extension"
	sourcery "github.com/sourcery-io/sourcery/sdk/go"
)

// Element ids inside the AI generation modal.
const (
	PromptInputID      = "sourcery-ai-prompt"
	GenerateButtonID   = "sourcery-generate-template"
	RegenerateButtonID = "sourcery-regenerate"
	UseTemplateID      = "sourcery-use-template"
	ResultID           = "sourcery-ai-result"
	GeneratedSubjectID = "sourcery-generated-subject"
	GeneratedContentID = "sourcery-generated-content"
	ErrorID            = "sourcery-ai-error"
	OpenDashboardID    = "sourcery-open-dashboard"
	GenerateAIID       = "sourcery-generate-ai"
)

// generateSession holds the in-memory state of one AI-generation modal.
// Opening a new modal discards it; the exclusion set is never persisted.
type generateSession struct {
	exclude []int
	current *sourcery.GeneratedTemplate
}

// observe updates the exclusion set from a generation result. A wrap-around
// (the returned index was already excluded) resets the cycle and restarts
// it with the returned variant.
func (s *generateSession) observe(res *sourcery.GeneratedTemplate) {
	if slices.Contains(s.exclude, res.TemplateIndex) {
		s.exclude = []int{res.TemplateIndex}
	} else {
		s.exclude = append(s.exclude, res.TemplateIndex)
	}
	s.current = res
}

func (c *Controller) closeModals() {
	for _, id := range []string{ModalID, AIModalID} {
		if m := c.doc.ElementByID(id); m != nil {
			m.Remove()
		}
	}
	c.session = nil
}

// openTemplateModal shows the template selector: quick picks, a dashboard
// shortcut, and the entry into the AI generation flow.
func (c *Controller) openTemplateModal() {
	c.closeModals()

	modal := c.doc.CreateElement("div")
	modal.SetAttr("id", ModalID)

	backdrop := c.doc.CreateElement("div")
	backdrop.SetAttr("class", "sourcery-modal-backdrop")
	backdrop.Listen(dom.EventClick, func(ev *dom.Event) {
		if ev.Target == backdrop {
			c.closeModals()
		}
	})
	modal.Append(backdrop)

	content := c.doc.CreateElement("div")
	content.SetAttr("class", "sourcery-modal-content")
	backdrop.Append(content)

	closeBtn := c.doc.CreateElement("button")
	closeBtn.SetAttr("class", "sourcery-close-btn")
	closeBtn.Listen(dom.EventClick, func(*dom.Event) { c.closeModals() })
	content.Append(closeBtn)

	for _, qp := range catalog.QuickPicks() {
		qp := qp
		item := c.doc.CreateElement("div")
		item.SetAttr("class", "sourcery-template-item")
		item.SetAttr("data-template", qp.Slug)
		item.SetText(qp.Title)
		item.Listen(dom.EventClick, func(ev *dom.Event) {
			ev.StopPropagation()
			c.closeModals()
			c.inserter.Insert(c.doc, c.provider, qp.Template)
		})
		content.Append(item)
	}

	dashBtn := c.doc.CreateElement("button")
	dashBtn.SetAttr("id", OpenDashboardID)
	dashBtn.SetText("Open Dashboard")
	dashBtn.Listen(dom.EventClick, func(ev *dom.Event) {
		ev.StopPropagation()
		c.closeModals()
		c.bus.Handle(extension.Message{Action: extension.ActionOpenDashboard})
	})
	content.Append(dashBtn)

	aiBtn := c.doc.CreateElement("button")
	aiBtn.SetAttr("id", GenerateAIID)
	aiBtn.SetText("Generate with AI")
	aiBtn.Listen(dom.EventClick, func(ev *dom.Event) {
		ev.StopPropagation()
		c.openGenerateModal()
	})
	content.Append(aiBtn)

	c.doc.Body().Append(modal)
}

// openGenerateModal shows the AI generation flow: free-text prompt in,
// preview out, with regenerate cycling through unseen variants.
func (c *Controller) openGenerateModal() {
	c.closeModals()
	c.session = &generateSession{}

	modal := c.doc.CreateElement("div")
	modal.SetAttr("id", AIModalID)

	backdrop := c.doc.CreateElement("div")
	backdrop.SetAttr("class", "sourcery-modal-backdrop")
	backdrop.Listen(dom.EventClick, func(ev *dom.Event) {
		if ev.Target == backdrop {
			c.closeModals()
		}
	})
	modal.Append(backdrop)

	content := c.doc.CreateElement("div")
	content.SetAttr("class", "sourcery-modal-content")
	backdrop.Append(content)

	closeBtn := c.doc.CreateElement("button")
	closeBtn.SetAttr("class", "sourcery-close-btn")
	closeBtn.Listen(dom.EventClick, func(*dom.Event) { c.closeModals() })
	content.Append(closeBtn)

	prompt := c.doc.CreateElement("textarea")
	prompt.SetAttr("id", PromptInputID)
	prompt.SetAttr("placeholder", "e.g., Sales outreach to tech companies")
	content.Append(prompt)

	errBox := c.doc.CreateElement("div")
	errBox.SetAttr("id", ErrorID)
	content.Append(errBox)

	genBtn := c.doc.CreateElement("button")
	genBtn.SetAttr("id", GenerateButtonID)
	genBtn.SetText("Generate Template")
	genBtn.Listen(dom.EventClick, func(ev *dom.Event) {
		ev.StopPropagation()
		c.generate()
	})
	content.Append(genBtn)

	result := c.doc.CreateElement("div")
	result.SetAttr("id", ResultID)
	result.SetAttr("style", "display: none")
	content.Append(result)

	subject := c.doc.CreateElement("span")
	subject.SetAttr("id", GeneratedSubjectID)
	result.Append(subject)

	body := c.doc.CreateElement("div")
	body.SetAttr("id", GeneratedContentID)
	result.Append(body)

	regenBtn := c.doc.CreateElement("button")
	regenBtn.SetAttr("id", RegenerateButtonID)
	regenBtn.SetText("Generate Another")
	regenBtn.Listen(dom.EventClick, func(ev *dom.Event) {
		ev.StopPropagation()
		c.generate()
	})
	result.Append(regenBtn)

	useBtn := c.doc.CreateElement("button")
	useBtn.SetAttr("id", UseTemplateID)
	useBtn.SetText("Use This Template")
	useBtn.Listen(dom.EventClick, func(ev *dom.Event) {
		ev.StopPropagation()
		c.useCurrent()
	})
	result.Append(useBtn)

	c.doc.Body().Append(modal)
}

// generate runs one generation round trip. An empty prompt is rejected
// locally before any network call; an endpoint failure is surfaced on the
// modal and leaves it open for a manual retry. If a second click lands
// while a call is pending the later response wins the preview.
func (c *Controller) generate() {
	session := c.session
	if session == nil {
		return
	}
	promptEl := c.doc.ElementByID(PromptInputID)
	if promptEl == nil {
		return
	}

	prompt := strings.TrimSpace(promptEl.Value())
	if prompt == "" {
		c.setGenerateError("Describe your email purpose first")
		return
	}

	res, err := c.gen.GenerateTemplate(c.ctx, prompt, session.exclude)
	if err != nil {
		c.log.Error().Err(err).Msg("template generation failed")
		c.setGenerateError("Failed to generate template. Please try again.")
		return
	}
	if c.session != session {
		// Modal was replaced while the call was in flight.
		return
	}

	session.observe(res)
	c.setGenerateError("")

	if subject := c.doc.ElementByID(GeneratedSubjectID); subject != nil {
		subject.SetText(res.Subject)
	}
	if body := c.doc.ElementByID(GeneratedContentID); body != nil {
		body.SetText(res.Content)
	}
	if result := c.doc.ElementByID(ResultID); result != nil {
		result.SetAttr("style", "display: block")
	}
}

func (c *Controller) useCurrent() {
	session := c.session
	if session == nil || session.current == nil {
		return
	}
	tpl := catalog.Template{
		Subject: session.current.Subject,
		Content: session.current.Content,
	}
	c.closeModals()
	c.inserter.Insert(c.doc, c.provider, tpl)
}

func (c *Controller) setGenerateError(msg string) {
	if errBox := c.doc.ElementByID(ErrorID); errBox != nil {
		errBox.SetText(msg)
	}
}
