package fab

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcery-io/sourcery/internal/composer"
	"github.com/sourcery-io/sourcery/internal/dom"
	"github.com/sourcery-io/sourcery/internal/extension"
	"github.com/sourcery-io/sourcery/internal/logger"
	sourcery "github.com/sourcery-io/sourcery/sdk/go"
)

const gmailPage = `<html><body>
  <div role="dialog">
    <input name="subjectbox" aria-label="Subject">
    <div aria-label="Message Body" contenteditable="true" style="width:520px;height:320px"></div>
  </div>
</body></html>`

type fakeGenerator struct {
	calls   []fakeCall
	results []*sourcery.GeneratedTemplate
	err     error
}

type fakeCall struct {
	prompt  string
	exclude []int
}

func (f *fakeGenerator) GenerateTemplate(_ context.Context, prompt string, exclude []int) (*sourcery.GeneratedTemplate, error) {
	f.calls = append(f.calls, fakeCall{prompt: prompt, exclude: append([]int(nil), exclude...)})
	if f.err != nil {
		return nil, f.err
	}
	res := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return res, nil
}

type fakeBus struct {
	messages []extension.Message
}

func (f *fakeBus) Handle(msg extension.Message) extension.Response {
	f.messages = append(f.messages, msg)
	return extension.Response{}
}

func newTestController(t *testing.T, location, markup string, gen Generator) (*Controller, *dom.Document, *fakeBus) {
	t.Helper()
	doc := dom.MustParse(location, markup)
	log := logger.New("error", "console")
	ins := composer.NewInserter(composer.Toast{}, log)
	ins.SetTiming(0, 0, 0, nil)
	bus := &fakeBus{}
	c := New(context.Background(), doc, ins, gen, bus, log)
	return c, doc, bus
}

func TestAttachOnUnsupportedHostIsSilentNoOp(t *testing.T) {
	c, doc, _ := newTestController(t, "https://example.com/webmail", gmailPage, &fakeGenerator{})

	c.Attach()
	assert.Equal(t, StateUninitialized, c.State())
	assert.False(t, c.IsActive())
	assert.Nil(t, doc.ElementByID(ButtonID))
}

func TestAttachWaitsForPageReady(t *testing.T) {
	c, doc, _ := newTestController(t, "https://mail.google.com/mail/u/0/", gmailPage, &fakeGenerator{})
	doc.SetLoading()

	c.Attach()
	assert.Equal(t, StateWaitingForPageReady, c.State())
	assert.Nil(t, doc.ElementByID(ButtonID))

	doc.FinishLoading()
	assert.Equal(t, StateActive, c.State())
	assert.NotNil(t, doc.ElementByID(ButtonID))
}

func TestAttachIsIdempotent(t *testing.T) {
	c, doc, _ := newTestController(t, "https://mail.google.com/mail/u/0/", gmailPage, &fakeGenerator{})

	c.Attach()
	c.Attach()
	assert.Len(t, doc.Query("#"+ButtonID), 1)
}

func TestComposeWindowMutationRestoresButton(t *testing.T) {
	c, doc, _ := newTestController(t, "https://mail.google.com/mail/u/0/", gmailPage, &fakeGenerator{})
	c.Attach()
	require.True(t, c.IsActive())

	// Host SPA churn removes the button.
	doc.ElementByID(ButtonID).Remove()
	require.Nil(t, doc.ElementByID(ButtonID))

	// A new compose window appears.
	dialog := doc.CreateElement("div")
	dialog.SetAttr("role", "dialog")
	doc.Body().Append(dialog)

	assert.NotNil(t, doc.ElementByID(ButtonID))
	assert.Len(t, doc.Query("#"+ButtonID), 1)
}

func TestNavigationPollRestoresButton(t *testing.T) {
	c, doc, _ := newTestController(t, "https://mail.google.com/mail/u/0/#inbox", gmailPage, &fakeGenerator{})
	c.Attach()

	doc.ElementByID(ButtonID).Remove()

	// Same URL: nothing to do.
	c.CheckNavigation()
	assert.Nil(t, doc.ElementByID(ButtonID))

	doc.SetLocation("https://mail.google.com/mail/u/0/#sent")
	c.CheckNavigation()
	assert.NotNil(t, doc.ElementByID(ButtonID))
}

func TestMutationAndPollDoNotDuplicateButton(t *testing.T) {
	c, doc, _ := newTestController(t, "https://mail.google.com/mail/u/0/", gmailPage, &fakeGenerator{})
	c.Attach()

	dialog := doc.CreateElement("div")
	dialog.SetAttr("role", "dialog")
	doc.Body().Append(dialog)

	doc.SetLocation("https://mail.google.com/mail/u/0/#drafts")
	c.CheckNavigation()

	assert.Len(t, doc.Query("#"+ButtonID), 1)
}

func TestDetach(t *testing.T) {
	c, doc, _ := newTestController(t, "https://mail.google.com/mail/u/0/", gmailPage, &fakeGenerator{})
	c.Attach()
	doc.ElementByID(ButtonID).Click()
	require.NotNil(t, doc.ElementByID(ModalID))

	c.Detach()
	assert.Equal(t, StateUninitialized, c.State())
	assert.Nil(t, doc.ElementByID(ButtonID))
	assert.Nil(t, doc.ElementByID(ModalID))

	// Mutations after detach stay inert.
	dialog := doc.CreateElement("div")
	dialog.SetAttr("role", "dialog")
	doc.Body().Append(dialog)
	assert.Nil(t, doc.ElementByID(ButtonID))
}

func TestQuickPickInsertsTemplate(t *testing.T) {
	c, doc, _ := newTestController(t, "https://mail.google.com/mail/u/0/", gmailPage, &fakeGenerator{})
	c.Attach()

	doc.ElementByID(ButtonID).Click()
	modal := doc.ElementByID(ModalID)
	require.NotNil(t, modal)

	items := modal.Query(`[data-template="cold-outreach"]`)
	require.Len(t, items, 1)
	items[0].Click()

	assert.Nil(t, doc.ElementByID(ModalID), "modal closes after a pick")
	subject := doc.QueryFirst(`input[name="subjectbox"]`)
	assert.Equal(t, "Quick question about {{company}}", subject.Value())
}

func TestOpenDashboardSendsMessage(t *testing.T) {
	c, doc, bus := newTestController(t, "https://mail.google.com/mail/u/0/", gmailPage, &fakeGenerator{})
	c.Attach()

	doc.ElementByID(ButtonID).Click()
	doc.ElementByID(OpenDashboardID).Click()

	require.Len(t, bus.messages, 1)
	assert.Equal(t, extension.ActionOpenDashboard, bus.messages[0].Action)
	assert.Nil(t, doc.ElementByID(ModalID))
}

func TestGenerateFlow(t *testing.T) {
	gen := &fakeGenerator{results: []*sourcery.GeneratedTemplate{
		{Subject: "s1", Content: "c1", TemplateIndex: 2, HasMore: true},
		{Subject: "s2", Content: "c2", TemplateIndex: 0, HasMore: true},
	}}
	c, doc, _ := newTestController(t, "https://mail.google.com/mail/u/0/", gmailPage, gen)
	c.Attach()

	doc.ElementByID(ButtonID).Click()
	doc.ElementByID(GenerateAIID).Click()
	require.Nil(t, doc.ElementByID(ModalID), "selector modal replaced by AI modal")
	require.NotNil(t, doc.ElementByID(AIModalID))

	// Empty prompt: rejected locally, no network call.
	doc.ElementByID(GenerateButtonID).Click()
	assert.Empty(t, gen.calls)
	assert.NotEmpty(t, doc.ElementByID(ErrorID).Text())

	doc.ElementByID(PromptInputID).SetValue("Sales outreach to tech companies")
	doc.ElementByID(GenerateButtonID).Click()

	require.Len(t, gen.calls, 1)
	assert.Empty(t, gen.calls[0].exclude)
	assert.Equal(t, "s1", doc.ElementByID(GeneratedSubjectID).Text())
	assert.Equal(t, "c1", doc.ElementByID(GeneratedContentID).Text())
	assert.Empty(t, doc.ElementByID(ErrorID).Text())

	// Regenerate excludes the shown variant.
	doc.ElementByID(RegenerateButtonID).Click()
	require.Len(t, gen.calls, 2)
	assert.Equal(t, []int{2}, gen.calls[1].exclude)
	assert.Equal(t, "s2", doc.ElementByID(GeneratedSubjectID).Text())

	// Accept: modal closes, template lands in the composer.
	doc.ElementByID(UseTemplateID).Click()
	assert.Nil(t, doc.ElementByID(AIModalID))
	subject := doc.QueryFirst(`input[name="subjectbox"]`)
	assert.Equal(t, "s2", subject.Value())
}

func TestGenerateWrapAroundResetsExclusions(t *testing.T) {
	gen := &fakeGenerator{results: []*sourcery.GeneratedTemplate{
		{Subject: "a", Content: "a", TemplateIndex: 0, HasMore: true},
		{Subject: "b", Content: "b", TemplateIndex: 1, HasMore: false},
		// All variants shown: server wraps to index 0 with hasMore=true.
		{Subject: "a", Content: "a", TemplateIndex: 0, HasMore: true},
		{Subject: "c", Content: "c", TemplateIndex: 2, HasMore: true},
	}}
	c, doc, _ := newTestController(t, "https://mail.google.com/mail/u/0/", gmailPage, gen)
	c.Attach()

	doc.ElementByID(ButtonID).Click()
	doc.ElementByID(GenerateAIID).Click()
	doc.ElementByID(PromptInputID).SetValue("follow up")

	for range 4 {
		doc.ElementByID(GenerateButtonID).Click()
	}

	require.Len(t, gen.calls, 4)
	assert.Empty(t, gen.calls[0].exclude)
	assert.Equal(t, []int{0}, gen.calls[1].exclude)
	assert.Equal(t, []int{0, 1}, gen.calls[2].exclude)
	// Wrap-around restarted the cycle with the wrapped variant.
	assert.Equal(t, []int{0}, gen.calls[3].exclude)
}

func TestGenerateEndpointFailureKeepsModalOpen(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream down")}
	c, doc, _ := newTestController(t, "https://mail.google.com/mail/u/0/", gmailPage, gen)
	c.Attach()

	doc.ElementByID(ButtonID).Click()
	doc.ElementByID(GenerateAIID).Click()
	doc.ElementByID(PromptInputID).SetValue("partnership idea")
	doc.ElementByID(GenerateButtonID).Click()

	require.Len(t, gen.calls, 1)
	assert.NotNil(t, doc.ElementByID(AIModalID), "modal stays open for manual retry")
	assert.Equal(t, "Failed to generate template. Please try again.", doc.ElementByID(ErrorID).Text())
}

func TestBackdropClickCloses(t *testing.T) {
	c, doc, _ := newTestController(t, "https://mail.google.com/mail/u/0/", gmailPage, &fakeGenerator{})
	c.Attach()

	doc.ElementByID(ButtonID).Click()
	modal := doc.ElementByID(ModalID)
	require.NotNil(t, modal)

	backdrops := modal.Query(".sourcery-modal-backdrop")
	require.Len(t, backdrops, 1)
	backdrops[0].Click()
	assert.Nil(t, doc.ElementByID(ModalID))
}

func TestSchedulerDefersReattachment(t *testing.T) {
	var pending []func()
	sched := func(_ time.Duration, fn func()) { pending = append(pending, fn) }

	doc := dom.MustParse("https://mail.google.com/mail/u/0/", gmailPage)
	log := logger.New("error", "console")
	ins := composer.NewInserter(composer.Toast{}, log)
	ins.SetTiming(0, 0, 0, nil)
	c2 := New(context.Background(), doc, ins, &fakeGenerator{}, &fakeBus{}, log, WithScheduler(sched))
	c2.Attach()
	assert.Equal(t, StateWaitingForPageReady, c2.State())
	assert.Nil(t, doc.ElementByID(ButtonID))

	require.Len(t, pending, 1)
	pending[0]()
	assert.True(t, c2.IsActive())
	assert.NotNil(t, doc.ElementByID(ButtonID))
}
