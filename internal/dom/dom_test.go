package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const composeFixture = `<!DOCTYPE html>
<html><body>
  <div class="nH">
    <div role="dialog">
      <input name="subjectbox" aria-label="Subject" value="">
      <div aria-label="Message Body" contenteditable="true" role="textbox"
           style="width: 520px; height: 320px"></div>
      <div contenteditable="true" style="width:520px;height:20px"></div>
    </div>
  </div>
</body></html>`

func TestParseAndQuery(t *testing.T) {
	doc := MustParse("https://mail.google.com/mail/u/0/#inbox", composeFixture)

	require.NotNil(t, doc.Body())
	assert.Equal(t, ReadyStateComplete, doc.State())

	subject := doc.Query(`input[name="subjectbox"]`)
	require.Len(t, subject, 1)
	assert.Equal(t, "input", subject[0].Tag)

	byAria := doc.Query(`[aria-label*="Subject"]`)
	require.Len(t, byAria, 1)
	assert.Same(t, subject[0], byAria[0])

	editors := doc.Query(`[contenteditable="true"]`)
	assert.Len(t, editors, 2)

	textboxes := doc.Query(`div[role="textbox"]`)
	require.Len(t, textboxes, 1)
	assert.Equal(t, Rect{Width: 520, Height: 320}, textboxes[0].Rect())

	// The collapsed editor measures small.
	assert.Equal(t, 20, editors[1].Rect().Height)

	assert.Nil(t, doc.QueryFirst(".does-not-exist"))
	assert.Empty(t, doc.Query("!!malformed"))
}

func TestSelectorClassCompound(t *testing.T) {
	doc := MustParse("x", `<html><body>
		<div class="Am Al editable" style="height:100px;width:300px"></div>
		<div class="Am"></div>
	</body></html>`)

	matches := doc.Query(".Am.Al.editable")
	require.Len(t, matches, 1)
	assert.Equal(t, []string{"Am", "Al", "editable"}, matches[0].Classes())
}

func TestEventBubbling(t *testing.T) {
	doc := MustParse("x", composeFixture)
	body := doc.QueryFirst(`[aria-label*="Message Body"]`)
	require.NotNil(t, body)

	var inputs, changes, bubbled int
	body.Listen(EventInput, func(*Event) { inputs++ })
	body.Listen(EventChange, func(*Event) { changes++ })
	doc.Root().Listen(EventInput, func(ev *Event) {
		bubbled++
		assert.Same(t, body, ev.Target)
	})

	body.Dispatch(EventInput)
	body.Dispatch(EventChange)

	assert.Equal(t, 1, inputs)
	assert.Equal(t, 1, changes)
	assert.Equal(t, 1, bubbled, "input bubbles to the root")
}

func TestStopPropagation(t *testing.T) {
	doc := MustParse("x", composeFixture)
	dialog := doc.QueryFirst(`[role="dialog"]`)
	require.NotNil(t, dialog)

	var rootSaw bool
	doc.Root().Listen(EventClick, func(*Event) { rootSaw = true })
	dialog.Listen(EventClick, func(ev *Event) { ev.StopPropagation() })

	dialog.Click()
	assert.False(t, rootSaw)
}

func TestAppendNotifiesObservers(t *testing.T) {
	doc := MustParse("x", composeFixture)

	var added []*Element
	doc.Observe(func(e *Element) { added = append(added, e) })

	btn := doc.CreateElement("div")
	btn.SetAttr("id", "fab")
	doc.Body().Append(btn)

	require.Len(t, added, 1)
	assert.Same(t, btn, added[0])
	assert.Same(t, btn, doc.ElementByID("fab"))

	btn.Remove()
	assert.Nil(t, doc.ElementByID("fab"))
}

func TestReadyStateDeferral(t *testing.T) {
	doc := MustParse("x", composeFixture)
	doc.SetLoading()

	var order []string
	doc.OnReady(func() { order = append(order, "first") })
	doc.OnReady(func() { order = append(order, "second") })
	assert.Empty(t, order)

	doc.FinishLoading()
	assert.Equal(t, []string{"first", "second"}, order)

	// Already complete: runs immediately.
	doc.OnReady(func() { order = append(order, "third") })
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestValueAndFocus(t *testing.T) {
	doc := MustParse("x", composeFixture)
	subject := doc.QueryFirst(`input[name="subjectbox"]`)
	require.NotNil(t, subject)

	subject.SetValue("Hello")
	assert.Equal(t, "Hello", subject.Value())

	body := doc.QueryFirst(`div[role="textbox"]`)
	body.SetHTML("line one<br>line two")
	assert.Equal(t, "line one<br>line two", body.HTML())

	body.Focus()
	assert.Same(t, body, doc.Focused())
}
