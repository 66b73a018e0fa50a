package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcery-io/sourcery/internal/dom"
)

const gmailCompose = `<html><body>
  <div role="dialog">
    <input name="subjectbox" aria-label="Subject">
    <div aria-label="Message Body" contenteditable="true" style="width:520px;height:320px"></div>
    <div contenteditable="true" style="width:520px;height:20px"></div>
  </div>
</body></html>`

const outlookCompose = `<html><body>
  <input placeholder="Add a subject" aria-label="Subject" data-testid="subject-line">
  <div contenteditable="true" aria-label="Message body" role="textbox" style="width:640px;height:400px"></div>
</body></html>`

func TestDetectProvider(t *testing.T) {
	assert.Equal(t, ProviderGmail, DetectProvider("mail.google.com"))
	assert.Equal(t, ProviderOutlook, DetectProvider("outlook.live.com"))
	assert.Equal(t, ProviderOutlook, DetectProvider("outlook.office.com"))
	assert.Equal(t, ProviderUnknown, DetectProvider("example.com"))
}

func TestLocateGmailSubject(t *testing.T) {
	doc := dom.MustParse("https://mail.google.com", gmailCompose)

	subject := Locate(doc, ProviderGmail, FieldSubject)
	require.NotNil(t, subject)
	assert.Equal(t, "subjectbox", subject.Attr("name"))
}

func TestLocateSubjectFallsBackThroughSelectors(t *testing.T) {
	// No subjectbox input: the aria-label candidate catches it.
	doc := dom.MustParse("x", `<html><body>
		<div aria-label="Subject line"></div>
	</body></html>`)

	subject := Locate(doc, ProviderGmail, FieldSubject)
	require.NotNil(t, subject)
	assert.Equal(t, "div", subject.Tag)
}

func TestLocateBodySkipsCollapsedEditors(t *testing.T) {
	doc := dom.MustParse("x", `<html><body>
		<div contenteditable="true" style="width:520px;height:30px">reply quote</div>
		<div contenteditable="true" style="width:520px;height:240px">compose</div>
	</body></html>`)

	body := Locate(doc, ProviderGmail, FieldBody)
	require.NotNil(t, body)
	assert.Equal(t, "compose", body.Text())
}

func TestLocateBodyRejectsNarrowEditor(t *testing.T) {
	doc := dom.MustParse("x", `<html><body>
		<div contenteditable="true" style="width:100px;height:240px"></div>
	</body></html>`)

	assert.Nil(t, Locate(doc, ProviderGmail, FieldBody))
}

func TestLocateEmptyDocumentReturnsNil(t *testing.T) {
	doc := dom.MustParse("x", `<html><body></body></html>`)

	assert.Nil(t, Locate(doc, ProviderGmail, FieldSubject))
	assert.Nil(t, Locate(doc, ProviderGmail, FieldBody))
	assert.Nil(t, Locate(doc, ProviderOutlook, FieldSubject))
	assert.Nil(t, Locate(doc, ProviderOutlook, FieldBody))
}

func TestLocateOutlook(t *testing.T) {
	doc := dom.MustParse("https://outlook.live.com", outlookCompose)

	subject := Locate(doc, ProviderOutlook, FieldSubject)
	require.NotNil(t, subject)
	assert.Equal(t, "input", subject.Tag)

	body := Locate(doc, ProviderOutlook, FieldBody)
	require.NotNil(t, body)
	assert.Equal(t, "textbox", body.Attr("role"))
}
