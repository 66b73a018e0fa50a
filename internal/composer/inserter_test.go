package composer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcery-io/sourcery/internal/catalog"
	"github.com/sourcery-io/sourcery/internal/dom"
	"github.com/sourcery-io/sourcery/internal/logger"
)

func testInserter(notifier Notifier) *Inserter {
	ins := NewInserter(notifier, logger.New("error", "console"))
	ins.SetTiming(0, 0, 0, nil)
	return ins
}

func testTemplate() catalog.Template {
	return catalog.Template{
		Subject: "Quick question about Acme",
		Content: "Hi Ada,\n\nJust checking in.\n\nBest regards,\nSam",
	}
}

func TestInsertWritesBothFields(t *testing.T) {
	doc := dom.MustParse("https://mail.google.com", gmailCompose)

	var messages []string
	ins := testInserter(NotifierFunc(func(_ *dom.Document, msg string) {
		messages = append(messages, msg)
	}))

	res := ins.Insert(doc, ProviderGmail, testTemplate())
	assert.True(t, res.SubjectWritten)
	assert.True(t, res.BodyWritten)

	subject := doc.QueryFirst(`input[name="subjectbox"]`)
	assert.Equal(t, "Quick question about Acme", subject.Value())

	body := doc.QueryFirst(`[aria-label*="Message Body"]`)
	assert.Equal(t, "Hi Ada,<br><br>Just checking in.<br><br>Best regards,<br>Sam", body.HTML())
	assert.Same(t, body, doc.Focused(), "body receives focus after the write")

	assert.Equal(t, []string{"Template inserted successfully!"}, messages)
}

func TestInsertDispatchesInputAndChangeExactlyOnce(t *testing.T) {
	doc := dom.MustParse("https://mail.google.com", gmailCompose)
	body := doc.QueryFirst(`[aria-label*="Message Body"]`)
	require.NotNil(t, body)

	counts := map[dom.EventType]int{}
	body.Listen(dom.EventInput, func(*dom.Event) { counts[dom.EventInput]++ })
	body.Listen(dom.EventChange, func(*dom.Event) { counts[dom.EventChange]++ })

	// The events bubble so the page's own framework can see them.
	var bubbledInput int
	doc.Root().Listen(dom.EventInput, func(*dom.Event) { bubbledInput++ })

	ins := testInserter(Toast{})
	ins.Insert(doc, ProviderGmail, testTemplate())

	assert.Equal(t, 1, counts[dom.EventInput])
	assert.Equal(t, 1, counts[dom.EventChange])
	// Subject input bubbles too, so the root sees two.
	assert.Equal(t, 2, bubbledInput)
}

func TestInsertSubjectOnlyStillNotifiesSuccess(t *testing.T) {
	doc := dom.MustParse("x", `<html><body>
		<input name="subjectbox">
	</body></html>`)

	ins := testInserter(Toast{})
	res := ins.Insert(doc, ProviderGmail, testTemplate())

	assert.True(t, res.SubjectWritten)
	assert.False(t, res.BodyWritten)

	toast := doc.ElementByID(NotificationID)
	require.NotNil(t, toast)
	assert.Equal(t, "Template inserted successfully!", toast.Text())
}

func TestInsertNothingFoundNotifiesFailure(t *testing.T) {
	doc := dom.MustParse("x", `<html><body></body></html>`)

	ins := testInserter(Toast{})
	res := ins.Insert(doc, ProviderGmail, testTemplate())

	assert.False(t, res.Any())
	toast := doc.ElementByID(NotificationID)
	require.NotNil(t, toast)
	assert.Equal(t, "No compose fields found", toast.Text())
}

func TestInsertReprobesUntilFieldsAppear(t *testing.T) {
	doc := dom.MustParse("x", `<html><body></body></html>`)

	ins := NewInserter(Toast{}, logger.New("error", "console"))
	var slept int
	ins.SetTiming(0, 10*time.Millisecond, 100*time.Millisecond, func(time.Duration) {
		slept++
		if slept == 2 {
			// Composer shows up between probes.
			field := doc.CreateElement("input")
			field.SetAttr("name", "subjectbox")
			doc.Body().Append(field)
		}
	})

	res := ins.Insert(doc, ProviderGmail, testTemplate())
	assert.True(t, res.SubjectWritten)
	assert.GreaterOrEqual(t, slept, 2)
}

func TestToastReplacesPrevious(t *testing.T) {
	doc := dom.MustParse("x", `<html><body></body></html>`)

	Toast{}.Notify(doc, "first")
	Toast{}.Notify(doc, "second")

	assert.Len(t, doc.Query("#"+NotificationID), 1)
	assert.Equal(t, "second", doc.ElementByID(NotificationID).Text())
}
