package composer

import (
	"strings"
	"time"

	"github.com/sourcery-io/sourcery/internal/catalog"
	"github.com/sourcery-io/sourcery/internal/dom"
	"github.com/sourcery-io/sourcery/internal/logger"
)

const (
	// defaultSettleDelay gives the host page a beat to finish its own
	// asynchronous composer initialization before the first probe.
	defaultSettleDelay = 500 * time.Millisecond
	// Probing is bounded rather than a single fixed sleep: re-probe every
	// interval until a field turns up or the deadline passes.
	defaultPollInterval = 250 * time.Millisecond
	defaultMaxWait      = 2 * time.Second
)

// InsertResult reports which compose fields were actually written.
type InsertResult struct {
	SubjectWritten bool
	BodyWritten    bool
}

// Any reports whether at least one field was written.
func (r InsertResult) Any() bool { return r.SubjectWritten || r.BodyWritten }

// Inserter writes a resolved template into a provider's compose fields and
// synthesizes the input/change events the host page's own framework listens
// for.
type Inserter struct {
	notifier Notifier
	log      *logger.Logger

	settleDelay  time.Duration
	pollInterval time.Duration
	maxWait      time.Duration
	sleep        func(time.Duration)
}

// NewInserter creates an Inserter with the default probe timing.
func NewInserter(notifier Notifier, log *logger.Logger) *Inserter {
	return &Inserter{
		notifier:     notifier,
		log:          log.WithComponent("inserter"),
		settleDelay:  defaultSettleDelay,
		pollInterval: defaultPollInterval,
		maxWait:      defaultMaxWait,
		sleep:        time.Sleep,
	}
}

// SetTiming overrides the settle delay, re-probe interval, and probe
// deadline. Tests pass zeros and a no-op sleep.
func (ins *Inserter) SetTiming(settle, poll, maxWait time.Duration, sleep func(time.Duration)) {
	ins.settleDelay = settle
	ins.pollInterval = poll
	ins.maxWait = maxWait
	if sleep == nil {
		sleep = func(time.Duration) {}
	}
	ins.sleep = sleep
}

// Insert locates the subject and body fields and writes the template into
// whichever it finds. Each field is skipped silently when absent. The
// confirmation toast reports success only when at least one field was
// written; a probe that finds nothing says so instead.
func (ins *Inserter) Insert(doc *dom.Document, provider Provider, tpl catalog.Template) InsertResult {
	ins.sleep(ins.settleDelay)

	var subject, body *dom.Element
	for waited := time.Duration(0); ; waited += ins.pollInterval {
		subject = Locate(doc, provider, FieldSubject)
		body = Locate(doc, provider, FieldBody)
		if subject != nil || body != nil || waited >= ins.maxWait || ins.pollInterval == 0 {
			break
		}
		ins.sleep(ins.pollInterval)
	}

	var res InsertResult
	if subject != nil {
		subject.SetValue(tpl.Subject)
		subject.Dispatch(dom.EventInput)
		subject.Dispatch(dom.EventChange)
		res.SubjectWritten = true
	}
	if body != nil {
		body.SetHTML(strings.ReplaceAll(tpl.Content, "\n", "<br>"))
		body.Dispatch(dom.EventInput)
		body.Dispatch(dom.EventChange)
		body.Focus()
		res.BodyWritten = true
	}

	if res.Any() {
		ins.log.Debug().
			Str("provider", string(provider)).
			Bool("subject", res.SubjectWritten).
			Bool("body", res.BodyWritten).
			Msg("template inserted")
		ins.notifier.Notify(doc, "Template inserted successfully!")
	} else {
		ins.log.Warn().Str("provider", string(provider)).Msg("no compose fields found")
		ins.notifier.Notify(doc, "No compose fields found")
	}
	return res
}
