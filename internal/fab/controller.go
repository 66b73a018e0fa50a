// Package fab owns the lifecycle of the floating action button and its
// modals inside a host provider page: attachment, self-healing across the
// host SPA's DOM churn, and the template pick / AI generation flows.
package fab

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/sourcery-io/sourcery/internal/composer"
	"github.com/sourcery-io/sourcery/internal/dom"
	"github.com/sourcery-io/sourcery/internal/extension"
	"github.com/sourcery-io/sourcery/internal/logger"
	sourcery "github.com/sourcery-io/sourcery/sdk/go"
)

// State is the controller's lifecycle state.
type State string

const (
	StateUninitialized       State = "uninitialized"
	StateWaitingForPageReady State = "waiting_for_page_ready"
	StateActive              State = "active"
)

// Element ids owned by the controller.
const (
	ButtonID  = "sourcery-fab"
	ModalID   = "sourcery-modal"
	AIModalID = "sourcery-ai-modal"
)

// Timing constants matching the host pages' observed settling behaviour.
const (
	// readySettleDelay runs between page readiness and button creation.
	readySettleDelay = 2 * time.Second
	// observerSettleDelay runs between a compose-window mutation and the
	// re-attachment attempt.
	observerSettleDelay = 1 * time.Second
	// navigationSettleDelay runs after an SPA URL change.
	navigationSettleDelay = 2 * time.Second
	// NavigationPollInterval is the cadence the embedder should call
	// CheckNavigation at.
	NavigationPollInterval = time.Second
)

// Generator is the remote template-generation dependency. *sourcery.Client
// satisfies it.
type Generator interface {
	GenerateTemplate(ctx context.Context, prompt string, exclude []int) (*sourcery.GeneratedTemplate, error)
}

// Messenger delivers process-wide extension messages. *extension.Background
// satisfies it.
type Messenger interface {
	Handle(extension.Message) extension.Response
}

// Scheduler defers fn by d on the document's event loop. The default runs
// fn inline, which is correct against a fully-modelled document; browser
// glue embedding a live page supplies a real deferred scheduler.
type Scheduler func(d time.Duration, fn func())

// Controller manages the floating button and modals for one document. All
// state lives on the controller, so instances can coexist without
// cross-contamination; all methods must run on the document's goroutine.
type Controller struct {
	ctx      context.Context
	doc      *dom.Document
	provider composer.Provider
	inserter *composer.Inserter
	gen      Generator
	bus      Messenger
	log      *logger.Logger
	schedule Scheduler

	state   State
	lastURL string
	session *generateSession
}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler replaces the inline scheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.schedule = s }
}

// New creates a controller for the document. The provider is detected from
// the document's hostname; on an unsupported host the controller stays
// permanently Uninitialized and Attach is a silent no-op.
func New(ctx context.Context, doc *dom.Document, ins *composer.Inserter, gen Generator, bus Messenger, log *logger.Logger, opts ...Option) *Controller {
	c := &Controller{
		ctx:      ctx,
		doc:      doc,
		provider: composer.DetectProvider(hostname(doc.Location())),
		inserter: ins,
		gen:      gen,
		bus:      bus,
		log:      log.WithComponent("fab"),
		schedule: func(_ time.Duration, fn func()) { fn() },
		state:    StateUninitialized,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the controller's lifecycle state.
func (c *Controller) State() State { return c.state }

// IsActive reports whether the floating button lifecycle is running.
func (c *Controller) IsActive() bool { return c.state == StateActive }

// Provider returns the detected host provider.
func (c *Controller) Provider() composer.Provider { return c.provider }

// Attach starts the controller: waits out page readiness plus a settling
// delay, creates the button, and wires the self-heal triggers (compose
// window mutations and, via CheckNavigation, SPA URL changes). Both
// triggers funnel into the same idempotent ensureButton, so they cannot
// race each other into duplicate buttons.
func (c *Controller) Attach() {
	if c.provider == composer.ProviderUnknown {
		c.log.Debug().Str("location", c.doc.Location()).Msg("unsupported host, staying inert")
		return
	}
	if c.state != StateUninitialized {
		return
	}

	c.state = StateWaitingForPageReady
	c.lastURL = c.doc.Location()

	c.doc.Observe(func(added *dom.Element) {
		if c.state == StateActive && looksLikeComposeWindow(added) {
			c.schedule(observerSettleDelay, c.ensureButton)
		}
	})

	c.doc.OnReady(func() {
		c.schedule(readySettleDelay, func() {
			if c.state != StateWaitingForPageReady {
				return
			}
			c.state = StateActive
			c.ensureButton()
		})
	})
}

// Detach removes the button and any open modal and returns to
// Uninitialized. The registered observer stays on the document but is inert
// until a future Attach.
func (c *Controller) Detach() {
	c.closeModals()
	if btn := c.doc.ElementByID(ButtonID); btn != nil {
		btn.Remove()
	}
	c.state = StateUninitialized
}

// CheckNavigation detects SPA navigation by comparing the document URL with
// the last one seen, restoring the button after the host page settles. The
// embedder calls this at NavigationPollInterval.
func (c *Controller) CheckNavigation() {
	if !c.IsActive() {
		return
	}
	url := c.doc.Location()
	if url == c.lastURL {
		return
	}
	c.lastURL = url
	c.schedule(navigationSettleDelay, c.ensureButton)
}

// ensureButton is the single idempotent restore operation every trigger
// funnels into.
func (c *Controller) ensureButton() {
	if c.state != StateActive {
		return
	}
	if c.doc.ElementByID(ButtonID) != nil {
		return
	}

	btn := c.doc.CreateElement("div")
	btn.SetAttr("id", ButtonID)
	btn.SetAttr("class", "sourcery-fab")
	btn.Listen(dom.EventClick, func(*dom.Event) {
		c.openTemplateModal()
	})
	c.doc.Body().Append(btn)
	c.log.Debug().Str("provider", string(c.provider)).Msg("floating button attached")
}

// looksLikeComposeWindow matches the mutation signatures of a freshly
// opened compose window.
func looksLikeComposeWindow(e *dom.Element) bool {
	if slices.Contains(e.Classes(), "nH") {
		return true
	}
	return len(e.Query(`[role="dialog"]`)) > 0
}

func hostname(location string) string {
	s := location
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	return s
}
