// Package extension models the process-wide messaging between the in-page
// composer overlay and the privileged background process.
package extension

import (
	"github.com/sourcery-io/sourcery/internal/catalog"
	"github.com/sourcery-io/sourcery/internal/logger"
)

// Message actions understood by the background handler.
const (
	ActionOpenDashboard = "openDashboard"
	ActionGetTemplates  = "getTemplates"
)

// Message is a request sent from the overlay or popup to the background
// process.
type Message struct {
	Action string `json:"action"`
}

// Response is the background process's answer.
type Response struct {
	Templates []catalog.Template `json:"templates,omitempty"`
}

// TabOpener opens a URL in a new tab. The browser glue supplies the real
// implementation.
type TabOpener interface {
	OpenTab(url string)
}

// TabOpenerFunc adapts a function to TabOpener.
type TabOpenerFunc func(url string)

// OpenTab calls the function.
func (f TabOpenerFunc) OpenTab(url string) { f(url) }

// Background dispatches overlay messages the way the extension's background
// process does: it opens the dashboard on request, and answers template
// queries.
type Background struct {
	dashboardURL string
	tabs         TabOpener
	log          *logger.Logger
}

// NewBackground creates the background message handler.
func NewBackground(dashboardURL string, tabs TabOpener, log *logger.Logger) *Background {
	return &Background{
		dashboardURL: dashboardURL,
		tabs:         tabs,
		log:          log.WithComponent("background"),
	}
}

// Handle dispatches a message and returns the response. Unknown actions are
// logged and answered with an empty response. getTemplates is answered with
// an always-empty list; template listing lives in the dashboard, and the
// overlay never consumes this reply.
func (b *Background) Handle(msg Message) Response {
	switch msg.Action {
	case ActionOpenDashboard:
		b.log.Debug().Str("url", b.dashboardURL).Msg("opening dashboard")
		b.tabs.OpenTab(b.dashboardURL)
		return Response{}
	case ActionGetTemplates:
		return Response{Templates: []catalog.Template{}}
	default:
		b.log.Warn().Str("action", msg.Action).Msg("unknown message action")
		return Response{}
	}
}
