package extension

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcery-io/sourcery/internal/logger"
)

func TestHandleOpenDashboard(t *testing.T) {
	var opened []string
	b := NewBackground("https://app.sourcery.io/dashboard", TabOpenerFunc(func(url string) {
		opened = append(opened, url)
	}), logger.New("error", "console"))

	resp := b.Handle(Message{Action: ActionOpenDashboard})
	assert.Equal(t, Response{}, resp)
	require.Equal(t, []string{"https://app.sourcery.io/dashboard"}, opened)
}

func TestHandleGetTemplatesIsEmptyStub(t *testing.T) {
	b := NewBackground("x", TabOpenerFunc(func(string) { t.Fatal("no tab expected") }), logger.New("error", "console"))

	resp := b.Handle(Message{Action: ActionGetTemplates})
	require.NotNil(t, resp.Templates)
	assert.Empty(t, resp.Templates)
}

func TestHandleUnknownAction(t *testing.T) {
	b := NewBackground("x", TabOpenerFunc(func(string) { t.Fatal("no tab expected") }), logger.New("error", "console"))

	assert.Equal(t, Response{}, b.Handle(Message{Action: "bogus"}))
}
