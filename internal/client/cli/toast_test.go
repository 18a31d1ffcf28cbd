package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dmitrijs2005/admindash/internal/client/models"
	"github.com/stretchr/testify/assert"
)

func TestNotifier_Plain(t *testing.T) {
	var buf bytes.Buffer
	n := NewNotifier(&buf, false)

	n.Success("Restaurant %q added", "Noma")
	n.Error("Delete failed: %s", "server unavailable")
	n.Info("Signed out")

	assert.Equal(t, "✔ Restaurant \"Noma\" added\n✖ Delete failed: server unavailable\nℹ Signed out\n", buf.String())
}

func TestNotifier_ColorFollowsTheme(t *testing.T) {
	var buf bytes.Buffer
	n := NewNotifier(&buf, true)

	n.Error("boom")
	assert.True(t, strings.HasPrefix(buf.String(), "\033[31m"))
	assert.True(t, strings.HasSuffix(buf.String(), ansiReset+"\n"))

	buf.Reset()
	n.SetTheme(models.ThemeDark)
	n.Error("boom")
	assert.True(t, strings.HasPrefix(buf.String(), "\033[91m"))
}
