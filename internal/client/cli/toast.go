package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/admindash/internal/client/models"
)

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
)

var toastIcons = map[ToastKind]string{
	ToastSuccess: "✔",
	ToastError:   "✖",
	ToastInfo:    "ℹ",
}

// ANSI colours per theme: light terminals get the darker shades.
var toastColors = map[models.Theme]map[ToastKind]string{
	models.ThemeLight: {ToastSuccess: "\033[32m", ToastError: "\033[31m", ToastInfo: "\033[34m"},
	models.ThemeDark:  {ToastSuccess: "\033[92m", ToastError: "\033[91m", ToastInfo: "\033[96m"},
}

const ansiReset = "\033[0m"

// Notifier prints toast notifications. It is safe for concurrent use, since
// background deletes report through it while the prompt is active.
type Notifier struct {
	mu    sync.Mutex
	w     io.Writer
	theme models.Theme
	color bool
}

func NewNotifier(w io.Writer, color bool) *Notifier {
	return &Notifier{w: w, theme: models.ThemeLight, color: color}
}

func (n *Notifier) SetTheme(t models.Theme) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.theme = t
}

func (n *Notifier) Show(kind ToastKind, format string, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	icon := toastIcons[kind]
	if n.color {
		fmt.Fprintf(n.w, "%s%s %s%s\n", toastColors[n.theme][kind], icon, msg, ansiReset)
		return
	}
	fmt.Fprintf(n.w, "%s %s\n", icon, msg)
}

func (n *Notifier) Success(format string, args ...any) { n.Show(ToastSuccess, format, args...) }
func (n *Notifier) Error(format string, args ...any)   { n.Show(ToastError, format, args...) }
func (n *Notifier) Info(format string, args ...any)    { n.Show(ToastInfo, format, args...) }
