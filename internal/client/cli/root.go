package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := ""
	if sess := a.currentSession(); sess.IsAuthenticated() {
		s = sess.User.Email + " "
	}
	if m := a.currentMode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root restores the previous session, starts the connectivity watcher and
// runs the command loop until the user exits.
func (a *App) Root(ctx context.Context) {
	a.applyTheme(ctx)
	a.toast.Info("Welcome to admindash (type 'help' for commands)")

	a.checkOnline(ctx)
	a.restoreSession(ctx)

	watchCtx, stop := context.WithCancel(ctx)
	defer stop()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
