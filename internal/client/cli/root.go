package cli

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

const anonymousStatus = "(anonymous)"

// statusLine renders the navbar state for a session token. The username is
// taken from the token's "sub" claim for display only; the signature is not
// checked.
func statusLine(token string, ok bool) string {
	if !ok {
		return anonymousStatus
	}
	name := tokenSubject(token)
	if name == "" {
		return "(logged in)"
	}
	return fmt.Sprintf("(%s online)", name)
}

func tokenSubject(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

func (a *App) getStatus() string {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	return a.status
}

// onSessionChange re-renders the status line. It runs for local logins and
// logouts as well as for changes made by other clients.
func (a *App) onSessionChange() {
	s := statusLine(a.session.Token(context.Background()))

	a.statusMu.Lock()
	a.status = s
	a.statusMu.Unlock()

	fmt.Fprintf(a.out, "[session] %s\n", s)
}

// Root prints the banner and runs the REPL on the app's input until the user
// exits.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to recipebook (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}
