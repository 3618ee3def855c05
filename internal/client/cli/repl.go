package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context, id int64) error
	AddRecipe(ctx context.Context) error
	EditRecipe(ctx context.Context, id int64) error
	DeleteRecipe(ctx context.Context, id int64) error
	Rate(ctx context.Context, recipeID int64) error
	EditRating(ctx context.Context, id int64) error
	DeleteRating(ctx context.Context, id int64) error
	Metrics(ctx context.Context) error
}

const (
	helpAnonymous = "Available commands: register, login, (l)ist, show <id>, metrics, help, exit"
	helpLoggedIn  = "Available commands: (l)ist, show <id>, addrecipe, editrecipe <id>, delrecipe <id>, " +
		"rate <recipeID>, editrating <id>, delrating <id>, whoami, logout, metrics, help, exit"
)

// runREPL starts a simple read–eval–print loop for the recipebook CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. Commands taking an identifier expect it as
// the second token. Errors returned by command handlers are printed by kind
// and the loop continues. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// The prompt shows the current session status (from statusFn).
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("rb %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "l", "list":
			cmdErr = a.List(ctx)
		case "addrecipe":
			cmdErr = a.AddRecipe(ctx)
		case "metrics":
			cmdErr = a.Metrics(ctx)

		case "show", "editrecipe", "delrecipe", "rate", "editrating", "delrating":
			id, ok := idArg(cmd, args)
			if !ok {
				continue
			}
			cmdErr = dispatchWithID(ctx, a, cmd, id)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn(describeError(cmdErr))
		}
	}
}

func dispatchWithID(ctx context.Context, a execIface, cmd string, id int64) error {
	switch cmd {
	case "show":
		return a.Show(ctx, id)
	case "editrecipe":
		return a.EditRecipe(ctx, id)
	case "delrecipe":
		return a.DeleteRecipe(ctx, id)
	case "rate":
		return a.Rate(ctx, id)
	case "editrating":
		return a.EditRating(ctx, id)
	case "delrating":
		return a.DeleteRating(ctx, id)
	}
	return nil
}

// idArg parses the identifier argument of cmd, printing usage when it is
// missing or not a positive integer.
func idArg(cmd string, args []string) (int64, bool) {
	name := "id"
	if cmd == "rate" {
		name = "recipeID"
	}
	if len(args) == 0 {
		printlnFn(fmt.Sprintf("Usage: %s <%s>", cmd, name))
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		printlnFn(fmt.Sprintf("Usage: %s <%s> (%s must be a positive number)", cmd, name, name))
		return 0, false
	}
	return id, true
}
