package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to. The real App
// type satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	OAuth(ctx context.Context, provider string) error
	Logout(ctx context.Context) error
	Overview(ctx context.Context) error
	Show(ctx context.Context, collection string) error
	Add(ctx context.Context, collection string) error
	Edit(ctx context.Context, collection, id string) error
	Delete(ctx context.Context, collection, id string) error
	Sort(collection, field string, desc bool) error
	Filter(collection, text string) error
	Reload(ctx context.Context, collection string) error
	Theme(ctx context.Context, arg string) error
	notifyErr(err error)
}

const (
	helpSignedOut = "Available commands: login, register, oauth <provider>, overview, users, restaurants, todos, " +
		"sort, filter, reload, theme, exit"
	helpSignedIn = "Available commands: overview, users, restaurants, todos, add <collection>, edit <collection> <id>, " +
		"delete <collection> <id>, sort <collection> <field> [desc], filter <collection> <text>, reload <collection>, " +
		"theme [light|dark|toggle], logout, exit"
)

// runREPL reads commands from reader until EOF, "exit" or "quit".
//
// The first word of a line is the command, the rest are its arguments.
// Collections are addressed by name: users, restaurants or todos. Handler
// errors are reported with a.notifyErr; a missing argument prints the usage
// line of the command instead.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("admindash %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
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
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "oauth":
			if len(args) != 1 {
				printlnFn("Usage: oauth <google|facebook|apple|github>")
				continue
			}
			cmdErr = a.OAuth(ctx, args[0])

		case "logout":
			cmdErr = a.Logout(ctx)

		case "overview":
			cmdErr = a.Overview(ctx)

		case "users", "restaurants", "todos":
			cmdErr = a.Show(ctx, cmd)

		case "add":
			if len(args) != 1 {
				printlnFn("Usage: add <collection>")
				continue
			}
			cmdErr = a.Add(ctx, args[0])

		case "edit":
			if len(args) != 2 {
				printlnFn("Usage: edit <collection> <id>")
				continue
			}
			cmdErr = a.Edit(ctx, args[0], args[1])

		case "delete", "rm":
			if len(args) != 2 {
				printlnFn("Usage: delete <collection> <id>")
				continue
			}
			cmdErr = a.Delete(ctx, args[0], args[1])

		case "sort":
			switch {
			case len(args) == 1:
				cmdErr = a.Sort(args[0], "", false)
			case len(args) == 2:
				cmdErr = a.Sort(args[0], args[1], false)
			case len(args) == 3 && (args[2] == "desc" || args[2] == "asc"):
				cmdErr = a.Sort(args[0], args[1], args[2] == "desc")
			default:
				printlnFn("Usage: sort <collection> [field] [asc|desc]")
				continue
			}

		case "filter":
			if len(args) < 1 {
				printlnFn("Usage: filter <collection> [text]")
				continue
			}
			cmdErr = a.Filter(args[0], strings.Join(args[1:], " "))

		case "reload":
			if len(args) != 1 {
				printlnFn("Usage: reload <collection>")
				continue
			}
			cmdErr = a.Reload(ctx, args[0])

		case "theme":
			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			cmdErr = a.Theme(ctx, arg)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			a.notifyErr(cmdErr)
		}
	}
}
