package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Categories(ctx context.Context, args []string) error
	Select(ctx context.Context, args []string) error
	Tab(ctx context.Context, args []string) error
	Next(ctx context.Context, args []string) error
	Prev(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Set(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Diff(ctx context.Context, args []string) error
	Revert(ctx context.Context, args []string) error
	Save(ctx context.Context, args []string) error
	Reload(ctx context.Context, args []string) error
	Zoom(ctx context.Context, args []string) error
	Wheel(ctx context.Context, args []string) error
	Pan(ctx context.Context, args []string) error
	Drag(ctx context.Context, args []string) error
	View(ctx context.Context, args []string) error
	Preview(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	State(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: login, exit"
	helpLoggedIn  = `Available commands:
  categories                  list categories
  select <name|number>        open a category
  tab reviewed|unreviewed     switch the review filter
  (n)ext, (p)rev, show <id>   move between documents
  set <field> = <value>       change a field (no arguments: several at once)
  edit                        step through every field
  diff, revert [field]        show or drop pending changes
  save, reload                send changes, re-fetch the entries
  zoom in|out|reset           image zoom
  wheel up|down [n]           mouse-wheel zoom steps
  pan left|right|up|down      pan by 50px (or: pan <dx> <dy>)
  drag start|move <x> <y>, drag end
  view                        full-screen image inspector
  preview [refresh]           render a thumbnail of the image
  export [s3|dir|<path>]      download reviewed documents (reviewed tab)
  state                       dump the view state as JSON
  logout, exit`
)

// runREPL starts the read–eval–print loop of the reviewer CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. While no session is active only help, login
// and exit are accepted. Command errors are reported to the user and the
// loop continues. The loop exits on EOF or when the user types "exit" or
// "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("review %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "login":
			report(a.Login(ctx, args))
			continue
		}

		if !a.isLoggedIn() {
			printlnFn("Please log in first (type 'login').")
			continue
		}

		var cmdErr error
		switch cmd {
		case "logout":
			cmdErr = a.Logout(ctx, args)
		case "categories", "cats":
			cmdErr = a.Categories(ctx, args)
		case "select":
			cmdErr = a.Select(ctx, args)
		case "tab":
			cmdErr = a.Tab(ctx, args)
		case "n", "next":
			cmdErr = a.Next(ctx, args)
		case "p", "prev":
			cmdErr = a.Prev(ctx, args)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "set":
			cmdErr = a.Set(ctx, args)
		case "edit":
			cmdErr = a.Edit(ctx, args)
		case "diff":
			cmdErr = a.Diff(ctx, args)
		case "revert":
			cmdErr = a.Revert(ctx, args)
		case "save":
			cmdErr = a.Save(ctx, args)
		case "reload":
			cmdErr = a.Reload(ctx, args)
		case "zoom":
			cmdErr = a.Zoom(ctx, args)
		case "wheel":
			cmdErr = a.Wheel(ctx, args)
		case "pan":
			cmdErr = a.Pan(ctx, args)
		case "drag":
			cmdErr = a.Drag(ctx, args)
		case "view":
			cmdErr = a.View(ctx, args)
		case "preview":
			cmdErr = a.Preview(ctx, args)
		case "export":
			cmdErr = a.Export(ctx, args)
		case "state":
			cmdErr = a.State(ctx, args)
		default:
			printlnFn("Unknown command:", cmd)
		}
		report(cmdErr)
	}
}

func report(err error) {
	if err != nil {
		notify(err)
	}
}
