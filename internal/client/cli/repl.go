package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

const helpText = `Available commands:
  login                 sign in through the browser and paste the code
  whoami                show the signed-in user and token lifetime
  projects              list projects of your company
  project <name>        choose a project by name
  search <text>         find locations whose name contains text
  select <id> [id...]   choose locations by id and resolve their checklists
  update                set item statuses on the chosen checklists
  refresh               refresh the access token
  logout                revoke the token and forget it
  exit | quit           leave the program`

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Login(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Projects(ctx context.Context) error
	Project(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Select(ctx context.Context, args []string) error
	Update(ctx context.Context) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads a line from reader, treats the first word as the command
// and the rest as its arguments, and dispatches to a. Errors from commands
// are printed and the loop continues. It exits on EOF, "exit" or "quit".
//
// Commands share reader with their own prompts, so no input is buffered
// away from them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("fieldcheck %s> ", statusFn()))
		line, readErr := reader.ReadString('\n')
		if readErr != nil && (readErr != io.EOF || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn(helpText)
		case "login":
			err = a.Login(ctx)
		case "whoami":
			err = a.WhoAmI(ctx)
		case "projects":
			err = a.Projects(ctx)
		case "project":
			err = a.Project(ctx, args)
		case "search":
			err = a.Search(ctx, args)
		case "select":
			err = a.Select(ctx, args)
		case "update":
			err = a.Update(ctx)
		case "refresh":
			err = a.Refresh(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn(color.New(color.FgRed).Sprint("Error: ") + err.Error())
		}
	}
}
