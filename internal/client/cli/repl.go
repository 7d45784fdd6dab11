package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context) error
	Search(ctx context.Context, term string) error
	Status(ctx context.Context, filter string) error
	Sort(ctx context.Context, column string) error
	Page(ctx context.Context, n string) error
	NextPage(ctx context.Context) error
	PrevPage(ctx context.Context) error
	PageSize(ctx context.Context, n string) error
	Refresh(ctx context.Context) error
	ResetFilters(ctx context.Context) error

	New(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Set(ctx context.Context, field, value string) error
	AddRow(ctx context.Context, collection string) error
	RemoveRow(ctx context.Context, collection, index string) error
	SetRow(ctx context.Context, collection, index, field, value string) error
	SelectAttribute(ctx context.Context, index, attributeID string) error
	Attach(ctx context.Context, index, path string) error
	Step(ctx context.Context, arg string) error
	Save(ctx context.Context) error
	Show(ctx context.Context) error

	Delete(ctx context.Context, id string) error
	Toggle(ctx context.Context, id string) error

	ConfirmExit(ctx context.Context) bool
}

const helpText = `Listing:  list, search [term], status all|active|inactive, sort code|name|status,
          page <n>, next, prev, pagesize <n>, refresh, reset, delete <id>, toggle <id>
Editor:   new, edit <id>, set <field> <value>, add <collection>, remove <collection> <i>,
          row <collection> <i> <field> <value>, attr <i> <attributeId>, attach <i> <path>,
          step next|prev|<n>, save, show
Other:    help, exit`

// runREPL starts a read–eval–print loop for the records CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands and missing
// arguments are reported back to the user. The loop exits on scanner EOF or
// when the user types "exit" or "quit" and confirms leaving unsaved edits.
//
// promptFn returns the prompt to print before each line; an empty prompt is
// not printed.
//
// Errors returned by handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, promptFn func() string, scanner *bufio.Scanner) {
	for {
		if p := promptFn(); p != "" {
			printlnFn(p)
		}
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		usage := func(n int, text string) bool {
			if len(args) < n {
				printlnFn("Usage:", text)
				return false
			}
			return true
		}
		rest := func(from int) string {
			return strings.Join(args[from:], " ")
		}

		var err error

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "l", "list":
			err = a.List(ctx)
		case "search":
			err = a.Search(ctx, rest(0))
		case "status":
			if usage(1, "status all|active|inactive") {
				err = a.Status(ctx, args[0])
			}
		case "sort":
			if usage(1, "sort code|name|status") {
				err = a.Sort(ctx, args[0])
			}
		case "page":
			if usage(1, "page <n>") {
				err = a.Page(ctx, args[0])
			}
		case "next":
			err = a.NextPage(ctx)
		case "prev":
			err = a.PrevPage(ctx)
		case "pagesize":
			if usage(1, "pagesize <n>") {
				err = a.PageSize(ctx, args[0])
			}
		case "refresh":
			err = a.Refresh(ctx)
		case "reset":
			err = a.ResetFilters(ctx)

		case "new":
			err = a.New(ctx)
		case "edit":
			if usage(1, "edit <id>") {
				err = a.Edit(ctx, args[0])
			}
		case "set":
			if usage(1, "set <field> <value>") {
				err = a.Set(ctx, args[0], rest(1))
			}
		case "add":
			if usage(1, "add <collection>") {
				err = a.AddRow(ctx, args[0])
			}
		case "remove":
			if usage(2, "remove <collection> <i>") {
				err = a.RemoveRow(ctx, args[0], args[1])
			}
		case "row":
			if usage(3, "row <collection> <i> <field> <value>") {
				err = a.SetRow(ctx, args[0], args[1], args[2], rest(3))
			}
		case "attr":
			if usage(2, "attr <i> <attributeId>") {
				err = a.SelectAttribute(ctx, args[0], args[1])
			}
		case "attach":
			if usage(2, "attach <i> <path>") {
				err = a.Attach(ctx, args[0], rest(1))
			}
		case "step":
			if usage(1, "step next|prev|<n>") {
				err = a.Step(ctx, args[0])
			}
		case "save":
			err = a.Save(ctx)
		case "show":
			err = a.Show(ctx)

		case "delete":
			if usage(1, "delete <id>") {
				err = a.Delete(ctx, args[0])
			}
		case "toggle":
			if usage(1, "toggle <id>") {
				err = a.Toggle(ctx, args[0])
			}

		case "exit", "quit":
			if a.ConfirmExit(ctx) {
				printlnFn("Bye!")
				return
			}

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
