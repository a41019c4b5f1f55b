package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/certapply/certapply/internal/client/models"
	"github.com/certapply/certapply/internal/client/session"
)

// printlnFn and printFn are test seams for user-facing output. In tests,
// replace them with stubs. printFn keeps the prompt on the same line as the
// cursor.
var printlnFn = fmt.Println
var printFn = fmt.Print

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	guard(required ...models.Role) session.Decision
	role() models.Role

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	EditProfile(ctx context.Context) error

	Apply(ctx context.Context) error
	ShowStatus(ctx context.Context) error
	EditApplication(ctx context.Context) error

	ShowNotifications(ctx context.Context) error
	WeekNotifications(ctx context.Context) error

	PendingQueue(ctx context.Context) error
	FilterByStatus(ctx context.Context) error
	Decide(ctx context.Context) error
	ViewDocument(ctx context.Context) error
	DownloadDocument(ctx context.Context) error

	AddReviewer(ctx context.Context) error
	ListUsers(ctx context.Context) error
	ListReviewers(ctx context.Context) error
	ShowCounts(ctx context.Context) error
	ShowTrends(ctx context.Context) error
}

// guarded evaluates the role guard and either dispatches the handler or
// tells the user where they got bounced to. The guard is re-evaluated on
// every command, never cached: the session may have been cleared since the
// previous prompt.
func guarded(ctx context.Context, a execIface, required []models.Role, fn func(execIface, context.Context) error) {
	switch a.guard(required...) {
	case session.RedirectLogin:
		printlnFn("Please login first.")
	case session.RedirectHome:
		printlnFn("This command is not available for your role.")
	default:
		_ = fn(a, ctx)
	}
}

func printHelp(a execIface) {
	if a.guard() != session.Allow {
		printlnFn("Available commands: register, login, exit")
		return
	}
	common := "notifications, week, profile, whoami, logout, exit"
	switch a.role() {
	case models.RoleApplicant:
		printlnFn("Available commands: apply, status, edit, " + common)
	case models.RoleReviewer:
		printlnFn("Available commands: pending, filter, decide, view, download, " + common)
	case models.RoleAdmin:
		printlnFn("Available commands: pending, filter, decide, view, download, addreviewer, users, reviewers, counts, trends, " + common)
	}
}

// runREPL starts a simple read-eval-print loop for the CertApply CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Every dispatch goes through
// the role guard first: anonymous users are pointed at login, authenticated
// users of the wrong role are told the command is off limits. Unknown
// commands are reported back to the user. The loop exits on scanner EOF or
// when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	reviewers := []models.Role{models.RoleReviewer, models.RoleAdmin}
	admins := []models.Role{models.RoleAdmin}
	applicants := []models.Role{models.RoleApplicant}

	for {
		printFn(fmt.Sprintf("certapply %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printHelp(a)

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			guarded(ctx, a, nil, execIface.Logout)

		case "whoami":
			guarded(ctx, a, nil, execIface.Whoami)

		case "apply":
			guarded(ctx, a, applicants, execIface.Apply)

		case "status":
			guarded(ctx, a, applicants, execIface.ShowStatus)

		case "edit":
			guarded(ctx, a, applicants, execIface.EditApplication)

		case "n", "notifications":
			guarded(ctx, a, nil, execIface.ShowNotifications)

		case "week":
			guarded(ctx, a, nil, execIface.WeekNotifications)

		case "profile":
			guarded(ctx, a, nil, execIface.EditProfile)

		case "pending":
			guarded(ctx, a, reviewers, execIface.PendingQueue)

		case "filter":
			guarded(ctx, a, reviewers, execIface.FilterByStatus)

		case "decide":
			guarded(ctx, a, reviewers, execIface.Decide)

		case "view":
			guarded(ctx, a, reviewers, execIface.ViewDocument)

		case "download":
			guarded(ctx, a, reviewers, execIface.DownloadDocument)

		case "addreviewer":
			guarded(ctx, a, admins, execIface.AddReviewer)

		case "users":
			guarded(ctx, a, admins, execIface.ListUsers)

		case "reviewers":
			guarded(ctx, a, admins, execIface.ListReviewers)

		case "counts":
			guarded(ctx, a, admins, execIface.ShowCounts)

		case "trends":
			guarded(ctx, a, admins, execIface.ShowTrends)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
