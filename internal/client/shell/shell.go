// Package shell implements the interactive terminal front end: a login
// prompt followed by a command loop over the report services.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/atinyakov/ReportKeeper/internal/models"
	"github.com/atinyakov/ReportKeeper/internal/session"
)

// AuthService defines the sign-in operations required by the shell.
type AuthService interface {
	Login(username, password string) (session.State, error)
	Logout()
	Current() session.State
}

// ReportService defines the report operations required by the shell.
type ReportService interface {
	List(ctx context.Context, query string) ([]models.Report, error)
	Create(ctx context.Context, title, content string) (models.Report, error)
	Update(ctx context.Context, id, title, content string) error
	Delete(ctx context.Context, id string) error
	Move(ctx context.Context, from, to int) error
	Generate(ctx context.Context, prompt, title string) (string, error)
}

const helpText = `Available commands:
  help                 show this message
  list                 list all reports
  search <text>        list reports whose title contains text
  view <n>             show report n
  add                  create a report
  edit <n>             change report n
  delete <n>           delete report n
  move <from> <to>     move report from position to another
  generate             draft content from an idea
  whoami               show the signed-in user
  logout               sign out
  exit                 quit`

// Shell reads commands from in and writes results to out.
type Shell struct {
	in      *bufio.Scanner
	out     io.Writer
	auth    AuthService
	reports ReportService
}

// New constructs a Shell.
func New(in io.Reader, out io.Writer, auth AuthService, reports ReportService) *Shell {
	return &Shell{
		in:      bufio.NewScanner(in),
		out:     out,
		auth:    auth,
		reports: reports,
	}
}

// Run signs the user in and then executes commands until exit, end of
// input or cancellation of ctx.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if !s.auth.Current().SignedIn() {
			if !s.login() {
				return s.in.Err()
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		fmt.Fprint(s.out, "reportkeeper> ")
		if !s.in.Scan() {
			return s.in.Err()
		}
		args := strings.Fields(s.in.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" {
			fmt.Fprintln(s.out, "Bye")
			return nil
		}
		s.exec(ctx, args)
	}
}

// login prompts until the credentials are accepted. It returns false when
// input runs out.
func (s *Shell) login() bool {
	for {
		user, ok := s.prompt("Username: ")
		if !ok {
			return false
		}
		pass, ok := s.prompt("Password: ")
		if !ok {
			return false
		}
		st, err := s.auth.Login(user, pass)
		if err != nil {
			fmt.Fprintln(s.out, "Invalid username or password")
			continue
		}
		fmt.Fprintf(s.out, "Signed in as %s (%s)\n", st.User, st.Role)
		return true
	}
}

func (s *Shell) exec(ctx context.Context, args []string) {
	switch args[0] {
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "list":
		s.list(ctx, "")
	case "search":
		s.list(ctx, strings.Join(args[1:], " "))
	case "view":
		if r, ok := s.pick(ctx, args, "view <n>"); ok {
			fmt.Fprintf(s.out, "# %s\n\n%s\n", r.Title, r.Content)
		}
	case "add":
		s.add(ctx)
	case "edit":
		if r, ok := s.pick(ctx, args, "edit <n>"); ok {
			s.edit(ctx, r)
		}
	case "delete":
		if r, ok := s.pick(ctx, args, "delete <n>"); ok {
			if s.report(s.reports.Delete(ctx, r.ID)) {
				fmt.Fprintln(s.out, "Report deleted")
			}
		}
	case "move":
		s.move(ctx, args)
	case "generate":
		if !s.allowed(session.ActionGenerate) {
			return
		}
		idea, ok := s.prompt("Enter idea: ")
		if !ok {
			return
		}
		if text, ok := s.generate(ctx, idea, ""); ok {
			fmt.Fprintln(s.out, text)
		}
	case "whoami":
		st := s.auth.Current()
		fmt.Fprintf(s.out, "%s (%s)\n", st.User, st.Role)
	case "logout":
		s.auth.Logout()
		fmt.Fprintln(s.out, "Signed out")
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
	}
}

func (s *Shell) list(ctx context.Context, query string) {
	list, err := s.reports.List(ctx, query)
	if !s.report(err) {
		return
	}
	if len(list) == 0 {
		fmt.Fprintln(s.out, "No reports")
		return
	}
	for _, r := range list {
		fmt.Fprintf(s.out, "%3d. %s\n", r.Index+1, r.Title)
	}
}

// pick resolves the 1-based position in args[1] to a report.
func (s *Shell) pick(ctx context.Context, args []string, usage string) (models.Report, bool) {
	if len(args) < 2 {
		fmt.Fprintf(s.out, "Usage: %s\n", usage)
		return models.Report{}, false
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(s.out, "Usage: %s\n", usage)
		return models.Report{}, false
	}
	list, err := s.reports.List(ctx, "")
	if !s.report(err) {
		return models.Report{}, false
	}
	if n < 1 || n > len(list) {
		fmt.Fprintln(s.out, "Report not found")
		return models.Report{}, false
	}
	return list[n-1], true
}

func (s *Shell) add(ctx context.Context) {
	if !s.allowed(session.ActionCreate) {
		return
	}
	title, ok := s.prompt("Enter title: ")
	if !ok {
		return
	}
	content, ok := s.promptContent(ctx, title, "")
	if !ok {
		return
	}
	r, err := s.reports.Create(ctx, title, content)
	if s.report(err) {
		fmt.Fprintf(s.out, "Report %d created\n", r.Index+1)
	}
}

func (s *Shell) edit(ctx context.Context, r models.Report) {
	if !s.allowed(session.ActionEdit) {
		return
	}
	title, ok := s.prompt(fmt.Sprintf("Enter new title [%s]: ", r.Title))
	if !ok {
		return
	}
	if title == "" {
		title = r.Title
	}
	content, ok := s.promptContent(ctx, title, r.Content)
	if !ok {
		return
	}
	if s.report(s.reports.Update(ctx, r.ID, title, content)) {
		fmt.Fprintln(s.out, "Report updated")
	}
}

func (s *Shell) move(ctx context.Context, args []string) {
	if len(args) < 3 {
		fmt.Fprintln(s.out, "Usage: move <from> <to>")
		return
	}
	from, err1 := strconv.Atoi(args[1])
	to, err2 := strconv.Atoi(args[2])
	if err1 != nil || err2 != nil {
		fmt.Fprintln(s.out, "Usage: move <from> <to>")
		return
	}
	if s.report(s.reports.Move(ctx, from-1, to-1)) {
		fmt.Fprintln(s.out, "Report moved")
	}
}

func (s *Shell) generate(ctx context.Context, prompt, title string) (string, bool) {
	fmt.Fprintln(s.out, "Generating...")
	text, err := s.reports.Generate(ctx, prompt, title)
	return text, s.report(err)
}

// allowed reports whether the signed-in role may perform action. It runs
// before any prompting.
func (s *Shell) allowed(action session.Action) bool {
	return s.report(session.Authorize(s.auth.Current().Role, action))
}

// report prints err in a user-facing form and returns true when err is nil.
func (s *Shell) report(err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, session.ErrForbidden):
		fmt.Fprintln(s.out, "Permission denied: admin role required")
	case errors.Is(err, session.ErrUnauthenticated):
		fmt.Fprintln(s.out, "Not signed in")
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	return false
}
