package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/dmitrymomot/pharmakit/pkg/apiclient"
	"github.com/dmitrymomot/pharmakit/pkg/cart"
	"github.com/dmitrymomot/pharmakit/pkg/logger"
	"github.com/dmitrymomot/pharmakit/pkg/rbac"
	"github.com/dmitrymomot/pharmakit/pkg/requestid"
	"github.com/dmitrymomot/pharmakit/svc/auth"
	"github.com/dmitrymomot/pharmakit/svc/catalog"
	"github.com/dmitrymomot/pharmakit/svc/guard"
	"github.com/dmitrymomot/pharmakit/svc/orders"
	"github.com/dmitrymomot/pharmakit/svc/session"
	"github.com/dmitrymomot/pharmakit/svc/users"
)

// ErrQuit ends Run without an error.
var ErrQuit = errors.New("shell.quit")

// Deps are the services the shell drives.
type Deps struct {
	Session *session.Manager
	Routes  guard.Routes
	Auth    *auth.Service
	Catalog *catalog.Service
	Orders  *orders.Service
	Users   *users.Service
	Cart    *cart.Cart
	Logger  *slog.Logger
}

// Shell reads commands line by line and prints plain text.
type Shell struct {
	deps     Deps
	commands map[string]command

	outMu sync.Mutex
	out   io.Writer

	mu        sync.Mutex
	view      string
	known     map[string]catalog.Medicine
	pending   pendingOrder
	suggester *catalog.Suggester
}

// pendingOrder is a placed order waiting for payment.
type pendingOrder struct {
	placed orders.Placed
	amount float64
}

// New wires a shell writing to out. Session changes are reported as they happen.
func New(d Deps, out io.Writer) *Shell {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Cart == nil {
		d.Cart = cart.New()
	}

	s := &Shell{
		deps:  d,
		out:   out,
		view:  "/",
		known: make(map[string]catalog.Medicine),
	}
	s.commands = s.table()
	s.suggester = d.Catalog.NewSuggester(s.printSuggestions)
	d.Session.Subscribe(s.onSessionChange)

	return s
}

// View returns the current view path.
func (s *Shell) View() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Shell) setView(path string) {
	s.mu.Lock()
	s.view = path
	s.mu.Unlock()
}

// Run executes commands from in until EOF, quit or ctx is done.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	defer s.suggester.Stop()

	s.printf("pharmakit ready. Type \"help\" for commands.\n")
	s.prompt()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if err := s.Exec(ctx, scanner.Text()); errors.Is(err, ErrQuit) {
			return nil
		}
		s.prompt()
	}
	return scanner.Err()
}

// Exec runs one command line. Command failures are printed, not returned;
// only ErrQuit comes back.
func (s *Shell) Exec(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}

	ctx = requestid.WithContext(ctx, requestid.New())
	if cur, ok := s.deps.Session.Current(); ok {
		ctx = rbac.SetRoleToContext(ctx, cur.Role)
	}

	name := strings.ToLower(args[0])
	cmd, ok := s.commands[name]
	if !ok {
		s.printf("unknown command %q, try \"help\"\n", name)
		return nil
	}

	if cmd.route != "" && !s.enter(ctx, cmd.route) {
		return nil
	}

	err := cmd.run(ctx, args[1:])
	if errors.Is(err, ErrQuit) {
		return err
	}
	if err != nil {
		s.report(ctx, name, err)
	}
	return nil
}

// enter runs the guard for path and moves the shell there, or to the redirect.
func (s *Shell) enter(ctx context.Context, path string) bool {
	var current *session.Session
	if cur, ok := s.deps.Session.Current(); ok {
		current = &cur
	} else if s.deps.Session.State() == session.Authenticated {
		// Expired between checks: settle it before deciding.
		s.deps.Session.Check(ctx)
	}

	d := s.deps.Routes.Navigate(path, current)
	if !d.Allow {
		s.deps.Logger.DebugContext(ctx, "navigation denied",
			logger.Component("shell"),
			logger.Route(path),
			slog.String("redirect", d.RedirectTo),
		)
		s.setView(d.RedirectTo)
		switch d.RedirectTo {
		case guard.LoginPath:
			s.printf("%s requires login. Use: login <email> <password>\n", path)
		default:
			s.printf("you are not authorized to open %s\n", path)
		}
		return false
	}

	s.setView(path)
	return true
}

// report prints err the way the user should see it.
func (s *Shell) report(ctx context.Context, cmd string, err error) {
	switch {
	case errors.Is(err, errUsage):
		s.printf("usage: %s\n", strings.TrimPrefix(err.Error(), errUsage.Error()+": "))
		return
	case errors.Is(err, apiclient.ErrUnauthorized), errors.Is(err, session.ErrSessionExpired):
		s.deps.Session.Logout(ctx)
		s.setView(guard.LoginPath)
		s.printf("your session has ended, please log in again\n")
	case errors.Is(err, apiclient.ErrForbidden):
		s.setView(guard.UnauthorizedPath)
		s.printf("you are not authorized to do that\n")
	case errors.Is(err, apiclient.ErrNetwork):
		s.printf("cannot reach the pharmacy service, try again\n")
	default:
		msg := apiclient.Message(err)
		if msg == "" {
			msg = err.Error()
		}
		s.printf("%s failed: %s\n", cmd, msg)
	}

	s.deps.Logger.DebugContext(ctx, "command failed", logger.Component("shell"), slog.String("command", cmd), logger.Error(err))
}

func (s *Shell) onSessionChange(c session.Change) {
	if c.Event != session.EventExpire {
		return
	}
	s.setView(guard.LoginPath)
	s.printf("\nsession expired, please log in again\n")
}

func (s *Shell) printSuggestions(sg catalog.Suggestions) {
	switch {
	case sg.Query == "":
		return
	case sg.Err != nil:
		s.printf("\nno suggestions for %q right now\n", sg.Query)
	case len(sg.Results) == 0:
		s.printf("\nno suggestions for %q\n", sg.Query)
	default:
		s.remember(sg.Results)
		names := make([]string, 0, len(sg.Results))
		for _, m := range sg.Results {
			names = append(names, m.Name)
		}
		s.printf("\nsuggestions for %q: %s\n", sg.Query, strings.Join(names, ", "))
	}
}

func (s *Shell) remember(meds []catalog.Medicine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range meds {
		s.known[m.ID] = m
	}
}

func (s *Shell) lookup(id string) (catalog.Medicine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.known[id]
	return m, ok
}

func (s *Shell) prompt() {
	s.printf("%s> ", s.View())
}

func (s *Shell) printf(format string, args ...any) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}
