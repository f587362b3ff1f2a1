package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gookit/color"

	"github.com/adrian-25/talk-glide/services"
	"github.com/adrian-25/talk-glide/session"
)

// Repl drives the controller from an interactive terminal: a login flow,
// then a command loop over the two panes.
type Repl struct {
	log           *slog.Logger
	controller    *Controller
	auth          services.IAuthService
	directory     services.IDirectoryService
	conversations services.IConversationService
	store         *session.Store
	in            io.Reader
	out           io.Writer
}

func NewRepl(
	log *slog.Logger,
	controller *Controller,
	auth services.IAuthService,
	directory services.IDirectoryService,
	conversations services.IConversationService,
	store *session.Store,
	in io.Reader,
	out io.Writer,
) *Repl {
	return &Repl{
		log:           log,
		controller:    controller,
		auth:          auth,
		directory:     directory,
		conversations: conversations,
		store:         store,
		in:            in,
		out:           out,
	}
}

// Run blocks until the input closes, /quit, or the context is cancelled.
func (r *Repl) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(r.in)

	if _, err := r.auth.Resume(ctx); err == nil {
		identity, _ := r.store.Current()
		color.Fprintf(r.out, "Welcome back, <bold>%s</>.\n", identity.Username)
	} else {
		if err := r.signIn(ctx, scanner); err != nil {
			return err
		}
	}

	r.controller.Start(ctx)
	defer r.controller.Shutdown()
	r.controller.RefreshList(ctx)
	RenderList(r.out, r.controller.View())

	fmt.Fprint(r.out, "> ")
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "/quit" {
			return nil
		}
		if line != "" {
			r.dispatch(ctx, line)
		}
		if notice := r.controller.Notice(); notice != "" {
			color.Fprintf(r.out, "<yellow>! %s</>\n", notice)
		}

		// A /logout drops back into the sign-in flow so the terminal stays
		// usable without a restart.
		if _, active := r.store.Current(); !active {
			if err := r.signIn(ctx, scanner); err != nil {
				return nil
			}
			r.controller.RefreshList(ctx)
			RenderList(r.out, r.controller.View())
		}
		fmt.Fprint(r.out, "> ")
	}
	return scanner.Err()
}

// signIn loops until a session opens. Format: login <user> <pass> or
// register <user> <pass> [display name].
func (r *Repl) signIn(ctx context.Context, scanner *bufio.Scanner) error {
	fmt.Fprintln(r.out, "Sign in with: login <username> <password>")
	fmt.Fprintln(r.out, "          or: register <username> <password> [display name]")

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			fmt.Fprintln(r.out, "login <username> <password> | register <username> <password> [display name]")
			continue
		}

		var identity session.Identity
		var err error
		switch fields[0] {
		case "login":
			identity, err = r.auth.Login(ctx, fields[1], fields[2])
		case "register":
			identity, err = r.auth.Register(ctx, fields[1], fields[2], strings.Join(fields[3:], " "))
		default:
			continue
		}
		if err != nil {
			color.Fprintf(r.out, "<red>%v</>\n", err)
			continue
		}

		color.Fprintf(r.out, "Signed in as <bold>%s</>.\n", identity.Username)
		return nil
	}
	return fmt.Errorf("input closed before sign-in")
}

func (r *Repl) dispatch(ctx context.Context, line string) {
	if !strings.HasPrefix(line, "/") {
		r.controller.Send(ctx, line)
		r.render()
		return
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "/list":
		r.controller.RefreshList(ctx)
		RenderList(r.out, r.controller.View())
	case "/open":
		if len(fields) < 2 {
			fmt.Fprintln(r.out, "usage: /open <number>")
			return
		}
		r.open(ctx, fields[1])
	case "/chat":
		if len(fields) < 2 {
			fmt.Fprintln(r.out, "usage: /chat <username>")
			return
		}
		r.openDirect(ctx, fields[1])
	case "/group":
		if len(fields) < 3 {
			fmt.Fprintln(r.out, "usage: /group <name> <username>...")
			return
		}
		r.createGroup(ctx, fields[1], fields[2:])
	case "/users":
		query := ""
		if len(fields) > 1 {
			query = fields[1]
		}
		r.listUsers(ctx, query)
	case "/find":
		RenderHits(r.out, r.controller.SearchLocal(ctx, line))
	case "/logout":
		if err := r.auth.Logout(); err != nil {
			r.log.Warn("logout cleanup failed", "error", err)
		}
		fmt.Fprintln(r.out, "Signed out.")
	default:
		fmt.Fprintln(r.out, "commands: /list /open /chat /group /users /find /logout /quit")
	}
}

func (r *Repl) open(ctx context.Context, arg string) {
	view := r.controller.View()
	index, err := strconv.Atoi(arg)
	if err != nil || index < 1 || index > len(view.Summaries) {
		fmt.Fprintln(r.out, "no such conversation")
		return
	}

	r.controller.Select(ctx, view.Summaries[index-1].ID)
	r.controller.waitForLoad()
	r.render()
}

func (r *Repl) openDirect(ctx context.Context, username string) {
	identity, ok := r.store.Current()
	if !ok {
		fmt.Fprintln(r.out, "not signed in")
		return
	}

	profile, err := r.directory.ByUsername(ctx, username)
	if err != nil {
		color.Fprintf(r.out, "<red>unknown user %q</>\n", username)
		return
	}

	conversationID, err := r.conversations.FindOrCreateDirect(ctx, identity.UserID, profile.ID)
	if err != nil {
		color.Fprintf(r.out, "<red>%v</>\n", err)
		return
	}

	r.selectAndRender(ctx, conversationID)
}

func (r *Repl) createGroup(ctx context.Context, name string, usernames []string) {
	identity, ok := r.store.Current()
	if !ok {
		fmt.Fprintln(r.out, "not signed in")
		return
	}

	var memberIDs []uuid.UUID
	for _, username := range usernames {
		profile, err := r.directory.ByUsername(ctx, username)
		if err != nil {
			color.Fprintf(r.out, "<red>unknown user %q</>\n", username)
			return
		}
		memberIDs = append(memberIDs, profile.ID)
	}

	conversationID, err := r.conversations.CreateGroup(ctx, identity.UserID, name, memberIDs)
	if err != nil {
		color.Fprintf(r.out, "<red>%v</>\n", err)
		return
	}

	r.selectAndRender(ctx, conversationID)
}

func (r *Repl) listUsers(ctx context.Context, query string) {
	identity, ok := r.store.Current()
	if !ok {
		fmt.Fprintln(r.out, "not signed in")
		return
	}

	profiles, err := r.directory.Search(ctx, query, identity.UserID)
	if err != nil {
		color.Fprintf(r.out, "<red>directory unavailable</>\n")
		return
	}
	for _, profile := range profiles {
		fmt.Fprintf(r.out, "  %s (%s)\n", profile.Username, profile.Label())
	}
}

// selectAndRender hands a freshly created or resolved conversation id back
// to the controller, which selects it.
func (r *Repl) selectAndRender(ctx context.Context, conversationID uuid.UUID) {
	r.controller.RefreshList(ctx)
	r.controller.Select(ctx, conversationID)
	r.controller.waitForLoad()
	r.render()
}

func (r *Repl) render() {
	identity, _ := r.store.Current()
	RenderConversation(r.out, r.controller.View(), identity.Username)
}
