package shell

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/adrian-25/talk-glide/domain"
	apperrors "github.com/adrian-25/talk-glide/errors"
	"github.com/adrian-25/talk-glide/realtime"
	"github.com/adrian-25/talk-glide/session"
)

// fakeAuth opens a session for any credentials and never persists anything.
type fakeAuth struct {
	store  *session.Store
	logins int
}

func (f *fakeAuth) Register(_ context.Context, username, _, _ string) (session.Identity, error) {
	return f.Login(context.Background(), username, "")
}

func (f *fakeAuth) Login(_ context.Context, username, _ string) (session.Identity, error) {
	f.logins++
	identity := session.Identity{UserID: uuid.New(), Username: username}
	f.store.Set(identity)
	return identity, nil
}

func (f *fakeAuth) Resume(context.Context) (session.Identity, error) {
	return session.Identity{}, apperrors.ErrNoSession
}

func (f *fakeAuth) Logout() error {
	f.store.Clear()
	return nil
}

type fakeDirectory struct{}

func (fakeDirectory) Search(context.Context, string, uuid.UUID) ([]domain.Profile, error) {
	return nil, nil
}

func (fakeDirectory) ByUsername(context.Context, string) (domain.Profile, error) {
	return domain.Profile{}, apperrors.ErrNotFound
}

func newReplFixture(t *testing.T, input string) (*fakeAuth, *bytes.Buffer, *Repl) {
	t.Helper()
	store := session.NewStore()
	hub := realtime.NewHub(slog.Default(), 8)
	feed := newFakeFeed(hub)
	controller := NewController(slog.Default(), store, &fakeConversations{}, feed, nil, hub)

	auth := &fakeAuth{store: store}
	out := &bytes.Buffer{}
	repl := NewRepl(slog.Default(), controller, auth, fakeDirectory{}, &fakeConversations{}, store,
		strings.NewReader(input), out)
	return auth, out, repl
}

func TestRepl_Logout_Returns_To_Sign_In(t *testing.T) {
	req := require.New(t)
	auth, out, repl := newReplFixture(t, strings.Join([]string{
		"login alice secret",
		"/logout",
		"login bob secret",
		"/quit",
	}, "\n"))

	req.NoError(repl.Run(context.Background()))

	// Given the session was dropped mid-loop, the terminal signed back in
	req.Equal(2, auth.logins)
	req.Contains(out.String(), "Signed out.")
	req.Contains(out.String(), "bob")
}

func TestRepl_Exits_Cleanly_When_Input_Closes_After_Logout(t *testing.T) {
	req := require.New(t)
	_, out, repl := newReplFixture(t, "login alice secret\n/logout\n")

	req.NoError(repl.Run(context.Background()))
	req.Contains(out.String(), "Signed out.")
}

func TestRepl_Signed_Out_Commands_Print_A_Notice(t *testing.T) {
	req := require.New(t)
	_, out, repl := newReplFixture(t, "")

	repl.openDirect(context.Background(), "bob")
	repl.createGroup(context.Background(), "team", []string{"bob"})
	repl.listUsers(context.Background(), "")

	req.Equal(3, strings.Count(out.String(), "not signed in"))
}
