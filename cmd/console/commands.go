package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	apperrors "github.com/jrsteele09/go-auth-console/internal/errors"
	"github.com/jrsteele09/go-auth-console/session"
	"github.com/jrsteele09/go-auth-console/token/jwt"
	"golang.org/x/term"
)

const (
	Green      = "\033[32m"
	Yellow     = "\033[33m"
	Gray       = "\033[90m"
	ResetColor = "\033[0m"
)

var stdin = bufio.NewReader(os.Stdin)

func (a *app) login(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("login", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	username := flags.String("u", "", "username or email")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	if *username == "" {
		name, err := prompt("Username: ")
		if err != nil {
			return err
		}
		*username = name
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	if err := a.manager.Login(ctx, *username, password); err != nil {
		return err
	}
	snap := a.manager.Snapshot()
	if !snap.IsAuthenticated() {
		return apperrors.ErrIdentityUnavailable
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", describeUser(snap))
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if a.manager.AccessToken() == "" {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	a.manager.Logout(ctx)
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *app) status() error {
	printStatus(a.out, a.manager.Snapshot())
	return nil
}

func printStatus(out io.Writer, snap session.Snapshot) {
	if !snap.IsAuthenticated() {
		fmt.Fprintf(out, "State:      %s\n", snap.State)
		return
	}
	fmt.Fprintf(out, "State:      %s\n", snap.State)
	fmt.Fprintf(out, "User:       %s\n", describeUser(snap))
	if roles := snap.Identity.RoleNames(); len(roles) > 0 {
		fmt.Fprintf(out, "Roles:      %s\n", strings.Join(roles, ", "))
	}

	decoded, ok := jwt.Decode(snap.AccessToken)
	if !ok {
		fmt.Fprintln(out, "Expires:    unknown (token could not be decoded)")
		return
	}
	if remaining, ok := decoded.Payload.TimeRemaining(); ok {
		fmt.Fprintf(out, "Expires in: %s\n", jwt.FormatRemaining(remaining))
	} else {
		fmt.Fprintln(out, "Expires:    never (no exp claim)")
	}
	if !snap.RenewAt.IsZero() {
		fmt.Fprintf(out, "Renews at:  %s\n", snap.RenewAt.Local().Format("15:04:05"))
	}
}

func (a *app) providers(ctx context.Context) error {
	providers := a.client.OAuthProviders(ctx)
	if len(providers) == 0 {
		fmt.Fprintln(a.out, "No third-party login providers")
		return nil
	}

	ids := make([]string, 0, len(providers))
	for id := range providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := providers[id]
		fmt.Fprintf(a.out, "%-12s %-16s %s\n", id, p.Name, p.URL)
	}
	return nil
}

func (a *app) tokens(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("tokens", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	revoke := flags.String("revoke", "", "id of the session to revoke")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	if !a.manager.IsAuthenticated() {
		return apperrors.ErrNoSession
	}

	if *revoke != "" {
		if err := a.client.DeleteMyToken(ctx, a.manager, *revoke); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Revoked %s\n", *revoke)
		return nil
	}

	list, err := a.client.MyTokens(ctx, a.manager)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No active sessions")
		return nil
	}

	var parentID string
	if decoded, ok := jwt.Decode(a.manager.AccessToken()); ok {
		parentID = decoded.Payload.ParentTokenID()
	}

	fmt.Fprintf(a.out, "%-3s%-38s %-8s %-20s %s\n", "", "ID", "TYPE", "LAST USED", "USER AGENT")
	for _, t := range list {
		marker, colour := "", Gray
		if t.IsCurrentSession(parentID) {
			marker, colour = "*", Green
		}
		fmt.Fprintf(a.out, "%s%-3s%-38s %-8s %-20s %s%s\n", colour, marker, t.ID, t.Type, t.LastUsed, t.UserAgent, ResetColor)
	}
	return nil
}

func describeUser(snap session.Snapshot) string {
	if snap.Identity == nil {
		return "unknown user"
	}
	name := snap.Identity.FullName()
	if name == "" {
		return snap.Identity.Email
	}
	return fmt.Sprintf("%s <%s>", name, snap.Identity.Email)
}

func prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := stdin.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(label)
	}
	fmt.Fprint(os.Stderr, label)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(password), nil
}
