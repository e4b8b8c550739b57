package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

func (e *env) runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("auth login", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	username := fs.String("u", "", "Huum account username/email")
	password := fs.String("p", "", "Huum account password")
	if err := fs.Parse(args); err != nil {
		return usageErrorf("parse login flags: %v", err)
	}

	user := strings.TrimSpace(*username)
	pass := *password
	if user == "" {
		fmt.Fprint(e.stdout, "Username/Email: ")
		line, err := e.readLine()
		if err != nil {
			return usageErrorf("read username: %v", err)
		}
		user = strings.TrimSpace(line)
	}
	if user == "" {
		return usageErrorf("username is required")
	}
	if pass == "" {
		fmt.Fprint(e.stdout, "Password: ")
		secret, err := e.readPassword()
		fmt.Fprintln(e.stdout)
		if err != nil {
			return usageErrorf("read password: %v", err)
		}
		pass = secret
	}
	if pass == "" {
		return usageErrorf("password is required")
	}

	fmt.Fprintln(e.stdout, "Authenticating...")
	creds, err := e.authenticate(ctx, user, pass)
	if err != nil {
		return err
	}

	if err := e.creds.Put(creds); err != nil {
		return &storageError{err: err}
	}

	// Verify the session works before declaring victory.
	api, release, err := e.newAPI(creds.Session)
	if err != nil {
		return err
	}
	defer release()
	devices, err := api.Status(ctx)
	if err != nil {
		return err
	}

	printSuccess(e.stdout, "Authentication successful")
	printSuccess(e.stdout, "Credentials stored")
	printSuccess(e.stdout, "Found %d sauna device(s)", len(devices))
	return nil
}

func (e *env) runLogout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("auth logout", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	force := fs.Bool("f", false, "skip confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return usageErrorf("parse logout flags: %v", err)
	}

	_, ok, err := e.creds.Get()
	if err != nil {
		return &storageError{err: err}
	}
	if !ok {
		fmt.Fprintln(e.stdout, "Not currently authenticated.")
		return nil
	}

	if !*force {
		fmt.Fprint(e.stdout, "Are you sure you want to log out? [y/N]: ")
		line, err := e.readLine()
		if err != nil {
			return usageErrorf("read confirmation: %v", err)
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(e.stdout, "Logout cancelled.")
			return nil
		}
	}

	if err := e.creds.Delete(); err != nil {
		return &storageError{err: err}
	}
	printSuccess(e.stdout, "Logged out")
	printSuccess(e.stdout, "Credentials removed")
	return nil
}

func (e *env) readLine() (string, error) {
	reader := bufio.NewReader(e.stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readPasswordFromTerminal reads without echo when stdin is a terminal and
// falls back to a plain line read otherwise (pipes, CI).
func readPasswordFromTerminal() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
