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

// execIface is the command surface the REPL drives. *App satisfies it;
// tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	VerifyEmail(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context) error
	ResetPassword(ctx context.Context, token string) error
	Logout(ctx context.Context) error
	ForgetMe(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Profile(ctx context.Context) error
	Back(ctx context.Context) error
}

const (
	helpAnonymous = "Available commands: login, signup, verify [token], forgot, reset [token], dashboard, profile, back, forget, exit"
	helpLoggedIn  = "Available commands: dashboard, profile, back, logout, forget, exit"
)

// runREPL reads commands line by line from reader and dispatches them to a.
// The prompt shows statusFn(). The loop ends on EOF, on "exit"/"quit" or
// when ctx is done. Handler errors are printed and the loop carries on.
//
//	Not logged in:  login, signup (register), verify [token], forgot,
//	                reset [token], dashboard, profile, back, forget, exit
//	Logged in:      dashboard, profile, back, logout, forget, exit
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for ctx.Err() == nil {
		printlnFn(fmt.Sprintf("authgate %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, arg := parts[0], ""
		if len(parts) > 1 {
			arg = parts[1]
		}

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpAnonymous)
			}
		case "login":
			cmdErr = a.Login(ctx)
		case "signup", "register":
			cmdErr = a.Signup(ctx)
		case "verify":
			cmdErr = a.VerifyEmail(ctx, arg)
		case "forgot":
			cmdErr = a.ForgotPassword(ctx)
		case "reset":
			cmdErr = a.ResetPassword(ctx, arg)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "forget":
			cmdErr = a.ForgetMe(ctx)
		case "dashboard":
			cmdErr = a.Dashboard(ctx)
		case "profile":
			cmdErr = a.Profile(ctx)
		case "back":
			cmdErr = a.Back(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
