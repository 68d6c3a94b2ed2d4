package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"go-atm/audit"
	"go-atm/common"
	"go-atm/service"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal drives the machine's interactive menus over an injected reader
// and writer, so tests can run full sessions against in-memory buffers.
type Terminal struct {
	source   io.Reader
	in       *bufio.Reader
	out      io.Writer
	sessions *service.SessionService
	engine   *service.TransactionEngine
	trail    *audit.Trail
}

func New(in io.Reader, out io.Writer, sessions *service.SessionService, engine *service.TransactionEngine, trail *audit.Trail) *Terminal {
	return &Terminal{
		source:   in,
		in:       bufio.NewReader(in),
		out:      out,
		sessions: sessions,
		engine:   engine,
		trail:    trail,
	}
}

// Run starts the welcome menu and blocks until the user exits or input ends.
func (t *Terminal) Run(ctx context.Context) error {
	for {
		fmt.Fprint(t.out, "\n===== Welcome to Go ATM =====\n")
		fmt.Fprint(t.out, "1. User Login\n2. Admin Menu\n3. Exit\n")

		choice, err := t.promptLine("Select an option: ")
		if err != nil {
			return exitOnEOF(err)
		}

		switch choice {
		case "1":
			if err := t.userSession(ctx); err != nil {
				return exitOnEOF(err)
			}
		case "2":
			if err := t.adminMenu(ctx); err != nil {
				return exitOnEOF(err)
			}
		case "3":
			fmt.Fprintln(t.out, "Thank you for banking with us.")
			return nil
		default:
			fmt.Fprintln(t.out, "Invalid selection, try again.")
		}
	}
}

// RunAdmin starts directly in the operator menu.
func (t *Terminal) RunAdmin(ctx context.Context) error {
	return exitOnEOF(t.adminMenu(ctx))
}

// exitOnEOF turns end of input into a clean shutdown.
func exitOnEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (t *Terminal) promptLine(label string) (string, error) {
	fmt.Fprint(t.out, label)
	return t.readLine()
}

// promptSecret reads a PIN. Input is masked when the terminal reads from a
// real TTY; buffer-backed readers fall back to a plain line read.
func (t *Terminal) promptSecret(label string) (string, error) {
	fmt.Fprint(t.out, label)

	if f, ok := t.source.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(t.out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	return t.readLine()
}

func (t *Terminal) renderError(err error) {
	t.mapServiceError(err).Render(t.out)
}

// mapServiceError translates engine and session errors into what the screen
// shows. Domain errors carry user-appropriate messages already; anything
// else becomes a generic message with the cause kept for the operator log.
func (t *Terminal) mapServiceError(err error) *common.AppError {
	switch err {
	case service.ErrCardNotFound, service.ErrCardBlocked, service.ErrAuthExhausted,
		service.ErrNoActiveSession, service.ErrInvalidAmount, service.ErrInsufficientFunds,
		service.ErrLimitExceeded, service.ErrPoolExhausted, service.ErrPoolCapacityExceeded,
		service.ErrTargetNotFound, service.ErrSameAccountTransfer, service.ErrInvalidOption,
		service.ErrAuthenticationFailed, service.ErrPinMismatch:
		return common.NewAppError(err.Error(), nil)
	default:
		return common.NewAppError("the machine cannot process this request right now", err)
	}
}
