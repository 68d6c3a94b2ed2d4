package terminal

import (
	"context"
	"fmt"
	"go-atm/model"
)

// adminMenu runs the operator menu. It is out-of-band from any card session.
func (t *Terminal) adminMenu(ctx context.Context) error {
	for {
		fmt.Fprint(t.out, "\n----- Admin Menu -----\n")
		fmt.Fprint(t.out, "1. Load Cash\n2. View ATM Total Cash\n3. View Transaction Logs\n4. Exit\n")

		choice, err := t.promptLine("Select an option: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			if err := t.loadCash(ctx); err != nil {
				return err
			}
		case "2":
			total, err := t.engine.PoolTotal(ctx)
			if err != nil {
				t.renderError(err)
				continue
			}
			fmt.Fprintf(t.out, "Machine currently holds ₹%d\n", total)
		case "3":
			fmt.Fprintln(t.out, "----- Transaction Logs -----")
			n, err := t.trail.Dump(t.out)
			if err != nil {
				t.renderError(err)
			} else if n == 0 {
				fmt.Fprintln(t.out, "No logs found.")
			}
		case "4":
			return nil
		default:
			fmt.Fprintln(t.out, "Invalid selection, try again.")
		}
	}
}

func (t *Terminal) loadCash(ctx context.Context) error {
	amount, done, err := t.promptAmount("Enter amount to load: ")
	if err != nil || done {
		return err
	}

	newTotal, err := t.engine.LoadCash(ctx, model.LoadCashRequest{Amount: amount})
	if err != nil {
		t.renderError(err)
		return nil
	}

	fmt.Fprintf(t.out, "Cash loaded. Machine now holds ₹%d\n", newTotal)
	return nil
}
