package terminal

import (
	"context"
	"errors"
	"fmt"
	"go-atm/model"
	"go-atm/service"
	"io"
	"strconv"
)

// userSession authenticates a card and, on success, runs the main menu for
// the resulting account.
func (t *Terminal) userSession(ctx context.Context) error {
	cardNo, err := t.promptLine("Enter card number: ")
	if err != nil {
		return err
	}

	account, err := t.sessions.Authenticate(ctx, cardNo, func(attempt int) (string, error) {
		if attempt > 1 {
			fmt.Fprintln(t.out, "Incorrect PIN, try again.")
		}
		return t.promptSecret("Enter PIN: ")
	})
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		t.renderError(err)
		return nil
	}

	fmt.Fprintf(t.out, "\nWelcome, %s!\n", account.Name)
	return t.mainMenu(ctx, account)
}

func (t *Terminal) mainMenu(ctx context.Context, account *model.Account) error {
	for {
		fmt.Fprint(t.out, "\n----- Main Menu -----\n")
		fmt.Fprint(t.out, "1. View Balance\n2. Mini Statement\n3. View Account Details\n4. Withdraw Cash\n5. Deposit Cash\n6. Transfer Funds\n7. Fast Cash\n8. Change PIN\n9. Exit\n")

		choice, err := t.promptLine("Select an option: ")
		if err != nil {
			return err
		}

		var opErr error
		switch choice {
		case "1":
			opErr = t.viewBalance(ctx, account)
		case "2":
			opErr = t.miniStatement(ctx, account)
		case "3":
			opErr = t.accountDetails(ctx, account)
		case "4":
			opErr = t.withdraw(ctx, account)
		case "5":
			opErr = t.deposit(ctx, account)
		case "6":
			opErr = t.transfer(ctx, account)
		case "7":
			opErr = t.fastCash(ctx, account)
		case "8":
			opErr = t.changePin(ctx, account)
		case "9":
			fmt.Fprintln(t.out, "Session ended. Please take your card.")
			return nil
		default:
			fmt.Fprintln(t.out, "Invalid selection, try again.")
		}
		if opErr != nil {
			return opErr
		}
	}
}

func (t *Terminal) viewBalance(ctx context.Context, account *model.Account) error {
	balance, err := t.engine.Balance(ctx, account)
	if err != nil {
		t.renderError(err)
		return nil
	}

	fmt.Fprintf(t.out, "Available balance: ₹%d\n", balance)
	return nil
}

func (t *Terminal) miniStatement(ctx context.Context, account *model.Account) error {
	transactions, err := t.engine.MiniStatement(ctx, account)
	if err != nil {
		t.renderError(err)
		return nil
	}

	if len(transactions) == 0 {
		fmt.Fprintln(t.out, "No transactions yet.")
		return nil
	}

	fmt.Fprintln(t.out, "----- Mini Statement -----")
	for _, transaction := range transactions {
		fmt.Fprintf(t.out, "%s  %-12s  ₹%d  %s\n",
			transaction.CreatedAt.Format("2006-01-02 15:04"),
			transaction.Kind,
			transaction.Amount,
			transaction.Detail,
		)
	}
	return nil
}

func (t *Terminal) accountDetails(ctx context.Context, account *model.Account) error {
	balance, err := t.engine.Balance(ctx, account)
	if err != nil {
		t.renderError(err)
		return nil
	}

	fmt.Fprintln(t.out, "----- Account Details -----")
	fmt.Fprintf(t.out, "Account Holder: %s\n", account.Name)
	fmt.Fprintf(t.out, "Account Number: %s\n", account.AccountNo)
	fmt.Fprintf(t.out, "Card Number:    %s\n", account.CardNo)
	fmt.Fprintf(t.out, "Balance:        ₹%d\n", balance)
	return nil
}

func (t *Terminal) withdraw(ctx context.Context, account *model.Account) error {
	amount, done, err := t.promptAmount("Enter amount to withdraw: ")
	if err != nil || done {
		return err
	}

	newBalance, err := t.engine.Withdraw(ctx, account, model.WithdrawRequest{Amount: amount})
	if err != nil {
		t.renderError(err)
		return nil
	}

	fmt.Fprintf(t.out, "Please collect your cash. New balance: ₹%d\n", newBalance)
	return nil
}

func (t *Terminal) deposit(ctx context.Context, account *model.Account) error {
	amount, done, err := t.promptAmount("Enter amount to deposit: ")
	if err != nil || done {
		return err
	}

	newBalance, err := t.engine.Deposit(ctx, account, model.DepositRequest{Amount: amount})
	if err != nil {
		t.renderError(err)
		return nil
	}

	fmt.Fprintf(t.out, "Deposit received. New balance: ₹%d\n", newBalance)
	return nil
}

func (t *Terminal) transfer(ctx context.Context, account *model.Account) error {
	targetAccountNo, err := t.promptLine("Enter target account number: ")
	if err != nil {
		return err
	}

	amount, done, err := t.promptAmount("Enter amount to transfer: ")
	if err != nil || done {
		return err
	}

	newBalance, err := t.engine.Transfer(ctx, account, model.TransferRequest{
		TargetAccountNo: targetAccountNo,
		Amount:          amount,
	})
	if err != nil {
		t.renderError(err)
		return nil
	}

	fmt.Fprintf(t.out, "Transfer complete. New balance: ₹%d\n", newBalance)
	return nil
}

func (t *Terminal) fastCash(ctx context.Context, account *model.Account) error {
	fmt.Fprintln(t.out, "----- Fast Cash -----")
	for i, amount := range t.engine.FastCashOptions() {
		fmt.Fprintf(t.out, "%d. ₹%d\n", i+1, amount)
	}

	choice, err := t.promptLine("Select an amount: ")
	if err != nil {
		return err
	}

	option, convErr := strconv.Atoi(choice)
	if convErr != nil {
		t.renderError(service.ErrInvalidOption)
		return nil
	}

	newBalance, err := t.engine.FastCash(ctx, account, option)
	if err != nil {
		t.renderError(err)
		return nil
	}

	fmt.Fprintf(t.out, "Please collect your cash. New balance: ₹%d\n", newBalance)
	return nil
}

func (t *Terminal) changePin(ctx context.Context, account *model.Account) error {
	currentPin, err := t.promptSecret("Enter current PIN: ")
	if err != nil {
		return err
	}
	newPin, err := t.promptSecret("Enter new PIN: ")
	if err != nil {
		return err
	}
	confirmPin, err := t.promptSecret("Confirm new PIN: ")
	if err != nil {
		return err
	}

	if err := t.engine.ChangePin(ctx, account, currentPin, newPin, confirmPin); err != nil {
		t.renderError(err)
		return nil
	}

	fmt.Fprintln(t.out, "PIN changed successfully.")
	return nil
}

// promptAmount reads and parses an integer amount. A non-numeric entry is
// reported on screen and ends the prompt with done set, returning the user
// to the menu.
func (t *Terminal) promptAmount(label string) (amount int64, done bool, err error) {
	input, err := t.promptLine(label)
	if err != nil {
		return 0, false, err
	}

	amount, convErr := strconv.ParseInt(input, 10, 64)
	if convErr != nil {
		t.renderError(service.ErrInvalidAmount)
		return 0, true, nil
	}
	return amount, false, nil
}
