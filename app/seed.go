package app

import (
	"database/sql"
	"go-atm/logger"
	"go-atm/model"

	"github.com/sirupsen/logrus"
)

// demoAccounts match the demo cards shipped with the machine.
var demoAccounts = []struct {
	account model.Account
	pin     string
}{
	{model.Account{AccountNo: "1001", Name: "Alice", CardNo: "1234567890", Balance: 100000}, "1111"},
	{model.Account{AccountNo: "1002", Name: "Bob", CardNo: "9876543210", Balance: 50000}, "2222"},
}

// Seed provisions the demo accounts, skipping any card that already exists,
// so it is safe to run repeatedly.
func (a *App) Seed() error {
	for _, demo := range demoAccounts {
		_, err := a.Accounts.GetAccountByCardNo(demo.account.CardNo)
		if err == nil {
			logger.Log.WithField("card_no", demo.account.CardNo).Info("Demo account already present, skipping")
			continue
		}
		if err != sql.ErrNoRows {
			return err
		}

		encoded, err := a.Verifier.Encode(demo.pin)
		if err != nil {
			return err
		}

		account := demo.account
		account.PIN = encoded
		if err := a.Accounts.CreateAccount(&account); err != nil {
			return err
		}

		logger.Log.WithFields(logrus.Fields{
			"account_no": account.AccountNo,
			"name":       account.Name,
		}).Info("Seeded demo account")
	}
	return nil
}
