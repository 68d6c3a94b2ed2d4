package audit

import (
	"fmt"
	"go-atm/model"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Trail is the machine's append-only audit sink. It records operational
// events (logins, blocks, PIN changes, cash loads) and one structured entry
// per completed money movement. It is not the financial ledger; the ledger
// lives in the database.
type Trail struct {
	log  *logrus.Logger
	file *os.File
	path string
}

// New opens the audit file at path, creating it if needed, and appends to it.
func New(path string) (*Trail, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("could not open audit log: %w", err)
	}

	log := logrus.New()
	log.SetOutput(file)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: true,
	})

	return &Trail{log: log, file: file, path: path}, nil
}

// Discard returns a trail that drops every entry. Used by tests.
func Discard() *Trail {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &Trail{log: log}
}

// Event records a free-text operational entry.
func (t *Trail) Event(format string, args ...interface{}) {
	t.log.Infof(format, args...)
}

// Movement records a structured entry for a completed money movement.
func (t *Trail) Movement(accountNo string, kind model.TransactionKind, amount int64, detail string) {
	t.log.WithFields(logrus.Fields{
		"account_no": accountNo,
		"kind":       kind,
		"amount":     amount,
		"detail":     detail,
	}).Info("Movement recorded")
}

// Dump copies the audit file to w and reports how many bytes it wrote. A
// trail without a backing file, or a file that no longer exists, dumps
// nothing.
func (t *Trail) Dump(w io.Writer) (int64, error) {
	if t.path == "" {
		return 0, nil
	}

	file, err := os.Open(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("could not open audit log: %w", err)
	}
	defer file.Close()

	return io.Copy(w, file)
}

// Close releases the underlying file.
func (t *Trail) Close() error {
	if t.file == nil {
		return nil
	}
	return t.file.Close()
}
