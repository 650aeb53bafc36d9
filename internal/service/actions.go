package service

import (
	"fmt"
	"time"

	"github.com/jask/moneydash/internal/database/repository"
	"github.com/jask/moneydash/internal/money"
)

// Activity kinds recorded in the audit log.
const (
	ActivityAddTx             = "add_tx"
	ActivityEditTx            = "edit_tx"
	ActivityDeleteTx          = "delete_tx"
	ActivityAddMethod         = "add_method"
	ActivityRenameMethod      = "rename_method"
	ActivityRepositionMethods = "reposition_methods"
)

// Action is a state-changing request applied by Ledger.Apply.
type Action interface {
	activityKind() string
}

// TxInput is a transaction as entered by the user. Methods are referenced by name.
type TxInput struct {
	Date        time.Time
	Details     string
	Method      string
	ToMethod    string // transfers only
	AmountCents int64
	Type        repository.TxType
	Tags        []string
}

func (in TxInput) describe() string {
	desc := fmt.Sprintf("%s %s %s via %s", in.Date.Format(repository.DateLayout), in.Type, money.Format(in.AmountCents, ""), in.Method)
	if in.Type == repository.TxTransfer {
		desc += " to " + in.ToMethod
	}
	if in.Details != "" {
		desc += ": " + in.Details
	}
	return desc
}

type InsertTx struct {
	Tx TxInput
}

type EditTx struct {
	ID string
	Tx TxInput
}

type DeleteTx struct {
	ID string
}

// AddMethod inserts a method at Position, shifting later ones down.
type AddMethod struct {
	Name     string
	Position int
}

type RenameMethod struct {
	ID   string
	Name string
}

// RepositionMethods sets the display order. Order must list every method ID once.
type RepositionMethods struct {
	Order []string
}

func (InsertTx) activityKind() string          { return ActivityAddTx }
func (EditTx) activityKind() string            { return ActivityEditTx }
func (DeleteTx) activityKind() string          { return ActivityDeleteTx }
func (AddMethod) activityKind() string         { return ActivityAddMethod }
func (RenameMethod) activityKind() string      { return ActivityRenameMethod }
func (RepositionMethods) activityKind() string { return ActivityRepositionMethods }
