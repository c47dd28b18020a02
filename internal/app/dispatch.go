package app

import (
	"context"
	"errors"
	"fmt"

	applog "budgettracker/internal/log"
)

type Intent string

const (
	IntentAddExpense     Intent = "add-expense"
	IntentSetBudget      Intent = "set-budget"
	IntentAddReminder    Intent = "add-reminder"
	IntentDeleteExpense  Intent = "delete-expense"
	IntentDeleteReminder Intent = "delete-reminder"
)

var ErrUnknownIntent = errors.New("unknown intent")

// NotificationKind matches the toast styles of the rendering surfaces.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyWarning NotificationKind = "warning"
	NotifyInfo    NotificationKind = "info"
)

type Notification struct {
	Kind    NotificationKind `json:"type"`
	Message string           `json:"message"`
}

// Input carries the named fields of a command, e.g. form values.
type Input map[string]string

type Result struct {
	Notification Notification
	// ID is the id of the created or deleted record, zero for the budget.
	ID int64
}

// Command describes one user intent: the fields it reads, the confirmation
// prompt a surface should show first (empty when none), the message shown
// when validation fails, and how to run it.
type Command struct {
	Intent  Intent
	Fields  []string
	Confirm string
	Invalid string
	Run     func(ctx context.Context, c *Controller, in Input) (Result, error)
}

var commands = map[Intent]Command{
	IntentAddExpense: {
		Intent:  IntentAddExpense,
		Fields:  []string{"description", "amount", "category"},
		Invalid: "Please fill in all fields",
		Run: func(ctx context.Context, c *Controller, in Input) (Result, error) {
			e, err := c.AddExpense(ctx, in["description"], in["amount"], in["category"])
			if err != nil {
				return Result{}, err
			}
			return Result{ID: e.ID, Notification: Notification{Kind: NotifySuccess, Message: "Expense added successfully!"}}, nil
		},
	},
	IntentSetBudget: {
		Intent:  IntentSetBudget,
		Fields:  []string{"amount"},
		Invalid: "Please enter a valid budget amount",
		Run: func(ctx context.Context, c *Controller, in Input) (Result, error) {
			if _, err := c.SetBudget(ctx, in["amount"]); err != nil {
				return Result{}, err
			}
			return Result{Notification: Notification{Kind: NotifySuccess, Message: "Budget set successfully!"}}, nil
		},
	},
	IntentAddReminder: {
		Intent:  IntentAddReminder,
		Fields:  []string{"name", "amount", "date", "frequency"},
		Invalid: "Please fill in all fields",
		Run: func(ctx context.Context, c *Controller, in Input) (Result, error) {
			r, err := c.AddReminder(ctx, in["name"], in["amount"], in["date"], in["frequency"])
			if err != nil {
				return Result{}, err
			}
			return Result{ID: r.ID, Notification: Notification{Kind: NotifySuccess, Message: "Reminder added successfully!"}}, nil
		},
	},
	IntentDeleteExpense: {
		Intent:  IntentDeleteExpense,
		Fields:  []string{"id"},
		Confirm: "Are you sure you want to delete this expense?",
		Invalid: "Invalid expense id",
		Run: func(ctx context.Context, c *Controller, in Input) (Result, error) {
			id, err := ParseID(in["id"])
			if err != nil {
				return Result{}, err
			}
			if _, err := c.DeleteExpense(ctx, id); err != nil {
				return Result{}, err
			}
			return Result{ID: id, Notification: Notification{Kind: NotifyInfo, Message: "Expense deleted!"}}, nil
		},
	},
	IntentDeleteReminder: {
		Intent:  IntentDeleteReminder,
		Fields:  []string{"id"},
		Confirm: "Are you sure you want to delete this reminder?",
		Invalid: "Invalid reminder id",
		Run: func(ctx context.Context, c *Controller, in Input) (Result, error) {
			id, err := ParseID(in["id"])
			if err != nil {
				return Result{}, err
			}
			if _, err := c.DeleteReminder(ctx, id); err != nil {
				return Result{}, err
			}
			return Result{ID: id, Notification: Notification{Kind: NotifyInfo, Message: "Reminder deleted!"}}, nil
		},
	},
}

// LookupCommand returns the command registered for intent.
func LookupCommand(intent Intent) (Command, bool) {
	cmd, ok := commands[intent]
	return cmd, ok
}

// Dispatch runs the command registered for intent.
func (c *Controller) Dispatch(ctx context.Context, intent Intent, in Input) (Result, error) {
	cmd, ok := commands[intent]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownIntent, intent)
	}
	c.logger.DebugContext(ctx, "Dispatching command", applog.FieldIntent, string(intent))
	return cmd.Run(ctx, c, in)
}
