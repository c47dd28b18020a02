// Package app applies user commands to the budget tracker state.
//
// Every command runs validate, mutate, persist and publish to completion
// while holding the controller lock. A command that fails validation leaves
// the state untouched and writes nothing. A command whose save fails is
// rolled back.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"budgettracker/internal/core"
	applog "budgettracker/internal/log"
	"budgettracker/internal/persistence"
)

// Event types published after a successful command.
const (
	EventExpenseCreated  = "expense.created"
	EventExpenseDeleted  = "expense.deleted"
	EventBudgetSet       = "budget.set"
	EventReminderCreated = "reminder.created"
	EventReminderDeleted = "reminder.deleted"
)

var ErrInvalidID = errors.New("invalid id")

// State is the full application state.
type State = persistence.Snapshot

// Saver persists a full state snapshot.
type Saver interface {
	Save(ctx context.Context, snap persistence.Snapshot) error
}

// EventPublisher announces state changes. Implementations must tolerate
// being called with the controller lock held.
type EventPublisher interface {
	PublishStateEvent(ctx context.Context, eventType string, id int64, amountCents int64) error
}

type Options struct {
	Events EventPublisher
	Now    func() time.Time
	Logger *slog.Logger
}

type Controller struct {
	mu     sync.Mutex
	state  State
	saver  Saver
	events EventPublisher
	now    func() time.Time
	lastID int64
	logger *slog.Logger
}

// NewController starts from a loaded state. IDs handed out later are always
// greater than any id already present in it.
func NewController(initial State, saver Saver, opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	c := &Controller{
		state:  cloneState(initial),
		saver:  saver,
		events: opts.Events,
		now:    opts.Now,
		logger: applog.WithComponent(opts.Logger, applog.ComponentController),
	}
	for _, e := range initial.Expenses {
		c.lastID = max(c.lastID, e.ID)
	}
	for _, r := range initial.Reminders {
		c.lastID = max(c.lastID, r.ID)
	}
	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneState(c.state)
}

// Today returns the controller clock's calendar date.
func (c *Controller) Today() core.Date {
	return core.Today(c.now())
}

// AddExpense records a new expense dated today at the front of the list.
func (c *Controller) AddExpense(ctx context.Context, description, amount, category string) (core.Expense, error) {
	money, err := parseAmount(amount)
	if err != nil {
		return core.Expense{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	e := core.Expense{
		Description: strings.TrimSpace(description),
		Amount:      money,
		Category:    strings.TrimSpace(category),
		Date:        core.Today(now),
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	e.ID = c.nextID(now)

	next := cloneState(c.state)
	next.Expenses = append([]core.Expense{e}, next.Expenses...)
	if err := c.commit(ctx, next); err != nil {
		return core.Expense{}, err
	}

	c.logger.InfoContext(ctx, "Expense added",
		applog.FieldExpenseID, e.ID,
		applog.FieldAmountCents, e.Amount.Cents,
		applog.FieldCategory, e.Category)
	c.publish(ctx, EventExpenseCreated, e.ID, e.Amount.Cents)
	return e, nil
}

// SetBudget overwrites the monthly budget.
func (c *Controller) SetBudget(ctx context.Context, amount string) (core.Money, error) {
	money, err := parseAmount(amount)
	if err != nil {
		return core.Money{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := cloneState(c.state)
	next.Budget = money
	if err := c.commit(ctx, next); err != nil {
		return core.Money{}, err
	}

	c.logger.InfoContext(ctx, "Budget set", applog.FieldAmountCents, money.Cents)
	c.publish(ctx, EventBudgetSet, 0, money.Cents)
	return money, nil
}

// AddReminder records a new bill reminder created today.
func (c *Controller) AddReminder(ctx context.Context, name, amount, date, frequency string) (core.Reminder, error) {
	money, err := parseAmount(amount)
	if err != nil {
		return core.Reminder{}, err
	}
	due, err := core.ParseDate(date)
	if err != nil {
		return core.Reminder{}, &core.ValidationError{Field: "date", Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	r := core.Reminder{
		Name:      strings.TrimSpace(name),
		Amount:    money,
		Date:      due,
		Frequency: strings.TrimSpace(frequency),
		Created:   core.Today(now),
	}
	if err := r.Validate(); err != nil {
		return core.Reminder{}, err
	}
	r.ID = c.nextID(now)

	next := cloneState(c.state)
	next.Reminders = append([]core.Reminder{r}, next.Reminders...)
	if err := c.commit(ctx, next); err != nil {
		return core.Reminder{}, err
	}

	c.logger.InfoContext(ctx, "Reminder added",
		applog.FieldReminderID, r.ID,
		applog.FieldAmountCents, r.Amount.Cents,
		applog.FieldFrequency, r.Frequency)
	c.publish(ctx, EventReminderCreated, r.ID, r.Amount.Cents)
	return r, nil
}

// DeleteExpense removes the expense with id. A missing id is not an error;
// the state is saved either way. It reports whether a record was removed.
func (c *Controller) DeleteExpense(ctx context.Context, id int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := cloneState(c.state)
	idx := slices.IndexFunc(next.Expenses, func(e core.Expense) bool { return e.ID == id })
	var removed core.Expense
	if idx >= 0 {
		removed = next.Expenses[idx]
		next.Expenses = slices.Delete(next.Expenses, idx, idx+1)
	}
	if err := c.commit(ctx, next); err != nil {
		return false, err
	}
	if idx < 0 {
		c.logger.DebugContext(ctx, "Expense not found for delete", applog.FieldExpenseID, id)
		return false, nil
	}

	c.logger.InfoContext(ctx, "Expense deleted", applog.FieldExpenseID, id)
	c.publish(ctx, EventExpenseDeleted, id, removed.Amount.Cents)
	return true, nil
}

// DeleteReminder removes the reminder with id, following DeleteExpense.
func (c *Controller) DeleteReminder(ctx context.Context, id int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := cloneState(c.state)
	idx := slices.IndexFunc(next.Reminders, func(r core.Reminder) bool { return r.ID == id })
	var removed core.Reminder
	if idx >= 0 {
		removed = next.Reminders[idx]
		next.Reminders = slices.Delete(next.Reminders, idx, idx+1)
	}
	if err := c.commit(ctx, next); err != nil {
		return false, err
	}
	if idx < 0 {
		c.logger.DebugContext(ctx, "Reminder not found for delete", applog.FieldReminderID, id)
		return false, nil
	}

	c.logger.InfoContext(ctx, "Reminder deleted", applog.FieldReminderID, id)
	c.publish(ctx, EventReminderDeleted, id, removed.Amount.Cents)
	return true, nil
}

// commit saves next and only then makes it current. Caller holds c.mu.
func (c *Controller) commit(ctx context.Context, next State) error {
	if err := c.saver.Save(ctx, next); err != nil {
		c.logger.ErrorContext(ctx, "Failed to persist state",
			applog.FieldOperation, applog.OpSave, applog.FieldError, err)
		return fmt.Errorf("persist state: %w", err)
	}
	c.state = next
	return nil
}

func (c *Controller) publish(ctx context.Context, eventType string, id, amountCents int64) {
	if c.events == nil {
		return
	}
	if err := c.events.PublishStateEvent(ctx, eventType, id, amountCents); err != nil {
		c.logger.WarnContext(ctx, "Failed to publish state event",
			applog.FieldOperation, applog.OpPublish, "event_type", eventType, applog.FieldError, err)
	}
}

// nextID returns now in Unix milliseconds, or one past the last id when the
// clock has not moved forward. Caller holds c.mu.
func (c *Controller) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return id
}

func parseAmount(s string) (core.Money, error) {
	m, err := core.ParseMoney(s)
	if err != nil {
		return core.Money{}, &core.ValidationError{Field: "amount", Err: core.ErrInvalidAmount}
	}
	if err := m.Validate(); err != nil {
		return core.Money{}, &core.ValidationError{Field: "amount", Err: err}
	}
	return m, nil
}

// ParseID parses a record id as sent by a form or command line.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, &core.ValidationError{Field: "id", Err: ErrInvalidID}
	}
	return id, nil
}

func cloneState(s State) State {
	return State{
		Expenses:  slices.Clone(s.Expenses),
		Reminders: slices.Clone(s.Reminders),
		Budget:    s.Budget,
	}
}
