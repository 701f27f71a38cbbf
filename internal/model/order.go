package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending = "Pending"
	StatusDone    = "Done"
)

const (
	FlagYes = "Yes"
	FlagNo  = "No"
)

type Order struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Copies     int             `json:"copies"`
	AmountPaid decimal.Decimal `json:"amountPaid"`
	Status     string          `json:"status"`
	Printed    string          `json:"printed"`
	Claimed    string          `json:"claimed"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// OrderInput is a submission before the service has assigned an ID.
// A zero CreatedAt means the server timestamps it.
type OrderInput struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Copies     int             `json:"copies"`
	AmountPaid decimal.Decimal `json:"amountPaid"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// OrderView is one projected row. QueueNumber is only set on Pending
// orders; it is recomputed on every projection and never stored.
type OrderView struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Copies      int             `json:"copies"`
	AmountPaid  decimal.Decimal `json:"amountPaid"`
	Status      string          `json:"status"`
	Printed     string          `json:"printed"`
	Claimed     string          `json:"claimed"`
	CreatedAt   time.Time       `json:"createdAt"`
	QueueNumber int             `json:"queueNumber,omitempty"`
}

type Projection struct {
	All     []OrderView `json:"all"`
	Pending []OrderView `json:"pending"`
}
