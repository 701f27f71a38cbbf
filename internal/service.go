package internal

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cloverbooth/kiosk/internal/model"
)

type IService interface {
	Submit(context.Context, model.OrderInput) (int, error)
	ToggleStatus(context.Context, int) error
	TogglePrinted(context.Context, int) error
	ToggleClaimed(context.Context, int) error
	Clear(context.Context, int) error
	Projection(context.Context) (model.Projection, error)
}

var (
	nameSanitizer  = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	emailSanitizer = regexp.MustCompile(`[^a-zA-Z0-9@._-]`)
)

type Service struct {
	Ledger  ILedger
	Hub     IHub
	cleared *Overlay
	domains map[string]struct{}
	logger  *zap.SugaredLogger

	// Guards the read-then-write paths against the ledger: ID
	// allocation and row updates both scan before writing, so writers
	// must not interleave.
	mu sync.Mutex
}

func NewService(ledger ILedger, hub IHub, cleared *Overlay, emailDomains []string, logger *zap.SugaredLogger) *Service {
	domains := make(map[string]struct{}, len(emailDomains))
	for _, d := range emailDomains {
		domains[strings.ToLower(d)] = struct{}{}
	}

	return &Service{Ledger: ledger, Hub: hub, cleared: cleared, domains: domains, logger: logger}
}

// Submit validates and appends a new Pending order, returning its
// assigned ID. The ID is max(existing)+1 computed under the write lock
// so concurrent submissions never collide.
func (s *Service) Submit(ctx context.Context, in model.OrderInput) (int, error) {
	o := model.Order{
		Name:       nameSanitizer.ReplaceAllString(in.Name, ""),
		Email:      emailSanitizer.ReplaceAllString(in.Email, ""),
		Copies:     in.Copies,
		AmountPaid: in.AmountPaid,
		Status:     model.StatusPending,
		Printed:    model.FlagNo,
		Claimed:    model.FlagNo,
		CreatedAt:  in.CreatedAt,
	}

	if o.Copies < 1 {
		return 0, ErrInvalidCopies
	}
	if o.AmountPaid.IsNegative() {
		return 0, ErrInvalidAmount
	}
	if err := s.checkEmailDomain(o.Email); err != nil {
		return 0, err
	}

	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}

	s.mu.Lock()
	orders, err := s.Ledger.ListAll(ctx)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}

	o.ID = nextID(orders)
	err = s.Ledger.Append(ctx, o)
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}

	s.broadcast(ctx)
	return o.ID, nil
}

// ToggleStatus flips an order between Pending and Done. Moving back to
// Pending also resets both fulfillment flags, so a re-queued order
// never carries stale printed/claimed state. The status write itself
// never touches the flags. Unknown IDs are a no-op.
func (s *Service) ToggleStatus(ctx context.Context, id int) error {
	s.mu.Lock()
	o, found, err := s.findOrder(ctx, id)
	if err != nil || !found {
		s.mu.Unlock()
		return err
	}

	if o.Status == model.StatusPending {
		_, err = s.Ledger.UpdateField(ctx, id, ColStatus, model.StatusDone)
	} else {
		_, err = s.Ledger.UpdateField(ctx, id, ColStatus, model.StatusPending)
		if err == nil {
			_, err = s.Ledger.UpdateField(ctx, id, ColPrinted, model.FlagNo)
		}
		if err == nil {
			_, err = s.Ledger.UpdateField(ctx, id, ColClaimed, model.FlagNo)
		}
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.broadcast(ctx)
	return nil
}

func (s *Service) TogglePrinted(ctx context.Context, id int) error {
	return s.toggleFlag(ctx, id, ColPrinted, func(o model.Order) string { return o.Printed })
}

func (s *Service) ToggleClaimed(ctx context.Context, id int) error {
	return s.toggleFlag(ctx, id, ColClaimed, func(o model.Order) string { return o.Claimed })
}

// Clear hides an order from all projections for the rest of the
// process lifetime. The ledger row is untouched.
func (s *Service) Clear(ctx context.Context, id int) error {
	s.cleared.Add(id)
	s.broadcast(ctx)
	return nil
}

// Projection re-reads the ledger and derives the current views. Safe
// to call concurrently with writers; the worst outcome is a view one
// mutation behind.
func (s *Service) Projection(ctx context.Context) (model.Projection, error) {
	orders, err := s.Ledger.ListAll(ctx)
	if err != nil {
		return model.Projection{}, err
	}
	return Project(orders, s.cleared), nil
}

func (s *Service) toggleFlag(ctx context.Context, id int, col Column, current func(model.Order) string) error {
	s.mu.Lock()
	o, found, err := s.findOrder(ctx, id)
	if err != nil || !found {
		s.mu.Unlock()
		return err
	}

	next := model.FlagYes
	if current(o) == model.FlagYes {
		next = model.FlagNo
	}
	_, err = s.Ledger.UpdateField(ctx, id, col, next)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.broadcast(ctx)
	return nil
}

func (s *Service) findOrder(ctx context.Context, id int) (model.Order, bool, error) {
	orders, err := s.Ledger.ListAll(ctx)
	if err != nil {
		return model.Order{}, false, err
	}
	for _, o := range orders {
		if o.ID == id {
			return o, true, nil
		}
	}
	return model.Order{}, false, nil
}

func (s *Service) checkEmailDomain(email string) error {
	if email == "" || len(s.domains) == 0 {
		return nil
	}

	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ErrEmailDomainNotAllowed
	}
	if _, ok := s.domains[strings.ToLower(email[at+1:])]; !ok {
		return ErrEmailDomainNotAllowed
	}
	return nil
}

// broadcast recomputes from the ledger and fans out. A failed re-read
// only costs the push; viewers catch up on the next change.
func (s *Service) broadcast(ctx context.Context) {
	p, err := s.Projection(ctx)
	if err != nil {
		s.logger.Errorf("broadcast skipped: %s", err.Error())
		return
	}
	s.Hub.Publish(p)
}

func nextID(orders []model.Order) int {
	max := 0
	for _, o := range orders {
		if o.ID > max {
			max = o.ID
		}
	}
	return max + 1
}
