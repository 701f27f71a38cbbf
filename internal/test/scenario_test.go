package test_test

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/cloverbooth/kiosk/internal"
	"github.com/cloverbooth/kiosk/internal/model"
)

// memLedger keeps rows in memory with the same semantics as the sheet:
// append at the end, update one field by scanning for the ID.
type memLedger struct {
	mu     sync.Mutex
	orders []model.Order
}

func (l *memLedger) ListAll(context.Context) ([]model.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Order, len(l.orders))
	copy(out, l.orders)
	return out, nil
}

func (l *memLedger) Append(_ context.Context, o model.Order) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.orders = append(l.orders, o)
	return nil
}

func (l *memLedger) UpdateField(_ context.Context, id int, col internal.Column, value string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.orders {
		if l.orders[i].ID != id {
			continue
		}
		switch col {
		case internal.ColStatus:
			l.orders[i].Status = value
		case internal.ColPrinted:
			l.orders[i].Printed = value
		case internal.ColClaimed:
			l.orders[i].Claimed = value
		}
		return true, nil
	}
	return false, nil
}

var _ = Describe("Queue lifecycle", func() {
	var (
		srv internal.IService
		hub *internal.Hub
	)
	BeforeEach(func() {
		logger, err := zap.NewDevelopment()
		Expect(err).ShouldNot(HaveOccurred())

		hub = internal.NewHub(logger.Sugar())
		srv = internal.NewService(&memLedger{}, hub, internal.NewOverlay(), nil, logger.Sugar())
	})
	It("runs the full submit, toggle and clear flow", func() {
		ctx := context.Background()

		idA, err := srv.Submit(ctx, model.OrderInput{Name: "A", Copies: 2, AmountPaid: decimal.RequireFromString("5.00")})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(idA).Should(Equal(1))

		p, err := srv.Projection(ctx)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(p.Pending).Should(HaveLen(1))
		Expect(p.Pending[0].ID).Should(Equal(1))
		Expect(p.Pending[0].QueueNumber).Should(Equal(1))

		idB, err := srv.Submit(ctx, model.OrderInput{Name: "B", Copies: 1, AmountPaid: decimal.Zero})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(idB).Should(Equal(2))

		p, err = srv.Projection(ctx)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(p.Pending).Should(HaveLen(2))
		Expect(p.Pending[1].ID).Should(Equal(2))
		Expect(p.Pending[1].QueueNumber).Should(Equal(2))

		err = srv.ToggleStatus(ctx, idA)
		Expect(err).ShouldNot(HaveOccurred())

		p, err = srv.Projection(ctx)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(p.All).Should(HaveLen(2))
		Expect(p.Pending).Should(HaveLen(1))
		Expect(p.Pending[0].ID).Should(Equal(2))
		Expect(p.Pending[0].QueueNumber).Should(Equal(1))

		err = srv.Clear(ctx, idB)
		Expect(err).ShouldNot(HaveOccurred())

		p, err = srv.Projection(ctx)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(p.All).Should(HaveLen(1))
		Expect(p.All[0].ID).Should(Equal(1))
		Expect(p.Pending).Should(BeEmpty())

		err = srv.ToggleStatus(ctx, idA)
		Expect(err).ShouldNot(HaveOccurred())

		p, err = srv.Projection(ctx)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(p.Pending).Should(HaveLen(1))
		Expect(p.Pending[0].ID).Should(Equal(1))
		Expect(p.Pending[0].QueueNumber).Should(Equal(1))
		Expect(p.Pending[0].Printed).Should(Equal(model.FlagNo))
		Expect(p.Pending[0].Claimed).Should(Equal(model.FlagNo))
	})
	It("keeps a cleared order hidden across further toggles", func() {
		ctx := context.Background()

		id, err := srv.Submit(ctx, model.OrderInput{Name: "A", Copies: 1, AmountPaid: decimal.Zero})
		Expect(err).ShouldNot(HaveOccurred())

		Expect(srv.Clear(ctx, id)).Should(Succeed())
		Expect(srv.ToggleStatus(ctx, id)).Should(Succeed())
		Expect(srv.ToggleStatus(ctx, id)).Should(Succeed())

		p, err := srv.Projection(ctx)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(p.All).Should(BeEmpty())
		Expect(p.Pending).Should(BeEmpty())
	})
	It("assigns distinct increasing IDs under concurrent submissions", func() {
		ctx := context.Background()
		const n = 50

		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func() {
				defer wg.Done()
				defer GinkgoRecover()
				_, err := srv.Submit(ctx, model.OrderInput{Name: "C", Copies: 1, AmountPaid: decimal.Zero})
				Expect(err).ShouldNot(HaveOccurred())
			}()
		}
		wg.Wait()

		p, err := srv.Projection(ctx)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(p.All).Should(HaveLen(n))

		ids := make([]int, 0, n)
		for _, o := range p.All {
			ids = append(ids, o.ID)
		}
		sort.Ints(ids)
		for i, id := range ids {
			Expect(id).Should(Equal(i + 1))
		}
	})
})
