package test_test

import (
	"sync"

	"go.uber.org/zap"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/cloverbooth/kiosk/internal"
	"github.com/cloverbooth/kiosk/internal/model"
)

var _ = Describe("Hub", func() {
	var hub *internal.Hub

	BeforeEach(func() {
		logger, err := zap.NewDevelopment()
		Expect(err).ShouldNot(HaveOccurred())
		hub = internal.NewHub(logger.Sugar())
	})

	projection := func(id int) model.Projection {
		return model.Projection{All: []model.OrderView{{ID: id}}, Pending: []model.OrderView{}}
	}

	It("delivers a published projection to every viewer", func() {
		a, cancelA := hub.Subscribe()
		defer cancelA()
		b, cancelB := hub.Subscribe()
		defer cancelB()

		hub.Publish(projection(1))

		Eventually(a).Should(Receive(Equal(projection(1))))
		Eventually(b).Should(Receive(Equal(projection(1))))
	})
	It("preserves per-viewer order", func() {
		ch, cancel := hub.Subscribe()
		defer cancel()

		hub.Publish(projection(1))
		hub.Publish(projection(2))
		hub.Publish(projection(3))

		Expect(<-ch).Should(Equal(projection(1)))
		Expect(<-ch).Should(Equal(projection(2)))
		Expect(<-ch).Should(Equal(projection(3)))
	})
	It("drops for a full viewer instead of blocking the publisher", func() {
		ch, cancel := hub.Subscribe()
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer GinkgoRecover()
			for i := 0; i < 100; i++ {
				hub.Publish(projection(i))
			}
			close(done)
		}()

		// Publisher must finish even though nobody drains the channel.
		Eventually(done).Should(BeClosed())
		Expect(<-ch).Should(Equal(projection(0)))
	})
	It("stops delivery after cancel", func() {
		ch, cancel := hub.Subscribe()
		cancel()

		hub.Publish(projection(1))
		Expect(ch).Should(BeClosed())
	})
	It("tolerates cancel being called twice", func() {
		_, cancel := hub.Subscribe()
		cancel()
		cancel()
	})
	It("handles concurrent subscribe and publish", func() {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				defer GinkgoRecover()
				_, cancel := hub.Subscribe()
				cancel()
			}()
			go func(n int) {
				defer wg.Done()
				defer GinkgoRecover()
				hub.Publish(projection(n))
			}(i)
		}
		wg.Wait()
	})
})

var _ = Describe("Overlay", func() {
	It("contains only added IDs", func() {
		o := internal.NewOverlay()
		Expect(o.Contains(1)).Should(BeFalse())

		o.Add(1)
		Expect(o.Contains(1)).Should(BeTrue())
		Expect(o.Contains(2)).Should(BeFalse())
	})
	It("is safe under concurrent adds and reads", func() {
		o := internal.NewOverlay()

		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				o.Add(id)
				o.Contains(id)
			}(i)
		}
		wg.Wait()

		for i := 0; i < 100; i++ {
			Expect(o.Contains(i)).Should(BeTrue())
		}
	})
})
