package internal

import "github.com/cloverbooth/kiosk/internal/model"

// Project derives the visible views from the full order set. Cleared
// orders are dropped entirely; the rest land in All, and Pending ones
// additionally get a 1-based queue number in ledger order. Pure: it
// only reads its inputs.
func Project(orders []model.Order, cleared *Overlay) model.Projection {
	p := model.Projection{
		All:     make([]model.OrderView, 0, len(orders)),
		Pending: make([]model.OrderView, 0, len(orders)),
	}

	queue := 0
	for _, o := range orders {
		if cleared.Contains(o.ID) {
			continue
		}

		v := model.OrderView{
			ID:         o.ID,
			Name:       o.Name,
			Email:      o.Email,
			Copies:     o.Copies,
			AmountPaid: o.AmountPaid,
			Status:     o.Status,
			Printed:    o.Printed,
			Claimed:    o.Claimed,
			CreatedAt:  o.CreatedAt,
		}

		if o.Status == model.StatusPending {
			queue++
			v.QueueNumber = queue
			p.Pending = append(p.Pending, v)
		}
		p.All = append(p.All, v)
	}

	return p
}
