package session

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/openclaw-desk/internal/agent"
	"github.com/ajitpratap0/openclaw-desk/internal/intent"
)

// snapshot reads the live clinic state in parallel. A failed read leaves its
// part empty and is logged; interpretation proceeds with what arrived.
func (s *Session) snapshot(ctx context.Context) intent.Snapshot {
	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	snap := intent.Snapshot{Now: now}

	var g errgroup.Group
	g.Go(func() error {
		patients, err := s.backend.ListPatients(ctx)
		if err != nil {
			s.logger.Warn("snapshot: listing patients", "error", err)
			return nil
		}
		snap.Patients = patients
		return nil
	})
	g.Go(func() error {
		appts, err := s.backend.ListTodayAppointments(ctx)
		if err != nil {
			s.logger.Warn("snapshot: listing today's appointments", "error", err)
			return nil
		}
		snap.Today = appts
		return nil
	})
	g.Go(func() error {
		appts, err := s.backend.ListAppointments(ctx, today, today.AddDate(0, 0, s.calendarDays))
		if err != nil {
			s.logger.Warn("snapshot: listing calendar", "error", err)
			return nil
		}
		snap.Calendar = appts
		return nil
	})
	g.Go(func() error {
		c, err := s.backend.Counters(ctx)
		if err != nil {
			s.logger.Warn("snapshot: reading counters", "error", err)
			return nil
		}
		snap.Counters = *c
		return nil
	})
	_ = g.Wait()
	return snap
}

// agentRequest attaches the catalogue and the order list to the user's text.
func (s *Session) agentRequest(ctx context.Context, text string) agent.Request {
	req := agent.Request{Text: text}

	var g errgroup.Group
	g.Go(func() error {
		products, err := s.backend.ListProducts(ctx)
		if err != nil {
			s.logger.Warn("agent context: listing products", "error", err)
			return nil
		}
		req.Products = products
		return nil
	})
	g.Go(func() error {
		orders, err := s.backend.ListOrders(ctx)
		if err != nil {
			s.logger.Warn("agent context: listing orders", "error", err)
			return nil
		}
		req.Orders = orders
		return nil
	})
	_ = g.Wait()
	return req
}
