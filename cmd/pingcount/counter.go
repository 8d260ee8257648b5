package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/codewandler/mailbox-go/core/mailbox"
)

type (
	// Ping is sent by producers. Every ping increments the counter.
	Ping struct {
		Msg string `json:"msg"`
	}

	// Pong answers a Ping.
	Pong struct {
		OK    bool `json:"ok"`
		Count int  `json:"count"`
	}
)

// countPing is the counter handler. It owns the count exclusively.
func countPing(_ context.Context, p Ping, count *int) Pong {
	*count++
	return Pong{OK: p.Msg == "ping", Count: *count}
}

func newCounter(ctx context.Context, log *slog.Logger, metrics mailbox.Metrics) *mailbox.Handle[Ping, Pong] {
	return mailbox.New[Ping, Pong, int](
		mailbox.Options{
			ID:      "counter",
			Context: ctx,
			Logger:  log,
			Metrics: metrics,
		},
		mailbox.HandlerFunc[Ping, Pong, int](countPing),
		0,
	)
}

// Result summarizes one run.
type Result struct {
	Sent     int
	Pongs    int
	MaxCount int
}

// runProducers starts producers goroutines, each emitting events pings
// through its own clone of mb and awaiting every reply.
func runProducers(ctx context.Context, mb *mailbox.Handle[Ping, Pong], producers, events int) (Result, error) {
	var (
		mu   sync.Mutex
		res  Result
		errs = make(chan error, producers)
		wg   sync.WaitGroup
	)

	for range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h := mb.Clone()
			defer h.Close()

			for range events {
				reply, err := h.Emit(ctx, Ping{Msg: "ping"})
				if err != nil {
					errs <- err
					return
				}
				pong, err := reply.Receive(ctx)
				if err != nil {
					errs <- err
					return
				}

				mu.Lock()
				res.Sent++
				if pong.OK {
					res.Pongs++
				}
				res.MaxCount = max(res.MaxCount, pong.Count)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		return res, fmt.Errorf("producer failed: %w", err)
	}
	return res, nil
}
