package service

import (
	"context"
	"errors"
	"sync"
	"time"
)

// TaskError accumulates multiple errors produced during bulk seeding.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// SeedSIPInput is one enrollment to replay for a seeded account.
type SeedSIPInput struct {
	SchemeName    string
	MonthlyAmount int64
	StartDate     time.Time
}

// SeedAccountInput bundles a signup with the SIP enrollments to create
// for the resulting account.
type SeedAccountInput struct {
	Signup SignupInput
	SIPs   []SeedSIPInput
}

// BulkSeeder replays seed accounts through the service using a worker
// pool. Accounts run concurrently; a single account's enrollments run in
// order so the store order matches the dataset order.
type BulkSeeder struct {
	service *SIPService
	workers int
}

// NewBulkSeeder creates a BulkSeeder with the provided concurrency.
func NewBulkSeeder(service *SIPService, workers int) *BulkSeeder {
	if workers <= 0 {
		workers = 4
	}
	return &BulkSeeder{
		service: service,
		workers: workers,
	}
}

// SeedAccounts signs up each account and creates its SIP records.
func (bs *BulkSeeder) SeedAccounts(ctx context.Context, accounts []SeedAccountInput) error {
	return bs.run(ctx, len(accounts), func(idx int) error {
		return bs.seedOne(ctx, accounts[idx])
	})
}

func (bs *BulkSeeder) seedOne(ctx context.Context, account SeedAccountInput) error {
	result, err := bs.service.SignUp(ctx, account.Signup)
	if err != nil {
		return err
	}
	for _, sip := range account.SIPs {
		err := bs.service.CreateSIP(ctx, CreateSIPInput{
			UserID:        result.UserID,
			SchemeName:    sip.SchemeName,
			MonthlyAmount: sip.MonthlyAmount,
			StartDate:     sip.StartDate,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (bs *BulkSeeder) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	for i := 0; i < bs.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	var taskErr TaskError
	for err := range errCh {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}
