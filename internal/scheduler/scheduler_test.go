package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tickerlab/research/backend/pkg/config"
	"github.com/tickerlab/research/backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

type stubJob struct {
	name string
	err  error
	runs chan struct{}
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return "0 0 3 * * *" }

func (j *stubJob) Run(ctx context.Context) error {
	if j.runs != nil {
		j.runs <- struct{}{}
	}
	return j.err
}

func TestAddJobRejectsDuplicates(t *testing.T) {
	s := New(testLogger())

	if err := s.AddJob(&stubJob{name: "refresh"}); err != nil {
		t.Fatalf("AddJob() error = %v", err)
	}
	if err := s.AddJob(&stubJob{name: "refresh"}); err == nil {
		t.Error("AddJob() with a duplicate name should fail")
	}
}

func TestRunJobUnknownName(t *testing.T) {
	s := New(testLogger())

	if err := s.RunJob("no-such-job"); err == nil {
		t.Error("RunJob() on an unregistered job should fail")
	}
}

func TestRunJobRecordsHistory(t *testing.T) {
	s := New(testLogger())
	job := &stubJob{name: "refresh", runs: make(chan struct{}, 1)}
	if err := s.AddJob(job); err != nil {
		t.Fatalf("AddJob() error = %v", err)
	}

	if err := s.RunJob("refresh"); err != nil {
		t.Fatalf("RunJob() error = %v", err)
	}
	select {
	case <-job.runs:
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}

	deadline := time.Now().Add(time.Second)
	for {
		history, err := s.History("refresh")
		if err != nil {
			t.Fatalf("History() error = %v", err)
		}
		if last, ok := history.Last(); ok {
			if !last.Success {
				t.Errorf("last result success = false, want true")
			}
			if last.JobName != "refresh" {
				t.Errorf("last result job = %q, want refresh", last.JobName)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no result recorded")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHistoryReturnsSnapshot(t *testing.T) {
	s := New(testLogger())
	if err := s.AddJob(&stubJob{name: "refresh"}); err != nil {
		t.Fatalf("AddJob() error = %v", err)
	}

	s.mu.Lock()
	s.history["refresh"].AddResult(JobResult{JobName: "refresh", Success: true})
	s.mu.Unlock()

	snapshot, err := s.History("refresh")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	snapshot.Results[0].Success = false

	fresh, _ := s.History("refresh")
	if last, _ := fresh.Last(); !last.Success {
		t.Error("mutating a snapshot leaked into the scheduler's history")
	}
}

func TestJobHistoryCapAndSuccessRate(t *testing.T) {
	var h JobHistory

	if _, ok := h.Last(); ok {
		t.Error("Last() on empty history should report no result")
	}
	if got := h.SuccessRate(); got != 0 {
		t.Errorf("SuccessRate() on empty history = %v, want 0", got)
	}

	for i := 0; i < historyCap+20; i++ {
		h.AddResult(JobResult{JobName: fmt.Sprintf("run-%d", i), Success: i%2 == 0})
	}

	if len(h.Results) != historyCap {
		t.Errorf("history length = %d, want capped at %d", len(h.Results), historyCap)
	}
	last, ok := h.Last()
	if !ok || last.JobName != fmt.Sprintf("run-%d", historyCap+19) {
		t.Errorf("Last() = %+v, want the most recent result", last)
	}
	if rate := h.SuccessRate(); rate != 0.5 {
		t.Errorf("SuccessRate() = %v, want 0.5", rate)
	}
}

func TestJobHistoryRecordsFailure(t *testing.T) {
	var h JobHistory
	h.AddResult(JobResult{JobName: "refresh", Success: false, Error: errors.New("provider down").Error()})

	last, ok := h.Last()
	if !ok {
		t.Fatal("no result recorded")
	}
	if last.Success || last.Error == "" {
		t.Errorf("failed result = %+v, want success=false with an error message", last)
	}
}
