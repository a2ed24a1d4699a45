package seccenter

import (
	"errors"
	"testing"

	"github.com/lanternops/avsweep/internal/match"
)

func TestFilterAppliesPatternAndProtection(t *testing.T) {
	m, err := match.Compile(`.*`)
	if err != nil {
		t.Fatal(err)
	}

	all := []Registration{
		{DisplayName: "Windows Defender", InstanceGUID: "{D}"},
		{DisplayName: "Norton Security", InstanceGUID: "{N}"},
		{DisplayName: "Acme AV", InstanceGUID: "{A}"},
	}

	got := Filter(all, m)
	if len(got) != 2 {
		t.Fatalf("expected 2 registrations, got %v", got)
	}
	if got[0].InstanceGUID != "{N}" || got[1].InstanceGUID != "{A}" {
		t.Fatalf("unexpected order or selection: %v", got)
	}
}

func TestJobWaitReturnsTerminalState(t *testing.T) {
	job := NewJob()
	go job.Finish(JobCompleted, nil)

	if state := job.Wait(); state != JobCompleted {
		t.Fatalf("expected completed, got %v", state)
	}
	if err := job.Err(); err != nil {
		t.Fatalf("completed job should carry no error, got %v", err)
	}
}

func TestJobCarriesFailure(t *testing.T) {
	job := NewJob()
	want := errors.New("store rejected the delete")
	job.Finish(JobFailed, want)

	if state := job.Wait(); state != JobFailed {
		t.Fatalf("expected failed, got %v", state)
	}
	if !errors.Is(job.Err(), want) {
		t.Fatalf("expected failure detail, got %v", job.Err())
	}
	// Wait is repeatable once resolved.
	if state := job.Wait(); state != JobFailed {
		t.Fatalf("second Wait changed state: %v", state)
	}
}

func TestJobStateStrings(t *testing.T) {
	if JobCompleted.String() != "completed" || JobFailed.String() != "failed" || JobStopped.String() != "stopped" {
		t.Fatal("unexpected JobState string values")
	}
}
