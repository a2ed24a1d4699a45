package msiexec

import (
	"strings"
	"testing"

	"github.com/lanternops/avsweep/internal/products"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		code         int
		class        ExitCodeClass
		succeeded    bool
		rebootNeeded bool
	}{
		{0, Success, true, false},
		{1641, SuccessRebootInitiated, true, true},
		{3010, SuccessRebootRequired, true, true},
		{1603, Failure, false, false},
		{1605, Failure, false, false},
		{-1, Failure, false, false},
	}

	for _, tc := range cases {
		class := Classify(tc.code)
		if class != tc.class {
			t.Fatalf("Classify(%d) = %v, want %v", tc.code, class, tc.class)
		}
		if class.Succeeded() != tc.succeeded {
			t.Fatalf("Classify(%d).Succeeded() = %v, want %v", tc.code, class.Succeeded(), tc.succeeded)
		}
		if class.RebootNeeded() != tc.rebootNeeded {
			t.Fatalf("Classify(%d).RebootNeeded() = %v, want %v", tc.code, class.RebootNeeded(), tc.rebootNeeded)
		}
	}
}

func TestArgsStandardFlagSet(t *testing.T) {
	c := products.Candidate{DisplayName: "Acme AV", ProductCode: "{0E6BBE27-3A41-4B2D-8F57-0001}"}

	got := strings.Join(Args(c), " ")
	want := "/x {0E6BBE27-3A41-4B2D-8F57-0001} /qb! /norestart REBOOT=ReallySuppress MSIRESTARTMANAGERCONTROL=Disable"
	if got != want {
		t.Fatalf("Args = %q, want %q", got, want)
	}
}

func TestArgsSymantecRebootSwitch(t *testing.T) {
	c := products.Candidate{DisplayName: "Symantec Endpoint Protection", ProductCode: "{S}"}

	args := Args(c)
	if args[len(args)-1] != "SYMREBOOT=Never" {
		t.Fatalf("expected SYMREBOOT=Never appended, got %v", args)
	}
}

func TestArgsSymantecSwitchRequiresExactName(t *testing.T) {
	for _, name := range []string{
		"symantec endpoint protection",
		"Symantec Endpoint Protection Manager",
		"Symantec Endpoint",
	} {
		args := Args(products.Candidate{DisplayName: name, ProductCode: "{S}"})
		for _, a := range args {
			if a == "SYMREBOOT=Never" {
				t.Fatalf("vendor switch must require exact name; appended for %q", name)
			}
		}
	}
}
