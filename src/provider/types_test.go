package provider

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "SUCCESS", want: StatusSuccess},
		{in: "unstable", want: StatusUnstable},
		{in: " Failure ", want: StatusFailure},
		{in: "not_built", want: StatusNotBuilt},
		{in: "ABORTED", want: StatusAborted},
		{in: "passed", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStatus(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStatus_IsBetterOrEqualTo(t *testing.T) {
	tests := []struct {
		s, other Status
		want     bool
	}{
		{StatusSuccess, StatusUnstable, true},
		{StatusUnstable, StatusUnstable, true},
		{StatusFailure, StatusUnstable, false},
		{StatusAborted, StatusNotBuilt, false},
		{StatusNotBuilt, StatusAborted, true},
		{Status(""), StatusAborted, false},
		{StatusSuccess, Status("bogus"), false},
	}

	for _, tt := range tests {
		if got := tt.s.IsBetterOrEqualTo(tt.other); got != tt.want {
			t.Errorf("%q.IsBetterOrEqualTo(%q) = %v, want %v", tt.s, tt.other, got, tt.want)
		}
	}
}

func TestRun_Label(t *testing.T) {
	if got := (Run{Number: 42}).Label(); got != "#42" {
		t.Errorf("Label() = %q, want #42", got)
	}
	if got := (Run{Number: 42, DisplayName: "release-1.2"}).Label(); got != "release-1.2" {
		t.Errorf("Label() = %q, want release-1.2", got)
	}
}

func TestInvoker_String(t *testing.T) {
	if got := (Invoker{Job: "deploy", Build: "17"}).String(); got != "deploy#17" {
		t.Errorf("String() = %q, want deploy#17", got)
	}
	if got := (Invoker{Job: "deploy"}).String(); got != "deploy" {
		t.Errorf("String() = %q, want deploy", got)
	}
}
