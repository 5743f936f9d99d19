package player

import "testing"

func TestProfileValidate(t *testing.T) {
	t.Parallel()

	if err := (Profile{ID: "276", Name: "Neymar"}).Validate(); err != nil {
		t.Fatalf("expected valid profile, got %v", err)
	}
	if err := (Profile{Name: "Neymar"}).Validate(); err == nil {
		t.Fatalf("expected missing id error")
	}
	if err := (Profile{ID: "1", Name: "X", Age: -1}).Validate(); err == nil {
		t.Fatalf("expected negative age error")
	}
	if err := (Profile{ID: "1"}).Validate(); err == nil {
		t.Fatalf("expected missing name error")
	}
	if err := (Profile{ID: "1", FirstName: "Bukayo", LastName: "Saka"}).Validate(); err != nil {
		t.Fatalf("first and last name should be enough, got %v", err)
	}
}

func TestProfileDisplayName(t *testing.T) {
	t.Parallel()

	if got := (Profile{FirstName: "Bukayo", LastName: "Saka"}).DisplayName(); got != "Bukayo Saka" {
		t.Fatalf("unexpected display name %q", got)
	}
	if got := (Profile{Name: "B. Saka", FirstName: "Bukayo"}).DisplayName(); got != "B. Saka" {
		t.Fatalf("unexpected display name %q", got)
	}
}
