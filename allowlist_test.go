package authgate

import "testing"

func TestNormalizeIdentity(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Alice@Example.COM", "alice@example.com"},
		{"  bob@example.com  ", "bob@example.com"},
		{"\tCarol@Example.com\n", "carol@example.com"},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range cases {
		if got := NormalizeIdentity(tc.in); got != tc.want {
			t.Errorf("NormalizeIdentity(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAllowlistContains(t *testing.T) {
	al := NewAllowlist([]string{"Alice@Example.com", "  bob@example.com "})

	if al.Size() != 2 {
		t.Fatalf("Size = %d, want 2", al.Size())
	}
	if !al.Contains("alice@example.com") {
		t.Error("normalized member not found")
	}
	if !al.Contains(NormalizeIdentity("ALICE@EXAMPLE.COM")) {
		t.Error("case variant not found after normalization")
	}
	if al.Contains("mallory@example.com") {
		t.Error("non-member reported as present")
	}
}

func TestAllowlistEmpty(t *testing.T) {
	al := NewAllowlist(nil)

	if al.Size() != 0 {
		t.Fatalf("Size = %d, want 0", al.Size())
	}
	if al.Contains("alice@example.com") {
		t.Error("empty allow-list admitted an identity")
	}
}
