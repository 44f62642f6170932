package pattern

import "testing"

func TestDefaultErrorMatcher(t *testing.T) {
	cases := []struct {
		line string
		want bool
	}{
		{"some error happened", true},
		{"ERROR: oops", true},
		{"Build timed out after 90m", true},
		{"panic: runtime error", true},
		{"panic:", true},
		{"\x1b[0;31mFAILED\x1b[0m tests", true},
		{"process exited fatal", true},
		{"undefined reference to main", true},
		{"all green", false},
		{"terror in the aisles", false}, // embedded, previous char is not m
		{"failures counted", false},     // no trailing boundary
		{"errorcode=0", false},          // no trailing boundary
	}
	re := DefaultErrorMatcher()
	for _, tc := range cases {
		if got := re.MatchString(tc.line); got != tc.want {
			t.Fatalf("MatchString(%q) = %v, want %v", tc.line, got, tc.want)
		}
	}
}

func TestWordMatcherBoundaries(t *testing.T) {
	re := WordMatcher("fail")
	if !re.MatchString("tests FAIL now") {
		t.Fatal("expected case-insensitive match")
	}
	if re.MatchString("failure") {
		t.Fatal("expected no match inside a longer word")
	}
	if re.MatchString("unfail") {
		t.Fatal("expected no match after a word character")
	}
}

func TestWordMatcherNonWordEdges(t *testing.T) {
	// A trailing colon can't take a \b anchor; the matcher must still work.
	re := WordMatcher("panic:")
	if !re.MatchString("goroutine panic: index out of range") {
		t.Fatal("expected match for word with non-word edge")
	}
	if !re.MatchString("panic:") {
		t.Fatal("expected match at end of line")
	}
}

func TestCombinedMatcher(t *testing.T) {
	re := CombinedMatcher([]string{"uid-123", "kube-system"})
	if !re.MatchString("pod in kube-system restarted") {
		t.Fatal("expected match on second word")
	}
	if !re.MatchString("owner UID-123 deleted") {
		t.Fatal("expected case-insensitive match on first word")
	}
	if re.MatchString("kube-systemd unit") {
		t.Fatal("expected boundary to reject longer token")
	}
}

func TestObjectReference(t *testing.T) {
	line := `Event(api.ObjectReference{Kind:"Pod", Namespace:"default", Name:"web-1"}): started`
	blob, ok := ObjectReference(line)
	if !ok {
		t.Fatal("expected an object reference")
	}
	if blob != `Kind:"Pod", Namespace:"default", Name:"web-1"` {
		t.Fatalf("unexpected blob: %q", blob)
	}

	if _, ok := ObjectReference("no reference here"); ok {
		t.Fatal("expected no match")
	}
}

func TestObjectReferenceNestedBraces(t *testing.T) {
	line := `Event(v1.ObjectReference{Name:"web-1", FieldPath:"spec.containers{web}"}): pulled`
	blob, ok := ObjectReference(line)
	if !ok {
		t.Fatal("expected an object reference")
	}
	if blob != `Name:"web-1", FieldPath:"spec.containers{web}"` {
		t.Fatalf("unexpected blob: %q", blob)
	}
}

func TestObjectReferenceUnterminated(t *testing.T) {
	if _, ok := ObjectReference(`ObjectReference{Kind:"Pod", truncated...`); ok {
		t.Fatal("unterminated blob must not match")
	}
}

func TestContainerID(t *testing.T) {
	id, ok := ContainerID(`Killing container with id docker://abc123: ContainerID:docker://deadbeefcafe1234`)
	if !ok {
		t.Fatal("expected a container id")
	}
	if id != "deadbeefcafe1234" {
		t.Fatalf("unexpected id: %q", id)
	}

	if _, ok := ContainerID("nothing to see"); ok {
		t.Fatal("expected no match")
	}
}

func TestTimestamp(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{"I0605 14:03:02.123456 kubelet.go:123] syncing", "0605 14:03:02.123456"},
		{"2016-06-05T14:03:02.123Z pulled image", "2016-06-05T14:03:02.123Z"},
		{"no stamp", ""},
	}
	for _, tc := range cases {
		got, ok := Timestamp(tc.line)
		if tc.want == "" {
			if ok {
				t.Fatalf("Timestamp(%q): unexpected match %q", tc.line, got)
			}
			continue
		}
		if !ok || got != tc.want {
			t.Fatalf("Timestamp(%q) = %q, %v, want %q", tc.line, got, ok, tc.want)
		}
	}
}

func TestNormalizeTimestamp(t *testing.T) {
	a := NormalizeTimestamp("0605 14:03:02.123456")
	b := NormalizeTimestamp("0605 14:03:02.123457")
	if !(a < b) {
		t.Fatalf("expected %q < %q after normalization", a, b)
	}
	if a != "0605140302123456" {
		t.Fatalf("unexpected normalization: %q", a)
	}
}
