package errx

import (
	"errors"
	"fmt"
	"testing"
)

func TestE_NilError(t *testing.T) {
	if err := E("op", NotFound, nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestKindOf(t *testing.T) {
	base := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "plain error", err: base, want: Unknown},
		{name: "direct", err: E("op", Conflict, base), want: Conflict},
		{name: "wrapped by fmt", err: fmt.Errorf("outer: %w", E("op", NotFound, base)), want: NotFound},
		{name: "outermost wins", err: E("svc", Store, E("repo", NotFound, base)), want: Store},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Fatalf("KindOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestError_Formatting(t *testing.T) {
	err := E("links.Create", Invalid, errors.New("url is required"))
	if err.Error() != "links.Create: url is required" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	nested := E("svc", Invalid, E("repo", Invalid, errors.New("bad code")))
	if got := Message(nested); got != "bad code" {
		t.Fatalf("Message() = %q, want %q", got, "bad code")
	}
	if !Is(nested, Invalid) {
		t.Fatal("expected Is to match Invalid")
	}
	if Is(nil, Invalid) {
		t.Fatal("nil error must not match any kind")
	}
}

func TestKind_String(t *testing.T) {
	if Store.String() != "Store" {
		t.Fatalf("unexpected %q", Store.String())
	}
	if Kind(42).String() != "Kind(42)" {
		t.Fatalf("unexpected %q", Kind(42).String())
	}
}
