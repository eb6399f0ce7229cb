package e

import (
	"errors"
	"io"
	"testing"
)

func TestWrapKeepsChain(t *testing.T) {
	err := Wrap("outer", Wrap("inner", ErrCacheMiss))
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss in chain: %v", err)
	}
	if err.Error() != "outer: inner: cache miss" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestValidationErrorAs(t *testing.T) {
	err := Wrap("AddPageUseCase.SubmitProduct", ErrCategoryRequired)

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError in chain")
	}
	if vErr.Msg != "Please select category!" {
		t.Fatalf("msg = %q", vErr.Msg)
	}
}

func TestRequestErrorMessage(t *testing.T) {
	withStatus := &RequestError{Path: "/ajax/219/products", StatusCode: 500}
	if withStatus.Error() != "request /ajax/219/products failed with status 500" {
		t.Fatalf("unexpected %q", withStatus.Error())
	}

	transport := &RequestError{Path: "/ajax/219/products", Err: io.ErrUnexpectedEOF}
	if !errors.Is(transport, io.ErrUnexpectedEOF) {
		t.Fatalf("expected unwrap to transport error")
	}
}

func TestLoadErrorUnwrap(t *testing.T) {
	err := &LoadError{Attempts: 3, Err: io.EOF}
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected unwrap")
	}
	if err.Error() != "categories load failed after 3 attempt(s): EOF" {
		t.Fatalf("unexpected %q", err.Error())
	}
}
