package imprinterr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIs(t *testing.T) {
	storage := Storage("insert memory", errors.New("disk I/O error"))

	if !Is(storage, CodeStorage) {
		t.Error("storage error should match CodeStorage")
	}
	if Is(storage, CodeTransport) {
		t.Error("storage error must not match CodeTransport")
	}
	if Is(errors.New("plain"), CodeStorage) {
		t.Error("plain error must not match any code")
	}
}

func TestIs_Wrapped(t *testing.T) {
	inner := Configuration("bot token is not set")
	wrapped := fmt.Errorf("failed to build app: %w", inner)

	if !Is(wrapped, CodeConfiguration) {
		t.Error("code should be visible through fmt.Errorf wrapping")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("database is locked")
	err := Storage("touch user", cause)

	if !errors.Is(err, cause) {
		t.Error("cause should be reachable via errors.Is")
	}
}

func TestErrorString(t *testing.T) {
	err := Transport("send message", errors.New("connection reset"))
	want := "TRANSPORT: send message: connection reset"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	bare := Configuration("bot name is not set")
	if bare.Error() != "CONFIGURATION: bot name is not set" {
		t.Errorf("Error() = %q", bare.Error())
	}
}
