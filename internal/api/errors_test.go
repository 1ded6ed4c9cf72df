package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"
)

func TestClassifyNetworkErrorTimeout(t *testing.T) {
	err := ClassifyNetworkError(&url.Error{
		Op:  "Get",
		URL: "http://192.168.1.20:5000/get_users",
		Err: context.DeadlineExceeded,
	})
	if !IsTimeout(err) {
		t.Errorf("deadline exceeded should classify as timeout, got %v", err)
	}
}

func TestClassifyNetworkErrorGeneric(t *testing.T) {
	err := ClassifyNetworkError(fmt.Errorf("connection refused"))
	if !IsNetworkError(err) {
		t.Errorf("plain error should classify as network, got %v", err)
	}
	if IsTimeout(err) {
		t.Error("plain error should not classify as timeout")
	}
}

func TestPredicatesAreDisjoint(t *testing.T) {
	cases := []struct {
		err  error
		want func(error) bool
	}{
		{NewNetworkError("x", nil), IsNetworkError},
		{NewAPIError(500, "x"), IsAPIError},
		{NewNotFoundError("x"), IsNotFound},
		{NewValidationError("x"), IsValidationError},
	}
	preds := []func(error) bool{IsNetworkError, IsTimeout, IsAPIError, IsNotFound, IsValidationError}
	for _, tc := range cases {
		matched := 0
		for _, p := range preds {
			if p(tc.err) {
				matched++
			}
		}
		if matched != 1 || !tc.want(tc.err) {
			t.Errorf("%v matched %d predicates", tc.err, matched)
		}
	}
}

func TestErrorsIsWrapping(t *testing.T) {
	inner := errors.New("boom")
	err := NewNetworkError("通信エラー", inner)
	if !errors.Is(err, inner) {
		t.Error("ClientError should unwrap to the underlying error")
	}
}

func TestShortMessage(t *testing.T) {
	if msg := ShortMessage(ClassifyNetworkError(context.DeadlineExceeded)); !strings.Contains(msg, "タイムアウト") {
		t.Errorf("timeout message = %q", msg)
	}
	if msg := ShortMessage(NewAPIError(400, "そのメールアドレスは既に使用されています。")); !strings.Contains(msg, "そのメールアドレス") {
		t.Errorf("api message should carry the server text, got %q", msg)
	}
	if msg := ShortMessage(errors.New("boom")); msg == "" {
		t.Error("unknown errors still need a displayable message")
	}
}
