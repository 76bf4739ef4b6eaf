package result

import (
	"errors"
	"testing"

	"github.com/five82/wanreader/internal/wan"
)

func TestFromEnvelope(t *testing.T) {
	user := wan.User{ID: 7}
	fault := errors.New("dial tcp: connection refused")

	tests := []struct {
		name    string
		env     wan.Envelope[wan.User]
		err     error
		wantOK  bool
		wantMsg string
	}{
		{"success with payload", wan.Envelope[wan.User]{Data: &user}, nil, true, ""},
		{"server error ignores payload", wan.Envelope[wan.User]{Data: &user, ErrorCode: -1, ErrorMsg: "账号密码不匹配！"}, nil, false, "账号密码不匹配！"},
		{"server error without payload", wan.Envelope[wan.User]{ErrorCode: -1001, ErrorMsg: "请先登录！"}, nil, false, "请先登录！"},
		{"success without payload", wan.Envelope[wan.User]{}, nil, false, emptyResponse},
		{"success without payload keeps server text", wan.Envelope[wan.User]{ErrorMsg: "no user"}, nil, false, "no user"},
		{"transport fault", wan.Envelope[wan.User]{Data: &user}, fault, false, fault.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromEnvelope(tt.env, tt.err)
			if got.OK() != tt.wantOK {
				t.Fatalf("OK() = %v, want %v", got.OK(), tt.wantOK)
			}
			if got.Message() != tt.wantMsg {
				t.Fatalf("Message() = %q, want %q", got.Message(), tt.wantMsg)
			}
			if v, ok := got.Value(); ok && v.ID != 7 {
				t.Fatalf("Value() = %#v, want id 7", v)
			}
		})
	}
}

func TestFromEnvelope_ErrorKinds(t *testing.T) {
	got := FromEnvelope(wan.Envelope[wan.User]{}, errors.New("timeout"))
	var fault *TransportFault
	if !errors.As(got.Err(), &fault) {
		t.Fatalf("Err() = %T, want *TransportFault", got.Err())
	}

	got = FromEnvelope(wan.Envelope[wan.User]{ErrorCode: -1, ErrorMsg: "no"}, nil)
	var appErr *ApplicationError
	if !errors.As(got.Err(), &appErr) || appErr.Code != -1 {
		t.Fatalf("Err() = %#v, want ApplicationError code -1", got.Err())
	}
}

func TestFromAck(t *testing.T) {
	if got := FromAck(wan.Envelope[wan.Ack]{}, nil); !got.OK() {
		t.Fatalf("FromAck(errorCode 0) = failure %q, want success", got.Message())
	}
	if got := FromAck(wan.Envelope[wan.Ack]{ErrorCode: -1, ErrorMsg: "收藏失败"}, nil); got.OK() || got.Message() != "收藏失败" {
		t.Fatalf("FromAck(errorCode -1) = %v %q, want failure with server message", got.OK(), got.Message())
	}
	if got := FromAck(wan.Envelope[wan.Ack]{}, errors.New("boom")); got.OK() || got.Message() != "boom" {
		t.Fatalf("FromAck(fault) = %v %q, want failure boom", got.OK(), got.Message())
	}
}

func TestFailureNilErrorStaysFailed(t *testing.T) {
	got := Failure[int](nil)
	if got.OK() {
		t.Fatalf("Failure(nil).OK() = true, want false")
	}
	if got.Message() == "" {
		t.Fatalf("Failure(nil).Message() is empty")
	}
}

func TestThen(t *testing.T) {
	doubled := Then(Success(2), func(v int) int { return v * 2 })
	if v, ok := doubled.Value(); !ok || v != 4 {
		t.Fatalf("Then(Success(2)) = %v %v, want 4 true", v, ok)
	}
	failed := Then(Failure[int](errors.New("x")), func(v int) string { return "unreachable" })
	if failed.OK() || failed.Message() != "x" {
		t.Fatalf("Then(Failure) = %v %q, want failure x", failed.OK(), failed.Message())
	}
}
