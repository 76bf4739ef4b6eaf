package collect

import (
	"context"
	"errors"
	"testing"

	"github.com/five82/wanreader/internal/wan"
)

type fakeToggler struct {
	collected   []int
	uncollected []int
	env         wan.Envelope[wan.Ack]
	err         error
}

func (f *fakeToggler) Collect(_ context.Context, id int) (wan.Envelope[wan.Ack], error) {
	f.collected = append(f.collected, id)
	return f.env, f.err
}

func (f *fakeToggler) Uncollect(_ context.Context, originID int) (wan.Envelope[wan.Ack], error) {
	f.uncollected = append(f.uncollected, originID)
	return f.env, f.err
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		itemID    int
		originID  int
		collected bool
		want      Action
	}{
		{"collect uses item id", 5, 42, false, Action{EndpointCollect, 5}},
		{"uncollect uses origin id", 5, 42, true, Action{EndpointUncollect, 42}},
		{"uncollect same ids", 7, 7, true, Action{EndpointUncollect, 7}},
		{"uncollect missing origin falls back", 7, 0, true, Action{EndpointUncollect, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.itemID, tt.originID, tt.collected); got != tt.want {
				t.Fatalf("Decide(%d, %d, %v) = %+v, want %+v", tt.itemID, tt.originID, tt.collected, got, tt.want)
			}
		})
	}
}

func TestToggle_UncollectFromFavorites(t *testing.T) {
	api := &fakeToggler{}
	r := NewReconciler(api)

	got := r.Toggle(context.Background(), 5, 42, true)

	if len(api.uncollected) != 1 || api.uncollected[0] != 42 {
		t.Fatalf("uncollect calls = %v, want [42]", api.uncollected)
	}
	if len(api.collected) != 0 {
		t.Fatalf("collect calls = %v, want none", api.collected)
	}
	if v, ok := got.Value(); !ok || v != false {
		t.Fatalf("Toggle = %v %v, want false true", v, ok)
	}
}

func TestToggle_CollectUsesItemID(t *testing.T) {
	api := &fakeToggler{}
	got := NewReconciler(api).Toggle(context.Background(), 5, 42, false)

	if len(api.collected) != 1 || api.collected[0] != 5 {
		t.Fatalf("collect calls = %v, want [5]", api.collected)
	}
	if v, ok := got.Value(); !ok || v != true {
		t.Fatalf("Toggle = %v %v, want true true", v, ok)
	}
}

func TestToggle_Failures(t *testing.T) {
	server := NewReconciler(&fakeToggler{env: wan.Envelope[wan.Ack]{ErrorCode: -1001, ErrorMsg: "请先登录！"}})
	got := server.Toggle(context.Background(), 1, 1, false)
	if got.OK() || got.Message() != "请先登录！" {
		t.Fatalf("Toggle = %v %q, want failure with server message", got.OK(), got.Message())
	}

	transport := NewReconciler(&fakeToggler{err: errors.New("timeout")})
	got = transport.Toggle(context.Background(), 1, 1, true)
	if got.OK() || got.Message() != "timeout" {
		t.Fatalf("Toggle = %v %q, want failure timeout", got.OK(), got.Message())
	}
}

func TestEndpointString(t *testing.T) {
	if EndpointCollect.String() != "collect" || EndpointUncollect.String() != "uncollect" {
		t.Fatalf("unexpected endpoint names %q %q", EndpointCollect, EndpointUncollect)
	}
}
