// Package collect decides how to flip an article's favorite flag.
//
// The service keys its two endpoints differently: collect takes the id the
// article was listed under, uncollect takes the origin id. The two only
// differ for entries reached through the favorites list, where id names the
// favorite record. Always sending the list id to uncollect works from the
// main list and silently fails from favorites, so the origin id is threaded
// through every toggle.
package collect

import (
	"context"
	"fmt"

	"github.com/five82/wanreader/internal/result"
	"github.com/five82/wanreader/internal/wan"
)

// Endpoint selects which service call a toggle makes.
type Endpoint int

const (
	EndpointCollect Endpoint = iota
	EndpointUncollect
)

func (e Endpoint) String() string {
	switch e {
	case EndpointCollect:
		return "collect"
	case EndpointUncollect:
		return "uncollect"
	default:
		return fmt.Sprintf("endpoint(%d)", int(e))
	}
}

// Action is a resolved toggle: the endpoint and the identifier it takes.
type Action struct {
	Endpoint Endpoint
	ID       int
}

// Decide picks the endpoint and identifier for a toggle. An originID of 0
// means the article is its own origin.
func Decide(itemID, originID int, collected bool) Action {
	if !collected {
		return Action{Endpoint: EndpointCollect, ID: itemID}
	}
	if originID == 0 {
		originID = itemID
	}
	return Action{Endpoint: EndpointUncollect, ID: originID}
}

// Toggler is the part of the transport a Reconciler needs.
type Toggler interface {
	Collect(ctx context.Context, id int) (wan.Envelope[wan.Ack], error)
	Uncollect(ctx context.Context, originID int) (wan.Envelope[wan.Ack], error)
}

// Reconciler performs toggles against the service.
type Reconciler struct {
	api Toggler
}

// NewReconciler returns a Reconciler backed by api.
func NewReconciler(api Toggler) *Reconciler {
	return &Reconciler{api: api}
}

// Toggle flips the favorite flag. On success the outcome carries the new
// flag, !collected; on failure the caller keeps collected as it was.
func (r *Reconciler) Toggle(ctx context.Context, itemID, originID int, collected bool) result.Outcome[bool] {
	action := Decide(itemID, originID, collected)
	var (
		env wan.Envelope[wan.Ack]
		err error
	)
	switch action.Endpoint {
	case EndpointCollect:
		env, err = r.api.Collect(ctx, action.ID)
	case EndpointUncollect:
		env, err = r.api.Uncollect(ctx, action.ID)
	default:
		return result.Failure[bool](fmt.Errorf("unknown endpoint %v", action.Endpoint))
	}
	return result.Then(result.FromAck(env, err), func(result.Unit) bool { return !collected })
}
