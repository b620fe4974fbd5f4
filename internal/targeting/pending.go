package targeting

import (
	"errors"
	"sync"

	"github.com/costad3atwit/cardchess-client/pkg/gamedto"
)

// ErrPendingExists signals a caller error: a second card play was
// attempted while one is still in flight.
var ErrPendingExists = errors.New("a card play is already awaiting confirmation")

// PendingAction records one optimistic card play between send and
// server confirmation. The hand is never mutated before the server
// confirms, so rejection needs no rollback.
type PendingAction struct {
	Card      gamedto.Card
	HandIndex int
	Target    Target
}

// Pending enforces the at-most-one in-flight policy.
type Pending struct {
	mu        sync.Mutex
	act       *PendingAction
	onDiscard func(gamedto.Card)
}

// NewPending wires the discard hook fired exactly once per confirmed
// card play (the UI's discard animation).
func NewPending(onDiscard func(gamedto.Card)) *Pending {
	return &Pending{onDiscard: onDiscard}
}

func (p *Pending) Begin(card gamedto.Card, handIndex int, target Target) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.act != nil {
		return ErrPendingExists
	}
	p.act = &PendingAction{Card: card, HandIndex: handIndex, Target: target}
	return nil
}

// Active returns a copy of the in-flight action, if any.
func (p *Pending) Active() (PendingAction, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.act == nil {
		return PendingAction{}, false
	}
	return *p.act, true
}

// Reconcile is called on every snapshot apply. The card leaving the
// hand means the server committed the play: fire the discard hook and
// clear. The card still present means the request is still in flight;
// the tracker stays untouched.
func (p *Pending) Reconcile(handStillHas bool) {
	p.mu.Lock()
	if p.act == nil || handStillHas {
		p.mu.Unlock()
		return
	}
	card := p.act.Card
	hook := p.onDiscard
	p.act = nil
	p.mu.Unlock()
	if hook != nil {
		hook(card)
	}
}

// Reject clears the tracker without any animation; the optimistic UI
// never showed the card leaving, so there is nothing to revert.
func (p *Pending) Reject() {
	p.mu.Lock()
	p.act = nil
	p.mu.Unlock()
}
