// Package signal brokers WebRTC call setup between two parties. The server
// holds no call state: it is a relay keyed by reachability, and each client
// enforces its own busy/duplicate-session rules before emitting. Losing the
// relay therefore always fails safe to idle on both ends once a termination
// or reachability-failure event arrives.
package signal

import (
	"log/slog"

	"github.com/mehular0ra/pingme/pkg/models"
	"github.com/mehular0ra/pingme/pkg/presence"
)

type Relay struct {
	registry *presence.Registry
	logger   *slog.Logger
}

func NewRelay(registry *presence.Registry, logger *slog.Logger) *Relay {
	return &Relay{registry: registry, logger: logger}
}

func (r *Relay) deliver(code string, event models.Event) bool {
	session, ok := r.registry.Lookup(code)
	if !ok {
		return false
	}
	return session.Deliver(event)
}

func normalizeCallType(kind string) string {
	if kind == "video" {
		return "video"
	}
	return "audio"
}

// CallUser starts a call: the offer is relayed to the callee when
// reachable, otherwise the caller alone gets call-unavailable.
func (r *Relay) CallUser(caller presence.Session, p *models.CallUserPayload) {
	target, ok := r.registry.Lookup(p.TargetCode)
	if !ok {
		caller.Deliver(models.NewEvent(models.EventCallUnavailable,
			models.CallUnavailablePayload{TargetCode: p.TargetCode}))
		return
	}
	target.Deliver(models.NewEvent(models.EventIncomingCall, models.IncomingCallPayload{
		CallerCode: p.CallerCode,
		CallType:   normalizeCallType(p.CallType),
		Offer:      p.Offer,
	}))
}

// AnswerCall relays the answer back to the caller. A caller that went
// unreachable mid-ring is dropped; there is no recovery path.
func (r *Relay) AnswerCall(p *models.AnswerCallPayload) {
	if !r.deliver(p.CallerCode, models.NewEvent(models.EventCallAccepted, models.CallAcceptedPayload{
		ResponderCode: p.ResponderCode,
		Answer:        p.Answer,
	})) {
		r.logger.Debug("Dropped call answer, caller unreachable", "caller", p.CallerCode)
	}
}

// RejectCall relays a terminal rejection to the caller.
func (r *Relay) RejectCall(p *models.RejectCallPayload) {
	r.deliver(p.CallerCode, models.NewEvent(models.EventCallRejected,
		models.CallRejectedPayload{ResponderCode: p.ResponderCode}))
}

// CallBusy relays a terminal busy signal to the caller. Busy detection
// itself lives client-side against local call state.
func (r *Relay) CallBusy(p *models.CallBusyPayload) {
	r.deliver(p.CallerCode, models.NewEvent(models.EventCallBusy,
		models.CallBusyOutPayload{ResponderCode: p.ResponderCode}))
}

// IceCandidate relays a candidate verbatim. Unreachable targets drop the
// candidate silently; ICE is best-effort and the call survives as long as
// enough candidates arrive.
func (r *Relay) IceCandidate(p *models.IceCandidatePayload) {
	r.deliver(p.TargetCode, models.NewEvent(models.EventIceCandidate, models.IceCandidateOutPayload{
		SenderCode: p.SenderCode,
		Candidate:  p.Candidate,
	}))
}

// EndCall relays the terminal event to the other party when reachable and
// always echoes it back to the ending party, so that side resolves to idle
// without waiting on a round trip.
func (r *Relay) EndCall(sender presence.Session, p *models.EndCallPayload) {
	reason := p.Reason
	if reason == "" {
		reason = "ended"
	}
	event := models.NewEvent(models.EventCallEnded, models.CallEndedPayload{
		SenderCode: p.SenderCode,
		Reason:     reason,
	})
	r.deliver(p.TargetCode, event)
	sender.Deliver(event)
}
