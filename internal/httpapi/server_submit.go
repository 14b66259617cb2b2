package httpapi

import (
	"net/http"

	"randhub/internal/broker"
)

type submitRequest struct {
	RandomNumber string `json:"random_number"`
}

// handleSubmitRandom is the provider side of the rendezvous: validate the
// number, pop the oldest waiter, and hand the number over the callbacks
// channel. Validation failures must leave no side effects.
func (s *server) handleSubmitRandom(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, 4<<10)
	var req submitRequest
	if err := readJSON(r, &req); err != nil {
		writeHTML(w, http.StatusBadRequest, errorFragment("That didn't look like a number submission."))
		return
	}
	if len(req.RandomNumber) > maxNumberBytes {
		writeHTML(w, http.StatusBadRequest, errorFragment("Numbers are limited to 50 characters."))
		return
	}
	if s.banned.Contains(req.RandomNumber) {
		writeHTML(w, http.StatusBadRequest, errorFragment("That number is not welcome here."))
		return
	}

	id, ok, err := s.broker.PopOldest(ctx)
	if err != nil {
		logError(ctx, "submit: pop failed", err)
		writeHTML(w, http.StatusInternalServerError, errorFragment("Something went wrong. Try again."))
		return
	}
	if !ok {
		writeHTML(w, http.StatusOK, fragmentNoWaiters)
		return
	}

	if err := s.broker.PublishCallback(ctx, id, req.RandomNumber); err != nil {
		// The waiter's own timeout cleanup recovers the popped entry.
		logError(ctx, "submit: publish callback failed", err)
		writeHTML(w, http.StatusInternalServerError, errorFragment("Something went wrong. Try again."))
		return
	}
	if err := s.broker.PublishStateUpdate(ctx, broker.Removed(id)); err != nil {
		logError(ctx, "submit: publish removed failed", err)
	}
	if err := s.broker.IncrementCount(ctx, req.RandomNumber); err != nil {
		// Best-effort tally; the match already happened.
		logError(ctx, "submit: increment count failed", err)
	}

	writeHTML(w, http.StatusOK, fragmentThanks)
}
