package httpapi

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/google/uuid"

	"randhub/internal/broker"
)

// Submission responses are HTML fragments swapped into the provider's page.
const (
	fragmentThanks    = `<p class="flash success">Thanks! Your number found a home.</p>`
	fragmentNoWaiters = `<p class="flash info">Nobody got your number. No one is waiting right now.</p>`
)

func errorFragment(msg string) string {
	return fmt.Sprintf(`<p class="flash error">%s</p>`, template.HTMLEscapeString(msg))
}

// waiterFragment encodes one queue-change event as a single-element
// fragment. The data-queue-event attribute tells the client whether to
// insert or delete the element.
func waiterFragment(u broker.StateUpdate) []byte {
	if u.Kind == broker.UpdateAdded {
		return []byte(fmt.Sprintf(`<li id="waiter-%s" data-queue-event="added">%s</li>`, u.ID, u.ID))
	}
	return []byte(fmt.Sprintf(`<li id="waiter-%s" data-queue-event="removed"></li>`, u.ID))
}

// waitlistFragment renders the full waiting set, sent once per observer
// connection so the client starts from a consistent snapshot.
func waitlistFragment(ids []uuid.UUID) []byte {
	var b strings.Builder
	b.WriteString(`<ul id="waitlist" data-queue-event="snapshot">`)
	for _, id := range ids {
		fmt.Fprintf(&b, `<li id="waiter-%s">%s</li>`, id, id)
	}
	b.WriteString(`</ul>`)
	return []byte(b.String())
}
