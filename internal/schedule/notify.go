package schedule

import (
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"
)

// DesktopNotifier delivers scheduled notifications through the desktop
// notification daemon. One timer per id; scheduling an id again cancels the
// pending timer first.
type DesktopNotifier struct {
	mu     sync.Mutex
	timers map[int]*time.Timer
	log    zerolog.Logger
}

// NewDesktopNotifier creates a DesktopNotifier.
func NewDesktopNotifier(log zerolog.Logger) *DesktopNotifier {
	return &DesktopNotifier{
		timers: make(map[int]*time.Timer),
		log:    log,
	}
}

// Schedule arms a timer that fires the notification at-or-after the instant.
func (n *DesktopNotifier) Schedule(at time.Time, title, message string, id int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if prev, ok := n.timers[id]; ok {
		prev.Stop()
	}

	delay := time.Until(at)
	if delay < 0 {
		delay = 0
	}

	n.timers[id] = time.AfterFunc(delay, func() {
		if err := beeep.Notify(title, message, ""); err != nil {
			n.log.Error().Int("id", id).Err(err).Msg("notification delivery failed")
		}
	})

	return nil
}

// Stop cancels all pending timers. Called on daemon teardown.
func (n *DesktopNotifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for id, t := range n.timers {
		t.Stop()
		delete(n.timers, id)
	}
}
