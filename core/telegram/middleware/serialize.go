package middleware

import (
	"sync"

	tele "gopkg.in/telebot.v4"
)

type userLock struct {
	mu   sync.Mutex
	refs int
}

// SerializeMiddleware returns a middleware that processes updates from the
// same user strictly one at a time, in arrival order. Conversation state
// transitions must observe the session written by the previous update, so a
// user's second message may not start before the first one has finished.
// Updates from different users proceed independently.
func SerializeMiddleware() tele.MiddlewareFunc {
	var (
		mu    sync.Mutex
		locks = make(map[int64]*userLock)
	)

	acquire := func(userID int64) *userLock {
		mu.Lock()
		l, ok := locks[userID]
		if !ok {
			l = &userLock{}
			locks[userID] = l
		}
		l.refs++
		mu.Unlock()
		l.mu.Lock()
		return l
	}

	release := func(userID int64, l *userLock) {
		l.mu.Unlock()
		mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(locks, userID)
		}
		mu.Unlock()
	}

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil {
				return next(c)
			}
			l := acquire(user.ID)
			defer release(user.ID, l)
			return next(c)
		}
	}
}
