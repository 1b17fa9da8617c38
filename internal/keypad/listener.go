package keypad

import (
	"bufio"
	"context"
	"io"
	"sync"

	"go-chi-calculator/internal/calc"
)

// KeyEvent is one key read by a Listener. Handled is false for keys that
// map to no action; Action is the zero Action then. EndOfLine marks the last
// key of an input line.
type KeyEvent struct {
	Key       string
	Action    calc.Action
	Handled   bool
	EndOfLine bool
}

type typedKey struct {
	key string
	eol bool
}

// Listener delivers keys read from an input to a callback, one at a time.
// Create it with Listen and release it with Stop.
type Listener struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	err    error
}

// Listen starts reading keys from r, one line at a time, and calls fn for
// each key on a single goroutine. fn returns before the next key is read
// out, so it may own the calculator state without locking.
//
// Listening ends when r is exhausted, ctx is done, or Stop is called. A read
// blocked inside r is abandoned rather than waited for.
func Listen(ctx context.Context, r io.Reader, fn func(KeyEvent)) *Listener {
	ctx, cancel := context.WithCancel(ctx)
	l := &Listener{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	keys := make(chan typedKey)
	readErr := make(chan error, 1)

	go func() {
		var err error
		defer func() {
			readErr <- err
			close(keys)
		}()

		sc := bufio.NewScanner(r)
		for sc.Scan() {
			line := SplitKeys(sc.Text())
			for i, k := range line {
				select {
				case keys <- typedKey{key: k, eol: i == len(line)-1}:
				case <-ctx.Done():
					return
				}
			}
		}
		err = sc.Err()
	}()

	go func() {
		defer close(l.done)
		for {
			select {
			case <-ctx.Done():
				return
			case k, ok := <-keys:
				if !ok {
					l.err = <-readErr
					return
				}
				action, handled := ActionForKey(k.key)
				fn(KeyEvent{Key: k.key, Action: action, Handled: handled, EndOfLine: k.eol})
			}
		}
	}()

	return l
}

// Done is closed once the listener has delivered its last key.
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

// Stop releases the listener and waits for any in-flight callback to
// return. It reports the read error, if any, and is safe to call more than
// once.
func (l *Listener) Stop() error {
	l.once.Do(l.cancel)
	<-l.done
	return l.err
}
