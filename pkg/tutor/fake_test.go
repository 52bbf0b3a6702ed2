package tutor

import (
	"context"
	"errors"
	"sync"

	"github.com/smith3v/lingochat/pkg/chat"
)

// fakeChat replays scripted completions and records every request.
type fakeChat struct {
	mu      sync.Mutex
	replies []string
	err     error
	block   bool
	calls   [][]chat.Message

	// When gate is set, each call signals entered and waits for gate to close.
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeChat) Complete(ctx context.Context, messages []chat.Message) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, messages)
	f.mu.Unlock()

	if f.gate != nil {
		f.entered <- struct{}{}
		select {
		case <-f.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func (f *fakeChat) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeChat) lastCall() []chat.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}

type fixedCounter int

func (c fixedCounter) Count(string) int { return int(c) }
