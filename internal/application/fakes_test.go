package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

type fakeTokens struct {
	calls []string
	err   error
}

func (f *fakeTokens) Issue(userID string) (string, time.Time, error) {
	f.calls = append(f.calls, userID)
	if f.err != nil {
		return "", time.Time{}, f.err
	}
	return "token-for-" + userID, time.Now().Add(7 * 24 * time.Hour), nil
}

type publishedEvent struct {
	Type string
	Body any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, msgType string, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: msgType, Body: body})
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type mapCache struct {
	data   map[string]entity.PublicUser
	getErr error
	gets   int
}

func newMapCache() *mapCache { return &mapCache{data: map[string]entity.PublicUser{}} }

func (c *mapCache) Get(_ context.Context, id string) (*entity.PublicUser, error) {
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	u, ok := c.data[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (c *mapCache) Set(_ context.Context, u entity.PublicUser) error {
	c.data[u.ID] = u
	return nil
}

type fakeIndex struct {
	indexed map[string]entity.Task
	removed []string
	results []entity.Task
	err     error
}

func newFakeIndex() *fakeIndex { return &fakeIndex{indexed: map[string]entity.Task{}} }

func (f *fakeIndex) Index(_ context.Context, t entity.Task) error {
	if f.err != nil {
		return f.err
	}
	f.indexed[t.ID] = t
	return nil
}

func (f *fakeIndex) Remove(_ context.Context, id string) error {
	f.removed = append(f.removed, id)
	return f.err
}

func (f *fakeIndex) Search(_ context.Context, _, _ string, _ int) ([]entity.Task, error) {
	return f.results, f.err
}

var errStoreDown = errors.New("store down")
