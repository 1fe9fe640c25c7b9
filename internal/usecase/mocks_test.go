// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"telegram-gatekeeper/internal/domain"
	"telegram-gatekeeper/internal/domain/model"
	"telegram-gatekeeper/internal/domain/ports/adapter"
)

// newTestLogger creates a silent zerolog.Logger so test output stays clean.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// noopLimiter never paces; unit tests should not sleep.
type noopLimiter struct{}

func (noopLimiter) Wait(context.Context) error { return nil }

// memChallengeRepo is a small in-memory implementation used by unit tests.
type memChallengeRepo struct {
	mu        sync.RWMutex
	store     map[string]*model.Challenge
	insertErr error // used by tests to simulate store failures
}

func newMemChallengeRepo() *memChallengeRepo {
	return &memChallengeRepo{store: make(map[string]*model.Challenge)}
}

func (m *memChallengeRepo) Insert(ctx context.Context, c *model.Challenge) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.store[c.ID] = &cp
	return nil
}

func (m *memChallengeRepo) FindLatestOpen(ctx context.Context, botID string, participantID int64, now time.Time) (*model.Challenge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var open []*model.Challenge
	for _, c := range m.store {
		if c.BotID == botID && c.ParticipantID == participantID && c.Open(now) {
			open = append(open, c)
		}
	}
	if len(open) == 0 {
		return nil, domain.ErrNotFound
	}
	sort.Slice(open, func(i, j int) bool { return open[i].IssuedAt.After(open[j].IssuedAt) })
	cp := *open[0]
	return &cp, nil
}

func (m *memChallengeRepo) MarkValidated(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Validated = true
	return nil
}

type memInviteRepo struct {
	mu     sync.RWMutex
	grants []*model.InviteGrant
}

func newMemInviteRepo() *memInviteRepo {
	return &memInviteRepo{}
}

func (m *memInviteRepo) FindUnexpired(ctx context.Context, botID string, participantID int64, menuEntryID string, now time.Time) (*model.InviteGrant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.grants) - 1; i >= 0; i-- {
		g := m.grants[i]
		if g.BotID == botID && g.ParticipantID == participantID && g.MenuEntryID == menuEntryID && !g.Expired(now) {
			cp := *g
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memInviteRepo) Insert(ctx context.Context, g *model.InviteGrant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *g
	m.grants = append(m.grants, &cp)
	return nil
}

type memRosterRepo struct {
	mu         sync.RWMutex
	recipients []*model.Recipient
	listErr    error
}

func newMemRosterRepo(recipients ...*model.Recipient) *memRosterRepo {
	return &memRosterRepo{recipients: recipients}
}

func (m *memRosterRepo) ListActive(ctx context.Context, botID string) ([]*model.Recipient, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Recipient
	for _, r := range m.recipients {
		if r.BotID == botID && !r.Banned {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRosterRepo) IsBanned(ctx context.Context, botID string, participantID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.recipients {
		if r.BotID == botID && r.ParticipantID == participantID {
			return r.Banned, nil
		}
	}
	return false, nil
}

func (m *memRosterRepo) Touch(ctx context.Context, botID string, p model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.recipients {
		if r.BotID == botID && r.ParticipantID == p.ParticipantID {
			r.FirstName, r.LastName = p.FirstName, p.LastName
			r.Username, r.LanguageCode = p.Username, p.LanguageCode
			r.Interactions++
			return nil
		}
	}
	m.recipients = append(m.recipients, &model.Recipient{
		BotID:         botID,
		ParticipantID: p.ParticipantID,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Username:      p.Username,
		LanguageCode:  p.LanguageCode,
		Interactions:  1,
	})
	return nil
}

type memMenuRepo struct {
	mu      sync.RWMutex
	entries []*model.MenuEntry
	findErr error
}

func newMemMenuRepo(entries ...*model.MenuEntry) *memMenuRepo {
	return &memMenuRepo{entries: entries}
}

func (m *memMenuRepo) ListActive(ctx context.Context, botID string) ([]*model.MenuEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.MenuEntry
	for _, e := range m.entries {
		if e.BotID == botID && e.Active {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *memMenuRepo) FindActiveByIDs(ctx context.Context, botID string, ids []string) ([]*model.MenuEntry, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	all, err := m.ListActive(ctx, botID)
	if err != nil {
		return nil, err
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*model.MenuEntry
	for _, e := range all {
		if want[e.ID] {
			out = append(out, e)
		}
	}
	return out, nil
}

type memJobRepo struct {
	mu    sync.Mutex
	store map[string]*model.BroadcastJob
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{store: make(map[string]*model.BroadcastJob)}
}

func (m *memJobRepo) Insert(ctx context.Context, j *model.BroadcastJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *j
	m.store[j.ID] = &cp
	return nil
}

func (m *memJobRepo) Find(ctx context.Context, id string) (*model.BroadcastJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *memJobRepo) ListDue(ctx context.Context, now time.Time) ([]*model.BroadcastJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.BroadcastJob
	for _, j := range m.store {
		if j.Due(now) {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memJobRepo) Claim(ctx context.Context, id string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if j.Sent {
		return false, nil
	}
	j.Sent = true
	j.SentAt = &now
	return true, nil
}

type memBotRepo struct {
	mu      sync.RWMutex
	bots    map[string]*model.Bot
	findErr error
}

func newMemBotRepo(bots ...*model.Bot) *memBotRepo {
	m := &memBotRepo{bots: make(map[string]*model.Bot)}
	for _, b := range bots {
		m.bots[b.ID] = b
	}
	return m
}

func (m *memBotRepo) Find(ctx context.Context, id string) (*model.Bot, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bots[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

// sentMessage records one outbound call made against the mock messenger.
type sentMessage struct {
	Kind      string // "text", "media" or "media_group"
	ChatID    int64
	Text      string
	MediaURLs []string
	Buttons   [][]adapter.InlineButton
}

// mockMessenger records sends and lets tests inject per-chat failures.
type mockMessenger struct {
	mu        sync.Mutex
	sent      []sentMessage
	failFor   map[int64]error // chat id -> error for every send
	inviteErr error
	inviteSeq int
}

func newMockMessenger() *mockMessenger {
	return &mockMessenger{failFor: make(map[int64]error)}
}

func (m *mockMessenger) Sent() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

func (m *mockMessenger) sentTo(chatID int64) []sentMessage {
	var out []sentMessage
	for _, s := range m.Sent() {
		if s.ChatID == chatID {
			out = append(out, s)
		}
	}
	return out
}

func (m *mockMessenger) record(s sentMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failFor[s.ChatID]; err != nil {
		return err
	}
	m.sent = append(m.sent, s)
	return nil
}

func (m *mockMessenger) SendText(ctx context.Context, botID string, chatID int64, text string, buttons [][]adapter.InlineButton) error {
	return m.record(sentMessage{Kind: "text", ChatID: chatID, Text: text, Buttons: buttons})
}

func (m *mockMessenger) SendMedia(ctx context.Context, botID string, chatID int64, mediaURL, caption string, buttons [][]adapter.InlineButton) error {
	return m.record(sentMessage{Kind: "media", ChatID: chatID, Text: caption, MediaURLs: []string{mediaURL}, Buttons: buttons})
}

func (m *mockMessenger) SendMediaGroup(ctx context.Context, botID string, chatID int64, mediaURLs []string, caption string) error {
	return m.record(sentMessage{Kind: "media_group", ChatID: chatID, Text: caption, MediaURLs: mediaURLs})
}

func (m *mockMessenger) CreateInviteLink(ctx context.Context, botID string, target string, expireAt time.Time, memberLimit int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inviteErr != nil {
		return "", m.inviteErr
	}
	m.inviteSeq++
	return fmt.Sprintf("https://t.me/+mock-invite-%d", m.inviteSeq), nil
}
