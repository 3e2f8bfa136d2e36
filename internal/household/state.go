// Package household owns the in-memory household state: members, chores,
// places and the chat log. Every mutation keeps member point totals in step
// with completed chores and writes the affected collections back to the store.
package household

import (
	"context"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/chorechamp/internal/model"
)

// Collection keys. They match the local-storage keys used by the web client
// so exported data stays recognisable.
const (
	KeyMembers       = "choreChampionMembers"
	KeyChores        = "choreChampionChores"
	KeyChatMessages  = "choreChampionChatMessages"
	KeyHouseholdName = "choreChampionHouseholdName"
	KeyPlaces        = "choreChampionPlaces"
)

// Persister loads and saves whole collections by key.
type Persister interface {
	Load(ctx context.Context, key string, dst any) (bool, error)
	Save(ctx context.Context, key string, v any) error
}

// Change describes a completed mutation.
type Change struct {
	Entity string
	Action string
	ID     string
}

type Option func(*State)

// WithClock overrides the time source used for completion and message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *State) { s.now = now }
}

// WithIDGenerator overrides the id source for new entities.
func WithIDGenerator(newID func() string) Option {
	return func(s *State) { s.newID = newID }
}

// WithListener registers a function called after every mutation, outside the
// state lock.
func WithListener(fn func(Change)) Option {
	return func(s *State) { s.listener = fn }
}

// State is the authoritative household state. It is safe for concurrent use;
// mutations are serialised and never interleave.
type State struct {
	mu       sync.Mutex
	store    Persister
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
	listener func(Change)

	householdName string
	members       []model.Member
	chores        []model.Chore
	places        []model.Place
	messages      []model.ChatMessage
}

// New builds a State and loads every collection from store. A collection that
// is missing or unreadable starts from its default value.
func New(ctx context.Context, store Persister, logger *slog.Logger, opts ...Option) *State {
	s := &State{
		store:         store,
		logger:        logger,
		now:           time.Now,
		newID:         uuid.NewString,
		householdName: model.DefaultHouseholdName,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.load(ctx, KeyMembers, &s.members)
	s.load(ctx, KeyChores, &s.chores)
	s.load(ctx, KeyChatMessages, &s.messages)
	s.load(ctx, KeyHouseholdName, &s.householdName)

	if !s.load(ctx, KeyPlaces, &s.places) {
		for _, name := range model.DefaultPlaceNames {
			s.places = append(s.places, model.Place{ID: s.newID(), Name: name})
		}
	}

	return s
}

// load reads key into dst. dst keeps its default unless the whole collection
// decodes.
func (s *State) load(ctx context.Context, key string, dst any) bool {
	fresh := reflect.New(reflect.TypeOf(dst).Elem())
	found, err := s.store.Load(ctx, key, fresh.Interface())
	if err != nil {
		s.logger.Warn("load collection, using default", "key", key, "error", err)
		return false
	}
	if found {
		reflect.ValueOf(dst).Elem().Set(fresh.Elem())
	}
	return found
}

// persist writes a collection. Failures are logged and the in-memory state
// is kept as is.
func (s *State) persist(ctx context.Context, key string, v any) {
	if err := s.store.Save(ctx, key, v); err != nil {
		s.logger.Error("save collection", "key", key, "error", err)
	}
}

func (s *State) notify(c Change) {
	if s.listener != nil {
		s.listener(c)
	}
}

// --- Household ---

func (s *State) HouseholdName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.householdName
}

// SetHouseholdName stores the trimmed name. A blank name is ignored.
func (s *State) SetHouseholdName(ctx context.Context, name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.HouseholdName(), false
	}

	s.mu.Lock()
	s.householdName = name
	s.persist(ctx, KeyHouseholdName, s.householdName)
	s.mu.Unlock()

	s.notify(Change{Entity: "household", Action: "updated"})
	return name, true
}

// --- Members ---

// AddMember creates a member with zero points. Names need not be unique.
func (s *State) AddMember(ctx context.Context, name, avatarURL string) model.Member {
	s.mu.Lock()
	m := model.Member{
		ID:        s.newID(),
		Name:      name,
		AvatarURL: avatarURL,
	}
	s.members = append(s.members, m)
	s.persist(ctx, KeyMembers, s.members)
	s.mu.Unlock()

	s.notify(Change{Entity: "member", Action: "created", ID: m.ID})
	return m
}

func (s *State) Members() []model.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Member, len(s.members))
	copy(out, s.members)
	return out
}

func (s *State) Member(id string) (model.Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.memberIndex(id); i >= 0 {
		return s.members[i], true
	}
	return model.Member{}, false
}

func (s *State) memberIndex(id string) int {
	for i := range s.members {
		if s.members[i].ID == id {
			return i
		}
	}
	return -1
}

// --- Places ---

// AddPlace creates a place with the trimmed name. It does nothing and reports
// false when the name is blank.
func (s *State) AddPlace(ctx context.Context, name string) (model.Place, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Place{}, false
	}

	s.mu.Lock()
	p := model.Place{ID: s.newID(), Name: name}
	s.places = append(s.places, p)
	s.persist(ctx, KeyPlaces, s.places)
	s.mu.Unlock()

	s.notify(Change{Entity: "place", Action: "created", ID: p.ID})
	return p, true
}

func (s *State) Places() []model.Place {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Place, len(s.places))
	copy(out, s.places)
	return out
}

// DeletePlace removes the place and clears it from every chore that
// referenced it. The chores themselves are kept.
func (s *State) DeletePlace(ctx context.Context, id string) bool {
	s.mu.Lock()

	found := false
	kept := s.places[:0:0]
	for _, p := range s.places {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}

	cleared := false
	for i := range s.chores {
		if s.chores[i].PlaceID != nil && *s.chores[i].PlaceID == id {
			s.chores[i].PlaceID = nil
			cleared = true
		}
	}

	if found {
		s.places = kept
		s.persist(ctx, KeyPlaces, s.places)
	}
	if cleared {
		s.persist(ctx, KeyChores, s.chores)
	}
	s.mu.Unlock()

	if !found && !cleared {
		return false
	}
	s.notify(Change{Entity: "place", Action: "deleted", ID: id})
	return found
}

// --- Chat ---

// AppendChatMessage assigns an id and timestamp to msg and appends it to the
// log. An empty type is recorded as a plain message.
func (s *State) AppendChatMessage(ctx context.Context, msg model.ChatMessage) model.ChatMessage {
	if msg.Type == "" {
		msg.Type = model.MessageTypeMessage
	}

	s.mu.Lock()
	msg.ID = s.newID()
	msg.Timestamp = s.now()
	s.messages = append(s.messages, msg)
	s.persist(ctx, KeyChatMessages, s.messages)
	s.mu.Unlock()

	s.notify(Change{Entity: "chat_message", Action: "created", ID: msg.ID})
	return msg
}

func (s *State) ChatMessages() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}
