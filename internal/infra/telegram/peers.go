package telegram

import (
	"fmt"
	"sync"

	"github.com/gotd/td/tg"
)

// PeerKind is the kind of a conversation
type PeerKind string

const (
	PeerKindUser       PeerKind = "user"
	PeerKindChat       PeerKind = "chat"
	PeerKindSupergroup PeerKind = "supergroup"
	PeerKindChannel    PeerKind = "channel"
)

// PeerRef identifies a conversation by kind and bare id
type PeerRef struct {
	Kind PeerKind
	ID   int64
}

// IsChannel checks if the peer is a channel or supergroup
func (p PeerRef) IsChannel() bool {
	return p.Kind == PeerKindChannel || p.Kind == PeerKindSupergroup
}

// PeerCache keeps the access hashes learned from updates and responses
type PeerCache struct {
	mu       sync.RWMutex
	users    map[int64]*tg.User
	chats    map[int64]struct{}
	channels map[int64]*tg.Channel
}

// NewPeerCache creates an empty peer cache
func NewPeerCache() *PeerCache {
	return &PeerCache{
		users:    make(map[int64]*tg.User),
		chats:    make(map[int64]struct{}),
		channels: make(map[int64]*tg.Channel),
	}
}

// AddUser remembers a user
func (p *PeerCache) AddUser(u *tg.User) {
	if u == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if prev, ok := p.users[u.ID]; ok && u.Min {
		// Min constructors carry no usable access hash
		u = prev
	}
	p.users[u.ID] = u
}

// AddEntities remembers every peer of an update
func (p *PeerCache) AddEntities(e tg.Entities) {
	for _, u := range e.Users {
		p.AddUser(u)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for id := range e.Chats {
		p.chats[id] = struct{}{}
	}
	for id, ch := range e.Channels {
		p.channels[id] = ch
	}
}

// AddClasses remembers peers returned by a request
func (p *PeerCache) AddClasses(users []tg.UserClass, chats []tg.ChatClass) {
	for _, uc := range users {
		if u, ok := uc.(*tg.User); ok {
			p.AddUser(u)
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, cc := range chats {
		switch ch := cc.(type) {
		case *tg.Chat:
			p.chats[ch.ID] = struct{}{}
		case *tg.Channel:
			p.channels[ch.ID] = ch
		}
	}
}

// User returns a cached user
func (p *PeerCache) User(id int64) (*tg.User, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	u, ok := p.users[id]
	return u, ok
}

// Channel returns a cached channel
func (p *PeerCache) Channel(id int64) (*tg.Channel, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ch, ok := p.channels[id]
	return ch, ok
}

// Resolve looks up a peer by bare id, trying users, channels and chats
func (p *PeerCache) Resolve(id int64) (PeerRef, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if _, ok := p.users[id]; ok {
		return PeerRef{Kind: PeerKindUser, ID: id}, true
	}
	if ch, ok := p.channels[id]; ok {
		return channelRef(ch), true
	}
	if _, ok := p.chats[id]; ok {
		return PeerRef{Kind: PeerKindChat, ID: id}, true
	}
	return PeerRef{}, false
}

// InputPeer builds the input peer for a reference
func (p *PeerCache) InputPeer(ref PeerRef) (tg.InputPeerClass, error) {
	switch ref.Kind {
	case PeerKindUser:
		u, ok := p.User(ref.ID)
		if !ok {
			return nil, fmt.Errorf("unknown user %d", ref.ID)
		}
		if u.Self {
			return &tg.InputPeerSelf{}, nil
		}
		return &tg.InputPeerUser{UserID: u.ID, AccessHash: u.AccessHash}, nil
	case PeerKindChat:
		return &tg.InputPeerChat{ChatID: ref.ID}, nil
	case PeerKindSupergroup, PeerKindChannel:
		ch, ok := p.Channel(ref.ID)
		if !ok {
			return nil, fmt.Errorf("unknown channel %d", ref.ID)
		}
		return &tg.InputPeerChannel{ChannelID: ch.ID, AccessHash: ch.AccessHash}, nil
	default:
		return nil, fmt.Errorf("unsupported peer kind %q", ref.Kind)
	}
}

// InputChannel builds the input channel for a channel reference
func (p *PeerCache) InputChannel(ref PeerRef) (tg.InputChannelClass, error) {
	ch, ok := p.Channel(ref.ID)
	if !ok {
		return nil, fmt.Errorf("unknown channel %d", ref.ID)
	}
	return &tg.InputChannel{ChannelID: ch.ID, AccessHash: ch.AccessHash}, nil
}

// InputUser builds the input user for a user id
func (p *PeerCache) InputUser(id int64) (tg.InputUserClass, error) {
	u, ok := p.User(id)
	if !ok {
		return nil, fmt.Errorf("unknown user %d", id)
	}
	if u.Self {
		return &tg.InputUserSelf{}, nil
	}
	return &tg.InputUser{UserID: u.ID, AccessHash: u.AccessHash}, nil
}

func channelRef(ch *tg.Channel) PeerRef {
	if ch.Megagroup {
		return PeerRef{Kind: PeerKindSupergroup, ID: ch.ID}
	}
	return PeerRef{Kind: PeerKindChannel, ID: ch.ID}
}
