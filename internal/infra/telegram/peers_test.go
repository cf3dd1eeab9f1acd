package telegram

import (
	"testing"

	"github.com/gotd/td/tg"
)

func TestPeerCache_InputPeer(t *testing.T) {
	cache := NewPeerCache()
	cache.AddEntities(tg.Entities{
		Users:    map[int64]*tg.User{77: {ID: 77, AccessHash: 1234}},
		Chats:    map[int64]*tg.Chat{200: {ID: 200}},
		Channels: map[int64]*tg.Channel{300: {ID: 300, AccessHash: 99, Megagroup: true}},
	})

	peer, err := cache.InputPeer(PeerRef{Kind: PeerKindUser, ID: 77})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	user, ok := peer.(*tg.InputPeerUser)
	if !ok || user.AccessHash != 1234 {
		t.Errorf("Unexpected input peer %#v", peer)
	}

	peer, err = cache.InputPeer(PeerRef{Kind: PeerKindChat, ID: 200})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if chat, ok := peer.(*tg.InputPeerChat); !ok || chat.ChatID != 200 {
		t.Errorf("Unexpected input peer %#v", peer)
	}

	peer, err = cache.InputPeer(PeerRef{Kind: PeerKindSupergroup, ID: 300})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ch, ok := peer.(*tg.InputPeerChannel); !ok || ch.AccessHash != 99 {
		t.Errorf("Unexpected input peer %#v", peer)
	}

	if _, err := cache.InputPeer(PeerRef{Kind: PeerKindUser, ID: 1}); err == nil {
		t.Error("Expected error for unknown user")
	}
}

func TestPeerCache_SelfIsInputPeerSelf(t *testing.T) {
	cache := NewPeerCache()
	cache.AddUser(&tg.User{ID: 1, Self: true, AccessHash: 5})

	peer, err := cache.InputPeer(PeerRef{Kind: PeerKindUser, ID: 1})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := peer.(*tg.InputPeerSelf); !ok {
		t.Errorf("Expected InputPeerSelf, got %#v", peer)
	}
}

func TestPeerCache_MinUserKeepsAccessHash(t *testing.T) {
	cache := NewPeerCache()
	cache.AddUser(&tg.User{ID: 77, AccessHash: 1234})
	cache.AddUser(&tg.User{ID: 77, Min: true})

	u, ok := cache.User(77)
	if !ok || u.AccessHash != 1234 {
		t.Errorf("Expected access hash preserved, got %+v", u)
	}
}

func TestPeerCache_Resolve(t *testing.T) {
	cache := NewPeerCache()
	cache.AddClasses(
		[]tg.UserClass{&tg.User{ID: 77}},
		[]tg.ChatClass{&tg.Chat{ID: 200}, &tg.Channel{ID: 300}},
	)

	tests := []struct {
		id       int64
		expected PeerRef
		ok       bool
	}{
		{77, PeerRef{Kind: PeerKindUser, ID: 77}, true},
		{200, PeerRef{Kind: PeerKindChat, ID: 200}, true},
		{300, PeerRef{Kind: PeerKindChannel, ID: 300}, true},
		{999, PeerRef{}, false},
	}

	for _, tt := range tests {
		ref, ok := cache.Resolve(tt.id)
		if ok != tt.ok || ref != tt.expected {
			t.Errorf("Resolve(%d): expected %+v %v, got %+v %v", tt.id, tt.expected, tt.ok, ref, ok)
		}
	}
}
