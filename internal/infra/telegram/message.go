package telegram

import (
	"strings"
	"time"

	"github.com/gotd/td/tg"
)

// Message represents a received or fetched message
type Message struct {
	ID             int
	Peer           PeerRef
	SenderID       int64 // 0 when sent on behalf of a channel
	SenderName     string
	SenderUsername string
	SenderBot      bool
	Text           string
	ReplyToID      int
	Out            bool
	Date           time.Time
}

// UserInfo represents the full profile of a user
type UserInfo struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	About     string
	Status    string // online, offline, recently, last_week, last_month, long_ago
	WasOnline time.Time
	Verified  bool
	Scam      bool
	Fake      bool
	Premium   bool
}

func peerRef(p tg.PeerClass, channels map[int64]*tg.Channel) PeerRef {
	switch p := p.(type) {
	case *tg.PeerUser:
		return PeerRef{Kind: PeerKindUser, ID: p.UserID}
	case *tg.PeerChat:
		return PeerRef{Kind: PeerKindChat, ID: p.ChatID}
	case *tg.PeerChannel:
		if ch, ok := channels[p.ChannelID]; ok {
			return channelRef(ch)
		}
		return PeerRef{Kind: PeerKindChannel, ID: p.ChannelID}
	default:
		return PeerRef{}
	}
}

// convertMessage maps a tg message using the entities that came with it
func convertMessage(msg *tg.Message, selfID int64, users map[int64]*tg.User, channels map[int64]*tg.Channel) *Message {
	m := &Message{
		ID:   msg.ID,
		Peer: peerRef(msg.PeerID, channels),
		Text: msg.Message,
		Out:  msg.Out,
		Date: time.Unix(int64(msg.Date), 0),
	}

	if from, ok := msg.GetFromID(); ok {
		if u, ok := from.(*tg.PeerUser); ok {
			m.SenderID = u.UserID
		}
	} else if m.Peer.Kind == PeerKindUser {
		// Private chats omit from_id: the sender is either us or the peer
		if msg.Out {
			m.SenderID = selfID
		} else {
			m.SenderID = m.Peer.ID
		}
	}

	if u, ok := users[m.SenderID]; ok && m.SenderID != 0 {
		m.SenderName = u.FirstName
		m.SenderUsername = u.Username
		m.SenderBot = u.Bot
	}

	if header, ok := msg.ReplyTo.(*tg.MessageReplyHeader); ok {
		if id, ok := header.GetReplyToMsgID(); ok {
			m.ReplyToID = id
		}
	}

	return m
}

func userIndex(classes []tg.UserClass) map[int64]*tg.User {
	users := make(map[int64]*tg.User, len(classes))
	for _, uc := range classes {
		if u, ok := uc.(*tg.User); ok {
			users[u.ID] = u
		}
	}
	return users
}

func channelIndex(classes []tg.ChatClass) map[int64]*tg.Channel {
	channels := make(map[int64]*tg.Channel)
	for _, cc := range classes {
		if ch, ok := cc.(*tg.Channel); ok {
			channels[ch.ID] = ch
		}
	}
	return channels
}

// convertMessages maps a messages response, skipping service and empty messages
func convertMessages(res tg.MessagesMessagesClass, selfID int64) []Message {
	var (
		msgs  []tg.MessageClass
		users []tg.UserClass
		chats []tg.ChatClass
	)
	switch r := res.(type) {
	case *tg.MessagesMessages:
		msgs, users, chats = r.Messages, r.Users, r.Chats
	case *tg.MessagesMessagesSlice:
		msgs, users, chats = r.Messages, r.Users, r.Chats
	case *tg.MessagesChannelMessages:
		msgs, users, chats = r.Messages, r.Users, r.Chats
	default:
		return nil
	}

	userMap := userIndex(users)
	channelMap := channelIndex(chats)
	out := make([]Message, 0, len(msgs))
	for _, mc := range msgs {
		if msg, ok := mc.(*tg.Message); ok {
			out = append(out, *convertMessage(msg, selfID, userMap, channelMap))
		}
	}
	return out
}

// convertStatus maps a user status to its name and last seen time
func convertStatus(status tg.UserStatusClass) (string, time.Time) {
	switch s := status.(type) {
	case *tg.UserStatusOnline:
		return "online", time.Time{}
	case *tg.UserStatusOffline:
		return "offline", time.Unix(int64(s.WasOnline), 0)
	case *tg.UserStatusRecently:
		return "recently", time.Time{}
	case *tg.UserStatusLastWeek:
		return "last_week", time.Time{}
	case *tg.UserStatusLastMonth:
		return "last_month", time.Time{}
	default:
		return "long_ago", time.Time{}
	}
}

func convertUser(u *tg.User, about string) *UserInfo {
	status, wasOnline := convertStatus(u.Status)
	return &UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		About:     strings.TrimSpace(about),
		Status:    status,
		WasOnline: wasOnline,
		Verified:  u.Verified,
		Scam:      u.Scam,
		Fake:      u.Fake,
		Premium:   u.Premium,
	}
}

// sentMessageID extracts the id of a message we just sent
func sentMessageID(res tg.UpdatesClass) int {
	switch u := res.(type) {
	case *tg.UpdateShortSentMessage:
		return u.ID
	case *tg.Updates:
		return idFromUpdates(u.Updates)
	case *tg.UpdatesCombined:
		return idFromUpdates(u.Updates)
	default:
		return 0
	}
}

func idFromUpdates(list []tg.UpdateClass) int {
	for _, upd := range list {
		switch u := upd.(type) {
		case *tg.UpdateMessageID:
			return u.ID
		case *tg.UpdateNewMessage:
			if m, ok := u.Message.(*tg.Message); ok {
				return m.ID
			}
		case *tg.UpdateNewChannelMessage:
			if m, ok := u.Message.(*tg.Message); ok {
				return m.ID
			}
		}
	}
	return 0
}
