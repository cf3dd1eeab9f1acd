package telegram

import (
	"context"
	"fmt"
	"math/rand/v2"
	"mime"
	"path/filepath"

	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"
)

// Resolve returns the reference of a known peer id
func (c *Client) Resolve(id int64) (PeerRef, bool) {
	return c.peers.Resolve(id)
}

// SendText sends a text message; replyTo 0 sends a plain message
func (c *Client) SendText(ctx context.Context, peer PeerRef, text string, replyTo int) (int, error) {
	input, err := c.peers.InputPeer(peer)
	if err != nil {
		return 0, err
	}
	return c.sendText(ctx, input, text, replyTo)
}

// SendToSelf sends a text message to Saved Messages
func (c *Client) SendToSelf(ctx context.Context, text string) (int, error) {
	return c.sendText(ctx, &tg.InputPeerSelf{}, text, 0)
}

func (c *Client) sendText(ctx context.Context, input tg.InputPeerClass, text string, replyTo int) (int, error) {
	req := &tg.MessagesSendMessageRequest{
		Peer:      input,
		Message:   text,
		RandomID:  rand.Int64(),
		NoWebpage: true,
	}
	if replyTo != 0 {
		req.ReplyTo = &tg.InputReplyToMessage{ReplyToMsgID: replyTo}
	}

	res, err := c.api.MessagesSendMessage(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("send message: %w", err)
	}
	return sentMessageID(res), nil
}

// EditText edits the text of an own message
func (c *Client) EditText(ctx context.Context, peer PeerRef, msgID int, text string) error {
	input, err := c.peers.InputPeer(peer)
	if err != nil {
		return err
	}
	_, err = c.api.MessagesEditMessage(ctx, &tg.MessagesEditMessageRequest{
		Peer:      input,
		ID:        msgID,
		Message:   text,
		NoWebpage: true,
	})
	if err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

// Delete deletes a message for everyone
func (c *Client) Delete(ctx context.Context, peer PeerRef, msgID int) error {
	if peer.IsChannel() {
		channel, err := c.peers.InputChannel(peer)
		if err != nil {
			return err
		}
		_, err = c.api.ChannelsDeleteMessages(ctx, &tg.ChannelsDeleteMessagesRequest{
			Channel: channel,
			ID:      []int{msgID},
		})
		if err != nil {
			return fmt.Errorf("delete channel message: %w", err)
		}
		return nil
	}

	_, err := c.api.MessagesDeleteMessages(ctx, &tg.MessagesDeleteMessagesRequest{
		Revoke: true,
		ID:     []int{msgID},
	})
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// SendFile uploads a local file and sends it as a document
func (c *Client) SendFile(ctx context.Context, peer PeerRef, path, caption string) error {
	input, err := c.peers.InputPeer(peer)
	if err != nil {
		return err
	}

	file, err := uploader.NewUploader(c.api).FromPath(ctx, path)
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	_, err = c.api.MessagesSendMedia(ctx, &tg.MessagesSendMediaRequest{
		Peer: input,
		Media: &tg.InputMediaUploadedDocument{
			File:     file,
			MimeType: mimeType,
			Attributes: []tg.DocumentAttributeClass{
				&tg.DocumentAttributeFilename{FileName: filepath.Base(path)},
			},
		},
		Message:  caption,
		RandomID: rand.Int64(),
	})
	if err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}

// History gets the most recent messages of a conversation, newest first
func (c *Client) History(ctx context.Context, peer PeerRef, limit int) ([]Message, error) {
	input, err := c.peers.InputPeer(peer)
	if err != nil {
		return nil, err
	}

	res, err := c.api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
		Peer:  input,
		Limit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	c.rememberPeers(res)
	return convertMessages(res, c.SelfID()), nil
}

// GetMessage gets one message by id, nil when it does not exist
func (c *Client) GetMessage(ctx context.Context, peer PeerRef, msgID int) (*Message, error) {
	ids := []tg.InputMessageClass{&tg.InputMessageID{ID: msgID}}

	var (
		res tg.MessagesMessagesClass
		err error
	)
	if peer.IsChannel() {
		channel, chErr := c.peers.InputChannel(peer)
		if chErr != nil {
			return nil, chErr
		}
		res, err = c.api.ChannelsGetMessages(ctx, &tg.ChannelsGetMessagesRequest{Channel: channel, ID: ids})
	} else {
		res, err = c.api.MessagesGetMessages(ctx, ids)
	}
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	c.rememberPeers(res)

	msgs := convertMessages(res, c.SelfID())
	if len(msgs) == 0 {
		return nil, nil
	}
	return &msgs[0], nil
}

// FullUser gets the profile of a user including the bio
func (c *Client) FullUser(ctx context.Context, userID int64) (*UserInfo, error) {
	input, err := c.peers.InputUser(userID)
	if err != nil {
		return nil, err
	}

	full, err := c.api.UsersGetFullUser(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("get full user: %w", err)
	}
	c.peers.AddClasses(full.Users, full.Chats)

	for _, uc := range full.Users {
		if u, ok := uc.(*tg.User); ok && u.ID == userID {
			return convertUser(u, full.FullUser.About), nil
		}
	}
	return nil, fmt.Errorf("user %d missing from response", userID)
}

func (c *Client) rememberPeers(res tg.MessagesMessagesClass) {
	switch r := res.(type) {
	case *tg.MessagesMessages:
		c.peers.AddClasses(r.Users, r.Chats)
	case *tg.MessagesMessagesSlice:
		c.peers.AddClasses(r.Users, r.Chats)
	case *tg.MessagesChannelMessages:
		c.peers.AddClasses(r.Users, r.Chats)
	}
}
