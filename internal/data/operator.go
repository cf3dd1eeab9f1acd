package data

import (
	"context"

	"github.com/sleepguard/sleepguard/internal/biz/repo"
	"github.com/sleepguard/sleepguard/internal/infra/botapi"
)

// operatorRepo implements the operator repository over the relay bot
type operatorRepo struct {
	client     *botapi.Client
	operatorID int64
}

// NewOperatorRepo creates an operator repository delivering to operatorID
func NewOperatorRepo(client *botapi.Client, operatorID int64) repo.OperatorRepo {
	return &operatorRepo{client: client, operatorID: operatorID}
}

// SendNotification sends text with a single button to the operator
func (r *operatorRepo) SendNotification(ctx context.Context, text, label, data string) (int, error) {
	return r.client.SendWithButton(r.operatorID, text, label, data)
}

// ReplaceButton replaces the keyboard of a message
func (r *operatorRepo) ReplaceButton(ctx context.Context, chatID int64, msgID int, label, data string) error {
	return r.client.EditButton(chatID, msgID, label, data)
}

// EditTextWithButton replaces text and keyboard of a message
func (r *operatorRepo) EditTextWithButton(ctx context.Context, chatID int64, msgID int, text, label, data string) error {
	return r.client.EditTextAndButton(chatID, msgID, text, label, data)
}

// AnswerCallback answers a button press
func (r *operatorRepo) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	return r.client.AnswerCallback(callbackID, text, alert)
}
