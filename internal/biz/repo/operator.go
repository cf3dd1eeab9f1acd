package repo

import "context"

// OperatorRepo is the relay bot's channel to the operator
type OperatorRepo interface {
	// SendNotification sends text with a single button tagged with data
	SendNotification(ctx context.Context, text, label, data string) (int, error)

	// ReplaceButton replaces the message's keyboard with a single button
	ReplaceButton(ctx context.Context, chatID int64, msgID int, label, data string) error

	// EditTextWithButton replaces text and keyboard of the message
	EditTextWithButton(ctx context.Context, chatID int64, msgID int, text, label, data string) error

	// AnswerCallback answers a button press, as an alert when alert is true
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
}
