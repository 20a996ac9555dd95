package utils

import (
	"fmt"
	"net/http"

	"bootcamp-assistant/internal/models"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// LINE caps quick reply sets at 13 items and labels at 20 characters.
const (
	maxQuickReplyItems = 13
	maxLabelRunes      = 20
)

type LinebotAPI interface {
	ReplyMessage(replyToken string, message string) error
	ReplyMessageWithMultiple(replyToken string, messages ...linebot.SendingMessage) error
	PushMessage(userID string, message string) error
	ParseRequest(req *http.Request) ([]*linebot.Event, error)
}

type LineBotClient struct {
	client *linebot.Client
}

func NewLineBotClient(channelSecret string, channelToken string) (LinebotAPI, error) {
	client, err := linebot.New(channelSecret, channelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create line bot client: %w", err)
	}
	return &LineBotClient{
		client: client,
	}, nil
}

func (c *LineBotClient) ReplyMessage(replyToken string, message string) error {
	_, err := c.client.ReplyMessage(replyToken, linebot.NewTextMessage(message)).Do()
	return err
}

func (c *LineBotClient) ReplyMessageWithMultiple(replyToken string, messages ...linebot.SendingMessage) error {
	_, err := c.client.ReplyMessage(replyToken, messages...).Do()
	return err
}

func (c *LineBotClient) PushMessage(userID string, message string) error {
	_, err := c.client.PushMessage(userID, linebot.NewTextMessage(message)).Do()
	return err
}

func (c *LineBotClient) ParseRequest(req *http.Request) ([]*linebot.Event, error) {
	return c.client.ParseRequest(req)
}

// BuildMessages renders a Reply as a LINE text message. Buttons become quick
// replies: postback buttons carry their callback token, the rest send their text.
func BuildMessages(reply *models.Reply) []linebot.SendingMessage {
	textMessage := linebot.NewTextMessage(reply.Text)
	if len(reply.Buttons) == 0 {
		return []linebot.SendingMessage{textMessage}
	}

	buttons := reply.Buttons
	if len(buttons) > maxQuickReplyItems {
		buttons = buttons[:maxQuickReplyItems]
	}

	items := make([]*linebot.QuickReplyButton, 0, len(buttons))
	for _, b := range buttons {
		label := truncateLabel(b.Label)
		var action linebot.QuickReplyAction
		if b.IsPostback() {
			action = linebot.NewPostbackAction(label, b.Data, "", label, "", "")
		} else {
			action = linebot.NewMessageAction(label, b.Text)
		}
		items = append(items, linebot.NewQuickReplyButton("", action))
	}

	return []linebot.SendingMessage{textMessage.WithQuickReplies(linebot.NewQuickReplyItems(items...))}
}

func truncateLabel(label string) string {
	runes := []rune(label)
	if len(runes) <= maxLabelRunes {
		return label
	}
	return string(runes[:maxLabelRunes])
}
