package dispatcher

import (
	"context"
	"fmt"
	"strings"

	"bootcamp-assistant/internal/models"
	"bootcamp-assistant/internal/utils"

	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/sirupsen/logrus"
)

const startCommand = "/start"

// EventRouter feeds LINE webhook events to the Dispatcher and sends the replies.
type EventRouter struct {
	logger        *logrus.Entry
	linebotClient utils.LinebotAPI
	dispatcher    *Dispatcher
}

func NewEventRouter(logger *logrus.Entry, linebotClient utils.LinebotAPI, dispatcher *Dispatcher) *EventRouter {
	return &EventRouter{
		logger:        logger,
		linebotClient: linebotClient,
		dispatcher:    dispatcher,
	}
}

// Route handles every event in order. A failing event never stops the rest.
func (r *EventRouter) Route(ctx context.Context, events []*linebot.Event) {
	for _, event := range events {
		r.routeOne(ctx, event)
	}
}

func (r *EventRouter) routeOne(ctx context.Context, event *linebot.Event) {
	if event.Source == nil || event.Source.UserID == "" {
		r.logger.WithField("event_type", event.Type).Warn("Skipping event without a user")
		return
	}
	userID := event.Source.UserID

	logger := r.logger.WithFields(logrus.Fields{
		"event_type": event.Type,
		"user_id":    userID,
	})
	logger.Info("event handling")

	defer func() {
		if p := recover(); p != nil {
			logger.WithField("panic", fmt.Sprint(p)).Error("Recovered from panic while handling event")
			r.reply(logger, event.ReplyToken, &models.Reply{Text: models.GenericFailureText})
		}
	}()

	reply, err := r.dispatch(ctx, event, userID)
	if err != nil {
		logger.WithError(err).Error("Failed to handle event")
		reply = &models.Reply{Text: models.GenericFailureText}
	}
	if reply == nil {
		return
	}
	r.reply(logger, event.ReplyToken, reply)
}

func (r *EventRouter) dispatch(ctx context.Context, event *linebot.Event, userID string) (*models.Reply, error) {
	switch event.Type {
	case linebot.EventTypeFollow:
		return r.dispatcher.OnStart(ctx, userID)
	case linebot.EventTypePostback:
		if event.Postback == nil {
			return nil, nil
		}
		return r.dispatcher.OnCallback(ctx, userID, event.Postback.Data)
	case linebot.EventTypeMessage:
		message, ok := event.Message.(*linebot.TextMessage)
		if !ok {
			return nil, nil
		}
		if strings.TrimSpace(message.Text) == startCommand {
			return r.dispatcher.OnStart(ctx, userID)
		}
		return r.dispatcher.OnText(ctx, userID, message.Text)
	}
	return nil, nil
}

func (r *EventRouter) reply(logger *logrus.Entry, replyToken string, reply *models.Reply) {
	if replyToken == "" {
		return
	}
	if err := r.linebotClient.ReplyMessageWithMultiple(replyToken, utils.BuildMessages(reply)...); err != nil {
		logger.WithError(err).Error("Failed to reply message")
	}
}
