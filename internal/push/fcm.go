package push

import (
	"context"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// FCMClient delivers batched multicast messages through Firebase Cloud
// Messaging. Initialization happens on the first Deliver call and its
// outcome (including failure) is kept for the process lifetime.
type FCMClient struct {
	credentialsPath string
	credentialsJSON string

	once      sync.Once
	messenger *messaging.Client
}

func NewFCMClient(credentialsPath, credentialsJSON string) *FCMClient {
	return &FCMClient{
		credentialsPath: credentialsPath,
		credentialsJSON: credentialsJSON,
	}
}

func (c *FCMClient) init(ctx context.Context) {
	var opts []option.ClientOption
	switch {
	case c.credentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(c.credentialsJSON)))
	case c.credentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(c.credentialsPath))
	default:
		zap.L().Debug("push delivery disabled: no firebase credentials configured")
		return
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		zap.L().Error("can't init firebase app", zap.Error(err))
		return
	}
	messenger, err := app.Messaging(ctx)
	if err != nil {
		zap.L().Error("can't init firebase messaging", zap.Error(err))
		return
	}
	c.messenger = messenger
}

func (c *FCMClient) Deliver(ctx context.Context, tokens []string, title, body string, data map[string]string) (*Report, error) {
	if len(tokens) == 0 {
		return &Report{Enabled: true}, nil
	}

	c.once.Do(func() { c.init(ctx) })
	if c.messenger == nil {
		return &Report{Enabled: false}, nil
	}

	badge := 1
	msg := &messaging.MulticastMessage{
		Tokens:       tokens,
		Notification: &messaging.Notification{Title: title, Body: body},
		Data:         data,
		Android:      &messaging.AndroidConfig{Priority: "high"},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default", Badge: &badge, ContentAvailable: true},
			},
		},
	}

	resp, err := c.messenger.SendEachForMulticast(ctx, msg)
	if err != nil {
		return &Report{Failed: len(tokens), Enabled: true}, err
	}

	report := &Report{
		Delivered: resp.SuccessCount,
		Failed:    resp.FailureCount,
		Enabled:   true,
	}
	for i, r := range resp.Responses {
		if r.Success || r.Error == nil {
			continue
		}
		if messaging.IsRegistrationTokenNotRegistered(r.Error) || messaging.IsInvalidArgument(r.Error) {
			report.InvalidTokens = append(report.InvalidTokens, tokens[i])
		}
	}
	return report, nil
}
