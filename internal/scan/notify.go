package scan

import (
	"context"
	"encoding/json"

	"gocloud.dev/pubsub"
	_ "gocloud.dev/pubsub/awssnssqs"

	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
)

type (
	// Notifier publishes change notifications to interested subscribers
	Notifier interface {
		Notify(ctx context.Context, note api.ChangeNotification) error
	}

	// TopicNotifier publishes notifications to a gocloud pub/sub topic
	// (SNS in production, in-memory in tests), addressed by URL
	TopicNotifier struct {
		topic *pubsub.Topic
	}
)

var _ Notifier = (*TopicNotifier)(nil)

// NewTopicNotifier opens the topic at the given URL
func NewTopicNotifier(
	ctx context.Context, topicURL string,
) (*TopicNotifier, error) {
	topic, err := pubsub.OpenTopic(ctx, topicURL)
	if err != nil {
		return nil, err
	}
	return &TopicNotifier{topic: topic}, nil
}

// NewTopicNotifierFromTopic wraps an already-open topic
func NewTopicNotifierFromTopic(topic *pubsub.Topic) *TopicNotifier {
	return &TopicNotifier{topic: topic}
}

// Notify publishes the notification as a JSON message with a
// human-readable subject attribute
func (n *TopicNotifier) Notify(
	ctx context.Context, note api.ChangeNotification,
) error {
	body, err := json.Marshal(&note)
	if err != nil {
		return err
	}
	return n.topic.Send(ctx, &pubsub.Message{
		Body: body,
		Metadata: map[string]string{
			"subject": "API Schema Changes Detected: " + note.APIName,
		},
	})
}

// Close shuts the underlying topic down
func (n *TopicNotifier) Close(ctx context.Context) error {
	return n.topic.Shutdown(ctx)
}
