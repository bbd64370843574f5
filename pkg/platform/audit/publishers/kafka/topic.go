package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// TopicSpec describes the audit topic created at startup.
type TopicSpec struct {
	Name              string
	Partitions        int32
	ReplicationFactor int16
}

// EnsureTopic creates the topic if it does not exist yet. An existing topic
// is left untouched, whatever its partition count.
func EnsureTopic(ctx context.Context, client *kgo.Client, topic TopicSpec) error {
	adm := kadm.NewClient(client)
	_, err := adm.CreateTopic(ctx, topic.Partitions, topic.ReplicationFactor, nil, topic.Name)
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic.Name, err)
	}
	return nil
}
