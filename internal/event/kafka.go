package event

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaAnnouncer пишет события тикетов в топик Kafka. Альтернатива Redis для
// инсталляций с брокером; выбирается в composition root, не внутри ядра.
type KafkaAnnouncer struct {
	writer *kafka.Writer
}

// NewKafkaAnnouncer создаёт продюсер для списка брокеров и топика.
func NewKafkaAnnouncer(brokers []string, topic string) *KafkaAnnouncer {
	return &KafkaAnnouncer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (a *KafkaAnnouncer) Announce(ctx context.Context, e Event) {
	body, err := json.Marshal(e)
	if err != nil {
		log.Printf("event: marshal %s: %v", e.Name, err)
		return
	}
	if err := a.writer.WriteMessages(ctx, kafka.Message{Value: body}); err != nil {
		log.Printf("event: write %s: %v", e.Name, err)
	}
}

// Close закрывает writer.
func (a *KafkaAnnouncer) Close() error {
	return a.writer.Close()
}

// ParseBrokers разбивает строку брокеров "host1:9092,host2:9092" на слайс.
func ParseBrokers(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
