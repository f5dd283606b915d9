package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"community-board/pkg/config"
	"community-board/pkg/logger"
	"community-board/pkg/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.NewWithOptions(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "activity-worker"})
	if !cfg.RabbitMQEnabled() {
		log.Error("RABBITMQ_HOST is not set")
		os.Exit(1)
	}

	client, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v", err)
		panic(err)
	}
	defer client.Close()

	if err := client.ConsumeActivity(logActivity(log)); err != nil {
		log.Error("Failed to start consumer: %v", err)
		panic(err)
	}
	log.Info("Consuming %s from exchange %s", queue.ActivityQueueName, queue.ActivityExchange)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down activity worker...")
}

// logActivity writes one structured line per event. Unknown routing keys are dropped.
func logActivity(log *logger.Logger) queue.ActivityHandler {
	return func(routingKey string, event map[string]interface{}) error {
		switch routingKey {
		case queue.RoutingPostLiked, queue.RoutingCommentCreated:
		default:
			return fmt.Errorf("%w: %q", queue.ErrUnknownEvent, routingKey)
		}

		fields := make(map[string]interface{}, len(event)+1)
		for k, v := range event {
			fields[k] = v
		}
		fields["event"] = routingKey
		log.WithFields(fields).Info("activity received")
		return nil
	}
}
