package rabbitmq

// Exchange — общий exchange событий маркетплейса.
const Exchange = "marketplace"

// Ключи маршрутизации публикуемых событий.
const (
	RoutingKeyOrderConfirmed = "order.confirmed"
	RoutingKeyMessageSent    = "message.sent"
)

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetMarketplaceQueues возвращает очереди событий, которые объявляет сервис.
func GetMarketplaceQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "orders", RoutingKey: RoutingKeyOrderConfirmed},
		{QueueName: "notifications", RoutingKey: RoutingKeyMessageSent},
	}
}
