package rabbitmq

// NotificationsExchange обменник для писем пользователям.
const NotificationsExchange = "notifications"

// Очередь писем подтверждения e-mail.
const (
	ConfirmationQueue      = "notifications.confirmation"
	ConfirmationRoutingKey = "confirmation"
)

// QueueConfig описывает очередь и ключ маршрутизации, которым она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди, которые объявляют и отправитель, и потребитель.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: ConfirmationQueue, RoutingKey: ConfirmationRoutingKey},
	}
}
