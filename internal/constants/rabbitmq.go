package constants

// Обменник и ключи маршрутизации событий активности.
// Ключ - "activity.<тип события>", подписчики фильтруют по шаблону "activity.#".
const (
	ActivityExchange      = "activity_exchange"
	ActivityExchangeType  = "topic"
	ActivityRoutingPrefix = "activity."
	HeaderTraceID         = "x-trace-id"
	HeaderActivityType    = "x-activity-type"
)
