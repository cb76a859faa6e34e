// Package topics holds Kafka topic names shared between producers and any
// downstream consumers.
package topics

const (
	WagerPlaced  = "wager_placed"
	WagerSettled = "wager_settled"
)
