package utils

import (
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/event"
)

type MongoMetrics struct {
	ActiveConnections  int64
	CreatedConnections int64
	ClosedConnections  int64
	LastCheckTime      time.Time
}

var (
	activeConnections  atomic.Int64
	createdConnections atomic.Int64
	closedConnections  atomic.Int64
)

// PoolMonitor tracks connection pool events.
func PoolMonitor() *event.PoolMonitor {
	return &event.PoolMonitor{
		Event: HandlePoolEvent,
	}
}

func HandlePoolEvent(evt *event.PoolEvent) {
	switch evt.Type {
	case event.ConnectionCreated:
		createdConnections.Add(1)
	case event.ConnectionClosed:
		closedConnections.Add(1)
	case event.GetSucceeded:
		MongoConnectionsInUse.Set(float64(activeConnections.Add(1)))
	case event.ConnectionReturned:
		MongoConnectionsInUse.Set(float64(activeConnections.Add(-1)))
	}
}

func GetMongoMetrics() MongoMetrics {
	return MongoMetrics{
		ActiveConnections:  activeConnections.Load(),
		CreatedConnections: createdConnections.Load(),
		ClosedConnections:  closedConnections.Load(),
		LastCheckTime:      time.Now(),
	}
}
