// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/eventhub/internal/app/system/notify"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Notifier sends registration confirmations. Created in ConnectDB,
	// started in Startup, drained in Shutdown.
	Notifier *notify.Dispatcher
}
