package database

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/kerberos-io/translator/src/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DB struct {
	Client *mongo.Client
}

var _init_ctx sync.Once
var _instance *DB
var _err error

// New returns the shared MongoDB client. When uri is empty the connection is
// built from the MONGODB_HOST, MONGODB_DATABASE_CREDENTIALS, MONGODB_USERNAME
// and MONGODB_PASSWORD environment variables.
func New(uri string) (*DB, error) {
	_init_ctx.Do(func() {
		clientOptions := options.Client()
		if uri != "" {
			clientOptions.ApplyURI(uri)
		} else {
			host := os.Getenv("MONGODB_HOST")
			credentialsDatabase := os.Getenv("MONGODB_DATABASE_CREDENTIALS")
			username := os.Getenv("MONGODB_USERNAME")
			password := os.Getenv("MONGODB_PASSWORD")
			clientOptions.SetHosts(strings.Split(host, ","))
			if username != "" {
				clientOptions.SetAuth(options.Credential{
					AuthSource: credentialsDatabase,
					Username:   username,
					Password:   password,
				})
			}
		}
		clientOptions.SetConnectTimeout(3 * time.Second)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := mongo.Connect(ctx, clientOptions)
		if err != nil {
			log.Log.Error("database.main.New(): " + err.Error())
			_err = err
			return
		}
		_instance = &DB{Client: client}
	})
	return _instance, _err
}
