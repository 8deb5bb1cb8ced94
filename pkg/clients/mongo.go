package clients

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoClient struct {
	Client *mongo.Client
	cfg    *cfg.MongoCfg
}

func NewMongoClient(ctx context.Context, cfg *cfg.MongoCfg) (*MongoClient, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &MongoClient{
		Client: client,
		cfg:    cfg,
	}, nil
}

// Database возвращает базу данных приложения из конфигурации.
func (m *MongoClient) Database() *mongo.Database {
	return m.Client.Database(m.cfg.Database)
}

func (m *MongoClient) Close(ctx context.Context) error {
	if err := m.Client.Disconnect(ctx); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
