package source

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
)

const mongoTimeout = 30 * time.Second

// Mongo reads a dataset stored as a single document holding "nodes" and
// "links" arrays. The document is selected by its "name" field; without a
// name the first document of the collection is used.
//
//	mongodb://localhost:27017/kgview?collection=graphs&name=physics
type Mongo struct {
	Database   string
	Collection string
	Name       string

	uri    string // connection string without kgview parameters
	logger *log.Logger
}

func newMongo(location string, opts Options) (*Mongo, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, kgerrors.Wrap(kgerrors.ErrCodeInvalidURI, err, "parse mongodb uri")
	}

	q := u.Query()
	m := &Mongo{
		Database:   strings.TrimPrefix(u.Path, "/"),
		Collection: q.Get("collection"),
		Name:       q.Get("name"),
		logger:     opts.Logger,
	}
	q.Del("collection")
	q.Del("name")
	u.RawQuery = q.Encode()
	m.uri = u.String()

	if m.Database == "" {
		m.Database = opts.MongoDatabase
	}
	if m.Collection == "" {
		m.Collection = opts.MongoCollection
	}
	if m.Database == "" || m.Collection == "" {
		return nil, kgerrors.New(kgerrors.ErrCodeInvalidURI, "mongodb uri needs a database and a collection")
	}
	return m, nil
}

// Fetch connects, reads one document and converts it to relaxed Extended
// JSON. The document _id is dropped.
func (m *Mongo) Fetch(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.uri))
	if err != nil {
		return nil, kgerrors.Wrap(kgerrors.ErrCodeTransport, err, "connect to mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			m.logger.Warn("disconnect mongodb", "err", err)
		}
	}()

	filter := bson.D{}
	if m.Name != "" {
		filter = bson.D{{Key: "name", Value: m.Name}}
	}

	var doc bson.D
	err = client.Database(m.Database).Collection(m.Collection).FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, kgerrors.New(kgerrors.ErrCodeTransport, "no dataset %q in %s.%s", m.Name, m.Database, m.Collection)
	}
	if err != nil {
		return nil, kgerrors.Wrap(kgerrors.ErrCodeTransport, err, "find dataset")
	}

	data, err := bson.MarshalExtJSON(withoutID(doc), false, false)
	if err != nil {
		return nil, kgerrors.Wrap(kgerrors.ErrCodeMalformedPayload, err, "convert dataset document")
	}
	m.logger.Debug("dataset read from mongodb", "collection", m.Collection, "name", m.Name, "bytes", len(data))
	return data, nil
}

func withoutID(doc bson.D) bson.D {
	out := make(bson.D, 0, len(doc))
	for _, e := range doc {
		if e.Key != "_id" {
			out = append(out, e)
		}
	}
	return out
}

func (m *Mongo) String() string {
	if m.Name == "" {
		return "mongodb:" + m.Database + "." + m.Collection
	}
	return "mongodb:" + m.Database + "." + m.Collection + "/" + m.Name
}
