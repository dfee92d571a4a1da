package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	_ "modernc.org/sqlite"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
)

// SQLite reads a dataset from two tables:
//
//	CREATE TABLE nodes (id TEXT NOT NULL, grp TEXT);
//	CREATE TABLE links (source TEXT NOT NULL, target TEXT NOT NULL, label TEXT);
//
// Rows are emitted in rowid order.
type SQLite struct {
	Path string
}

func newSQLite(location string) (*SQLite, error) {
	path := strings.TrimPrefix(location, SchemeSQLite+"://")
	if path == "" {
		return nil, kgerrors.New(kgerrors.ErrCodeInvalidURI, "sqlite uri needs a database path")
	}
	return &SQLite{Path: path}, nil
}

type sqliteNode struct {
	ID    string `json:"id"`
	Group string `json:"group,omitempty"`
}

type sqliteLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

// Fetch opens the database read-only and serializes both tables.
func (s *SQLite) Fetch(ctx context.Context) ([]byte, error) {
	db, err := sql.Open("sqlite", "file:"+s.Path+"?mode=ro")
	if err != nil {
		return nil, kgerrors.Wrap(kgerrors.ErrCodeTransport, err, "open %s", s.Path)
	}
	defer db.Close()

	nodes := []sqliteNode{}
	rows, err := db.QueryContext(ctx, `SELECT id, COALESCE(grp, '') FROM nodes ORDER BY rowid`)
	if err != nil {
		return nil, queryError(err, "nodes")
	}
	for rows.Next() {
		var n sqliteNode
		if err := rows.Scan(&n.ID, &n.Group); err != nil {
			rows.Close()
			return nil, kgerrors.Wrap(kgerrors.ErrCodeMalformedPayload, err, "scan node")
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, kgerrors.Wrap(kgerrors.ErrCodeTransport, err, "read nodes")
	}
	rows.Close()

	links := []sqliteLink{}
	rows, err = db.QueryContext(ctx, `SELECT source, target, COALESCE(label, '') FROM links ORDER BY rowid`)
	if err != nil {
		return nil, queryError(err, "links")
	}
	defer rows.Close()
	for rows.Next() {
		var l sqliteLink
		if err := rows.Scan(&l.Source, &l.Target, &l.Label); err != nil {
			return nil, kgerrors.Wrap(kgerrors.ErrCodeMalformedPayload, err, "scan link")
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, kgerrors.Wrap(kgerrors.ErrCodeTransport, err, "read links")
	}

	return json.Marshal(struct {
		Nodes []sqliteNode `json:"nodes"`
		Links []sqliteLink `json:"links"`
	}{nodes, links})
}

// queryError reports a missing table as a malformed dataset and anything
// else as a transport failure.
func queryError(err error, table string) error {
	if strings.Contains(err.Error(), "no such table") {
		return kgerrors.Wrap(kgerrors.ErrCodeMalformedPayload, err, "dataset is missing the %q table", table)
	}
	return kgerrors.Wrap(kgerrors.ErrCodeTransport, err, "query %s", table)
}

func (s *SQLite) String() string { return SchemeSQLite + "://" + s.Path }
