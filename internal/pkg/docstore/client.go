package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/Shamsear/ssleague/internal/pkg/cache"
)

// Key formats
const (
	DocKeyFormat       = "doc:%s:%s"      // doc:<collection>:<id>
	NameIndexKeyFormat = "idx:%s:name:%s" // idx:<collection>:name:<lower name>
	EmailIndexFormat   = "idx:users:email:%s"
	IDSetKeyFormat     = "ids:%s" // ids:<collection>
)

// Store limits
const (
	// MaxValuesPerQuery is the cardinality limit for multi-value
	// lookups. Callers asking for more names get chunked queries.
	MaxValuesPerQuery = 30

	// MaxBatchDocs is the per-batch write limit of the store.
	MaxBatchDocs = 500
)

// Client provides document operations on top of the shared Redis
// connection. Documents are JSON blobs; teams and players additionally
// maintain a lower-cased name index and a per-collection ID set.
type Client struct {
	rdb *redis.Client
}

// New creates a docstore client on an explicit Redis connection
func New(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// NewDefault creates a docstore client on the shared cache connection
func NewDefault() *Client {
	return &Client{rdb: cache.GetClient()}
}

// NormalizeKey lower-cases and trims a name for index lookups
func NormalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func docKey(collection, id string) string {
	return fmt.Sprintf(DocKeyFormat, collection, id)
}

func nameIndexKey(collection, name string) string {
	return fmt.Sprintf(NameIndexKeyFormat, collection, NormalizeKey(name))
}

func idSetKey(collection string) string {
	return fmt.Sprintf(IDSetKeyFormat, collection)
}

func (c *Client) getDoc(ctx context.Context, collection, id string, out interface{}) (bool, error) {
	raw, err := c.rdb.Get(ctx, docKey(collection, id)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("docstore: get %s/%s: %w", collection, id, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("docstore: decode %s/%s: %w", collection, id, err)
	}
	return true, nil
}

// GetSeason retrieves a season document by its code, nil when absent
func (c *Client) GetSeason(ctx context.Context, id string) (*SeasonDoc, error) {
	var doc SeasonDoc
	found, err := c.getDoc(ctx, CollectionSeasons, id, &doc)
	if err != nil || !found {
		return nil, err
	}
	return &doc, nil
}

// GetTeam retrieves a team document by ID, nil when absent
func (c *Client) GetTeam(ctx context.Context, id string) (*TeamDoc, error) {
	var doc TeamDoc
	found, err := c.getDoc(ctx, CollectionTeams, id, &doc)
	if err != nil || !found {
		return nil, err
	}
	return &doc, nil
}

// GetPlayer retrieves a player document by ID, nil when absent
func (c *Client) GetPlayer(ctx context.Context, id string) (*PlayerDoc, error) {
	var doc PlayerDoc
	found, err := c.getDoc(ctx, CollectionPlayers, id, &doc)
	if err != nil || !found {
		return nil, err
	}
	return &doc, nil
}

// GetUserByEmail resolves the email index and loads the user document,
// nil when no identity exists for the address.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*UserDoc, error) {
	uid, err := c.rdb.Get(ctx, fmt.Sprintf(EmailIndexFormat, NormalizeKey(email))).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("docstore: email index %s: %w", email, err)
	}
	var doc UserDoc
	found, err := c.getDoc(ctx, CollectionUsers, uid, &doc)
	if err != nil || !found {
		return nil, err
	}
	return &doc, nil
}

// chunkValues splits a value list so each query stays within the
// store's cardinality limit.
func chunkValues(values []string, size int) [][]string {
	if size <= 0 {
		size = MaxValuesPerQuery
	}
	var chunks [][]string
	for len(values) > size {
		chunks = append(chunks, values[:size])
		values = values[size:]
	}
	if len(values) > 0 {
		chunks = append(chunks, values)
	}
	return chunks
}

// resolveNameIndex maps names to document IDs via the name index.
// Names with no index entry are simply absent from the result.
func (c *Client) resolveNameIndex(ctx context.Context, collection string, names []string) ([]string, error) {
	var ids []string
	for _, chunk := range chunkValues(names, MaxValuesPerQuery) {
		keys := make([]string, len(chunk))
		for i, n := range chunk {
			keys[i] = nameIndexKey(collection, n)
		}
		vals, err := c.rdb.MGet(ctx, keys...).Result()
		if err != nil {
			return nil, fmt.Errorf("docstore: name lookup in %s: %w", collection, err)
		}
		for _, v := range vals {
			if s, ok := v.(string); ok && s != "" {
				ids = append(ids, s)
			}
		}
	}
	return ids, nil
}

func (c *Client) mgetDocs(ctx context.Context, collection string, ids []string, decode func(raw string) error) error {
	for _, chunk := range chunkValues(ids, MaxBatchDocs) {
		keys := make([]string, len(chunk))
		for i, id := range chunk {
			keys[i] = docKey(collection, id)
		}
		vals, err := c.rdb.MGet(ctx, keys...).Result()
		if err != nil {
			return fmt.Errorf("docstore: multi-get %s: %w", collection, err)
		}
		for _, v := range vals {
			s, ok := v.(string)
			if !ok || s == "" {
				continue
			}
			if err := decode(s); err != nil {
				return fmt.Errorf("docstore: decode %s: %w", collection, err)
			}
		}
	}
	return nil
}

// FindTeamsByName looks up team documents for the given display names.
// The result is keyed by lower-cased name; names without a matching
// team are absent.
func (c *Client) FindTeamsByName(ctx context.Context, names []string) (map[string]*TeamDoc, error) {
	ids, err := c.resolveNameIndex(ctx, CollectionTeams, names)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*TeamDoc, len(ids))
	err = c.mgetDocs(ctx, CollectionTeams, ids, func(raw string) error {
		var doc TeamDoc
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return err
		}
		out[NormalizeKey(doc.TeamName)] = &doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindPlayersByName looks up player documents for the given names,
// keyed by lower-cased name.
func (c *Client) FindPlayersByName(ctx context.Context, names []string) (map[string]*PlayerDoc, error) {
	ids, err := c.resolveNameIndex(ctx, CollectionPlayers, names)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*PlayerDoc, len(ids))
	err = c.mgetDocs(ctx, CollectionPlayers, ids, func(raw string) error {
		var doc PlayerDoc
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return err
		}
		out[NormalizeKey(doc.Name)] = &doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetTeamsByID loads team documents for explicit IDs, keyed by ID.
// Unknown IDs are absent from the result.
func (c *Client) GetTeamsByID(ctx context.Context, ids []string) (map[string]*TeamDoc, error) {
	out := make(map[string]*TeamDoc, len(ids))
	err := c.mgetDocs(ctx, CollectionTeams, ids, func(raw string) error {
		var doc TeamDoc
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return err
		}
		out[doc.ID] = &doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListTeamIDs returns the ID-only projection of the teams collection
func (c *Client) ListTeamIDs(ctx context.Context) ([]string, error) {
	ids, err := c.rdb.SMembers(ctx, idSetKey(CollectionTeams)).Result()
	if err != nil {
		return nil, fmt.Errorf("docstore: list team ids: %w", err)
	}
	return ids, nil
}

// ListPlayerIDs returns the ID-only projection of the players collection
func (c *Client) ListPlayerIDs(ctx context.Context) ([]string, error) {
	ids, err := c.rdb.SMembers(ctx, idSetKey(CollectionPlayers)).Result()
	if err != nil {
		return nil, fmt.Errorf("docstore: list player ids: %w", err)
	}
	return ids, nil
}

// AllTeams scans the whole teams collection in one pass
func (c *Client) AllTeams(ctx context.Context) ([]*TeamDoc, error) {
	ids, err := c.ListTeamIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*TeamDoc, 0, len(ids))
	err = c.mgetDocs(ctx, CollectionTeams, ids, func(raw string) error {
		var doc TeamDoc
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return err
		}
		out = append(out, &doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AllPlayers scans the whole players collection in one pass
func (c *Client) AllPlayers(ctx context.Context) ([]*PlayerDoc, error) {
	ids, err := c.ListPlayerIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*PlayerDoc, 0, len(ids))
	err = c.mgetDocs(ctx, CollectionPlayers, ids, func(raw string) error {
		var doc PlayerDoc
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return err
		}
		out = append(out, &doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
