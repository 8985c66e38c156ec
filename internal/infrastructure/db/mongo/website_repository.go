package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sitecraft/website-builder/internal/core/domain"
	"github.com/sitecraft/website-builder/internal/core/ports"
)

const (
	collectionWebsites = "websites"
	contentField       = "data"
)

// Server codes for update paths the document shape cannot take.
const (
	codePathNotViable              = 28
	codeConflictingUpdateOperators = 40
)

type WebsiteRepository struct {
	col *mongo.Collection
}

func NewWebsiteRepository(db *mongo.Database) *WebsiteRepository {
	return &WebsiteRepository{col: db.Collection(collectionWebsites)}
}

type websiteDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID   string             `bson:"owner_id"`
	Data      bson.M             `bson:"data"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *websiteDoc) toDomain() *domain.Website {
	return &domain.Website{
		ID:        d.ID.Hex(),
		OwnerID:   d.OwnerID,
		Content:   normalize(d.Data),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// Create inserts a website document.
func (r *WebsiteRepository) Create(ctx context.Context, w *domain.Website) (*domain.Website, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := websiteDoc{
		ID:        primitive.NewObjectID(),
		OwnerID:   w.OwnerID,
		Data:      bson.M(w.Content),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	if doc.Data == nil {
		doc.Data = bson.M{}
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert website: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *WebsiteRepository) FindByID(ctx context.Context, id string) (*domain.Website, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrWebsiteNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc websiteDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrWebsiteNotFound
		}
		return nil, fmt.Errorf("find website: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns websites newest first. A non-empty OwnerID restricts to that owner.
func (r *WebsiteRepository) List(ctx context.Context, f ports.ListWebsitesFilter) ([]*domain.Website, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, listFilter(f), options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list websites: %w", err)
	}
	var docs []websiteDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode websites: %w", err)
	}

	out := make([]*domain.Website, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// Patch applies a single $set so the merge is atomic per document.
func (r *WebsiteRepository) Patch(ctx context.Context, id string, fields map[string]any) error {
	return r.update(ctx, id, patchUpdate(fields, time.Now().UTC()))
}

func (r *WebsiteRepository) ReplaceContent(ctx context.Context, id string, content map[string]any) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{
		contentField: bson.M(content),
		"updated_at": time.Now().UTC(),
	}})
}

func (r *WebsiteRepository) update(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrWebsiteNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, oid, update)
	if err != nil {
		return classifyUpdateError(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrWebsiteNotFound
	}
	return nil
}

func (r *WebsiteRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrWebsiteNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete website: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrWebsiteNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the websites collection.
func (r *WebsiteRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// classifyUpdateError reports a $set the stored document cannot accept as a
// validation error. Anything else is a storage fault.
func classifyUpdateError(err error) error {
	var se mongo.ServerError
	if errors.As(err, &se) && (se.HasErrorCode(codePathNotViable) || se.HasErrorCode(codeConflictingUpdateOperators)) {
		return fmt.Errorf("%w: field path conflicts with the stored content", domain.ErrValidation)
	}
	return fmt.Errorf("update website: %w", err)
}

func listFilter(f ports.ListWebsitesFilter) bson.M {
	filter := bson.M{}
	if f.OwnerID != "" {
		filter["owner_id"] = f.OwnerID
	}
	return filter
}

// patchUpdate prefixes every dot path with the content field.
func patchUpdate(fields map[string]any, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	for path, v := range fields {
		set[contentField+"."+path] = v
	}
	return bson.M{"$set": set}
}

// normalize converts driver types (bson.M, bson.D, primitive.A) back into
// plain maps and slices so content round-trips through encoding/json unchanged.
func normalize(m bson.M) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		return normalize(t)
	case map[string]any:
		return normalize(bson.M(t))
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalizeValue(e.Value)
		}
		return out
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}
