package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studycards/api/models"
)

// ConnectTimeout bounds the single connection attempt made at startup.
// If Mongo does not answer within it the process falls back to the
// in-memory store.
const ConnectTimeout = 5 * time.Second

const (
	foldersCollection = "folders"
	decksCollection   = "decks"
	cardsCollection   = "cards"
)

// MongoStore is the persistent implementation of Store. Collections are
// created implicitly on first insert; indexes are created opportunistically
// by EnsureIndexes and are only needed for search performance, not
// correctness.
type MongoStore struct {
	client  *mongo.Client
	folders *mongo.Collection
	decks   *mongo.Collection
	cards   *mongo.Collection
	log     zerolog.Logger
}

// ConnectMongo dials Mongo and verifies the connection with a ping, both
// bounded by ConnectTimeout.
func ConnectMongo(ctx context.Context, uri, dbName string, log zerolog.Logger) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(ConnectTimeout).
		SetConnectTimeout(ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(dbName)
	return &MongoStore{
		client:  client,
		folders: db.Collection(foldersCollection),
		decks:   db.Collection(decksCollection),
		cards:   db.Collection(cardsCollection),
		log:     log,
	}, nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the folder_id/deck_id indexes and the text indexes
// used by search. Failures are logged and swallowed: search degrades to the
// regex fallback and every other operation is unaffected.
func (s *MongoStore) EnsureIndexes(ctx context.Context) {
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{s.decks, mongo.IndexModel{Keys: bson.D{{Key: "folder_id", Value: 1}}}},
		{s.cards, mongo.IndexModel{Keys: bson.D{{Key: "deck_id", Value: 1}}}},
		{s.decks, mongo.IndexModel{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}}}},
		{s.cards, mongo.IndexModel{Keys: bson.D{{Key: "front", Value: "text"}, {Key: "back", Value: "text"}}}},
	}
	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateOne(ctx, idx.model); err != nil {
			s.log.Warn().Err(err).Str("collection", idx.coll.Name()).Msg("could not create index")
		}
	}
}

// SeedIfEmpty loads the example dataset when the folders collection holds
// no documents yet.
func (s *MongoStore) SeedIfEmpty(ctx context.Context) error {
	n, err := s.folders.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count folders: %w", err)
	}
	if n > 0 {
		return nil
	}
	return Seed(ctx, s)
}

// Document shapes. Model IDs are ObjectID hex strings; references are
// stored as ObjectIDs so the folder_id/deck_id indexes apply.

type folderDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	CreatedAt time.Time          `bson:"created_at"`
}

type deckDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	FolderID    primitive.ObjectID `bson:"folder_id"`
	Color       string             `bson:"color"`
	CreatedAt   time.Time          `bson:"created_at"`
	CardCount   int64              `bson:"card_count"`
}

type cardDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	DeckID      primitive.ObjectID `bson:"deck_id"`
	Front       string             `bson:"front"`
	Back        string             `bson:"back"`
	CreatedAt   time.Time          `bson:"created_at"`
	LastStudied *time.Time         `bson:"last_studied"`
	Difficulty  int                `bson:"difficulty"`
}

func (d folderDoc) toModel() models.Folder {
	return models.Folder{ID: d.ID.Hex(), Name: d.Name, CreatedAt: d.CreatedAt}
}

func (d deckDoc) toModel() models.Deck {
	return models.Deck{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		FolderID:    d.FolderID.Hex(),
		Color:       d.Color,
		CreatedAt:   d.CreatedAt,
		CardCount:   int(d.CardCount),
	}
}

func (d cardDoc) toModel() models.Card {
	return models.Card{
		ID:          d.ID.Hex(),
		DeckID:      d.DeckID.Hex(),
		Front:       d.Front,
		Back:        d.Back,
		CreatedAt:   d.CreatedAt,
		LastStudied: d.LastStudied,
		Difficulty:  d.Difficulty,
	}
}

// parseID maps malformed ids to ErrNotFound: an id that cannot be an
// ObjectID cannot match any document.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

// listOrder keeps list and search results deterministic for a fixed dataset.
var listOrder = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

func createdAt(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

// Folders

func (s *MongoStore) ListFolders(ctx context.Context) ([]models.Folder, error) {
	return s.findFolders(ctx, bson.M{})
}

func (s *MongoStore) findFolders(ctx context.Context, filter interface{}) ([]models.Folder, error) {
	cur, err := s.folders.Find(ctx, filter, options.Find().SetSort(listOrder))
	if err != nil {
		return nil, err
	}
	var docs []folderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Folder, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (s *MongoStore) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc folderDoc
	if err := s.folders.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	folder := doc.toModel()
	return &folder, nil
}

func (s *MongoStore) InsertFolder(ctx context.Context, folder models.Folder) (*models.Folder, error) {
	doc := folderDoc{
		ID:        primitive.NewObjectID(),
		Name:      folder.Name,
		CreatedAt: createdAt(folder.CreatedAt),
	}
	if _, err := s.folders.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	inserted := doc.toModel()
	return &inserted, nil
}

func (s *MongoStore) DeleteFolder(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, nil
	}
	res, err := s.folders.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// Decks

func (s *MongoStore) ListDecks(ctx context.Context, folderID string) ([]models.Deck, error) {
	filter := bson.M{}
	if folderID != "" {
		oid, err := parseID(folderID)
		if err != nil {
			return []models.Deck{}, nil
		}
		filter["folder_id"] = oid
	}
	return s.findDecks(ctx, filter)
}

func (s *MongoStore) findDecks(ctx context.Context, filter interface{}) ([]models.Deck, error) {
	cur, err := s.decks.Find(ctx, filter, options.Find().SetSort(listOrder))
	if err != nil {
		return nil, err
	}
	var docs []deckDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Deck, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (s *MongoStore) GetDeck(ctx context.Context, id string) (*models.Deck, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc deckDoc
	if err := s.decks.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	deck := doc.toModel()
	return &deck, nil
}

func (s *MongoStore) InsertDeck(ctx context.Context, deck models.Deck) (*models.Deck, error) {
	folderID, err := parseID(deck.FolderID)
	if err != nil {
		return nil, err
	}
	doc := deckDoc{
		ID:          primitive.NewObjectID(),
		Name:        deck.Name,
		Description: deck.Description,
		FolderID:    folderID,
		Color:       deck.Color,
		CreatedAt:   createdAt(deck.CreatedAt),
		CardCount:   int64(deck.CardCount),
	}
	if _, err := s.decks.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	inserted := doc.toModel()
	return &inserted, nil
}

func (s *MongoStore) UpdateDeck(ctx context.Context, id string, update DeckUpdate) (*models.Deck, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Color != nil {
		set["color"] = *update.Color
	}
	if len(set) == 0 {
		return s.GetDeck(ctx, id)
	}

	var doc deckDoc
	err = s.decks.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	deck := doc.toModel()
	return &deck, nil
}

func (s *MongoStore) DeleteDeck(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, nil
	}
	res, err := s.decks.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (s *MongoStore) CountDecksInFolder(ctx context.Context, folderID string) (int64, error) {
	oid, err := parseID(folderID)
	if err != nil {
		return 0, nil
	}
	return s.decks.CountDocuments(ctx, bson.M{"folder_id": oid})
}

func (s *MongoStore) SetDeckCardCount(ctx context.Context, id string, count int64) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.decks.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"card_count": count}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Cards

func (s *MongoStore) ListCards(ctx context.Context, deckID string) ([]models.Card, error) {
	filter := bson.M{}
	if deckID != "" {
		oid, err := parseID(deckID)
		if err != nil {
			return []models.Card{}, nil
		}
		filter["deck_id"] = oid
	}
	return s.findCards(ctx, filter)
}

func (s *MongoStore) findCards(ctx context.Context, filter interface{}) ([]models.Card, error) {
	cur, err := s.cards.Find(ctx, filter, options.Find().SetSort(listOrder))
	if err != nil {
		return nil, err
	}
	var docs []cardDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Card, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (s *MongoStore) GetCard(ctx context.Context, id string) (*models.Card, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc cardDoc
	if err := s.cards.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	card := doc.toModel()
	return &card, nil
}

func (s *MongoStore) InsertCard(ctx context.Context, card models.Card) (*models.Card, error) {
	deckID, err := parseID(card.DeckID)
	if err != nil {
		return nil, err
	}
	doc := cardDoc{
		ID:          primitive.NewObjectID(),
		DeckID:      deckID,
		Front:       card.Front,
		Back:        card.Back,
		CreatedAt:   createdAt(card.CreatedAt),
		LastStudied: card.LastStudied,
		Difficulty:  card.Difficulty,
	}
	if _, err := s.cards.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	inserted := doc.toModel()
	return &inserted, nil
}

func (s *MongoStore) UpdateCard(ctx context.Context, id string, update CardUpdate) (*models.Card, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if update.Front != nil {
		set["front"] = *update.Front
	}
	if update.Back != nil {
		set["back"] = *update.Back
	}
	if update.Difficulty != nil {
		set["difficulty"] = *update.Difficulty
	}
	if update.LastStudied != nil {
		set["last_studied"] = *update.LastStudied
	}
	if len(set) == 0 {
		return s.GetCard(ctx, id)
	}

	var doc cardDoc
	err = s.cards.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	card := doc.toModel()
	return &card, nil
}

func (s *MongoStore) DeleteCard(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, nil
	}
	res, err := s.cards.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (s *MongoStore) DeleteCardsInDeck(ctx context.Context, deckID string) error {
	oid, err := parseID(deckID)
	if err != nil {
		return nil
	}
	_, err = s.cards.DeleteMany(ctx, bson.M{"deck_id": oid})
	return err
}

func (s *MongoStore) CountCardsInDeck(ctx context.Context, deckID string) (int64, error) {
	oid, err := parseID(deckID)
	if err != nil {
		return 0, nil
	}
	return s.cards.CountDocuments(ctx, bson.M{"deck_id": oid})
}

// Search

func (s *MongoStore) SearchDecks(ctx context.Context, query string) ([]models.Deck, error) {
	decks, err := s.findDecks(ctx, textFilter(query))
	if err == nil {
		return decks, nil
	}
	if !isTextIndexMissing(err) {
		return nil, err
	}
	re := caseInsensitive(query)
	return s.findDecks(ctx, bson.M{"$or": []bson.M{{"name": re}, {"description": re}}})
}

func (s *MongoStore) SearchCards(ctx context.Context, query string) ([]models.Card, error) {
	cards, err := s.findCards(ctx, textFilter(query))
	if err == nil {
		return cards, nil
	}
	if !isTextIndexMissing(err) {
		return nil, err
	}
	re := caseInsensitive(query)
	return s.findCards(ctx, bson.M{"$or": []bson.M{{"front": re}, {"back": re}}})
}

func textFilter(query string) bson.M {
	return bson.M{"$text": bson.M{"$search": query}}
}

func caseInsensitive(query string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
}

// isTextIndexMissing reports whether err means the collection has no text
// index. Only that condition triggers the regex fallback; every other
// search failure propagates to the caller.
func isTextIndexMissing(err error) bool {
	var cmdErr mongo.CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	// 27 = IndexNotFound
	if cmdErr.Code == 27 {
		return true
	}
	return strings.Contains(strings.ToLower(cmdErr.Message), "text index required")
}

var _ Store = (*MongoStore)(nil)
