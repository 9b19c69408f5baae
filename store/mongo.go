/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package store

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nethesis/memorial-api/logs"
	"github.com/nethesis/memorial-api/models"
)

// Mongo bundles the document-store collections. Uniqueness of volunteer
// email and phone is enforced here by unique indexes, not by the handlers,
// so concurrent duplicate registrations cannot both succeed.
type Mongo struct {
	client     *mongo.Client
	Volunteers *MongoVolunteers
	News       *MongoNews
	Audits     *MongoAudits
}

// NewMongo connects to the document store, pings it and creates the
// volunteer uniqueness indexes.
func NewMongo(ctx context.Context, uri string, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logs.Log("[CRITICAL][STORE] failed to connect to mongodb: " + err.Error())
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		logs.Log("[CRITICAL][STORE] failed to ping mongodb: " + err.Error())
		return nil, err
	}

	db := client.Database(database)
	m := &Mongo{
		client:     client,
		Volunteers: &MongoVolunteers{collection: db.Collection("volunteers")},
		News:       &MongoNews{collection: db.Collection("news")},
		Audits:     &MongoAudits{collection: db.Collection("audit_logs")},
	}

	if err := m.ensureIndexes(ctx); err != nil {
		logs.Log("[CRITICAL][STORE] failed to create indexes: " + err.Error())
		return nil, err
	}

	return m, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) ensureIndexes(ctx context.Context) error {
	_, err := m.Volunteers.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}

type MongoVolunteers struct {
	collection *mongo.Collection
}

func (s *MongoVolunteers) Insert(ctx context.Context, volunteer *models.Volunteer) error {
	if volunteer.ID.IsZero() {
		volunteer.ID = primitive.NewObjectID()
	}

	_, err := s.collection.InsertOne(ctx, volunteer)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (s *MongoVolunteers) List(ctx context.Context, filter VolunteerFilter) ([]models.Volunteer, int64, error) {
	query := bson.M{}
	if filter.Search != "" {
		search := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query = bson.M{"$or": bson.A{
			bson.M{"name": search},
			bson.M{"email": search},
			bson.M{"phone": search},
		}}
	}

	// total counts every match, not just the returned page
	total, err := s.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "registered_at", Value: -1}}).
		SetSkip(filter.Skip).
		SetLimit(filter.Limit)

	cursor, err := s.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	volunteers := []models.Volunteer{}
	if err := cursor.All(ctx, &volunteers); err != nil {
		return nil, 0, err
	}

	return volunteers, total, nil
}

func (s *MongoVolunteers) All(ctx context.Context) ([]models.Volunteer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "registered_at", Value: -1}})

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	volunteers := []models.Volunteer{}
	if err := cursor.All(ctx, &volunteers); err != nil {
		return nil, err
	}

	return volunteers, nil
}

func (s *MongoVolunteers) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// a malformed id cannot match any document
		return ErrNotFound
	}

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *MongoVolunteers) Count(ctx context.Context) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{})
}

func (s *MongoVolunteers) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{"registered_at": bson.M{"$gte": since}})
}

type MongoNews struct {
	collection *mongo.Collection
}

func (s *MongoNews) Insert(ctx context.Context, item *models.News) error {
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}

	_, err := s.collection.InsertOne(ctx, item)
	return err
}

func (s *MongoNews) All(ctx context.Context) ([]models.News, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []models.News{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}

	return items, nil
}

func (s *MongoNews) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

type MongoAudits struct {
	collection *mongo.Collection
}

func (s *MongoAudits) Append(ctx context.Context, entry *models.Audit) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}

	_, err := s.collection.InsertOne(ctx, entry)
	return err
}
