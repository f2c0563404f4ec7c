package repository

import (
	"context"
	"errors"

	"booking-service/cache"
	"booking-service/data"
	"booking-service/domain"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RoomRepo reads rooms from Mongo through the Redis cache. The rooms
// collection is owned by the hotel CRUD service; this repo only reads.
type RoomRepo struct {
	collection *mongo.Collection
	cache      *cache.RoomCache
	logger     *logrus.Logger
	Tracer     trace.Tracer
}

// NewRoomRepo constructs the room store. roomCache may be nil to bypass
// caching entirely.
func NewRoomRepo(collection *mongo.Collection, roomCache *cache.RoomCache, logger *logrus.Logger, tracer trace.Tracer) *RoomRepo {
	return &RoomRepo{
		collection: collection,
		cache:      roomCache,
		logger:     logger,
		Tracer:     tracer,
	}
}

func (r *RoomRepo) GetRoom(ctx context.Context, roomID string) (*data.Room, error) {
	ctx, span := r.Tracer.Start(ctx, "RoomRepository.GetRoom")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(roomID)
	if err != nil {
		return nil, domain.ErrNotFound("room not found")
	}

	if r.cache != nil {
		if room, err := r.cache.GetRoom(roomID, ctx); err == nil {
			return room, nil
		}
	}

	var room data.Room
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound("room not found")
		}
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error("Database exception: ", err)
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.PostRoom(&room, ctx); err != nil {
			r.logger.Warn("Could not cache room ", roomID, ": ", err)
		}
	}

	return &room, nil
}
