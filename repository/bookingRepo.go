package repository

import (
	"context"
	"errors"
	"time"

	"booking-service/data"
	"booking-service/domain"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type BookingRepo struct {
	collection *mongo.Collection
	logger     *logrus.Logger
	Tracer     trace.Tracer
}

func NewBookingRepo(collection *mongo.Collection, logger *logrus.Logger, tracer trace.Tracer) *BookingRepo {
	return &BookingRepo{
		collection: collection,
		logger:     logger,
		Tracer:     tracer,
	}
}

// FindOverlapping returns bookings on the room whose [check_in, check_out)
// interval intersects [checkIn, checkOut) under the half-open rule:
// stored.check_in < checkOut AND stored.check_out > checkIn.
func (r *BookingRepo) FindOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time, statuses []data.BookingStatus) (data.Bookings, error) {
	ctx, span := r.Tracer.Start(ctx, "BookingRepository.FindOverlapping")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(roomID)
	if err != nil {
		return nil, domain.ErrNotFound("room not found")
	}

	filter := bson.M{
		"room_id":        objectID,
		"status":         bson.M{"$in": statuses},
		"check_in_date":  bson.M{"$lt": checkOut},
		"check_out_date": bson.M{"$gt": checkIn},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error("Database exception: ", err)
		return nil, err
	}

	var bookings data.Bookings
	if err = cursor.All(ctx, &bookings); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return bookings, nil
}

// FindByReference returns (nil, nil) when no booking carries the reference;
// the admission service uses that as the uniqueness probe.
func (r *BookingRepo) FindByReference(ctx context.Context, reference string) (*data.Booking, error) {
	ctx, span := r.Tracer.Start(ctx, "BookingRepository.FindByReference")
	defer span.End()

	var booking data.Booking
	err := r.collection.FindOne(ctx, bson.M{"booking_reference": reference}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepo) FindByID(ctx context.Context, bookingID string) (*data.Booking, error) {
	ctx, span := r.Tracer.Start(ctx, "BookingRepository.FindByID")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return nil, domain.ErrNotFound("booking not found")
	}

	var booking data.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound("booking not found")
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepo) FindByUser(ctx context.Context, userID string) (data.Bookings, error) {
	ctx, span := r.Tracer.Start(ctx, "BookingRepository.FindByUser")
	defer span.End()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var bookings data.Bookings
	if err = cursor.All(ctx, &bookings); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepo) Insert(ctx context.Context, booking *data.Booking) (*data.Booking, error) {
	ctx, span := r.Tracer.Start(ctx, "BookingRepository.Insert")
	defer span.End()

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error("Database exception: ", err)
		return nil, err
	}

	if insertedID, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = insertedID
	}
	return booking, nil
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, bookingID string, fields map[string]interface{}) error {
	ctx, span := r.Tracer.Start(ctx, "BookingRepository.UpdateStatus")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return domain.ErrNotFound("booking not found")
	}

	update := bson.M{}
	for key, value := range fields {
		update[key] = value
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": update})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error("Database exception: ", err)
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound("booking not found")
	}
	return nil
}
