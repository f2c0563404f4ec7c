package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"booking-service/data"

	"github.com/go-redis/redis"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	cacheRoom = "rooms:%s"
	cacheTTL  = 300 * time.Second
)

// RoomCache keeps recently read room documents in Redis so repeated
// availability checks don't hit Mongo for the same room.
type RoomCache struct {
	cli    *redis.Client
	logger *logrus.Logger
	Tracer trace.Tracer
}

// Construct Redis client
func New(address string, logger *logrus.Logger, tracer trace.Tracer) *RoomCache {
	client := redis.NewClient(&redis.Options{
		Addr: address,
	})

	return &RoomCache{
		cli:    client,
		logger: logger,
		Tracer: tracer,
	}
}

func (rc *RoomCache) Ping() {
	val, _ := rc.cli.Ping().Result()
	rc.logger.Println(val)
}

func (rc *RoomCache) PostRoom(room *data.Room, ctx context.Context) error {
	ctx, span := rc.Tracer.Start(ctx, "RoomCache.PostRoom")
	defer span.End()

	key := constructRoomKey(room.ID.Hex())

	encoded, err := json.Marshal(room)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	err = rc.cli.Set(key, encoded, cacheTTL).Err()
	if err != nil {
		span.SetStatus(codes.Error, "Error setting room in Redis: "+err.Error())
		return err
	}
	return nil
}

func (rc *RoomCache) GetRoom(roomID string, ctx context.Context) (*data.Room, error) {
	ctx, span := rc.Tracer.Start(ctx, "RoomCache.GetRoom")
	defer span.End()

	key := constructRoomKey(roomID)
	encoded, err := rc.cli.Get(key).Bytes()
	if err != nil {
		return nil, err
	}

	var room data.Room
	if err := json.Unmarshal(encoded, &room); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	rc.logger.Debug("Room cache hit for ", roomID)
	return &room, nil
}

func (rc *RoomCache) RoomExists(roomID string, ctx context.Context) bool {
	ctx, span := rc.Tracer.Start(ctx, "RoomCache.RoomExists")
	defer span.End()

	cnt, err := rc.cli.Exists(constructRoomKey(roomID)).Result()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return false
	}
	return cnt == 1
}

// InvalidateRoom drops the cached document after a host edits the room.
func (rc *RoomCache) InvalidateRoom(roomID string, ctx context.Context) error {
	ctx, span := rc.Tracer.Start(ctx, "RoomCache.InvalidateRoom")
	defer span.End()

	return rc.cli.Del(constructRoomKey(roomID)).Err()
}

func constructRoomKey(roomID string) string {
	return fmt.Sprintf(cacheRoom, roomID)
}
