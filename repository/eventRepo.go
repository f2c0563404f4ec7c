package repository

import (
	"context"
	"fmt"

	"booking-service/data"

	"github.com/gocql/gocql"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// EventRepo appends booking lifecycle events to Cassandra for the analytics
// collaborator. The event store is write-only from this service.
type EventRepo struct {
	session *gocql.Session
	logger  *logrus.Logger
	Tracer  trace.Tracer
}

// NewEventRepo reads db configuration, creates the keyspace if it does not
// exist yet and connects a session to it.
func NewEventRepo(db string, logger *logrus.Logger, tracer trace.Tracer) (*EventRepo, error) {
	cluster := gocql.NewCluster(db)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		logger.Error(err)
		return nil, err
	}

	err = session.Query(
		fmt.Sprintf(`CREATE KEYSPACE IF NOT EXISTS %s
					WITH replication = {
						'class' : 'SimpleStrategy',
						'replication_factor' : %d
					}`, "booking", 1)).Exec()
	if err != nil {
		logger.Error(err)
	}
	session.Close()

	cluster.Keyspace = "booking"
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		logger.Error(err)
		return nil, err
	}

	return &EventRepo{
		session: session,
		logger:  logger,
		Tracer:  tracer,
	}, nil
}

func (er *EventRepo) CloseSession() {
	er.session.Close()
}

func (er *EventRepo) CreateTable() {
	err := er.session.Query(
		`CREATE TABLE IF NOT EXISTS booking_events (
        event_id_time_created timeuuid,
        event text,
        user_id text,
        room_id text,
        booking_id text,
        PRIMARY KEY ((user_id, event_id_time_created), booking_id)
    ) WITH CLUSTERING ORDER BY (booking_id ASC);`,
	).Exec()

	if err != nil {
		er.logger.Error(err)
	}
}

func (er *EventRepo) InsertEvent(ctx context.Context, event *data.BookingEvent) error {
	ctx, span := er.Tracer.Start(ctx, "EventRepository.InsertEvent")
	defer span.End()

	eventID := gocql.TimeUUID()

	err := er.session.Query(
		`INSERT INTO booking_events
         (event_id_time_created, event, user_id, room_id, booking_id)
         VALUES (?, ?, ?, ?, ?)`,
		eventID,
		event.Event,
		event.UserID,
		event.RoomID,
		event.BookingID,
	).WithContext(ctx).Exec()

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		er.logger.Error(err)
		return err
	}

	return nil
}
