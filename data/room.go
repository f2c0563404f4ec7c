package data

import (
	"encoding/json"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlockedPeriod is a half-open [Start, End) interval during which the host
// keeps the room off the market (maintenance, manual hold). Periods may
// overlap each other; Start must precede End.
type BlockedPeriod struct {
	StartDate time.Time `bson:"start_date" json:"start_date"`
	EndDate   time.Time `bson:"end_date" json:"end_date"`
	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"`
}

type Room struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HotelID      primitive.ObjectID `bson:"hotel_id" json:"hotel_id"`
	RoomNumber   string             `bson:"room_number,omitempty" json:"room_number,omitempty"`
	BasePrice    float64            `bson:"base_price" json:"base_price"`
	WeekendPrice float64            `bson:"weekend_price,omitempty" json:"weekend_price,omitempty"`
	MaxOccupancy int                `bson:"max_occupancy" json:"max_occupancy"`
	IsAvailable  bool               `bson:"is_available" json:"is_available"`
	BlockedDates []BlockedPeriod    `bson:"blocked_dates,omitempty" json:"blocked_dates,omitempty"`
}

func (r *Room) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(r)
}

func (r *Room) FromJSON(rd io.Reader) error {
	d := json.NewDecoder(rd)
	return d.Decode(r)
}
