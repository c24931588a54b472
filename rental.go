package rentals

import (
	"math"
	"time"
)

// Timestamp is a number of nanoseconds since the Unix epoch.
type Timestamp uint64

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t.UnixNano())
}

func (t Timestamp) Time() time.Time {
	return time.Unix(0, int64(t))
}

type Rental struct {
	ID              uint64     `json:"id"`
	MotorcycleBrand string     `json:"motorcycle_brand"`
	DailyRate       uint64     `json:"daily_rate"`
	RentalDate      string     `json:"rental_date"`
	RenterName      string     `json:"renter_name"`
	RentalDays      uint64     `json:"rental_days"`
	UpdatedAt       *Timestamp `json:"updated_at,omitempty"`
}

type RentalInput struct {
	MotorcycleBrand string `json:"motorcycle_brand"`
	DailyRate       uint64 `json:"daily_rate"`
	RentalDate      string `json:"rental_date"`
	RenterName      string `json:"renter_name"`
	RentalDays      uint64 `json:"rental_days"`
}

func newRental(id uint64, input RentalInput) Rental {
	return Rental{
		ID:              id,
		MotorcycleBrand: input.MotorcycleBrand,
		DailyRate:       input.DailyRate,
		RentalDate:      input.RentalDate,
		RenterName:      input.RenterName,
		RentalDays:      input.RentalDays,
	}
}

const tooLargeReason = "rental is too large to be stored"

// validate checks the required fields and makes sure that a rental created
// from this input can always be encoded, no matter which id and timestamp it
// ends up with. Compression overhead is checked when the rental is stored.
func validate(input RentalInput) error {
	switch {
	case input.MotorcycleBrand == "":
		return InvalidInputError{Reason: "motorcycle brand is empty"}
	case input.RentalDate == "":
		return InvalidInputError{Reason: "rental date is empty"}
	case input.RenterName == "":
		return InvalidInputError{Reason: "renter name is empty"}
	case input.RentalDays == 0:
		return InvalidInputError{Reason: "rental days must not be zero"}
	}

	worstCase := newRental(math.MaxUint64, input)
	updatedAt := Timestamp(math.MaxUint64)
	worstCase.UpdatedAt = &updatedAt

	if encodedSize(worstCase) > MaxRecordSize {
		return InvalidInputError{Reason: tooLargeReason}
	}

	return nil
}
