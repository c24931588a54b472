package rentals

import (
	"math"

	"github.com/boreq/errors"
)

var counterKey = []byte("next_id")

type CounterReader struct {
	region RegionReader
}

func NewCounterReader(reader Reader) (*CounterReader, error) {
	region, err := reader.Region(CounterRegion)
	if err != nil {
		return nil, errors.Wrap(err, "error getting the counter region")
	}

	return &CounterReader{region: region}, nil
}

// Current returns the id which will be assigned next. A counter which was
// never persisted starts at zero.
func (c *CounterReader) Current() (uint64, error) {
	return currentCounterValue(c.region)
}

type CounterUpdater struct {
	region RegionUpdater
}

func NewCounterUpdater(updater Updater) (*CounterUpdater, error) {
	region, err := updater.Region(CounterRegion)
	if err != nil {
		return nil, errors.Wrap(err, "error getting the counter region")
	}

	return &CounterUpdater{region: region}, nil
}

// Init persists the initial value of the counter unless a value already
// exists.
func (c *CounterUpdater) Init() error {
	b, err := c.region.Get(counterKey)
	if err != nil {
		return errors.Wrap(err, "error calling get")
	}

	if b != nil {
		if _, ok := unmarshalScalar(b); !ok {
			return errors.Wrap(ErrCorruptedRecord, "invalid counter value")
		}
		return nil
	}

	if err := c.region.Put(counterKey, marshalScalar(0)); err != nil {
		return errors.Wrap(err, "error calling put")
	}

	return nil
}

// Next persists the incremented counter and returns the value from before
// the increment.
func (c *CounterUpdater) Next() (uint64, error) {
	current, err := currentCounterValue(c.region)
	if err != nil {
		return 0, errors.Wrap(err, "error getting the current value")
	}

	if current == math.MaxUint64 {
		return 0, ErrCounterOverflow
	}

	if err := c.region.Put(counterKey, marshalScalar(current+1)); err != nil {
		return 0, errors.Wrap(err, "error calling put")
	}

	return current, nil
}

func currentCounterValue(region RegionReader) (uint64, error) {
	b, err := region.Get(counterKey)
	if err != nil {
		return 0, errors.Wrap(err, "error calling get")
	}

	if b == nil {
		return 0, nil
	}

	v, ok := unmarshalScalar(b)
	if !ok {
		return 0, errors.Wrap(ErrCorruptedRecord, "invalid counter value")
	}

	return v, nil
}
