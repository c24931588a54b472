package rentals

import (
	"io"

	"github.com/boreq/errors"
	"go.cryptoscope.co/margaret"
	"go.cryptoscope.co/margaret/offset2"
)

// MargaretJournal stores journal entries in a margaret offset log, the
// sequence of an entry is its position in the log.
type MargaretJournal struct {
	log *offset2.OffsetLog
}

func NewMargaretJournal(dir string, codec *RecordCodec) (*MargaretJournal, error) {
	log, err := offset2.Open(dir, newJournalEntryCodec(codec))
	if err != nil {
		return nil, errors.Wrap(err, "error calling open")
	}

	return &MargaretJournal{log: log}, nil
}

func (m *MargaretJournal) Append(entry JournalEntry) error {
	if _, err := m.log.Append(entry); err != nil {
		return errors.Wrap(err, "error calling append")
	}

	return nil
}

func (m *MargaretJournal) Get(seq int64) (JournalEntry, error) {
	v, err := m.log.Get(seq)
	if err != nil {
		return JournalEntry{}, errors.Wrap(err, "error calling get")
	}

	entry, ok := v.(JournalEntry)
	if !ok {
		return JournalEntry{}, errors.New("unexpected value type")
	}

	return entry, nil
}

func (m *MargaretJournal) Close() error {
	return m.log.Close()
}

// journalEntryCodec lets the offset log store journal entries directly, the
// operation byte and the record are verified whenever an entry is read back.
type journalEntryCodec struct {
	codec *RecordCodec
}

func newJournalEntryCodec(codec *RecordCodec) *journalEntryCodec {
	return &journalEntryCodec{codec: codec}
}

func (c *journalEntryCodec) Marshal(value interface{}) ([]byte, error) {
	entry, ok := value.(JournalEntry)
	if !ok {
		return nil, errors.New("value is not a journal entry")
	}

	return encodeJournalEntry(c.codec, entry)
}

func (c *journalEntryCodec) Unmarshal(data []byte) (interface{}, error) {
	entry, err := decodeJournalEntry(c.codec, data)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding the entry")
	}

	return entry, nil
}

func (c *journalEntryCodec) NewDecoder(r io.Reader) margaret.Decoder {
	return &journalEntryDecoder{r: r, codec: c}
}

func (c *journalEntryCodec) NewEncoder(w io.Writer) margaret.Encoder {
	return &journalEntryEncoder{w: w, codec: c}
}

type journalEntryEncoder struct {
	w     io.Writer
	codec *journalEntryCodec
}

func (e *journalEntryEncoder) Encode(v interface{}) error {
	b, err := e.codec.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "error marshaling the entry")
	}

	if _, err := e.w.Write(b); err != nil {
		return errors.Wrap(err, "error writing the entry")
	}

	return nil
}

// journalEntryDecoder expects the reader to contain exactly one entry.
type journalEntryDecoder struct {
	r     io.Reader
	codec *journalEntryCodec
}

func (d *journalEntryDecoder) Decode() (interface{}, error) {
	b, err := io.ReadAll(d.r)
	if err != nil {
		return nil, errors.Wrap(err, "error reading the entry")
	}

	return d.codec.Unmarshal(b)
}
