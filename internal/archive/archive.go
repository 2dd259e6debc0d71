package archive

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/paperfold/receiptscan/internal/extract"
)

const bucketName = "extractions"

// Record is one archived extraction.
type Record struct {
	Document    string          `json:"document"`
	ExtractedAt time.Time       `json:"extracted_at"`
	Result      *extract.Result `json:"result"`
}

// Store persists extraction results in a local BoltDB file.
type Store struct {
	db *bbolt.DB
}

// NewStore opens (or creates) the archive at path.
func NewStore(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Save stores the result keyed by the document path, replacing any earlier
// extraction of the same document.
func (s *Store) Save(document string, result *extract.Result) error {
	record := Record{
		Document:    document,
		ExtractedAt: time.Now().UTC(),
		Result:      result,
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshaling record: %w", err)
		}
		return tx.Bucket([]byte(bucketName)).Put([]byte(document), data)
	})
}

// Get retrieves the archived record for a document.
func (s *Store) Get(document string) (*Record, error) {
	var record *Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(document))
		if data == nil {
			return fmt.Errorf("extraction not found: %s", document)
		}
		return json.Unmarshal(data, &record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// List returns all archived records.
func (s *Store) List() ([]*Record, error) {
	records := make([]*Record, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).ForEach(func(k, v []byte) error {
			var record Record
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("unmarshaling record: %w", err)
			}
			records = append(records, &record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Close closes the database file.
func (s *Store) Close() error {
	return s.db.Close()
}
