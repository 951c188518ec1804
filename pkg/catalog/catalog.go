// Package catalog maps rows of an item CSV onto the keyed item template
// used by a point-of-sale app: each entry has a display title and a
// price, and is keyed by the lower-cased title.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Fields holds the zero-based column positions to read.
type Fields struct {
	Title  int
	Price  int
	Prefix *int // optional column prepended to the title, e.g. a category
}

// Item is one point-of-sale entry.
type Item struct {
	Title string `yaml:"title" json:"title"`
	Price string `yaml:"price" json:"price"`
}

// MissingColumnError is returned when a record is too short for one of
// the configured columns.
type MissingColumnError struct {
	Description string
	Index       int
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("the column for %s (position: %d) is missing", e.Description, e.Index)
}

// Build reads every record after the header row and returns the items by
// key. A later record with the same key replaces an earlier one.
// Errors from the CSV reader are returned unchanged.
func Build(r io.Reader, fields Fields) (map[string]Item, error) {
	reader := csv.NewReader(r)

	// The first record is the header.
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]Item{}, nil
		}
		return nil, err
	}

	items := make(map[string]Item)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		key, item, err := FromRecord(record, fields)
		if err != nil {
			return nil, err
		}
		items[key] = item
	}

	return items, nil
}

// FromRecord builds the key and item for a single record.
func FromRecord(record []string, fields Fields) (string, Item, error) {
	title, err := column(record, fields.Title, "title")
	if err != nil {
		return "", Item{}, err
	}
	price, err := column(record, fields.Price, "price")
	if err != nil {
		return "", Item{}, err
	}

	if fields.Prefix == nil {
		return strings.ToLower(title), Item{Title: title, Price: price}, nil
	}

	prefix, err := column(record, *fields.Prefix, "title prefix")
	if err != nil {
		return "", Item{}, err
	}
	key := strings.ToLower(prefix) + " - " + strings.ToLower(title)
	return key, Item{Title: prefix + " - " + title, Price: price}, nil
}

func column(record []string, index int, description string) (string, error) {
	if index < 0 || index >= len(record) {
		return "", &MissingColumnError{Description: description, Index: index}
	}
	return record[index], nil
}
