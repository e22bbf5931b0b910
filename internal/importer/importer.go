package importer

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"shortlist/internal/watchlist"
)

// ErrNoTitles indicates the input parsed cleanly but contained nothing to add.
var ErrNoTitles = errors.New("no titles found in input")

// Title is one imported entry before it reaches the store.
type Title struct {
	Name string
	Type watchlist.MediaType
}

// Lines reads one title per line, skipping blank lines and surrounding
// whitespace. Lines starting with '#' are treated as comments.
func Lines(r io.Reader) ([]Title, error) {
	scanner := bufio.NewScanner(r)
	var titles []Title
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		titles = append(titles, Title{Name: line, Type: watchlist.MediaTypeUnknown})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if len(titles) == 0 {
		return nil, ErrNoTitles
	}
	return titles, nil
}

// JSON reads titles from a JSON document. Three shapes are accepted:
//
//   - an array of strings
//   - an array of objects carrying "title" or "name", optionally "type"
//   - an object whose first array-valued top-level field holds either of
//     the above
//
// A malformed document rejects the whole import; nothing is partially
// applied.
func JSON(r io.Reader) ([]Title, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, ErrNoTitles
	}

	switch trimmed[0] {
	case '[':
		return parseArray(json.RawMessage(trimmed))
	case '{':
		return parseWrapped([]byte(trimmed))
	default:
		return nil, errors.New("input is not a JSON array or object")
	}
}

type titleObject struct {
	Title string `json:"title"`
	Name  string `json:"name"`
	Type  string `json:"type"`
}

func parseArray(raw json.RawMessage) ([]Title, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse list: %w", err)
	}

	var titles []Title
	for i, item := range items {
		title, err := parseItem(item)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if title.Name == "" {
			continue
		}
		titles = append(titles, title)
	}
	if len(titles) == 0 {
		return nil, ErrNoTitles
	}
	return titles, nil
}

func parseItem(raw json.RawMessage) (Title, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "\"") {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return Title{}, err
		}
		return Title{Name: strings.TrimSpace(name), Type: watchlist.MediaTypeUnknown}, nil
	}

	var obj titleObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Title{}, err
	}
	name := strings.TrimSpace(obj.Title)
	if name == "" {
		name = strings.TrimSpace(obj.Name)
	}
	if name == "" {
		return Title{}, errors.New("missing title")
	}
	mediaType, ok := watchlist.ParseMediaType(obj.Type)
	if !ok {
		return Title{}, fmt.Errorf("unknown media type %q", obj.Type)
	}
	return Title{Name: name, Type: mediaType}, nil
}

// parseWrapped walks the object's top-level fields in document order and
// imports from the first one holding an array.
func parseWrapped(data []byte) ([]Title, error) {
	decoder := json.NewDecoder(strings.NewReader(string(data)))

	tok, err := decoder.Token()
	if err != nil {
		return nil, fmt.Errorf("parse object: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("input is not a JSON object")
	}

	for decoder.More() {
		if _, err := decoder.Token(); err != nil {
			return nil, fmt.Errorf("parse object: %w", err)
		}
		var value json.RawMessage
		if err := decoder.Decode(&value); err != nil {
			return nil, fmt.Errorf("parse object: %w", err)
		}
		if strings.HasPrefix(strings.TrimSpace(string(value)), "[") {
			return parseArray(value)
		}
	}

	return nil, errors.New("object has no list field")
}
