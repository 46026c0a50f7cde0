package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors" // Standard errors package

	"github.com/mcncl/jsonfmt/internal/errors" // Custom errors package
	"github.com/mcncl/jsonfmt/internal/models"
)

// Parse decodes exactly one JSON value from reader. Object members keep
// their source order; a repeated key keeps its first position and takes
// the last value.
func Parse(reader io.Reader) (models.Value, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber() // Numbers keep their source literal

	root, err := decodeValue(decoder)
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.Value{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return models.Value{}, wrapDecodeError(err)
	}

	// Anything other than EOF after the root value is either a second
	// value or garbage.
	if _, err := decoder.Token(); err != nil {
		if !stderrors.Is(err, io.EOF) {
			return models.Value{}, errors.NewParsingError("invalid trailing data after first JSON value", err)
		}
	} else {
		return models.Value{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	}

	return root, nil
}

func wrapDecodeError(err error) error {
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
			errors.ErrInvalidJSON,
		)
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
	}
	return errors.NewParsingError("failed to decode JSON", err)
}

// decodeValue reads the next complete value from the token stream.
func decodeValue(decoder *json.Decoder) (models.Value, error) {
	tok, err := decoder.Token()
	if err != nil {
		return models.Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return models.NullValue(), nil
	case bool:
		return models.BoolValue(t), nil
	case json.Number:
		return models.NumberValue(t), nil
	case string:
		return models.StringValue(t), nil
	case json.Delim:
		switch t {
		case '[':
			return decodeArray(decoder)
		case '{':
			return decodeObject(decoder)
		}
	}
	return models.Value{}, fmt.Errorf("unexpected token %v: %w", tok, errors.ErrInvalidJSON)
}

func decodeArray(decoder *json.Decoder) (models.Value, error) {
	items := []models.Value{}
	for decoder.More() {
		item, err := decodeValue(decoder)
		if err != nil {
			return models.Value{}, unexpectedEOF(err)
		}
		items = append(items, item)
	}
	if err := expectDelim(decoder, ']'); err != nil {
		return models.Value{}, err
	}
	return models.ArrayValue(items...), nil
}

func decodeObject(decoder *json.Decoder) (models.Value, error) {
	members := []models.Member{}
	index := make(map[string]int)
	for decoder.More() {
		tok, err := decoder.Token()
		if err != nil {
			return models.Value{}, unexpectedEOF(err)
		}
		key, ok := tok.(string)
		if !ok {
			return models.Value{}, fmt.Errorf("object key is %v, not a string: %w", tok, errors.ErrInvalidJSON)
		}
		value, err := decodeValue(decoder)
		if err != nil {
			return models.Value{}, unexpectedEOF(err)
		}
		if i, seen := index[key]; seen {
			members[i].Value = value
			continue
		}
		index[key] = len(members)
		members = append(members, models.Member{Key: key, Value: value})
	}
	if err := expectDelim(decoder, '}'); err != nil {
		return models.Value{}, err
	}
	return models.ObjectValue(members...), nil
}

func expectDelim(decoder *json.Decoder, want json.Delim) error {
	tok, err := decoder.Token()
	if err != nil {
		return unexpectedEOF(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v: %w", want, tok, errors.ErrInvalidJSON)
	}
	return nil
}

// unexpectedEOF turns a bare EOF inside a container into ErrUnexpectedEOF so
// that a truncated document is not reported as empty input.
func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Value, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.Value{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Value{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Value{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Value{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return models.Value{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.Value{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file)
}
