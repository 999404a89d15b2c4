// csv_table.go
//
// NuTraDaily, a nutrition and daily activity tracking service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of nutradaily.
// nutradaily is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// nutradaily is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with nutradaily.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// Codec maps one row type to and from CSV records
type Codec[T any] interface {
	Header() []string
	Encode(row T) []string
	Decode(record []string) (T, error)
}

// CSVTable keeps a whole collection in one CSV file with a header line
type CSVTable[T any] struct {
	path  string
	codec Codec[T]
}

// NewCSVTable creates a table stored at path
func NewCSVTable[T any](path string, codec Codec[T]) *CSVTable[T] {
	return &CSVTable[T]{path: path, codec: codec}
}

// Path returns the backing file path
func (t *CSVTable[T]) Path() string {
	return t.path
}

// Ensure writes an empty table (header only) if the file does not exist yet
func (t *CSVTable[T]) Ensure(ctx context.Context) error {
	if _, err := os.Stat(t.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return loadError(t.path, err)
	}
	return t.ReplaceAll(ctx, nil)
}

// LoadAll reads every record. A missing file is an empty table; a header that
// differs from the codec's header is reported, never repaired.
func (t *CSVTable[T]) LoadAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, loadError(t.path, err)
	}

	f, err := os.Open(t.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, loadError(t.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, loadError(t.path, fmt.Errorf("%w: missing header", ErrSchemaMismatch))
	}
	if err != nil {
		return nil, loadError(t.path, err)
	}

	want := t.codec.Header()
	if !slices.Equal(header, want) {
		return nil, loadError(t.path, fmt.Errorf("%w: got columns %v, want %v", ErrSchemaMismatch, header, want))
	}
	reader.FieldsPerRecord = len(want)

	var rows []T
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, loadError(t.path, err)
		}

		row, err := t.codec.Decode(record)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, loadError(t.path, fmt.Errorf("line %d: %w", line, err))
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ReplaceAll rewrites the whole file. The new content is written to a temporary
// file in the same directory and renamed over the old one.
func (t *CSVTable[T]) ReplaceAll(ctx context.Context, rows []T) error {
	if err := ctx.Err(); err != nil {
		return replaceError(t.path, err)
	}

	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return replaceError(t.path, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(t.path)+".*.tmp")
	if err != nil {
		return replaceError(t.path, err)
	}
	tmpName := tmp.Name()

	if err := t.write(tmp, rows); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return replaceError(t.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return replaceError(t.path, err)
	}
	if err := os.Rename(tmpName, t.path); err != nil {
		os.Remove(tmpName)
		return replaceError(t.path, err)
	}

	return nil
}

func (t *CSVTable[T]) write(f *os.File, rows []T) error {
	w := csv.NewWriter(f)
	if err := w.Write(t.codec.Header()); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(t.codec.Encode(row)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Sync()
}
