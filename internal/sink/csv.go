// Package sink streams scraped reviews to a CSV file.
package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/filberthamijoyo/CinematicAI/internal/scrape"
)

// Header is the fixed column order of the output file.
var Header = []string{
	"title", "year", "genres", "imdb_rating",
	"director", "cast", "user_rating", "helpful", "review_text",
}

// listSep joins list-valued fields (genres, cast) inside one CSV cell.
const listSep = ", "

// CSV writes one row per review and flushes after each row so partially
// failed runs keep everything produced so far. Not safe for concurrent use:
// the coordinator's single result-draining goroutine is the only writer.
type CSV struct {
	file   *os.File
	writer *csv.Writer
	rows   int
	logger *zap.Logger
}

// NewCSV creates (or truncates) the output file and writes the header row.
func NewCSV(path string, logger *zap.Logger) (*CSV, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output %s: %w", path, err)
	}
	writer := csv.NewWriter(file)
	if err := writer.Write(Header); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("flush header: %w", err)
	}
	return &CSV{
		file:   file,
		writer: writer,
		logger: logger,
	}, nil
}

// WriteReview appends one row.
func (c *CSV) WriteReview(r scrape.Review) error {
	record := []string{
		r.Movie.Title,
		r.Movie.Year,
		strings.Join(r.Movie.Genres, listSep),
		r.Movie.Rating,
		r.Movie.Director,
		strings.Join(r.Movie.Cast, listSep),
		r.UserRating,
		r.Helpful,
		r.Text,
	}
	if err := c.writer.Write(record); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return fmt.Errorf("flush row: %w", err)
	}
	c.rows++
	return nil
}

// Rows reports how many review rows have been written, excluding the header.
func (c *CSV) Rows() int {
	return c.rows
}

// Close flushes and closes the underlying file.
func (c *CSV) Close() error {
	c.writer.Flush()
	flushErr := c.writer.Error()
	if err := c.file.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if flushErr != nil {
		return fmt.Errorf("flush output: %w", flushErr)
	}
	c.logger.Info("output file closed", zap.Int("rows", c.rows), zap.String("path", c.file.Name()))
	return nil
}
