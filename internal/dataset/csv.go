package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// csvColumns is the canonical board_game.csv column order.
var csvColumns = []string{
	"game_id", "name", "year_published",
	"min_players", "max_players",
	"min_playtime", "max_playtime", "playing_time",
	"min_age", "users_rated", "average_rating",
	"thumbnail", "image",
	"category", "mechanic", "publisher",
	"designer", "artist", "family",
	"expansion", "compilation",
}

// Load reads a board game table from a CSV file. Missing category, mechanic
// or publisher cells become "Unknown" before list splitting, so every game
// carries at least one value in each of those columns.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a board game table from CSV. Columns are resolved by header
// name, so column order and extra columns are tolerated.
func Read(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, required := range []string{"game_id", "name", "average_rating"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("dataset is missing required column %q", required)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
	intCell := func(row []string, name string) int {
		v, _ := strconv.Atoi(cell(row, name))
		return v
	}
	listCell := func(row []string, name string, fillUnknown bool) []string {
		raw := cell(row, name)
		if raw == "" && fillUnknown {
			raw = "Unknown"
		}
		return SplitList(raw)
	}

	var table Table
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		rating, _ := strconv.ParseFloat(cell(row, "average_rating"), 64)
		table = append(table, Game{
			ID:            intCell(row, "game_id"),
			Name:          cell(row, "name"),
			YearPublished: intCell(row, "year_published"),
			MinPlayers:    intCell(row, "min_players"),
			MaxPlayers:    intCell(row, "max_players"),
			MinPlaytime:   intCell(row, "min_playtime"),
			MaxPlaytime:   intCell(row, "max_playtime"),
			PlayingTime:   intCell(row, "playing_time"),
			MinAge:        intCell(row, "min_age"),
			UsersRated:    intCell(row, "users_rated"),
			AverageRating: rating,
			Thumbnail:     cell(row, "thumbnail"),
			Image:         cell(row, "image"),
			Category:      listCell(row, "category", true),
			Mechanic:      listCell(row, "mechanic", true),
			Publisher:     listCell(row, "publisher", true),
			Designer:      listCell(row, "designer", false),
			Artist:        listCell(row, "artist", false),
			Family:        listCell(row, "family", false),
			Expansion:     listCell(row, "expansion", false),
			Compilation:   listCell(row, "compilation", false),
		})
	}
	return table, nil
}

// Save writes the table to a CSV file in the canonical column order.
func Save(path string, table Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer f.Close()
	if err := Write(f, table); err != nil {
		return err
	}
	return f.Close()
}

// Write encodes the table as CSV.
func Write(w io.Writer, table Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := range table {
		g := &table[i]
		row := []string{
			strconv.Itoa(g.ID),
			g.Name,
			strconv.Itoa(g.YearPublished),
			strconv.Itoa(g.MinPlayers),
			strconv.Itoa(g.MaxPlayers),
			strconv.Itoa(g.MinPlaytime),
			strconv.Itoa(g.MaxPlaytime),
			strconv.Itoa(g.PlayingTime),
			strconv.Itoa(g.MinAge),
			strconv.Itoa(g.UsersRated),
			strconv.FormatFloat(g.AverageRating, 'f', -1, 64),
			g.Thumbnail,
			g.Image,
			JoinList(g.Category),
			JoinList(g.Mechanic),
			JoinList(g.Publisher),
			JoinList(g.Designer),
			JoinList(g.Artist),
			JoinList(g.Family),
			JoinList(g.Expansion),
			JoinList(g.Compilation),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
